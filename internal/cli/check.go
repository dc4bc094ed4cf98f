package cli

import (
	"errors"
	"fmt"

	"github.com/nerdneilsfield/paradox-mod-translator/internal/document"
	"github.com/nerdneilsfield/paradox-mod-translator/internal/report"
	"github.com/nerdneilsfield/paradox-mod-translator/pkg/locfile"
	"github.com/nerdneilsfield/paradox-mod-translator/pkg/validator"
	"github.com/spf13/cobra"
)

// ErrProblemsFound check 命令发现了格式问题
var ErrProblemsFound = errors.New("format problems found")

// newCheckCommand 创建 check 命令
func newCheckCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <source.yml> <translated.yml>",
		Short: "比较原文件和译文件的键与游戏标记",
		Long: `对两个文件做与翻译时相同的预处理（格式修复、去除语言头），
然后报告缺失或多余的键、丢失或错位的 £icon£ $VAR$ §Y [Command] 标记，
并检查译文件能否被解析为 YAML。发现问题时以 1 退出。`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args[0], args[1])
		},
	}
}

// runCheck 执行 check 命令
func runCheck(cmd *cobra.Command, opts *rootOptions, sourcePath, translatedPath string) error {
	original, err := readBody(sourcePath)
	if err != nil {
		return err
	}
	translated, err := readBody(translatedPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printer := report.New(out, opts.noColor)

	problems := validator.Validate(original.body, translated.body)
	printer.Problems(translatedPath, problems)

	yamlErr := locfile.CheckYAML(translated.raw)
	if yamlErr != nil {
		printer.Failure(translatedPath, fmt.Errorf("not valid YAML: %w", yamlErr))
	}

	if len(problems) == 0 && yamlErr == nil {
		fmt.Fprintf(out, "%s: no problems\n", translatedPath)
		return nil
	}

	counts := validator.Count(problems)
	fmt.Fprintf(out, "%d problems (missing keys %d, extra keys %d, pattern not found %d, pattern mismatch %d)\n",
		len(problems),
		counts[validator.MissingKey], counts[validator.ExtraKey],
		counts[validator.PatternNotFound], counts[validator.PatternMismatch])
	return ErrProblemsFound
}

type checkedFile struct {
	raw  string
	body string
}

// readBody 读取文件，修复格式并去除其自身声明的语言头
func readBody(path string) (checkedFile, error) {
	text, err := document.ReadFile(path)
	if err != nil {
		return checkedFile{}, err
	}
	normalized := locfile.Normalize(text)
	body := normalized
	if lang, ok := locfile.DetectLanguage(normalized); ok {
		_, body = locfile.SplitHeader(normalized, lang)
	}
	return checkedFile{raw: text, body: body}, nil
}
