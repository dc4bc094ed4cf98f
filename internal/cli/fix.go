package cli

import (
	"fmt"
	"os"

	"github.com/nerdneilsfield/paradox-mod-translator/internal/document"
	"github.com/nerdneilsfield/paradox-mod-translator/pkg/locfile"
	"github.com/spf13/cobra"
)

// newFixCommand 创建 fix 命令
func newFixCommand(opts *rootOptions) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "fix <file>...",
		Short: "就地修复本地化文件的常见格式问题",
		Long: `修复 key:0 "value" 形式的数字编号、补全缺失的双引号、将缩进调整为 2 的倍数。
文件原有的 BOM 会被保留。使用 --check 只报告需要修复的文件。`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			changed := 0
			for _, path := range args {
				fixed, err := fixFile(path, check)
				if err != nil {
					return err
				}
				switch {
				case fixed && check:
					fmt.Fprintf(out, "needs fixing: %s\n", path)
				case fixed:
					fmt.Fprintf(out, "fixed: %s\n", path)
				case opts.verbose:
					fmt.Fprintf(out, "unchanged: %s\n", path)
				}
				if fixed {
					changed++
				}
			}
			if check && changed > 0 {
				return fmt.Errorf("%w: %d files need fixing", ErrProblemsFound, changed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "只检查，不写回")
	return cmd
}

// fixFile 修复一个文件，返回内容是否发生变化
func fixFile(path string, dryRun bool) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	text, err := document.Decode(data)
	if err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}

	normalized := locfile.Normalize(text)
	if normalized == text {
		return false, nil
	}
	if dryRun {
		return true, nil
	}
	return true, document.WritePlainFile(path, normalized, document.HasBOM(data))
}
