package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nerdneilsfield/paradox-mod-translator/internal/datadir"
	"github.com/nerdneilsfield/paradox-mod-translator/internal/translator"
	"github.com/nerdneilsfield/paradox-mod-translator/pkg/glossary"
	"github.com/spf13/cobra"
)

// newGlossaryCommand 创建 glossary 命令
func newGlossaryCommand(opts *rootOptions) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "glossary [name]...",
		Short: "加载并合并术语表，预览注入提示词的术语片段",
		Long: `不带参数时列出数据目录中可用的术语表。
带名称时按 glossary_custom/ 然后 glossary/ 的顺序查找并合并（后者优先），
使用 --text 时输出该文本会注入提示词的 CSV 术语片段。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			resolver := datadir.New(cfg.DataDirs)
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				names := resolver.Glossaries()
				if len(names) == 0 {
					fmt.Fprintf(out, "no glossaries found in: %s\n", strings.Join(resolver.Dirs(), ", "))
					return nil
				}
				for _, name := range names {
					fmt.Fprintf(out, "  - %s\n", name)
				}
				return nil
			}

			targetLang := ""
			if len(cfg.TargetLangs) > 0 {
				targetLang = cfg.TargetLangs[0]
			}
			mode, err := glossary.ParseMatchMode(cfg.GlossaryMatch)
			if err != nil {
				return err
			}

			g, err := translator.LoadGlossaries(resolver, args, cfg.SourceLang, targetLang, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s -> %s: %d entries\n", cfg.SourceLang, targetLang, g.Len())

			if text == "" {
				if opts.verbose {
					printEntries(cmd, g)
				}
				return nil
			}

			index, err := glossary.NewIndex(g, mode)
			if err != nil {
				return err
			}
			terms := index.FindTerms(text)
			if len(terms) == 0 {
				fmt.Fprintln(out, translator.NoTermsMarker)
				return nil
			}
			fmt.Fprintln(out, index.ToCSV(cfg.SourceLang, targetLang, terms))
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "预览这段文本匹配到的术语")
	cmd.Flags().StringSliceVar(&opts.targetLangs, "target", nil, "目标语言（默认 target_langs 的第一个）")
	cmd.Flags().StringVar(&opts.glossaryMatch, "glossary-match", "", "术语匹配方式 (word, substring)")
	return cmd
}

// printEntries 以表格打印术语表条目
func printEntries(cmd *cobra.Command, g *glossary.Glossary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	tw.AppendHeader(table.Row{"Source", "Target", "Force"})
	for _, e := range g.Entries() {
		tw.AppendRow(table.Row{e.Source, e.Target, e.Force})
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}
