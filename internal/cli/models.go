package cli

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// newModelsCommand 创建 models 命令
func newModelsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "列出配置中的模型",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(cfg.ModelConfigs))
			for name := range cfg.ModelConfigs {
				names = append(names, name)
			}
			sort.Strings(names)

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"", "Name", "Model ID", "API Type", "Base URL", "Reasoning"})
			for _, name := range names {
				m := cfg.ModelConfigs[name]
				marker := ""
				if name == cfg.DefaultModelName {
					marker = "*"
				}
				tw.AppendRow(table.Row{marker, name, m.ModelID, m.APIType, m.BaseURL, m.IsReasoning})
			}
			tw.SetStyle(table.StyleLight)
			tw.Render()
			return nil
		},
	}
}
