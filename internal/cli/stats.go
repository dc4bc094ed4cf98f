package cli

import (
	"fmt"

	"github.com/nerdneilsfield/paradox-mod-translator/internal/config"
	"github.com/nerdneilsfield/paradox-mod-translator/internal/stats"
	"github.com/nerdneilsfield/paradox-mod-translator/internal/translator"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// statsPath 历史文件路径：配置中的 stats_file，否则为默认位置
func statsPath(cfg *config.Config) string {
	if cfg.StatsFile != "" {
		return cfg.StatsFile
	}
	return stats.DefaultPath()
}

// recordRun 把运行汇总写入历史，失败只记录警告
func recordRun(cfg *config.Config, summary *translator.RunSummary, model string, log *zap.Logger) {
	path := statsPath(cfg)
	if path == "" {
		return
	}
	db, err := stats.NewDatabase(path, log)
	if err == nil {
		err = db.AddRun(stats.NewRunRecord(summary, model, cfg.SourceLang))
	}
	if err != nil {
		log.Warn("failed to record run history", zap.String("path", path), zap.Error(err))
	}
}

// newStatsCommand 创建 stats 命令
func newStatsCommand(opts *rootOptions) *cobra.Command {
	var (
		recent int
		pairs  bool
		reset  bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "查看翻译运行历史",
		Long: `显示历次运行的统计：总文件数、失败数、格式问题数和耗时。
历史保存在 stats_file（默认在用户数据目录旁的 stats.json），预演模式和 --no-stats 的运行不会记录。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			path := statsPath(cfg)
			if path == "" {
				return fmt.Errorf("cannot determine stats file location, set stats_file")
			}

			db, err := stats.NewDatabase(path, nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if reset {
				if err := db.Reset(); err != nil {
					return err
				}
				fmt.Fprintf(out, "history cleared: %s\n", path)
				return nil
			}

			v := stats.NewVisualizer(db, out, opts.noColor)
			v.ShowOverview()
			if pairs {
				fmt.Fprintln(out)
				v.ShowLanguagePairs()
			}
			if recent > 0 {
				fmt.Fprintln(out)
				v.ShowRecentRuns(recent)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 5, "显示最近 N 次运行，0 表示不显示")
	cmd.Flags().BoolVar(&pairs, "pairs", false, "显示各语言对的统计")
	cmd.Flags().BoolVar(&reset, "reset", false, "清空历史")
	return cmd
}
