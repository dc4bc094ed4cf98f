// Package cli pmt 命令行
package cli

import (
	"errors"
	"fmt"

	"github.com/nerdneilsfield/paradox-mod-translator/internal/config"
	"github.com/nerdneilsfield/paradox-mod-translator/internal/logger"
	"github.com/nerdneilsfield/paradox-mod-translator/internal/progress"
	"github.com/nerdneilsfield/paradox-mod-translator/internal/report"
	"github.com/nerdneilsfield/paradox-mod-translator/internal/translator"
	"github.com/nerdneilsfield/paradox-mod-translator/pkg/llm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrFilesFailed 至少一个文件翻译失败，进程以 1 退出
var ErrFilesFailed = errors.New("some files failed")

// rootOptions 根命令的标志
type rootOptions struct {
	cfgFile       string
	sourceLang    string
	targetLangs   []string
	sourceDir     string
	targetDir     string
	glossaries    []string
	model         string
	concurrency   int
	chunkSize     int
	glossaryMatch string
	forcePolicy   string
	dryRun        bool
	showProgress  bool
	noStats       bool
	debug         bool
	verbose       bool
	noColor       bool
}

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "pmt",
		Short: "Paradox 模组本地化文件翻译工具",
		Long: `pmt 使用大语言模型翻译 Paradox 游戏模组的本地化文件（l_<lang>.yml）。

遍历 source_dir 中的 .yml/.yaml 文件，修复常见格式问题，按条目切分后并发翻译，
校验键和游戏标记（£icon£、$VAR$、§Y、[Command]）是否保留，最后写出带 BOM 的目标语言文件。

示例:
  pmt --source english --target simp_chinese --glossary eu4
  pmt --config mod.yaml --dry-run
  pmt check l_english.yml l_simp_chinese.yml`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, opts)
		},
	}

	addGlobalFlags(rootCmd, opts)

	flags := rootCmd.Flags()
	flags.StringSliceVar(&opts.targetLangs, "target", nil, "目标语言，可重复或用逗号分隔")
	flags.StringVar(&opts.sourceDir, "source-dir", "", "源文件目录")
	flags.StringVar(&opts.targetDir, "target-dir", "", "输出目录，{lang} 会被替换为目标语言")
	flags.StringSliceVar(&opts.glossaries, "glossary", nil, "术语表名称，可重复，后者优先")
	flags.StringVar(&opts.model, "model", "", "使用的模型（models 中的名称）")
	flags.IntVar(&opts.concurrency, "concurrency", 0, "同时进行的远程请求数")
	flags.IntVar(&opts.chunkSize, "chunk-size", 0, "分块预算")
	flags.StringVar(&opts.glossaryMatch, "glossary-match", "", "术语匹配方式 (word, substring)")
	flags.StringVar(&opts.forcePolicy, "force-policy", "", "强制术语缺失时的处理 (report, fail)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "预演模式：原样回显，不调用模型也不写文件")
	flags.BoolVar(&opts.showProgress, "progress", false, "显示进度条")
	flags.BoolVar(&opts.noStats, "no-stats", false, "不记录本次运行的历史")

	rootCmd.AddCommand(newCheckCommand(opts))
	rootCmd.AddCommand(newFixCommand(opts))
	rootCmd.AddCommand(newGlossaryCommand(opts))
	rootCmd.AddCommand(newModelsCommand(opts))
	rootCmd.AddCommand(newStatsCommand(opts))

	return rootCmd
}

// addGlobalFlags 添加全局标志
func addGlobalFlags(rootCmd *cobra.Command, opts *rootOptions) {
	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "配置文件路径（默认查找 $HOME/.pmt.yaml 和 ./.pmt.yaml）")
	rootCmd.PersistentFlags().StringVar(&opts.sourceLang, "source", "", "源语言")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "启用调试模式")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "显示详细日志（包括翻译片段）")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "禁用彩色输出")
}

// loadConfig 加载配置并用命令行参数覆盖
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.cfgFile)
	if err != nil {
		return nil, err
	}
	updateConfigFromFlags(cmd, cfg, opts)
	return cfg, nil
}

// updateConfigFromFlags 使用命令行参数更新配置
func updateConfigFromFlags(cmd *cobra.Command, cfg *config.Config, opts *rootOptions) {
	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.SourceLang = opts.sourceLang
	}
	if flags.Changed("target") {
		cfg.TargetLangs = opts.targetLangs
	}
	if flags.Changed("source-dir") {
		cfg.SourceDir = opts.sourceDir
	}
	if flags.Changed("target-dir") {
		cfg.TargetDir = opts.targetDir
	}
	if flags.Changed("glossary") {
		cfg.Glossaries = opts.glossaries
	}
	if flags.Changed("model") {
		cfg.DefaultModelName = opts.model
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = opts.concurrency
	}
	if flags.Changed("chunk-size") {
		cfg.MaxChunkSize = opts.chunkSize
	}
	if flags.Changed("glossary-match") {
		cfg.GlossaryMatch = opts.glossaryMatch
	}
	if flags.Changed("force-policy") {
		cfg.ForcePolicy = opts.forcePolicy
	}
	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}
	if flags.Changed("no-stats") {
		cfg.NoStats = opts.noStats
	}
}

// runTranslate 执行翻译任务
func runTranslate(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Debug: cfg.Debug, Verbose: cfg.Verbose, LogFile: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	var client llm.Client
	if opts.dryRun {
		client = llm.NewRawClient()
	} else {
		clientCfg, err := cfg.ClientConfig(cfg.DefaultModelName)
		if err != nil {
			return err
		}
		client, err = llm.New(clientCfg, log)
		if err != nil {
			return err
		}
	}
	log.Info("using model", zap.String("model", client.Name()))

	var reporter progress.Reporter = progress.Noop{}
	if opts.showProgress {
		reporter = progress.NewBar(cmd.ErrOrStderr())
	}

	coordinator, err := translator.NewCoordinator(cfg, client, translator.CoordinatorOptions{
		Logger:   log,
		Progress: reporter,
		DryRun:   opts.dryRun,
	})
	if err != nil {
		return err
	}

	summary, err := coordinator.Run(cmd.Context())
	if err != nil {
		return err
	}

	report.New(cmd.OutOrStdout(), opts.noColor).Run(summary)
	if !opts.dryRun && !cfg.NoStats {
		recordRun(cfg, summary, client.Name(), log)
	}
	if summary.HasFailures() {
		return fmt.Errorf("%w: %d of %d", ErrFilesFailed, summary.Failed(), len(summary.Results))
	}
	return nil
}
