package translator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nerdneilsfield/paradox-mod-translator/internal/config"
	"github.com/nerdneilsfield/paradox-mod-translator/internal/datadir"
	"github.com/nerdneilsfield/paradox-mod-translator/internal/document"
	"github.com/nerdneilsfield/paradox-mod-translator/internal/progress"
	"github.com/nerdneilsfield/paradox-mod-translator/pkg/glossary"
	"github.com/nerdneilsfield/paradox-mod-translator/pkg/llm"
	"github.com/nerdneilsfield/paradox-mod-translator/pkg/locfile"
	"go.uber.org/zap"
)

// CoordinatorOptions 协调器的可选依赖
type CoordinatorOptions struct {
	Logger   *zap.Logger
	Progress progress.Reporter
	Resolver *datadir.Resolver // 为 nil 时按 cfg.DataDirs 创建
	DryRun   bool              // 不写出任何文件
}

// Coordinator 执行一次完整的翻译任务：遍历源目录，对每个目标语言和文件运行流水线
type Coordinator struct {
	cfg         *config.Config
	translators map[string]*Translator
	batcher     *Batcher
	chunker     *locfile.Chunker
	progress    progress.Reporter
	dryRun      bool
	logger      *zap.Logger
}

// NewCoordinator 加载提示词模板和术语表，为每个目标语言创建翻译器。
// 所有目标语言共享同一个许可池。返回的错误都是配置错误
func NewCoordinator(cfg *config.Config, client llm.Client, opts CoordinatorOptions) (*Coordinator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reporter := opts.Progress
	if reporter == nil {
		reporter = progress.Noop{}
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = datadir.New(cfg.DataDirs)
	}

	template, err := LoadPromptTemplate(resolver, cfg.PromptFile)
	if err != nil {
		return nil, err
	}
	mode, err := glossary.ParseMatchMode(cfg.GlossaryMatch)
	if err != nil {
		return nil, NewTranslationError(ErrCodeConfig, "invalid glossary_match", err)
	}

	size := locfile.RuneCount
	if cfg.ChunkUnit == config.ChunkUnitTokens {
		size = locfile.EstimateTokens
	}

	c := &Coordinator{
		cfg:         cfg,
		translators: make(map[string]*Translator, len(cfg.TargetLangs)),
		batcher:     NewBatcher(cfg.Concurrency),
		chunker:     locfile.NewChunker(cfg.MaxChunkSize, size),
		progress:    reporter,
		dryRun:      opts.DryRun,
		logger:      logger,
	}

	for _, lang := range cfg.TargetLangs {
		g, err := LoadGlossaries(resolver, cfg.Glossaries, cfg.SourceLang, lang, logger)
		if err != nil {
			return nil, err
		}
		index, err := glossary.NewIndex(g, mode)
		if err != nil {
			return nil, NewTranslationError(ErrCodeConfig, "cannot build glossary index", err)
		}
		prompts := NewPromptBuilder(template, index, cfg.SourceLang, lang)
		c.translators[lang] = New(client, prompts, c.batcher, logger.With(zap.String("lang", lang)), Options{
			ForcePolicy: ForcePolicy(cfg.ForcePolicy),
			Verbose:     cfg.Verbose,
		})
	}

	return c, nil
}

// LoadGlossaries 按名称查找并加载术语表，投影到 (sourceLang, targetLang) 后按顺序合并，后加载的优先
func LoadGlossaries(resolver *datadir.Resolver, names []string, sourceLang, targetLang string, logger *zap.Logger) (*glossary.Glossary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loaded := make([]*glossary.Glossary, 0, len(names))
	for _, name := range names {
		path, err := resolver.FindGlossary(name)
		if err != nil {
			return nil, NewTranslationError(ErrCodeConfig, fmt.Sprintf("glossary %q not found", name), err)
		}
		g, err := glossary.LoadFile(path, sourceLang, targetLang)
		if err != nil {
			return nil, &TranslationError{
				Code:    ErrCodeConfig,
				Message: fmt.Sprintf("cannot load glossary %q", name),
				Cause:   err,
				File:    path,
			}
		}
		logger.Info("loaded glossary",
			zap.String("glossary", name),
			zap.String("path", path),
			zap.String("target", targetLang),
			zap.Int("entries", g.Len()),
		)
		loaded = append(loaded, g)
	}
	return glossary.Merge(strings.Join(names, "+"), loaded...), nil
}

// Translator 返回某个目标语言的翻译器
func (c *Coordinator) Translator(lang string) (*Translator, bool) {
	t, ok := c.translators[lang]
	return t, ok
}

type job struct {
	lang string
	file document.File
}

// Run 遍历源目录并翻译所有文件。
// 单个文件的失败记录在汇总中，不会中断其他文件；只有无法遍历源目录时返回错误
func (c *Coordinator) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:  uuid.NewString(),
		Start:  time.Now(),
		DryRun: c.dryRun,
	}
	log := c.logger.With(zap.String("run_id", summary.RunID))

	log.Info("starting translation task",
		zap.String("source_lang", c.cfg.SourceLang),
		zap.Strings("target_langs", c.cfg.TargetLangs),
		zap.String("source_dir", c.cfg.SourceDir),
		zap.Int("concurrency", c.batcher.Size()),
		zap.Bool("dry_run", c.dryRun),
	)

	files, err := document.Walk(ctx, c.cfg.SourceDir, document.WalkOptions{FollowSymlinks: c.cfg.FollowSymlinks})
	if err != nil {
		summary.End = time.Now()
		return summary, WrapError(err, ErrCodeIO, "cannot walk source directory", c.cfg.SourceDir)
	}
	log.Info("found source files", zap.Int("files", len(files)))

	jobs := make([]job, 0, len(files)*len(c.cfg.TargetLangs))
	for _, lang := range c.cfg.TargetLangs {
		for _, f := range files {
			jobs = append(jobs, job{lang: lang, file: f})
		}
	}

	summary.Results = make([]FileResult, len(jobs))
	c.progress.Start(len(jobs), "翻译进度")
	defer c.progress.Stop()

	// 文件级并发与许可池同样大小；真正的远程调用数由许可池限制
	workers := make(chan struct{}, c.batcher.Size())
	var wg sync.WaitGroup
	for i, j := range jobs {
		workers <- struct{}{}
		wg.Add(1)
		go func(i int, j job) {
			defer wg.Done()
			defer func() { <-workers }()

			result := c.processFile(ctx, log, j.lang, j.file)
			summary.Results[i] = result
			c.progress.Increment(j.lang + "/" + j.file.Rel)
		}(i, j)
	}
	wg.Wait()

	summary.End = time.Now()
	log.Info("translation task finished",
		zap.Int("files", len(jobs)),
		zap.Int("failed", summary.Failed()),
		zap.Int("problems", summary.ProblemCount()),
		zap.Duration("duration", summary.Duration()),
	)
	return summary, nil
}

// TargetPath 源文件在某个目标语言下的输出路径，保留相对 source_dir 的目录结构
func (c *Coordinator) TargetPath(lang string, f document.File) string {
	name := locfile.TargetFilename(filepath.Base(f.Rel), c.cfg.SourceLang, lang)
	return filepath.Join(c.cfg.TargetDirFor(lang), filepath.Dir(f.Rel), name)
}

func (c *Coordinator) processFile(ctx context.Context, log *zap.Logger, lang string, f document.File) (result FileResult) {
	start := time.Now()
	result = FileResult{
		Lang:   lang,
		Source: f.Rel,
		Target: c.TargetPath(lang, f),
	}
	log = log.With(zap.String("lang", lang), zap.String("file", f.Rel))

	defer func() {
		result.Duration = time.Since(start)
		result.settle()
		if result.Err != nil {
			log.Error("file failed", zap.Error(result.Err))
		}
	}()

	if err := ctx.Err(); err != nil {
		result.Err = WrapError(err, ErrCodeIO, "run cancelled", f.Rel)
		return result
	}

	text, err := document.ReadFile(f.Path)
	if err != nil {
		result.Err = WrapError(err, ErrCodeIO, "cannot read file", f.Rel)
		return result
	}

	normalized := locfile.Normalize(text)
	_, body := locfile.SplitHeader(normalized, c.cfg.SourceLang)
	slices := c.chunker.Split(body)
	result.Chunks = len(slices)

	var doc string
	if len(slices) == 0 {
		log.Info("nothing to translate")
		doc = locfile.HeaderOnly(lang)
	} else {
		log.Info("file split into chunks", zap.Int("chunks", len(slices)))

		tr := c.translators[lang]
		translated, err := tr.TranslateSlices(ctx, slices)
		if err != nil {
			result.Err = WrapError(err, ErrCodeLLM, "translation failed", f.Rel)
			return result
		}

		out := make([]locfile.Slice, len(translated))
		for i, r := range translated {
			out[i] = r.Slice
			result.Problems = append(result.Problems, r.Problems...)
		}
		for _, p := range result.Problems {
			log.Warn("format problem",
				zap.String("kind", string(p.Kind)),
				zap.String("key", p.Key),
				zap.String("original", p.Original),
				zap.String("translated", p.Translated),
			)
		}

		doc, err = locfile.Reconstruct(out, lang)
		if err != nil {
			result.Err = WrapError(err, ErrCodeStructure, "cannot merge translated chunks", f.Rel)
			return result
		}
	}

	if c.cfg.YAMLCheck {
		if err := locfile.CheckYAML(doc); err != nil {
			result.YAMLErr = err
			log.Warn("merged document is not valid YAML", zap.Error(err))
		}
	}

	if c.dryRun {
		return result
	}
	if err := document.WriteFile(result.Target, doc); err != nil {
		result.Err = WrapError(err, ErrCodeIO, "cannot write file", result.Target)
		return result
	}
	result.Written = true
	log.Info("file translated", zap.String("target", result.Target))
	return result
}
