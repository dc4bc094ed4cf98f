// Package translator 调度分块翻译：构建提示词、限流调用远程模型、校验译文并重建文件
package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/nerdneilsfield/paradox-mod-translator/pkg/llm"
	"github.com/nerdneilsfield/paradox-mod-translator/pkg/locfile"
	"github.com/nerdneilsfield/paradox-mod-translator/pkg/validator"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// ForcePolicy 强制术语缺失时的处理方式
type ForcePolicy string

const (
	// ForceReport 只报告问题
	ForceReport ForcePolicy = "report"
	// ForceFail 把问题升级为分块错误，终止该文件
	ForceFail ForcePolicy = "fail"
)

// SliceResult 一个分块的翻译结果
type SliceResult struct {
	Slice    locfile.Slice
	Problems []validator.Problem
	Terms    []string
}

// Translator 单个语言对的翻译编排器，可被多个文件并发使用
type Translator struct {
	client      llm.Client
	prompts     *PromptBuilder
	batcher     *Batcher
	forcePolicy ForcePolicy
	verbose     bool
	logger      *zap.Logger
}

// Options 翻译器选项
type Options struct {
	ForcePolicy ForcePolicy
	Verbose     bool
}

// New 创建翻译器
func New(client llm.Client, prompts *PromptBuilder, batcher *Batcher, logger *zap.Logger, opts Options) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if batcher == nil {
		batcher = NewBatcher(1)
	}
	if opts.ForcePolicy == "" {
		opts.ForcePolicy = ForceReport
	}
	return &Translator{
		client:      client,
		prompts:     prompts,
		batcher:     batcher,
		forcePolicy: opts.ForcePolicy,
		verbose:     opts.Verbose,
		logger:      logger,
	}
}

// SourceLang 源语言
func (t *Translator) SourceLang() string {
	return t.prompts.sourceLang
}

// TargetLang 目标语言
func (t *Translator) TargetLang() string {
	return t.prompts.targetLang
}

// TranslateSlice 翻译一个分块并校验结果。
// 远程调用失败或响应没有候选时返回错误；校验问题只随结果返回，不会中断
func (t *Translator) TranslateSlice(ctx context.Context, slice locfile.Slice) (SliceResult, error) {
	prompt, terms := t.prompts.Build(slice.Content)
	messages := []llm.Message{
		llm.SystemMessage(prompt),
		llm.UserMessage(slice.Content),
	}

	if t.verbose {
		t.logger.Debug("translating chunk",
			zap.Int("start_line", slice.StartLine),
			zap.Int("end_line", slice.EndLine),
			zap.Strings("terms", terms),
			zap.String("source", snippet(slice.Content)),
		)
	}

	choices, err := t.client.Chat(ctx, messages)
	if err != nil {
		return SliceResult{}, &TranslationError{
			Code:    ErrCodeLLM,
			Message: "remote call failed",
			Cause:   fmt.Errorf("%w: %w", ErrRemoteCall, err),
		}
	}
	if len(choices) == 0 {
		return SliceResult{}, &TranslationError{
			Code:    ErrCodeLLM,
			Message: "no choices in response",
			Cause:   ErrInvalidResponse,
		}
	}
	candidate := choices[0]

	if t.verbose {
		t.logger.Debug("chunk translated",
			zap.Int("start_line", slice.StartLine),
			zap.String("translated", snippet(candidate)),
		)
	}

	problems := validator.Validate(slice.Content, candidate)
	// 术语在索引中以 NFC 形式保存
	normalized := norm.NFC.String(candidate)
	for _, term := range t.prompts.ForcedTerms(terms) {
		if strings.Contains(normalized, term) {
			continue
		}
		if t.forcePolicy == ForceFail {
			return SliceResult{}, &TranslationError{
				Code:    ErrCodeValidation,
				Message: fmt.Sprintf("forced term %q not kept verbatim", term),
				Cause:   ErrForcedTermMissing,
			}
		}
		problems = append(problems, validator.Problem{Kind: validator.ForcedTermMissing, Original: term})
	}

	return SliceResult{
		Slice:    slice.WithContent(candidate),
		Problems: problems,
		Terms:    terms,
	}, nil
}

// TranslateSlices 并发翻译一个文件的全部分块，任一分块失败即返回该错误。
// 结果按 StartLine 顺序排列
func (t *Translator) TranslateSlices(ctx context.Context, slices []locfile.Slice) ([]SliceResult, error) {
	return Run(ctx, t.batcher, slices, func(ctx context.Context, i int, slice locfile.Slice) (SliceResult, error) {
		result, err := t.TranslateSlice(ctx, slice)
		if err != nil {
			var te *TranslationError
			if errors.As(err, &te) && te.Chunk == 0 {
				te.Chunk = i + 1
			}
			return SliceResult{}, err
		}
		return result, nil
	})
}

// snippet 按显示宽度截断日志中的文本
func snippet(s string) string {
	s = strings.ReplaceAll(s, "\n", "⏎")
	return runewidth.Truncate(s, 120, "…")
}
