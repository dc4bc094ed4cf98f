package translator

import (
	"fmt"
	"strings"

	"github.com/nerdneilsfield/paradox-mod-translator/internal/datadir"
	"github.com/nerdneilsfield/paradox-mod-translator/pkg/glossary"
)

// 模板占位符
const (
	GlossaryPlaceholder   = "{{glossary_csv}}"
	SourceLangPlaceholder = "{{source_lang}}"
	TargetLangPlaceholder = "{{target_lang}}"

	// NoTermsMarker 分块中没有术语时替换 {{glossary_csv}} 的文本
	NoTermsMarker = "(no related terms)"
)

// LoadPromptTemplate 在数据目录中查找并读取提示词模板
func LoadPromptTemplate(resolver *datadir.Resolver, rel string) (string, error) {
	path, data, err := resolver.ReadFile(rel)
	if err != nil {
		return "", &TranslationError{
			Code:    ErrCodeConfig,
			Message: "cannot load prompt template",
			Cause:   fmt.Errorf("%w: %w", ErrPromptTemplateMissing, err),
			File:    path,
		}
	}
	template := strings.TrimPrefix(string(data), "\ufeff")
	if !strings.Contains(template, GlossaryPlaceholder) {
		return "", &TranslationError{
			Code:    ErrCodeConfig,
			Message: fmt.Sprintf("prompt template has no %s placeholder", GlossaryPlaceholder),
			Cause:   ErrPromptTemplateMissing,
			File:    path,
		}
	}
	return template, nil
}

// PromptBuilder 用模板和术语索引构建系统提示词，可并发使用
type PromptBuilder struct {
	template   string
	index      *glossary.Index
	sourceLang string
	targetLang string
}

// NewPromptBuilder 创建提示词构建器；index 为 nil 时不注入术语
func NewPromptBuilder(template string, index *glossary.Index, sourceLang, targetLang string) *PromptBuilder {
	return &PromptBuilder{
		template:   template,
		index:      index,
		sourceLang: sourceLang,
		targetLang: targetLang,
	}
}

// Build 为一段原文生成系统提示词，同时返回其中出现的术语（去重、排序）
func (p *PromptBuilder) Build(text string) (string, []string) {
	var terms []string
	if p.index != nil {
		terms = p.index.FindTerms(text)
	}

	excerpt := NoTermsMarker
	if len(terms) > 0 {
		excerpt = p.index.ToCSV(p.sourceLang, p.targetLang, terms)
	}

	prompt := strings.NewReplacer(
		GlossaryPlaceholder, excerpt,
		SourceLangPlaceholder, p.sourceLang,
		TargetLangPlaceholder, p.targetLang,
	).Replace(p.template)
	return prompt, terms
}

// ForcedTerms 返回 terms 中必须原样保留的术语
func (p *PromptBuilder) ForcedTerms(terms []string) []string {
	if p.index == nil {
		return nil
	}
	return p.index.Glossary().ForcedTerms(terms)
}
