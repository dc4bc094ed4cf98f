package glossary

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/norm"
)

// MatchMode 术语匹配方式
type MatchMode string

const (
	// MatchWord 在空格分词文字的术语边界上要求单词边界
	MatchWord MatchMode = "word"
	// MatchSubstring 纯子串包含
	MatchSubstring MatchMode = "substring"
)

const matchTimeout = time.Second

// ParseMatchMode 解析配置中的匹配方式，空字符串取默认值
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchWord:
		return MatchWord, nil
	case MatchSubstring:
		return MatchSubstring, nil
	default:
		return "", fmt.Errorf("unknown glossary match mode %q", s)
	}
}

type termMatcher struct {
	term string
	re   *regexp2.Regexp
}

// Index 术语表的只读查找索引，构建完成后可并发使用
type Index struct {
	glossary *Glossary
	mode     MatchMode
	matchers []termMatcher
}

// NewIndex 为术语表构建索引
func NewIndex(g *Glossary, mode MatchMode) (*Index, error) {
	if g == nil {
		g = New("")
	}
	ix := &Index{glossary: g, mode: mode}
	for _, e := range g.Entries() {
		m := termMatcher{term: e.Source}
		if mode == MatchWord {
			re, err := regexp2.Compile(boundaryPattern(e.Source), regexp2.None)
			if err != nil {
				return nil, fmt.Errorf("compile matcher for %q: %w", e.Source, err)
			}
			re.MatchTimeout = matchTimeout
			m.re = re
		}
		ix.matchers = append(ix.matchers, m)
	}
	return ix, nil
}

// Glossary 返回索引对应的术语表
func (ix *Index) Glossary() *Glossary {
	return ix.glossary
}

// Mode 返回匹配方式
func (ix *Index) Mode() MatchMode {
	return ix.mode
}

// FindTerms 返回 text 中出现的全部源术语，去重并排序
func (ix *Index) FindTerms(text string) []string {
	text = norm.NFC.String(text)
	var found []string
	for _, m := range ix.matchers {
		if !strings.Contains(text, m.term) {
			continue
		}
		if m.re != nil {
			ok, err := m.re.MatchString(text)
			if err != nil || !ok {
				continue
			}
		}
		found = append(found, m.term)
	}
	sort.Strings(found)
	return found
}

// ToCSV 渲染两列术语表，首行为语言标签；不在术语表中的术语被忽略。
// 强制术语的目标列写源术语本身，表示原样保留
func (ix *Index) ToCSV(sourceLang, targetLang string, terms []string) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write([]string{sourceLang, targetLang})
	for _, t := range terms {
		e, ok := ix.glossary.Lookup(t)
		if !ok {
			continue
		}
		target := e.Target
		if e.Force {
			target = e.Source
		}
		_ = w.Write([]string{e.Source, target})
	}
	w.Flush()
	return strings.TrimRight(sb.String(), "\n")
}

// boundaryPattern 只在使用空格分词的文字边缘加单词边界断言，CJK 边缘按子串匹配
func boundaryPattern(term string) string {
	pattern := regexp2.Escape(term)
	first, _ := utf8.DecodeRuneInString(term)
	last, _ := utf8.DecodeLastRuneInString(term)
	if needsBoundary(first) {
		pattern = `(?<![\p{L}\p{N}_])` + pattern
	}
	if needsBoundary(last) {
		pattern += `(?![\p{L}\p{N}_])`
	}
	return pattern
}

func needsBoundary(r rune) bool {
	if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
		return false
	}
	return !unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul, unicode.Thai)
}
