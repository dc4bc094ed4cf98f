// Package glossary 加载术语表并在文本中查找术语，生成注入提示词的 CSV 片段
package glossary

import (
	"sort"

	"golang.org/x/text/unicode/norm"
)

// Entry 术语表条目
type Entry struct {
	Source string `json:"source" toml:"source"`
	Target string `json:"target" toml:"target"`
	// Force 为 true 时术语必须原样保留，不允许翻译
	Force bool `json:"force" toml:"force"`
}

// Glossary 源术语到条目的映射，加载时已经按语言对投影
type Glossary struct {
	Name    string
	entries map[string]Entry
}

// New 创建空术语表
func New(name string) *Glossary {
	return &Glossary{Name: name, entries: make(map[string]Entry)}
}

// Add 添加或覆盖条目，术语统一为 NFC 形式
func (g *Glossary) Add(e Entry) {
	e.Source = norm.NFC.String(e.Source)
	e.Target = norm.NFC.String(e.Target)
	if e.Source == "" {
		return
	}
	g.entries[e.Source] = e
}

// Lookup 按源术语查找
func (g *Glossary) Lookup(source string) (Entry, bool) {
	e, ok := g.entries[norm.NFC.String(source)]
	return e, ok
}

// Len 条目数量
func (g *Glossary) Len() int {
	return len(g.entries)
}

// Entries 按源术语排序返回全部条目
func (g *Glossary) Entries() []Entry {
	out := make([]Entry, 0, len(g.entries))
	for _, e := range g.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

// Merge 按顺序合并多个术语表，冲突时后加载的覆盖先加载的
func Merge(name string, glossaries ...*Glossary) *Glossary {
	merged := New(name)
	for _, g := range glossaries {
		if g == nil {
			continue
		}
		for _, e := range g.entries {
			merged.entries[e.Source] = e
		}
	}
	return merged
}

// ForcedTerms 返回 terms 中标记为强制的术语
func (g *Glossary) ForcedTerms(terms []string) []string {
	var forced []string
	for _, t := range terms {
		if e, ok := g.Lookup(t); ok && e.Force {
			forced = append(forced, e.Source)
		}
	}
	return forced
}
