package validator

import "fmt"

// Kind 问题类型
type Kind string

const (
	// MissingKey 原文中存在但译文中缺失的键
	MissingKey Kind = "missing_key"
	// ExtraKey 译文中多出的键
	ExtraKey Kind = "extra_key"
	// PatternNotFound 原文中的标记在译文中找不到
	PatternNotFound Kind = "pattern_not_found"
	// PatternMismatch 同一位置的标记内容不一致
	PatternMismatch Kind = "pattern_mismatch"
	// ForcedTermMissing 强制术语没有原样出现在译文中
	ForcedTermMissing Kind = "forced_term_missing"
)

// Problem 一条结构或标记差异，不会中断流程
type Problem struct {
	Kind       Kind   `json:"kind"`
	Key        string `json:"key"`
	Class      Class  `json:"class,omitempty"`
	Original   string `json:"original,omitempty"`
	Translated string `json:"translated,omitempty"`
}

func (p Problem) String() string {
	switch p.Kind {
	case MissingKey:
		return fmt.Sprintf("missing key %q", p.Key)
	case ExtraKey:
		return fmt.Sprintf("extra key %q", p.Key)
	case PatternNotFound:
		return fmt.Sprintf("key %q: %s token %s not found in translation", p.Key, p.Class, p.Original)
	case PatternMismatch:
		return fmt.Sprintf("key %q: %s token mismatch, expected %s, got %s", p.Key, p.Class, p.Original, p.Translated)
	case ForcedTermMissing:
		return fmt.Sprintf("forced term %q missing from translation", p.Original)
	default:
		return fmt.Sprintf("%s: %s", p.Kind, p.Key)
	}
}

// Count 按类型统计问题数量
func Count(problems []Problem) map[Kind]int {
	counts := make(map[Kind]int, len(problems))
	for _, p := range problems {
		counts[p.Kind]++
	}
	return counts
}
