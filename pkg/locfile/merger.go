package locfile

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// BodyIndent 正文重新缩进的前缀：语言头下一级、结构位置再一级
const BodyIndent = "    "

var (
	// ErrInconsistentSlices 没有可合并的切片
	ErrInconsistentSlices = errors.New("inconsistent slices: a document must resolve to at least one slice")

	// ErrMergeFailed 切片行区间不连续
	ErrMergeFailed = errors.New("merge failed")
)

// MergeError 切片不连续的详细信息
type MergeError struct {
	PrevEnd   int
	NextStart int
}

// Error 实现error接口
func (e *MergeError) Error() string {
	return fmt.Sprintf("merge failed: slices are not contiguous: %d != %d + 1", e.NextStart, e.PrevEnd)
}

// Unwrap 返回 ErrMergeFailed
func (e *MergeError) Unwrap() error {
	return ErrMergeFailed
}

// MergeSlices 按起始行排序、检查连续性后合并切片，并为每行增加两级缩进
func MergeSlices(slices []Slice) (string, error) {
	if len(slices) == 0 {
		return "", ErrInconsistentSlices
	}

	sorted := make([]Slice, len(slices))
	copy(sorted, slices)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartLine < sorted[j].StartLine
	})

	for i, s := range sorted {
		if s.EndLine < s.StartLine {
			return "", fmt.Errorf("%w: invalid slice range %d-%d", ErrMergeFailed, s.StartLine, s.EndLine)
		}
		if i > 0 && s.StartLine != sorted[i-1].EndLine+1 {
			return "", &MergeError{PrevEnd: sorted[i-1].EndLine, NextStart: s.StartLine}
		}
	}

	var lines []string
	for _, s := range sorted {
		for _, line := range SplitLines(s.Content) {
			if strings.TrimSpace(line) == "" {
				lines = append(lines, "")
				continue
			}
			lines = append(lines, BodyIndent+line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// Reconstruct 合并切片并加上目标语言头，得到完整文件内容
func Reconstruct(slices []Slice, targetLang string) (string, error) {
	merged, err := MergeSlices(slices)
	if err != nil {
		return "", err
	}
	doc := Header(targetLang) + "\n" + merged
	if !strings.HasSuffix(doc, "\n") {
		doc += "\n"
	}
	return doc, nil
}

// HeaderOnly 没有需要翻译的正文时输出的文件内容
func HeaderOnly(targetLang string) string {
	return Header(targetLang) + "\n"
}
