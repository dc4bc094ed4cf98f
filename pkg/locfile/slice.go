package locfile

import "strings"

// Slice 文档切片
// 对应归一化且去除语言头之后正文中的一段连续行区间，StartLine/EndLine 为闭区间，行号从 1 开始
type Slice struct {
	Content   string `json:"content"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// LineCount 返回切片覆盖的行数
func (s Slice) LineCount() int {
	return s.EndLine - s.StartLine + 1
}

// WithContent 返回行区间不变、内容替换后的新切片
func (s Slice) WithContent(content string) Slice {
	return Slice{Content: content, StartLine: s.StartLine, EndLine: s.EndLine}
}

// SplitLines 按换行拆分文本，末尾换行产生的空行同样保留，空文本返回 nil
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// isBlankOrComment 空行或注释行
func isBlankOrComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}
