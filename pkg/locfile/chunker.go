package locfile

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxChunkSize 默认切片预算
const DefaultMaxChunkSize = 2000

// reEntryStart 条目起始行：去除缩进后以 key: 开头
var reEntryStart = regexp.MustCompile(`^[\w.\-]+:`)

// SizeFunc 计算文本大小（字符数或估算的 token 数）
type SizeFunc func(text string) int

// RuneCount 按字符计数
func RuneCount(text string) int {
	return utf8.RuneCountInString(text)
}

// EstimateTokens 粗略估算 token 数
// 按单词数 * 1.33 估算，对 CJK 等不以空格分词的文本退化为每 4 个字符一个 token
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	tokens := len(strings.Fields(text)) * 4 / 3
	if byRunes := utf8.RuneCountInString(text) / 4; byRunes > tokens {
		tokens = byRunes
	}
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// Chunker 按条目边界将正文切分为有界大小的切片
type Chunker struct {
	maxSize int
	size    SizeFunc
}

// NewChunker 创建切片器；maxSize <= 0 时使用默认预算，size 为 nil 时按字符计数
func NewChunker(maxSize int, size SizeFunc) *Chunker {
	if maxSize <= 0 {
		maxSize = DefaultMaxChunkSize
	}
	if size == nil {
		size = RuneCount
	}
	return &Chunker{maxSize: maxSize, size: size}
}

// MaxSize 返回切片预算
func (c *Chunker) MaxSize() int {
	return c.maxSize
}

// entry 一个逻辑条目在正文中的行区间（下标从 0 开始，闭区间）
type entry struct {
	start, end int
}

// Split 切分正文
//
// 切片只在条目边界处断开，按顺序首尾相接并完整覆盖正文的所有行。
// 预算只是建议值：单个超出预算的条目会独立成为一个切片而不会被拆开。
// 空正文（或只有空白）返回零个切片。
func (c *Chunker) Split(body string) []Slice {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	lines := SplitLines(body)
	sep := c.size("\n")

	var slices []Slice
	start, size := -1, 0
	for _, e := range groupEntries(lines) {
		entrySize := c.size(strings.Join(lines[e.start:e.end+1], "\n"))
		if start >= 0 && size+sep+entrySize > c.maxSize {
			slices = append(slices, newSlice(lines, start, e.start-1))
			start, size = -1, 0
		}
		if start < 0 {
			start, size = e.start, entrySize
			continue
		}
		size += sep + entrySize
	}
	if start >= 0 {
		slices = append(slices, newSlice(lines, start, len(lines)-1))
	}
	return slices
}

// groupEntries 将行分组为逻辑条目
// 条目从 key 行开始，后面的续行、空行和注释都归属于它；首个 key 行之前的内容并入第一个条目。
func groupEntries(lines []string) []entry {
	var entries []entry
	start, hasKey := 0, false
	for i, line := range lines {
		if !isEntryStart(line) {
			continue
		}
		if hasKey {
			entries = append(entries, entry{start: start, end: i - 1})
			start = i
		}
		hasKey = true
	}
	if len(lines) > 0 {
		entries = append(entries, entry{start: start, end: len(lines) - 1})
	}
	return entries
}

// isEntryStart 判断一行是否开始新的条目
func isEntryStart(line string) bool {
	return reEntryStart.MatchString(strings.TrimLeft(line, " \t"))
}

func newSlice(lines []string, start, end int) Slice {
	return Slice{
		Content:   strings.Join(lines[start:end+1], "\n"),
		StartLine: start + 1,
		EndLine:   end + 1,
	}
}
