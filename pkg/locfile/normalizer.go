package locfile

import (
	"regexp"
	"strings"
)

var (
	// key:0 value 形式，不假定 value 存在或有完整的引号
	reKeyWithID = regexp.MustCompile(`^([\w.\-]+):\d+\s+(.*)$`)
	// key: value 形式，value 可能带两侧引号、单侧引号或没有引号
	reKeyValue = regexp.MustCompile(`^([\w.\-]+):\s+(.*)$`)
	// key:"value" 形式，冒号后缺少空格
	reKeyQuoted = regexp.MustCompile(`^([\w.\-]+):(".*)$`)
	// l_english: 语言头，冒号后只有空白
	reHeaderLine = regexp.MustCompile(`^l_\w+:\s*$`)
)

// Normalize 修复本地化文件中常见的格式问题，输出与输入行数相同
//
// 逐行处理：空行和注释行原样保留；其余行依次去掉 key 后的数字编号、
// 确保值带双引号、并将缩进向下取整为 2 的倍数。不匹配任何修复规则的行只调整缩进。
func Normalize(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = NormalizeLine(line)
	}
	return strings.Join(lines, "\n")
}

// NormalizeLine 修复单行
func NormalizeLine(line string) string {
	line = strings.TrimSuffix(line, "\r")
	if isBlankOrComment(line) {
		return line
	}

	body := strings.TrimLeft(line, " \t")
	indent := len(line) - len(body)

	body = dropNumericID(body)
	body = ensureQuoted(body)

	return strings.Repeat(" ", indent/2*2) + body
}

// dropNumericID key:0 "value" -> key: "value"
func dropNumericID(body string) string {
	m := reKeyWithID.FindStringSubmatch(body)
	if m == nil {
		return body
	}
	return m[1] + ": " + m[2]
}

// ensureQuoted 确保值带双引号
func ensureQuoted(body string) string {
	if m := reKeyQuoted.FindStringSubmatch(body); m != nil {
		value, _ := quoteValue(strings.TrimRight(m[2], " \t"))
		return m[1] + ": " + value
	}

	m := reKeyValue.FindStringSubmatch(body)
	if m == nil {
		return body
	}
	value := strings.TrimRight(m[2], " \t")
	if value == "" {
		if reHeaderLine.MatchString(body) {
			return body
		}
		return m[1] + `: ""`
	}
	quoted, changed := quoteValue(value)
	if !changed {
		return body
	}
	return m[1] + ": " + quoted
}

// quoteValue 为值补全双引号；已有成对引号或引号只出现在中间时保持不变
func quoteValue(value string) (string, bool) {
	quotes := strings.Count(value, `"`)
	switch {
	case value == "":
		return `""`, true
	case strings.HasPrefix(value, `"`):
		if quotes >= 2 {
			return value, false
		}
		return value + `"`, true
	case strings.HasSuffix(value, `"`) && quotes == 1:
		return `"` + value, true
	case quotes > 0:
		return value, false
	default:
		return `"` + value + `"`, true
	}
}
