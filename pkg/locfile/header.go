package locfile

import "strings"

// Header 返回语言头，例如 l_english:
func Header(lang string) string {
	return "l_" + lang + ":"
}

// SplitHeader 移除语言头并返回原始头和去除头后的正文
//
// 语言头只能是第一个非空、非注释行；若该行不是 l_<lang>: 则认为文件没有语言头。
// 正文中所有行的前导空白都会被去掉，缩进在合并阶段重新生成。
func SplitHeader(content, lang string) (header, body string) {
	lines := strings.Split(content, "\n")
	prefix := Header(lang)

	headerIndex := -1
	for i, line := range lines {
		if isBlankOrComment(line) {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			headerIndex = i
		}
		break
	}

	if headerIndex >= 0 {
		header = strings.TrimSuffix(lines[headerIndex], "\r")
		lines = append(lines[:headerIndex:headerIndex], lines[headerIndex+1:]...)
	}

	for i, line := range lines {
		lines[i] = strings.TrimLeft(strings.TrimSuffix(line, "\r"), " \t")
	}
	return header, strings.Join(lines, "\n")
}

// DetectLanguage 返回第一个非空、非注释行声明的语言，例如 l_english: 返回 english
func DetectLanguage(content string) (string, bool) {
	for _, line := range strings.Split(strings.TrimPrefix(content, "\ufeff"), "\n") {
		if isBlankOrComment(line) {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "l_") {
			return "", false
		}
		lang, rest, found := strings.Cut(trimmed[len("l_"):], ":")
		if !found || lang == "" || strings.TrimSpace(rest) != "" || strings.ContainsAny(lang, " \t\"") {
			return "", false
		}
		return lang, true
	}
	return "", false
}
