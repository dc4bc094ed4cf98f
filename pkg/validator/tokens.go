package validator

import "regexp"

// Class 标记类别
type Class string

const (
	Icon     Class = "icon"
	Variable Class = "variable"
	Color    Class = "color"
	Command  Class = "command"
)

var tokenPatterns = []struct {
	class Class
	re    *regexp.Regexp
}{
	{Icon, regexp.MustCompile(`£[^£]+£`)},
	{Variable, regexp.MustCompile(`\$[^$]+\$`)},
	{Color, regexp.MustCompile(`§[^§]`)},
	{Command, regexp.MustCompile(`\[[^\]]+\]`)},
}

// Classes 按固定顺序返回所有标记类别
func Classes() []Class {
	classes := make([]Class, len(tokenPatterns))
	for i, p := range tokenPatterns {
		classes[i] = p.class
	}
	return classes
}

// ExtractTokens 按出现顺序提取某一类别的全部不重叠标记
func ExtractTokens(class Class, text string) []string {
	for _, p := range tokenPatterns {
		if p.class == class {
			return p.re.FindAllString(text, -1)
		}
	}
	return nil
}
