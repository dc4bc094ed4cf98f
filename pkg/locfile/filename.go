package locfile

import (
	"path/filepath"
	"strings"
)

// TargetFilename 生成目标文件名：将 l_<source> 替换为 l_<target>，并统一使用 .yml 后缀
func TargetFilename(name, sourceLang, targetLang string) string {
	name = strings.ReplaceAll(name, "l_"+sourceLang, "l_"+targetLang)
	if ext := filepath.Ext(name); strings.EqualFold(ext, ".yaml") || strings.EqualFold(ext, ".yml") {
		name = strings.TrimSuffix(name, ext) + ".yml"
	}
	return name
}

// IsLocalizationFile 是否为 .yml/.yaml 文件
func IsLocalizationFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}
