package locfile

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// CheckYAML 用 YAML 解析器检查重建后的文件，返回第一个解析错误
// 游戏引擎的解析比 YAML 宽松，这里的失败只作为警告使用
func CheckYAML(doc string) error {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(doc), &root); err != nil {
		return fmt.Errorf("yaml check: %w", err)
	}
	return nil
}
