package glossary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/gjson"
)

// Format 术语表文件格式
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// multilingualKey TOML 多语言术语表使用的表数组名
const multilingualKey = "terms"

var (
	// ErrUnsupportedFormat 不支持的文件扩展名
	ErrUnsupportedFormat = errors.New("unsupported glossary format")
	// ErrInvalidGlossary 文件内容不是可识别的术语表结构
	ErrInvalidGlossary = errors.New("invalid glossary")
)

// FormatFromPath 根据扩展名判断格式
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadFile 读取并解析术语表文件
func LoadFile(path, sourceLang, targetLang string) (*Glossary, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read glossary %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	g, err := Parse(name, data, format, sourceLang, targetLang)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse 解析术语表内容
//
// 支持的结构：
//   - {"term": "target"}：与语言无关的扁平映射
//   - {"term": {"target": "...", "force": true}}
//   - [{"english": "...", "simp_chinese": "...", "force": true}]：按语言标签投影
//
// TOML 使用相同的对象结构，多语言形式写在 [[terms]] 表数组中
func Parse(name string, data []byte, format Format, sourceLang, targetLang string) (*Glossary, error) {
	switch format {
	case FormatJSON:
		return parseJSON(name, data, sourceLang, targetLang)
	case FormatTOML:
		return parseTOML(name, data, sourceLang, targetLang)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func parseJSON(name string, data []byte, sourceLang, targetLang string) (*Glossary, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidGlossary)
	}

	g := New(name)
	root := gjson.ParseBytes(data)
	switch {
	case root.IsArray():
		root.ForEach(func(_, record gjson.Result) bool {
			if !record.IsObject() {
				return true
			}
			fields := make(map[string]any)
			record.ForEach(func(key, value gjson.Result) bool {
				fields[key.String()] = value.Value()
				return true
			})
			addMultilingual(g, fields, sourceLang, targetLang)
			return true
		})
	case root.IsObject():
		root.ForEach(func(key, value gjson.Result) bool {
			switch {
			case value.Type == gjson.String:
				g.Add(Entry{Source: key.String(), Target: value.String()})
			case value.IsObject():
				target := value.Get("target")
				if target.Exists() {
					g.Add(Entry{Source: key.String(), Target: target.String(), Force: value.Get("force").Bool()})
				}
			}
			return true
		})
	default:
		return nil, fmt.Errorf("%w: expected an object or an array", ErrInvalidGlossary)
	}
	return g, nil
}

func parseTOML(name string, data []byte, sourceLang, targetLang string) (*Glossary, error) {
	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGlossary, err)
	}

	g := New(name)
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			g.Add(Entry{Source: key, Target: v})
		case map[string]any:
			if target, ok := v["target"].(string); ok {
				force, _ := v["force"].(bool)
				g.Add(Entry{Source: key, Target: target, Force: force})
			}
		case []map[string]any:
			if key != multilingualKey {
				continue
			}
			for _, record := range v {
				addMultilingual(g, record, sourceLang, targetLang)
			}
		}
	}
	return g, nil
}

// addMultilingual 把一条多语言记录投影到 source/target 语言对
func addMultilingual(g *Glossary, fields map[string]any, sourceLang, targetLang string) {
	source, _ := fields[sourceLang].(string)
	target, _ := fields[targetLang].(string)
	if source == "" || target == "" {
		return
	}
	force, _ := fields["force"].(bool)
	g.Add(Entry{Source: source, Target: target, Force: force})
}
