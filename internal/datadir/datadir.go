// Package datadir 按固定顺序在数据目录中查找术语表和提示词模板
package datadir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const appName = "pmt"

// 术语表子目录，custom 优先
var glossarySubdirs = []string{"glossary_custom", "glossary"}

// 术语表支持的扩展名
var glossaryExts = []string{".json", ".toml"}

// NotFoundError 资源在所有数据目录中都找不到
type NotFoundError struct {
	Resource    string
	Searched    []string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s not found (searched %s)", e.Resource, strings.Join(e.Searched, ", "))
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&sb, "; did you mean %s?", strings.Join(e.Suggestions, ", "))
	}
	return sb.String()
}

// Is 使 errors.Is(err, os.ErrNotExist) 成立
func (e *NotFoundError) Is(target error) bool {
	return target == os.ErrNotExist
}

// UserDataDir 用户级数据目录：%APPDATA%\pmt\data 或 $XDG_DATA_HOME/pmt/data，缺省 ~/.local/share/pmt/data
func UserDataDir() string {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName, "data")
		}
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, "data")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", appName, "data")
}

// Resolver 在有序的数据目录列表中查找资源
type Resolver struct {
	dirs []string
}

// New 创建查找器：先是 extra 中的目录，然后是 ./data，最后是用户数据目录
func New(extra []string) *Resolver {
	var dirs []string
	seen := make(map[string]struct{})
	add := func(dir string) {
		if dir == "" {
			return
		}
		clean := filepath.Clean(dir)
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		dirs = append(dirs, clean)
	}
	for _, d := range extra {
		add(d)
	}
	add("data")
	add(UserDataDir())
	return &Resolver{dirs: dirs}
}

// NewWithDirs 只使用给定目录，不追加默认目录
func NewWithDirs(dirs ...string) *Resolver {
	return &Resolver{dirs: append([]string(nil), dirs...)}
}

// Dirs 返回查找顺序
func (r *Resolver) Dirs() []string {
	return append([]string(nil), r.dirs...)
}

// FindGlossary 查找名为 name 的术语表：glossary_custom 优先于 glossary，
// 每个子目录依次检查所有数据目录。name 本身是已存在的文件路径时直接使用
func (r *Resolver) FindGlossary(name string) (string, error) {
	if isFile(name) {
		return name, nil
	}

	var searched []string
	for _, sub := range glossarySubdirs {
		for _, dir := range r.dirs {
			for _, ext := range glossaryExts {
				candidate := filepath.Join(dir, sub, name+ext)
				searched = append(searched, candidate)
				if isFile(candidate) {
					return candidate, nil
				}
			}
		}
	}
	return "", &NotFoundError{
		Resource:    fmt.Sprintf("glossary %q", name),
		Searched:    searched,
		Suggestions: r.suggestGlossaries(name),
	}
}

// FindFile 在数据目录中查找相对路径 rel；rel 为绝对路径或相对当前目录存在时直接使用
func (r *Resolver) FindFile(rel string) (string, error) {
	if filepath.IsAbs(rel) {
		if isFile(rel) {
			return rel, nil
		}
		return "", &NotFoundError{Resource: rel, Searched: []string{rel}}
	}

	searched := []string{rel}
	if isFile(rel) {
		return rel, nil
	}
	for _, dir := range r.dirs {
		candidate := filepath.Join(dir, rel)
		searched = append(searched, candidate)
		if isFile(candidate) {
			return candidate, nil
		}
	}
	return "", &NotFoundError{Resource: rel, Searched: searched}
}

// ReadFile 查找并读取 rel
func (r *Resolver) ReadFile(rel string) (string, []byte, error) {
	path, err := r.FindFile(rel)
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return path, nil, fmt.Errorf("read %s: %w", path, err)
	}
	return path, data, nil
}

// Glossaries 列出所有数据目录中可用的术语表名称（去重、排序）
func (r *Resolver) Glossaries() []string {
	seen := make(map[string]struct{})
	for _, sub := range glossarySubdirs {
		for _, dir := range r.dirs {
			entries, err := os.ReadDir(filepath.Join(dir, sub))
			if err != nil {
				continue
			}
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				ext := strings.ToLower(filepath.Ext(e.Name()))
				for _, allowed := range glossaryExts {
					if ext == allowed {
						seen[strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))] = struct{}{}
					}
				}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// suggestGlossaries 按模糊匹配距离返回最多三个相近的术语表名称
func (r *Resolver) suggestGlossaries(name string) []string {
	ranks := fuzzy.RankFindNormalizedFold(name, r.Glossaries())
	if len(ranks) == 0 {
		// 输入比候选更长时反向匹配，例如 "eu4_glossary" 对 "eu4"
		for _, candidate := range r.Glossaries() {
			if fuzzy.MatchNormalizedFold(candidate, name) {
				ranks = append(ranks, fuzzy.Rank{Target: candidate, Distance: len(name) - len(candidate)})
			}
		}
	}
	sort.Sort(ranks)

	var suggestions []string
	for _, rank := range ranks {
		suggestions = append(suggestions, rank.Target)
		if len(suggestions) == 3 {
			break
		}
	}
	return suggestions
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsNotFound 判断错误是否为资源缺失
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
