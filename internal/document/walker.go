// Package document 负责本地化文件的发现、读取与写出
package document

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/nerdneilsfield/paradox-mod-translator/pkg/locfile"
)

// File 源目录下的一个本地化文件
type File struct {
	// Path 可直接打开的路径
	Path string
	// Rel 相对于源目录的路径，用于在输出目录中保持相同结构
	Rel string
}

// WalkOptions 遍历选项
type WalkOptions struct {
	FollowSymlinks bool
}

// Walk 深度优先列出 root 下所有 .yml/.yaml 文件，结果按相对路径排序
func Walk(ctx context.Context, root string, opts WalkOptions) ([]File, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("source dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source dir %s is not a directory", root)
	}

	w := &walker{opts: opts, visited: make(map[string]struct{})}
	if err := w.walk(ctx, root, ""); err != nil {
		return nil, err
	}
	sort.Slice(w.files, func(i, j int) bool { return w.files[i].Rel < w.files[j].Rel })
	return w.files, nil
}

type walker struct {
	opts    WalkOptions
	visited map[string]struct{}
	files   []File
}

// walk 遍历 dir，prefix 为 dir 相对于源目录的逻辑路径
func (w *walker) walk(ctx context.Context, dir, prefix string) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	if _, seen := w.visited[resolved]; seen {
		return nil
	}
	w.visited[resolved] = struct{}{}

	return filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, relErr := filepath.Rel(resolved, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.Join(prefix, rel)

		if d.Type()&fs.ModeSymlink != 0 {
			if !w.opts.FollowSymlinks {
				return nil
			}
			target, statErr := os.Stat(path)
			if statErr != nil {
				// 悬空链接
				return nil
			}
			if target.IsDir() {
				return w.walk(ctx, path, rel)
			}
		} else if d.IsDir() {
			return nil
		}

		if locfile.IsLocalizationFile(path) {
			w.files = append(w.files, File{Path: path, Rel: rel})
		}
		return nil
	})
}
