package document

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRaw(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestWalk(t *testing.T) {
	root := t.TempDir()
	writeRaw(t, filepath.Join(root, "b_l_english.yml"), nil)
	writeRaw(t, filepath.Join(root, "events", "a_l_english.yaml"), nil)
	writeRaw(t, filepath.Join(root, "readme.txt"), nil)

	files, err := Walk(context.Background(), root, WalkOptions{})
	require.NoError(t, err)

	rels := make([]string, len(files))
	for i, f := range files {
		rels[i] = f.Rel
		assert.FileExists(t, f.Path)
	}
	assert.Equal(t, []string{"b_l_english.yml", filepath.Join("events", "a_l_english.yaml")}, rels)
}

func TestWalkSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	shared := t.TempDir()
	writeRaw(t, filepath.Join(shared, "shared_l_english.yml"), nil)
	writeRaw(t, filepath.Join(root, "own_l_english.yml"), nil)
	require.NoError(t, os.Symlink(shared, filepath.Join(root, "linked")))
	// 指向自身祖先的链接不能造成死循环
	require.NoError(t, os.Symlink(root, filepath.Join(root, "loop")))

	files, err := Walk(context.Background(), root, WalkOptions{})
	require.NoError(t, err)
	require.Len(t, files, 1)

	files, err = Walk(context.Background(), root, WalkOptions{FollowSymlinks: true})
	require.NoError(t, err)
	var rels []string
	for _, f := range files {
		rels = append(rels, f.Rel)
	}
	assert.Equal(t, []string{filepath.Join("linked", "shared_l_english.yml"), "own_l_english.yml"}, rels)
}

func TestWalkErrors(t *testing.T) {
	_, err := Walk(context.Background(), filepath.Join(t.TempDir(), "missing"), WalkOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(t.TempDir(), "file.yml")
	writeRaw(t, file, nil)
	_, err = Walk(context.Background(), file, WalkOptions{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Walk(ctx, t.TempDir(), WalkOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadFileStripsBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.yml")
	writeRaw(t, path, append([]byte{0xEF, 0xBB, 0xBF}, []byte("l_english:\n")...))

	text, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "l_english:\n", text)

	writeRaw(t, path, []byte("no bom"))
	text, err = ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "no bom", text)

	// UTF-16LE BOM
	writeRaw(t, path, []byte{0xFF, 0xFE, 'h', 0, 'i', 0})
	text, err = ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hi", text)

	_, err = ReadFile(filepath.Join(dir, "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFileAddsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "a_l_german.yml")

	require.NoError(t, WriteFile(path, "l_german:\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, HasBOM(data))
	assert.Equal(t, "\xEF\xBB\xBFl_german:\n", string(data))

	// 已有 BOM 的文本不会得到两个 BOM
	require.NoError(t, WriteFile(path, "\ufeffl_german:\n"))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFl_german:\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")
}

func TestWritePlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.yml")
	require.NoError(t, WritePlainFile(path, "text", false))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, HasBOM(data))
	assert.Equal(t, "text", string(data))
}
