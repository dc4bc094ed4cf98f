package datadir

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
}

func TestFindGlossarySearchOrder(t *testing.T) {
	project := t.TempDir()
	user := t.TempDir()
	r := NewWithDirs(project, user)

	touch(t, filepath.Join(user, "glossary", "eu4.json"))
	path, err := r.FindGlossary("eu4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(user, "glossary", "eu4.json"), path)

	// 项目目录中的同名术语表优先
	touch(t, filepath.Join(project, "glossary", "eu4.toml"))
	path, err = r.FindGlossary("eu4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(project, "glossary", "eu4.toml"), path)

	// 任意数据目录中的 glossary_custom 优先于 glossary
	touch(t, filepath.Join(user, "glossary_custom", "eu4.json"))
	path, err = r.FindGlossary("eu4")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(user, "glossary_custom", "eu4.json"), path)
}

func TestFindGlossaryExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.json")
	touch(t, path)

	found, err := NewWithDirs().FindGlossary(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestFindGlossaryNotFoundSuggestions(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "glossary", "eu4.json"))
	touch(t, filepath.Join(dir, "glossary", "hoi4.json"))
	touch(t, filepath.Join(dir, "glossary_custom", "stellaris.toml"))
	touch(t, filepath.Join(dir, "glossary", "notes.txt"))
	r := NewWithDirs(dir)

	assert.Equal(t, []string{"eu4", "hoi4", "stellaris"}, r.Glossaries())

	_, err := r.FindGlossary("stelaris")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, IsNotFound(err))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Len(t, nf.Searched, 4)
	assert.Equal(t, []string{"stellaris"}, nf.Suggestions)
	assert.Contains(t, err.Error(), "did you mean stellaris")
}

func TestFindFile(t *testing.T) {
	project := t.TempDir()
	user := t.TempDir()
	touch(t, filepath.Join(user, "prompts", "translate_system.txt"))
	r := NewWithDirs(project, user)

	path, data, err := r.ReadFile(filepath.Join("prompts", "translate_system.txt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(user, "prompts", "translate_system.txt"), path)
	assert.Equal(t, "{}", string(data))

	_, err = r.FindFile(filepath.Join("prompts", "missing.txt"))
	assert.True(t, IsNotFound(err))

	_, err = r.FindFile(filepath.Join(project, "absent.txt"))
	assert.True(t, IsNotFound(err))
}

func TestNewAddsDefaultDirs(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg")
	r := New([]string{"custom", "custom/"})

	dirs := r.Dirs()
	require.GreaterOrEqual(t, len(dirs), 2)
	assert.Equal(t, "custom", dirs[0])
	assert.Equal(t, "data", dirs[1])
	if len(dirs) == 3 {
		assert.Equal(t, UserDataDir(), dirs[2])
	}
}
