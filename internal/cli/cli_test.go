package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/nerdneilsfield/paradox-mod-translator/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// setupProject 创建数据目录、源文件和配置文件，返回项目根目录和配置文件路径
func setupProject(t *testing.T) (string, string) {
	t.Helper()
	t.Setenv("PMT_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	root := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "xdg"))
	writeFile(t, filepath.Join(root, "data", "prompts", "translate_system.txt"),
		"Translate {{source_lang}} to {{target_lang}}.\n{{glossary_csv}}\n")
	writeFile(t, filepath.Join(root, "data", "glossary", "test.json"), `{"Duke": "公爵"}`)
	writeFile(t, filepath.Join(root, "src", "titles_l_english.yml"),
		"l_english:\n duke_title:0 \"The Duke of $PLACE$\"\n")

	cfgPath := filepath.Join(root, "pmt.yaml")
	writeFile(t, cfgPath, fmt.Sprintf(`source_lang: english
target_langs: [simp_chinese]
source_dir: %q
target_dir: %q
data_dirs: [%q]
glossaries: [test]
default_model_name: raw
`, filepath.Join(root, "src"), filepath.Join(root, "out", config.LangPlaceholder), filepath.Join(root, "data")))

	return root, cfgPath
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("1.0.0", "abc123", "2024-01-01")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.0.0 (commit abc123, built 2024-01-01)")
}

func TestTranslateWithRawModel(t *testing.T) {
	root, cfgPath := setupProject(t)

	out, err := execute(t, "--config", cfgPath, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "all files translated")

	data, err := os.ReadFile(filepath.Join(root, "out", "simp_chinese", "titles_l_simp_chinese.yml"))
	require.NoError(t, err)
	assert.Equal(t, "\ufeffl_simp_chinese:\n    duke_title: \"The Duke of $PLACE$\"\n", string(data))
}

func TestTranslateFlagsOverrideConfig(t *testing.T) {
	root, cfgPath := setupProject(t)

	_, err := execute(t, "--config", cfgPath, "--target", "german,french", "--concurrency", "1", "--no-color")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "out", "german", "titles_l_german.yml"))
	assert.FileExists(t, filepath.Join(root, "out", "french", "titles_l_french.yml"))
	assert.NoDirExists(t, filepath.Join(root, "out", "simp_chinese"))
}

func TestTranslateDryRun(t *testing.T) {
	root, cfgPath := setupProject(t)

	out, err := execute(t, "--config", cfgPath, "--model", "gpt-4o-mini", "--dry-run", "--no-color")
	require.NoError(t, err, "预演模式不需要 API 密钥")
	assert.Contains(t, out, "(dry run)")
	assert.NoDirExists(t, filepath.Join(root, "out"))
}

func TestTranslateConfigErrors(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		_, cfgPath := setupProject(t)
		_, err := execute(t, "--config", cfgPath, "--model", "gpt-4o-mini")
		assert.ErrorIs(t, err, config.ErrMissingAPIKey)
	})

	t.Run("invalid flag value", func(t *testing.T) {
		_, cfgPath := setupProject(t)
		_, err := execute(t, "--config", cfgPath, "--force-policy", "ignore")
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("missing glossary", func(t *testing.T) {
		_, cfgPath := setupProject(t)
		_, err := execute(t, "--config", cfgPath, "--glossary", "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nope")
	})

	t.Run("unexpected argument", func(t *testing.T) {
		_, cfgPath := setupProject(t)
		_, err := execute(t, "--config", cfgPath, "extra")
		assert.Error(t, err)
	})
}

func TestTranslateReportsFailedFiles(t *testing.T) {
	root, cfgPath := setupProject(t)
	// 目标位置被目录占用，写出失败
	require.NoError(t, os.MkdirAll(filepath.Join(root, "out", "simp_chinese", "titles_l_simp_chinese.yml"), 0o755))

	out, err := execute(t, "--config", cfgPath, "--no-color")
	assert.ErrorIs(t, err, ErrFilesFailed)
	assert.Contains(t, out, "[FAIL]")
	assert.Contains(t, out, "1 of 1 files failed")
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "a_l_english.yml")
	writeFile(t, source, "l_english:\n gold: \"£gold£ $AMOUNT$\"\n name: \"[Root.GetName]\"\n")

	t.Run("clean", func(t *testing.T) {
		translated := filepath.Join(dir, "clean_l_simp_chinese.yml")
		writeFile(t, translated, "\ufeffl_simp_chinese:\n    gold: \"£gold£ $AMOUNT$ 金币\"\n    name: \"[Root.GetName]\"\n")

		out, err := execute(t, "check", "--no-color", source, translated)
		require.NoError(t, err)
		assert.Contains(t, out, "no problems")
	})

	t.Run("problems", func(t *testing.T) {
		translated := filepath.Join(dir, "bad_l_simp_chinese.yml")
		writeFile(t, translated, "l_simp_chinese:\n    gold: \"$AMOUNT$\"\n    title: \"x\"\n")

		out, err := execute(t, "check", "--no-color", source, translated)
		assert.ErrorIs(t, err, ErrProblemsFound)
		assert.Contains(t, out, "[WARN]")
		assert.Contains(t, out, "£gold£")
		assert.Contains(t, out, "missing keys 1, extra keys 1, pattern not found 1")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "check", source, filepath.Join(dir, "nope.yml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestFixCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a_l_english.yml")
	writeFile(t, path, "\ufeffl_english:\n key:0 \"Value\"\n   other: plain\n")

	out, err := execute(t, "fix", "--check", path)
	assert.ErrorIs(t, err, ErrProblemsFound)
	assert.Contains(t, out, "needs fixing")

	out, err = execute(t, "fix", path)
	require.NoError(t, err)
	assert.Contains(t, out, "fixed: "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\ufeffl_english:\nkey: \"Value\"\n  other: \"plain\"\n", string(data))

	out, err = execute(t, "fix", path)
	require.NoError(t, err)
	assert.NotContains(t, out, "fixed")
}

func TestGlossaryCommand(t *testing.T) {
	_, cfgPath := setupProject(t)

	out, err := execute(t, "glossary", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "- test")

	out, err = execute(t, "glossary", "--config", cfgPath, "test", "--text", "The Duke rides")
	require.NoError(t, err)
	assert.Contains(t, out, "english -> simp_chinese: 1 entries")
	assert.Contains(t, out, "english,simp_chinese\nDuke,公爵")

	out, err = execute(t, "glossary", "--config", cfgPath, "test", "--text", "nothing", "--target", "german")
	require.NoError(t, err)
	assert.Contains(t, out, "english -> german")
	assert.Contains(t, out, "(no related terms)")
}

func TestModelsCommand(t *testing.T) {
	_, cfgPath := setupProject(t)

	out, err := execute(t, "models", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "deepseek-reasoner")
	assert.Contains(t, out, "raw")
}

func TestStatsCommand(t *testing.T) {
	root, cfgPath := setupProject(t)
	statsFile := filepath.Join(root, "xdg", "pmt", "stats.json")

	out, err := execute(t, "stats", "--config", cfgPath, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "No recent runs found.")

	_, err = execute(t, "--config", cfgPath, "--dry-run", "--no-color")
	require.NoError(t, err)
	assert.NoFileExists(t, statsFile, "预演不记录历史")

	_, err = execute(t, "--config", cfgPath, "--no-color")
	require.NoError(t, err)
	assert.FileExists(t, statsFile)

	_, err = execute(t, "--config", cfgPath, "--no-stats", "--no-color")
	require.NoError(t, err)

	out, err = execute(t, "stats", "--config", cfgPath, "--pairs", "--no-color")
	require.NoError(t, err)
	assert.Regexp(t, `Total Runs\s+: 1\n`, out)
	assert.Contains(t, out, "english → simp_chinese")
	assert.Contains(t, out, "Recent Runs (Last 1)")

	out, err = execute(t, "stats", "--config", cfgPath, "--reset")
	require.NoError(t, err)
	assert.Contains(t, out, "history cleared")
	assert.NoFileExists(t, statsFile)
}
