package translator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nerdneilsfield/paradox-mod-translator/internal/datadir"
	"github.com/nerdneilsfield/paradox-mod-translator/pkg/glossary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplate = "Translate from {{source_lang}} to {{target_lang}}.\nTerms:\n{{glossary_csv}}\n"

func writeDataFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testIndex(t *testing.T) *glossary.Index {
	t.Helper()
	g := glossary.New("test")
	g.Add(glossary.Entry{Source: "Duke", Target: "公爵"})
	g.Add(glossary.Entry{Source: "Habsburg", Target: "哈布斯堡", Force: true})
	ix, err := glossary.NewIndex(g, glossary.MatchWord)
	require.NoError(t, err)
	return ix
}

func TestLoadPromptTemplate(t *testing.T) {
	t.Run("found and BOM stripped", func(t *testing.T) {
		dir := t.TempDir()
		writeDataFile(t, dir, "prompts/translate_system.txt", "\ufeff"+testTemplate)

		template, err := LoadPromptTemplate(datadir.NewWithDirs(dir), "prompts/translate_system.txt")
		require.NoError(t, err)
		assert.Equal(t, testTemplate, template)
	})

	t.Run("missing file is a config error", func(t *testing.T) {
		_, err := LoadPromptTemplate(datadir.NewWithDirs(t.TempDir()), "prompts/missing.txt")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPromptTemplateMissing)
		assert.True(t, IsConfigError(err))
		assert.True(t, datadir.IsNotFound(err))
	})

	t.Run("placeholder required", func(t *testing.T) {
		dir := t.TempDir()
		writeDataFile(t, dir, "prompts/translate_system.txt", "Translate everything.")

		_, err := LoadPromptTemplate(datadir.NewWithDirs(dir), "prompts/translate_system.txt")
		assert.ErrorIs(t, err, ErrPromptTemplateMissing)
		assert.True(t, IsConfigError(err))
	})
}

func TestPromptBuilderBuild(t *testing.T) {
	builder := NewPromptBuilder(testTemplate, testIndex(t), "english", "simp_chinese")

	prompt, terms := builder.Build(`duke_title: "Duke of Habsburg, the Duke"`)
	assert.Equal(t, []string{"Duke", "Habsburg"}, terms)
	assert.Equal(t,
		"Translate from english to simp_chinese.\nTerms:\nenglish,simp_chinese\nDuke,公爵\nHabsburg,Habsburg\n",
		prompt)
	assert.Equal(t, []string{"Habsburg"}, builder.ForcedTerms(terms))

	prompt, terms = builder.Build(`plain: "nothing relevant"`)
	assert.Empty(t, terms)
	assert.Contains(t, prompt, "Terms:\n"+NoTermsMarker+"\n")
}

func TestPromptBuilderWithoutIndex(t *testing.T) {
	builder := NewPromptBuilder(testTemplate, nil, "english", "german")

	prompt, terms := builder.Build(`duke: "Duke"`)
	assert.Nil(t, terms)
	assert.Contains(t, prompt, NoTermsMarker)
	assert.Nil(t, builder.ForcedTerms([]string{"Duke"}))
}
