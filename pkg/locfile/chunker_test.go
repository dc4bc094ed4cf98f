package locfile

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomBody 生成包含条目、续行、注释和空行的正文
func randomBody(r *rand.Rand, entries int) string {
	var lines []string
	for i := 0; i < entries; i++ {
		switch r.Intn(6) {
		case 0:
			lines = append(lines, fmt.Sprintf("# comment %d", i))
		case 1:
			lines = append(lines, "")
		}
		value := strings.Repeat("word ", r.Intn(30))
		lines = append(lines, fmt.Sprintf("key_%d: \"%s£icon£ $VAR$\"", i, value))
		if r.Intn(5) == 0 {
			lines = append(lines, "\"continued text\"")
		}
	}
	return strings.Join(lines, "\n")
}

func assertExhaustive(t *testing.T, body string, slices []Slice) {
	t.Helper()

	lines := SplitLines(body)
	require.NotEmpty(t, slices)
	assert.Equal(t, 1, slices[0].StartLine)
	assert.Equal(t, len(lines), slices[len(slices)-1].EndLine)

	var joined []string
	for i, s := range slices {
		if i > 0 {
			assert.Equal(t, slices[i-1].EndLine+1, s.StartLine, "slice %d is not contiguous", i)
		}
		content := SplitLines(s.Content)
		assert.Len(t, content, s.LineCount())
		joined = append(joined, content...)
	}
	if diff := cmp.Diff(lines, joined); diff != "" {
		t.Fatalf("slices do not cover body (-want +got):\n%s", diff)
	}
}

func TestChunkerSplitProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		body := randomBody(r, 1+r.Intn(60))
		for _, budget := range []int{1, 20, 80, 300, 5000} {
			t.Run(fmt.Sprintf("round_%d_budget_%d", round, budget), func(t *testing.T) {
				slices := NewChunker(budget, nil).Split(body)
				assertExhaustive(t, body, slices)

				for _, s := range slices {
					// 只有单个条目的切片允许超出预算
					if RuneCount(s.Content) > budget {
						assert.Len(t, groupEntries(SplitLines(s.Content)), 1)
					}
				}
			})
		}
	}
}

func TestChunkerNeverSplitsEntries(t *testing.T) {
	body := "a: \"1\"\n\"continued\"\n# note\nb: \"2\"\nc: \"3\"\n\"more\""
	slices := NewChunker(1, nil).Split(body)

	expected := []Slice{
		{Content: "a: \"1\"\n\"continued\"\n# note", StartLine: 1, EndLine: 3},
		{Content: "b: \"2\"", StartLine: 4, EndLine: 4},
		{Content: "c: \"3\"\n\"more\"", StartLine: 5, EndLine: 6},
	}
	if diff := cmp.Diff(expected, slices); diff != "" {
		t.Fatalf("unexpected slices (-want +got):\n%s", diff)
	}
}

func TestChunkerLeadingCommentsJoinFirstEntry(t *testing.T) {
	body := "# header comment\n\na: \"1\"\nb: \"2\""
	slices := NewChunker(1, nil).Split(body)

	require.Len(t, slices, 2)
	assert.Equal(t, Slice{Content: "# header comment\n\na: \"1\"", StartLine: 1, EndLine: 3}, slices[0])
	assert.Equal(t, Slice{Content: "b: \"2\"", StartLine: 4, EndLine: 4}, slices[1])
}

func TestChunkerBudget(t *testing.T) {
	body := "a: \"12345\"\nb: \"12345\"\nc: \"12345\""
	// 每个条目 10 个字符，加换行 21 个字符正好容纳两个条目
	slices := NewChunker(21, nil).Split(body)

	require.Len(t, slices, 2)
	assert.Equal(t, 1, slices[0].StartLine)
	assert.Equal(t, 2, slices[0].EndLine)
	assert.Equal(t, 3, slices[1].StartLine)
}

func TestChunkerEmptyBody(t *testing.T) {
	assert.Empty(t, NewChunker(100, nil).Split(""))
	assert.Empty(t, NewChunker(100, nil).Split("\n  \n"))
}

func TestChunkerDefaults(t *testing.T) {
	c := NewChunker(0, nil)
	assert.Equal(t, DefaultMaxChunkSize, c.MaxSize())
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("a"))
	assert.Equal(t, 4, EstimateTokens("one two three"))
	assert.Equal(t, 2, EstimateTokens("这是一个测试文本"))
}
