package locfile

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeSlicesSortsAndIndents(t *testing.T) {
	slices := []Slice{
		{Content: "c: \"3\"", StartLine: 3, EndLine: 3},
		{Content: "a: \"1\"\n\nb: \"2\"", StartLine: 1, EndLine: 2},
	}

	merged, err := MergeSlices(slices)
	require.NoError(t, err)
	assert.Equal(t, "    a: \"1\"\n\n    b: \"2\"\n    c: \"3\"", merged)

	// 输入切片不应被修改
	assert.Equal(t, 3, slices[0].StartLine)
}

func TestMergeSlicesKeepsSliceLocalIndentation(t *testing.T) {
	merged, err := MergeSlices([]Slice{{Content: "a: \"1\"\n  nested: \"2\"", StartLine: 1, EndLine: 2}})
	require.NoError(t, err)
	assert.Equal(t, "    a: \"1\"\n      nested: \"2\"", merged)
}

func TestMergeSlicesErrors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := MergeSlices(nil)
		assert.ErrorIs(t, err, ErrInconsistentSlices)
	})

	t.Run("gap between slices", func(t *testing.T) {
		_, err := MergeSlices([]Slice{
			{Content: "a: \"1\"", StartLine: 1, EndLine: 10},
			{Content: "b: \"2\"", StartLine: 12, EndLine: 12},
		})
		require.ErrorIs(t, err, ErrMergeFailed)

		var mergeErr *MergeError
		require.True(t, errors.As(err, &mergeErr))
		assert.Equal(t, 10, mergeErr.PrevEnd)
		assert.Equal(t, 12, mergeErr.NextStart)
	})

	t.Run("overlapping slices", func(t *testing.T) {
		_, err := MergeSlices([]Slice{
			{Content: "a: \"1\"", StartLine: 1, EndLine: 2},
			{Content: "b: \"2\"", StartLine: 2, EndLine: 3},
		})
		assert.ErrorIs(t, err, ErrMergeFailed)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := MergeSlices([]Slice{{Content: "a", StartLine: 3, EndLine: 2}})
		assert.ErrorIs(t, err, ErrMergeFailed)
	})
}

func TestReconstruct(t *testing.T) {
	doc, err := Reconstruct([]Slice{{Content: "a: \"1\"", StartLine: 1, EndLine: 1}}, "simp_chinese")
	require.NoError(t, err)
	assert.Equal(t, "l_simp_chinese:\n    a: \"1\"\n", doc)

	_, err = Reconstruct(nil, "simp_chinese")
	assert.ErrorIs(t, err, ErrInconsistentSlices)

	assert.Equal(t, "l_german:\n", HeaderOnly("german"))
}

func TestIdentityRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 30; round++ {
		source := "l_english:\n" + randomBody(r, 1+r.Intn(40)) + "\n"
		for _, budget := range []int{1, 50, 400} {
			t.Run(fmt.Sprintf("round_%d_budget_%d", round, budget), func(t *testing.T) {
				header, body := SplitHeader(Normalize(source), "english")
				require.Equal(t, "l_english:", header)

				slices := NewChunker(budget, nil).Split(body)
				doc, err := Reconstruct(slices, "german")
				require.NoError(t, err)

				newHeader, newBody := SplitHeader(doc, "german")
				assert.Equal(t, "l_german:", newHeader)
				if diff := cmp.Diff(SplitLines(body), SplitLines(newBody)); diff != "" {
					t.Fatalf("round trip changed body (-want +got):\n%s", diff)
				}
			})
		}
	}
}
