package lang

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseString_ParsesOnce(t *testing.T) {
	ClearCache()

	const source = "{{<a>},{<b>},{{}}}"

	var wg sync.WaitGroup

	results := make([]Node, 10)
	errs := make([]error, 10)

	for i := range 10 {
		wg.Add(1)

		go func(idx int) {
			defer wg.Done()

			results[idx], errs[idx] = ParseString(context.Background(), source)
		}(i)
	}

	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "parse %d", i)
	}

	// Every caller shares the same immutable tree.
	for i := 1; i < len(results); i++ {
		assert.Same(t, results[0], results[i], "result %d", i)
	}

	assert.Equal(t, 1+2+2+2+3, Score(results[0]))
}

func TestParseString_DifferentContent(t *testing.T) {
	ClearCache()

	a, err := ParseString(context.Background(), "{}")
	require.NoError(t, err)

	b, err := ParseString(context.Background(), "{{}}")
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, 1, Score(a))
	assert.Equal(t, 3, Score(b))
}

func TestParseString_CachesErrors(t *testing.T) {
	ClearCache()

	_, err1 := ParseString(context.Background(), "{<!>}")
	_, err2 := ParseString(context.Background(), "{<!>}")

	require.Error(t, err1)
	assert.Same(t, err1, err2)
	assert.ErrorIs(t, err1, ErrUnterminatedGarbage)
}

func TestParseString_SnippetCachedSeparately(t *testing.T) {
	ClearCache()

	_, plain := ParseString(context.Background(), "{")
	_, withSrc := ParseString(context.Background(), "{", WithSnippet(true))

	pe := &ParseError{}
	require.ErrorAs(t, plain, &pe)
	assert.Empty(t, pe.Source)

	require.ErrorAs(t, withSrc, &pe)
	assert.Equal(t, "{", pe.Source)
}

func TestClearCache(t *testing.T) {
	a, err := ParseString(context.Background(), "{{},{}}")
	require.NoError(t, err)

	ClearCache()

	b, err := ParseString(context.Background(), "{{},{}}")
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, Measure(a), Measure(b))
}

func TestParseReader(t *testing.T) {
	ClearCache()

	node, err := ParseReader(
		context.Background(),
		strings.NewReader("{{<ab>},{<ab>},{<ab>},{<ab>}}\n"),
	)
	require.NoError(t, err)

	assert.Equal(t, 9, Score(node))
	assert.Equal(t, 8, GarbageLength(node))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestParseReader_ReadError(t *testing.T) {
	node, err := ParseReader(context.Background(), failingReader{})

	assert.Nil(t, node)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReadInput)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestParseReader_Empty(t *testing.T) {
	_, err := ParseReader(context.Background(), io.LimitReader(strings.NewReader("{}"), 0))

	assert.ErrorIs(t, err, ErrEmptyInput)
}
