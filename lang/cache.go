package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parse results keyed by source hash. It grows with every
// distinct input until [ClearCache].
// Nodes are immutable, so a cached tree is shared by every caller.
var globalCache sync.Map

// entry tracks the parse result for a single source.
type entry struct {
	once sync.Once
	node Node
	err  error
}

// ParseReader parses input from an io.Reader and returns the top-level node.
// The reader content is cached after first parse for efficiency.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (Node, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	o := makeOptions(opts...)

	o.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return ParseString(ctx, string(data), opts...)
}

// ParseString parses a string and returns the top-level node.
//
// Results, including errors, are cached by content so that identical input is
// parsed only once even when requested from multiple goroutines.
// Inputs that differ only in trailing content after the top-level construct
// are cached separately.
//
// Entries are never evicted: every distinct input keeps its tree alive until
// [ClearCache]. Callers parsing an unbounded stream of distinct inputs, such
// as an interactive session, should call [Parse] instead.
func ParseString(
	ctx context.Context,
	source string,
	opts ...Option,
) (Node, error) {
	o := makeOptions(opts...)

	// Generate source key (hash) for caching - using xxhash3 for performance
	key := strconv.FormatUint(xxh3.HashString(source), 36)
	if o.snippet {
		key += ":snippet"
	}

	value, cacheHit := globalCache.LoadOrStore(key, new(entry))
	cached := value.(*entry) //nolint:forcetypeassert

	o.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", key),
		slog.Bool("cache_hit", cacheHit),
	)

	cached.once.Do(func() {
		cached.node, cached.err = Parse(ctx, source, opts...)
	})

	return cached.node, cached.err
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
