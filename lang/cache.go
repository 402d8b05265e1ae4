package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parsed trees keyed by source and options hash.
var globalCache sync.Map

// entry holds the single parse result for one cache key, along with the
// source and options it was parsed from. Colliding keys are told apart by
// comparing both.
type entry struct {
	source  string
	options uint64
	once    sync.Once
	root    *Root
	err     error
}

// cacheKey returns the key under which a parse of source with the options
// hashed to optsHash is stored.
func cacheKey(source string, optsHash uint64) string {
	return strconv.FormatUint(xxh3.HashString(source)^optsHash, 36)
}

// hashOptions encodes options using gob and hashes with xxh3.
// Returns a hash that uniquely identifies the options configuration.
func hashOptions(key optionsKey, registry uint64) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(key)
	_ = enc.Encode(registry)

	return xxh3.Hash(buf.Bytes())
}

// ParseReader parses template source read from r.
//
// Identical sources parsed with identical options share one tree, so the
// result must not be modified. Sources parsed with a registry that does not
// provide a cache key are always parsed afresh.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Root, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	o := makeOptions(opts...)

	o.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true))

	keyer, ok := o.registry.(cacheKeyer)
	if !ok {
		o.logger.TraceContext(ctx, "cache bypass",
			slog.String("reason", "registry has no cache key"))

		return parse(ctx, string(data), o)
	}

	return parseCached(ctx, string(data), o, keyer.CacheKey())
}

func parseCached(
	ctx context.Context,
	source string,
	o options,
	registry uint64,
) (*Root, error) {
	optsHash := hashOptions(o.key, registry)
	key := cacheKey(source, optsHash)

	value, hit := globalCache.LoadOrStore(key,
		&entry{source: source, options: optsHash})

	e, ok := value.(*entry)
	if !ok {
		return parse(ctx, source, o)
	}

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("key", key),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit))

	if e.options != optsHash || e.source != source {
		o.logger.TraceContext(ctx, "cache bypass",
			slog.String("reason", "key collision"),
			slog.String("key", key))

		return parse(ctx, source, o)
	}

	e.once.Do(func() {
		e.root, e.err = parse(ctx, source, o)
	})

	return e.root, e.err
}

// ClearCache removes all cached trees.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
