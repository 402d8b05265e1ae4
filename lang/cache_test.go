package lang

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
)

func TestParseReader_CachesIdenticalSource(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	const source = "Hi %{user.name upper}<#if(a==b)>!</#if>"

	first, err := ParseReader(t.Context(), strings.NewReader(source),
		WithRegistry(testTransforms))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	second, err := ParseReader(t.Context(), strings.NewReader(source),
		WithRegistry(testTransforms))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	if first != second {
		t.Error("expected identical source and options to share a tree")
	}

	if got := first.String(); got != "Hi %{user.name upper}<#if(a == b)>!</#if>" {
		t.Errorf("unexpected tree %q", got)
	}
}

func TestParseReader_KeyIncludesOptions(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	const source = "%{a upper}"

	permissive, err := ParseReader(t.Context(), strings.NewReader(source),
		WithRegistry(testTransforms))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	strict, err := ParseReader(t.Context(), strings.NewReader(source),
		WithRegistry(testTransforms), WithStrict(true))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	if permissive == strict {
		t.Error("expected different policies to parse separately")
	}

	// A registry with a different key resolves differently.
	bare, err := ParseReader(t.Context(), strings.NewReader(source))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	if bare == permissive {
		t.Error("expected different registries to parse separately")
	}

	if in := bare.Children[0].(*Interpolation); in.Transform != nil {
		t.Errorf("expected no transform without registry, got %s", in.Transform.Name())
	}
}

func TestParseReader_BypassesUnkeyedRegistry(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	reg := RegistryFunc(func(name string) (Transform, bool) {
		return testTransform(name), true
	})

	first, err := ParseReader(t.Context(), strings.NewReader("%{a b}"), WithRegistry(reg))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	second, err := ParseReader(t.Context(), strings.NewReader("%{a b}"), WithRegistry(reg))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	if first == second {
		t.Error("expected registry without cache key to bypass the cache")
	}
}

func TestParseReader_CachesErrors(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	for range 2 {
		_, err := ParseReader(t.Context(), strings.NewReader("<#if(a==b)>open"))
		if !errors.Is(err, ErrUnterminatedTag) {
			t.Fatalf("expected ErrUnterminatedTag, got %v", err)
		}
	}
}

func TestParseReader_KeyCollision(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	const source = "Hi %{name}"

	optsHash := hashOptions(makeOptions().key, emptyRegistry{}.CacheKey())

	tests := []struct {
		name  string
		entry *entry
	}{
		{"different source", &entry{source: "something else", options: optsHash}},
		{"different options", &entry{source: source, options: optsHash + 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stale := &Root{Children: []Node{&Literal{Text: "stale"}}}
			tt.entry.once.Do(func() { tt.entry.root = stale })

			globalCache.Store(cacheKey(source, optsHash), tt.entry)

			root, err := ParseReader(t.Context(), strings.NewReader(source))
			if err != nil {
				t.Fatalf("ParseReader: %v", err)
			}

			if root == stale {
				t.Fatal("colliding entry served for a different parse")
			}

			if got := root.String(); got != source {
				t.Errorf("got %q, want %q", got, source)
			}
		})
	}
}

func TestParseReader_ReadError(t *testing.T) {
	boom := errors.New("boom")

	_, err := ParseReader(t.Context(), iotest.ErrReader(boom))
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("expected ErrReadInput, got %v", err)
	}

	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}

func TestClearCache(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	first, err := ParseReader(t.Context(), strings.NewReader("x"))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	ClearCache()

	second, err := ParseReader(t.Context(), strings.NewReader("x"))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	if first == second {
		t.Error("expected a fresh tree after ClearCache")
	}
}

func TestParseReader_Concurrent(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	const source = "<#if(a==b)>%{c lower}</#if>"

	roots := make([]*Root, 32)

	var wg sync.WaitGroup
	for i := range roots {
		wg.Add(1)

		go func() {
			defer wg.Done()

			root, err := ParseReader(t.Context(), strings.NewReader(source),
				WithRegistry(testTransforms))
			if err != nil {
				t.Errorf("ParseReader: %v", err)

				return
			}

			roots[i] = root
		}()
	}

	wg.Wait()

	for i, r := range roots {
		if r != roots[0] {
			t.Errorf("goroutine %d got a different tree", i)
		}
	}
}

func BenchmarkParseReader_Cached(b *testing.B) {
	ClearCache()
	b.Cleanup(ClearCache)

	source := strings.Repeat("Hello %{user.name upper}<#if(a==b && !(c<d))>yes</#if>\n", 64)

	for b.Loop() {
		_, _ = ParseReader(b.Context(), strings.NewReader(source),
			WithRegistry(testTransforms))
	}
}

func BenchmarkParse(b *testing.B) {
	source := strings.Repeat("Hello %{user.name upper}<#if(a==b && !(c<d))>yes</#if>\n", 64)

	for b.Loop() {
		_, _ = Parse(b.Context(), source, WithRegistry(testTransforms))
	}
}
