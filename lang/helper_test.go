package lang

import (
	"bytes"
	"slices"
	"testing"
)

type testTransform string

func (t testTransform) Name() string { return string(t) }

// testRegistry resolves every name it holds to a testTransform.
type testRegistry []string

func (r testRegistry) Resolve(name string) (Transform, bool) {
	if slices.Contains(r, name) {
		return testTransform(name), true
	}

	return nil, false
}

func (r testRegistry) Names() []string  { return r }
func (r testRegistry) CacheKey() uint64 { return uint64(len(r)) }

var testTransforms = testRegistry{"upper", "lower", "title"}

func dump(t *testing.T, r *Root) string {
	t.Helper()

	var buf bytes.Buffer
	if err := r.Print(&buf); err != nil {
		t.Fatalf("print: %v", err)
	}

	return buf.String()
}

func mustParse(t *testing.T, source string, opts ...Option) *Root {
	t.Helper()

	root, err := Parse(t.Context(), source, opts...)
	if err != nil {
		t.Fatalf("Parse(%q): %v", source, err)
	}

	return root
}

func path(head string, segs ...string) Path {
	p := Path{Head: head}

	for _, s := range segs {
		name, call := s, false
		if n := len(s); n > 2 && s[n-2:] == "()" {
			name, call = s[:n-2], true
		}

		p.Segments = append(p.Segments, Segment{Name: name, Call: call})
	}

	return p
}

func cmp(l string, op Op, r string) *Comparison {
	return &Comparison{Left: path(l), Op: op, Right: path(r)}
}
