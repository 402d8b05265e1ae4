package lang

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestParse_Tree(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Root
	}{
		{
			name:  "empty",
			input: "",
			want:  &Root{},
		},
		{
			name:  "literal only",
			input: "hello world",
			want:  &Root{Children: []Node{&Literal{Text: "hello world"}}},
		},
		{
			name:  "percent without brace",
			input: "100% sure",
			want:  &Root{Children: []Node{&Literal{Text: "100% sure"}}},
		},
		{
			name:  "less than without hash",
			input: "a < b",
			want:  &Root{Children: []Node{&Literal{Text: "a < b"}}},
		},
		{
			name:  "interpolation",
			input: "Hi %{user.name}!",
			want: &Root{Children: []Node{
				&Literal{Text: "Hi "},
				&Interpolation{Path: path("user", "name")},
				&Literal{Text: "!"},
			}},
		},
		{
			name:  "interpolation only",
			input: "%{ user }",
			want: &Root{Children: []Node{
				&Interpolation{Path: path("user")},
			}},
		},
		{
			name:  "adjacent interpolations",
			input: "%{a}%{b}",
			want: &Root{Children: []Node{
				&Interpolation{Path: path("a")},
				&Interpolation{Path: path("b")},
			}},
		},
		{
			name:  "call segment with transform",
			input: "%{items.size() upper}",
			want: &Root{Children: []Node{
				&Interpolation{
					Path:      path("items", "size()"),
					Transform: testTransform("upper"),
				},
			}},
		},
		{
			name:  "unicode identifiers",
			input: "%{ñame.$x._ü1}",
			want: &Root{Children: []Node{
				&Interpolation{Path: path("ñame", "$x", "_ü1")},
			}},
		},
		{
			name:  "conditional",
			input: "<#if(a==b)>X</#if>",
			want: &Root{Children: []Node{
				&Conditional{
					Cond:     cmp("a", OpEqual, "b"),
					Children: []Node{&Literal{Text: "X"}},
				},
			}},
		},
		{
			name:  "conditional with spacing",
			input: "< #if ( a == b ) >X< / #if >",
			want: &Root{Children: []Node{
				&Conditional{
					Cond:     cmp("a", OpEqual, "b"),
					Children: []Node{&Literal{Text: "X"}},
				},
			}},
		},
		{
			name:  "empty body",
			input: "<#if(a!=b)></#if>",
			want: &Root{Children: []Node{
				&Conditional{Cond: cmp("a", OpNotEqual, "b")},
			}},
		},
		{
			name:  "and with negated group",
			input: "<#if(a==b && !(c<d))>Y</#if>",
			want: &Root{Children: []Node{
				&Conditional{
					Cond: &And{
						Left:  cmp("a", OpEqual, "b"),
						Right: &Not{Expr: cmp("c", OpLess, "d")},
					},
					Children: []Node{&Literal{Text: "Y"}},
				},
			}},
		},
		{
			name:  "or binds looser than and",
			input: "<#if(a>b && c>=d || e<=f)>Z</#if>",
			want: &Root{Children: []Node{
				&Conditional{
					Cond: &Or{
						Left: &And{
							Left:  cmp("a", OpGreater, "b"),
							Right: cmp("c", OpGreaterEqual, "d"),
						},
						Right: cmp("e", OpLessEqual, "f"),
					},
					Children: []Node{&Literal{Text: "Z"}},
				},
			}},
		},
		{
			name:  "grouped chain",
			input: "<#if((a==b && c==d) && e==f)>W</#if>",
			want: &Root{Children: []Node{
				&Conditional{
					Cond: &And{
						Left: &And{
							Left:  cmp("a", OpEqual, "b"),
							Right: cmp("c", OpEqual, "d"),
						},
						Right: cmp("e", OpEqual, "f"),
					},
					Children: []Node{&Literal{Text: "W"}},
				},
			}},
		},
		{
			name:  "nested conditionals",
			input: "<#if(a==b)>1<#if(c!=d)>2</#if>3</#if>4",
			want: &Root{Children: []Node{
				&Conditional{
					Cond: cmp("a", OpEqual, "b"),
					Children: []Node{
						&Literal{Text: "1"},
						&Conditional{
							Cond:     cmp("c", OpNotEqual, "d"),
							Children: []Node{&Literal{Text: "2"}},
						},
						&Literal{Text: "3"},
					},
				},
				&Literal{Text: "4"},
			}},
		},
		{
			name:  "interpolation inside conditional",
			input: "<#if(user.age() >= limits.adult)>Hello %{user.name title}</#if>",
			want: &Root{Children: []Node{
				&Conditional{
					Cond: &Comparison{
						Left:  path("user", "age()"),
						Op:    OpGreaterEqual,
						Right: path("limits", "adult"),
					},
					Children: []Node{
						&Literal{Text: "Hello "},
						&Interpolation{
							Path:      path("user", "name"),
							Transform: testTransform("title"),
						},
					},
				},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.input, WithRegistry(testTransforms))

			if g, w := dump(t, got), dump(t, tt.want); g != w {
				t.Errorf("tree mismatch\ngot:\n%s\nwant:\n%s", g, w)
			}
		})
	}
}

func TestParse_PermissiveFallback(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unclosed interpolation", "%{user.name"},
		{"empty interpolation", "%{ }"},
		{"dangling dot", "%{user.}"},
		{"space inside call", "%{a.b( )}"},
		{"call head", "%{a()}"},
		{"two names", "%{a b c}"},
		{"uppercase transform", "%{a Upper}"},
		{"bare path condition", "<#if(a)>x</#if>"},
		{"unknown tag", "<#each(a==b)>x</#each>"},
		{"missing close paren", "<#if(a==b>x</#if>"},
		{"unchained triple and", "<#if(a==b && c==d && e==f)>x</#if>"},
		{"unchained triple or", "<#if(a==b || c==d || e==f)>x</#if>"},
		{"stray close tag", "text</#if>more"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustParse(t, tt.input, WithRegistry(testTransforms))

			if len(root.Children) != 1 {
				t.Fatalf("expected a single literal, got:\n%s", dump(t, root))
			}

			lit, ok := root.Children[0].(*Literal)
			if !ok || lit.Text != tt.input {
				t.Errorf("expected literal %q, got:\n%s", tt.input, dump(t, root))
			}
		})
	}
}

func TestParse_PermissiveFallbackThenValid(t *testing.T) {
	root := mustParse(t, "%{a %{b}")

	want := &Root{Children: []Node{
		&Literal{Text: "%{a "},
		&Interpolation{Path: path("b")},
	}}

	if g, w := dump(t, root), dump(t, want); g != w {
		t.Errorf("tree mismatch\ngot:\n%s\nwant:\n%s", g, w)
	}
}

func TestParse_UnknownTransform(t *testing.T) {
	t.Run("permissive drops it", func(t *testing.T) {
		root := mustParse(t, "%{items.size() shout}", WithRegistry(testTransforms))

		in, ok := root.Children[0].(*Interpolation)
		if !ok {
			t.Fatalf("expected interpolation, got:\n%s", dump(t, root))
		}

		if in.Transform != nil {
			t.Errorf("expected no transform, got %v", in.Transform.Name())
		}

		if !in.Path.Equal(path("items", "size()")) {
			t.Errorf("unexpected path %s", in.Path)
		}
	})

	t.Run("no registry", func(t *testing.T) {
		root := mustParse(t, "%{a upper}")

		if in := root.Children[0].(*Interpolation); in.Transform != nil {
			t.Errorf("expected no transform, got %v", in.Transform.Name())
		}
	})

	t.Run("strict reports it with suggestions", func(t *testing.T) {
		_, err := Parse(t.Context(), "%{a uper}",
			WithRegistry(testTransforms), WithStrict(true))
		if !errors.Is(err, ErrUnknownTransform) {
			t.Fatalf("expected ErrUnknownTransform, got %v", err)
		}

		var e *Error
		if !errors.As(err, &e) {
			t.Fatalf("expected *Error, got %T", err)
		}

		var suggest []string
		for _, a := range e.Attrs() {
			if a.Key == "suggest" {
				suggest, _ = a.Value.Any().([]string)
			}
		}

		if !slices.Contains(suggest, "upper") {
			t.Errorf("expected suggestion upper, got %v", suggest)
		}
	})
}

func TestParse_StrictErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"malformed interpolation", "x %{user.} y", ErrMalformedInterpolation},
		{"malformed tag", "<#if(a)>x</#if>", ErrMalformedTag},
		{"unknown tag", "<#each(a==b)>x</#each>", ErrMalformedTag},
		{"triple and", "<#if(a==b && c==d && e==f)>x</#if>", ErrMalformedTag},
		{"stray close tag", "text</#if>", ErrUnexpectedCloseTag},
		{"mismatched close tag", "<#if(a==b)>x</#each>", ErrUnexpectedCloseTag},
		{"unterminated", "<#if(a==b)>x", ErrUnterminatedTag},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(t.Context(), tt.input, WithPolicy(Strict))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParse_StrictAcceptsValid(t *testing.T) {
	input := "a < b, 100%, <#if(a == b)>%{x upper}</#if>"

	root := mustParse(t, input, WithStrict(true), WithRegistry(testTransforms))

	if got := root.String(); got != input {
		t.Errorf("String() = %q, want %q", got, input)
	}
}

func TestParse_Unterminated(t *testing.T) {
	for _, policy := range []Policy{Permissive, Strict} {
		t.Run(policy.String(), func(t *testing.T) {
			_, err := Parse(t.Context(), "pre <#if(a==b)>X", WithPolicy(policy))
			if !errors.Is(err, ErrUnterminatedTag) {
				t.Fatalf("expected ErrUnterminatedTag, got %v", err)
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %T", err)
			}

			for _, a := range e.Attrs() {
				if a.Key == "offset" && a.Value.Int64() != 4 {
					t.Errorf("expected offset 4, got %v", a.Value)
				}
			}
		})
	}

	t.Run("inner unterminated", func(t *testing.T) {
		_, err := Parse(t.Context(), "<#if(a==b)><#if(c==d)>X</#if>")
		if !errors.Is(err, ErrUnterminatedTag) {
			t.Errorf("expected ErrUnterminatedTag, got %v", err)
		}
	})
}

func TestParse_MaxDepth(t *testing.T) {
	nested := func(n int) string {
		return strings.Repeat("<#if(a==b)>", n) + "x" + strings.Repeat("</#if>", n)
	}

	cond := func(c string) string { return "<#if(" + c + ")>x</#if>" }

	groups := func(n int) string {
		return cond(strings.Repeat("(", n) + "a==b" + strings.Repeat(")", n))
	}

	tests := []struct {
		name    string
		input   string
		max     int
		wantErr bool
	}{
		{"tags at limit", nested(2), 2, false},
		{"tags beyond limit", nested(3), 2, true},
		{"tags at default", nested(DefaultMaxDepth), 0, false},
		{"tags beyond default", nested(DefaultMaxDepth + 1), 0, true},
		{"groups at limit", groups(2), 2, false},
		{"groups beyond limit", groups(3), 2, true},
		{"groups at default", groups(DefaultMaxDepth), 0, false},
		{"groups beyond default", groups(DefaultMaxDepth + 1), 0, true},
		{"negations at limit", cond("!!a==b"), 2, false},
		{"negations beyond limit", cond("!!!a==b"), 2, true},
		{"negated groups share a level", cond("!(!(a==b))"), 2, false},
		{"negated groups beyond limit", cond("!(!(!(a==b)))"), 2, true},
		{"negations beyond default", cond(strings.Repeat("!", DefaultMaxDepth+1) + "a==b"), 0, true},
		{"very deep groups", groups(500_000), 0, true},
		{"very deep negations", cond(strings.Repeat("!", 500_000) + "a==b"), 0, true},
		{"unbalanced deep groups", "<#if(" + strings.Repeat("(", 500_000), 0, true},
	}

	for _, tt := range tests {
		for _, policy := range []Policy{Permissive, Strict} {
			t.Run(tt.name+"/"+policy.String(), func(t *testing.T) {
				root, err := Parse(t.Context(), tt.input,
					WithMaxDepth(tt.max), WithPolicy(policy))

				if tt.wantErr {
					if !errors.Is(err, ErrMaxDepthExceeded) {
						t.Fatalf("expected ErrMaxDepthExceeded, got %v", err)
					}

					return
				}

				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}

				// The canonical form must fit within the same bound.
				if _, err := Parse(t.Context(), root.String(),
					WithMaxDepth(tt.max), WithPolicy(policy)); err != nil {
					t.Errorf("canonical form %q: %v", root.String(), err)
				}
			})
		}
	}
}

func TestParsePolicy(t *testing.T) {
	if ParsePolicy("strict") != Strict {
		t.Error("expected strict")
	}

	if ParsePolicy("anything") != Permissive {
		t.Error("expected permissive")
	}
}
