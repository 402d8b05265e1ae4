package render

import (
	"testing"

	"github.com/ardnew/tmpl/lang"
)

func TestPathSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path lang.Path
		want string
	}{
		{lang.Path{Head: "user"}, `$env["user"]`},
		{lang.Path{Head: "true"}, `true`},
		{lang.Path{Head: "nil"}, `nil`},
		{
			lang.Path{Head: "nil", Segments: []lang.Segment{{Name: "x"}}},
			`$env["nil"]?.x`,
		},
		{
			lang.Path{Head: "user", Segments: []lang.Segment{
				{Name: "address"}, {Name: "Size", Call: true},
			}},
			`$env["user"]?.address?.Size()`,
		},
		{
			lang.Path{Head: "ñame", Segments: []lang.Segment{{Name: "$x"}}},
			`$env["ñame"]["$x"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if got := pathSource(tt.path); got != tt.want {
				t.Errorf("pathSource(%s) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestCondSource(t *testing.T) {
	t.Parallel()

	e := &lang.Or{
		Left: &lang.Not{Expr: &lang.Comparison{
			Left: lang.Path{Head: "a"}, Op: lang.OpLess, Right: lang.Path{Head: "b"},
		}},
		Right: &lang.And{
			Left: &lang.Comparison{
				Left: lang.Path{Head: "c"}, Op: lang.OpEqual, Right: lang.Path{Head: "true"},
			},
			Right: &lang.Comparison{
				Left: lang.Path{Head: "d"}, Op: lang.OpNotEqual, Right: lang.Path{Head: "nil"},
			},
		},
	}

	want := `(!($env["a"] < $env["b"])) || ` +
		`(($env["c"] == true) && ($env["d"] != nil))`

	if got := condSource(e); got != want {
		t.Errorf("condSource() =\n%s\nwant\n%s", got, want)
	}
}
