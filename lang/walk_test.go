package lang

import (
	"slices"
	"testing"
)

func TestWalk_Order(t *testing.T) {
	root := mustParse(t, "a%{b}<#if(c==d)>e<#if(f==g)>%{h}</#if></#if>")

	var kinds []string

	Walk(root, func(n Node) bool {
		switch n.(type) {
		case *Root:
			kinds = append(kinds, "root")
		case *Literal:
			kinds = append(kinds, "literal")
		case *Interpolation:
			kinds = append(kinds, "interpolation")
		case *Conditional:
			kinds = append(kinds, "conditional")
		}

		return true
	})

	want := []string{
		"root", "literal", "interpolation",
		"conditional", "literal", "conditional", "interpolation",
	}

	if !slices.Equal(kinds, want) {
		t.Errorf("got %v, want %v", kinds, want)
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	root := mustParse(t, "<#if(c==d)>e%{f}</#if>g")

	count := 0

	Walk(root, func(n Node) bool {
		count++

		_, isCond := n.(*Conditional)

		return !isCond
	})

	// root, conditional, literal g
	if count != 3 {
		t.Errorf("expected 3 visits, got %d", count)
	}
}

func TestRoot_All_EarlyStop(t *testing.T) {
	root := mustParse(t, "a%{b}c%{d}e")

	var seen int
	for range root.All() {
		seen++
		if seen == 2 {
			break
		}
	}

	if seen != 2 {
		t.Errorf("expected to stop after 2 nodes, got %d", seen)
	}
}

func TestRoot_Exprs_Paths(t *testing.T) {
	root := mustParse(t,
		"<#if(a.b==c)>x</#if><#if(!(d.e() < f) || g >= h.i)><#if(j!=k)>y</#if></#if>")

	var got []string
	for e := range root.Exprs() {
		for p := range Paths(e) {
			got = append(got, p.String())
		}
	}

	want := []string{"a.b", "c", "d.e()", "f", "g", "h.i", "j", "k"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
