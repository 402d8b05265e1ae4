package lang

import (
	"context"
	"testing"
)

// FuzzParse checks that parsing terminates without panicking and that the
// canonical form of every accepted template is stable.
func FuzzParse(f *testing.F) {
	f.Add("")
	f.Add("plain")
	f.Add("%{user.name}")
	f.Add("%{items.size() upper}")
	f.Add("<#if(a==b)>X</#if>")
	f.Add("<#if(a==b && !(c<d))>Y</#if>")
	f.Add("<#if((a==b || c==d) && e==f)>%{g}</#if>")
	f.Add("<#if(a==b)>unterminated")
	f.Add("%{ broken")
	f.Add("</#if>")
	f.Add("< # if ( a == b ) > < / # if >")
	f.Add("\xff%{a}\xfe")
	f.Add("<#if(a==b)>\xff</#if>")
	f.Add("<#if(!(!(a==b)))>x</#if>")

	f.Fuzz(func(t *testing.T, input string) {
		ctx := context.Background()

		for _, policy := range []Policy{Permissive, Strict} {
			root, err := Parse(ctx, input,
				WithRegistry(testTransforms), WithPolicy(policy))
			if err != nil {
				continue
			}

			canon := root.String()

			again, err := Parse(ctx, canon,
				WithRegistry(testTransforms), WithPolicy(policy))
			if err != nil {
				t.Fatalf("%s: canonical form %q of %q failed: %v",
					policy, canon, input, err)
			}

			if again.String() != canon {
				t.Errorf("%s: canonical form unstable: %q then %q",
					policy, canon, again.String())
			}
		}
	})
}
