// Package builtin provides the standard output transforms named in
// interpolations such as %{user.name upper}.
//
// A [Registry] satisfies [lang.Registry] and [lang.Lister], so it can be
// handed to the parser with [lang.WithRegistry]. The parser records the
// resolved [*Transform] in the tree, and the renderer calls
// [Transform.Apply] on the value found at the interpolation's path.
//
// # Transforms
//
//	upper   upper-case text
//	lower   lower-case text
//	title   title-case text
//	trim    strip leading and trailing white space
//	quote   Go-quoted string
//	json    JSON encoding
//	yaml    single-line YAML flow encoding
//	path    normalized PATH-style list
//	len     length of a string, slice, array or map
package builtin
