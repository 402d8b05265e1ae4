package repl

import "github.com/ardnew/tmpl/lang"

// Sentinel errors.
var (
	ErrOutOfBounds  = lang.NewError("history index out of range")
	ErrEditDeclined = lang.NewError("decline edit")
)
