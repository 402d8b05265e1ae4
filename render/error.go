package render

import "github.com/ardnew/tmpl/lang"

var (
	ErrCompile   = lang.NewError("failed to compile template expression")
	ErrEvaluate  = lang.NewError("failed to evaluate template expression")
	ErrTransform = lang.NewError("failed to apply transform")
)
