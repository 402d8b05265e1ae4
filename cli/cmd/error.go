package cmd

import "github.com/ardnew/tmpl/lang"

// Sentinel errors.
var (
	ErrNoSource   = lang.NewError("no template source")
	ErrOpenSource = lang.NewError("open template source")
	ErrOpenData   = lang.NewError("open data file")
)
