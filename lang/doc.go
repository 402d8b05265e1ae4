// Package lang parses conditional text templates.
//
// A template is literal text with two kinds of embedded constructs:
//
//	%{user.name}                   interpolation
//	%{items.size() upper}          interpolation with a named transform
//	<#if(a.b == c && !(d < e))>    conditional, closed by </#if>
//
// # Grammar
//
//	IDENTIFIER   = start-char continue-char*
//	SEGMENT      = IDENTIFIER "()"?
//	PATH         = IDENTIFIER ('.' SEGMENT)*
//	NAME         = [a-z]+
//	VAR          = "%{" WS? PATH (WS NAME)? WS? "}"
//	OP           = "==" | "!=" | ">" | ">=" | "<" | "<="
//	COMPARISON   = PATH WS? OP WS? PATH
//	EXP          = TERM ("||" TERM)?
//	TERM         = FACTOR ("&&" FACTOR)?
//	FACTOR       = COMPARISON | '!' FACTOR | '(' EXP ')'
//	TAG_START    = '<' WS? '#'
//	TAG_END      = '<' WS? '/' WS? '#' NAME WS? '>'
//	IF_TAG       = TAG_START "if" WS? '(' EXP ')' WS? '>' BODY TAG_END
//
// Whitespace is insignificant around operators and parentheses. Each binary
// level admits a single operator, so a && b && c must be written with
// parentheses, as in (a && b) && c.
//
// # Parsing
//
// [Parse] makes a single forward pass. At each position it tries a
// conditional, then an interpolation; text in between accumulates into
// [Literal] nodes. Scan positions are immutable values, so an attempt that
// fails leaves nothing to undo and the scan simply moves on by one rune.
//
// What happens to text that looks like a construct but does not parse is
// governed by [Policy]. [Permissive] keeps it as literal text and ignores
// unknown transform names; [Strict] reports it. A conditional that is
// opened but never closed is an error under either policy, as is nesting
// deeper than [WithMaxDepth] allows. The depth bound covers conditional tags
// and, within each condition, parenthesized groups and negations.
//
// Transform names are resolved once, at parse time, through the [Registry]
// given with [WithRegistry]. The tree records the resolved handle.
package lang
