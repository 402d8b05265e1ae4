package lang

import "github.com/ardnew/tmpl/log"

// Policy selects how the parser treats constructs that start like template
// syntax but do not parse.
type Policy int

const (
	// Permissive renders malformed interpolations and tags verbatim as
	// literal text, and drops unknown transform names.
	Permissive Policy = iota
	// Strict reports malformed constructs and unknown transform names as
	// errors.
	Strict
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case Permissive:
		return "permissive"

	case Strict:
		return "strict"

	default:
		return "unknown"
	}
}

// ParsePolicy parses a policy name, defaulting to [Permissive].
func ParsePolicy(s string) Policy {
	if s == Strict.String() {
		return Strict
	}

	return Permissive
}

// DefaultMaxDepth is the default maximum nesting depth of conditional tags,
// and separately of groups and negations within one condition.
// Users may modify this before parsing to change the default.
var DefaultMaxDepth = 100

// optionsKey holds the parse options that affect the resulting tree.
// This type is gob-encodable for cache key hashing.
type optionsKey struct {
	Policy   Policy
	MaxDepth int
}

type options struct {
	key      optionsKey
	registry Registry
	logger   log.Logger
}

// Option configures parsing behavior.
type Option func(*options)

func makeOptions(opts ...Option) options {
	o := options{
		key: optionsKey{
			Policy:   Permissive,
			MaxDepth: DefaultMaxDepth,
		},
		registry: emptyRegistry{},
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithRegistry sets the registry used to resolve transform names.
// A nil registry knows no transforms.
func WithRegistry(r Registry) Option {
	return func(o *options) {
		if r == nil {
			r = emptyRegistry{}
		}

		o.registry = r
	}
}

// WithPolicy sets the error policy.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.key.Policy = p
	}
}

// WithStrict is shorthand for WithPolicy(Strict) when enable is true.
func WithStrict(enable bool) Option {
	if enable {
		return WithPolicy(Strict)
	}

	return WithPolicy(Permissive)
}

// WithMaxDepth sets the maximum nesting depth of conditional tags. The same
// bound applies to groups and negations within each condition, where a group
// written directly after ! does not count again. Values below one are
// ignored.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.key.MaxDepth = depth
		}
	}
}

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
