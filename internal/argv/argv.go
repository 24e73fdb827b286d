// Package argv builds subprocess argument vectors from typed flag and value
// pairs, replacing ad hoc string concatenation at the process boundaries.
package argv

// Builder accumulates argument tokens in call order and serializes them to
// the slice handed to the external tool.
type Builder struct {
	args []string
}

// New creates a Builder pre-seeded with the given positional tokens.
func New(tokens ...string) *Builder {
	b := &Builder{}
	b.args = append(b.args, tokens...)
	return b
}

// Token appends a single positional token.
func (b *Builder) Token(t string) *Builder {
	b.args = append(b.args, t)
	return b
}

// Flag appends a bare flag with no value.
func (b *Builder) Flag(name string) *Builder {
	b.args = append(b.args, name)
	return b
}

// FlagIf appends a bare flag only when cond holds.
func (b *Builder) FlagIf(cond bool, name string) *Builder {
	if cond {
		b.args = append(b.args, name)
	}
	return b
}

// Option appends a flag/value pair. An empty value omits the pair entirely,
// which is how optional settings stay out of the vector — some tools reject
// an explicitly empty value where they would accept its absence.
func (b *Builder) Option(name, value string) *Builder {
	if value == "" {
		return b
	}
	b.args = append(b.args, name, value)
	return b
}

// Args returns a copy of the accumulated vector.
func (b *Builder) Args() []string {
	out := make([]string, len(b.args))
	copy(out, b.args)
	return out
}
