package command

import (
	"regexp"
	"slices"
	"strings"
)

// Builder is an immutable, ordered list of command tokens. Every append
// returns a new Builder and never touches the receiver's backing array, so a
// Builder can be shared and extended from several places.
//
// Tokens are joined with single spaces when the command is run through a
// shell. Builder never quotes anything; use Quote for values that need it.
type Builder struct {
	tokens []string
}

// New creates a builder seeded with the given tokens.
func New(base ...string) Builder {
	return Builder{tokens: slices.Clone(base)}
}

func (b Builder) with(extra ...string) Builder {
	next := make([]string, 0, len(b.tokens)+len(extra))
	next = append(next, b.tokens...)
	next = append(next, extra...)
	return Builder{tokens: next}
}

// Append adds tokens unconditionally.
func (b Builder) Append(tokens ...string) Builder {
	if len(tokens) == 0 {
		return b
	}
	return b.with(tokens...)
}

// AppendOptional adds token when it is non-empty.
func (b Builder) AppendOptional(token string) Builder {
	if token == "" {
		return b
	}
	return b.with(token)
}

// AppendValue adds option followed by value as two tokens, or nothing when
// value is empty.
func (b Builder) AppendValue(option, value string) Builder {
	return b.AppendSeparated(option, " ", value)
}

// AppendQuoted is AppendValue with value passed through Quote, for paths
// that may contain spaces.
func (b Builder) AppendQuoted(option, value string) Builder {
	if value == "" {
		return b
	}
	return b.with(option, Quote(value))
}

// AppendSeparated adds option and value joined by separator. A single space
// separator keeps them as two tokens ("-scheme App"); any other separator
// produces one token ("CURRENT_PROJECT_VERSION=42"). Nothing is added when
// value is empty.
func (b Builder) AppendSeparated(option, separator, value string) Builder {
	if value == "" {
		return b
	}
	if separator == " " {
		return b.with(option, value)
	}
	return b.with(option + separator + value)
}

// AppendIf adds token only when flag is true.
func (b Builder) AppendIf(token string, flag bool) Builder {
	if !flag {
		return b
	}
	return b.with(token)
}

// Tokens returns a copy of the token sequence.
func (b Builder) Tokens() []string {
	return slices.Clone(b.tokens)
}

// Len returns the number of tokens.
func (b Builder) Len() int {
	return len(b.tokens)
}

// IsEmpty reports whether the builder has no tokens.
func (b Builder) IsEmpty() bool {
	return len(b.tokens) == 0
}

// Equal reports whether both builders resolve to the same token sequence.
func (b Builder) Equal(other Builder) bool {
	return slices.Equal(b.tokens, other.tokens)
}

// String renders the command line handed to the shell.
func (b Builder) String() string {
	return strings.Join(b.tokens, " ")
}

var safeShellWord = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// Quote returns s quoted for a POSIX shell. Words made of safe characters are
// returned unchanged.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if safeShellWord.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
