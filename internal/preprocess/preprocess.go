// Package preprocess resolves C-style conditional directives in shader text.
//
// WGSL has no preprocessor, yet variant defines are expressed as
// "#define HAS_UNIFORM_u_<name>" lines. Run resolves #define, #undef,
// #ifdef, #ifndef, #else and #endif before the text reaches the compiler.
// Defines are flags: values after the name are accepted but never
// substituted into the source.
//
// Directive lines and lines in inactive branches are replaced by empty lines,
// so compiler diagnostics keep the original line numbers.
package preprocess

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by Run.
var (
	// ErrUnbalanced is returned for #else/#endif without #ifdef, or a missing #endif.
	ErrUnbalanced = errors.New("preprocess: unbalanced conditional")

	// ErrUnknownDirective is returned for directives other than the supported set.
	ErrUnknownDirective = errors.New("preprocess: unknown directive")

	// ErrMissingName is returned when a directive requires a name and has none.
	ErrMissingName = errors.New("preprocess: directive requires a name")
)

// Error locates a preprocessing failure.
type Error struct {
	Line int // 1-based
	Text string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v at line %d: %q", e.Err, e.Line, e.Text)
}

func (e *Error) Unwrap() error { return e.Err }

type frame struct {
	parentActive bool
	taken        bool
	seenElse     bool
	line         int
}

// Run resolves directives in src and returns the remaining text together
// with the set of names defined once processing finished.
func Run(src string) (string, map[string]bool, error) {
	defined := make(map[string]bool)
	lines := strings.Split(src, "\n")
	out := make([]string, len(lines))

	var stack []frame
	active := true

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			if active {
				out[i] = line
			}
			continue
		}

		directive, name := splitDirective(trimmed[1:])
		fail := func(err error) (string, map[string]bool, error) {
			return "", nil, &Error{Line: i + 1, Text: trimmed, Err: err}
		}

		switch directive {
		case "define", "undef", "ifdef", "ifndef":
			if name == "" {
				return fail(ErrMissingName)
			}
		}

		switch directive {
		case "define":
			if active {
				defined[name] = true
			}
		case "undef":
			if active {
				delete(defined, name)
			}
		case "ifdef", "ifndef":
			cond := defined[name]
			if directive == "ifndef" {
				cond = !cond
			}
			stack = append(stack, frame{parentActive: active, taken: cond, line: i + 1})
			active = active && cond
		case "else":
			if len(stack) == 0 {
				return fail(ErrUnbalanced)
			}
			top := &stack[len(stack)-1]
			if top.seenElse {
				return fail(ErrUnbalanced)
			}
			top.seenElse = true
			active = top.parentActive && !top.taken
		case "endif":
			if len(stack) == 0 {
				return fail(ErrUnbalanced)
			}
			active = stack[len(stack)-1].parentActive
			stack = stack[:len(stack)-1]
		default:
			return fail(fmt.Errorf("%w: #%s", ErrUnknownDirective, directive))
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return "", nil, &Error{Line: top.line, Text: strings.TrimSpace(lines[top.line-1]), Err: ErrUnbalanced}
	}

	return strings.Join(out, "\n"), defined, nil
}

// splitDirective splits "ifdef NAME rest" into ("ifdef", "NAME").
func splitDirective(s string) (directive, name string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "", ""
	}
	directive = fields[0]
	if len(fields) > 1 {
		name = fields[1]
	}
	return directive, name
}
