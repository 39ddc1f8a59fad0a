package framecap

import (
	"fmt"
	"strings"

	"github.com/framecap/framecap/internal"
)

// groupError aggregates several errors under one header.  It exposes its
// members to stdlib traversal via Unwrap() []error, so errors.Is/As walk
// every member.
type groupError struct {
	msg  string
	errs []error
}

// Error returns the group's own message if it has one, otherwise the members'
// messages joined with newlines, like errors.Join.
func (g *groupError) Error() string {
	if g.msg != "" {
		return g.msg
	}

	sb := strings.Builder{}
	for i, e := range g.errs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Unwrap exposes the members to stdlib traversal.
func (g *groupError) Unwrap() []error {
	return g.errs
}

// Format implements fmt.Formatter.  %+v recurses into the members, rendering
// each with its own %+v.
func (g *groupError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			if g.msg != "" {
				fmt.Fprint(s, g.msg)
			}
			for i, e := range g.errs {
				if i > 0 || g.msg != "" {
					fmt.Fprint(s, "\n")
				}
				fmt.Fprintf(s, "%+v", e)
			}
			return
		}
		fallthrough
	case 's':
		fmt.Fprint(s, g.Error())
	case 'q':
		fmt.Fprintf(s, "%q", g.Error())
	}
}

// NewGroup creates an error aggregating errs, with a single stack attached.
// The stack capture contract is identical to New: hooks and wrappers run
// first, then one stack is captured for the group itself, bounded by a
// committed WithStackLimit override or the global default.  The members'
// own stacks are untouched.
//
// Nil members are dropped.  If msg is empty and every member is nil,
// returns nil.
func NewGroup(msg string, errs []error, wrappers ...Wrapper) error {
	members := make([]error, 0, len(errs))
	for _, e := range errs {
		if e != nil {
			members = append(members, e)
		}
	}

	if msg == "" && len(members) == 0 {
		return nil
	}

	return WrapSkipping(&groupError{msg: msg, errs: members}, 1, wrappers...)
}

// GroupMembers returns the members of a group error anywhere on err's chain,
// or nil if err does not wrap a group.  The returned slice is a copy.
func GroupMembers(err error) []error {
	var g *groupError
	if !internal.As(err, &g) {
		return nil
	}

	members := make([]error, len(g.errs))
	copy(members, g.errs)
	return members
}
