// Package tasty decodes the ASTs section of a TASTy artifact into symbols,
// types, and trees attached to a host compiler's symbol table.
//
// The package implements only the tree/symbol unpickler: a two-pass,
// laziness-aware decoder that indexes definition boundaries, creates symbol
// shells at exact byte offsets, and completes each symbol on first demand
// by re-reading its subtree. Everything the unpickler needs from the host
// compiler — symbol factories, type constructors, scopes, name mangling —
// is expressed as an interface in hostiface.go and supplied by the caller.
package tasty

import "fmt"

// Addr is an opaque, monotonic byte offset into a TASTy ASTs section.
type Addr int32

// NoAddr denotes "absent" where an Addr is otherwise expected.
const NoAddr Addr = -1

// IsDefined reports whether a is not NoAddr.
func (a Addr) IsDefined() bool { return a != NoAddr }

func (a Addr) String() string {
	if a == NoAddr {
		return "<noaddr>"
	}
	return fmt.Sprintf("addr(%d)", int32(a))
}

// NameRef is a 1-based index into a NameTable.
type NameRef int32

func (r NameRef) String() string { return fmt.Sprintf("names(%d)", int32(r)) }
