package tasty

import "fmt"

// NameKind discriminates the tagged variants of Name (§3).
type NameKind uint8

const (
	NameSimple NameKind = iota
	NameQualified
	NameModule
	NameType
	NameSigned
	NameUnique
	NameDefault
	NamePrefix
)

// MethodSig carries the erased parameter/result type references a Signed
// name uses to disambiguate overloads on the wire.
type MethodSig struct {
	ParamTypes []NameRef
	Result     NameRef
}

// Name is the tagged-variant identifier algebra of §3. Only the fields
// relevant to Kind are populated; Name values compare equal by structure
// via Equal, never by pointer identity.
type Name struct {
	Kind NameKind

	// Simple
	Text string

	// Qualified: Qual . Sep . Selector  (Sep is itself a Name, usually Simple)
	Qual     *Name
	Sep      *Name
	Selector *Name

	// Module / Type: Base
	Base *Name

	// Signed: Qual + Sig
	Sig *MethodSig

	// Unique: Qual, Sep, N
	N int

	// Default: Qual, N (0-based; rendered as N+1)
	// (reuses Qual, N fields above)

	// Prefix: Prefix, Qual
	Prefix *Name
}

// Simple constructs an atomic identifier fragment.
func Simple(text string) *Name { return &Name{Kind: NameSimple, Text: text} }

// Qualified constructs a dotted path with an explicit separator name.
func Qualified(qual, sep, selector *Name) *Name {
	return &Name{Kind: NameQualified, Qual: qual, Sep: sep, Selector: selector}
}

// ModuleName constructs the view of base as the module's companion class name.
// Unlike TypeName it is not idempotent: it always wraps, so calling it again
// on its own result yields a doubly wrapped Module node — callers that need
// idempotence should prefer TypeName, which the wire format actually
// requires to collapse (§3 invariant).
func ModuleName(base *Name) *Name { return &Name{Kind: NameModule, Base: base} }

// TypeName constructs the view of base as a type name. Type(Type(n)) == Type(n).
func TypeName(base *Name) *Name {
	if base.Kind == NameType {
		return base
	}
	return &Name{Kind: NameType, Base: base}
}

// Signed constructs an overload-disambiguating adornment. sig must be non-nil.
func Signed(qual *Name, sig *MethodSig) *Name {
	if sig == nil {
		panic("tasty: Signed name requires a non-nil MethodSig")
	}
	return &Name{Kind: NameSigned, Qual: qual, Sig: sig}
}

// Unique constructs an internally generated fresh name with a numeric tag.
// Unique(Empty, "_$", n) denotes a wildcard.
func Unique(qual, sep *Name, n int) *Name {
	return &Name{Kind: NameUnique, Qual: qual, Sep: sep, N: n}
}

// IsWildcard reports whether n is the wildcard unique name.
func (n *Name) IsWildcard() bool {
	return n != nil && n.Kind == NameUnique && n.Sep != nil && n.Sep.Kind == NameSimple &&
		n.Sep.Text == "_$" && (n.Qual == nil || (n.Qual.Kind == NameSimple && n.Qual.Text == ""))
}

// Default constructs the n-th (0-based) default-argument getter name for qual.
func Default(qual *Name, n int) *Name { return &Name{Kind: NameDefault, Qual: qual, N: n} }

// PrefixName constructs a prefix decoration (e.g. super/inline markers).
func PrefixName(prefix, qual *Name) *Name { return &Name{Kind: NamePrefix, Prefix: prefix, Qual: qual} }

// Equal reports structural equality, per §3's invariant that Name equality
// is by structure, not identity.
func (n *Name) Equal(o *Name) bool {
	if n == o {
		return true
	}
	if n == nil || o == nil || n.Kind != o.Kind {
		return false
	}
	switch n.Kind {
	case NameSimple:
		return n.Text == o.Text
	case NameQualified:
		return n.Qual.Equal(o.Qual) && n.Sep.Equal(o.Sep) && n.Selector.Equal(o.Selector)
	case NameModule, NameType:
		return n.Base.Equal(o.Base)
	case NameSigned:
		return n.Qual.Equal(o.Qual) && n.Sig.equal(o.Sig)
	case NameUnique:
		return n.Qual.Equal(o.Qual) && n.Sep.Equal(o.Sep) && n.N == o.N
	case NameDefault:
		return n.Qual.Equal(o.Qual) && n.N == o.N
	case NamePrefix:
		return n.Prefix.Equal(o.Prefix) && n.Qual.Equal(o.Qual)
	default:
		return false
	}
}

func (s *MethodSig) equal(o *MethodSig) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Result != o.Result || len(s.ParamTypes) != len(o.ParamTypes) {
		return false
	}
	for i, p := range s.ParamTypes {
		if p != o.ParamTypes[i] {
			return false
		}
	}
	return true
}

func (n *Name) String() string {
	if n == nil {
		return "<nil-name>"
	}
	switch n.Kind {
	case NameSimple:
		return n.Text
	case NameQualified:
		return fmt.Sprintf("%s%s%s", n.Qual, n.Sep, n.Selector)
	case NameModule:
		return n.Base.String() + "$"
	case NameType:
		return n.Base.String()
	case NameSigned:
		return n.Qual.String()
	case NameUnique:
		return fmt.Sprintf("%s%s%d", n.Qual, n.Sep, n.N)
	case NameDefault:
		return fmt.Sprintf("%s$default$%d", n.Qual, n.N+1)
	case NamePrefix:
		return fmt.Sprintf("%s%s", n.Prefix, n.Qual)
	default:
		return "<?name>"
	}
}

// NameTable is the dense array of structured Name values read once from
// the ASTs section's name table. Entries reference earlier entries by
// NameRef (1-based; 0 is invalid).
type NameTable struct {
	entries []*Name
}

// NewNameTable reads a length-prefixed name table from c once and returns
// the resulting table. tag is consumed by the caller before invoking this
// (the outer framer or §4.6.1's entry point).
func NewNameTable(c *Cursor) *NameTable {
	end := c.ReadEnd()
	t := &NameTable{}
	for c.CurrentAddr() < end {
		t.entries = append(t.entries, readOneName(c, t))
	}
	c.AssertAtEnd(end, "name table")
	return t
}

// nameWireTag enumerates the wire tags used inside the name table; these
// are a disjoint vocabulary from Tag (tree tags), TASTy multiplexes name
// tags onto a separate small space starting at 1.
type nameWireTag byte

const (
	nameWireUTF8 nameWireTag = iota + 1
	nameWireQualified
	nameWireExpanded
	nameWireModuleClass
	nameWireSignedOverload
	nameWireUniqueName
	nameWireDefaultGetter
	nameWireTypeName
	nameWireSuperAccessor
	nameWireInlineAccessor
)

func readOneName(c *Cursor, t *NameTable) *Name {
	tag := nameWireTag(c.ReadByte())
	switch tag {
	case nameWireUTF8:
		length := int(c.ReadNat())
		return Simple(c.ReadUTF8(length))
	case nameWireQualified:
		qual := t.Resolve(NameRef(c.ReadNat()))
		sel := t.Resolve(NameRef(c.ReadNat()))
		return Qualified(qual, Simple("."), sel)
	case nameWireExpanded:
		qual := t.Resolve(NameRef(c.ReadNat()))
		sel := t.Resolve(NameRef(c.ReadNat()))
		return Qualified(qual, Simple("$$"), sel)
	case nameWireModuleClass:
		return ModuleName(t.Resolve(NameRef(c.ReadNat())))
	case nameWireTypeName:
		return TypeName(t.Resolve(NameRef(c.ReadNat())))
	case nameWireSignedOverload:
		qual := t.Resolve(NameRef(c.ReadNat()))
		result := NameRef(c.ReadNat())
		paramCount := int(c.ReadNat())
		params := make([]NameRef, paramCount)
		for i := range params {
			params[i] = NameRef(c.ReadNat())
		}
		return Signed(qual, &MethodSig{ParamTypes: params, Result: result})
	case nameWireUniqueName:
		sep := t.Resolve(NameRef(c.ReadNat()))
		qual := t.Resolve(NameRef(c.ReadNat()))
		n := int(c.ReadNat())
		return Unique(qual, sep, n)
	case nameWireDefaultGetter:
		qual := t.Resolve(NameRef(c.ReadNat()))
		n := int(c.ReadNat())
		return Default(qual, n)
	case nameWireSuperAccessor:
		qual := t.Resolve(NameRef(c.ReadNat()))
		return PrefixName(Simple("super$"), qual)
	case nameWireInlineAccessor:
		qual := t.Resolve(NameRef(c.ReadNat()))
		return PrefixName(Simple("inline$"), qual)
	default:
		panic(&TypeError{Msg: fmt.Sprintf("unknown name table tag %d", tag)})
	}
}

// Resolve returns the Name stored at ref. ref is 1-based; index 0 is
// reserved and never resolved.
func (t *NameTable) Resolve(ref NameRef) *Name {
	idx := int(ref) - 1
	if idx < 0 || idx >= len(t.entries) {
		panic(&TypeError{Msg: fmt.Sprintf("name ref out of range: %v", ref)})
	}
	return t.entries[idx]
}

// Len returns the number of entries in the table.
func (t *NameTable) Len() int { return len(t.entries) }
