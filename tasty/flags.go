package tasty

// FlagSet is the host compiler's modifier bit-set. The bit layout is
// private to the host; the core only ever sets/tests named bits through
// this type so it stays independent of any one host's numbering.
type FlagSet uint64

const (
	Private FlagSet = 1 << iota
	Protected
	Abstract
	Final
	Sealed
	Case
	Implicit
	Erased
	Lazy
	Override
	Inline
	Macro
	Opaque
	Static
	Module
	Trait
	Enum
	Local
	Synthetic
	Artifact
	Mutable
	Accessor
	Covariant
	Contravariant
	Stable
	Extension
	Given
	Exported
	Open
	AbsOverride
	Deferred
	Method
	Param
	ParamAccessor
	DefaultParameterized
	PrivateLocal
)

// Has reports whether all bits in other are set in f.
func (f FlagSet) Has(other FlagSet) bool { return f&other == other }

// HasAny reports whether any bit in other is set in f.
func (f FlagSet) HasAny(other FlagSet) bool { return f&other != 0 }

// TastyFlagSet holds dialect-only ("TASTy-only") bits that have no host
// equivalent and are tracked purely so later phases (or diagnostics) can
// observe them.
type TastyFlagSet uint32

const (
	TastyInline TastyFlagSet = 1 << iota
	TastyInlineProxy
	TastyOpaque
	TastyTransparent
	TastyInfix
	TastyInvisible
	TastyParamAlias
)

// unsupportedOnKind lists which TastyFlagSet bits a given host Kind
// does not accept, per §4.3's closing rule ("Unsupported dialect-only
// flags on a given kind are reported via §7 with the flag symbol name").
var unsupportedOnKind = map[Kind]TastyFlagSet{
	KindValDef:  TastyInfix | TastyTransparent,
	KindParam:   TastyInline | TastyInlineProxy | TastyTransparent,
	KindTypeDef: TastyInfix,
}

// tagToHostFlag and tagToTastyFlag implement the one-to-one modifier-tag
// mapping of §4.4, with the handful of exceptions called out there.
func tagToHostFlag(t Tag) (FlagSet, bool) {
	switch t {
	case TagPRIVATE:
		return Private, true
	case TagPROTECTED:
		return Protected, true
	case TagABSTRACT:
		return Abstract, true
	case TagFINAL:
		return Final, true
	case TagSEALED:
		return Sealed, true
	case TagCASE:
		return Case, true
	case TagIMPLICIT:
		return Implicit, true
	case TagERASED:
		return Erased, true
	case TagLAZY:
		return Lazy, true
	case TagOVERRIDE:
		return Override, true
	case TagINLINE:
		return Inline, true
	case TagMACRO:
		return Macro, true
	case TagSTATIC:
		return Static, true
	case TagOBJECT:
		return Module, true
	case TagTRAIT:
		return Trait, true
	case TagENUM:
		return Enum, true
	case TagLOCAL:
		return Local, true
	case TagSYNTHETIC:
		return Synthetic, true
	case TagARTIFACT:
		return Artifact, true
	case TagMUTABLE:
		return Mutable, true
	case TagFIELDaccessor, TagCASEaccessor:
		return Accessor, true
	case TagCOVARIANT:
		return Covariant, true
	case TagCONTRAVARIANT:
		return Contravariant, true
	case TagSTABLE:
		return Stable, true
	case TagEXTENSION:
		return Extension, true
	case TagGIVEN:
		// GIVEN maps to Implicit per the exceptions list in §4.4.
		return Implicit, true
	case TagEXPORTED:
		return Exported, true
	case TagOPEN:
		return Open, true
	default:
		return 0, false
	}
}

func tagToTastyFlag(t Tag) (TastyFlagSet, bool) {
	switch t {
	case TagINLINEPROXY:
		return TastyInlineProxy, true
	case TagOPAQUE:
		return TastyOpaque, true
	case TagTRANSPARENT:
		return TastyTransparent, true
	case TagINFIX:
		return TastyInfix, true
	case TagINVISIBLE:
		return TastyInvisible, true
	case TagPARAMalias:
		return TastyParamAlias, true
	default:
		return 0, false
	}
}

// ModifierReadResult is what readModifiers produces, prior to normalization.
type ModifierReadResult struct {
	Host            FlagSet
	Tasty           TastyFlagSet
	AnnotationAddrs []Addr // lazy subtree thunks, deferred to attachment time
	PrivateWithin   Addr   // NoAddr unless PRIVATEqualified/PROTECTEDqualified
}

// readModifiers reads modifier tags from c until reaching end, implementing
// §4.8's exceptions: ABSTRACT+OVERRIDE collapses to AbsOverride,
// GIVEN maps to Implicit, PRIVATEqualified/PROTECTEDqualified each consume
// a trailing type whose symbol becomes PrivateWithin, ANNOTATION defers its
// subtree, and annotations are dropped entirely when ignoreAnnotations is set.
func readModifiers(c *Cursor, end Addr, ignoreAnnotations bool) ModifierReadResult {
	var res ModifierReadResult
	res.PrivateWithin = NoAddr
	sawAbstract := false

	for c.CurrentAddr() < end {
		tag := Tag(c.NextByte())
		switch {
		case tag == TagABSTRACT:
			c.ReadByte()
			sawAbstract = true
		case tag == TagOVERRIDE:
			c.ReadByte()
			if sawAbstract {
				res.Host |= AbsOverride
				sawAbstract = false
			} else {
				res.Host |= Override
			}
		case tag == 46 /* PRIVATEqualified */ :
			c.ReadByte()
			res.Host |= Private
			start := c.CurrentAddr()
			skipType(c)
			res.PrivateWithin = start
		case tag == 47 /* PROTECTEDqualified */ :
			c.ReadByte()
			res.Host |= Protected
			start := c.CurrentAddr()
			skipType(c)
			res.PrivateWithin = start
		case tag == TagANNOTATION:
			c.ReadByte()
			thunkEnd := c.ReadEnd()
			addr := c.CurrentAddr()
			c.Goto(thunkEnd)
			if !ignoreAnnotations {
				res.AnnotationAddrs = append(res.AnnotationAddrs, addr)
			}
		default:
			if hf, ok := tagToHostFlag(tag); ok {
				c.ReadByte()
				if sawAbstract {
					res.Host |= Abstract
					sawAbstract = false
				}
				res.Host |= hf
			} else if tf, ok := tagToTastyFlag(tag); ok {
				c.ReadByte()
				res.Tasty |= tf
			} else {
				// Not a modifier tag: the RHS/type section has begun.
				if sawAbstract {
					res.Host |= Abstract
					sawAbstract = false
				}
				return res
			}
		}
	}
	if sawAbstract {
		res.Host |= Abstract
	}
	return res
}

// skipType skips one type subtree without interpreting it, used while
// scanning for RHS emptiness and while consuming a PRIVATEqualified type.
func skipType(c *Cursor) {
	tag := Tag(c.ReadByte())
	switch ShapeOf(tag) {
	case ShapeNatOnly:
		c.ReadNat()
	case ShapeASTOnly:
		skipType(c)
	case ShapeNatThenAST:
		c.ReadNat()
		skipType(c)
	case ShapeLengthPrefixed:
		end := c.ReadEnd()
		c.Goto(end)
	}
}

// Kind is the symbol kind produced by createMemberSymbol / readNewMember.
type Kind uint8

const (
	KindClass Kind = iota
	KindModuleClass
	KindModuleVal
	KindMethod
	KindValDef
	KindTypeDef
	KindTypeParam
	KindParam
	KindConstructor
)

// NormalizeFlags applies §4.3's ordered rules, given the wire shape of the
// definition being normalized.
type NormalizeInput struct {
	Tag          Tag
	Kind         Kind
	HasRHS       bool
	IsAbsType    bool // TYPEBOUNDS/TYPEBOUNDStpt RHS, or lambda-applied abstract
	OwnerIsTrait bool
	OwnerIsClass bool
	IsParamAlias bool // PARAM with non-empty RHS
	DefaultParam bool // default-parameter naming, or owner is DefaultParameterized
}

func NormalizeFlags(in NormalizeInput, f FlagSet) FlagSet {
	// Rule 1: no RHS, term, non-constructor, not param/accessor -> Deferred.
	if !in.HasRHS && in.Kind != KindConstructor && in.Tag != TagPARAM && !f.Has(Accessor) &&
		(in.Tag == TagVALDEF || in.Tag == TagDEFDEF) {
		f |= Deferred
	}
	// Rule 2: isAbsType -> Deferred.
	if in.IsAbsType {
		f |= Deferred
	}
	// Rule 3.
	if in.Tag == TagDEFDEF {
		f |= Method
	}
	if in.Tag == TagVALDEF {
		if !f.Has(Mutable) {
			f |= Stable
		}
		if in.OwnerIsTrait {
			f |= Accessor
		}
	}
	// Rule 4.
	if f.Has(Module) {
		if in.Tag == TagVALDEF {
			f |= Lazy | Final | Stable
		} else {
			f |= Final
		}
	}
	// Rule 5.
	if in.OwnerIsClass {
		if in.Tag == TagTYPEPARAM {
			f |= Param
		}
		if in.Tag == TagPARAM {
			f |= ParamAccessor | Accessor | Stable
			if in.IsParamAlias {
				f |= Method
			}
		}
	}
	// Rule 6.
	if in.DefaultParam {
		f |= DefaultParameterized
	}
	return f
}
