package tasty

// Tag is a TASTy wire tag: a dense enum partitioned by magic ranges into
// four wire shapes so that a reader can skip any tag it does not care
// about without interpreting its payload.
//
// This mirrors the teacher's table-driven enums (Language.SymbolMetadata,
// ParseActionType) in spirit: one flat numeric space, one exhaustive
// switch per concern (here: Shape, and later ReadType/ReadTerm), rather
// than a chain of conditionals re-deriving the shape at each call site.
type Tag uint8

// Shape classifies how a tag's payload is laid out on the wire.
type Shape uint8

const (
	// ShapeNatOnly tags are followed by exactly one natural (e.g. a
	// NameRef or a small enum selector) and nothing else.
	ShapeNatOnly Shape = iota
	// ShapeASTOnly tags are followed by exactly one nested AST (type or
	// term), no natural.
	ShapeASTOnly
	// ShapeNatThenAST tags are followed by one natural and then one AST.
	ShapeNatThenAST
	// ShapeLengthPrefixed tags are followed by a length prefix (ReadEnd)
	// and then a variable number of further tagged fields up to end.
	ShapeLengthPrefixed
)

// Tag values. Only the subset the unpickler actually interprets is
// enumerated by name; everything else is classified by magic range in
// ShapeOf and handled generically (skipped or read structurally).
const (
	TagUNITconst     Tag = 2
	TagFALSEconst    Tag = 3
	TagTRUEconst     Tag = 4
	TagNULLconst     Tag = 5
	TagPRIVATE       Tag = 9
	TagPROTECTED     Tag = 10
	TagABSTRACT      Tag = 11
	TagFINAL         Tag = 12
	TagSEALED        Tag = 13
	TagCASE          Tag = 14
	TagIMPLICIT      Tag = 15
	TagERASED        Tag = 16
	TagLAZY          Tag = 17
	TagOVERRIDE      Tag = 18
	TagINLINE        Tag = 19
	TagINLINEPROXY   Tag = 20
	TagMACRO         Tag = 21
	TagOPAQUE        Tag = 22
	TagSTATIC        Tag = 23
	TagOBJECT        Tag = 24
	TagTRAIT         Tag = 25
	TagENUM          Tag = 26
	TagLOCAL         Tag = 27
	TagSYNTHETIC     Tag = 28
	TagARTIFACT      Tag = 29
	TagMUTABLE       Tag = 30
	TagFIELDaccessor Tag = 31
	TagCASEaccessor  Tag = 32
	TagCOVARIANT     Tag = 33
	TagCONTRAVARIANT Tag = 34
	TagHASDEFAULT    Tag = 35
	TagSTABLE        Tag = 36
	TagEXTENSION     Tag = 37
	TagGIVEN         Tag = 38
	TagPARAMsetter   Tag = 39
	TagEXPORTED      Tag = 40
	TagOPEN          Tag = 41
	TagPARAMalias    Tag = 42
	TagTRANSPARENT   Tag = 43
	TagINFIX         Tag = 44
	TagINVISIBLE     Tag = 45

	TagIDENT   Tag = 66
	TagIDENTtpt Tag = 67
	TagSELECT      Tag = 68
	TagSELECTtpt   Tag = 69
	TagTERMREFdirect Tag = 70
	TagTYPEREFdirect Tag = 71
	TagTERMREFpkg    Tag = 72
	TagTYPEREFpkg    Tag = 73
	TagRECtype       Tag = 74
	TagSELECTin      Tag = 75
	TagTERMREFsymbol Tag = 76
	TagTYPEREFsymbol Tag = 77
	TagTERMREF       Tag = 78
	TagTYPEREF       Tag = 79
	TagSUPERtype     Tag = 80
	TagSINGLETONtpt  Tag = 81
	TagBYNAMEtpt     Tag = 82
	TagNAMEDARG      Tag = 83
	TagANDtype       Tag = 84
	TagBYNAMEtype    Tag = 86
	TagANNOTATEDtype Tag = 87
	TagANNOTATEDtpt  Tag = 88
	TagTHIS          Tag = 89

	TagVALDEF    Tag = 144
	TagDEFDEF    Tag = 145
	TagTYPEDEF   Tag = 146
	TagIMPORT    Tag = 147
	TagTYPEPARAM Tag = 148
	TagPARAM     Tag = 149
	TagAPPLY     Tag = 150
	TagTYPEAPPLY Tag = 151
	TagNEW       Tag = 152
	TagTYPED     Tag = 153
	TagASSIGN    Tag = 154
	TagBLOCK     Tag = 155
	TagIF        Tag = 156
	TagLAMBDA    Tag = 157
	TagMATCH     Tag = 158
	TagRETURN    Tag = 159
	TagWHILE     Tag = 160
	TagTRY       Tag = 161
	TagINLINED   Tag = 162
	TagSELECTouter Tag = 163
	TagREPEATED  Tag = 164
	TagBIND      Tag = 165
	TagALTERNATIVE Tag = 166
	TagUNAPPLY   Tag = 167
	TagANNOTATEDtree Tag = 168
	TagCASEDEF   Tag = 169
	TagIMPLICITMETHODtype Tag = 170
	TagERASEDMETHODtype   Tag = 171
	TagGIVENMETHODtype    Tag = 172
	TagREFINEDtype        Tag = 173
	TagREFINEDtpt         Tag = 174
	TagAPPLIEDtype        Tag = 175
	TagAPPLIEDtpt         Tag = 176
	TagTYPEBOUNDS         Tag = 177
	TagTYPEBOUNDStpt      Tag = 178
	TagTYPEALIAS          Tag = 179
	TagPARAMtype          Tag = 180
	TagANNOTATION         Tag = 181
	TagTEMPLATE           Tag = 182
	TagPACKAGE            Tag = 183
	TagSUPER              Tag = 184
	TagTYPELAMBDAtype     Tag = 185
	TagPARAMalias2        Tag = 186
	TagMATCHtype          Tag = 190
	TagMATCHtpt           Tag = 191
	TagMATCHCASEtype      Tag = 192
	TagORtype             Tag = 193
	TagPOLYtype           Tag = 194
	TagMETHODtype         Tag = 195
	TagEXPLICITtype       Tag = 196
	TagHOLE               Tag = 197

	TagSHAREDtype Tag = 250
	TagSHAREDterm Tag = 251
)

// ShapeOf classifies t into one of the four wire shapes per §4.5. The
// boundaries follow the same "magic range" partitioning spec.md describes:
// tags below IDENT are simple nat-only modifiers/constants, tags from
// IDENT up to VALDEF are nat-then-AST or AST-only depending on arity (except
// ANDtype, ANNOTATEDtype and ANNOTATEDtpt, which carry a length prefix),
// and everything from VALDEF up is length-prefixed.
func ShapeOf(t Tag) Shape {
	switch {
	case t < TagIDENT:
		return ShapeNatOnly
	case t == TagSHAREDtype || t == TagSHAREDterm:
		// Back-references carry a single address nat, regardless of how
		// large their (already-indexed) target subtree is.
		return ShapeNatOnly
	case t >= TagVALDEF:
		return ShapeLengthPrefixed
	case t == TagTERMREFdirect || t == TagTYPEREFdirect || t == TagTERMREFpkg || t == TagTYPEREFpkg:
		// Direct/package refs carry a single nat (a resolved address or a
		// fully-qualified name ref) and no nested prefix type.
		return ShapeNatOnly
	case t == TagTERMREFsymbol || t == TagTYPEREFsymbol || t == TagTERMREF || t == TagTYPEREF:
		return ShapeNatThenAST
	case t == TagIDENT || t == TagIDENTtpt || t == TagSELECT || t == TagSELECTtpt || t == TagNAMEDARG:
		// A name ref, then the type (IDENT) or the qualifier/argument tree.
		return ShapeNatThenAST
	case t == TagANDtype || t == TagANNOTATEDtype || t == TagANNOTATEDtpt:
		return ShapeLengthPrefixed
	default:
		return ShapeASTOnly
	}
}

// IsModifierTag reports whether t belongs to the flag/modifier vocabulary:
// the range below IDENT, which includes the PRIVATEqualified /
// PROTECTEDqualified tags (46/47) handled specially in flags.go. ANNOTATION
// is not included; callers test for it separately.
func IsModifierTag(t Tag) bool {
	return t < TagIDENT
}

// IsMemberTag reports whether t introduces a symbol-bearing definition —
// the kinds recorded by the owner-tree index and created as symbol shells.
func IsMemberTag(t Tag) bool {
	switch t {
	case TagVALDEF, TagDEFDEF, TagTYPEDEF, TagTYPEPARAM, TagPARAM, TagTEMPLATE:
		return true
	default:
		return false
	}
}
