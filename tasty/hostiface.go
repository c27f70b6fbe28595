package tasty

// This file defines every capability the unpickler consumes from outside
// itself (§6): the host compiler's symbol table, type constructors, scope
// operations, mirror lookups, and phase control, plus the enclosing
// framer's name-escape facility. The core never reaches into a concrete
// compiler; every external interaction goes through one of these
// interfaces, bundled into a HostEnv and threaded through Context.
//
// Symbol and Type are intentionally opaque (`any`): the host owns their
// representation entirely (§3, "Symbol — opaque handle owned by the host
// symbol table"). The core only ever passes them back to the host's own
// factories, never inspects them.

// Symbol is an opaque handle to a host compiler symbol.
type Symbol = any

// Type is an opaque handle to a host compiler type.
type Type = any

// NoSymbol is the zero value of Symbol, denoting "no symbol" the same way
// NoAddr denotes "no address".
var NoSymbol Symbol

// SymbolFactory creates symbols in the host's symbol table (§6: "Symbol
// factories: class, module, method, type, value-parameter, type-parameter,
// constructor, local-dummy, refinement-class, extension-method").
type SymbolFactory interface {
	NewClass(owner Symbol, name *Name, flags FlagSet, privateWithin Symbol) Symbol
	// NewModule creates the linked value/class pair for a singleton object
	// and returns (termSymbol, moduleClassSymbol).
	NewModule(owner Symbol, name *Name, flags FlagSet) (Symbol, Symbol)
	NewMethod(owner Symbol, name *Name, flags FlagSet, privateWithin Symbol) Symbol
	NewTypeSymbol(owner Symbol, name *Name, flags FlagSet, privateWithin Symbol) Symbol
	NewValueParam(owner Symbol, name *Name, flags FlagSet) Symbol
	NewTypeParam(owner Symbol, name *Name, flags FlagSet) Symbol
	NewConstructor(owner Symbol, flags FlagSet) Symbol
	NewLocalDummy(owner Symbol) Symbol
	NewRefinementClass(owner Symbol) Symbol
	NewExtensionMethod(companion Symbol, original Symbol, name *Name, info Type) Symbol
	// SetInfo assigns sym's completed type, the terminal step of every
	// completion branch in §4.6.4 ("build a ... type" / "store") and the
	// guarantee behind §8 invariant 4 ("after completion, info is never a
	// Completer").
	SetInfo(sym Symbol, info Type)
	// ClearPrivate strips sym's Private bit, the one flag mutation §4.6.5
	// step 4 needs on an otherwise create-only, append-only symbol table
	// ("make the primary constructor and param accessors non-private").
	ClearPrivate(sym Symbol)
	// AddAnnotation attaches one lazy annotation thunk to sym (§4.6.3,
	// "attach the annotation thunks"), the symbol-level counterpart of
	// TypeFactory.AnnotatedType's deferred-term shape.
	AddAnnotation(sym Symbol, thunk func() (Term, error))
}

// TypeFactory builds host-side type representations (§6: "Type
// constructors: type-ref, single-type, this-type, super-type,
// constant-type, annotated-type, intersection-type, refined-type,
// class-info-type, method-type, nullary-method-type, poly-type,
// type-bounds, existential-type, by-name, repeated, applied-type with
// variance, lambda-from-params").
type TypeFactory interface {
	NoType() Type
	ErrorType() Type
	AnyRefType() Type
	TypeRef(prefix Type, sym Symbol) Type
	TermRef(prefix Type, sym Symbol) Type
	SingleType(prefix Type, sym Symbol) Type
	ThisType(cls Symbol) Type
	SuperType(this, mixin Type) Type
	ConstantType(literal any, tagSym Symbol) Type
	AnnotatedType(underlying Type, annot func() (Term, error)) Type
	AndType(lhs, rhs Type) Type
	RefinedType(parent Type, name *Name, info Type) Type
	ClassInfoType(parents []Type, decls Scope, cls Symbol) Type
	MethodType(paramNames []*Name, paramTypes []Type, resType Type, implicit, given, erased bool) Type
	NullaryMethodType(resType Type) Type
	PolyType(paramNames []*Name, paramBounds []Type, resType Type) Type
	TypeBounds(lo, hi Type) Type
	ExistentialType(boundSyms []Symbol, resType Type) Type
	ByNameType(underlying Type) Type
	RepeatedType(underlying Type) Type
	AppliedType(tycon Type, args []Type) Type
	TypeLambda(paramNames []*Name, variances []Variance, paramBounds []Type, body Type) Type
	// RecType seeds a fresh recursive-type placeholder and calls makeBody
	// with it so RECthis-style self references resolve correctly; the
	// placeholder must already satisfy Type before makeBody runs.
	RecType(makeBody func(self Type) Type) Type
	ParamRef(binder Type, n int) Type
}

// Variance mirrors the host's variance annotations for type parameters.
type Variance int8

const (
	Invariant Variance = 0
	Covariant_ Variance = 1
	Contravariant_ Variance = -1
)

// Scope is the host's symbol table scope for one owner.
type Scope interface {
	Enter(sym Symbol, name *Name)
	EnterIfNew(sym Symbol, name *Name)
	Clone() Scope
	Lookup(name *Name) Symbol
}

// ScopeFactory creates fresh scopes.
type ScopeFactory interface {
	NewScope() Scope
}

// Mirror resolves fully-qualified names to packages/classes/modules
// (§6: "get-package, root/empty package, get-class/module-if-defined").
type Mirror interface {
	GetPackage(name *Name) Symbol
	RootPackage() Symbol
	EmptyPackage() Symbol
	GetClassIfDefined(fullyQualified *Name) Symbol
	GetModuleIfDefined(fullyQualified *Name) Symbol
}

// Phase identifies one of the host's named compiler phases that §6's
// "run not later than phase X" control applies to.
type Phase int

const (
	PhasePickler Phase = iota
	PhaseExtensionMethods
)

// PhaseRunner executes fn as if the host compiler were not later than the
// given phase (§6: "Phase control").
type PhaseRunner interface {
	AtPhaseNotLaterThan(p Phase, fn func())
}

// NameEscaper is the enclosing framer's symbolic-character escape/encode
// facility (§6: "Name facilities").
type NameEscaper interface {
	Escape(text string) string
}

// SourceFile is an opaque file handle used only for diagnostics (§6).
type SourceFile = any

// HostEnv bundles every external collaborator the unpickler needs, plus
// this run's Options and Reporter. It is attached to the root Context and
// shared by pointer with every derived frame; nothing here is ever
// mutated by the core itself (§9: "represent as a HostEnv handle passed on
// the context, [not] process-global storage").
type HostEnv struct {
	Symbols  SymbolFactory
	Types    TypeFactory
	Scopes   ScopeFactory
	Mirror   Mirror
	Phases   PhaseRunner
	Escaper  NameEscaper
	Names    *NameTable
	Reporter *Reporter
	Options  Options
}
