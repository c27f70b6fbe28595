// Package testhost is a hand-written fake of the tasty package's host
// collaborator interfaces, grounded on the teacher's own hand-rolled test
// fakes (gotreesitter's tests construct bare structs and plain functions
// rather than reaching for a mocking framework). It exists purely so
// tasty's tests can exercise the unpickler against a real, if minimal,
// symbol table instead of mocks that only check call counts.
package testhost

import (
	"fmt"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/gaudelbinod/tastyunpickler/tasty"
)

// FakeSymbol is the concrete symbol representation used by every factory
// method below. It implements the small optional capability interfaces
// tasty's core type-asserts for (Name(), IsClass(), IsMethod(), ...), the
// same pattern the teacher's parser tests use to stand in for a real
// grammar without loading one.
type FakeSymbol struct {
	id        int
	name      *tasty.Name
	owner     *FakeSymbol
	flags     tasty.FlagSet
	kind      string // "class", "module", "moduleClass", "method", "type", "param", "typeparam", "ctor", "dummy", "refinement", "extension", "package"
	isValue   bool
	companion *FakeSymbol
	children  []*FakeSymbol
	info      tasty.Type
	annotations []func() (tasty.Term, error)
}

func (s *FakeSymbol) Name() *tasty.Name  { return s.name }
func (s *FakeSymbol) Owner() *FakeSymbol { return s.owner }
func (s *FakeSymbol) Kind() string       { return s.kind }
func (s *FakeSymbol) IsClass() bool      { return s.kind == "class" || s.kind == "moduleClass" || s.kind == "refinement" }
func (s *FakeSymbol) IsTrait() bool      { return s.kind == "class" && s.flags.Has(tasty.Trait) }
func (s *FakeSymbol) IsMethod() bool     { return s.kind == "method" || s.kind == "ctor" || s.kind == "extension" }
func (s *FakeSymbol) IsValueClass() bool { return s.isValue }
func (s *FakeSymbol) IsConstructor() bool { return s.kind == "ctor" }

// TypeParamNamed scans this symbol's recorded children for a type
// parameter of the given name, the fake-host counterpart of a real
// compiler's "owner's existing type parameter" lookup.
func (s *FakeSymbol) TypeParamNamed(name *tasty.Name) tasty.Symbol {
	for _, child := range s.children {
		if child.kind == "typeparam" && child.name != nil && child.name.Equal(name) {
			return child
		}
	}
	return nil
}

// Info returns whatever SetInfo last recorded for this symbol, for test
// assertions.
func (s *FakeSymbol) Info() tasty.Type { return s.info }

// Annotations returns every thunk AddAnnotation recorded for this symbol,
// in attachment order.
func (s *FakeSymbol) Annotations() []func() (tasty.Term, error) { return s.annotations }

// Flags returns this symbol's current modifier bits, for test assertions
// that check ClearPrivate actually mutated them.
func (s *FakeSymbol) Flags() tasty.FlagSet { return s.flags }
func (s *FakeSymbol) String() string {
	if s == nil {
		return "<nil-symbol>"
	}
	if s.name == nil {
		return fmt.Sprintf("<sym#%d>", s.id)
	}
	return s.name.String()
}

// FakeType is the concrete type representation. Like FakeSymbol, its
// purpose is only to round-trip far enough for assertions; it performs no
// subtyping or normalization.
type FakeType struct {
	desc   string
	sym    tasty.Symbol
	prefix tasty.Type
	args   []tasty.Type
	lo, hi tasty.Type
	body   func(self tasty.Type) tasty.Type
}

func (t *FakeType) String() string { return t.desc }
func (t *FakeType) Sym() tasty.Symbol {
	if t == nil {
		return nil
	}
	return t.sym
}
func (t *FakeType) Member(name *tasty.Name) tasty.Symbol {
	if t == nil || t.sym == nil {
		return nil
	}
	if cls, ok := t.sym.(*FakeSymbol); ok {
		return cls.owner.lookupChild(name) // lookupChild keeps no member scope and always returns nil
	}
	return nil
}

func (s *FakeSymbol) lookupChild(name *tasty.Name) tasty.Symbol { return nil }

// FakeScope is an insertion-order-preserving scope backed by
// wk8/go-ordered-map, mirroring the source-order iteration real compiler
// scopes provide (member order is user-visible in diagnostics and
// generated code alike).
type FakeScope struct {
	mu      sync.Mutex
	entries *orderedmap.OrderedMap[string, tasty.Symbol]
}

func NewFakeScope() *FakeScope {
	return &FakeScope{entries: orderedmap.New[string, tasty.Symbol]()}
}

func (s *FakeScope) Enter(sym tasty.Symbol, name *tasty.Name) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Set(name.String(), sym)
}

func (s *FakeScope) EnterIfNew(sym tasty.Symbol, name *tasty.Name) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries.Get(name.String()); !ok {
		s.entries.Set(name.String(), sym)
	}
}

func (s *FakeScope) Clone() tasty.Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := NewFakeScope()
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		clone.entries.Set(pair.Key, pair.Value)
	}
	return clone
}

func (s *FakeScope) Lookup(name *tasty.Name) tasty.Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()
	sym, _ := s.entries.Get(name.String())
	return sym
}

// Entries exposes the scope's members in insertion order, for test
// assertions that care about declaration order.
func (s *FakeScope) Entries() []tasty.Symbol {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []tasty.Symbol
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Host bundles every fake collaborator plus bookkeeping tests want to
// assert against (which symbols were created, in what order).
type Host struct {
	mu      sync.Mutex
	nextID  int
	Created []*FakeSymbol
	root    *FakeSymbol
	empty   *FakeSymbol
}

// NewHost returns a fresh fake host with a root package symbol.
func NewHost() *Host {
	h := &Host{}
	h.root = &FakeSymbol{id: h.allocID(), name: tasty.Simple("<root>"), kind: "package"}
	h.empty = &FakeSymbol{id: h.allocID(), name: tasty.Simple("<empty>"), kind: "package"}
	return h
}

func (h *Host) allocID() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	return h.nextID
}

func (h *Host) record(s *FakeSymbol) *FakeSymbol {
	h.mu.Lock()
	h.Created = append(h.Created, s)
	if s.owner != nil {
		s.owner.children = append(s.owner.children, s)
	}
	h.mu.Unlock()
	return s
}

func asFakeOwner(owner tasty.Symbol) *FakeSymbol {
	fs, _ := owner.(*FakeSymbol)
	return fs
}

// --- SymbolFactory ---

func (h *Host) NewClass(owner tasty.Symbol, name *tasty.Name, flags tasty.FlagSet, privateWithin tasty.Symbol) tasty.Symbol {
	return h.record(&FakeSymbol{id: h.allocID(), name: name, owner: asFakeOwner(owner), flags: flags, kind: "class"})
}

func (h *Host) NewModule(owner tasty.Symbol, name *tasty.Name, flags tasty.FlagSet) (tasty.Symbol, tasty.Symbol) {
	term := h.record(&FakeSymbol{id: h.allocID(), name: name, owner: asFakeOwner(owner), flags: flags, kind: "module"})
	cls := h.record(&FakeSymbol{id: h.allocID(), name: tasty.TypeName(name), owner: asFakeOwner(owner), flags: flags, kind: "moduleClass"})
	term.companion = cls
	cls.companion = term
	return term, cls
}

func (h *Host) NewMethod(owner tasty.Symbol, name *tasty.Name, flags tasty.FlagSet, privateWithin tasty.Symbol) tasty.Symbol {
	return h.record(&FakeSymbol{id: h.allocID(), name: name, owner: asFakeOwner(owner), flags: flags, kind: "method"})
}

func (h *Host) NewTypeSymbol(owner tasty.Symbol, name *tasty.Name, flags tasty.FlagSet, privateWithin tasty.Symbol) tasty.Symbol {
	return h.record(&FakeSymbol{id: h.allocID(), name: name, owner: asFakeOwner(owner), flags: flags, kind: "type"})
}

func (h *Host) NewValueParam(owner tasty.Symbol, name *tasty.Name, flags tasty.FlagSet) tasty.Symbol {
	return h.record(&FakeSymbol{id: h.allocID(), name: name, owner: asFakeOwner(owner), flags: flags, kind: "param"})
}

func (h *Host) NewTypeParam(owner tasty.Symbol, name *tasty.Name, flags tasty.FlagSet) tasty.Symbol {
	return h.record(&FakeSymbol{id: h.allocID(), name: name, owner: asFakeOwner(owner), flags: flags, kind: "typeparam"})
}

func (h *Host) NewConstructor(owner tasty.Symbol, flags tasty.FlagSet) tasty.Symbol {
	return h.record(&FakeSymbol{id: h.allocID(), name: tasty.Simple("<init>"), owner: asFakeOwner(owner), flags: flags, kind: "ctor"})
}

func (h *Host) NewLocalDummy(owner tasty.Symbol) tasty.Symbol {
	return h.record(&FakeSymbol{id: h.allocID(), name: tasty.Simple("<local>"), owner: asFakeOwner(owner), kind: "dummy"})
}

func (h *Host) NewRefinementClass(owner tasty.Symbol) tasty.Symbol {
	return h.record(&FakeSymbol{id: h.allocID(), name: tasty.Simple("<refinement>"), owner: asFakeOwner(owner), kind: "refinement"})
}

func (h *Host) NewExtensionMethod(companion tasty.Symbol, original tasty.Symbol, name *tasty.Name, info tasty.Type) tasty.Symbol {
	return h.record(&FakeSymbol{id: h.allocID(), name: name, owner: asFakeOwner(companion), kind: "extension", info: info})
}

func (h *Host) SetInfo(sym tasty.Symbol, info tasty.Type) {
	if fs, ok := sym.(*FakeSymbol); ok {
		fs.info = info
	}
}

func (h *Host) ClearPrivate(sym tasty.Symbol) {
	if fs, ok := sym.(*FakeSymbol); ok {
		fs.flags &^= tasty.Private
	}
}

func (h *Host) AddAnnotation(sym tasty.Symbol, thunk func() (tasty.Term, error)) {
	if fs, ok := sym.(*FakeSymbol); ok {
		fs.annotations = append(fs.annotations, thunk)
	}
}

// --- TypeFactory ---

func (h *Host) NoType() tasty.Type    { return &FakeType{desc: "<notype>"} }
func (h *Host) ErrorType() tasty.Type { return &FakeType{desc: "<error>"} }
func (h *Host) AnyRefType() tasty.Type { return &FakeType{desc: "AnyRef"} }

func (h *Host) TypeRef(prefix tasty.Type, sym tasty.Symbol) tasty.Type {
	return &FakeType{desc: fmt.Sprintf("TypeRef(%v)", sym), sym: sym, prefix: prefix}
}

func (h *Host) TermRef(prefix tasty.Type, sym tasty.Symbol) tasty.Type {
	return &FakeType{desc: fmt.Sprintf("TermRef(%v)", sym), sym: sym, prefix: prefix}
}

func (h *Host) SingleType(prefix tasty.Type, sym tasty.Symbol) tasty.Type {
	return &FakeType{desc: fmt.Sprintf("SingleType(%v)", sym), sym: sym, prefix: prefix}
}

func (h *Host) ThisType(cls tasty.Symbol) tasty.Type {
	return &FakeType{desc: fmt.Sprintf("ThisType(%v)", cls), sym: cls}
}

func (h *Host) SuperType(this, mixin tasty.Type) tasty.Type {
	return &FakeType{desc: "SuperType", prefix: this, args: []tasty.Type{mixin}}
}

func (h *Host) ConstantType(literal any, tagSym tasty.Symbol) tasty.Type {
	return &FakeType{desc: fmt.Sprintf("ConstantType(%v)", literal)}
}

func (h *Host) AnnotatedType(underlying tasty.Type, annot func() (tasty.Term, error)) tasty.Type {
	return &FakeType{desc: "AnnotatedType", prefix: underlying}
}

func (h *Host) AndType(lhs, rhs tasty.Type) tasty.Type {
	return &FakeType{desc: "AndType", prefix: lhs, args: []tasty.Type{rhs}}
}

func (h *Host) RefinedType(parent tasty.Type, name *tasty.Name, info tasty.Type) tasty.Type {
	return &FakeType{desc: fmt.Sprintf("RefinedType(%s)", name), prefix: parent, args: []tasty.Type{info}}
}

func (h *Host) ClassInfoType(parents []tasty.Type, decls tasty.Scope, cls tasty.Symbol) tasty.Type {
	return &FakeType{desc: fmt.Sprintf("ClassInfoType(%v)", cls), sym: cls, args: parents}
}

func (h *Host) MethodType(paramNames []*tasty.Name, paramTypes []tasty.Type, resType tasty.Type, implicit, given, erased bool) tasty.Type {
	return &FakeType{desc: "MethodType", args: paramTypes, prefix: resType}
}

func (h *Host) NullaryMethodType(resType tasty.Type) tasty.Type {
	return &FakeType{desc: "NullaryMethodType", prefix: resType}
}

func (h *Host) PolyType(paramNames []*tasty.Name, paramBounds []tasty.Type, resType tasty.Type) tasty.Type {
	return &FakeType{desc: "PolyType", args: paramBounds, prefix: resType}
}

func (h *Host) TypeBounds(lo, hi tasty.Type) tasty.Type {
	return &FakeType{desc: "TypeBounds", lo: lo, hi: hi}
}

func (h *Host) ExistentialType(boundSyms []tasty.Symbol, resType tasty.Type) tasty.Type {
	return &FakeType{desc: "ExistentialType", prefix: resType}
}

func (h *Host) ByNameType(underlying tasty.Type) tasty.Type {
	return &FakeType{desc: "ByNameType", prefix: underlying}
}

func (h *Host) RepeatedType(underlying tasty.Type) tasty.Type {
	return &FakeType{desc: "RepeatedType", prefix: underlying}
}

func (h *Host) AppliedType(tycon tasty.Type, args []tasty.Type) tasty.Type {
	return &FakeType{desc: "AppliedType", prefix: tycon, args: args}
}

func (h *Host) TypeLambda(paramNames []*tasty.Name, variances []tasty.Variance, paramBounds []tasty.Type, body tasty.Type) tasty.Type {
	return &FakeType{desc: "TypeLambda", args: paramBounds, prefix: body}
}

func (h *Host) RecType(makeBody func(self tasty.Type) tasty.Type) tasty.Type {
	self := &FakeType{desc: "RecType.self"}
	body := makeBody(self)
	return &FakeType{desc: "RecType", prefix: body, body: makeBody}
}

func (h *Host) ParamRef(binder tasty.Type, n int) tasty.Type {
	return &FakeType{desc: fmt.Sprintf("ParamRef(%d)", n), prefix: binder}
}

// --- ScopeFactory ---

func (h *Host) NewScope() tasty.Scope { return NewFakeScope() }

// --- Mirror ---

func (h *Host) GetPackage(name *tasty.Name) tasty.Symbol {
	return h.record(&FakeSymbol{id: h.allocID(), name: name, owner: h.root, kind: "package"})
}
func (h *Host) RootPackage() tasty.Symbol  { return h.root }
func (h *Host) EmptyPackage() tasty.Symbol { return h.empty }
func (h *Host) GetClassIfDefined(fullyQualified *tasty.Name) tasty.Symbol {
	for _, s := range h.Created {
		if s.kind == "class" && s.name != nil && s.name.Equal(fullyQualified) {
			return s
		}
	}
	return nil
}
func (h *Host) GetModuleIfDefined(fullyQualified *tasty.Name) tasty.Symbol {
	for _, s := range h.Created {
		if s.kind == "module" && s.name != nil && s.name.Equal(fullyQualified) {
			return s
		}
	}
	return nil
}

// --- PhaseRunner ---

func (h *Host) AtPhaseNotLaterThan(p tasty.Phase, fn func()) { fn() }

// --- NameEscaper ---

func (h *Host) Escape(text string) string { return text }

// Env bundles this fake host into a tasty.HostEnv ready to pass to
// NewTreeUnpickler, with a fresh Reporter writing nowhere.
func (h *Host) Env(names *tasty.NameTable) *tasty.HostEnv {
	return &tasty.HostEnv{
		Symbols:  h,
		Types:    h,
		Scopes:   h,
		Mirror:   h,
		Phases:   h,
		Escaper:  h,
		Names:    names,
		Reporter: tasty.NewReporter(nil),
		Options:  tasty.DefaultOptions(),
	}
}
