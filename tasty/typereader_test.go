package tasty

import "testing"

// minimalTypes is a tiny TypeFactory stub for exercising ReadType's
// dispatch without a full host; it only wraps enough information for
// assertions to inspect what ReadType constructed.
type minimalTypes struct{}

type taggedType struct {
	kind   string
	sym    Symbol
	prefix Type
	lo, hi Type
	args   []Type
}

func (minimalTypes) NoType() Type    { return &taggedType{kind: "notype"} }
func (minimalTypes) ErrorType() Type { return &taggedType{kind: "error"} }
func (minimalTypes) AnyRefType() Type { return &taggedType{kind: "anyref"} }
func (minimalTypes) TypeRef(prefix Type, sym Symbol) Type {
	return &taggedType{kind: "typeref", prefix: prefix, sym: sym}
}
func (minimalTypes) TermRef(prefix Type, sym Symbol) Type {
	return &taggedType{kind: "termref", prefix: prefix, sym: sym}
}
func (minimalTypes) SingleType(prefix Type, sym Symbol) Type {
	return &taggedType{kind: "single", prefix: prefix, sym: sym}
}
func (minimalTypes) ThisType(cls Symbol) Type { return &taggedType{kind: "this", sym: cls} }
func (minimalTypes) SuperType(this, mixin Type) Type {
	return &taggedType{kind: "super", prefix: this, args: []Type{mixin}}
}
func (minimalTypes) ConstantType(literal any, tagSym Symbol) Type { return &taggedType{kind: "const"} }
func (minimalTypes) AnnotatedType(underlying Type, annot func() (Term, error)) Type {
	return &taggedType{kind: "annotated", prefix: underlying}
}
func (minimalTypes) AndType(lhs, rhs Type) Type { return &taggedType{kind: "and", prefix: lhs, args: []Type{rhs}} }
func (minimalTypes) RefinedType(parent Type, name *Name, info Type) Type {
	return &taggedType{kind: "refined", prefix: parent, args: []Type{info}}
}
func (minimalTypes) ClassInfoType(parents []Type, decls Scope, cls Symbol) Type {
	return &taggedType{kind: "classinfo", sym: cls, args: parents}
}
func (minimalTypes) MethodType(paramNames []*Name, paramTypes []Type, resType Type, implicit, given, erased bool) Type {
	return &taggedType{kind: "method", args: paramTypes, prefix: resType}
}
func (minimalTypes) NullaryMethodType(resType Type) Type {
	return &taggedType{kind: "nullarymethod", prefix: resType}
}
func (minimalTypes) PolyType(paramNames []*Name, paramBounds []Type, resType Type) Type {
	return &taggedType{kind: "poly", args: paramBounds, prefix: resType}
}
func (minimalTypes) TypeBounds(lo, hi Type) Type { return &taggedType{kind: "bounds", lo: lo, hi: hi} }
func (minimalTypes) ExistentialType(boundSyms []Symbol, resType Type) Type {
	return &taggedType{kind: "existential", prefix: resType}
}
func (minimalTypes) ByNameType(underlying Type) Type { return &taggedType{kind: "byname", prefix: underlying} }
func (minimalTypes) RepeatedType(underlying Type) Type {
	return &taggedType{kind: "repeated", prefix: underlying}
}
func (minimalTypes) AppliedType(tycon Type, args []Type) Type {
	return &taggedType{kind: "applied", prefix: tycon, args: args}
}
func (minimalTypes) TypeLambda(paramNames []*Name, variances []Variance, paramBounds []Type, body Type) Type {
	return &taggedType{kind: "lambda", args: paramBounds, prefix: body}
}
func (minimalTypes) RecType(makeBody func(self Type) Type) Type {
	self := &taggedType{kind: "rec.self"}
	return makeBody(self)
}
func (minimalTypes) ParamRef(binder Type, n int) Type { return &taggedType{kind: "paramref", prefix: binder} }

type minimalMirror struct{ packages map[string]Symbol }

func (m minimalMirror) GetPackage(name *Name) Symbol      { return m.packages[name.String()] }
func (minimalMirror) RootPackage() Symbol                 { return "root" }
func (minimalMirror) EmptyPackage() Symbol                { return "empty" }
func (minimalMirror) GetClassIfDefined(n *Name) Symbol    { return nil }
func (minimalMirror) GetModuleIfDefined(n *Name) Symbol   { return nil }

func newTestUnpickler(buf []byte) (*TreeUnpickler, *Context) {
	names := &NameTable{}
	env := &HostEnv{
		Types:  minimalTypes{},
		Mirror: minimalMirror{packages: map[string]Symbol{"scala": "scalaPkg"}},
	}
	u := NewTreeUnpickler(buf, names, env)
	ctx := InitialContext(env, "classRoot", "moduleRoot", "owner", nil)
	return u, ctx
}

func TestReadTypeDirectRef(t *testing.T) {
	u, ctx := newTestUnpickler(nil)
	u.symAtAddr[Addr(5)] = "Foo"

	buf := append([]byte{byte(TagTYPEREFdirect)}, nat(5)...)
	c := NewCursor(buf)
	got := u.ReadType(ctx, c)
	tt := got.(*taggedType)
	if tt.kind != "typeref" || tt.sym != "Foo" {
		t.Fatalf("ReadType(TYPEREFdirect) = %+v, want typeref(Foo)", tt)
	}
}

func TestReadTypeSharedCachesByAddr(t *testing.T) {
	// Build a buffer where address 10 holds a TYPEREFdirect(addr=5), and
	// the cursor starts at a SHAREDtype pointing at 10.
	direct := append([]byte{byte(TagTYPEREFdirect)}, nat(5)...)
	padding := make([]byte, 10-len(direct))
	buf := append(direct, padding...)
	buf = append(buf, byte(TagSHAREDtype))
	buf = append(buf, nat(0)...) // points at address 0, where `direct` starts

	u, ctx := newTestUnpickler(buf)
	u.symAtAddr[Addr(5)] = "Foo"

	c := NewCursor(buf)
	c.Goto(Addr(len(direct) + len(padding)))
	got1 := u.ReadType(ctx, c)
	if _, ok := u.typeAtAddr[Addr(0)]; !ok {
		t.Fatalf("expected SHAREDtype to populate typeAtAddr cache at the target address")
	}

	c2 := NewCursor(buf)
	c2.Goto(Addr(len(direct) + len(padding)))
	got2 := u.ReadType(ctx, c2)
	if got1 != got2 {
		t.Fatalf("expected a second SHAREDtype read to return the cached type, got a new one")
	}
}

func TestReadTypePkgRef(t *testing.T) {
	names := &NameTable{}
	names.entries = append(names.entries, Simple("scala"))
	env := &HostEnv{Types: minimalTypes{}, Mirror: minimalMirror{packages: map[string]Symbol{"scala": "scalaPkg"}}}
	u := NewTreeUnpickler(nil, names, env)
	ctx := InitialContext(env, nil, nil, nil, nil)

	buf := append([]byte{byte(TagTYPEREFpkg)}, nat(1)...)
	c := NewCursor(buf)
	got := u.ReadType(ctx, c).(*taggedType)
	if got.sym != "scalaPkg" {
		t.Fatalf("ReadType(TYPEREFpkg) resolved sym = %v, want scalaPkg", got.sym)
	}
}

func TestReadTypeParamTypeResolvesBinder(t *testing.T) {
	u, ctx := newTestUnpickler(nil)
	binder := &taggedType{kind: "lambda"}
	u.typeAtAddr[Addr(99)] = binder

	body := append(nat(99), nat(0)...)
	buf := buildLengthPrefixed(TagPARAMtype, body)
	c := NewCursor(buf)
	got := u.ReadType(ctx, c).(*taggedType)
	if got.kind != "paramref" || got.prefix != binder {
		t.Fatalf("ReadType(PARAMtype) = %+v, want paramref bound to binder", got)
	}
}

func TestReadTypeUnionUnsupported(t *testing.T) {
	u, ctx := newTestUnpickler(nil)
	buf := []byte{byte(TagORtype)}
	c := NewCursor(buf)
	defer func() {
		r := recover()
		if _, ok := r.(*UnsupportedFeatureError); !ok {
			t.Fatalf("expected ORtype to panic with *UnsupportedFeatureError, got %T (%v)", r, r)
		}
	}()
	u.ReadType(ctx, c)
}
