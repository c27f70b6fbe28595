package tasty_test

import (
	"encoding/binary"
	"testing"

	"github.com/gaudelbinod/tastyunpickler/tasty"
	"github.com/gaudelbinod/tastyunpickler/testhost"
)

func extNat(v uint64) []byte {
	tmp := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(tmp, v)
	return tmp[:n]
}

func extLengthPrefixed(tag tasty.Tag, body []byte) []byte {
	out := []byte{byte(tag)}
	out = append(out, extNat(uint64(len(body)))...)
	out = append(out, body...)
	return out
}

// extNameTableBytes builds a length-prefixed name table of plain UTF8
// entries, matching the wire shape NewNameTable expects.
func extNameTableBytes(names ...string) []byte {
	var body []byte
	for _, n := range names {
		body = append(body, 1) // nameWireUTF8
		body = append(body, extNat(uint64(len(n)))...)
		body = append(body, []byte(n)...)
	}
	out := extNat(uint64(len(body)))
	return append(out, body...)
}

// TestUnpicklesSimpleClassWithField builds the byte stream for
// "class Foo { val x: Int }" (one TYPEDEF wrapping one TEMPLATE with a
// single VALDEF member) and runs it through the real two-pass unpickler
// against testhost's fake symbol table, exercising the member-splicing
// owner tree, looksLikeTemplate's class/alias dispatch, and the
// index/complete pass pairing end to end.
func TestUnpicklesSimpleClassWithField(t *testing.T) {
	names := tasty.NewNameTable(tasty.NewCursor(extNameTableBytes("Foo", "x", "Int")))

	// One ANNOTATION thunk trailing the field's type, body irrelevant since
	// the test never forces the thunk.
	annotTerm := append([]byte{byte(tasty.TagIDENT)}, extNat(3)...)
	annotTerm = append(annotTerm, byte(tasty.TagTYPEREFpkg))
	annotTerm = append(annotTerm, extNat(3)...)
	annotation := extLengthPrefixed(tasty.TagANNOTATION, annotTerm)

	// VALDEF "x" (nameRef=2) : TYPEREFpkg("Int", nameRef=3) @<annotation>
	valdefBody := append(extNat(2), byte(tasty.TagTYPEREFpkg))
	valdefBody = append(valdefBody, extNat(3)...)
	valdefBody = append(valdefBody, annotation...)
	valdef := extLengthPrefixed(tasty.TagVALDEF, valdefBody)

	template := extLengthPrefixed(tasty.TagTEMPLATE, valdef)

	// TYPEDEF "Foo" (nameRef=1) : TEMPLATE [...]
	typedefBody := append(extNat(1), template...)
	typedef := extLengthPrefixed(tasty.TagTYPEDEF, typedefBody)

	host := testhost.NewHost()
	env := host.Env(names)
	u := tasty.NewTreeUnpickler(typedef, names, env)
	defer u.Release()

	stats, err := u.Unpickle(host.RootPackage(), host.RootPackage(), nil)
	if err != nil {
		t.Fatalf("Unpickle() error = %v", err)
	}
	if stats.ClassesIndexed != 1 {
		t.Fatalf("stats.ClassesIndexed = %d, want 1", stats.ClassesIndexed)
	}
	if stats.FieldsIndexed != 1 {
		t.Fatalf("stats.FieldsIndexed = %d, want 1", stats.FieldsIndexed)
	}

	var cls, field *testhost.FakeSymbol
	for _, sym := range host.Created {
		switch sym.Name().String() {
		case "Foo":
			cls = sym
		case "x":
			field = sym
		}
	}
	if cls == nil {
		t.Fatalf("no symbol named Foo was created; host.Created = %v", host.Created)
	}
	if !cls.IsClass() {
		t.Fatalf("Foo was not dispatched through NewClass (kind = %q); looksLikeTemplate regressed", cls.Kind())
	}
	if field == nil {
		t.Fatalf("no symbol named x was created; host.Created = %v", host.Created)
	}
	if field.Owner() != cls {
		t.Fatalf("x's owner = %v, want Foo (member splicing / ownerOf regressed)", field.Owner())
	}
	if cls.Info() == nil {
		t.Fatalf("Foo's info was never set; ReadTemplate's SetInfo call regressed")
	}
	if field.Info() == nil {
		t.Fatalf("x's info was never set; ReadNewMember's VALDEF SetInfo call regressed")
	}
	if len(field.Annotations()) != 1 {
		t.Fatalf("x's annotations = %d, want 1 (attachAnnotations/AddAnnotation regressed)", len(field.Annotations()))
	}
}

// TestUnpicklesTypeAliasNotDispatchedAsClass builds "type Bar = Int" (a
// TYPEDEF whose body is a type, not a TEMPLATE) and checks it is
// classified as a type alias rather than a class.
func TestUnpicklesTypeAliasNotDispatchedAsClass(t *testing.T) {
	names := tasty.NewNameTable(tasty.NewCursor(extNameTableBytes("Bar", "Int")))

	aliasBody := append(extNat(1), byte(tasty.TagTYPEREFpkg))
	aliasBody = append(aliasBody, extNat(2)...)
	typedef := extLengthPrefixed(tasty.TagTYPEDEF, aliasBody)

	host := testhost.NewHost()
	env := host.Env(names)
	u := tasty.NewTreeUnpickler(typedef, names, env)
	defer u.Release()

	if _, err := u.Unpickle(host.RootPackage(), host.RootPackage(), nil); err != nil {
		t.Fatalf("Unpickle() error = %v", err)
	}

	var bar *testhost.FakeSymbol
	for _, sym := range host.Created {
		if sym.Name().String() == "Bar" {
			bar = sym
		}
	}
	if bar == nil {
		t.Fatalf("no symbol named Bar was created; host.Created = %v", host.Created)
	}
	if bar.IsClass() {
		t.Fatalf("Bar was dispatched through NewClass, want NewTypeSymbol (kind = %q)", bar.Kind())
	}
}

// TestUnpicklesRootMatchCompletesPreallocatedRoot builds a single top-level
// "class <root>" whose name equals the host's pre-allocated root package's
// own name, and checks Unpickle completes that existing root symbol in
// place rather than minting a fresh one (§4.6.1/§4.6.3's root-match rule).
func TestUnpicklesRootMatchCompletesPreallocatedRoot(t *testing.T) {
	names := tasty.NewNameTable(tasty.NewCursor(extNameTableBytes("<root>")))

	typedefBody := append(extNat(1), extLengthPrefixed(tasty.TagTEMPLATE, nil)...)
	typedef := extLengthPrefixed(tasty.TagTYPEDEF, typedefBody)

	host := testhost.NewHost()
	env := host.Env(names)
	u := tasty.NewTreeUnpickler(typedef, names, env)
	defer u.Release()

	if _, err := u.Unpickle(host.RootPackage(), host.RootPackage(), nil); err != nil {
		t.Fatalf("Unpickle() error = %v", err)
	}

	for _, sym := range host.Created {
		if sym.Kind() == "class" && sym.Name() != nil && sym.Name().String() == "<root>" {
			t.Fatalf("root match failed: a new class symbol named <root> was created instead of reusing the preallocated root")
		}
	}

	root := host.RootPackage().(*testhost.FakeSymbol)
	if root.Info() == nil {
		t.Fatalf("the preallocated root's info was never set; root adoption did not complete it")
	}
}

// TestUnpicklesValueClassSynthesizesExtensionMethod builds
// "class Wrap extends AnyVal { def <init>(); val x: Int; def plus(y: Int): Int }"
// plus its companion "object Wrap", and checks that detecting AnyVal as
// Wrap's sole parent (§4.6.5) clears the primary constructor's and the
// param accessor's Private bit and synthesizes a companion-owned extension
// method for plus.
func TestUnpicklesValueClassSynthesizesExtensionMethod(t *testing.T) {
	// extNameTableBytes only emits plain UTF8 entries, but ref 3 here needs to
	// be the qualified name "scala.AnyVal", so the table is built by hand.
	names := tasty.NewNameTable(tasty.NewCursor(extQualifiedNameTableBytes()))

	// Constructor: DEFDEF "<init>" () : Int, initially private.
	ctorBody := append(extNat(6), byte(tasty.TagTYPEREFpkg))
	ctorBody = append(ctorBody, extNat(5)...)
	ctorBody = append(ctorBody, byte(tasty.TagPRIVATE))
	ctorDefdef := extLengthPrefixed(tasty.TagDEFDEF, ctorBody)

	// Param accessor: PARAM "x" : Int, initially private.
	paramXBody := append(extNat(9), byte(tasty.TagTYPEREFpkg))
	paramXBody = append(paramXBody, extNat(5)...)
	paramXBody = append(paramXBody, byte(tasty.TagPRIVATE))
	paramX := extLengthPrefixed(tasty.TagPARAM, paramXBody)

	// Nested value param "y" : Int, owned by "plus" itself.
	paramYBody := append(extNat(8), byte(tasty.TagTYPEREFpkg))
	paramYBody = append(paramYBody, extNat(5)...)
	paramY := extLengthPrefixed(tasty.TagPARAM, paramYBody)

	// Method: DEFDEF "plus" (y: Int) : Int
	plusBody := append(extNat(7), paramY...)
	plusBody = append(plusBody, byte(tasty.TagTYPEREFpkg))
	plusBody = append(plusBody, extNat(5)...)
	plusDefdef := extLengthPrefixed(tasty.TagDEFDEF, plusBody)

	templateBody := append([]byte{}, ctorDefdef...)
	templateBody = append(templateBody, paramX...)
	templateBody = append(templateBody, plusDefdef...)

	// Companion object: VALDEF "Wrap" : Wrap, OBJECT.
	moduleBody := append(extNat(4), byte(tasty.TagTYPEREFpkg))
	moduleBody = append(moduleBody, extNat(4)...)
	moduleBody = append(moduleBody, byte(tasty.TagOBJECT))
	moduleValdef := extLengthPrefixed(tasty.TagVALDEF, moduleBody)

	// class AnyVal { }
	anyValTypedefBody := append(extNat(3), extLengthPrefixed(tasty.TagTEMPLATE, nil)...)
	anyValTypedef := extLengthPrefixed(tasty.TagTYPEDEF, anyValTypedefBody)

	// Buffer layout: module first (so AnyVal's address is nonzero -- address
	// 0 is reserved for the implicit root package), then AnyVal, then Wrap.
	anyValAddr := len(moduleValdef)

	// Parent term: IDENT "AnyVal" : TYPEREFdirect(anyValAddr).
	parentTerm := append([]byte{byte(tasty.TagIDENT)}, extNat(2)...)
	parentTerm = append(parentTerm, byte(tasty.TagTYPEREFdirect))
	parentTerm = append(parentTerm, extNat(uint64(anyValAddr))...)

	wrapTemplate := extLengthPrefixed(tasty.TagTEMPLATE, append(parentTerm, templateBody...))
	wrapTypedefBody := append(extNat(4), wrapTemplate...)
	wrapTypedef := extLengthPrefixed(tasty.TagTYPEDEF, wrapTypedefBody)

	buf := append([]byte{}, moduleValdef...)
	buf = append(buf, anyValTypedef...)
	buf = append(buf, wrapTypedef...)

	host := testhost.NewHost()
	env := host.Env(names)
	u := tasty.NewTreeUnpickler(buf, names, env)
	defer u.Release()

	if _, err := u.Unpickle(host.RootPackage(), host.RootPackage(), nil); err != nil {
		t.Fatalf("Unpickle() error = %v", err)
	}

	var ctor, paramXSym, extension *testhost.FakeSymbol
	for _, sym := range host.Created {
		switch {
		case sym.Kind() == "ctor":
			ctor = sym
		case sym.Kind() == "param" && sym.Name() != nil && sym.Name().String() == "x":
			paramXSym = sym
		case sym.Kind() == "extension":
			extension = sym
		}
	}

	if ctor == nil {
		t.Fatalf("no constructor symbol was created; host.Created = %v", host.Created)
	}
	if ctor.Flags().Has(tasty.Private) {
		t.Fatalf("primary constructor is still private; value-class ClearPrivate regressed")
	}
	if paramXSym == nil {
		t.Fatalf("no param accessor x was created; host.Created = %v", host.Created)
	}
	if paramXSym.Flags().Has(tasty.Private) {
		t.Fatalf("param accessor x is still private; value-class ClearPrivate regressed")
	}
	if extension == nil {
		t.Fatalf("no extension method was synthesized for plus; host.Created = %v", host.Created)
	}
	if extension.Name() == nil || extension.Name().String() != "plus" {
		t.Fatalf("extension method name = %v, want plus", extension.Name())
	}
	if extension.Info() == nil {
		t.Fatalf("extension method's info was never set; extensionMethInfo regressed")
	}
}

// extQualifiedNameTableBytes builds the name table
// ["scala", "AnyVal", scala.AnyVal, "Wrap", "Int", "<init>", "plus", "y", "x"]
// used by TestUnpicklesValueClassSynthesizesExtensionMethod, where entry 3
// is a qualified name rather than a plain UTF8 one.
func extQualifiedNameTableBytes() []byte {
	var body []byte
	utf8 := func(s string) {
		body = append(body, 1) // nameWireUTF8
		body = append(body, extNat(uint64(len(s)))...)
		body = append(body, []byte(s)...)
	}
	utf8("scala")  // ref 1
	utf8("AnyVal") // ref 2
	body = append(body, 2) // nameWireQualified
	body = append(body, extNat(1)...)
	body = append(body, extNat(2)...) // ref 3: scala.AnyVal
	utf8("Wrap")   // ref 4
	utf8("Int")    // ref 5
	utf8("<init>") // ref 6
	utf8("plus")   // ref 7
	utf8("y")      // ref 8
	utf8("x")      // ref 9
	out := extNat(uint64(len(body)))
	return append(out, body...)
}
