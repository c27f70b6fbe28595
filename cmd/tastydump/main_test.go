package main

import (
	"encoding/binary"
	"strings"
	"testing"

	"github.com/gaudelbinod/tastyunpickler/tasty"
)

func nat(v uint64) []byte {
	tmp := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(tmp, v)
	return tmp[:n]
}

func lengthPrefixed(tag tasty.Tag, body []byte) []byte {
	out := []byte{byte(tag)}
	out = append(out, nat(uint64(len(body)))...)
	out = append(out, body...)
	return out
}

func nameTableBytes(names ...string) []byte {
	var body []byte
	for _, n := range names {
		body = append(body, 1) // nameWireUTF8
		body = append(body, nat(uint64(len(n)))...)
		body = append(body, []byte(n)...)
	}
	out := nat(uint64(len(body)))
	return append(out, body...)
}

// classWithFieldArtifact builds the same "class Foo { val x: Int }" byte
// layout the unpickler's own integration test uses, as a standalone .tasty
// file: a name table immediately followed by the ASTs section.
func classWithFieldArtifact() []byte {
	names := nameTableBytes("Foo", "x", "Int")

	valdefBody := append(nat(2), byte(tasty.TagTYPEREFpkg))
	valdefBody = append(valdefBody, nat(3)...)
	valdef := lengthPrefixed(tasty.TagVALDEF, valdefBody)

	template := lengthPrefixed(tasty.TagTEMPLATE, valdef)

	typedefBody := append(nat(1), template...)
	typedef := lengthPrefixed(tasty.TagTYPEDEF, typedefBody)

	return append(names, typedef...)
}

func TestDecodeProducesExpectedDump(t *testing.T) {
	dump, err := decode("Foo.tasty", classWithFieldArtifact())
	if err != nil {
		t.Fatalf("decode() error = %v", err)
	}
	if dump.Artifact != "Foo.tasty" {
		t.Fatalf("dump.Artifact = %q, want Foo.tasty", dump.Artifact)
	}
	if dump.Stats.ClassesIndexed != 1 || dump.Stats.FieldsIndexed != 1 {
		t.Fatalf("dump.Stats = %+v, want one class and one field", dump.Stats)
	}

	var sawClass, sawField bool
	for _, s := range dump.Symbols {
		switch s.Name {
		case "Foo":
			sawClass = s.Kind == "class"
		case "x":
			sawField = true
		}
	}
	if !sawClass {
		t.Fatalf("Foo was not recorded as a class; symbols = %+v", dump.Symbols)
	}
	if !sawField {
		t.Fatalf("x was not recorded; symbols = %+v", dump.Symbols)
	}
}

func TestPrintHighlightedDoesNotErrorOnDecodedDump(t *testing.T) {
	dump, err := decode("Foo.tasty", classWithFieldArtifact())
	if err != nil {
		t.Fatalf("decode() error = %v", err)
	}
	if err := printHighlighted(dump); err != nil {
		t.Fatalf("printHighlighted() error = %v", err)
	}
}

func TestDebugLexerTokenisesKindNamePairs(t *testing.T) {
	iterator, err := debugLexer.Tokenise(nil, "class Foo (owner=0)\n")
	if err != nil {
		t.Fatalf("Tokenise() error = %v", err)
	}
	var sawKeyword bool
	for _, tok := range iterator.Tokens() {
		if strings.TrimSpace(tok.Value) == "class" {
			sawKeyword = true
		}
	}
	if !sawKeyword {
		t.Fatalf("debugLexer did not classify %q as a keyword", "class")
	}
}
