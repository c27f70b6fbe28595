package tasty

import "testing"

func TestReadModifiersAbstractOverrideCollapse(t *testing.T) {
	buf := []byte{byte(TagABSTRACT), byte(TagOVERRIDE)}
	c := NewCursor(buf)
	res := readModifiers(c, Addr(len(buf)), false)
	if !res.Host.Has(AbsOverride) {
		t.Fatalf("expected ABSTRACT+OVERRIDE to collapse into AbsOverride, got %v", res.Host)
	}
	if res.Host.Has(Abstract) || res.Host.Has(Override) {
		t.Fatalf("AbsOverride collapse should not also set the individual bits, got %v", res.Host)
	}
}

func TestReadModifiersGivenMapsToImplicit(t *testing.T) {
	buf := []byte{byte(TagGIVEN)}
	c := NewCursor(buf)
	res := readModifiers(c, Addr(len(buf)), false)
	if !res.Host.Has(Implicit) {
		t.Fatalf("expected GIVEN to map to Implicit, got %v", res.Host)
	}
}

func TestReadModifiersAbstractAloneSetsAbstract(t *testing.T) {
	buf := []byte{byte(TagABSTRACT), byte(TagFINAL)}
	c := NewCursor(buf)
	res := readModifiers(c, Addr(len(buf)), false)
	if !res.Host.Has(Abstract) || !res.Host.Has(Final) {
		t.Fatalf("expected Abstract and Final both set, got %v", res.Host)
	}
}

func TestReadModifiersAnnotationDeferredUnlessIgnored(t *testing.T) {
	// ANNOTATION, length=1, one payload byte.
	buf := []byte{byte(TagANNOTATION), 1, 0xAA}
	c := NewCursor(buf)
	res := readModifiers(c, Addr(len(buf)), false)
	if len(res.AnnotationAddrs) != 1 {
		t.Fatalf("expected one deferred annotation thunk, got %d", len(res.AnnotationAddrs))
	}

	c2 := NewCursor(buf)
	res2 := readModifiers(c2, Addr(len(buf)), true)
	if len(res2.AnnotationAddrs) != 0 {
		t.Fatalf("expected annotations to be dropped when ignoreAnnotations is set, got %d", len(res2.AnnotationAddrs))
	}
}

func TestReadModifiersStopsAtNonModifierTag(t *testing.T) {
	buf := []byte{byte(TagFINAL), byte(TagIDENT)}
	c := NewCursor(buf)
	res := readModifiers(c, Addr(len(buf)), false)
	if !res.Host.Has(Final) {
		t.Fatalf("expected Final to be set, got %v", res.Host)
	}
	if c.CurrentAddr() != 1 {
		t.Fatalf("expected cursor to stop before the non-modifier tag, at 1, got %v", c.CurrentAddr())
	}
}

func TestNormalizeFlagsDeferredWhenNoRHS(t *testing.T) {
	in := NormalizeInput{Tag: TagDEFDEF, Kind: KindMethod, HasRHS: false}
	got := NormalizeFlags(in, 0)
	if !got.Has(Deferred) {
		t.Fatalf("expected Deferred to be set for a DEFDEF with no RHS, got %v", got)
	}
}

func TestNormalizeFlagsValDefStableUnlessMutable(t *testing.T) {
	got := NormalizeFlags(NormalizeInput{Tag: TagVALDEF, HasRHS: true}, 0)
	if !got.Has(Stable) {
		t.Fatalf("expected a non-mutable VALDEF to gain Stable, got %v", got)
	}
	got2 := NormalizeFlags(NormalizeInput{Tag: TagVALDEF, HasRHS: true}, Mutable)
	if got2.Has(Stable) {
		t.Fatalf("expected a mutable VALDEF to not gain Stable, got %v", got2)
	}
}

func TestNormalizeFlagsModuleValGetsLazyFinalStable(t *testing.T) {
	got := NormalizeFlags(NormalizeInput{Tag: TagVALDEF, HasRHS: true}, Module)
	if !got.Has(Lazy) || !got.Has(Final) || !got.Has(Stable) {
		t.Fatalf("expected module VALDEF to gain Lazy|Final|Stable, got %v", got)
	}
}

func TestNormalizeFlagsClassOwnedParamGetsAccessorBits(t *testing.T) {
	got := NormalizeFlags(NormalizeInput{Tag: TagPARAM, OwnerIsClass: true, IsParamAlias: true}, 0)
	if !got.Has(ParamAccessor) || !got.Has(Accessor) || !got.Has(Stable) || !got.Has(Method) {
		t.Fatalf("expected class-owned param-alias PARAM to gain ParamAccessor|Accessor|Stable|Method, got %v", got)
	}
}

func TestNormalizeFlagsDefaultParam(t *testing.T) {
	got := NormalizeFlags(NormalizeInput{DefaultParam: true}, 0)
	if !got.Has(DefaultParameterized) {
		t.Fatalf("expected DefaultParameterized to be set, got %v", got)
	}
}

func TestSkipTypeNatOnly(t *testing.T) {
	buf := []byte{byte(TagTERMREFdirect), 7, byte(TagIDENT) /* sentinel after */}
	c := NewCursor(buf)
	skipType(c)
	if c.CurrentAddr() != 2 {
		t.Fatalf("skipType over a nat-only tag should consume 2 bytes, cursor at %v", c.CurrentAddr())
	}
}
