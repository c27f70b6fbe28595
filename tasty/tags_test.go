package tasty

import "testing"

func TestShapeOfModifiersAndConstants(t *testing.T) {
	for _, tag := range []Tag{TagPRIVATE, TagFINAL, TagTRAIT, TagUNITconst, TagTRUEconst} {
		if got := ShapeOf(tag); got != ShapeNatOnly {
			t.Fatalf("ShapeOf(%v) = %v, want ShapeNatOnly", tag, got)
		}
	}
}

func TestShapeOfDirectAndPkgRefs(t *testing.T) {
	for _, tag := range []Tag{TagTERMREFdirect, TagTYPEREFdirect, TagTERMREFpkg, TagTYPEREFpkg} {
		if got := ShapeOf(tag); got != ShapeNatOnly {
			t.Fatalf("ShapeOf(%v) = %v, want ShapeNatOnly", tag, got)
		}
	}
}

func TestShapeOfSymbolAndPlainRefs(t *testing.T) {
	for _, tag := range []Tag{TagTERMREFsymbol, TagTYPEREFsymbol, TagTERMREF, TagTYPEREF} {
		if got := ShapeOf(tag); got != ShapeNatThenAST {
			t.Fatalf("ShapeOf(%v) = %v, want ShapeNatThenAST", tag, got)
		}
	}
}

func TestShapeOfSharedBackrefs(t *testing.T) {
	for _, tag := range []Tag{TagSHAREDtype, TagSHAREDterm} {
		if got := ShapeOf(tag); got != ShapeNatOnly {
			t.Fatalf("ShapeOf(%v) = %v, want ShapeNatOnly", tag, got)
		}
	}
}

func TestShapeOfLengthPrefixed(t *testing.T) {
	for _, tag := range []Tag{TagVALDEF, TagDEFDEF, TagTYPEDEF, TagTEMPLATE, TagPACKAGE, TagPARAMtype} {
		if got := ShapeOf(tag); got != ShapeLengthPrefixed {
			t.Fatalf("ShapeOf(%v) = %v, want ShapeLengthPrefixed", tag, got)
		}
	}
}

func TestShapeOfPlainASTOnly(t *testing.T) {
	if got := ShapeOf(TagTHIS); got != ShapeASTOnly {
		t.Fatalf("ShapeOf(TagTHIS) = %v, want ShapeASTOnly", got)
	}
}

func TestIsModifierTag(t *testing.T) {
	if !IsModifierTag(TagPRIVATE) {
		t.Fatalf("IsModifierTag(TagPRIVATE) = false, want true")
	}
	if IsModifierTag(TagIDENT) {
		t.Fatalf("IsModifierTag(TagIDENT) = true, want false")
	}
}

func TestIsMemberTag(t *testing.T) {
	members := []Tag{TagVALDEF, TagDEFDEF, TagTYPEDEF, TagTYPEPARAM, TagPARAM, TagTEMPLATE}
	for _, tag := range members {
		if !IsMemberTag(tag) {
			t.Fatalf("IsMemberTag(%v) = false, want true", tag)
		}
	}
	nonMembers := []Tag{TagPACKAGE, TagIDENT, TagAPPLY, TagBLOCK}
	for _, tag := range nonMembers {
		if IsMemberTag(tag) {
			t.Fatalf("IsMemberTag(%v) = true, want false", tag)
		}
	}
}
