package tasty

// OwnerTree is a lazy index mirroring the nesting of definitions and
// templates in the byte stream (§3, §4.5). Children are computed on first
// demand by a scan that skips grandchildren; ownership is strict
// parent→children, and children is populated at most once.
type OwnerTree struct {
	addr     Addr
	tag      Tag
	end      Addr
	forkFrom *Cursor // independent cursor for the lazy scan: past tag, length and nameRef for a member, at addr for the root

	childrenDone bool
	children     []*OwnerTree

	arena *ownerTreeArena
}

// Addr returns the node's start address.
func (t *OwnerTree) Addr() Addr { return t.addr }

// Tag returns the node's tag.
func (t *OwnerTree) Tag() Tag { return t.tag }

// End returns the node's end address.
func (t *OwnerTree) End() Addr { return t.end }

// Children returns this node's children, computing them on first access.
// The scan reads forkFrom (an independent cursor, never the caller's)
// so repeated calls are safe and never disturb an in-progress read
// elsewhere in the unpickler.
func (t *OwnerTree) Children() []*OwnerTree {
	if !t.childrenDone {
		t.children = scanChildren(t.forkFrom, t.end, t.arena)
		t.childrenDone = true
	}
	return t.children
}

// FindOwner descends the lazy child list using interval containment to
// find the OwnerTree node whose span most tightly contains addr. Unique
// enclosure is an invariant of well-formed input (§4.5).
func (t *OwnerTree) FindOwner(addr Addr) *OwnerTree {
	for _, c := range t.Children() {
		if c.addr <= addr && addr < c.end {
			if deeper := c.FindOwner(addr); deeper != nil {
				return deeper
			}
			return c
		}
	}
	return nil
}

// scanChildren implements scanTree's per-call skip-grandchildren pass
// (§4.5): it classifies every tag by wire shape, and for length-prefixed
// member/template tags records a node and recurses; for TEMPLATE, member
// defs are recorded at the *enclosing* level (so member owners are
// classes, not templates) while non-member statements stay nested.
func scanChildren(c *Cursor, end Addr, arena *ownerTreeArena) []*OwnerTree {
	var out []*OwnerTree
	for c.CurrentAddr() < end {
		out = appendScannedNode(out, c, arena)
	}
	return out
}

func appendScannedNode(out []*OwnerTree, c *Cursor, arena *ownerTreeArena) []*OwnerTree {
	start := c.CurrentAddr()
	tag := Tag(c.ReadByte())

	switch ShapeOf(tag) {
	case ShapeNatOnly:
		c.ReadNat()
		return out
	case ShapeASTOnly:
		return appendScannedNode(out, c, arena)
	case ShapeNatThenAST:
		c.ReadNat()
		return appendScannedNode(out, c, arena)
	case ShapeLengthPrefixed:
		nodeEnd := c.ReadEnd()
		if tag == TagTEMPLATE {
			// Member defs inside a template are recorded at the
			// enclosing level: recurse into the template body but
			// splice member nodes into `out` directly instead of
			// nesting them under a TEMPLATE node.
			inner := scanTemplateBody(c, nodeEnd, arena)
			out = append(out, inner...)
			c.Goto(nodeEnd)
			return out
		}
		if IsMemberTag(tag) {
			// Every member shape (VALDEF/DEFDEF/TYPEDEF/TYPEPARAM/PARAM)
			// starts its body with a name ref, which is not itself a
			// tag-prefixed node; skip it so forkFrom — used lazily by
			// Children() to find nested members (a method's type/value
			// params, a class's template members) — lands on genuinely
			// tag-prefixed content.
			c.ReadNat()
			node := arena.alloc()
			*node = OwnerTree{addr: start, tag: tag, end: nodeEnd, forkFrom: c.Fork(), arena: arena}
			c.Goto(nodeEnd)
			return append(out, node)
		}
		// Non-member length-prefixed node (PACKAGE, BLOCK, ...): recurse
		// without recording, so forward references inside still resolve
		// to whatever the caller recorded around this node.
		sub := scanChildren(c, nodeEnd, arena)
		c.Goto(nodeEnd)
		return append(out, sub...)
	default:
		return out
	}
}

// scanTemplateBody scans a TEMPLATE's body. Member defs found directly
// inside (VALDEF/DEFDEF/TYPEDEF/TYPEPARAM/PARAM) are returned for
// splicing into the enclosing class's child list; nested non-member
// statements keep their own recorded member descendants via the normal
// recursive scan.
func scanTemplateBody(c *Cursor, end Addr, arena *ownerTreeArena) []*OwnerTree {
	var out []*OwnerTree
	for c.CurrentAddr() < end {
		out = appendScannedNode(out, c, arena)
	}
	return out
}

// ScanTree builds the top-level OwnerTree covering [start, end) of c,
// without yet descending into any child (the lazy-children contract).
func ScanTree(c *Cursor, start, end Addr, arena *ownerTreeArena) *OwnerTree {
	root := arena.alloc()
	*root = OwnerTree{addr: start, tag: 0, end: end, forkFrom: c.SubReader(start, end), arena: arena}
	return root
}
