package tasty

// TreeUnpickler is the top-level two-pass driver (§4.1, §9): one instance
// owns one artifact's cursor, name table, owner-tree index, and the
// address-keyed caches (symAtAddr, cycleAtAddr, completedAtAddr and
// typeAtAddr among them) that make the second pass idempotent and
// cycle-safe. Nothing here is safe for
// concurrent use by more than one goroutine; callers decoding many
// artifacts concurrently create one TreeUnpickler per artifact, the same
// way the teacher's Parser is one-per-tree rather than a shared singleton.
type TreeUnpickler struct {
	cursor *Cursor
	Names  *NameTable
	env    *HostEnv
	arena  *ownerTreeArena

	topOwnerTree *OwnerTree

	symAtAddr         map[Addr]Symbol
	moduleClassAtAddr map[Addr]Symbol
	cycleAtAddr       map[Addr]struct{}
	completedAtAddr   map[Addr]struct{}
	typeAtAddr        map[Addr]Type
	flagsAtAddr       map[Addr]FlagSet

	correlation *correlationSource

	// roots holds classRoot and moduleRoot (§4.6.1) for the "root match"
	// rule in createMemberSymbol: a top-level definition whose owner/name
	// match one of these completes the host's pre-allocated root symbol
	// instead of creating a new one.
	roots []Symbol
}

// IndexStats summarizes one indexing pass, surfaced for diagnostics and
// tests (§9's observability note: "report how many symbols were created
// without completing any of them").
type IndexStats struct {
	ClassesIndexed  int
	MethodsIndexed  int
	FieldsIndexed   int
	TypesIndexed    int
	ParamsIndexed   int
	PackagesVisited int
}

// NewTreeUnpickler builds the unpickler for one artifact's full byte
// buffer. names must already be populated (read from the artifact's name
// table section before tree unpickling starts, per §4.6.1).
func NewTreeUnpickler(buf []byte, names *NameTable, env *HostEnv) *TreeUnpickler {
	return &TreeUnpickler{
		cursor:            NewCursor(buf),
		Names:             names,
		env:               env,
		arena:             acquireOwnerTreeArena(),
		symAtAddr:         make(map[Addr]Symbol),
		moduleClassAtAddr: make(map[Addr]Symbol),
		cycleAtAddr:       make(map[Addr]struct{}),
		completedAtAddr:   make(map[Addr]struct{}),
		typeAtAddr:        make(map[Addr]Type),
		flagsAtAddr:       make(map[Addr]FlagSet),
		correlation:       newCorrelationSource(uint64(len(buf))),
	}
}

// Release returns the unpickler's owner-tree arena to its pool. Call once
// the unpickler (and every OwnerTree it produced) is no longer reachable.
func (u *TreeUnpickler) Release() {
	if u.arena != nil {
		u.arena.release()
		u.arena = nil
	}
}

// SymbolAt resolves a direct/shared symbol reference, asserting that the
// indexing pass already created a shell there (§4.6.2 invariant: "every
// address a TYPEREFdirect/TERMREFdirect can point to either has a shell
// already, or is the current artifact's top-level package root").
func (u *TreeUnpickler) SymbolAt(addr Addr) Symbol {
	if sym, ok := u.symAtAddr[addr]; ok {
		return sym
	}
	if addr == 0 {
		return u.env.Mirror.RootPackage()
	}
	typeErrorf("no symbol shell at %v", addr)
	return nil
}

// Unpickle runs both passes over the whole artifact body starting at
// cursor position 0 up to the declared end, entering every top-level
// definition under classRoot/moduleRoot (§4.6.1, §9's "decode one
// artifact" walkthrough). classRoot and moduleRoot are the class-root and
// module-root symbols the enclosing framer already assigned to this
// compilation unit (§6); a top-level definition whose owner/name match one
// of them completes that root rather than allocating a new symbol.
func (u *TreeUnpickler) Unpickle(classRoot, moduleRoot Symbol, source SourceFile) (stats IndexStats, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *TypeError:
				err = e
			case *CyclicReferenceError:
				err = e
			default:
				panic(r)
			}
		}
	}()

	u.roots = []Symbol{classRoot, moduleRoot}
	ctx := InitialContext(u.env, classRoot, moduleRoot, classRoot, source)

	bodyEnd := Addr(u.cursor.Len())
	u.topOwnerTree = ScanTree(u.cursor, 0, bodyEnd, u.arena)

	if bodyEnd > 0 && Tag(u.cursor.Fork().NextByte()) == TagPACKAGE {
		stats.PackagesVisited = 1
	}

	var firstErr error
	u.indexOne(ctx, u.topOwnerTree, &stats, &firstErr)
	u.completeOne(ctx, u.topOwnerTree, &firstErr)
	return stats, firstErr
}

// indexOne is the indexing pass recursion (§4.6.1): for each child in the
// owner tree, create a symbol shell according to its tag, accumulate
// IndexStats, and recurse into PACKAGE bodies and template-spliced members
// alike (Children() has already flattened templates into their owner's
// level, so a plain recursive walk sees every member exactly once).
func (u *TreeUnpickler) indexOne(ctx *Context, node *OwnerTree, stats *IndexStats, firstErr *error) {
	for _, child := range node.Children() {
		if IsMemberTag(child.Tag()) {
			u.safeIndex(ctx, child, stats, firstErr)
		}
		u.indexOne(ctx, child, stats, firstErr)
	}
}

func (u *TreeUnpickler) safeIndex(ctx *Context, node *OwnerTree, stats *IndexStats, firstErr *error) {
	defer func() {
		if r := recover(); r != nil {
			u.recordPanic(r, firstErr)
		}
	}()
	sym := u.createMemberSymbol(ctx, node)
	switch node.Tag() {
	case TagTYPEDEF:
		if _, isModuleClass := u.moduleClassAtAddr[node.Addr()]; isModuleClass {
			stats.ClassesIndexed++
		} else {
			stats.ClassesIndexed++
		}
	case TagDEFDEF:
		stats.MethodsIndexed++
	case TagVALDEF:
		stats.FieldsIndexed++
	case TagTYPEPARAM:
		stats.TypesIndexed++
	case TagPARAM:
		stats.ParamsIndexed++
	}
	_ = sym
}

// completeOne runs the completion pass over every indexed member. Each
// address is completed at most once: ReadNewMember records every address
// it starts on in completedAtAddr (so a class's completion covers its
// template members, a method's its parameters) and safeComplete skips
// recorded addresses. Walking in owner-tree order keeps diagnostic output
// stable.
//
// PACKAGE nodes are transparently flattened during owner-tree scanning the
// same way TEMPLATE bodies are (§4.5), so package-qualified ownership for
// top-level definitions is approximated by whatever classRoot/moduleRoot
// Unpickle was called with rather than threaded per nested package; a
// single artifact's own top-level package is the common case this covers.
func (u *TreeUnpickler) completeOne(ctx *Context, node *OwnerTree, firstErr *error) {
	for _, child := range node.Children() {
		if IsMemberTag(child.Tag()) {
			u.safeComplete(ctx, child, firstErr)
		}
		u.completeOne(ctx, child, firstErr)
	}
}

func (u *TreeUnpickler) safeComplete(ctx *Context, node *OwnerTree, firstErr *error) {
	defer func() {
		if r := recover(); r != nil {
			u.recordPanic(r, firstErr)
		}
	}()
	if _, done := u.completedAtAddr[node.Addr()]; done {
		return
	}
	c := node.forkFrom.Fork()
	c.Goto(node.Addr())
	owner := u.ownerOf(ctx, node)
	u.ReadNewMember(ctx.WithOwner(owner), c, owner)
}

// logDecision emits one position-less echo line through the host reporter
// when debug-tasty is enabled (§6, §2), and is a no-op otherwise so callers
// never need to guard the Options check themselves.
func (u *TreeUnpickler) logDecision(format string, args ...any) {
	if u.env == nil || !u.env.Options.DebugTasty {
		return
	}
	u.env.Reporter.Echo(format, args...)
}

// recordPanic is the shared recovery policy for both passes (§7): an
// UnsupportedFeatureError is reported and the current symbol abandoned,
// but the run continues; TypeError and CyclicReferenceError re-panic so
// Unpickle's top-level recover aborts the whole artifact.
func (u *TreeUnpickler) recordPanic(r any, firstErr *error) {
	switch e := r.(type) {
	case *UnsupportedFeatureError:
		if u.env != nil {
			u.env.Reporter.ReportUnsupported(e)
		}
		if *firstErr == nil {
			*firstErr = e
		}
	case *TypeError:
		panic(e)
	case *CyclicReferenceError:
		panic(e)
	default:
		panic(r)
	}
}
