package tasty

// TermKind discriminates the small, deliberately incomplete term algebra
// this package materializes (§4.6.7). Only the shapes a symbol table or an
// annotation argument actually needs survive; everything else raises
// UnsupportedFeatureError rather than being modeled.
type TermKind uint8

const (
	TermIdent TermKind = iota
	TermSelect
	TermApply
	TermTypeApply
	TermBlock
	TermNew
	TermLiteral
	TermThis
	TermSuper
	TermTyped
	TermRepeated
	TermNamedArg
)

// Term is the minimal term tree this package carries — far short of a full
// expression AST, just enough to describe annotation arguments, parent
// constructor applications, and the handful of term shapes that resolve to
// a type (§4.6.7, "a term sometimes needs reducing to a type").
type Term struct {
	Kind TermKind
	Tpe  Type // the term's type, once known; may be nil for untyped leaves

	Name      *Name
	Qualifier *Term
	Fun       *Term
	Args      []Term
	Stats     []Term
	Tail      *Term
	Literal   any
	Sym       Symbol
}

// ReadTerm reads one term (§4.6.7). Constructs this package does not model
// — inline if/match, closures, explicit return, TASTy holes, typed inline
// splices — raise UnsupportedFeatureError rather than being approximated.
func (u *TreeUnpickler) ReadTerm(ctx *Context, c *Cursor) Term {
	tag := Tag(c.ReadByte())
	switch tag {
	case TagIDENT:
		name := u.Names.Resolve(NameRef(c.ReadNat()))
		tpe := u.ReadType(ctx, c)
		return Term{Kind: TermIdent, Name: name, Tpe: tpe}

	case TagSELECT:
		name := u.Names.Resolve(NameRef(c.ReadNat()))
		qual := u.ReadTerm(ctx, c)
		sym := u.namedMemberOfPrefix(ctx, qual.Tpe, name, nil)
		if sym == NoSymbol {
			escaped := HostIdentEncoder{Escaper: ctx.Env().Escaper}.Encode(name)
			sym = u.namedMemberOfPrefix(ctx, qual.Tpe, Simple(escaped), nil)
		}
		return Term{Kind: TermSelect, Name: name, Qualifier: &qual, Sym: sym}

	case TagAPPLY:
		end := c.ReadEnd()
		fun := u.ReadTerm(ctx, c)
		var args []Term
		for c.CurrentAddr() < end {
			args = append(args, u.ReadTerm(ctx, c))
		}
		c.AssertAtEnd(end, "APPLY")
		return Term{Kind: TermApply, Fun: &fun, Args: args, Tpe: resultTypeOf(fun)}

	case TagTYPEAPPLY:
		end := c.ReadEnd()
		fun := u.ReadTerm(ctx, c)
		var args []Type
		for c.CurrentAddr() < end {
			args = append(args, u.ReadType(ctx, c))
		}
		c.AssertAtEnd(end, "TYPEAPPLY")
		applied := ctx.Env().Types.AppliedType(resultTypeOf(fun), args)
		return Term{Kind: TermTypeApply, Fun: &fun, Tpe: applied}

	case TagNEW:
		end := c.ReadEnd()
		tpe := u.ReadType(ctx, c)
		c.AssertAtEnd(end, "NEW")
		return Term{Kind: TermNew, Tpe: tpe}

	case TagTYPED:
		end := c.ReadEnd()
		expr := u.ReadTerm(ctx, c)
		tpe := u.ReadType(ctx, c)
		c.AssertAtEnd(end, "TYPED")
		return Term{Kind: TermTyped, Qualifier: &expr, Tpe: tpe}

	case TagBLOCK:
		end := c.ReadEnd()
		tailAddr := Addr(c.ReadNat())
		var stats []Term
		forked := c.Fork()
		for forked.CurrentAddr() < end && forked.CurrentAddr() != tailAddr {
			stats = append(stats, u.ReadTerm(ctx, forked))
		}
		forked.Goto(tailAddr)
		tail := u.ReadTerm(ctx, forked)
		c.Goto(end)
		return Term{Kind: TermBlock, Stats: stats, Tail: &tail, Tpe: tail.Tpe}

	case TagNAMEDARG:
		name := u.Names.Resolve(NameRef(c.ReadNat()))
		val := u.ReadTerm(ctx, c)
		return Term{Kind: TermNamedArg, Name: name, Tail: &val, Tpe: val.Tpe}

	case TagREPEATED:
		end := c.ReadEnd()
		elemTpe := u.ReadType(ctx, c)
		var elems []Term
		for c.CurrentAddr() < end {
			elems = append(elems, u.ReadTerm(ctx, c))
		}
		c.AssertAtEnd(end, "REPEATED")
		return Term{Kind: TermRepeated, Args: elems, Tpe: ctx.Env().Types.RepeatedType(elemTpe)}

	case TagTHIS:
		underlying := u.ReadType(ctx, c)
		return Term{Kind: TermThis, Tpe: underlying}

	case TagSUPER:
		end := c.ReadEnd()
		this := u.ReadTerm(ctx, c)
		var mixin Type
		if c.CurrentAddr() < end {
			mixin = u.ReadType(ctx, c)
		}
		c.AssertAtEnd(end, "SUPER")
		return Term{Kind: TermSuper, Qualifier: &this, Tpe: mixin}

	case TagUNITconst:
		return Term{Kind: TermLiteral, Literal: struct{}{}, Tpe: ctx.Env().Types.NoType()}
	case TagTRUEconst:
		return Term{Kind: TermLiteral, Literal: true}
	case TagFALSEconst:
		return Term{Kind: TermLiteral, Literal: false}
	case TagNULLconst:
		return Term{Kind: TermLiteral, Literal: nil}

	case TagIF:
		unsupported(ctx, "inline if")
	case TagMATCH:
		unsupported(ctx, "inline match")
	case TagLAMBDA:
		unsupported(ctx, "closure")
	case TagRETURN:
		unsupported(ctx, "explicit return")
	case TagINLINED:
		unsupported(ctx, "inlined call")
	case TagHOLE:
		unsupported(ctx, "tasty hole")
	case TagSELECTouter:
		unsupported(ctx, "outer select")
	default:
		typeErrorf("unexpected term tag %d at %v", tag, c.CurrentAddr())
	}
	panic("unreachable")
}

// ReadTpt reads a "type tree" — a term-shaped position that always reduces
// to a Type (§4.6.7): IDENTtpt/SELECTtpt name-resolve the same as their
// term counterparts, APPLY/TYPEAPPLY-shaped positions collapse to their
// result type, REFINEDtpt synthesizes a refinement class, and MATCHtpt is
// refused. There is no LAMBDAtpt case: every other tag, a type-lambda tree
// included, is read by ReadTerm and reduced to that term's type, so a tag
// ReadTerm does not accept fails there.
func (u *TreeUnpickler) ReadTpt(ctx *Context, c *Cursor) Type {
	tag := Tag(c.NextByte())
	switch tag {
	case TagIDENTtpt:
		c.ReadByte()
		_ = u.Names.Resolve(NameRef(c.ReadNat()))
		return u.ReadType(ctx, c)

	case TagSELECTtpt:
		c.ReadByte()
		name := u.Names.Resolve(NameRef(c.ReadNat()))
		qualTpe := u.ReadTpt(ctx, c)
		sym := u.namedMemberOfPrefix(ctx, qualTpe, name, nil)
		if sym == NoSymbol {
			escaped := HostIdentEncoder{Escaper: ctx.Env().Escaper}.Encode(name)
			sym = u.namedMemberOfPrefix(ctx, qualTpe, Simple(escaped), nil)
		}
		return ctx.Env().Types.TypeRef(qualTpe, sym)

	case TagSINGLETONtpt:
		c.ReadByte()
		term := u.ReadTerm(ctx, c)
		return ctx.Env().Types.SingleType(ctx.Env().Types.NoType(), term.Sym)

	case TagBYNAMEtpt:
		c.ReadByte()
		return ctx.Env().Types.ByNameType(u.ReadTpt(ctx, c))

	case TagREFINEDtpt:
		c.ReadByte()
		return u.readRefinedTpt(ctx, c)

	case TagAPPLIEDtpt:
		c.ReadByte()
		return u.readAppliedTpt(ctx, c)

	case TagTYPEBOUNDStpt:
		c.ReadByte()
		return u.readTypeBoundsTpt(ctx, c)

	case TagANNOTATEDtpt:
		c.ReadByte()
		end := c.ReadEnd()
		underlying := u.ReadTpt(ctx, c)
		annotStart := c.CurrentAddr()
		c.Goto(end)
		thunk := func() (Term, error) { return u.readAnnotationTerm(ctx, annotStart) }
		return ctx.Env().Types.AnnotatedType(underlying, thunk)

	case TagMATCHtpt:
		unsupported(ctx, "match type tree")
	default:
		// Fall back to a plain term in type position (NEW, block tail,
		// THIS, etc. already resolve to a type through ReadTerm).
		term := u.ReadTerm(ctx, c)
		return resultTypeOf(term)
	}
	panic("unreachable")
}

// readRefinedTpt synthesizes a refinement class symbol for a structural
// refinement written directly in source (as opposed to REFINEDtype, which
// already names an existing refinement).
func (u *TreeUnpickler) readRefinedTpt(ctx *Context, c *Cursor) Type {
	end := c.ReadEnd()
	parent := u.ReadTpt(ctx, c)
	refCls := ctx.Env().Symbols.NewRefinementClass(ctx.Owner())
	decls := ctx.Env().Scopes.NewScope()
	for c.CurrentAddr() < end {
		if Tag(c.NextByte()) == TagTYPEDEF {
			memberCtx := ctx.WithOwner(refCls)
			memberSym, _ := u.ReadNewMember(memberCtx, c, refCls)
			if named, ok := memberSym.(interface{ Name() *Name }); ok {
				decls.Enter(memberSym, named.Name())
			}
			continue
		}
		u.ReadTerm(ctx, c)
	}
	c.AssertAtEnd(end, "REFINEDtpt")
	classInfo := ctx.Env().Types.ClassInfoType([]Type{parent}, decls, refCls)
	ctx.Env().Symbols.SetInfo(refCls, classInfo)
	return ctx.Env().Types.TypeRef(ctx.Env().Types.NoType(), refCls)
}

func (u *TreeUnpickler) readAppliedTpt(ctx *Context, c *Cursor) Type {
	end := c.ReadEnd()
	tycon := u.ReadTpt(ctx, c)
	var args []Type
	for c.CurrentAddr() < end {
		args = append(args, u.ReadTpt(ctx, c))
	}
	c.AssertAtEnd(end, "APPLIEDtpt")
	return ctx.Env().Types.AppliedType(tycon, args)
}

func (u *TreeUnpickler) readTypeBoundsTpt(ctx *Context, c *Cursor) Type {
	end := c.ReadEnd()
	lo := u.ReadTpt(ctx, c)
	if c.CurrentAddr() >= end {
		c.AssertAtEnd(end, "TYPEBOUNDStpt alias")
		return lo
	}
	hi := u.ReadTpt(ctx, c)
	c.AssertAtEnd(end, "TYPEBOUNDStpt")
	return ctx.Env().Types.TypeBounds(lo, hi)
}

// ReadParentFromTerm reduces a parent-list entry — always written as a term
// (a constructor call, an APPLY/TYPEAPPLY chain, or occasionally a bare
// IDENT/SELECT) — down to the Type that becomes one element of a class's
// parents list (§4.6.5).
func (u *TreeUnpickler) ReadParentFromTerm(ctx *Context, c *Cursor) Type {
	term := u.ReadTerm(ctx, c)
	return resultTypeOf(term)
}

// resultTypeOf walks an Apply/TypeApply/Block chain down to the underlying
// reference type, the same reduction §4.6.7 asks for when a term appears
// where a type is expected (constructor applications, parent lists).
func resultTypeOf(t Term) Type {
	for {
		switch t.Kind {
		case TermApply, TermTypeApply:
			t = *t.Fun
		case TermBlock:
			t = *t.Tail
		case TermTyped:
			return t.Tpe
		default:
			return t.Tpe
		}
	}
}

// readAnnotationTerm re-forks the cursor to re-read a deferred annotation
// argument term on demand (§4.6.1's "annotations stay lazy thunks").
func (u *TreeUnpickler) readAnnotationTerm(ctx *Context, addr Addr) (term Term, err error) {
	defer func() {
		if r := recover(); r != nil {
			if uf, ok := r.(*UnsupportedFeatureError); ok {
				err = uf
				return
			}
			panic(r)
		}
	}()
	forked := u.cursor.Fork()
	forked.Goto(addr)
	annotCtx := ctx.AddMode(ModeReadingAnnotation)
	term = u.ReadTerm(annotCtx, forked)
	return term, nil
}
