package tasty

// ReadType is the type-grammar reader (§4.6.6). It is tag-driven: each
// category below corresponds to one of the spec's groupings. After
// ReadType returns for a length-tagged type, the cursor is exactly at
// that type's end (§4.6.6 invariant).
func (u *TreeUnpickler) ReadType(ctx *Context, c *Cursor) Type {
	tag := Tag(c.ReadByte())
	tf := ctx.Env().Types

	switch tag {
	case TagTYPEREFdirect, TagTERMREFdirect:
		sym := u.SymbolAt(Addr(c.ReadNat()))
		if tag == TagTYPEREFdirect {
			return tf.TypeRef(tf.NoType(), sym)
		}
		return tf.TermRef(tf.NoType(), sym)

	case TagTYPEREFsymbol, TagTERMREFsymbol:
		sym := u.SymbolAt(Addr(c.ReadNat()))
		prefix := u.ReadType(ctx, c)
		if tag == TagTYPEREFsymbol {
			return tf.TypeRef(prefix, sym)
		}
		return tf.TermRef(prefix, sym)

	case TagTYPEREFpkg, TagTERMREFpkg:
		name := u.Names.Resolve(NameRef(c.ReadNat()))
		pkg := ctx.Env().Mirror.GetPackage(name)
		if tag == TagTYPEREFpkg {
			return tf.TypeRef(tf.NoType(), pkg)
		}
		return tf.TermRef(tf.NoType(), pkg)

	case TagTYPEREF, TagTERMREF:
		name := u.Names.Resolve(NameRef(c.ReadNat()))
		prefix := u.ReadType(ctx, c)
		sym := u.lookupNamedMember(ctx, prefix, name)
		if tag == TagTYPEREF {
			return tf.TypeRef(prefix, sym)
		}
		return tf.TermRef(prefix, sym)

	case TagSELECTin:
		name := u.Names.Resolve(NameRef(c.ReadNat()))
		space := u.ReadType(ctx, c)
		prefix := u.ReadType(ctx, c)
		sym := u.lookupNamedMemberInSpace(ctx, prefix, name, space)
		return tf.TermRef(prefix, sym)

	case TagTHIS:
		underlying := u.ReadType(ctx, c)
		return tf.ThisType(u.typeSymbol(ctx, underlying))

	case TagSUPERtype:
		this := u.ReadType(ctx, c)
		mixin := u.ReadType(ctx, c)
		return tf.SuperType(this, mixin)

	case TagSHAREDtype:
		addr := Addr(c.ReadNat())
		if t, ok := u.typeAtAddr[addr]; ok {
			return t
		}
		saved := c.Fork()
		saved.Goto(addr)
		t := u.ReadType(ctx, saved)
		u.typeAtAddr[addr] = t
		return t

	case TagRECtype:
		start := c.CurrentAddr() - 1
		return tf.RecType(func(self Type) Type {
			u.typeAtAddr[start] = self
			recCtx := ctx.WithOwner(ctx.Owner())
			return u.ReadType(recCtx, c)
		})

	case TagREFINEDtype:
		end := c.ReadEnd()
		parent := u.ReadType(ctx, c)
		name := u.Names.Resolve(NameRef(c.ReadNat()))
		memberType := u.ReadType(ctx, c)
		c.AssertAtEnd(end, "REFINEDtype")
		return tf.RefinedType(parent, name, memberType)

	case TagAPPLIEDtype:
		end := c.ReadEnd()
		tycon := u.ReadType(ctx, c)
		var args []Type
		for c.CurrentAddr() < end {
			args = append(args, u.ReadType(ctx, c))
		}
		c.AssertAtEnd(end, "APPLIEDtype")
		return tf.AppliedType(tycon, args)

	case TagTYPEBOUNDS:
		return u.readTypeBounds(ctx, c)

	case TagANDtype:
		end := c.ReadEnd()
		lhs := u.ReadType(ctx, c)
		rhs := u.ReadType(ctx, c)
		c.AssertAtEnd(end, "ANDtype")
		return tf.AndType(lhs, rhs)

	case TagANNOTATEDtype:
		end := c.ReadEnd()
		underlying := u.ReadType(ctx, c)
		annotStart := c.CurrentAddr()
		c.Goto(end)
		thunk := func() (Term, error) { return u.readAnnotationTerm(ctx, annotStart) }
		return tf.AnnotatedType(underlying, thunk)

	case TagBYNAMEtype:
		return tf.ByNameType(u.ReadType(ctx, c))

	case TagPOLYtype, TagMETHODtype, TagIMPLICITMETHODtype, TagGIVENMETHODtype, TagTYPELAMBDAtype:
		return u.readMethodic(ctx, c, tag)

	case TagPARAMtype:
		end := c.ReadEnd()
		binderAddr := Addr(c.ReadNat())
		n := int(c.ReadNat())
		c.AssertAtEnd(end, "PARAMtype")
		binder, ok := u.typeAtAddr[binderAddr]
		if !ok {
			typeErrorf("PARAMtype refers to unresolved binder at %v", binderAddr)
		}
		return tf.ParamRef(binder, n)

	case TagORtype:
		unsupported(ctx, "union type")
		return nil

	case TagMATCHtype:
		unsupported(ctx, "match type")
		return nil

	default:
		typeErrorf("unexpected type tag %d at %v", tag, c.CurrentAddr())
		return nil
	}
}

// readTypeBounds reads TYPEBOUNDS(lo, [hi]); absent hi means an alias
// (§4.6.6). No trailing variance stream is read: anything after hi fails
// the end assertion. Bounds whose lo and hi are the same type are not
// collapsed to an alias.
func (u *TreeUnpickler) readTypeBounds(ctx *Context, c *Cursor) Type {
	end := c.ReadEnd()
	lo := u.ReadType(ctx, c)
	if c.CurrentAddr() >= end {
		// No hi: this is an alias, not real bounds.
		c.AssertAtEnd(end, "TYPEBOUNDS alias")
		return lo
	}
	hi := u.ReadType(ctx, c)
	c.AssertAtEnd(end, "TYPEBOUNDS")
	return ctx.Env().Types.TypeBounds(lo, hi)
}

// readMethodic implements the shared interleave-then-populate pattern for
// POLYtype/METHODtype/IMPLICITMETHODtype/GIVENMETHODtype/TYPELAMBDAtype
// (§4.6.6): interleave (name, info) pairs to end, forward-declare the
// lambda into typeAtAddr, then populate.
func (u *TreeUnpickler) readMethodic(ctx *Context, c *Cursor, tag Tag) Type {
	start := c.CurrentAddr() - 1
	end := c.ReadEnd()

	var names []*Name
	var infoAddrs []Addr
	for c.CurrentAddr() < end {
		names = append(names, u.Names.Resolve(NameRef(c.ReadNat())))
		infoAddrs = append(infoAddrs, c.CurrentAddr())
		skipType(c)
	}

	tf := ctx.Env().Types
	switch tag {
	case TagTYPELAMBDAtype:
		bodyAddr := infoAddrs[len(infoAddrs)-1] // placeholder, replaced below
		_ = bodyAddr
	}

	readInfosAndBody := func() ([]Type, Type) {
		infos := make([]Type, len(names))
		forked := c.Fork()
		for i, a := range infoAddrs {
			forked.Goto(a)
			infos[i] = u.ReadType(ctx, forked)
		}
		forked.Goto(end)
		var body Type
		if forked.CurrentAddr() < end {
			body = u.ReadType(ctx, forked)
		} else {
			body = tf.NoType()
		}
		return infos, body
	}

	switch tag {
	case TagPOLYtype:
		bounds, res := readInfosAndBody()
		c.Goto(end)
		return tf.PolyType(names, bounds, res)
	case TagTYPELAMBDAtype:
		bounds, body := readInfosAndBody()
		c.Goto(end)
		u.typeAtAddr[start] = nil // forward declaration slot, see below
		result := tf.TypeLambda(names, make([]Variance, len(names)), bounds, body)
		u.typeAtAddr[start] = result
		return result
	default:
		paramTypes, res := readInfosAndBody()
		c.Goto(end)
		implicit := tag == TagIMPLICITMETHODtype
		given := tag == TagGIVENMETHODtype
		if len(paramTypes) == 0 {
			return tf.NullaryMethodType(res)
		}
		return tf.MethodType(names, paramTypes, res, implicit, given, false)
	}
}

// typeSymbol extracts the symbol a THIS-type's underlying type projects to.
// The underlying type is always some TypeRef/TermRef whose Symbol the host
// can recover; since Type is opaque we rely on the host implementing the
// optional Sym() Symbol capability, falling back to NoSymbol.
func (u *TreeUnpickler) typeSymbol(ctx *Context, t Type) Symbol {
	if sw, ok := t.(interface{ Sym() Symbol }); ok {
		return sw.Sym()
	}
	return NoSymbol
}

func (u *TreeUnpickler) lookupNamedMember(ctx *Context, prefix Type, name *Name) Symbol {
	return u.namedMemberOfPrefix(ctx, prefix, name, nil)
}

func (u *TreeUnpickler) lookupNamedMemberInSpace(ctx *Context, prefix Type, name *Name, space Type) Symbol {
	return u.namedMemberOfPrefix(ctx, prefix, name, space)
}

// namedMemberOfPrefix resolves `name` as a member of `prefix`'s type,
// retrying with the host-escaped form on miss (§4.6.7's "named member of
// prefix" lookup, reused here for TYPEREF/TERMREF resolution). `space`
// (passed for the "...in"-qualified wire variants) is not consulted: the
// lookup is by name only, so overloaded members are not disambiguated.
func (u *TreeUnpickler) namedMemberOfPrefix(ctx *Context, prefix Type, name *Name, space Type) Symbol {
	if lookup, ok := prefix.(interface{ Member(*Name) Symbol }); ok {
		if sym := lookup.Member(name); sym != nil {
			return sym
		}
	}
	escaped := HostIdentEncoder{Escaper: ctx.Env().Escaper}.Encode(name)
	if lookup, ok := prefix.(interface{ Member(*Name) Symbol }); ok {
		return lookup.Member(Simple(escaped))
	}
	return NoSymbol
}
