package tasty

// createMemberSymbol allocates the symbol shell for one member definition
// during the indexing pass (§4.6.2, §4.6.3): it reads just enough of the
// definition — its name and, for a constructor's own TYPEPARAM, a lookup
// against the enclosing class's already-existing type parameter, or for
// any other top-level definition a check against the compilation unit's
// pre-allocated roots — to call exactly one SymbolFactory method (or none,
// when an existing symbol is adopted instead), then leaves the body
// untouched for the completion pass. owner is resolved from the OwnerTree,
// never passed down explicitly.
func (u *TreeUnpickler) createMemberSymbol(ctx *Context, node *OwnerTree) Symbol {
	c := node.forkFrom.Fork()
	c.Goto(node.Addr())
	tag := Tag(c.ReadByte())
	end := c.ReadEnd()
	nameRef := NameRef(c.ReadNat())
	name := u.Names.Resolve(nameRef)

	owner := u.ownerOf(ctx, node)
	env := ctx.Env()

	switch tag {
	case TagVALDEF:
		if name.Equal(Simple("<init>")) {
			sym := env.Symbols.NewConstructor(owner, 0)
			u.symAtAddr[node.Addr()] = sym
			_ = end
			return sym
		}
		flags := u.peekFlags(c, end, tag, KindValDef, owner)
		u.flagsAtAddr[node.Addr()] = flags
		if flags.Has(Module) {
			if matched := u.rootMatch(ctx, owner, name); matched != nil {
				u.symAtAddr[node.Addr()] = matched
				u.moduleClassAtAddr[node.Addr()] = matched
				u.logDecision("root-match module %q -> existing symbol", name.String())
				return matched
			}
			termSym, classSym := env.Symbols.NewModule(owner, name, flags)
			u.symAtAddr[node.Addr()] = termSym
			u.moduleClassAtAddr[node.Addr()] = classSym
			return termSym
		}
		sym := env.Symbols.NewMethod(owner, name, flags, u.privateWithinOf(ctx, c, end))
		u.symAtAddr[node.Addr()] = sym
		return sym

	case TagDEFDEF:
		if name.Equal(Simple("<init>")) {
			flags := u.peekFlags(c, end, tag, KindConstructor, owner)
			u.flagsAtAddr[node.Addr()] = flags
			sym := env.Symbols.NewConstructor(owner, flags)
			u.symAtAddr[node.Addr()] = sym
			return sym
		}
		flags := u.peekFlags(c, end, tag, KindMethod, owner)
		u.flagsAtAddr[node.Addr()] = flags
		sym := env.Symbols.NewMethod(owner, name, flags, u.privateWithinOf(ctx, c, end))
		u.symAtAddr[node.Addr()] = sym
		return sym

	case TagTYPEDEF:
		flags := u.peekFlags(c, end, tag, KindTypeDef, owner)
		u.flagsAtAddr[node.Addr()] = flags
		if flags.Has(Module) {
			if matched := u.rootMatch(ctx, owner, TypeName(name)); matched != nil {
				u.symAtAddr[node.Addr()] = matched
				u.logDecision("root-match module class %q -> existing symbol", name.String())
				return matched
			}
			_, classSym := env.Symbols.NewModule(owner, name, flags)
			u.symAtAddr[node.Addr()] = classSym
			return classSym
		}
		if looksLikeTemplate(c, end) {
			if matched := u.rootMatch(ctx, owner, name); matched != nil {
				u.symAtAddr[node.Addr()] = matched
				u.logDecision("root-match class %q -> existing symbol", name.String())
				return matched
			}
			sym := env.Symbols.NewClass(owner, name, flags, u.privateWithinOf(ctx, c, end))
			u.symAtAddr[node.Addr()] = sym
			return sym
		}
		sym := env.Symbols.NewTypeSymbol(owner, name, flags, u.privateWithinOf(ctx, c, end))
		u.symAtAddr[node.Addr()] = sym
		return sym

	case TagTYPEPARAM:
		if u.isConstructor(owner) {
			if existing := u.typeParamNamed(u.ownerOwnerOf(node), name); existing != nil {
				u.symAtAddr[node.Addr()] = existing
				u.logDecision("constructor type-param %q aliases owner's existing symbol", name.String())
				return existing
			}
		}
		flags := u.peekFlags(c, end, tag, KindTypeParam, owner)
		u.flagsAtAddr[node.Addr()] = flags
		sym := env.Symbols.NewTypeParam(owner, name, flags)
		u.symAtAddr[node.Addr()] = sym
		return sym

	case TagPARAM:
		flags := u.peekFlags(c, end, tag, KindParam, owner)
		u.flagsAtAddr[node.Addr()] = flags
		sym := env.Symbols.NewValueParam(owner, name, flags)
		u.symAtAddr[node.Addr()] = sym
		return sym

	default:
		typeErrorf("createMemberSymbol: unexpected tag %d", tag)
		return nil
	}
}

// rootMatch implements §4.6.3's "root match" rule: a definition directly
// owned by the compilation unit's entry owner, whose name equals one of
// the framer-assigned roots (adjusting for module-class vs source-module
// by also trying the type-kind name), completes that pre-allocated root
// symbol instead of minting a new one.
func (u *TreeUnpickler) rootMatch(ctx *Context, owner Symbol, name *Name) Symbol {
	if owner != ctx.Owner() {
		return nil
	}
	for _, root := range u.roots {
		if root == nil {
			continue
		}
		rootName := nameOf(root)
		if name.Equal(rootName) || name.Equal(TypeName(rootName)) {
			return root
		}
	}
	return nil
}

// enclosingNode returns the owner-tree node that encloses the definition
// starting at addr (FindOwner would return that definition's own node), or
// nil when the definition is top-level or no owner tree has been built.
func (u *TreeUnpickler) enclosingNode(addr Addr) *OwnerTree {
	var enclosing *OwnerTree
	for t := u.topOwnerTree; t != nil; {
		var next *OwnerTree
		for _, child := range t.Children() {
			if child.addr <= addr && addr < child.end {
				next = child
				break
			}
		}
		if next == nil || next.addr == addr {
			break
		}
		enclosing, t = next, next
	}
	return enclosing
}

// ownerOwnerOf returns the symbol owning node's owner, i.e. the owner
// two levels up the owner tree. Used for the constructor-type-param alias
// rule, which needs the class enclosing the constructor rather than the
// constructor itself.
func (u *TreeUnpickler) ownerOwnerOf(node *OwnerTree) Symbol {
	ownerNode := u.enclosingNode(node.Addr())
	if ownerNode == nil {
		return nil
	}
	grandNode := u.enclosingNode(ownerNode.Addr())
	if grandNode == nil {
		return nil
	}
	if sym, ok := u.symAtAddr[grandNode.Addr()]; ok {
		return sym
	}
	return nil
}

func (u *TreeUnpickler) isConstructor(owner Symbol) bool {
	if k, ok := owner.(interface{ IsConstructor() bool }); ok {
		return k.IsConstructor()
	}
	return false
}

func (u *TreeUnpickler) typeParamNamed(owner Symbol, name *Name) Symbol {
	if k, ok := owner.(interface{ TypeParamNamed(name *Name) Symbol }); ok {
		return k.TypeParamNamed(name)
	}
	return nil
}

// peekFlags re-scans a definition's modifier section without consuming the
// caller's cursor: skip any TYPEPARAM/PARAM children, the declared
// type/bounds, then an RHS if one is present (skipType skips any single
// tree node regardless of whether it's a type or a term, since both share
// the same wire-shape vocabulary), then read and normalize the modifiers
// that remain. This gives the shell symbol its final flag set up front
// rather than a provisional one that must be patched later.
func (u *TreeUnpickler) peekFlags(c *Cursor, end Addr, tag Tag, kind Kind, owner Symbol) FlagSet {
	forked := c.Fork()
	for forked.CurrentAddr() < end {
		if next := Tag(forked.NextByte()); next != TagTYPEPARAM && next != TagPARAM {
			break
		}
		skipType(forked)
	}
	skipType(forked)

	hasRHS := false
	if forked.CurrentAddr() < end {
		next := Tag(forked.NextByte())
		if !IsModifierTag(next) && next != TagANNOTATION {
			hasRHS = true
			skipType(forked)
		}
	}

	mods := readModifiers(forked, end, u.env.Options.NoAnnotations)
	in := NormalizeInput{
		Tag:          tag,
		Kind:         kind,
		HasRHS:       hasRHS,
		OwnerIsClass: u.ownerIsClass(owner),
		OwnerIsTrait: u.ownerIsTrait(owner),
	}
	return NormalizeFlags(in, mods.Host)
}

// looksLikeTemplate reports whether the definition body starting at c (the
// cursor positioned right after a TYPEDEF's name, unconsumed) is a class
// body: on the wire a class/trait/object TYPEDEF's body is exactly one
// TEMPLATE node, while a type alias or abstract type's body is a type or
// TYPEBOUNDS node, so checking the immediate next tag is sufficient.
func looksLikeTemplate(c *Cursor, end Addr) bool {
	if c.CurrentAddr() >= end {
		return false
	}
	return Tag(c.NextByte()) == TagTEMPLATE
}

func (u *TreeUnpickler) ownerOf(ctx *Context, node *OwnerTree) Symbol {
	if owner := u.enclosingNode(node.Addr()); owner != nil {
		if sym, ok := u.symAtAddr[owner.Addr()]; ok {
			if cls, ok := u.moduleClassAtAddr[owner.Addr()]; ok {
				return cls
			}
			return sym
		}
	}
	return ctx.ClassRoot()
}

func (u *TreeUnpickler) ownerIsClass(owner Symbol) bool {
	if k, ok := owner.(interface{ IsClass() bool }); ok {
		return k.IsClass()
	}
	return false
}

func (u *TreeUnpickler) ownerIsTrait(owner Symbol) bool {
	if k, ok := owner.(interface{ IsTrait() bool }); ok {
		return k.IsTrait()
	}
	return false
}

func (u *TreeUnpickler) privateWithinOf(ctx *Context, c *Cursor, end Addr) Symbol {
	forked := c.Fork()
	for forked.CurrentAddr() < end && !IsModifierTag(Tag(forked.NextByte())) && Tag(forked.NextByte()) != TagANNOTATION {
		skipType(forked) // params, declared type and RHS precede the modifiers
	}
	mods := readModifiers(forked, end, u.env.Options.NoAnnotations)
	if !mods.PrivateWithin.IsDefined() {
		return NoSymbol
	}
	typeCursor := c.Fork()
	typeCursor.Goto(mods.PrivateWithin)
	tpe := u.ReadType(ctx, typeCursor)
	return u.typeSymbol(ctx, tpe)
}

// isMethodicTypeTag reports whether tag opens one of the wire shapes
// readMethodic dispatches on; used to detect a VALDEF whose declared type
// is itself method-shaped (§4.6.4 "method-shaped" case) before ReadType
// has resolved it down to an opaque Type we can no longer inspect.
func isMethodicTypeTag(tag Tag) bool {
	switch tag {
	case TagPOLYtype, TagMETHODtype, TagIMPLICITMETHODtype, TagGIVENMETHODtype:
		return true
	}
	return false
}

// objectClassName builds the fully-qualified name "java.lang.Object" used
// to recognize the dialect's universal root class for the Template parent
// rewrite (§4.6.5 step 3).
func objectClassName() *Name {
	java := Simple("java")
	lang := Simple("lang")
	dot := Simple(".")
	return Qualified(Qualified(java, dot, lang), dot, Simple("Object"))
}

// anyValClassName builds "scala.AnyVal", the dialect's value-class root
// (§4.6.5: "Value class: first parent is the language's value-class root").
func anyValClassName() *Name {
	return Qualified(Simple("scala"), Simple("."), Simple("AnyVal"))
}

// ReadNewMember performs the completion pass for one member (§4.6.3–5): it
// re-reads the full subtree starting at the node already indexed by
// createMemberSymbol, this time building the member's info, attaching
// annotations, and for TYPEDEFs wrapping a TEMPLATE recursing into
// ReadTemplate. The cycle guard wraps this call, not the caller. It
// returns both the symbol and its computed info so callers building a
// parent structure (ReadTemplate's member loop, extension-method
// synthesis) never need a capability to read a symbol's info back.
func (u *TreeUnpickler) ReadNewMember(ctx *Context, c *Cursor, owner Symbol) (Symbol, Type) {
	start := c.CurrentAddr()
	if _, inProgress := u.cycleAtAddr[start]; inProgress {
		panic(&CyclicReferenceError{Addr: start})
	}
	u.cycleAtAddr[start] = struct{}{}
	u.completedAtAddr[start] = struct{}{}
	defer delete(u.cycleAtAddr, start)

	tag := Tag(c.ReadByte())
	end := c.ReadEnd()
	name := u.Names.Resolve(NameRef(c.ReadNat()))
	sym := u.symAtAddr[start]
	if sym == nil {
		sym = owner
	}
	memberCtx := ctx.WithOwner(sym)
	env := ctx.Env()
	tf := env.Types
	flags := u.flagsAtAddr[start]
	defer func() {
		if r := recover(); r != nil {
			// A failed completion leaves sym with an error-type info before
			// the panic continues to the recovery boundary.
			env.Symbols.SetInfo(sym, tf.ErrorType())
			panic(r)
		}
	}()

	u.logDecision("complete %v %q", tag, name.String())

	switch tag {
	case TagTYPEPARAM:
		bound := u.ReadType(memberCtx, c)
		u.attachAnnotations(memberCtx, c, end)
		c.Goto(end)
		env.Symbols.SetInfo(sym, bound)
		return sym, bound

	case TagPARAM:
		tpe := u.ReadType(memberCtx, c)
		hasRHS := c.CurrentAddr() < end && !IsModifierTag(Tag(c.NextByte())) && Tag(c.NextByte()) != TagANNOTATION
		if hasRHS {
			u.ReadTerm(memberCtx, c)
		}
		u.attachAnnotations(memberCtx, c, end)
		c.Goto(end)
		info := tpe
		if hasRHS || flags.Has(ParamAccessor) {
			info = tf.NullaryMethodType(tpe)
		}
		env.Symbols.SetInfo(sym, info)
		return sym, info

	case TagVALDEF:
		methodShaped := c.CurrentAddr() < end && isMethodicTypeTag(Tag(c.NextByte()))
		tpe := u.ReadType(memberCtx, c)
		hasRHS := c.CurrentAddr() < end && !IsModifierTag(Tag(c.NextByte())) && Tag(c.NextByte()) != TagANNOTATION
		if hasRHS {
			u.ReadTerm(memberCtx, c)
		}
		u.attachAnnotations(memberCtx, c, end)
		c.Goto(end)
		var info Type
		switch {
		case flags.Has(Enum):
			info = tf.ConstantType(name.String(), sym)
		case methodShaped:
			info = tf.NullaryMethodType(tpe)
		default:
			info = tpe
		}
		env.Symbols.SetInfo(sym, info)
		return sym, info

	case TagDEFDEF:
		isCtor := name.Equal(Simple("<init>"))

		var tparamNames []*Name
		var tparamBounds []Type
		var tparamSyms []Symbol
		for c.CurrentAddr() < end && Tag(c.NextByte()) == TagTYPEPARAM {
			tpSym, tpBound := u.ReadNewMember(memberCtx, c, sym)
			tparamNames = append(tparamNames, nameOf(tpSym))
			tparamBounds = append(tparamBounds, tpBound)
			tparamSyms = append(tparamSyms, tpSym)
		}

		var paramNames []*Name
		var paramTypes []Type
		var allParamFlags FlagSet
		var firstParamFlags FlagSet
		haveFirstParamFlags := false
		for c.CurrentAddr() < end && Tag(c.NextByte()) == TagPARAM {
			addr := c.CurrentAddr()
			pSym, pType := u.ReadNewMember(memberCtx, c, sym)
			paramNames = append(paramNames, nameOf(pSym))
			paramTypes = append(paramTypes, pType)
			pFlags := u.flagsAtAddr[addr]
			if !haveFirstParamFlags {
				firstParamFlags = pFlags
				haveFirstParamFlags = true
			}
			allParamFlags |= pFlags
		}

		wireResTpe := u.ReadType(memberCtx, c)
		hasRHS := c.CurrentAddr() < end && !IsModifierTag(Tag(c.NextByte())) && Tag(c.NextByte()) != TagANNOTATION
		if hasRHS {
			u.ReadTerm(memberCtx, c)
		}
		u.attachAnnotations(memberCtx, c, end)
		c.Goto(end)

		resTpe := wireResTpe
		if isCtor {
			// Constructors don't declare their own result: it is always a
			// type-ref to the enclosing class, applied over its (aliased)
			// type parameters (§4.6.4 "for constructors, replace the result
			// type with a type-ref to the enclosing class over its type
			// parameters").
			clsRef := tf.TypeRef(tf.NoType(), owner)
			if len(tparamSyms) > 0 {
				targs := make([]Type, len(tparamSyms))
				for i, tp := range tparamSyms {
					targs[i] = tf.TypeRef(tf.NoType(), tp)
				}
				resTpe = tf.AppliedType(clsRef, targs)
			} else {
				resTpe = clsRef
			}
		}

		var info Type
		if len(paramTypes) == 0 {
			info = tf.NullaryMethodType(resTpe)
		} else {
			info = tf.MethodType(paramNames, paramTypes, resTpe,
				allParamFlags.Has(Implicit), allParamFlags.Has(Given), allParamFlags.Has(Erased))
		}
		if isCtor && haveFirstParamFlags && firstParamFlags.Has(Implicit) {
			// Normalize-if-constructor: prepend an empty, non-implicit
			// parameter list so the constructor always has at least one
			// directly-applicable clause.
			info = tf.MethodType(nil, nil, info, false, false, false)
		}
		if len(tparamNames) > 0 {
			info = tf.PolyType(tparamNames, tparamBounds, info)
		}
		env.Symbols.SetInfo(sym, info)
		return sym, info

	case TagTYPEDEF:
		var info Type
		if c.CurrentAddr() < end && Tag(c.NextByte()) == TagTEMPLATE {
			u.ReadTemplate(memberCtx, c, sym)
		} else {
			tpe := u.ReadType(memberCtx, c)
			info = tpe
			env.Symbols.SetInfo(sym, info)
		}
		u.attachAnnotations(memberCtx, c, end)
		c.Goto(end)
		return sym, info

	default:
		typeErrorf("ReadNewMember: unexpected tag %d", tag)
		return nil, nil
	}
}

// attachAnnotations re-reads any ANNOTATION thunks trailing a definition
// and attaches each as a lazy Term thunk to ctx's current owner via
// AddAnnotation (§4.6.3 "attach the annotation thunks"), the same deferred
// shape TypeFactory.AnnotatedType uses for type-level annotations.
func (u *TreeUnpickler) attachAnnotations(ctx *Context, c *Cursor, end Addr) {
	sym := ctx.Owner()
	for c.CurrentAddr() < end {
		tag := Tag(c.NextByte())
		if tag != TagANNOTATION {
			return
		}
		c.ReadByte()
		thunkEnd := c.ReadEnd()
		annotStart := c.CurrentAddr()
		c.Goto(thunkEnd)
		if ctx.Env().Options.NoAnnotations {
			continue
		}
		thunk := func() (Term, error) { return u.readAnnotationTerm(ctx, annotStart) }
		ctx.Env().Symbols.AddAnnotation(sym, thunk)
	}
}

// ReadTemplate reads a class/trait/object body (§4.6.5): parents, self
// type, and the constructor, then each member in one linear walk of the
// body with c, completing every member it meets through ReadNewMember. A
// parent whose type symbol is the dialect's Object class is rewritten to
// AnyRef (step 3). Value classes get the primary constructor and param
// accessors promoted to non-private, plus a synthesized extension method
// per non-constructor instance method (step 4). The finished info is a
// ClassInfoType, wrapped in a PolyType when cls has type parameters
// (step 6).
func (u *TreeUnpickler) ReadTemplate(ctx *Context, c *Cursor, cls Symbol) {
	c.ReadByte() // TagTEMPLATE, already peeked by the caller
	end := c.ReadEnd()

	env := ctx.Env()
	tf := env.Types
	classCtx := ctx.WithOwner(cls)
	decls := env.Scopes.NewScope()

	var parents []Type
	var members []Symbol
	var memberTypes []Type
	var paramAccessors []Symbol
	var tparamNames []*Name
	var tparamBounds []Type
	var primaryCtor Symbol

	for c.CurrentAddr() < end {
		next := Tag(c.NextByte())
		if IsMemberTag(next) {
			// Constructor params, type params, and ordinary members alike:
			// the indexing pass already created their shells, so this just
			// runs the completion pass and records the declaration.
			memberAddr := c.CurrentAddr()
			if _, seen := u.symAtAddr[memberAddr]; !seen {
				u.createMemberSymbol(ctx, &OwnerTree{addr: memberAddr, tag: next, forkFrom: c.Fork(), arena: u.arena})
			}
			sym, tpe := u.ReadNewMember(classCtx, c, cls)
			members = append(members, sym)
			memberTypes = append(memberTypes, tpe)
			switch next {
			case TagPARAM:
				paramAccessors = append(paramAccessors, sym)
			case TagTYPEPARAM:
				tparamNames = append(tparamNames, nameOf(sym))
				tparamBounds = append(tparamBounds, tpe)
			}
			if nameOf(sym).Equal(Simple("<init>")) {
				primaryCtor = sym
			}
			// Type parameters are never entered in the class's own scope
			// (§4.6.3: "enter the symbol in its owner's scope unless it is
			// a module class or a type parameter").
			if next != TagTYPEPARAM {
				if named, ok := sym.(interface{ Name() *Name }); ok {
					decls.EnterIfNew(sym, named.Name())
				}
			}
			continue
		}
		// Everything else at template top level is a parent-constructor
		// application term (§4.6.5); self-type declarations, when present,
		// are VALDEF-shaped and already handled by the member branch above.
		parents = append(parents, u.ReadParentFromTerm(classCtx.AddMode(ModeReadingParents), c))
	}
	c.AssertAtEnd(end, "TEMPLATE")

	if cls == nil {
		return
	}

	if objectCls := env.Mirror.GetClassIfDefined(objectClassName()); objectCls != nil && objectCls != NoSymbol {
		for i, parent := range parents {
			if u.typeSymbol(classCtx, parent) == objectCls {
				parents[i] = tf.AnyRefType()
			}
		}
	}

	isValueClass := valueClassExtensionCandidate(cls)
	if !isValueClass && len(parents) == 1 {
		if avCls := env.Mirror.GetClassIfDefined(anyValClassName()); avCls != nil && avCls != NoSymbol {
			isValueClass = u.typeSymbol(classCtx, parents[0]) == avCls
		}
	}

	if isValueClass {
		if primaryCtor != nil {
			env.Symbols.ClearPrivate(primaryCtor)
		}
		for _, p := range paramAccessors {
			env.Symbols.ClearPrivate(p)
		}
		u.synthesizeValueClassExtensions(classCtx, cls, members, memberTypes)
	}

	u.logDecision("template %s: %d parent(s), %d member(s)", nameOf(cls).String(), len(parents), len(members))

	info := tf.ClassInfoType(parents, decls, cls)
	if len(tparamNames) > 0 {
		info = tf.PolyType(tparamNames, tparamBounds, info)
	}
	env.Symbols.SetInfo(cls, info)
}

// valueClassExtensionCandidate reports whether cls is a value class whose
// instance methods need a companion extension method synthesized so calls
// on the unboxed representation still dispatch correctly (§4.6.5).
func valueClassExtensionCandidate(cls Symbol) bool {
	vc, ok := cls.(interface{ IsValueClass() bool })
	return ok && vc.IsValueClass()
}

// synthesizeValueClassExtensions creates one extension method per declared
// non-constructor instance method on a value class, grounded on the same
// "one symbol in, one related symbol out" shape as the constructor/module
// pair in NewModule.
func (u *TreeUnpickler) synthesizeValueClassExtensions(ctx *Context, cls Symbol, members []Symbol, memberTypes []Type) {
	companion := ctx.Env().Mirror.GetModuleIfDefined(nameOf(cls))
	if companion == nil || companion == NoSymbol {
		return
	}
	for i, sym := range members {
		md, ok := sym.(interface{ IsMethod() bool })
		if !ok || !md.IsMethod() {
			continue
		}
		if nameOf(sym).Equal(Simple("<init>")) {
			continue
		}
		named, ok := sym.(interface{ Name() *Name })
		if !ok {
			continue
		}
		info := extensionMethInfo(ctx.Env(), cls, sym, memberTypes[i])
		ctx.Env().Symbols.NewExtensionMethod(companion, sym, named.Name(), info)
	}
}

// extensionMethInfo builds an extension method's info: a leading value
// parameter binding the value class's own instance (typed as a this-type
// projection of cls), followed by the original method's declared info
// (§4.6.5 step 4, §8 boundary case 4).
func extensionMethInfo(env *HostEnv, cls Symbol, orig Symbol, declInfo Type) Type {
	receiver := env.Types.ThisType(cls)
	return env.Types.MethodType([]*Name{Simple("$this")}, []Type{receiver}, declInfo, false, false, false)
}

func nameOf(s Symbol) *Name {
	if named, ok := s.(interface{ Name() *Name }); ok {
		return named.Name()
	}
	return Simple("")
}
