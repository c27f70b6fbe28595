package tasty

import "strings"

// Mode is the small bit-set of traversal modes a Context frame carries
// (§4.4): "reading parents", "reading annotation", and so on.
type Mode uint8

const (
	ModeReadingParents Mode = 1 << iota
	ModeReadingAnnotation
	ModeReadingPositions
	ModeReadingTypeTree
	ModeInSuperCall
)

// Has reports whether all bits in other are set in m.
func (m Mode) Has(other Mode) bool { return m&other == other }

// Context is a cactus-stack frame: current owner, traversal mode, source
// file handle, and (only on the root frame) the class/module roots and
// the host environment. Every mutator returns a new frame; Contexts are
// cheap, immutable, and safe to share — only the symbol table they
// reference is ever mutated.
type Context struct {
	outer  *Context
	owner  Symbol
	mode   Mode
	source SourceFile

	// Root-frame-only fields.
	env        *HostEnv
	classRoot  Symbol
	moduleRoot Symbol
}

// InitialContext builds the unique root frame for one artifact.
func InitialContext(env *HostEnv, classRoot, moduleRoot Symbol, owner Symbol, source SourceFile) *Context {
	return &Context{
		env:        env,
		classRoot:  classRoot,
		moduleRoot: moduleRoot,
		owner:      owner,
		source:     source,
	}
}

// Owner returns the frame's current owner symbol.
func (c *Context) Owner() Symbol { return c.owner }

// ModeBits returns the frame's traversal mode bit-set.
func (c *Context) ModeBits() Mode { return c.mode }

// Source returns the frame's source file handle.
func (c *Context) Source() SourceFile { return c.source }

// Env walks outer links to the root frame and returns its HostEnv.
func (c *Context) Env() *HostEnv { return c.root().env }

// ClassRoot returns the compilation unit's class-root symbol.
func (c *Context) ClassRoot() Symbol { return c.root().classRoot }

// ModuleRoot returns the compilation unit's module-root symbol.
func (c *Context) ModuleRoot() Symbol { return c.root().moduleRoot }

func (c *Context) root() *Context {
	for c.outer != nil {
		c = c.outer
	}
	return c
}

// WithOwner returns a new frame with owner replaced.
func (c *Context) WithOwner(owner Symbol) *Context {
	n := *c
	n.outer = c
	n.owner = owner
	return &n
}

// WithNewScope returns a new frame whose owner is a fresh local dummy
// owned by the current owner — used when entering a block that needs its
// own (throwaway) scope without creating a real member.
func (c *Context) WithNewScope() *Context {
	dummy := c.Env().Symbols.NewLocalDummy(c.owner)
	return c.WithOwner(dummy)
}

// WithMode returns a new frame with mode replaced outright.
func (c *Context) WithMode(m Mode) *Context {
	n := *c
	n.outer = c
	n.mode = m
	return &n
}

// AddMode returns a new frame with additional mode bits set.
func (c *Context) AddMode(m Mode) *Context { return c.WithMode(c.mode | m) }

// RetractMode returns a new frame with mode bits cleared.
func (c *Context) RetractMode(m Mode) *Context { return c.WithMode(c.mode &^ m) }

// WithSource returns a new frame with the source file handle replaced.
func (c *Context) WithSource(s SourceFile) *Context {
	n := *c
	n.outer = c
	n.source = s
	return &n
}

// OwnerChainString renders the chain of owner symbols for diagnostics
// (§7: "a location computed by walking the owner chain"). Since Symbol is
// opaque, a symbol is rendered with its String method when the host symbol
// implements fmt.Stringer, and as "<symbol>" otherwise.
func (c *Context) OwnerChainString() string {
	var parts []string
	for f := c; f != nil; f = f.outer {
		if f.owner == nil {
			continue
		}
		parts = append(parts, stringifySymbol(f.owner))
		if f.outer == nil {
			break
		}
	}
	// Reverse to read outermost-first.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}

func stringifySymbol(s Symbol) string {
	if s == nil {
		return "<none>"
	}
	if str, ok := s.(interface{ String() string }); ok {
		return str.String()
	}
	return "<symbol>"
}
