// Package tastydump turns one unpickling run into a JSON snapshot of the
// symbols it created, for golden-file tests and cross-tool diffing. It
// never inspects a host Symbol directly (the core's opaque-handle
// boundary holds here too); instead Recorder wraps a host's
// tasty.SymbolFactory and records what it itself was asked to create.
package tastydump

import (
	"sync"

	"github.com/gaudelbinod/tastyunpickler/tasty"
)

// SymbolRecord is one entry in a Dump: everything tastydump learned about
// a symbol at the moment the host's factory created it.
type SymbolRecord struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Owner int    `json:"owner,omitempty"`
}

// Recorder wraps a tasty.SymbolFactory, forwarding every call to inner and
// recording the result. Construct one per artifact, pass it as the
// HostEnv's Symbols to tasty.NewTreeUnpickler, then pass it to Build after
// Unpickle returns.
type Recorder struct {
	inner tasty.SymbolFactory

	mu      sync.Mutex
	records []SymbolRecord
	nextID  int
	idOf    map[tasty.Symbol]int
}

// Wrap returns a Recorder delegating symbol creation to inner.
func Wrap(inner tasty.SymbolFactory) *Recorder {
	return &Recorder{inner: inner, idOf: make(map[tasty.Symbol]int)}
}

func (r *Recorder) assignID(sym tasty.Symbol) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.idOf[sym] = r.nextID
	return r.nextID
}

func (r *Recorder) ownerID(owner tasty.Symbol) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.idOf[owner]
}

func (r *Recorder) push(sym tasty.Symbol, name string, kind string, owner tasty.Symbol) {
	id := r.assignID(sym)
	rec := SymbolRecord{ID: id, Name: name, Kind: kind, Owner: r.ownerID(owner)}
	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()
}

func (r *Recorder) NewClass(owner tasty.Symbol, name *tasty.Name, flags tasty.FlagSet, privateWithin tasty.Symbol) tasty.Symbol {
	sym := r.inner.NewClass(owner, name, flags, privateWithin)
	r.push(sym, name.String(), "class", owner)
	return sym
}

func (r *Recorder) NewModule(owner tasty.Symbol, name *tasty.Name, flags tasty.FlagSet) (tasty.Symbol, tasty.Symbol) {
	term, cls := r.inner.NewModule(owner, name, flags)
	r.push(term, name.String(), "module", owner)
	r.push(cls, tasty.TypeName(name).String(), "moduleClass", owner)
	return term, cls
}

func (r *Recorder) NewMethod(owner tasty.Symbol, name *tasty.Name, flags tasty.FlagSet, privateWithin tasty.Symbol) tasty.Symbol {
	sym := r.inner.NewMethod(owner, name, flags, privateWithin)
	r.push(sym, name.String(), "method", owner)
	return sym
}

func (r *Recorder) NewTypeSymbol(owner tasty.Symbol, name *tasty.Name, flags tasty.FlagSet, privateWithin tasty.Symbol) tasty.Symbol {
	sym := r.inner.NewTypeSymbol(owner, name, flags, privateWithin)
	r.push(sym, name.String(), "type", owner)
	return sym
}

func (r *Recorder) NewValueParam(owner tasty.Symbol, name *tasty.Name, flags tasty.FlagSet) tasty.Symbol {
	sym := r.inner.NewValueParam(owner, name, flags)
	r.push(sym, name.String(), "param", owner)
	return sym
}

func (r *Recorder) NewTypeParam(owner tasty.Symbol, name *tasty.Name, flags tasty.FlagSet) tasty.Symbol {
	sym := r.inner.NewTypeParam(owner, name, flags)
	r.push(sym, name.String(), "typeparam", owner)
	return sym
}

func (r *Recorder) NewConstructor(owner tasty.Symbol, flags tasty.FlagSet) tasty.Symbol {
	sym := r.inner.NewConstructor(owner, flags)
	r.push(sym, "<init>", "ctor", owner)
	return sym
}

func (r *Recorder) NewLocalDummy(owner tasty.Symbol) tasty.Symbol {
	sym := r.inner.NewLocalDummy(owner)
	r.push(sym, "<local>", "dummy", owner)
	return sym
}

func (r *Recorder) NewRefinementClass(owner tasty.Symbol) tasty.Symbol {
	sym := r.inner.NewRefinementClass(owner)
	r.push(sym, "<refinement>", "refinement", owner)
	return sym
}

func (r *Recorder) NewExtensionMethod(companion tasty.Symbol, original tasty.Symbol, name *tasty.Name, info tasty.Type) tasty.Symbol {
	sym := r.inner.NewExtensionMethod(companion, original, name, info)
	r.push(sym, name.String(), "extension", companion)
	return sym
}

// SetInfo, ClearPrivate, and AddAnnotation carry no recordable identity of
// their own (they mutate a symbol already pushed) so they simply forward.
func (r *Recorder) SetInfo(sym tasty.Symbol, info tasty.Type) {
	r.inner.SetInfo(sym, info)
}

func (r *Recorder) ClearPrivate(sym tasty.Symbol) {
	r.inner.ClearPrivate(sym)
}

func (r *Recorder) AddAnnotation(sym tasty.Symbol, thunk func() (tasty.Term, error)) {
	r.inner.AddAnnotation(sym, thunk)
}

// Records returns a copy of every symbol recorded so far, in creation
// order.
func (r *Recorder) Records() []SymbolRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SymbolRecord, len(r.records))
	copy(out, r.records)
	return out
}
