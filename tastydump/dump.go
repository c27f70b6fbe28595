package tastydump

import (
	"github.com/invopop/jsonschema"
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"

	"github.com/gaudelbinod/tastyunpickler/tasty"
)

// Stats mirrors tasty.IndexStats with JSON field names, kept as its own
// type so Dump's wire shape does not change if the core's internal stats
// struct grows fields tastydump has no use for.
type Stats struct {
	ClassesIndexed  int `json:"classesIndexed"`
	MethodsIndexed  int `json:"methodsIndexed"`
	FieldsIndexed   int `json:"fieldsIndexed"`
	TypesIndexed    int `json:"typesIndexed"`
	ParamsIndexed   int `json:"paramsIndexed"`
	PackagesVisited int `json:"packagesVisited"`
}

func statsOf(s tasty.IndexStats) Stats {
	return Stats{
		ClassesIndexed:  s.ClassesIndexed,
		MethodsIndexed:  s.MethodsIndexed,
		FieldsIndexed:   s.FieldsIndexed,
		TypesIndexed:    s.TypesIndexed,
		ParamsIndexed:   s.ParamsIndexed,
		PackagesVisited: s.PackagesVisited,
	}
}

// Dump is one artifact's full snapshot: every symbol the recorder saw
// created, in creation order, plus the indexing pass's summary counts.
type Dump struct {
	Artifact string         `json:"artifact"`
	Symbols  []SymbolRecord `json:"symbols"`
	Stats    Stats          `json:"stats"`
}

// Build assembles a Dump from a Recorder that was wired into the
// unpickler that produced stats.
func Build(artifact string, r *Recorder, stats tasty.IndexStats) Dump {
	return Dump{Artifact: artifact, Symbols: r.Records(), Stats: statsOf(stats)}
}

// MarshalEasyJSON writes d without going through reflection, the hot path
// for batch dumps over many artifacts.
func (d Dump) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawByte('{')
	w.RawString(`"artifact":`)
	w.String(d.Artifact)
	w.RawString(`,"symbols":[`)
	for i, s := range d.Symbols {
		if i > 0 {
			w.RawByte(',')
		}
		w.RawByte('{')
		w.RawString(`"id":`)
		w.Int(s.ID)
		w.RawString(`,"name":`)
		w.String(s.Name)
		w.RawString(`,"kind":`)
		w.String(s.Kind)
		if s.Owner != 0 {
			w.RawString(`,"owner":`)
			w.Int(s.Owner)
		}
		w.RawByte('}')
	}
	w.RawString(`],"stats":{`)
	w.RawString(`"classesIndexed":`)
	w.Int(d.Stats.ClassesIndexed)
	w.RawString(`,"methodsIndexed":`)
	w.Int(d.Stats.MethodsIndexed)
	w.RawString(`,"fieldsIndexed":`)
	w.Int(d.Stats.FieldsIndexed)
	w.RawString(`,"typesIndexed":`)
	w.Int(d.Stats.TypesIndexed)
	w.RawString(`,"paramsIndexed":`)
	w.Int(d.Stats.ParamsIndexed)
	w.RawString(`,"packagesVisited":`)
	w.Int(d.Stats.PackagesVisited)
	w.RawString(`}}`)
}

// MarshalJSON adapts MarshalEasyJSON to the standard library's interface
// so a Dump can be embedded in ordinary json.Marshal calls.
func (d Dump) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	d.MarshalEasyJSON(&w)
	return w.BuildBytes()
}

// UnmarshalEasyJSON reads a Dump back, used by golden-file tests that
// round-trip a previously written snapshot.
func (d *Dump) UnmarshalEasyJSON(l *jlexer.Lexer) {
	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.UnsafeFieldName(false)
		l.WantColon()
		switch key {
		case "artifact":
			d.Artifact = l.String()
		case "symbols":
			if l.IsNull() {
				l.Skip()
			} else {
				l.Delim('[')
				for !l.IsDelim(']') {
					var s SymbolRecord
					l.Delim('{')
					for !l.IsDelim('}') {
						fk := l.UnsafeFieldName(false)
						l.WantColon()
						switch fk {
						case "id":
							s.ID = l.Int()
						case "name":
							s.Name = l.String()
						case "kind":
							s.Kind = l.String()
						case "owner":
							s.Owner = l.Int()
						default:
							l.SkipRecursive()
						}
						l.WantComma()
					}
					l.Delim('}')
					d.Symbols = append(d.Symbols, s)
					l.WantComma()
				}
				l.Delim(']')
			}
		case "stats":
			l.Delim('{')
			for !l.IsDelim('}') {
				fk := l.UnsafeFieldName(false)
				l.WantColon()
				switch fk {
				case "classesIndexed":
					d.Stats.ClassesIndexed = l.Int()
				case "methodsIndexed":
					d.Stats.MethodsIndexed = l.Int()
				case "fieldsIndexed":
					d.Stats.FieldsIndexed = l.Int()
				case "typesIndexed":
					d.Stats.TypesIndexed = l.Int()
				case "paramsIndexed":
					d.Stats.ParamsIndexed = l.Int()
				case "packagesVisited":
					d.Stats.PackagesVisited = l.Int()
				default:
					l.SkipRecursive()
				}
				l.WantComma()
			}
			l.Delim('}')
		default:
			l.SkipRecursive()
		}
		l.WantComma()
	}
	l.Delim('}')
}

// UnmarshalJSON adapts UnmarshalEasyJSON to the standard library's
// interface.
func (d *Dump) UnmarshalJSON(data []byte) error {
	l := jlexer.Lexer{Data: data}
	d.UnmarshalEasyJSON(&l)
	return l.Error()
}

// Schema publishes the JSON Schema for Dump via reflection, so external
// tooling consuming tastydump's default JSON output can validate against it without
// this package as a Go dependency.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{ExpandedStruct: true}
	return r.Reflect(&Dump{})
}
