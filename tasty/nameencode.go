package tasty

import (
	"fmt"
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/norm"
)

// symbolicRunPattern matches a maximal run of characters that are neither
// letters/decimal digits (in any script) nor underscore/dollar — the run the host-identifier
// encoder must replace with its symbolic escape. regexp2's backtracking
// engine lets this stay a single declarative pattern even though "is this
// a symbolic character" is a negative-class test with a few Unicode
// carve-outs that a pure RE2-style engine would need several passes for.
var symbolicRunPattern = regexp2.MustCompile(`[^\p{L}\p{Nd}_$]+`, regexp2.None)

// Encoder renders a Name to a string. The three encoders required by §4.2
// share traversal but differ in how they treat Simple leaves and the
// Default/Signed/Type/Module wrappers.
type Encoder interface {
	Encode(n *Name) string
}

// SourceEncoder renders the human-readable form: separators composed
// as-is, Default(q,n) as "<source(q)>$default$<n+1>", Type/Module
// transparent, Signed dropping its signature.
type SourceEncoder struct{}

func (SourceEncoder) Encode(n *Name) string { return encodeSource(n) }

func encodeSource(n *Name) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case NameSimple:
		return n.Text
	case NameQualified:
		return encodeSource(n.Qual) + encodeSource(n.Sep) + encodeSource(n.Selector)
	case NameModule, NameType:
		return encodeSource(n.Base)
	case NameSigned:
		return encodeSource(n.Qual)
	case NameUnique:
		return fmt.Sprintf("%s%s%d", encodeSource(n.Qual), encodeSource(n.Sep), n.N)
	case NameDefault:
		return fmt.Sprintf("%s$default$%d", encodeSource(n.Qual), n.N+1)
	case NamePrefix:
		return encodeSource(n.Prefix) + encodeSource(n.Qual)
	default:
		return "<?>"
	}
}

// DebugEncoder renders a self-describing, bracket-nested form used only
// in diagnostics — never fed back to the host compiler.
type DebugEncoder struct{}

func (DebugEncoder) Encode(n *Name) string { return encodeDebug(n) }

func encodeDebug(n *Name) string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case NameSimple:
		return fmt.Sprintf("Simple(%q)", n.Text)
	case NameQualified:
		return fmt.Sprintf("Qualified(%s,%s,%s)", encodeDebug(n.Qual), encodeDebug(n.Sep), encodeDebug(n.Selector))
	case NameModule:
		return fmt.Sprintf("Module(%s)", encodeDebug(n.Base))
	case NameType:
		return fmt.Sprintf("Type(%s)", encodeDebug(n.Base))
	case NameSigned:
		return fmt.Sprintf("Signed(%s,params=%d)", encodeDebug(n.Qual), len(n.Sig.ParamTypes))
	case NameUnique:
		return fmt.Sprintf("Unique(%s,%s,%d)", encodeDebug(n.Qual), encodeDebug(n.Sep), n.N)
	case NameDefault:
		return fmt.Sprintf("Default(%s,%d)", encodeDebug(n.Qual), n.N)
	case NamePrefix:
		return fmt.Sprintf("Prefix(%s,%s)", encodeDebug(n.Prefix), encodeDebug(n.Qual))
	default:
		return "<?>"
	}
}

// HostIdentEncoder renders the form handed to the host compiler: identical
// to SourceEncoder for inner structure, but every Simple leaf is passed
// through the host's symbolic-character escape, and Default names whose
// Qual is the constructor name get the host's special constructor-default
// prefix.
type HostIdentEncoder struct {
	// Escaper is the host's identifier-escape facility (§6). When nil, a
	// built-in escape (below) is used, grounded on the same idea but
	// independent of any specific host compiler.
	Escaper NameEscaper
	// ConstructorDefaultPrefix names the source-side constructor, used to
	// detect "Default.qual == Constructor" per §4.2.
	ConstructorDefaultPrefix string
}

func (e HostIdentEncoder) Encode(n *Name) string { return e.encode(n) }

func (e HostIdentEncoder) encode(n *Name) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case NameSimple:
		return e.escape(n.Text)
	case NameQualified:
		return e.encode(n.Qual) + e.encode(n.Sep) + e.encode(n.Selector)
	case NameModule, NameType:
		return e.encode(n.Base)
	case NameSigned:
		return e.encode(n.Qual)
	case NameUnique:
		return fmt.Sprintf("%s%s%d", e.encode(n.Qual), e.encode(n.Sep), n.N)
	case NameDefault:
		qualSrc := encodeSource(n.Qual)
		if qualSrc == e.ConstructorDefaultPrefix {
			return fmt.Sprintf("$lessinit$greater$default$%d", n.N+1)
		}
		return fmt.Sprintf("%s$default$%d", e.encode(n.Qual), n.N+1)
	case NamePrefix:
		return e.encode(n.Prefix) + e.encode(n.Qual)
	default:
		return "<?>"
	}
}

func (e HostIdentEncoder) escape(text string) string {
	if e.Escaper != nil {
		return e.Escaper.Escape(text)
	}
	return defaultEscape(text)
}

// defaultEscape provides a host-compiler-agnostic identifier escape so
// the package is independently testable without a real host. It NFC-
// normalizes the text (identifiers coming off the wire are not guaranteed
// to already be in a canonical Unicode form), then walks it grapheme by
// grapheme — never rune by rune — so a run of symbolic characters is never
// split across a combining-mark boundary, replacing every maximal run of
// non-identifier characters with its escaped hex form.
func defaultEscape(text string) string {
	normalized := norm.NFC.String(text)
	if ok, _ := symbolicRunPattern.MatchString(normalized); !ok {
		return normalized
	}

	var out strings.Builder
	for cluster := range graphemes.FromString(normalized) {
		if isIdentifierCluster(cluster) {
			out.WriteString(cluster)
			continue
		}
		for _, r := range cluster {
			fmt.Fprintf(&out, "$u%04x", r)
		}
	}
	return out.String()
}

func isIdentifierCluster(cluster string) bool {
	for _, r := range cluster {
		if !(r == '_' || r == '$' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9') || r > 127) {
			return false
		}
	}
	// A cluster made of letters or digits in any script (e.g. a non-Latin
	// identifier character) is left alone; any other character, ASCII or
	// not, makes the cluster symbolic and it is escaped.
	ok, _ := symbolicRunPattern.MatchString(cluster)
	return !ok
}
