// Command tastydump decodes a single .tasty artifact against a minimal
// in-process host and prints what it would contribute to a host compiler's
// symbol table: as JSON (the default, no flag needed), as its JSON Schema
// (--schema), as a syntax-highlighted debug tree (--highlight), or sliced
// by a JMESPath query (--query) over the JSON form.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/jmespath/go-jmespath"

	"github.com/gaudelbinod/tastyunpickler/tasty"
	"github.com/gaudelbinod/tastyunpickler/tastydump"
	"github.com/gaudelbinod/tastyunpickler/testhost"
)

var debugLexer = lexers.Register(chroma.MustNewLazyLexer(
	&chroma.Config{Name: "tastydebug", Filenames: []string{"*.tastydebug"}},
	func() chroma.Rules {
		return chroma.Rules{
			"root": {
				{Pattern: `\b(class|moduleClass|module|method|type|typeparam|param|ctor|dummy|refinement|extension)\b`, Type: chroma.Keyword, Mutator: nil},
				{Pattern: `\d+`, Type: chroma.Number, Mutator: nil},
				{Pattern: `[()=]`, Type: chroma.Punctuation, Mutator: nil},
				{Pattern: `\s+`, Type: chroma.Text, Mutator: nil},
				{Pattern: `[A-Za-z_$<][A-Za-z0-9_.$<>]*`, Type: chroma.Name, Mutator: nil},
			},
		}
	},
))

func main() {
	in := flag.String("in", "", "path to a .tasty artifact")
	artifact := flag.String("artifact", "", "logical artifact name (defaults to -in)")
	schema := flag.Bool("schema", false, "print the dump's JSON Schema and exit")
	highlight := flag.Bool("highlight", false, "print a syntax-highlighted debug tree instead of JSON")
	query := flag.String("query", "", "JMESPath expression to slice the JSON dump")
	flag.Parse()

	if *schema {
		b, err := json.MarshalIndent(tastydump.Schema(), "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "tastydump:", err)
			os.Exit(1)
		}
		fmt.Println(string(b))
		return
	}

	if *in == "" {
		fmt.Fprintln(os.Stderr, "tastydump: -in is required")
		os.Exit(2)
	}
	name := *artifact
	if name == "" {
		name = *in
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tastydump:", err)
		os.Exit(1)
	}

	dump, err := decode(name, data)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tastydump:", err)
		os.Exit(1)
	}

	if *highlight {
		if err := printHighlighted(dump); err != nil {
			fmt.Fprintln(os.Stderr, "tastydump:", err)
			os.Exit(1)
		}
		return
	}

	body, err := json.Marshal(dump)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tastydump:", err)
		os.Exit(1)
	}

	if *query == "" {
		fmt.Println(string(body))
		return
	}

	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		fmt.Fprintln(os.Stderr, "tastydump:", err)
		os.Exit(1)
	}
	result, err := jmespath.Search(*query, parsed)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tastydump: query:", err)
		os.Exit(1)
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "tastydump:", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

// decode reads one .tasty artifact's ASTs section against testhost's fake
// symbol table — this command has no real host compiler to attach to, so
// it demonstrates what the unpickler would produce rather than performing
// a production compile.
func decode(name string, data []byte) (tastydump.Dump, error) {
	// Treats the file as a bare name table immediately followed by the
	// ASTs section; a real artifact's header/UUID/other top-level
	// sections (§2, outside this core's scope) are not modeled here.
	c := tasty.NewCursor(data)
	names := tasty.NewNameTable(c)

	host := testhost.NewHost()
	env := host.Env(names)
	recorder := tastydump.Wrap(env.Symbols)
	env.Symbols = recorder

	u := tasty.NewTreeUnpickler(data[int(c.CurrentAddr()):], names, env)
	defer u.Release()

	stats, err := u.Unpickle(host.RootPackage(), host.RootPackage(), nil)
	if err != nil {
		return tastydump.Dump{}, fmt.Errorf("unpickle %s: %w", name, err)
	}
	return tastydump.Build(name, recorder, stats), nil
}

func printHighlighted(dump tastydump.Dump) error {
	var buf bytes.Buffer
	for _, s := range dump.Symbols {
		fmt.Fprintf(&buf, "%s %s (owner=%d)\n", s.Kind, s.Name, s.Owner)
	}

	iterator, err := debugLexer.Tokenise(nil, buf.String())
	if err != nil {
		return err
	}
	style := styles.Get("monokai")
	formatter := formatters.Get("terminal256")
	return formatter.Format(os.Stdout, style, iterator)
}
