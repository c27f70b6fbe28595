// Command tastymcp starts the MCP server exposing unpickle_tasty and the
// tasty://{artifact}/symbols resource template over stdio, for an
// editor/agent to spawn as a subprocess.
package main

import (
	"fmt"
	"os"

	"github.com/gaudelbinod/tastyunpickler/tasty"
	"github.com/gaudelbinod/tastyunpickler/tastydump"
	"github.com/gaudelbinod/tastyunpickler/tastymcp"
	"github.com/gaudelbinod/tastyunpickler/testhost"
)

func main() {
	s, err := tastymcp.New(decode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tastymcp:", err)
		os.Exit(1)
	}
	if err := s.ServeStdio(); err != nil {
		fmt.Fprintln(os.Stderr, "tastymcp:", err)
		os.Exit(1)
	}
}

// decode unpickles one artifact's bytes against a fresh testhost.Host,
// the same stand-in symbol table tastydump's CLI uses: this process has
// no host compiler of its own to attach to.
func decode(artifact string, data []byte) (tastydump.Dump, error) {
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
		return tastydump.Dump{}, fmt.Errorf("unpickle %s: %w", artifact, err)
	}
	return tastydump.Build(artifact, recorder, stats), nil
}
