// Specplot keeps named data series in a backend owned by a single worker
// goroutine, and lets an interactive console or remote clients query,
// summarize and plot them.
package main

import (
	"os"

	"src.specplot.dev/pkg/buildinfo"
	"src.specplot.dev/pkg/console"
	"src.specplot.dev/pkg/daemon"
	"src.specplot.dev/pkg/prog"
	"src.specplot.dev/pkg/remote"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			&buildinfo.Program{}, &daemon.Program{}, &remote.Program{},
			&console.Program{})))
}
