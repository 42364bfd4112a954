// Package console implements the interactive subprogram, which owns an
// in-process backend and drives it from a frame loop.
//
// Command lines are read from stdin as input events. Each command that
// produces output gets a cell backed by a uiparam.Param; cells are polled on
// every frame and printed in the order their commands were entered.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"src.specplot.dev/pkg/backend"
	"src.specplot.dev/pkg/frame"
	"src.specplot.dev/pkg/logutil"
	"src.specplot.dev/pkg/prog"
	"src.specplot.dev/pkg/store"
	"src.specplot.dev/pkg/store/storedefs"
	"src.specplot.dev/pkg/sys"
	"src.specplot.dev/pkg/workspace"
)

var logger = logutil.GetLogger("[console] ")

// Program is the console subprogram. It runs when no other subprogram does.
type Program struct {
	paths         *prog.DaemonPaths
	stopTimeout   *time.Duration
	frameInterval *time.Duration
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	p.paths = fs.DaemonPaths()
	p.stopTimeout = fs.StopTimeout()
	p.frameInterval = fs.FrameInterval()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if len(args) > 0 {
		return prog.BadUsage("arguments are not allowed")
	}

	var st storedefs.Store
	if p.paths.DB != "" {
		dbStore, err := store.NewStore(p.paths.DB)
		if err != nil {
			fmt.Fprintf(fds[2], "warning: cannot open database: %v; keeping series in memory\n", err)
			if dbStore != nil {
				dbStore.Close()
			}
		} else {
			defer dbStore.Close()
			st = dbStore
		}
	}

	q := backend.NewQueue[workspace.State]()
	w := backend.NewWorker(q, workspace.New(st))
	lp := frame.NewLoop()
	w.SetWakeCb(func() { lp.Redraw(false) })
	jh := w.Run()

	c := newConsole(q, fds[1], sys.IsTerminal(fds[0]), sys.IsTerminal(fds[1]))
	lp.HandleCb(c.handle(lp))
	lp.RedrawCb(c.redraw(lp))
	lp.SetFrameInterval(*p.frameInterval)
	go readLines(fds[0], lp)

	lp.Run()
	c.close()
	logger.Println("console exited, stopping backend")
	if err := backend.RequestStop(q, jh, *p.stopTimeout); err != nil {
		return fmt.Errorf("backend stopped abnormally: %w", err)
	}
	return nil
}

// Input event sent when stdin is exhausted.
type eof struct{}

func readLines(r io.Reader, lp *frame.Loop) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lp.Input(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		logger.Println("error reading input:", err)
	}
	lp.Input(eof{})
}
