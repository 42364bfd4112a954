package console

import (
	"fmt"
	"io"

	"src.specplot.dev/pkg/command"
	"src.specplot.dev/pkg/frame"
	"src.specplot.dev/pkg/workspace"
)

const prompt = "> "

// UI state. It is only accessed from frame loop callbacks, which never run
// in parallel.
type console struct {
	q   *workspace.Queue
	out io.Writer
	// Whether to prompt for input, and whether plots can use block
	// characters.
	interactive, terminal bool

	cells      []cell
	needPrompt bool
	eof        bool
}

func newConsole(q *workspace.Queue, out io.Writer, interactive, terminal bool) *console {
	return &console{q: q, out: out,
		interactive: interactive, terminal: terminal, needPrompt: true}
}

func (c *console) handle(lp *frame.Loop) frame.HandleCb {
	return func(ev frame.Event) {
		switch ev := ev.(type) {
		case string:
			cmd, err := command.Parse(ev)
			if err != nil {
				c.cells = append(c.cells, errorCell(err))
			} else if cmd.Op == command.Quit {
				lp.Return(nil)
				return
			} else if cmd.Op != command.None {
				c.cells = append(c.cells, c.submit(cmd))
			}
			c.needPrompt = true
		case eof:
			c.eof = true
		}
	}
}

func (c *console) redraw(lp *frame.Loop) frame.RedrawCb {
	return func(flag frame.RedrawFlag) {
		if flag&frame.FinalRedraw != 0 {
			if c.interactive {
				fmt.Fprintln(c.out)
			}
			return
		}
		if flag&frame.FullRedraw != 0 && c.interactive {
			fmt.Fprintln(c.out, "specplot console; type help for a list of commands")
		}
		for len(c.cells) > 0 {
			out, ok := c.cells[0].poll()
			if !ok {
				break
			}
			if out != "" {
				fmt.Fprintln(c.out, out)
			}
			c.cells = c.cells[1:]
		}
		if len(c.cells) > 0 {
			return
		}
		if c.eof {
			lp.Return(nil)
		} else if c.needPrompt && c.interactive {
			fmt.Fprint(c.out, prompt)
			c.needPrompt = false
		}
	}
}

// Cancels the requests of all cells that have not been printed.
func (c *console) close() {
	for _, cl := range c.cells {
		cl.close()
	}
	c.cells = nil
}

func (c *console) submit(cmd command.Command) cell {
	q, name := c.q, cmd.Name
	switch cmd.Op {
	case command.Put:
		n := len(cmd.Values)
		return newParamCell(q, "put "+name, workspace.AddSeries(name, cmd.Values),
			func(rev int) string { return command.FormatPut(name, n, rev) })
	case command.Get:
		return newParamCell(q, "get "+name, workspace.GetSeries(name),
			func(values []float64) string { return command.FormatSeries(name, values) })
	case command.Sum:
		return newParamCell(q, "summarize "+name, workspace.Summarize(name),
			func(s workspace.Summary) string { return command.FormatSummary(name, s) })
	case command.Plot:
		f := workspace.Plot(name)
		if cmd.Buckets > 0 {
			f = workspace.Downsample(name, cmd.Buckets)
		}
		return newParamCell(q, "plot "+name, f,
			func(buckets []workspace.Bucket) string { return command.FormatPlot(buckets, c.terminal) })
	case command.List:
		return newParamCell(q, "list series", workspace.Names(), command.FormatNames)
	case command.Remove:
		return newParamCell(q, "delete "+name, workspace.DelSeries(name),
			func(rev int) string { return command.FormatRemove(name, rev) })
	case command.Set:
		return newParamCell(q, "set "+name, workspace.SetSetting(name, cmd.Value),
			func(struct{}) string { return "" })
	case command.Unset:
		return newParamCell(q, "unset "+name, workspace.DelSetting(name),
			func(struct{}) string { return "" })
	case command.Show:
		return newParamCell(q, "show "+name, workspace.GetSetting(name),
			func(value string) string { return command.FormatSetting(name, value) })
	case command.Stats:
		return newParamCell(q, "stats", infallible(stats), command.FormatStats)
	case command.Help:
		return textCell(command.HelpText())
	}
	return errorCell(fmt.Errorf("%s is not supported", cmd.Op))
}
