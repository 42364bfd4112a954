// Package remote implements the subprogram that runs a single command against
// the daemon.
package remote

import (
	"fmt"
	"os"

	"src.specplot.dev/pkg/command"
	"src.specplot.dev/pkg/daemon/client"
	"src.specplot.dev/pkg/daemon/daemondefs"
	"src.specplot.dev/pkg/prog"
	"src.specplot.dev/pkg/sys"
	"src.specplot.dev/pkg/workspace"
)

// Program is the remote subprogram.
type Program struct {
	run   bool
	paths *prog.DaemonPaths
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.run, "remote", false,
		"Run the command given by the arguments against the daemon")
	p.paths = fs.DaemonPaths()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if !p.run {
		return prog.ErrNextProgram
	}
	if p.paths.Sock == "" {
		return prog.BadUsage("-sock is required with -remote")
	}
	cmd, err := command.ParseFields(args)
	if err != nil {
		return prog.BadUsage(err.Error())
	}
	switch cmd.Op {
	case command.None:
		return prog.BadUsage("a command is required with -remote")
	case command.Quit:
		return prog.BadUsage("quit cannot be used with -remote")
	case command.Help:
		fmt.Fprintln(fds[1], command.HelpText())
		return nil
	}

	cl, err := client.Dial(p.paths.Sock)
	if err != nil {
		return err
	}
	defer cl.Close()
	out, err := Execute(cl, cmd, sys.IsTerminal(fds[1]))
	if err != nil {
		fmt.Fprintln(fds[2], "error:", err)
		return prog.Exit(1)
	}
	if out != "" {
		fmt.Fprintln(fds[1], out)
	}
	return nil
}

// Execute runs cmd using cl and formats the result. The terminal argument is
// passed to command.FormatPlot.
func Execute(cl daemondefs.Client, cmd command.Command, terminal bool) (string, error) {
	switch cmd.Op {
	case command.Put:
		rev, err := cl.PutSeries(cmd.Name, cmd.Values)
		return ifOK(err, func() string { return command.FormatPut(cmd.Name, len(cmd.Values), rev) })
	case command.Get:
		values, err := cl.Series(cmd.Name)
		return ifOK(err, func() string { return command.FormatSeries(cmd.Name, values) })
	case command.Sum:
		s, err := cl.Summary(cmd.Name)
		return ifOK(err, func() string { return command.FormatSummary(cmd.Name, s) })
	case command.Plot:
		var buckets []workspace.Bucket
		var err error
		if cmd.Buckets > 0 {
			buckets, err = cl.Downsample(cmd.Name, cmd.Buckets)
		} else {
			buckets, err = cl.Plot(cmd.Name)
		}
		return ifOK(err, func() string { return command.FormatPlot(buckets, terminal) })
	case command.List:
		names, err := cl.Names()
		return ifOK(err, func() string { return command.FormatNames(names) })
	case command.Remove:
		rev, err := cl.DelSeries(cmd.Name)
		return ifOK(err, func() string { return command.FormatRemove(cmd.Name, rev) })
	case command.Set:
		return "", cl.SetSetting(cmd.Name, cmd.Value)
	case command.Unset:
		return "", cl.DelSetting(cmd.Name)
	case command.Show:
		value, err := cl.Setting(cmd.Name)
		return ifOK(err, func() string { return command.FormatSetting(cmd.Name, value) })
	case command.Stats:
		s, err := cl.Stats()
		return ifOK(err, func() string { return command.FormatStats(s) })
	}
	return "", fmt.Errorf("%s is not supported remotely", cmd.Op)
}

func ifOK(err error, f func() string) (string, error) {
	if err != nil {
		return "", err
	}
	return f(), nil
}
