// Package command implements the command language shared by the console and
// the remote client, and the formatting of command results.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Op identifies a command.
type Op int

// Possible values of Op.
const (
	None Op = iota
	Put
	Get
	Sum
	Plot
	List
	Remove
	Set
	Unset
	Show
	Stats
	Help
	Quit
)

type opInfo struct {
	name  string
	usage string
	// Minimum and maximum number of arguments; max is -1 if unbounded.
	min, max int
}

var ops = map[Op]opInfo{
	Put:    {"put", "put NAME VALUE...", 1, -1},
	Get:    {"get", "get NAME", 1, 1},
	Sum:    {"sum", "sum NAME", 1, 1},
	Plot:   {"plot", "plot NAME [BUCKETS]", 1, 2},
	List:   {"ls", "ls", 0, 0},
	Remove: {"rm", "rm NAME", 1, 1},
	Set:    {"set", "set KEY VALUE", 2, 2},
	Unset:  {"unset", "unset KEY", 1, 1},
	Show:   {"show", "show KEY", 1, 1},
	Stats:  {"stats", "stats", 0, 0},
	Help:   {"help", "help", 0, 0},
	Quit:   {"quit", "quit", 0, 0},
}

var opByName = make(map[string]Op)

func init() {
	for op, info := range ops {
		opByName[info.name] = op
	}
}

func (op Op) String() string {
	if info, ok := ops[op]; ok {
		return info.name
	}
	return "none"
}

// Command is a parsed command.
type Command struct {
	Op Op
	// Series name, or setting key for Set, Unset and Show.
	Name string
	// Setting value for Set.
	Value string
	// Samples for Put.
	Values []float64
	// Number of buckets for Plot; 0 means using the plot.buckets setting.
	Buckets int
}

// ErrUnknownCommand is returned by Parse for an unknown command name.
var ErrUnknownCommand = errors.New("unknown command")

// Parse parses a command line. An empty line parses to a Command with Op
// None.
func Parse(line string) (Command, error) {
	return ParseFields(strings.Fields(line))
}

// ParseFields parses a command already split into fields.
func ParseFields(fields []string) (Command, error) {
	if len(fields) == 0 {
		return Command{}, nil
	}
	op, ok := opByName[fields[0]]
	if !ok {
		return Command{}, fmt.Errorf("%w %q; try help", ErrUnknownCommand, fields[0])
	}
	info := ops[op]
	args := fields[1:]
	if len(args) < info.min || (info.max >= 0 && len(args) > info.max) {
		return Command{}, fmt.Errorf("usage: %s", info.usage)
	}

	cmd := Command{Op: op}
	if len(args) > 0 {
		cmd.Name = args[0]
	}
	switch op {
	case Put:
		for _, arg := range args[1:] {
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return Command{}, fmt.Errorf("bad value %q", arg)
			}
			cmd.Values = append(cmd.Values, v)
		}
	case Plot:
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				return Command{}, fmt.Errorf("bad number of buckets %q", args[1])
			}
			cmd.Buckets = n
		}
	case Set:
		cmd.Value = args[1]
	}
	return cmd, nil
}

// HelpText returns a summary of all commands.
func HelpText() string {
	var sb strings.Builder
	sb.WriteString("commands:")
	for op := Put; op <= Quit; op++ {
		sb.WriteString("\n  " + ops[op].usage)
	}
	return sb.String()
}
