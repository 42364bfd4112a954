// Package progtest contains utilities for testing [prog.Program]
// implementations.
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"src.specplot.dev/pkg/prog"
)

// Result keeps what a program did when it was run.
type Result struct {
	Exit           int
	Stdout, Stderr string
}

// Run runs p with the given command-line arguments, not including the program
// name, feeding it stdin and capturing its output.
func Run(t *testing.T, p prog.Program, stdin string, args ...string) Result {
	t.Helper()
	inR, inW := mustPipe(t)
	outR, outW := mustPipe(t)
	errR, errW := mustPipe(t)

	go func() {
		io.Copy(inW, strings.NewReader(stdin))
		inW.Close()
	}()
	outCh := readAllAsync(outR)
	errCh := readAllAsync(errR)

	exit := prog.Run([3]*os.File{inR, outW, errW}, append([]string{"specplot"}, args...), p)
	outW.Close()
	errW.Close()
	inR.Close()
	return Result{exit, <-outCh, <-errCh}
}

func mustPipe(t *testing.T) (*os.File, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	return r, w
}

func readAllAsync(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		data, _ := io.ReadAll(r)
		r.Close()
		ch <- string(data)
	}()
	return ch
}
