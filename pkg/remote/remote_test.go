package remote

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"src.specplot.dev/pkg/daemon"
	"src.specplot.dev/pkg/daemon/client"
	"src.specplot.dev/pkg/prog/progtest"
	"src.specplot.dev/pkg/testutil"
)

var runTests = []struct {
	args       []string
	wantExit   int
	wantStdout string
	wantStderr string
}{
	{args: []string{"put", "a", "1", "-2", "3"}, wantStdout: "a: 3 values, revision 1\n"},
	{args: []string{"get", "a"}, wantStdout: "a: 1 -2 3\n"},
	{args: []string{"sum", "a"}, wantStdout: "a: n=3 min=-2 max=3 mean=0.6666666666666666\n"},
	{args: []string{"plot", "a", "2"}, wantStdout: "0\t1\t1\n1\t-2\t3\n"},
	{args: []string{"set", "plot.buckets", "1"}, wantStdout: ""},
	{args: []string{"show", "plot.buckets"}, wantStdout: "plot.buckets = 1\n"},
	{args: []string{"plot", "a"}, wantStdout: "0\t-2\t3\n"},
	{args: []string{"unset", "plot.buckets"}, wantStdout: ""},
	{args: []string{"ls"}, wantStdout: "a\n"},
	{args: []string{"rm", "a"}, wantStdout: "a: deleted, revision 2\n"},
	{args: []string{"ls"}, wantStdout: "(no series)\n"},
	{args: []string{"get", "a"}, wantExit: 1, wantStderr: "error: no such series\n"},
	{args: []string{"show", "plot.buckets"}, wantExit: 1, wantStderr: "error: no such setting\n"},
}

func TestProgram_RunsCommands(t *testing.T) {
	testutil.CaptureLog(t)
	sock := startDaemon(t)

	for _, test := range runTests {
		args := append([]string{"-remote", "-sock", sock}, test.args...)
		r := progtest.Run(t, &Program{}, "", args...)
		if r.Exit != test.wantExit || r.Stdout != test.wantStdout || r.Stderr != test.wantStderr {
			t.Errorf("%v -> %+v\nwant exit %d, stdout %q, stderr %q",
				test.args, r, test.wantExit, test.wantStdout, test.wantStderr)
		}
	}
}

func TestProgram_BadUsage(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-remote", "ls"}, "-sock is required with -remote"},
		{[]string{"-remote", "-sock", "s"}, "a command is required with -remote"},
		{[]string{"-remote", "-sock", "s", "quit"}, "quit cannot be used with -remote"},
		{[]string{"-remote", "-sock", "s", "get"}, "usage: get NAME"},
	}
	for _, test := range tests {
		r := progtest.Run(t, &Program{}, "", test.args...)
		if r.Exit != 2 || !strings.Contains(r.Stderr, test.want) {
			t.Errorf("%v -> %+v, want exit 2 and stderr containing %q", test.args, r, test.want)
		}
	}
}

func TestProgram_Help(t *testing.T) {
	r := progtest.Run(t, &Program{}, "", "-remote", "-sock", "s", "help")
	if r.Exit != 0 || !strings.HasPrefix(r.Stdout, "commands:") {
		t.Errorf("got %+v", r)
	}
}

func TestProgram_DaemonOffline(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "sock")
	r := progtest.Run(t, &Program{}, "", "-remote", "-sock", sock, "ls")
	if r.Exit != 2 || !strings.Contains(r.Stderr, "daemon offline") {
		t.Errorf("got %+v", r)
	}
}

func TestProgram_NotRunWithoutFlag(t *testing.T) {
	r := progtest.Run(t, &Program{}, "", "ls")
	if r.Exit != 2 || r.Stderr != "internal error: no suitable subprogram\n" {
		t.Errorf("got %+v", r)
	}
}

// Starts a daemon with an in-memory workspace and returns its socket path.
// The daemon exits when all clients have disconnected, so a connection is
// kept open until the test finishes.
func startDaemon(t *testing.T) string {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "sock")
	ready := make(chan struct{})
	exitCh := make(chan int, 1)
	go func() {
		exitCh <- daemon.Serve(sock, "", daemon.ServeOpts{
			Ready: ready, Signals: make(chan os.Signal)})
	}()
	select {
	case <-ready:
	case <-time.After(testutil.Scaled(5 * time.Second)):
		t.Fatal("timed out waiting for daemon")
	}
	keepAlive, err := client.Dial(sock)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		keepAlive.Close()
		select {
		case <-exitCh:
		case <-time.After(testutil.Scaled(5 * time.Second)):
			t.Error("timed out waiting for daemon to exit")
		}
	})
	return sock
}
