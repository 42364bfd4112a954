// Package daemon implements a service that owns the workspace and serves it
// over JSON-RPC, and its client.
//
// All connections feed requests into the single backend worker that owns the
// workspace, so requests from all clients are handled one at a time, in
// arrival order.
package daemon

import (
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"src.specplot.dev/pkg/backend"
	"src.specplot.dev/pkg/daemon/daemondefs"
	"src.specplot.dev/pkg/logutil"
	"src.specplot.dev/pkg/prog"
	"src.specplot.dev/pkg/store"
	"src.specplot.dev/pkg/workspace"
)

var logger = logutil.GetLogger("[daemon] ")

// Program is the daemon subprogram.
type Program struct {
	run         bool
	paths       *prog.DaemonPaths
	stopTimeout *time.Duration
	// Used in tests.
	serveOpts ServeOpts
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.run, "daemon", false,
		"Run the storage daemon instead of the console")
	p.paths = fs.DaemonPaths()
	p.stopTimeout = fs.StopTimeout()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if !p.run {
		return prog.ErrNextProgram
	}
	if len(args) > 0 {
		return prog.BadUsage("arguments are not allowed with -daemon")
	}
	if p.paths.Sock == "" {
		return prog.BadUsage("-sock is required with -daemon")
	}
	// The daemon has no terminal; use stdout for logging unless -log was
	// given.
	if logutil.Discarding() {
		logutil.SetOutput(fds[1])
	}
	opts := p.serveOpts
	opts.StopTimeout = *p.stopTimeout
	exit := Serve(p.paths.Sock, p.paths.DB, opts)
	return prog.Exit(exit)
}

// ServeOpts keeps options that can be passed to Serve.
type ServeOpts struct {
	// If not nil, will be closed when the daemon is ready to serve requests.
	Ready chan<- struct{}
	// Causes the daemon to abort if closed or sent any date. If nil, Serve will
	// set up its own signal channel by listening to SIGINT and SIGTERM.
	Signals <-chan os.Signal
	// If not nil, overrides the response of the Version RPC.
	Version *int
	// Timeout for stopping the backend. Defaults to
	// backend.DefaultStopTimeout.
	StopTimeout time.Duration
}

// Serve runs the daemon service, listening on the socket specified by sockpath
// and serving data from dbpath until all clients have exited. If dbpath is
// empty or the database cannot be opened, the workspace is kept in memory.
// See doc for ServeOpts for additional options.
func Serve(sockpath, dbpath string, opts ServeOpts) int {
	logger.Println("pid is", syscall.Getpid())
	logger.Println("going to listen", sockpath)
	listener, err := net.Listen("unix", sockpath)
	if err != nil {
		logger.Printf("failed to listen on %s: %v", sockpath, err)
		logger.Println("aborting")
		return 2
	}
	return serve(listener, sockpath, dbpath, opts)
}

// Like Serve, but with a listener that is already set up.
func serve(listener net.Listener, sockpath, dbpath string, opts ServeOpts) int {
	var st store.DBStore
	var err error
	ws := workspace.New(nil)
	if dbpath != "" {
		st, err = store.NewStore(dbpath)
		if err != nil {
			logger.Printf("failed to create storage: %v", err)
			logger.Printf("serving anyway, with an in-memory workspace")
			if st != nil {
				st.Close()
			}
			st = nil
		} else {
			ws = workspace.New(st)
		}
	}
	q := backend.NewQueue[workspace.State]()
	jh := backend.NewWorker(q, ws).Run()

	version := daemondefs.Version
	if opts.Version != nil {
		version = *opts.Version
	}
	svc := &service{q, version}

	connCh := make(chan net.Conn, 10)
	listenErrCh := make(chan error, 1)
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				listenErrCh <- err
				close(listenErrCh)
				return
			}
			connCh <- conn
		}
	}()

	sigCh := opts.Signals
	if sigCh == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		sigCh = ch
	}

	conns := make(map[net.Conn]struct{})
	connDoneCh := make(chan net.Conn, 10)

	interrupt := func() {
		if len(conns) == 0 {
			logger.Println("exiting since there are no clients")
		}
		logger.Printf("going to close %v active connections", len(conns))
		for conn := range conns {
			// Ignore the error - if we can't close the connection it's because
			// the client has closed it. There is nothing we can do anyway.
			conn.Close()
		}
	}

	if opts.Ready != nil {
		close(opts.Ready)
	}

	acceptErrCh := listenErrCh

loop:
	for {
		select {
		case sig := <-sigCh:
			logger.Printf("received signal %v", sig)
			interrupt()
			break loop
		case err := <-acceptErrCh:
			logger.Println("could not listen:", err)
			// The channel is closed after the error; stop selecting on it.
			acceptErrCh = nil
			if len(conns) == 0 {
				logger.Println("exiting since there are no clients")
				break loop
			}
			logger.Println("continuing to serve until all existing clients exit")
		case conn := <-connCh:
			conns[conn] = struct{}{}
			go func() {
				svc.ServeConn(conn)
				connDoneCh <- conn
			}()
		case conn := <-connDoneCh:
			delete(conns, conn)
			if len(conns) == 0 {
				logger.Println("all clients disconnected, exiting")
				break loop
			}
		}
	}

	err = os.Remove(sockpath)
	if err != nil {
		logger.Printf("failed to remove socket %s: %v", sockpath, err)
	}
	err = listener.Close()
	if err != nil {
		logger.Printf("failed to close listener: %v", err)
	}
	// Ensure that the listener goroutine has exited before returning
	<-listenErrCh

	stopTimeout := opts.StopTimeout
	if stopTimeout <= 0 {
		stopTimeout = backend.DefaultStopTimeout
	}
	exit := 0
	if err := backend.RequestStop(q, jh, stopTimeout); err != nil {
		logger.Printf("backend stopped abnormally: %v", err)
		exit = 1
	}
	// The worker has exited, so nothing else is accessing the store.
	if st != nil {
		err = st.Close()
		if err != nil {
			logger.Printf("failed to close storage: %v", err)
		}
	}
	return exit
}
