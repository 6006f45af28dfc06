package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/sirupsen/logrus"
	"go-portprobe/database"
	dr "go-portprobe/dns-resolver"
	"go-portprobe/manager"
	"go-portprobe/models"
	ps "go-portprobe/port-scanner"
	"go-portprobe/reporter"
	"go-portprobe/server"
	"os"
	"os/signal"
	"syscall"
)

// Exit codes.
const (
	exitOK      = 0
	exitUsage   = 2
	exitResolve = 3
	exitRuntime = 4
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var code int
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		code = serve(ctx, os.Args[2:])
	} else {
		code = scan(ctx, os.Args[1:])
	}

	stop()
	os.Exit(code)
}

func scan(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("portprobe", flag.ContinueOnError)

	var s models.Settings
	fs.StringVar(&s.Host, "t", "", "target host (default 127.0.0.1)")
	fs.StringVar(&s.Host, "target", "", "target host (default 127.0.0.1)")
	fs.StringVar(&s.Ports, "p", "", "port or range, e.g. 80 or 80-100 (default 80)")
	fs.StringVar(&s.Ports, "port", "", "port or range, e.g. 80 or 80-100 (default 80)")
	fs.IntVar(&s.Concurrency, "c", 0, "maximum simultaneous probes (default 100)")
	fs.IntVar(&s.Concurrency, "concurrency", 0, "maximum simultaneous probes (default 100)")
	fs.IntVar(&s.TimeoutMillis, "timeout", 0, "per-probe timeout in milliseconds (default 1000)")
	fs.StringVar(&s.Output, "o", "", "output format: plain, json or csv (default plain)")
	fs.StringVar(&s.Output, "output", "", "output format: plain, json or csv (default plain)")

	dbPath := fs.String("db", "", "SQLite file to record scans in (disabled when empty)")
	nameserver := fs.String("nameserver", "", "resolve the target through this DNS server instead of the system resolver")
	openOnly := fs.Bool("open-only", false, "only print open ports")
	progress := fs.Bool("progress", false, "show a progress bar on stderr")
	noColor := fs.Bool("no-color", false, "disable coloured output")
	verbose := fs.Bool("v", false, "debug logging")
	trace := fs.Bool("vv", false, "trace logging")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	setupLogging(*verbose, *trace, logrus.WarnLevel)

	db, code := openDB(*dbPath)
	if code != exitOK {
		return code
	}
	if db != nil {
		defer db.Close()
	}

	m := manager.NewManager(db, dr.New(*nameserver))

	plan, err := m.Plan(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid arguments: %v\n", err)
		return exitUsage
	}

	var rep reporter.Reporter = reporter.New(plan.Format, os.Stdout, os.Stderr, reporter.Options{
		OpenOnly: *openOnly,
		Color:    !*noColor && reporter.IsTerminal(os.Stdout),
	})
	if *progress && reporter.IsTerminal(os.Stderr) {
		rep = reporter.WithProgress(rep, os.Stderr)
	}

	if _, err := m.Scan(ctx, plan, rep); err != nil {
		return exitCode(err)
	}
	return exitOK
}

func serve(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("portprobe serve", flag.ContinueOnError)
	addr := fs.String("addr", ":8080", "listen address")
	dbPath := fs.String("db", "portprobe.db", "SQLite file to record scans and settings in")
	nameserver := fs.String("nameserver", "", "resolve targets through this DNS server instead of the system resolver")
	verbose := fs.Bool("v", false, "debug logging")
	trace := fs.Bool("vv", false, "trace logging")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	setupLogging(*verbose, *trace, logrus.InfoLevel)

	db, code := openDB(*dbPath)
	if code != exitOK {
		return code
	}
	if db != nil {
		defer db.Close()
	}

	m := manager.NewManager(db, dr.New(*nameserver))
	if err := server.Start(ctx, *addr, m); err != nil {
		logrus.Errorf("server stopped: %v", err)
		return exitRuntime
	}
	return exitOK
}

func setupLogging(verbose, trace bool, base logrus.Level) {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	switch {
	case trace:
		logrus.SetLevel(logrus.TraceLevel)
	case verbose:
		logrus.SetLevel(logrus.DebugLevel)
	default:
		logrus.SetLevel(base)
	}
}

func openDB(path string) (*database.DB, int) {
	if path == "" {
		return nil, exitOK
	}
	db, err := database.New(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "couldn't open database: %v\n", err)
		return nil, exitRuntime
	}
	return db, exitOK
}

// exitCode maps a scan error to the process exit status. Task failures have
// already been printed by the reporter.
func exitCode(err error) int {
	switch {
	case errors.Is(err, dr.ErrResolve):
		fmt.Fprintf(os.Stderr, "failed to resolve target: %v\n", err)
		return exitResolve
	case errors.Is(err, ps.ErrTaskFailure), errors.Is(err, context.Canceled):
		return exitRuntime
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitRuntime
	}
}
