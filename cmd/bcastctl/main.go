// Command bcastctl primes and retracts trace broadcast networks on an
// emulated device.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/bcastnet/api"
	"github.com/sarchlab/bcastnet/bcast"
	"github.com/sarchlab/bcastnet/config"
	"github.com/sarchlab/bcastnet/journal"
	"github.com/sarchlab/bcastnet/session"
	"github.com/sarchlab/bcastnet/tracelog"
	"github.com/sarchlab/bcastnet/verify"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	args := os.Args[2:]
	switch os.Args[1] {
	case "plan":
		planCmd(args)
	case "build":
		buildCmd(args)
	case "reset":
		resetCmd(args)
	case "cycle":
		cycleCmd(args)
	case "recover":
		recoverCmd(args)
	default:
		usage()
		os.Exit(2)
	}

	atexit.Exit(0)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: bcastctl plan|build|reset|cycle|recover [flags]")
}

type commonFlags struct {
	sessionPath *string
	dataDir     *string
	logLevel    *string
	useDriver   *bool
	monitor     *bool
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		sessionPath: fs.String("session", "", "session file (required)"),
		dataDir:     fs.String("data", "./data", "journal and trace directory"),
		logLevel:    fs.String("log-level", "info", "debug, info, trace, warn or error"),
		useDriver:   fs.Bool("driver", false, "issue instructions through the cycle driver"),
		monitor:     fs.Bool("monitor", false, "start the akita monitoring server (implies -driver)"),
	}
}

func setupLogging(level string) {
	var l slog.Level

	switch strings.ToLower(level) {
	case "trace":
		l = bcast.LevelTrace
	default:
		if err := l.UnmarshalText([]byte(level)); err != nil {
			fmt.Fprintln(os.Stderr, "bad -log-level:", err)
			os.Exit(2)
		}
	}

	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(h))
}

func fail(msg string, err error) {
	fmt.Fprintln(os.Stderr, msg+":", err)
	atexit.Exit(1)
}

// env is everything a session command works with.
type env struct {
	cfg     *config.Session
	device  *config.Device
	journal *journal.Journal
	trace   *tracelog.Writer
	driver  api.Driver
}

func loadConfig(c commonFlags) *config.Session {
	setupLogging(*c.logLevel)

	if strings.TrimSpace(*c.sessionPath) == "" {
		fmt.Fprintln(os.Stderr, "missing -session")
		os.Exit(2)
	}

	cfg, err := config.LoadSession(*c.sessionPath)
	if err != nil {
		fail("load session", err)
	}

	return cfg
}

func openEnv(c commonFlags, id string) *env {
	cfg := loadConfig(c)
	e := &env{cfg: cfg, device: cfg.BuildDevice()}

	var err error

	e.journal, err = journal.Open(filepath.Join(*c.dataDir, "journal.db"))
	if err != nil {
		fail("open journal", err)
	}
	atexit.Register(func() { _ = e.journal.Close() })

	e.trace, err = tracelog.Create(filepath.Join(*c.dataDir, "trace", id+".jsonl.zst"))
	if err != nil {
		fail("open trace log", err)
	}
	atexit.Register(func() {
		if err := e.trace.Close(); err != nil {
			slog.Error("trace log", "Error", err)
		}
	})

	if *c.useDriver || *c.monitor {
		e.driver = newDriver(*c.monitor)
	}

	return e
}

func newDriver(withMonitor bool) api.Driver {
	engine := sim.NewSerialEngine()

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Driver")

	if withMonitor {
		monitor := monitoring.NewMonitor()
		monitor.RegisterEngine(engine)
		monitor.RegisterComponent(driver)
		monitor.StartServer()
	}

	return driver
}

func (e *env) newSession(id string) *session.Session {
	ch1, ch2 := e.cfg.ChannelPair()

	b := session.Builder{}.
		WithDevice(e.device.Name, e.device).
		WithMetadata(e.cfg).
		WithChannels(ch1, ch2).
		WithTrigger(e.cfg.Trigger()).
		WithJournal(e.journal).
		WithTraceLog(e.trace)

	if e.driver != nil {
		b = b.WithDriver(e.driver)
	}

	return b.Build(id)
}

func (e *env) network() bcast.Network {
	ch1, ch2 := e.cfg.ChannelPair()
	return bcast.NewNetwork(e.cfg, ch1, ch2)
}

func (e *env) report(title string) *verify.Report {
	net := e.network()

	build, err := net.Build(e.cfg.Trigger())
	if err != nil {
		fail("build", err)
	}
	reset, err := net.Reset()
	if err != nil {
		fail("reset", err)
	}

	return verify.NewReport(title, net, build, reset, e.device.Snapshot())
}

func planCmd(args []string) {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	c := addCommonFlags(fs)
	showReset := fs.Bool("reset", false, "print the reset program instead of the build program")
	_ = fs.Parse(args)

	cfg := loadConfig(c)
	ch1, ch2 := cfg.ChannelPair()
	net := bcast.NewNetwork(cfg, ch1, ch2)

	var (
		prog bcast.Program
		err  error
	)
	if *showReset {
		prog, err = net.Reset()
	} else {
		prog, err = net.Build(cfg.Trigger())
	}
	if err != nil {
		fail("plan", err)
	}

	for i, inst := range prog {
		fmt.Printf("%4d  %s\n", i, inst)
	}

	if issues := verify.Lint(net, prog); len(issues) > 0 {
		fmt.Println(verify.IssueTable(issues))
		atexit.Exit(1)
	}
}

func buildNotice(id string) string {
	return fmt.Sprintf("network %s journaled as active; the emulated device is "+
		"discarded on exit, so `bcastctl recover` only replays its reset and "+
		"clears the journal", id)
}

// buildCmd primes the network and leaves it in the journal. The emulated
// device does not outlive the process.
func buildCmd(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	c := addCommonFlags(fs)
	id := fs.String("id", "session", "session id")
	_ = fs.Parse(args)

	e := openEnv(c, *id)
	s := e.newSession(*id)

	if err := s.Start(context.Background()); err != nil {
		fail("start", err)
	}

	e.report(*id).WriteReport(os.Stdout)
	fmt.Println(buildNotice(*id))
}

func resetCmd(args []string) {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	c := addCommonFlags(fs)
	id := fs.String("id", "session", "session id")
	_ = fs.Parse(args)

	e := openEnv(c, *id)
	ctx := context.Background()

	prog, err := e.network().Reset()
	if err != nil {
		fail("reset", err)
	}

	ex := bcast.NewExecutor(e.device)
	ex.AddHook(e.trace.Hook(*id, "reset"))
	if err := ex.Apply(prog); err != nil {
		fail("reset", err)
	}

	if err := e.journal.Remove(ctx, *id); err != nil {
		slog.Warn("journal", "Session", *id, "Error", err)
	}

	fmt.Printf("network %s retracted with %d instructions\n", *id, len(prog))
}

func cycleCmd(args []string) {
	fs := flag.NewFlagSet("cycle", flag.ExitOnError)
	c := addCommonFlags(fs)
	id := fs.String("id", "session", "session id")
	_ = fs.Parse(args)

	e := openEnv(c, *id)
	ctx := context.Background()
	s := e.newSession(*id)

	atexit.Register(func() {
		if s.State() == session.Idle {
			return
		}
		if err := s.Stop(ctx); err != nil {
			slog.Error("retract on exit", "Session", *id, "Error", err)
		}
	})

	if err := s.Start(ctx); err != nil {
		fail("start", err)
	}

	r := e.report(*id)
	r.WriteReport(os.Stdout)

	if err := s.Stop(ctx); err != nil {
		fail("stop", err)
	}

	if !e.device.Pristine() {
		fmt.Println(verify.StateTable(e.device.Snapshot()))
		fail("cycle", fmt.Errorf("device not pristine after reset"))
	}

	fmt.Printf("network %s primed and retracted: %d tiles, %d writes in %d tiles\n",
		*id, s.Network().Footprint.NumTiles(), e.trace.Count(), len(e.device.Written()))

	if !r.OK() {
		atexit.Exit(1)
	}
}

func recoverCmd(args []string) {
	fs := flag.NewFlagSet("recover", flag.ExitOnError)
	c := addCommonFlags(fs)
	_ = fs.Parse(args)

	e := openEnv(c, "recover")

	ids, err := session.Recover(context.Background(), e.device, e.journal, e.device.Name)
	for _, id := range ids {
		fmt.Println("retracted", id)
	}
	if err != nil {
		fail("recover", err)
	}

	if len(ids) == 0 {
		fmt.Println("no live networks in journal")
	}
}
