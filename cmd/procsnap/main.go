// procsnap dumps typed views of /proc: single processes, the whole system,
// and joins across tables such as socket ownership and the process tree.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/mrzor/procsnap/correlate"
	"github.com/mrzor/procsnap/internal/config"
	"github.com/mrzor/procsnap/internal/filter"
	"github.com/mrzor/procsnap/internal/otel"
	"github.com/mrzor/procsnap/internal/output"
	"github.com/mrzor/procsnap/proc"
	"github.com/mrzor/procsnap/snapshot"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	var (
		confPath   = flag.String("conf", "", "path to a TOML config file")
		filterExpr = flag.String("filter", "", "expression selecting processes, e.g. 'comm == \"nginx\"'")
		asJSON     = flag.Bool("json", false, "emit JSON instead of text")
		noSockets  = flag.Bool("no-sockets", false, "skip the socket ownership join")
	)
	flag.Parse()

	cfg, err := config.Load(*confPath)
	if err != nil {
		return err
	}
	if *filterExpr != "" {
		cfg.Filter = *filterExpr
	}
	if *asJSON {
		cfg.JSON = true
	}
	if *noSockets {
		cfg.Sockets = false
	}
	for _, arg := range flag.Args() {
		pid, err := strconv.Atoi(arg)
		if err != nil || pid <= 0 {
			return fmt.Errorf("argument %q is not a pid", arg)
		}
		cfg.PIDs = append(cfg.PIDs, pid)
	}

	tracer, cleanup, err := setupOTEL()
	if err != nil {
		return err
	}
	defer cleanup()

	reader := &proc.OSReader{Root: cfg.ProcRoot}
	features := detectFeatures(reader)
	collector := snapshot.NewCollector(reader, features)

	env, err := snapshot.DetectEnvironment(reader)
	if err != nil {
		return fmt.Errorf("detecting environment: %w", err)
	}

	form := output.New(os.Stdout, cfg.JSON)
	if len(cfg.PIDs) > 0 {
		return dumpProcesses(collector, form, cfg, env, tracer)
	}
	return dumpSystem(collector, form, cfg, env, tracer)
}

// setupOTEL initializes tracing when an OTLP endpoint is configured and
// returns a tracer plus cleanup function. Without an endpoint the returned
// tracer is nil and spans are skipped.
func setupOTEL() (trace.Tracer, func(), error) {
	otelCfg, err := config.ParseOTELConfig()
	if err != nil {
		return nil, nil, err
	}
	tp, err := otel.InitProvider(otelCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize OTEL provider: %w", err)
	}
	if tp == nil {
		return nil, func() {}, nil
	}
	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otel.ShutdownProvider(tp, shutdownCtx); err != nil {
			log.Printf("Error shutting down OTEL provider: %v", err)
		}
	}
	return tp.Tracer("procsnap"), cleanup, nil
}

// detectFeatures reads the kernel release to build the feature context;
// an unreadable or unparsable release degrades to the tolerant zero value.
func detectFeatures(r proc.Reader) proc.Features {
	data, err := r.ReadFile("sys/kernel/osrelease")
	if err != nil {
		return proc.Features{}
	}
	v, err := proc.ParseVersion(string(data))
	if err != nil {
		log.Printf("Warning: cannot parse kernel release: %v", err)
		return proc.Features{}
	}
	return proc.Features{Kernel: v}
}

// span starts a phase span when tracing is enabled.
func span(tracer trace.Tracer, name string) func() {
	if tracer == nil {
		return func() {}
	}
	_, s := tracer.Start(context.Background(), name)
	return func() { s.End() }
}

func dumpProcesses(c *snapshot.Collector, form *output.Formatter, cfg *config.Config, env snapshot.Environment, tracer trace.Tracer) error {
	done := span(tracer, "collect-processes")
	defer done()

	match, err := compileFilter(cfg.Filter)
	if err != nil {
		return err
	}
	for _, pid := range cfg.PIDs {
		p, err := c.Process(pid)
		if err != nil {
			if proc.IsVanished(err) {
				log.Printf("pid %d vanished during collection", pid)
				continue
			}
			return err
		}
		if match != nil {
			ok, err := match.Match(p, env)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		}
		if err := form.PrintProcess(p, env); err != nil {
			return err
		}
	}
	return nil
}

func dumpSystem(c *snapshot.Collector, form *output.Formatter, cfg *config.Config, env snapshot.Environment, tracer trace.Tracer) error {
	done := span(tracer, "collect-system")
	sys, err := c.System()
	if err != nil {
		done()
		return err
	}
	done()

	done = span(tracer, "join-tables")
	pids, err := c.PIDs()
	if err != nil {
		return err
	}
	parents, err := c.ParentPIDs(pids)
	if err != nil {
		return err
	}
	tree := correlate.BuildTree(parents)

	var own *correlate.Ownership
	if cfg.Sockets {
		fdTables, err := c.FDTables(pids)
		if err != nil {
			return err
		}
		joined := correlate.JoinSocketOwners(correlate.BuildSocketIndex(sys.Sockets), fdTables)
		own = &joined
	}
	done()

	return form.PrintSystem(sys, tree, own)
}

func compileFilter(expression string) (*filter.Evaluator, error) {
	if expression == "" {
		return nil, nil
	}
	return filter.New(expression)
}
