package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/routelab/fwdsim/internal/logger"
	"github.com/routelab/fwdsim/internal/netaddr"
	"github.com/routelab/fwdsim/internal/resolver"
	"github.com/routelab/fwdsim/internal/table"
)

// Engine drives forwarding decisions over a stream of destination
// addresses. The entry slices are read-only after construction.
type Engine struct {
	ifaces  []table.InterfaceEntry
	routes  []table.RouteEntry
	log     *logger.Logger
	metrics *Metrics
}

// New creates an engine over loaded tables
func New(ifaces []table.InterfaceEntry, routes []table.RouteEntry, log *logger.Logger) *Engine {
	return &Engine{
		ifaces:  ifaces,
		routes:  routes,
		log:     log.WithComponent("engine"),
		metrics: NewMetrics(),
	}
}

// Metrics returns the engine's decision counters
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// Run resolves every destination address read from in, one per
// non-blank non-comment line, and writes one outcome line to out in
// input order. Unparsable addresses are logged, counted and skipped;
// only read/write failures or context cancellation abort the run.
func (e *Engine) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	start := time.Now()

	scanner := bufio.NewScanner(in)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Text()
		if table.SkipLine(line) {
			continue
		}

		dest, err := netaddr.ParseAddr(strings.TrimSpace(line))
		if err != nil {
			e.log.AddressSkipped(lineNum, line, err.Error())
			e.metrics.RecordSkipped()
			continue
		}

		d := resolver.Resolve(dest, e.ifaces, e.routes)
		e.recordDecision(d)

		if _, err := fmt.Fprintln(out, d); err != nil {
			return fmt.Errorf("failed to write decision: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read destinations: %w", err)
	}

	e.logCompleted(start)
	return nil
}

// RunConcurrent behaves exactly like Run but resolves destinations on
// a goroutine pool of the given size. Output order still matches
// input order: results are written back by input index once the pool
// drains.
func (e *Engine) RunConcurrent(ctx context.Context, in io.Reader, out io.Writer, poolSize int) error {
	if poolSize <= 1 {
		return e.Run(ctx, in, out)
	}

	start := time.Now()

	// Collection pass: parse destinations up front so skip diagnostics
	// keep their input line numbers and ordering.
	var dests []netaddr.Addr
	scanner := bufio.NewScanner(in)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := scanner.Text()
		if table.SkipLine(line) {
			continue
		}

		dest, err := netaddr.ParseAddr(strings.TrimSpace(line))
		if err != nil {
			e.log.AddressSkipped(lineNum, line, err.Error())
			e.metrics.RecordSkipped()
			continue
		}
		dests = append(dests, dest)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read destinations: %w", err)
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return fmt.Errorf("failed to create resolver pool: %w", err)
	}
	defer pool.Release()

	decisions := make([]resolver.Decision, len(dests))
	var wg sync.WaitGroup

	for i, dest := range dests {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			decisions[i] = resolver.Resolve(dest, e.ifaces, e.routes)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("failed to submit resolve job: %w", err)
		}
	}
	wg.Wait()

	for _, d := range decisions {
		e.recordDecision(d)
		if _, err := fmt.Fprintln(out, d); err != nil {
			return fmt.Errorf("failed to write decision: %w", err)
		}
	}

	e.logCompleted(start)
	return nil
}

func (e *Engine) recordDecision(d resolver.Decision) {
	e.metrics.RecordDecision(d.Kind)

	if d.Kind == resolver.Unreachable && !d.NoRoute {
		// Configuration defect rather than an ordinary miss: a route
		// matched but its next hop is not on any attached subnet.
		e.log.Warn("Bad interface, can't find next hop", "dest", d.Dest.String())
		return
	}
	e.log.Debug("Decision made", "dest", d.Dest.String(), "kind", d.Kind.String())
}

func (e *Engine) logCompleted(start time.Time) {
	processed, direct, forwarded, unreachable, skipped := e.metrics.Snapshot()
	e.log.RunCompleted(processed, direct, forwarded, unreachable, skipped, time.Since(start).Milliseconds())
}
