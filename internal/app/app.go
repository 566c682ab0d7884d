package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/bus"
	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/config"
	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/sensors"
	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/table"
)

// Source is the property store the application reads from. The production
// implementation talks D-Bus; tests plug in fakes.
type Source interface {
	// Enumerate returns every sensor path under scope mapped to the bus
	// names serving it.
	Enumerate(ctx context.Context, scope string) (map[string][]string, error)
	// Properties fetches one sensor's property bag.
	Properties(ctx context.Context, service, path string) (sensors.Bag, error)
}

// Transmitter exports one snapshot to an external sink.
type Transmitter interface {
	Transmit(snap *sensors.Snapshot) error
}

// App drives one lssensors run: enumerate, sort, fetch, interpret, print,
// and in watch mode repeat for a fixed subset of sensors.
type App struct {
	cfg     *config.Config
	src     Source
	printer *table.Printer
	tx      Transmitter // optional
	logger  *logrus.Logger
}

// New assembles an application. tx may be nil when no export is configured.
func New(cfg *config.Config, src Source, printer *table.Printer, tx Transmitter, logger *logrus.Logger) *App {
	return &App{cfg: cfg, src: src, printer: printer, tx: tx, logger: logger}
}

// Run executes the configured mode and blocks until done (one-shot) or
// until ctx is cancelled (watch).
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Watching() {
		return a.watch(ctx)
	}
	return a.listOnce(ctx)
}

// listOnce prints every enumerated sensor exactly once. An enumeration
// failure is fatal; a per-sensor fetch failure only skips that sensor.
func (a *App) listOnce(ctx context.Context) error {
	tree, err := a.src.Enumerate(ctx, a.cfg.RootScope())
	if err != nil {
		return err
	}

	snap := a.collect(ctx, tree, sortedPaths(tree))
	a.print(snap)

	if a.tx != nil {
		if err := a.tx.Transmit(snap); err != nil {
			a.logger.WithError(err).Warn("Telemetry export failed")
		}
	}
	return nil
}

// watch repeats a full fetch-interpret-print cycle for the resolved watch
// subset at the configured interval until ctx is cancelled. Cycles are
// independent; only the printer's group marker carries over.
func (a *App) watch(ctx context.Context) error {
	tree, err := a.src.Enumerate(ctx, a.cfg.RootScope())
	if err != nil {
		return err
	}

	subset, err := ResolveWatchList(a.cfg.WatchNames, sortedPaths(tree))
	if err != nil {
		return err // fails before any output
	}

	snapshots := bus.New()
	defer snapshots.Close()

	grp, ctx := errgroup.WithContext(ctx)

	consoleSub := snapshots.Subscribe()
	grp.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case snap, ok := <-consoleSub:
				if !ok {
					return nil
				}
				a.print(snap)
			}
		}
	})

	if a.tx != nil {
		exportSub := snapshots.Subscribe()
		grp.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case snap, ok := <-exportSub:
					if !ok {
						return nil
					}
					if err := a.tx.Transmit(snap); err != nil {
						a.logger.WithError(err).Warn("Telemetry export failed")
					}
				}
			}
		})
	}

	grp.Go(func() error {
		interval := time.Duration(a.cfg.Interval) * time.Second
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		snapshots.Publish(a.collect(ctx, tree, subset))
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				snapshots.Publish(a.collect(ctx, tree, subset))
			}
		}
	})

	if err := grp.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// collect fetches and interprets the given paths in order. Fetch failures
// are logged and the sensor skipped; the rest of the cycle continues.
func (a *App) collect(ctx context.Context, tree map[string][]string, paths []string) *sensors.Snapshot {
	snap := &sensors.Snapshot{Taken: time.Now()}
	for _, path := range paths {
		for _, service := range tree[path] {
			callCtx, cancel := context.WithTimeout(ctx, config.CallTimeout)
			bag, err := a.src.Properties(callCtx, service, path)
			cancel()
			if err != nil {
				a.logger.WithError(err).WithFields(logrus.Fields{
					"path":    path,
					"service": service,
				}).Warn("Get properties failed, sensor skipped")
				continue
			}
			snap.Readings = append(snap.Readings, sensors.Reading{
				Path:    path,
				Service: service,
				View:    sensors.Interpret(bag),
			})
		}
	}
	return snap
}

func (a *App) print(snap *sensors.Snapshot) {
	for _, r := range snap.Readings {
		a.printer.Add(r)
	}
	a.printer.Flush()
}

// sortedPaths returns the tree's keys in natural order, so "temp2" lists
// before "temp10" no matter how the mapper ordered them.
func sortedPaths(tree map[string][]string) []string {
	paths := make([]string, 0, len(tree))
	for path := range tree {
		paths = append(paths, path)
	}
	sensors.SortPaths(paths)
	return paths
}

// ResolveWatchList maps the ordered watch names onto the enumerated path
// set. A name matches a path either exactly or by short name; every name
// must match at least one path or the whole run fails. Matches keep the
// watch-list order, and a name's multiple matches keep the natural path
// order they arrived in.
func ResolveWatchList(names, paths []string) ([]string, error) {
	var subset []string
	for _, name := range names {
		matched := false
		for _, path := range paths {
			if path == name || sensors.Name(path) == name {
				subset = append(subset, path)
				matched = true
			}
		}
		if !matched {
			return nil, fmt.Errorf("sensor %q not found", name)
		}
	}
	return subset, nil
}
