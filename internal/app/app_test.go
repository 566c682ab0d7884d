package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/config"
	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/sensors"
	"github.com/YADRO-KNS/obmc-yadro-lssensors/internal/table"
)

// fakeSource serves canned bags and records which sensors were fetched.
type fakeSource struct {
	mu      sync.Mutex
	tree    map[string][]string
	bags    map[string]sensors.Bag
	failing map[string]bool
	enumErr error
	fetched []string
}

func (f *fakeSource) Enumerate(ctx context.Context, scope string) (map[string][]string, error) {
	if f.enumErr != nil {
		return nil, f.enumErr
	}
	return f.tree, nil
}

func (f *fakeSource) Properties(ctx context.Context, service, path string) (sensors.Bag, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, path)
	f.mu.Unlock()
	if f.failing[path] {
		return nil, fmt.Errorf("transport error for %s", path)
	}
	return f.bags[path], nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func tempPath(name string) string {
	return "/xyz/openbmc_project/sensors/temperature/" + name
}

func newFakeSource() *fakeSource {
	const svc = "xyz.openbmc_project.HwmonTempSensor"
	bag := func(v int64) sensors.Bag {
		return sensors.Bag{
			"Value": sensors.Int64Value(v),
			"Scale": sensors.Int64Value(-3),
			"Unit":  sensors.StringValue("xyz.openbmc_project.Sensor.Value.Unit.DegreesC"),
		}
	}
	return &fakeSource{
		tree: map[string][]string{
			tempPath("cpu10"): {svc},
			tempPath("cpu2"):  {svc},
			tempPath("cpu1"):  {svc},
		},
		bags: map[string]sensors.Bag{
			tempPath("cpu1"):  bag(41000),
			tempPath("cpu2"):  bag(42000),
			tempPath("cpu10"): bag(50000),
		},
		failing: map[string]bool{},
	}
}

func TestListOnceSortsAndPrints(t *testing.T) {
	src := newFakeSource()
	var buf bytes.Buffer
	a := New(config.Default(), src, table.NewPrinter(&buf, table.List), nil, quietLogger())

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Natural order: cpu1, cpu2, cpu10.
	want := []string{tempPath("cpu1"), tempPath("cpu2"), tempPath("cpu10")}
	if len(src.fetched) != len(want) {
		t.Fatalf("fetched %v, want %v", src.fetched, want)
	}
	for i := range want {
		if src.fetched[i] != want[i] {
			t.Errorf("fetch order[%d] = %q, want %q", i, src.fetched[i], want[i])
		}
	}

	out := buf.String()
	if !strings.Contains(out, "temperature:") {
		t.Errorf("output missing group header:\n%s", out)
	}
	for _, cell := range []string{"cpu1", "42.000", "50.000", "\u00B0C"} {
		if !strings.Contains(out, cell) {
			t.Errorf("output missing %q:\n%s", cell, out)
		}
	}
}

func TestListOnceSkipsFailingSensor(t *testing.T) {
	src := newFakeSource()
	src.failing[tempPath("cpu2")] = true

	var buf bytes.Buffer
	a := New(config.Default(), src, table.NewPrinter(&buf, table.List), nil, quietLogger())
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "42.000") {
		t.Errorf("failing sensor's value printed:\n%s", out)
	}
	// Its siblings still print.
	if !strings.Contains(out, "41.000") || !strings.Contains(out, "50.000") {
		t.Errorf("surviving sensors missing:\n%s", out)
	}
}

func TestListOnceEnumerationFailureIsFatal(t *testing.T) {
	src := newFakeSource()
	src.enumErr = errors.New("mapper unavailable")

	var buf bytes.Buffer
	a := New(config.Default(), src, table.NewPrinter(&buf, table.List), nil, quietLogger())
	if err := a.Run(context.Background()); err == nil {
		t.Fatal("Run succeeded despite enumeration failure")
	}
	if buf.Len() != 0 {
		t.Errorf("output produced despite fatal enumeration failure: %q", buf.String())
	}
}

func TestResolveWatchList(t *testing.T) {
	paths := []string{
		tempPath("cpu1"), tempPath("cpu2"), tempPath("cpu10"),
		"/xyz/openbmc_project/sensors/voltage/p12v",
	}

	subset, err := ResolveWatchList([]string{"p12v", "cpu2"}, paths)
	if err != nil {
		t.Fatalf("ResolveWatchList: %v", err)
	}
	want := []string{"/xyz/openbmc_project/sensors/voltage/p12v", tempPath("cpu2")}
	if len(subset) != len(want) {
		t.Fatalf("subset = %v, want %v", subset, want)
	}
	for i := range want {
		if subset[i] != want[i] {
			t.Errorf("subset[%d] = %q, want %q", i, subset[i], want[i])
		}
	}

	// Full paths resolve too.
	if _, err := ResolveWatchList([]string{tempPath("cpu10")}, paths); err != nil {
		t.Errorf("full path lookup failed: %v", err)
	}

	if _, err := ResolveWatchList([]string{"cpu1", "nosuch"}, paths); err == nil {
		t.Error("unresolvable name did not fail")
	}
}

func TestWatchFailsBeforeOutputOnBadName(t *testing.T) {
	src := newFakeSource()
	cfg := config.Default()
	cfg.WatchNames = []string{"nosuch"}

	var buf bytes.Buffer
	a := New(cfg, src, table.NewPrinter(&buf, table.Watch), nil, quietLogger())
	if err := a.Run(context.Background()); err == nil {
		t.Fatal("Run succeeded with unresolvable watch name")
	}
	if buf.Len() != 0 {
		t.Errorf("output produced before watch-list failure: %q", buf.String())
	}
}

type countingTx struct {
	mu    sync.Mutex
	snaps []*sensors.Snapshot
}

func (c *countingTx) Transmit(snap *sensors.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snaps = append(c.snaps, snap)
	return nil
}

func TestWatchPrintsAndExports(t *testing.T) {
	src := newFakeSource()
	cfg := config.Default()
	cfg.WatchNames = []string{"cpu1"}
	cfg.Interval = 1

	var buf bytes.Buffer
	tx := &countingTx{}
	a := New(cfg, src, table.NewPrinter(&buf, table.Watch), tx, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	// The first cycle runs immediately; give the pipeline a moment.
	deadline := time.After(3 * time.Second)
	for {
		tx.mu.Lock()
		n := len(tx.snaps)
		tx.mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			cancel()
			t.Fatal("no snapshot exported within deadline")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v after cancel", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	tx.mu.Lock()
	first := tx.snaps[0]
	tx.mu.Unlock()
	if len(first.Readings) != 1 || first.Readings[0].Path != tempPath("cpu1") {
		t.Errorf("exported snapshot = %+v, want single cpu1 reading", first)
	}
}
