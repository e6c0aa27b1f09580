package alloc

import (
	"testing"
	"time"
)

func TestLevelForThresholds(t *testing.T) {
	cfg := MonitorConfig{Warning: 100, Critical: 200, Emergency: 300}
	cases := []struct {
		bytes uint64
		want  Level
	}{
		{0, LevelNormal},
		{99, LevelNormal},
		{100, LevelWarning},
		{199, LevelWarning},
		{200, LevelCritical},
		{299, LevelCritical},
		{300, LevelEmergency},
		{1000, LevelEmergency},
	}
	for _, c := range cases {
		if got := levelFor(c.bytes, cfg); got != c.want {
			t.Errorf("levelFor(%d) = %v, want %v", c.bytes, got, c.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	if LevelWarning.String() != "warning" {
		t.Fatalf("unexpected String(): %s", LevelWarning.String())
	}
	if LevelNormal.String() != "normal" {
		t.Fatalf("unexpected String(): %s", LevelNormal.String())
	}
}

func TestMonitorEventFiresOnThresholdCross(t *testing.T) {
	u := NewUnified(Config{ChunkMemLimit: 1 << 20})
	defer u.Shutdown()

	var got []MonitorEvent
	u.monitor.cfg.Warning = 10
	u.monitor.cfg.Critical = 20
	u.monitor.cfg.Emergency = 30
	u.monitor.cfg.OnEvent = func(ev MonitorEvent) { got = append(got, ev) }

	u.allocated.Store(5)
	u.monitor.sample()
	if len(got) != 0 {
		t.Fatalf("expected no event below warning, got %d", len(got))
	}

	u.allocated.Store(15)
	u.monitor.sample()
	if len(got) != 1 || got[0].Level != LevelWarning {
		t.Fatalf("expected one warning event, got %+v", got)
	}

	u.allocated.Store(15)
	u.monitor.sample()
	if len(got) != 1 {
		t.Fatalf("expected no repeat event at same level, got %d", len(got))
	}

	u.allocated.Store(25)
	u.monitor.sample()
	if len(got) != 2 || got[1].Level != LevelCritical {
		t.Fatalf("expected a critical event, got %+v", got)
	}
}

func TestMonitorTrendPositiveSlope(t *testing.T) {
	m := &Monitor{cfg: MonitorConfig{}}
	base := time.Unix(0, 0)
	for i := 0; i < 5; i++ {
		m.history = append(m.history, historyPoint{
			at:    base.Add(time.Duration(i) * time.Second),
			bytes: uint64(1000 * i),
		})
	}
	trend := m.trendLocked()
	if trend < 900 || trend > 1100 {
		t.Fatalf("expected trend near 1000 B/s, got %f", trend)
	}
}

func TestMonitorTrendFlat(t *testing.T) {
	m := &Monitor{cfg: MonitorConfig{}}
	base := time.Unix(0, 0)
	for i := 0; i < 5; i++ {
		m.history = append(m.history, historyPoint{
			at:    base.Add(time.Duration(i) * time.Second),
			bytes: 4096,
		})
	}
	if trend := m.trendLocked(); trend != 0 {
		t.Fatalf("expected zero trend for flat history, got %f", trend)
	}
}

func TestMonitorTrendInsufficientHistory(t *testing.T) {
	m := &Monitor{cfg: MonitorConfig{}}
	if trend := m.trendLocked(); trend != 0 {
		t.Fatalf("expected zero trend with no history, got %f", trend)
	}
	m.history = append(m.history, historyPoint{at: time.Unix(0, 0), bytes: 10})
	if trend := m.trendLocked(); trend != 0 {
		t.Fatalf("expected zero trend with one point, got %f", trend)
	}
}

func TestMonitorHistoryCapped(t *testing.T) {
	u := NewUnified(Config{ChunkMemLimit: 1 << 20})
	defer u.Shutdown()
	base := time.Now()
	for i := 0; i < maxHistoryPoints+50; i++ {
		u.monitor.mu.Lock()
		u.monitor.history = append(u.monitor.history, historyPoint{at: base.Add(time.Duration(i) * time.Millisecond), bytes: uint64(i)})
		if len(u.monitor.history) > maxHistoryPoints {
			u.monitor.history = u.monitor.history[len(u.monitor.history)-maxHistoryPoints:]
		}
		u.monitor.mu.Unlock()
	}
	if got := len(u.monitor.History()); got != maxHistoryPoints {
		t.Fatalf("expected history capped at %d, got %d", maxHistoryPoints, got)
	}
}

func TestCleanupStrategiesRunInPriorityOrder(t *testing.T) {
	u := NewUnified(Config{ChunkMemLimit: 1 << 20})
	defer u.Shutdown()

	var order []string
	u.monitor.strategies = []CleanupStrategy{
		fakeStrategy{name: "first", freed: 0, ran: &order},
		fakeStrategy{name: "second", freed: 0, ran: &order},
	}
	// Keep usage above the warning threshold so cleanup runs every strategy.
	u.monitor.cfg.Warning = 10
	u.allocated.Store(100)
	u.monitor.runCleanup(LevelEmergency, time.Now())
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected strategy order: %v", order)
	}
}

type fakeStrategy struct {
	name  string
	freed uint64
	ran   *[]string
}

func (f fakeStrategy) Name() string { return f.name }
func (f fakeStrategy) Run(u *Unified) (uint64, error) {
	if f.ran != nil {
		*f.ran = append(*f.ran, f.name)
	}
	return f.freed, nil
}

func TestRegisterStrategyAppendsAfterDefaults(t *testing.T) {
	u := NewUnified(Config{ChunkMemLimit: 1 << 20})
	defer u.Shutdown()
	u.monitor.RegisterStrategy(fakeStrategy{name: "custom"})
	names := make([]string, len(u.monitor.strategies))
	for i, s := range u.monitor.strategies {
		names[i] = s.Name()
	}
	if names[len(names)-1] != "custom" {
		t.Fatalf("expected custom strategy last, got %v", names)
	}
	if names[0] != "compact" || names[1] != "full reset" {
		t.Fatalf("expected default strategies first, got %v", names)
	}
}

func TestStartStopIsIdempotent(t *testing.T) {
	u := NewUnified(Config{ChunkMemLimit: 1 << 20})
	u.Shutdown()
	u.Shutdown()
}
