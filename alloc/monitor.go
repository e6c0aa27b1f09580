package alloc

import (
	"log"
	"sync"
	"time"
)

// Level classifies how far over budget the allocator's current usage is
// (spec §4.3 "Monitoring", §6 "Monitor thresholds").
type Level int

const (
	LevelNormal Level = iota
	LevelWarning
	LevelCritical
	LevelEmergency
)

func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	case LevelEmergency:
		return "emergency"
	default:
		return "normal"
	}
}

// Spec §6 default thresholds, in bytes.
const (
	DefaultWarningBytes   = 3072 << 20 // 3072 MiB
	DefaultCriticalBytes  = 3584 << 20 // 3584 MiB
	DefaultEmergencyBytes = 3840 << 20 // 3840 MiB
	DefaultLimitBytes     = 4096 << 20 // 4096 MiB

	defaultPollInterval  = time.Second
	smartReclaimInterval = 5 * time.Second
	maxHistoryPoints     = 300
	trendWindow          = 10
)

// MonitorEvent is delivered to a registered callback when usage crosses a
// threshold.
type MonitorEvent struct {
	Level Level
	Bytes uint64
	Trend float64 // extrapolated bytes/second growth rate
	At    time.Time
}

// MonitorConfig configures threshold levels, poll cadence, and
// auto-cleanup behavior for a Monitor.
type MonitorConfig struct {
	Warning       uint64
	Critical      uint64
	Emergency     uint64
	Limit         uint64
	PollInterval  time.Duration
	AutoCleanup   bool
	Logger        *log.Logger
	OnEvent       func(MonitorEvent)
}

func (c *MonitorConfig) setDefaults() {
	if c.Warning == 0 {
		c.Warning = DefaultWarningBytes
	}
	if c.Critical == 0 {
		c.Critical = DefaultCriticalBytes
	}
	if c.Emergency == 0 {
		c.Emergency = DefaultEmergencyBytes
	}
	if c.Limit == 0 {
		c.Limit = DefaultLimitBytes
	}
	if c.PollInterval == 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
}

// CleanupStrategy is a registered remediation action the monitor can run
// when usage crosses critical or higher (spec §4.3 "Monitoring").
type CleanupStrategy interface {
	Name() string
	Run(u *Unified) (freedBytes uint64, err error)
}

// compactStrategy runs C1.Compact + C2.Compact.
type compactStrategy struct{}

func (compactStrategy) Name() string { return "compact" }
func (compactStrategy) Run(u *Unified) (uint64, error) {
	freed := u.slab.Compact()
	freed += u.chunk.Compact()
	return freed, nil
}

// fullResetStrategy resets the chunk arena. Reserved for emergency level
// per spec §4.3.
type fullResetStrategy struct{}

func (fullResetStrategy) Name() string { return "full reset" }
func (fullResetStrategy) Run(u *Unified) (uint64, error) {
	freed := u.chunk.TotalBytes()
	u.chunk.Reset()
	u.chunk.Compact()
	return freed, nil
}

type historyPoint struct {
	at    time.Time
	bytes uint64
}

// Monitor polls a Unified allocator's usage on a dedicated thread,
// raises threshold events, predicts growth trends, and (optionally)
// drives automatic cleanup when usage crosses critical or higher
// (spec §4.3).
type Monitor struct {
	u      *Unified
	cfg    MonitorConfig
	logger *log.Logger

	mu          sync.Mutex
	history     []historyPoint
	strategies  []CleanupStrategy
	lastReclaim time.Time
	lastLevel   Level

	stopCh chan struct{}
	doneCh chan struct{}
}

func newMonitor(u *Unified, cfg MonitorConfig) *Monitor {
	cfg.setDefaults()
	m := &Monitor{
		u:      u,
		cfg:    cfg,
		logger: cfg.Logger,
		strategies: []CleanupStrategy{
			compactStrategy{},
			fullResetStrategy{},
		},
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	return m
}

// RegisterStrategy adds a cleanup strategy, tried after the two defaults
// ("compact" then "full reset") in registration order.
func (m *Monitor) RegisterStrategy(s CleanupStrategy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strategies = append(m.strategies, s)
}

func (m *Monitor) start() {
	go m.loop()
}

func (m *Monitor) stop() {
	select {
	case <-m.stopCh:
		// already stopped
	default:
		close(m.stopCh)
		<-m.doneCh
	}
}

func (m *Monitor) loop() {
	defer close(m.doneCh)
	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.sample()
		}
	}
}

// sample is the body of one monitor tick. It is a method (not inlined
// into loop) so tests can drive it synchronously without a real ticker.
// Per spec §7 "Monitor-thread exceptions are caught, logged, and the
// thread continues", any panic here is recovered and logged rather than
// killing the monitor goroutine.
func (m *Monitor) sample() {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Printf("alloc: monitor tick panicked: %v", r)
		}
	}()

	now := time.Now()
	bytes := m.u.BytesInUse()

	m.mu.Lock()
	m.history = append(m.history, historyPoint{now, bytes})
	if len(m.history) > maxHistoryPoints {
		m.history = m.history[len(m.history)-maxHistoryPoints:]
	}
	trend := m.trendLocked()
	level := levelFor(bytes, m.cfg)
	crossed := level > m.lastLevel
	m.lastLevel = level
	m.mu.Unlock()

	if crossed && level != LevelNormal {
		ev := MonitorEvent{Level: level, Bytes: bytes, Trend: trend, At: now}
		m.logger.Printf("alloc: usage %d bytes crossed %s threshold (trend %.1f B/s)", bytes, level, trend)
		if m.cfg.OnEvent != nil {
			m.cfg.OnEvent(ev)
		}
	}

	if m.cfg.AutoCleanup && level >= LevelCritical {
		m.runCleanup(level, now)
	}

	m.mu.Lock()
	dueForReclaim := now.Sub(m.lastReclaim) >= smartReclaimInterval
	if dueForReclaim {
		m.lastReclaim = now
	}
	m.mu.Unlock()
	if dueForReclaim {
		m.u.slab.SmartReclaim()
	}
}

func levelFor(bytes uint64, cfg MonitorConfig) Level {
	switch {
	case bytes >= cfg.Emergency:
		return LevelEmergency
	case bytes >= cfg.Critical:
		return LevelCritical
	case bytes >= cfg.Warning:
		return LevelWarning
	default:
		return LevelNormal
	}
}

// trendLocked performs a simple linear regression over the last
// trendWindow history points and returns the growth rate in bytes per
// second (spec §4.3 "Trend prediction"). Caller must hold m.mu.
func (m *Monitor) trendLocked() float64 {
	n := len(m.history)
	if n < 2 {
		return 0
	}
	if n > trendWindow {
		n = trendWindow
	}
	pts := m.history[len(m.history)-n:]

	t0 := pts[0].at
	var sumX, sumY, sumXY, sumXX float64
	for _, p := range pts {
		x := p.at.Sub(t0).Seconds()
		y := float64(p.bytes)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	nf := float64(len(pts))
	denom := nf*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (nf*sumXY - sumX*sumY) / denom
}

// runCleanup invokes registered strategies in priority order until usage
// drops below the warning threshold or the strategies are exhausted
// (spec §4.3 "auto-cleanup"). "full reset" is skipped below emergency level.
func (m *Monitor) runCleanup(level Level, now time.Time) {
	m.mu.Lock()
	strategies := append([]CleanupStrategy(nil), m.strategies...)
	m.mu.Unlock()

	for _, s := range strategies {
		if level < LevelEmergency && s.Name() == "full reset" {
			continue
		}
		freed, err := s.Run(m.u)
		if err != nil {
			m.logger.Printf("alloc: cleanup strategy %q failed: %v", s.Name(), err)
			continue
		}
		m.logger.Printf("alloc: cleanup strategy %q freed %d bytes", s.Name(), freed)
		if m.u.BytesInUse() < m.cfg.Warning {
			return
		}
	}
}

// History returns a copy of the monitor's rolling (timestamp, bytes)
// samples, for tests and diagnostics.
func (m *Monitor) History() []struct {
	At    time.Time
	Bytes uint64
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]struct {
		At    time.Time
		Bytes uint64
	}, len(m.history))
	for i, p := range m.history {
		out[i] = struct {
			At    time.Time
			Bytes uint64
		}{p.at, p.bytes}
	}
	return out
}
