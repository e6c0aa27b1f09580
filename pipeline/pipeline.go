package pipeline

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/xlsxcore/engine/alloc"
	"github.com/xlsxcore/engine/workqueue"
	"github.com/xlsxcore/engine/xerr"
)

// State is the pipeline's atomic lifecycle state (§4.7 "State machine").
type State int32

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StatePaused
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// DefaultQueueCapacity is the default bounded capacity of each inter-stage
// queue (§4.7 "Queues").
const DefaultQueueCapacity = 64

// DefaultMemoryLimitBytes is the default live-memory ceiling Submit
// enforces (§4.7 "Back-pressure").
const DefaultMemoryLimitBytes = 512 << 20

// pausePollInterval is how long a worker sleeps between checks of the
// pipeline's state while paused (§4.7 "pause... workers sleep briefly when
// paused").
const pausePollInterval = 5 * time.Millisecond

// Config configures a Pipeline's worker pools, queue depths, and
// back-pressure limit.
type Config struct {
	WorkerCounts    [4]int
	QueueCapacity   int
	MemoryLimit     uint64
	NonblockSubmit  bool
	Allocator       *alloc.Unified
}

func (c *Config) setDefaults() {
	if c.WorkerCounts == ([4]int{}) {
		c.WorkerCounts = DefaultWorkerCounts
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = DefaultQueueCapacity
	}
	if c.MemoryLimit == 0 {
		c.MemoryLimit = DefaultMemoryLimitBytes
	}
}

// Pipeline is the four-stage asynchronous batch pipeline (C7).
type Pipeline struct {
	cfg    Config
	stages [numStages]Stage

	queues     [numStages]*workqueue.Queue[*Batch]
	completion *workqueue.Queue[*Batch]

	state atomic.Int32

	failures  [numStages]atomic.Uint64
	completed atomic.Uint64
	nextID    atomic.Uint64

	wg sync.WaitGroup
}

// New constructs a Pipeline wired with the four fixed stages in order.
func New(cfg Config, preprocess *PreprocessStage, xmlGen *XMLGenerateStage, compress *CompressStage, output *OutputStage) *Pipeline {
	cfg.setDefaults()
	p := &Pipeline{cfg: cfg}
	p.stages = [numStages]Stage{preprocess, xmlGen, compress, output}
	for i := range p.queues {
		p.queues[i] = workqueue.New[*Batch](cfg.QueueCapacity)
	}
	p.completion = workqueue.New[*Batch](cfg.QueueCapacity)
	p.state.Store(int32(StateStopped))
	return p
}

// State returns the pipeline's current lifecycle state.
func (p *Pipeline) State() State { return State(p.state.Load()) }

func (p *Pipeline) transition(from, to State) bool {
	return p.state.CompareAndSwap(int32(from), int32(to))
}

// Start spins up each stage's configured worker pool and sets state to
// Running (§4.7 "Lifecycle").
func (p *Pipeline) Start() error {
	if !p.transition(StateStopped, StateStarting) {
		return xerr.New(xerr.InvalidOperation, "pipeline.Start", "pipeline is not stopped")
	}
	for i := StageIndex(0); i < numStages; i++ {
		n := p.cfg.WorkerCounts[i]
		for w := 0; w < n; w++ {
			p.wg.Add(1)
			go p.runWorker(i)
		}
	}
	p.state.Store(int32(StateRunning))
	return nil
}

// Pause sets state to Paused; running workers observe it at their next
// dequeue attempt and sleep rather than process.
func (p *Pipeline) Pause() error {
	if !p.transition(StateRunning, StatePaused) {
		return xerr.New(xerr.InvalidOperation, "pipeline.Pause", "pipeline is not running")
	}
	return nil
}

// Resume transitions a Paused pipeline back to Running.
func (p *Pipeline) Resume() error {
	if !p.transition(StatePaused, StateRunning) {
		return xerr.New(xerr.InvalidOperation, "pipeline.Resume", "pipeline is not paused")
	}
	return nil
}

// Stop sets the stop flag, closes every queue to unblock waiting workers,
// and joins them. timeout is accepted but advisory, per §4.7
// "Cancellation"; Stop always waits for workers to finish their current
// stage call.
func (p *Pipeline) Stop(timeout time.Duration) error {
	cur := p.State()
	if cur != StateRunning && cur != StatePaused {
		return xerr.New(xerr.InvalidOperation, "pipeline.Stop", "pipeline is not running")
	}
	p.state.Store(int32(StateStopping))
	for _, q := range p.queues {
		q.Close()
	}
	p.completion.Close()
	p.wg.Wait()
	p.state.Store(int32(StateStopped))
	return nil
}

// Submit enqueues cells as a new batch for processing. It is refused with
// a distinct error if the allocator's live memory usage already exceeds
// the pipeline's configured limit (§4.7 "Back-pressure"), or if the first
// queue is full and NonblockSubmit is set.
func (p *Pipeline) Submit(b *Batch) error {
	if p.cfg.Allocator != nil && p.cfg.Allocator.BytesInUse() > p.cfg.MemoryLimit {
		return xerr.New(xerr.MemoryError, "pipeline.Submit", "live memory exceeds pipeline limit")
	}
	b.ID = p.nextID.Add(1)
	if p.cfg.NonblockSubmit {
		if !p.queues[0].TryPush(b) {
			return xerr.New(xerr.Timeout, "pipeline.Submit", "queue full")
		}
		return nil
	}
	if !p.queues[0].Push(b) {
		return xerr.New(xerr.InvalidOperation, "pipeline.Submit", "pipeline is stopped")
	}
	return nil
}

// Completion returns the queue of successfully processed batches. A
// consumer responsible for reassembly (e.g. a ZIP writer) pops from it;
// the pipeline itself guarantees no cross-batch ordering (§4.7
// "Ordering").
func (p *Pipeline) Completion() *workqueue.Queue[*Batch] { return p.completion }

// Failures returns the number of batches dropped at each stage so far.
func (p *Pipeline) Failures() [4]uint64 {
	var out [4]uint64
	for i := range p.failures {
		out[i] = p.failures[i].Load()
	}
	return out
}

// Completed returns the number of batches that reached the completion
// queue.
func (p *Pipeline) Completed() uint64 { return p.completed.Load() }

func (p *Pipeline) runWorker(stageIdx StageIndex) {
	defer p.wg.Done()
	stage := p.stages[stageIdx]
	in := p.queues[stageIdx]
	var out *workqueue.Queue[*Batch]
	if int(stageIdx) == int(numStages)-1 {
		out = p.completion
	} else {
		out = p.queues[stageIdx+1]
	}

	for {
		for p.State() == StatePaused {
			time.Sleep(pausePollInterval)
		}
		b, ok := in.Pop()
		if !ok {
			return
		}
		result, err := stage.Process(b)
		if err != nil {
			p.failures[stageIdx].Add(1)
			continue
		}
		if !out.Push(result) {
			// destination closed mid-flight (pipeline stopping): the
			// batch's memory is released when result goes out of scope.
			continue
		}
		if int(stageIdx) == int(numStages)-1 {
			p.completed.Add(1)
		}
	}
}
