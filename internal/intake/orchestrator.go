package intake

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/exam-report-intake/constants"
	"github.com/joseph-ayodele/exam-report-intake/internal/common"
)

// Processor runs one intake. *Pipeline is the production implementation.
type Processor interface {
	Process(ctx context.Context, art Artifact, format constants.ExamFormat, observe Observer) (*Result, error)
}

// Outcome is delivered to the listener once per non-superseded intake.
// Exactly one of Result and Err is set.
type Outcome struct {
	Generation uint64
	Result     *Result
	Err        error
}

// Listener receives outcomes. It is called from the intake goroutine.
type Listener func(Outcome)

// Orchestrator accepts one artifact at a time. A new submission supersedes the
// in-flight one: the old intake is canceled and its outcome is never delivered.
type Orchestrator struct {
	proc     Processor
	listener Listener
	logger   *slog.Logger
	progress chan StateChange

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  constants.IntakeState

	wg sync.WaitGroup
}

type OrchestratorOption func(*Orchestrator)

// WithProgressBuffer sizes the progress channel. Changes are dropped when it is full.
func WithProgressBuffer(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.progress = make(chan StateChange, n)
		}
	}
}

func NewOrchestrator(proc Processor, listener Listener, logger *slog.Logger, opts ...OrchestratorOption) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		proc:     proc,
		listener: listener,
		logger:   logger,
		progress: make(chan StateChange, 32),
		state:    constants.StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Progress is a best-effort feed of state changes for the current intake.
func (o *Orchestrator) Progress() <-chan StateChange {
	return o.progress
}

// State returns the state of the current intake.
func (o *Orchestrator) State() constants.IntakeState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Generation returns the current generation. Cancel also advances it.
func (o *Orchestrator) Generation() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.gen
}

// Submit starts an intake and returns its generation. Any in-flight intake is canceled.
func (o *Orchestrator) Submit(ctx context.Context, art Artifact, format constants.ExamFormat) uint64 {
	ictx, cancel := context.WithCancel(ctx)

	o.mu.Lock()
	if o.cancel != nil {
		o.logger.Info("intake.superseded", "generation", o.gen)
		o.cancel()
	}
	o.gen++
	gen := o.gen
	o.cancel = cancel
	o.state = constants.StateIdle
	o.mu.Unlock()

	intakeID := uuid.NewString()
	ictx = common.WithGeneration(ictx, gen)
	ictx = common.WithIntakeID(ictx, intakeID)

	o.logger.Info("intake.submitted", "generation", gen, "intake_id", intakeID, "name", art.Name, "format", format)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer cancel()
		res, err := o.proc.Process(ictx, art, format, func(c StateChange) { o.observe(gen, c) })
		o.deliver(gen, res, err)
	}()
	return gen
}

// Cancel abandons the in-flight intake without starting a new one.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel == nil {
		return
	}
	o.cancel()
	o.cancel = nil
	o.gen++
	o.state = constants.StateIdle
}

// Wait blocks until every started intake goroutine has returned.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) observe(gen uint64, c StateChange) {
	o.mu.Lock()
	if gen != o.gen {
		o.mu.Unlock()
		return
	}
	o.state = c.To
	o.mu.Unlock()
	c.Generation = gen
	o.publish(c)
}

func (o *Orchestrator) publish(c StateChange) {
	select {
	case o.progress <- c:
	default:
		o.logger.Debug("intake.progress.dropped", "generation", c.Generation, "to", c.To)
	}
}

// deliver hands the outcome to the listener if gen is still current, then resets to IDLE.
func (o *Orchestrator) deliver(gen uint64, res *Result, err error) {
	o.mu.Lock()
	if gen != o.gen {
		o.mu.Unlock()
		o.logger.Debug("intake.stale.discarded", "generation", gen, "err", err)
		return
	}
	from := o.state
	o.cancel = nil
	o.state = constants.StateIdle
	o.mu.Unlock()

	if o.listener != nil {
		o.listener(Outcome{Generation: gen, Result: res, Err: err})
	}
	o.publish(StateChange{Generation: gen, From: from, To: constants.StateIdle, At: time.Now().UTC()})
}
