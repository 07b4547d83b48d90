// Package pipeline sequences the three content stages (writer, brand
// guardian, SEO specialist) as a strictly linear state machine with a
// single-run guard and cooperative cancellation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"copydesk/pkg/agents"
	"copydesk/pkg/cache"
	"copydesk/pkg/config"
	"copydesk/pkg/llm"
	"copydesk/pkg/logx"
	"copydesk/pkg/monitor"
)

// ErrRunInProgress rejects a Run while another run holds the pipeline.
var ErrRunInProgress = errors.New("a pipeline run is already in progress")

// Update is a plain-data display signal emitted at each state change. The
// rendering boundary consumes these; the pipeline never renders anything
// itself.
type Update struct {
	State   State
	Stage   string
	Message string
}

// Runner owns one pipeline instance: the stage agents, the shared grounding
// cache, the monitor, and the run-state guard. At most one run is in flight
// at a time; Cancel aborts it cooperatively.
type Runner struct {
	writer *agents.Writer
	brand  *agents.BrandGuardian
	seo    *agents.SEOSpecialist

	grounding *cache.Cache[string, *llm.Grounding]
	monitor   *monitor.Monitor
	cfg       config.Config
	logger    *logx.Logger

	// Notify receives display-state signals. Nil disables them. Set it
	// before the first Run; it is read on every transition.
	Notify func(Update)

	mu      sync.Mutex
	state   State
	running bool
	runID   string
	stage   string
	cancel  context.CancelFunc
}

// NewRunner wires the three stage agents around client. The client is
// instrumented so every request is attributed to the active run and stage;
// pass the retry-wrapped client, not the bare transport.
func NewRunner(client llm.Client, cfg config.Config, mon *monitor.Monitor, logger *logx.Logger) *Runner {
	if mon == nil {
		mon = monitor.New(nil, nil)
	}
	if logger == nil {
		logger = logx.NewLogger("pipeline")
	}

	r := &Runner{
		grounding: cache.New[string, *llm.Grounding](cfg.Cache.Capacity, cfg.Cache.TTL()),
		monitor:   mon,
		cfg:       cfg,
		logger:    logger,
		state:     StateIdle,
	}

	instrumented := llm.NewMetricsClient(client, mon.Recorder(), r, logx.NewLogger("llm.metrics"))
	r.writer = agents.NewWriter(instrumented, r.grounding, cfg.Generation, nil)
	r.brand = agents.NewBrandGuardian(instrumented, cfg.Generation, nil)
	r.seo = agents.NewSEOSpecialist(instrumented, cfg.Generation, nil)
	return r
}

// Run executes the full pipeline for topic and returns the terminal
// artifact. The topic is sanitized first; a topic that fails validation is
// rejected before any state changes. Only one run may be in flight; a
// concurrent call fails with ErrRunInProgress. After a run finishes, in any
// state, the runner is ready for the next one.
func (r *Runner) Run(ctx context.Context, topic string) (*Outcome, error) {
	clean, err := SanitizeTopic(topic, r.cfg.Topic)
	if err != nil {
		return nil, err
	}

	runCtx, err := r.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.finish()

	r.logger.Info("starting run %s: %q", r.RunID(), clean)
	return r.execute(runCtx, clean)
}

// Cancel aborts the in-flight run, if any. The cancellation is observed at
// the next suspension point inside the active call. Safe to call at any
// time, from any goroutine.
func (r *Runner) Cancel() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// State returns the current pipeline state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// RunID returns the identifier of the current (or most recent) run.
func (r *Runner) RunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runID
}

// Stage returns the label of the stage currently executing, or the stage
// that ended the run.
func (r *Runner) Stage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stage
}

// Monitor returns the performance monitor observing the stages.
func (r *Runner) Monitor() *monitor.Monitor {
	return r.monitor
}

// GroundingStats returns counters from the shared grounding cache.
func (r *Runner) GroundingStats() cache.Stats {
	return r.grounding.Stats()
}

// begin claims the single-run slot, resets a parked terminal state back to
// IDLE, and creates the per-run cancellation context.
func (r *Runner) begin(ctx context.Context) (context.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return nil, ErrRunInProgress
	}
	if r.state != StateIdle {
		r.logger.Debug("resetting %s state for a fresh run", r.state)
		r.state = StateIdle
	}

	r.running = true
	r.runID = uuid.NewString()
	r.stage = ""

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	return runCtx, nil
}

// finish releases the run slot. The per-run context is cancelled so nothing
// orphaned keeps waiting on it.
func (r *Runner) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.running = false
}

// execute drives the three stages in order. Each stage consumes the previous
// stage's text; the first failure parks the pipeline in FAILED with a
// stage-labelled error.
func (r *Runner) execute(ctx context.Context, topic string) (*Outcome, error) {
	if err := r.transitionTo(StateWriting, r.writer.Name(), "Drafting post"); err != nil {
		return nil, err
	}
	draft, err := monitor.Track(r.monitor, r.writer.Name(), func() (*llm.Result, error) {
		return r.writer.Execute(ctx, topic)
	})
	if err != nil {
		return nil, r.failStage(r.writer.Name(), err)
	}

	if err := r.transitionTo(StateReviewing, r.brand.Name(), "Reviewing draft against house style"); err != nil {
		return nil, err
	}
	review, err := monitor.Track(r.monitor, r.brand.Name(), func() (*llm.Result, error) {
		return r.brand.Execute(ctx, draft.Text)
	})
	if err != nil {
		return nil, r.failStage(r.brand.Name(), err)
	}

	if err := r.transitionTo(StateOptimizing, r.seo.Name(), "Generating SEO metadata"); err != nil {
		return nil, err
	}
	seoResult, err := monitor.Track(r.monitor, r.seo.Name(), func() (*llm.Result, error) {
		return r.seo.Execute(ctx, review.Text)
	})
	if err != nil {
		return nil, r.failStage(r.seo.Name(), err)
	}

	outcome := buildOutcome(r.RunID(), topic, draft, review, seoResult)
	if err := r.transitionTo(StateDone, "", "Post ready"); err != nil {
		return nil, err
	}
	return outcome, nil
}

// transitionTo validates the move against Transitions, applies it, and
// emits the display update outside the lock.
func (r *Runner) transitionTo(to State, stage, message string) error {
	r.mu.Lock()
	from := r.state
	if !CanTransition(from, to) {
		r.mu.Unlock()
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, from, to)
	}
	r.state = to
	r.stage = stage
	notify := r.Notify
	r.mu.Unlock()

	r.logger.Info("🔄 Pipeline transition: %s → %s", from, to)
	if notify != nil {
		notify(Update{State: to, Stage: stage, Message: message})
	}
	return nil
}

// StageError identifies the stage that ended a run.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// failStage parks the pipeline in FAILED and returns the stage-labelled
// error. Partial artifacts are not rolled back; the furthest failure point
// is what gets reported.
func (r *Runner) failStage(stage string, err error) error {
	serr := &StageError{Stage: stage, Err: err}
	r.logger.Error("run %s failed: %v", r.RunID(), serr)
	if terr := r.transitionTo(StateFailed, stage, serr.Error()); terr != nil {
		r.logger.Error("could not record failure state: %v", terr)
	}
	return serr
}
