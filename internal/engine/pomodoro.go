package engine

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TaskSink routes a completed focus session to the attached task.
// storage.TaskRepo satisfies it.
type TaskSink interface {
	IncrementPomodoro(ctx context.Context, id int64, at time.Time) error
}

// TimeSink receives flushed focus seconds. studytime.Store satisfies it.
type TimeSink interface {
	Add(seconds int) (int, error)
}

// Notifier is the audible/visual cue fired when a phase ends. It is a side
// effect only: a panicking or failing notifier never affects the cycle.
type Notifier interface {
	PhaseEnded(ended Phase)
}

// Pomodoro is the cycle state machine: Focus / Short Break / Long Break with
// a one-second countdown. The countdown is driven externally by Tick calls,
// so a paused timer never catches up after a gap; study time, by contrast,
// accrues from wall-clock deltas so delayed ticks lose nothing.
//
// All methods are safe for concurrent use. Callbacks run on the calling
// goroutine with the internal lock held and must not call back into the
// engine.
type Pomodoro struct {
	mu sync.Mutex

	cfg       Config
	phase     Phase
	remaining int
	running   bool

	// completedFocus counts focus phases finished since the cycle began;
	// every cfg.LongBreakEvery-th one is followed by a long break.
	completedFocus int
	attachedTask   int64

	// sessionStart marks the open accrual window in the current focus phase;
	// pending holds accrued-but-unflushed seconds.
	sessionStart *time.Time
	pending      float64

	tasks    TaskSink
	study    TimeSink
	notifier Notifier
	now      func() time.Time
	lastErr  error

	// State is mutated before any of these fire.
	OnPhaseChange   func(phase Phase, remaining int)
	OnTick          func(phase Phase, remaining int)
	OnCycleComplete func(next Phase)
}

func NewPomodoro(cfg Config, tasks TaskSink, study TimeSink, notifier Notifier) *Pomodoro {
	cfg = cfg.Normalize()
	return &Pomodoro{
		cfg:       cfg,
		phase:     PhaseFocus,
		remaining: cfg.FocusSeconds,
		tasks:     tasks,
		study:     study,
		notifier:  notifier,
		now:       time.Now,
	}
}

// AttachTask associates a task id for pomodoro-increment routing. The
// reference is non-owning: the task may be deleted before the focus phase
// ends, in which case the increment is a no-op. Zero detaches.
func (p *Pomodoro) AttachTask(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attachedTask = id
}

// SetConfig swaps the cycle durations at runtime. The running countdown is
// not shortened retroactively; new durations apply from the next reload.
func (p *Pomodoro) SetConfig(cfg Config) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = cfg.Normalize()
}

// Start begins (or resumes) the countdown. No-op if already running. The
// caller is responsible for delivering Tick once per second while running.
func (p *Pomodoro) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	if p.remaining <= 0 {
		p.remaining = p.cfg.DurationFor(p.phase)
	}
	p.running = true
	p.openWindow()
}

// Pause stops the countdown and flushes any open accrual window to the
// study-time counter. No-op if not running.
func (p *Pomodoro) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.running = false
	p.closeWindow()
	p.flush()
}

// Reset flushes any open accrual window, forces the phase back to Focus with
// its full configured duration, and stops the timer. The attached task is
// kept.
func (p *Pomodoro) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeWindow()
	p.flush()
	p.running = false
	p.phase = PhaseFocus
	p.remaining = p.cfg.FocusSeconds
	p.notifyPhaseChange()
}

// SwitchPhase jumps to the target phase with its configured duration. A
// running engine keeps running; entering Focus opens a fresh accrual window.
func (p *Pomodoro) SwitchPhase(target Phase) {
	if !target.IsValid() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeWindow()
	p.flush()
	p.phase = target
	p.remaining = p.cfg.DurationFor(target)
	p.notifyPhaseChange()
	if p.running {
		p.openWindow()
	}
}

// Tick advances the countdown by one second. The driver calls it once per
// second while the engine is running; calls on a paused engine are ignored.
func (p *Pomodoro) Tick(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	if p.remaining <= 0 {
		p.handlePhaseEnd(ctx)
		return
	}
	p.remaining--
	if p.OnTick != nil {
		p.OnTick(p.phase, p.remaining)
	}
}

func (p *Pomodoro) handlePhaseEnd(ctx context.Context) {
	ended := p.phase
	p.notify(ended)

	if ended == PhaseFocus {
		p.completedFocus++
		if p.attachedTask > 0 && p.tasks != nil {
			if err := p.tasks.IncrementPomodoro(ctx, p.attachedTask, p.now()); err != nil {
				p.lastErr = fmt.Errorf("record pomodoro: %w", err)
			}
		}
		p.closeWindow()
		p.flush()
	}

	var next Phase
	if ended == PhaseFocus {
		if p.completedFocus%p.cfg.LongBreakEvery == 0 {
			next = PhaseLongBreak
		} else {
			next = PhaseShortBreak
		}
	} else {
		next = PhaseFocus
	}

	p.phase = next
	p.remaining = p.cfg.DurationFor(next)
	if p.running && next == PhaseFocus {
		p.openWindow()
	}
	p.notifyPhaseChange()
	if p.OnCycleComplete != nil {
		p.OnCycleComplete(next)
	}
}

// openWindow starts wall-clock accrual; only focus time counts.
func (p *Pomodoro) openWindow() {
	if p.phase != PhaseFocus || p.sessionStart != nil {
		return
	}
	t := p.now()
	p.sessionStart = &t
}

func (p *Pomodoro) closeWindow() {
	if p.sessionStart == nil {
		return
	}
	p.pending += p.now().Sub(*p.sessionStart).Seconds()
	p.sessionStart = nil
}

// flush commits pending accrued seconds to the study-time counter. Fractions
// below one second are dropped with the flush, matching tick granularity.
func (p *Pomodoro) flush() {
	secs := int(p.pending)
	p.pending = 0
	if secs <= 0 || p.study == nil {
		return
	}
	if _, err := p.study.Add(secs); err != nil {
		p.lastErr = fmt.Errorf("flush study time: %w", err)
	}
}

func (p *Pomodoro) notify(ended Phase) {
	if p.notifier == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	p.notifier.PhaseEnded(ended)
}

func (p *Pomodoro) notifyPhaseChange() {
	if p.OnPhaseChange != nil {
		p.OnPhaseChange(p.phase, p.remaining)
	}
}

// LastError returns the most recent non-fatal sink failure, if any, and
// clears it. The presentation layer shows it as an alert.
func (p *Pomodoro) LastError() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.lastErr
	p.lastErr = nil
	return err
}

// Snapshot is a copy of the externally visible engine state.
type Snapshot struct {
	Phase          Phase
	Remaining      int
	Running        bool
	CompletedFocus int
	AttachedTask   int64
}

func (p *Pomodoro) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		Phase:          p.phase,
		Remaining:      p.remaining,
		Running:        p.running,
		CompletedFocus: p.completedFocus,
		AttachedTask:   p.attachedTask,
	}
}

// FormatClock renders a countdown as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
