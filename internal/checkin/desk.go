package checkin

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"activitycheckin/internal/domain"
)

// Default display durations for the Failed and Done states.
const (
	DefaultErrorDisplay = 3 * time.Second
	DefaultDoneDisplay  = 2 * time.Second
)

// Timer schedules f after d and returns a function that cancels it.
type Timer func(d time.Duration, f func()) (stop func() bool)

func realTimer(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Config controls how long transient states stay on screen.
type Config struct {
	ErrorDisplay time.Duration
	DoneDisplay  time.Duration
}

// Desk is the check-in state machine for one operator. Methods are safe for concurrent
// use; a lookup or confirmation already in flight makes new commands fail with domain.ErrBusy.
type Desk struct {
	mu         sync.Mutex
	svc        domain.CheckInService
	operatorID string
	cfg        Config
	after      Timer
	logger     *slog.Logger

	state State
	// gen increases on every transition that makes earlier async results or timers stale.
	gen  uint64
	stop func() bool
}

// NewDesk returns a desk in Idle. A nil timer uses time.AfterFunc.
func NewDesk(operatorID string, svc domain.CheckInService, cfg Config, after Timer, logger *slog.Logger) *Desk {
	if after == nil {
		after = realTimer
	}
	return &Desk{svc: svc, operatorID: operatorID, cfg: cfg, after: after, logger: logger, state: Idle{}}
}

// State returns the current state.
func (d *Desk) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Scan resolves a token read from a QR code. Accepted in Idle and Resolved.
func (d *Desk) Scan(ctx context.Context, token string) (State, error) {
	gen, err := d.begin(Resolving{})
	if err != nil {
		return d.State(), err
	}
	res, err := d.svc.Resolve(ctx, token)

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return d.state, nil
	}
	if err != nil {
		d.log(ctx, "scan failed", err)
		d.transition(Failed{Message: messageFor(err)})
		d.schedule(d.cfg.ErrorDisplay)
		return d.state, nil
	}
	d.transition(Resolved{Resolution: res, Message: resolvedMessage(res)})
	return d.state, nil
}

// Search is the manual fallback: look up by activity and national id. Accepted in Idle and
// Resolved. A failed search returns to Idle at once with the reason.
func (d *Desk) Search(ctx context.Context, activityID, nationalID string) (State, error) {
	gen, err := d.begin(Resolving{Manual: true})
	if err != nil {
		return d.State(), err
	}
	res, err := d.svc.ResolveByNationalID(ctx, activityID, nationalID)

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return d.state, nil
	}
	if err != nil {
		d.log(ctx, "manual search failed", err)
		d.transition(Idle{Message: messageFor(err)})
		return d.state, nil
	}
	d.transition(Resolved{Resolution: res, Message: resolvedMessage(res)})
	return d.state, nil
}

// begin moves Idle or Resolved into next and returns the generation that owns the lookup.
func (d *Desk) begin(next State) (uint64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state.(type) {
	case Idle, Resolved:
	case Resolving, Confirming, Done, Failed:
		return 0, domain.ErrBusy
	}
	d.transition(next)
	return d.gen, nil
}

// Confirm checks the resolved registration in with seatNumber. Only valid in Resolved.
// A blank seat or a failed write leaves the desk in Resolved with a message.
func (d *Desk) Confirm(ctx context.Context, seatNumber string) (State, error) {
	d.mu.Lock()
	var res *domain.Resolution
	switch st := d.state.(type) {
	case Resolved:
		res = st.Resolution
	case Idle:
		d.mu.Unlock()
		return d.State(), ErrNothingResolved
	case Resolving, Confirming, Done, Failed:
		d.mu.Unlock()
		return d.State(), domain.ErrBusy
	}
	seat := strings.TrimSpace(seatNumber)
	if seat == "" {
		d.state = Resolved{Resolution: res, Message: "Enter a seat number"}
		st := d.state
		d.mu.Unlock()
		return st, nil
	}
	d.transition(Confirming{Resolution: res, Seat: seat})
	gen := d.gen
	d.mu.Unlock()

	updated, err := d.svc.ConfirmCheckIn(ctx, d.operatorID, res, seat)

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return d.state, nil
	}
	if err != nil {
		d.log(ctx, "confirm failed", err)
		d.transition(Resolved{Resolution: res, Message: messageFor(err)})
		return d.state, nil
	}
	d.transition(Done{Registration: updated, ActivityName: res.ActivityName})
	d.schedule(d.cfg.DoneDisplay)
	return d.state, nil
}

// Reset returns the desk to Idle from any state that is not in flight.
func (d *Desk) Reset() (State, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if inFlight(d.state) {
		return d.state, domain.ErrBusy
	}
	d.transition(Idle{})
	return d.state, nil
}

// transition must be called with mu held. It cancels any pending display timer.
func (d *Desk) transition(next State) {
	if d.stop != nil {
		d.stop()
		d.stop = nil
	}
	d.gen++
	d.state = next
}

// schedule must be called with mu held, right after the transition it belongs to.
func (d *Desk) schedule(after time.Duration) {
	gen := d.gen
	d.stop = d.after(after, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if gen != d.gen {
			return
		}
		d.stop = nil
		d.gen++
		d.state = Idle{}
	})
}

func (d *Desk) log(ctx context.Context, msg string, err error) {
	level := slog.LevelWarn
	if !isExpected(err) {
		level = slog.LevelError
	}
	d.logger.Log(ctx, level, msg, "operator_id", d.operatorID, "err", err)
}

// ErrNothingResolved is returned by Confirm when the desk is Idle.
var ErrNothingResolved = errors.New("nothing resolved to confirm")

func isExpected(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrAlreadyCheckedIn)
}

func messageFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Registration not found"
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		return "Already checked in"
	case errors.Is(err, domain.ErrInvalidInput):
		return strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": ")
	default:
		return "Something went wrong, please try again"
	}
}

func resolvedMessage(res *domain.Resolution) string {
	switch {
	case res.Registration.CheckedIn():
		return "Already checked in"
	case res.Matches > 1:
		return "Several registrations match; showing the earliest"
	default:
		return ""
	}
}
