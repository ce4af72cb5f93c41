// Package wizard holds the per-visitor booking flow: pick a class, fill in
// personal details, confirm.
package wizard

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/essenciabjj/trial/internal/models"
	"github.com/essenciabjj/trial/internal/schedule"
)

type Step int

const (
	StepSchedule Step = iota
	StepDetails
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepSchedule:
		return "schedule"
	case StepDetails:
		return "details"
	case StepConfirmation:
		return "confirmation"
	}
	return "unknown"
}

// RequestState tracks the single submission a wizard may have outstanding.
type RequestState int

const (
	RequestIdle RequestState = iota
	RequestInFlight
	RequestSucceeded
	RequestFailed
)

func (r RequestState) String() string {
	switch r {
	case RequestIdle:
		return "idle"
	case RequestInFlight:
		return "in-flight"
	case RequestSucceeded:
		return "succeeded"
	case RequestFailed:
		return "failed"
	}
	return "unknown"
}

// Field names accepted by UpdateField.
const (
	FieldFullName     = "fullName"
	FieldPhone        = "phone"
	FieldAge          = "age"
	FieldSpecificDate = "specificDate"
)

// SubmitErrorMessage is the only message shown when the store rejects a registration.
const SubmitErrorMessage = "Erro ao enviar agendamento. Tente novamente."

// Accepted ages, matching the registration form.
const (
	MinAge = 3
	MaxAge = 100
)

var (
	ErrUnknownClass   = errors.New("class is not on the timetable")
	ErrUnknownField   = errors.New("unknown field")
	ErrUnknownDate    = errors.New("date is not one of the offered dates")
	ErrWrongStep      = errors.New("not allowed on the current step")
	ErrSubmitInFlight = errors.New("a submission is already in flight")
	ErrIncomplete     = errors.New("registration is incomplete")
	ErrSuperseded     = errors.New("submission superseded by a newer action")
)

// Submitter persists a finished registration and returns the stored row.
type Submitter interface {
	Submit(ctx context.Context, reg models.Registration) (*models.Registration, error)
}

type SelectedClass struct {
	Day          schedule.Weekday
	TimeRange    string
	ClassName    string
	SpecificDate string
}

// Draft is the registration being filled in. Age stays as typed until submit.
type Draft struct {
	FullName string
	Phone    string
	Age      string
	Class    *SelectedClass
}

func (d Draft) clone() Draft {
	if d.Class != nil {
		c := *d.Class
		d.Class = &c
	}
	return d
}

// Snapshot is a consistent copy of the wizard for rendering.
type Snapshot struct {
	Step      Step
	Draft     Draft
	Dates     []schedule.DateCandidate
	Request   RequestState
	Error     string
	Record    *models.Registration // set only on StepConfirmation
	CanSubmit bool
}

type Option func(*Wizard)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(w *Wizard) { w.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(w *Wizard) { w.log = l }
}

// Wizard is safe for concurrent use; operations are applied one at a time.
type Wizard struct {
	table     *schedule.Table
	submitter Submitter
	now       func() time.Time
	log       *zap.Logger

	mu      sync.Mutex
	step    Step
	draft   Draft
	dates   []schedule.DateCandidate
	request RequestState
	errMsg  string
	record  *models.Registration
	gen     uint64 // bumped by actions that make a pending submission stale
}

func New(table *schedule.Table, submitter Submitter, opts ...Option) *Wizard {
	w := &Wizard{
		table:     table,
		submitter: submitter,
		now:       time.Now,
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

func (w *Wizard) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Snapshot{
		Step:      w.step,
		Draft:     w.draft.clone(),
		Dates:     append([]schedule.DateCandidate(nil), w.dates...),
		Request:   w.request,
		Error:     w.errMsg,
		CanSubmit: w.canSubmitLocked(),
	}
	if w.record != nil {
		r := *w.record
		s.Record = &r
	}
	return s
}

// ListBookableClasses is recomputed from the timetable on every call.
func (w *Wizard) ListBookableClasses() []schedule.ClassOption {
	return w.table.BookableClasses()
}

// SelectClass starts the details step for opt, from any step. Any earlier
// selection, offered dates, error or confirmation are replaced. A pending
// submission keeps the wizard in flight until it returns; its result is dropped.
func (w *Wizard) SelectClass(opt schedule.ClassOption) error {
	found, ok := w.table.Lookup(opt.Day, opt.TimeRange)
	if !ok {
		return ErrUnknownClass
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.gen++
	w.draft.Class = &SelectedClass{
		Day:       found.Day,
		TimeRange: found.TimeRange,
		ClassName: found.ClassName,
	}
	w.dates = schedule.NextOccurrences(w.now(), found.Day, found.TimeRange)
	w.settleLocked()
	w.errMsg = ""
	w.record = nil
	w.step = StepDetails

	w.log.Debug("class selected",
		zap.String("day", string(found.Day)),
		zap.String("time", found.TimeRange),
		zap.Int("dates", len(w.dates)))
	return nil
}

// UpdateField sets one draft field. Setting specificDate without a selected
// class does nothing.
func (w *Wizard) UpdateField(name, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step == StepConfirmation {
		return ErrWrongStep
	}

	switch name {
	case FieldFullName:
		w.draft.FullName = value
	case FieldPhone:
		w.draft.Phone = value
	case FieldAge:
		w.draft.Age = value
	case FieldSpecificDate:
		if w.draft.Class == nil {
			return nil
		}
		if value != "" && !w.offeredLocked(value) {
			return ErrUnknownDate
		}
		w.draft.Class.SpecificDate = value
	default:
		return ErrUnknownField
	}
	return nil
}

func (w *Wizard) offeredLocked(label string) bool {
	for _, d := range w.dates {
		if d.Label() == label {
			return true
		}
	}
	return false
}

// CanSubmit reports whether the submit control should be enabled.
func (w *Wizard) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canSubmitLocked()
}

func (w *Wizard) canSubmitLocked() bool {
	if w.step != StepDetails || w.request == RequestInFlight {
		return false
	}
	_, err := w.payloadLocked()
	return err == nil
}

func (w *Wizard) payloadLocked() (models.Registration, error) {
	d := w.draft
	name := strings.TrimSpace(d.FullName)
	phone := strings.TrimSpace(d.Phone)
	if name == "" || phone == "" || d.Class == nil || d.Class.SpecificDate == "" {
		return models.Registration{}, ErrIncomplete
	}
	age, err := strconv.Atoi(strings.TrimSpace(d.Age))
	if err != nil || age < MinAge || age > MaxAge {
		return models.Registration{}, ErrIncomplete
	}
	return models.Registration{
		FullName:     name,
		Phone:        phone,
		Age:          age,
		ClassDay:     string(d.Class.Day),
		ClassTime:    d.Class.TimeRange,
		ClassName:    d.Class.ClassName,
		SpecificDate: d.Class.SpecificDate,
	}, nil
}

// Submit sends the draft to the submitter. Nothing is sent while another
// submission is pending or when the draft is incomplete. On failure the
// wizard stays on the details step with SubmitErrorMessage.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.step != StepDetails {
		w.mu.Unlock()
		return ErrWrongStep
	}
	if w.request == RequestInFlight {
		w.mu.Unlock()
		return ErrSubmitInFlight
	}
	payload, err := w.payloadLocked()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.request = RequestInFlight
	w.errMsg = ""
	gen := w.gen
	w.mu.Unlock()

	rec, err := w.submitter.Submit(ctx, payload)

	w.mu.Lock()
	defer w.mu.Unlock()

	if gen != w.gen {
		w.request = RequestIdle
		w.log.Info("dropping result of superseded submission", zap.Error(err))
		return ErrSuperseded
	}
	if err != nil {
		w.request = RequestFailed
		w.errMsg = SubmitErrorMessage
		w.log.Warn("registration submit failed", zap.Error(err))
		return err
	}
	if rec == nil {
		rec = &payload
	}
	r := *rec
	w.record = &r
	w.request = RequestSucceeded
	w.step = StepConfirmation
	w.log.Info("registration confirmed",
		zap.String("id", r.ID),
		zap.String("class", r.ClassName),
		zap.String("date", r.SpecificDate))
	return nil
}

// Back returns from details to the schedule, keeping the draft.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepDetails {
		return ErrWrongStep
	}
	if w.request == RequestInFlight {
		return ErrSubmitInFlight
	}
	w.step = StepSchedule
	return nil
}

// Reset empties the draft and starts over. A submission still pending is
// left to finish but its result is ignored, and no new one may start before it does.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.gen++
	w.draft = Draft{}
	w.dates = nil
	w.settleLocked()
	w.errMsg = ""
	w.record = nil
	w.step = StepSchedule
}

// settleLocked clears a finished request state. An in-flight request stays
// in flight until its call returns.
func (w *Wizard) settleLocked() {
	if w.request != RequestInFlight {
		w.request = RequestIdle
	}
}

// ChosenDate returns the offered date matching the draft's specific date.
func (w *Wizard) ChosenDate() (schedule.DateCandidate, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.draft.Class == nil || w.draft.Class.SpecificDate == "" {
		return schedule.DateCandidate{}, false
	}
	for _, d := range w.dates {
		if d.Label() == w.draft.Class.SpecificDate {
			return d, true
		}
	}
	return schedule.DateCandidate{}, false
}
