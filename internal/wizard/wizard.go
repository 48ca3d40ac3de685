// Package wizard drives the Form → Confirm → Result flow shared by every
// mutating transaction.
//
// A Wizard issues at most one backend request per confirmation. While the
// request is outstanding the wizard is Submitting: a second Confirm returns
// ErrSubmitInFlight without calling the backend, and Cancel is refused. A failed
// submission always returns to Form with the password cleared.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/willfong/bankfront/internal/api"
	"github.com/willfong/bankfront/internal/models"
	"go.uber.org/zap"
)

// Phase is the wizard's position in the flow
type Phase int

const (
	PhaseForm Phase = iota
	PhaseConfirm
	PhaseSubmitting
	PhaseResult
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseForm:
		return "form"
	case PhaseConfirm:
		return "confirm"
	case PhaseSubmitting:
		return "submitting"
	case PhaseResult:
		return "result"
	case PhaseCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

var (
	ErrValidation     = errors.New("validation failed")
	ErrSubmitInFlight = errors.New("submission already in flight")
	ErrWrongPhase     = errors.New("not allowed in current phase")
)

// Draft field names used as FieldErrors keys
const (
	FieldAmount       = "amount"
	FieldCardID       = "cardId"
	FieldPassword     = "password"
	FieldRemark       = "remark"
	FieldTerm         = "term"
	FieldReasonType   = "reasonType"
	FieldReasonDetail = "reasonDetail"
	FieldInstrument   = "instrument"
)

// FieldErrors maps a draft field to its validation message
type FieldErrors map[string]string

// ValidationError is returned by Next when the draft fails local validation
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Draft is the wizard-local form state. It is never persisted.
type Draft struct {
	Amount       string
	TargetCardID string
	Password     string
	Remark       string
	TermMonths   int
	AutoRenew    bool
	ReasonType   models.ReasonType
	ReasonDetail string
}

// SummaryLine is one labelled row of the confirmation summary
type SummaryLine struct {
	Label string
	Value string
}

// Summary is the read-only confirmation view
type Summary struct {
	Title  string
	Lines  []SummaryLine
	Notice string
}

// Value returns the value of the line labelled label
func (s Summary) Value(label string) (string, bool) {
	for _, l := range s.Lines {
		if l.Label == label {
			return l.Value, true
		}
	}
	return "", false
}

// Flow supplies the parts that differ between transaction types
type Flow[R any] struct {
	Operation models.Operation
	Validate  func(Draft) FieldErrors
	Summarize func(Draft) Summary
	Submit    func(ctx context.Context, d Draft) (R, error)
}

// Wizard is one instance of a transaction flow
type Wizard[R any] struct {
	mu   sync.Mutex
	id   string
	flow Flow[R]
	log  *zap.SugaredLogger

	phase       Phase
	draft       Draft
	fieldErrors FieldErrors
	summary     Summary
	result      R
	message     string
	lastKey     string
}

// New creates a wizard in the Form phase with an initial draft
func New[R any](flow Flow[R], initial Draft, log *zap.SugaredLogger) *Wizard[R] {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	id := uuid.NewString()
	return &Wizard[R]{
		id:    id,
		flow:  flow,
		log:   log.With("wizard_id", id, "operation", flow.Operation),
		phase: PhaseForm,
		draft: initial,
	}
}

// ID identifies this wizard instance in logs
func (w *Wizard[R]) ID() string { return w.id }

// Operation returns the operation the wizard submits
func (w *Wizard[R]) Operation() models.Operation { return w.flow.Operation }

func (w *Wizard[R]) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

// Draft returns a copy of the current draft
func (w *Wizard[R]) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// FieldErrors returns the errors from the last Next
func (w *Wizard[R]) FieldErrors() FieldErrors {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fieldErrors
}

// Summary returns the confirmation summary built by the last successful Next
func (w *Wizard[R]) Summary() Summary {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.summary
}

// Message returns the failure message of the last submission, if any
func (w *Wizard[R]) Message() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.message
}

// Result returns the backend's response once the wizard reached Result
func (w *Wizard[R]) Result() (R, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result, w.phase == PhaseResult
}

// IdempotencyKey returns the key sent with the last submission
func (w *Wizard[R]) IdempotencyKey() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastKey
}

// Edit changes the draft. Only allowed in Form.
func (w *Wizard[R]) Edit(fn func(*Draft)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhaseForm {
		return fmt.Errorf("%w: edit in %s", ErrWrongPhase, w.phase)
	}
	fn(&w.draft)
	return nil
}

// Next validates the draft and moves to Confirm. Invalid input stays in Form
// and no backend call is made.
func (w *Wizard[R]) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhaseForm {
		return fmt.Errorf("%w: next in %s", ErrWrongPhase, w.phase)
	}

	if errs := w.flow.Validate(w.draft); len(errs) > 0 {
		w.fieldErrors = errs
		w.log.Debugw("draft rejected", "fields", len(errs))
		return &ValidationError{Fields: errs}
	}
	w.fieldErrors = nil
	w.summary = w.flow.Summarize(w.draft)
	w.phase = PhaseConfirm
	return nil
}

// Back returns from Confirm to Form
func (w *Wizard[R]) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhaseConfirm {
		return fmt.Errorf("%w: back in %s", ErrWrongPhase, w.phase)
	}
	w.phase = PhaseForm
	return nil
}

// Cancel abandons the wizard from Form or Confirm. It is refused while a
// submission is outstanding.
func (w *Wizard[R]) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.phase {
	case PhaseForm, PhaseConfirm:
		w.phase = PhaseCancelled
		w.draft.Password = ""
		return nil
	case PhaseSubmitting:
		return ErrSubmitInFlight
	default:
		return fmt.Errorf("%w: cancel in %s", ErrWrongPhase, w.phase)
	}
}

// Confirm submits the draft. Exactly one backend call is made per Confirm that
// finds the wizard in Confirm; any other phase returns without calling it.
func (w *Wizard[R]) Confirm(ctx context.Context) (R, error) {
	var zero R

	w.mu.Lock()
	switch w.phase {
	case PhaseConfirm:
	case PhaseSubmitting:
		w.mu.Unlock()
		return zero, ErrSubmitInFlight
	default:
		phase := w.phase
		w.mu.Unlock()
		return zero, fmt.Errorf("%w: confirm in %s", ErrWrongPhase, phase)
	}
	w.phase = PhaseSubmitting
	w.message = ""
	w.lastKey = api.NewIdempotencyKey()
	draft := w.draft
	key := w.lastKey
	w.mu.Unlock()

	w.log.Debugw("submitting", "idempotency_key", key)
	res, err := w.flow.Submit(api.WithIdempotencyKey(ctx, key), draft)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.phase = PhaseForm
		w.draft.Password = ""
		w.message = api.UserMessage(err)
		w.log.Infow("submission failed", "error_type", api.ClassifyError(err), "error", err)
		return zero, err
	}
	w.phase = PhaseResult
	w.result = res
	w.draft.Password = ""
	w.log.Infow("submission confirmed")
	return res, nil
}
