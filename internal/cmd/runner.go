package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/willfong/bankfront/internal/api"
	"github.com/willfong/bankfront/internal/lifecycle"
	"github.com/willfong/bankfront/internal/ui"
	"github.com/willfong/bankfront/internal/wizard"
)

// maxFormAttempts bounds how often a form is re-asked after a rejection
const maxFormAttempts = 3

var errCancelled = errors.New("已取消")

// invalidInputError ends a wizard whose form could not be completed
type invalidInputError struct {
	messages []string
}

func (e *invalidInputError) Error() string {
	return strings.Join(e.messages, "；")
}

// formStep fills the draft from the terminal. Values already in the draft are
// offered as defaults.
type formStep func(u *ui.UI, d *wizard.Draft) error

// fieldOrder is the order validation messages are printed in
var fieldOrder = []string{
	wizard.FieldInstrument,
	wizard.FieldCardID,
	wizard.FieldAmount,
	wizard.FieldTerm,
	wizard.FieldReasonType,
	wizard.FieldReasonDetail,
	wizard.FieldRemark,
	wizard.FieldPassword,
}

// runWizard drives w from Form to Result on the terminal. A rejected or failed
// submission returns to the form with the password cleared and the other
// fields kept, up to maxFormAttempts times.
func runWizard[R any](ctx context.Context, a *App, w *wizard.Wizard[R], form formStep) (R, error) {
	var zero R
	u := a.UI

	for attempt := 1; ; attempt++ {
		if err := fillForm(u, w, form); err != nil {
			_ = w.Cancel()
			return zero, err
		}

		u.Println(u.WizardSummary(w.Summary()))
		ok := assumeYes
		if !ok {
			var err error
			ok, err = u.Confirm(lifecycle.ConfirmationMessage(w.Operation()))
			if err != nil {
				_ = w.Cancel()
				return zero, err
			}
		}
		if !ok {
			_ = w.Cancel()
			return zero, errCancelled
		}

		spinner := u.NewSpinner("提交中")
		spinner.Start()
		res, err := w.Confirm(ctx)
		if err == nil {
			spinner.Success("成功")
			return res, nil
		}
		spinner.Error(w.Message())

		switch api.ClassifyError(err) {
		case api.ErrorTypeExpired, api.ErrorTypeCancelled:
			return zero, err
		}
		if attempt >= maxFormAttempts {
			return zero, err
		}
	}
}

// fillForm asks for the draft until it validates and the wizard reaches Confirm
func fillForm[R any](u *ui.UI, w *wizard.Wizard[R], form formStep) error {
	for attempt := 1; ; attempt++ {
		draft := w.Draft()
		if err := form(u, &draft); err != nil {
			return err
		}
		if err := w.Edit(func(d *wizard.Draft) { *d = draft }); err != nil {
			return err
		}

		err := w.Next()
		if err == nil {
			return nil
		}
		var invalid *wizard.ValidationError
		if !errors.As(err, &invalid) {
			return err
		}

		u.Println(u.FieldErrors(invalid.Fields, fieldOrder))
		// Nothing the user types can make an illegal operation legal
		if msg, ok := invalid.Fields[wizard.FieldInstrument]; ok {
			return &invalidInputError{messages: []string{msg}}
		}
		if attempt >= maxFormAttempts {
			return &invalidInputError{messages: orderedMessages(invalid.Fields)}
		}
	}
}

func orderedMessages(fields wizard.FieldErrors) []string {
	var out []string
	for _, f := range fieldOrder {
		if msg, ok := fields[f]; ok {
			out = append(out, msg)
		}
	}
	return out
}
