package wizard

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/willfong/bankfront/internal/api"
	"github.com/willfong/bankfront/internal/interest"
	"github.com/willfong/bankfront/internal/lifecycle"
	"github.com/willfong/bankfront/internal/models"
	"github.com/willfong/bankfront/internal/utils"
)

// Backend is the set of mutating endpoints the flows submit to
type Backend interface {
	Deposit(ctx context.Context, req api.TransactionRequest) (models.TransactionResult, error)
	Withdraw(ctx context.Context, req api.TransactionRequest) (models.TransactionResult, error)
	BindCard(ctx context.Context, req api.BindCardRequest) (models.Card, error)
	UnbindCard(ctx context.Context, cardID, cardPassword string) error
	CreateFixedDeposit(ctx context.Context, req api.CreateFixedDepositRequest) (models.FixedDeposit, error)
	EarlyWithdraw(ctx context.Context, fdID int64, cardPassword string) (models.FixedDepositSettlement, error)
	MatureWithdraw(ctx context.Context, fdID int64, cardPassword string) (models.FixedDepositSettlement, error)
	Freeze(ctx context.Context, req models.AuditableOperationRequest) (models.OperationAck, error)
	LostReport(ctx context.Context, req models.AuditableOperationRequest) (models.OperationAck, error)
}

// Summary labels
const (
	LabelCard          = "卡号"
	LabelCardStatus    = "卡状态"
	LabelOperation     = "操作"
	LabelAmount        = "金额"
	LabelAvailable     = "当前可用余额"
	LabelProjected     = "预计操作后可用余额"
	LabelRemark        = "备注"
	LabelPrincipal     = "本金"
	LabelTerm          = "存期"
	LabelRate          = "年利率"
	LabelInterest      = "预计到期利息"
	LabelTotal         = "预计到期本息"
	LabelDemandRate    = "活期利率"
	LabelHeldDays      = "已存天数"
	LabelEarlyInterest = "预计提前支取利息"
	LabelEarlyTotal    = "预计提前支取本息"
	LabelAutoRenew     = "自动续存"
	LabelReason        = "原因"
	LabelDetail        = "说明"
)

const projectionNotice = "以上金额为预估，实际以银行处理结果为准"

func termLabel(months int) string {
	if months%12 == 0 {
		return strconv.Itoa(months/12) + "年"
	}
	return strconv.Itoa(months) + "个月"
}

func yesNo(b bool) string {
	if b {
		return "是"
	}
	return "否"
}

// legalFor checks that kind may perform op on card, reporting it as a field error
func legalFor(errs FieldErrors, card models.Card, kind models.PrincipalKind, op models.Operation) {
	if err := lifecycle.RequireCardOperation(card, kind, op); err != nil {
		errs[FieldInstrument] = msgNotLegal
	}
}

func transactionFlow(card models.Card, kind models.PrincipalKind, op models.Operation, limits Limits, submit func(context.Context, api.TransactionRequest) (models.TransactionResult, error)) Flow[models.TransactionResult] {
	debit := op.IsDebit()

	return Flow[models.TransactionResult]{
		Operation: op,
		Validate: func(d Draft) FieldErrors {
			errs := FieldErrors{}
			legalFor(errs, card, kind, op)
			var available *decimal.Decimal
			if debit {
				available = &card.AvailableBalance
			}
			checkAmount(errs, d.Amount, limits, available)
			checkPassword(errs, d.Password)
			checkRemark(errs, d.Remark, limits)
			return errs
		},
		Summarize: func(d Draft) Summary {
			amount, _ := utils.ParseAmount(d.Amount)
			projected := card.AvailableBalance.Add(amount)
			if debit {
				projected = card.AvailableBalance.Sub(amount)
			}
			s := Summary{
				Title: lifecycle.DescribeOperation(op),
				Lines: []SummaryLine{
					{LabelCard, card.MaskedID()},
					{LabelAmount, utils.FormatPlain(amount)},
					{LabelAvailable, utils.FormatPlain(card.AvailableBalance)},
					{LabelProjected, utils.FormatPlain(projected)},
				},
				Notice: projectionNotice,
			}
			if d.Remark != "" {
				s.Lines = append(s.Lines, SummaryLine{LabelRemark, d.Remark})
			}
			return s
		},
		Submit: func(ctx context.Context, d Draft) (models.TransactionResult, error) {
			amount, _ := utils.ParseAmount(d.Amount)
			return submit(ctx, api.TransactionRequest{
				CardID:       card.CardID,
				Amount:       amount,
				CardPassword: d.Password,
				Remark:       strings.TrimSpace(d.Remark),
			})
		},
	}
}

// DepositFlow credits card on behalf of a principal of the given kind
func DepositFlow(b Backend, card models.Card, kind models.PrincipalKind, limits Limits) Flow[models.TransactionResult] {
	return transactionFlow(card, kind, models.OpDeposit, limits, b.Deposit)
}

// WithdrawFlow debits card, bounded by its available balance
func WithdrawFlow(b Backend, card models.Card, kind models.PrincipalKind, limits Limits) Flow[models.TransactionResult] {
	return transactionFlow(card, kind, models.OpWithdraw, limits, b.Withdraw)
}

// BindCardFlow attaches a card by number and card password
func BindCardFlow(b Backend) Flow[models.Card] {
	return Flow[models.Card]{
		Operation: models.OpBindCard,
		Validate: func(d Draft) FieldErrors {
			errs := FieldErrors{}
			checkCardID(errs, d.TargetCardID)
			checkPassword(errs, d.Password)
			return errs
		},
		Summarize: func(d Draft) Summary {
			card := models.Card{CardID: strings.ReplaceAll(d.TargetCardID, " ", "")}
			return Summary{
				Title: lifecycle.DescribeOperation(models.OpBindCard),
				Lines: []SummaryLine{{LabelCard, card.MaskedID()}},
			}
		},
		Submit: func(ctx context.Context, d Draft) (models.Card, error) {
			return b.BindCard(ctx, api.BindCardRequest{
				CardID:       strings.ReplaceAll(d.TargetCardID, " ", ""),
				CardPassword: d.Password,
			})
		},
	}
}

// UnbindFlow detaches card from the customer
func UnbindFlow(b Backend, card models.Card, kind models.PrincipalKind) Flow[api.Empty] {
	return Flow[api.Empty]{
		Operation: models.OpUnbind,
		Validate: func(d Draft) FieldErrors {
			errs := FieldErrors{}
			legalFor(errs, card, kind, models.OpUnbind)
			checkPassword(errs, d.Password)
			return errs
		},
		Summarize: func(Draft) Summary {
			return Summary{
				Title: lifecycle.DescribeOperation(models.OpUnbind),
				Lines: []SummaryLine{
					{LabelCard, card.MaskedID()},
					{LabelAvailable, utils.FormatPlain(card.AvailableBalance)},
				},
				Notice: lifecycle.ConfirmationMessage(models.OpUnbind),
			}
		},
		Submit: func(ctx context.Context, d Draft) (api.Empty, error) {
			return api.Empty{}, b.UnbindCard(ctx, card.CardID, d.Password)
		},
	}
}

func findTerm(terms []models.FixedDepositTerm, months int) (models.FixedDepositTerm, bool) {
	for _, t := range terms {
		if t.TermMonths == months {
			return t, true
		}
	}
	return models.FixedDepositTerm{}, false
}

// CreateFixedDepositFlow buys a certificate from the backend's catalogue, funded by card
func CreateFixedDepositFlow(b Backend, card models.Card, kind models.PrincipalKind, terms []models.FixedDepositTerm, limits Limits) Flow[models.FixedDeposit] {
	return Flow[models.FixedDeposit]{
		Operation: models.OpCreateFixedDeposit,
		Validate: func(d Draft) FieldErrors {
			errs := FieldErrors{}
			legalFor(errs, card, kind, models.OpCreateFixedDeposit)
			principal := checkAmount(errs, d.Amount, Limits{}, &card.AvailableBalance)
			if _, bad := errs[FieldAmount]; !bad && principal.LessThan(limits.MinPrincipal) {
				errs[FieldAmount] = msgBelowMinPrincipal
			}
			if _, ok := findTerm(terms, d.TermMonths); !ok {
				errs[FieldTerm] = msgTermUnknown
			}
			checkPassword(errs, d.Password)
			return errs
		},
		Summarize: func(d Draft) Summary {
			principal, _ := utils.ParseAmount(d.Amount)
			term, _ := findTerm(terms, d.TermMonths)
			q := interest.NewQuote(principal, term.AnnualRate, term.TermMonths)
			return Summary{
				Title: lifecycle.DescribeOperation(models.OpCreateFixedDeposit),
				Lines: []SummaryLine{
					{LabelCard, card.MaskedID()},
					{LabelPrincipal, utils.FormatPlain(principal)},
					{LabelTerm, termLabel(term.TermMonths)},
					{LabelRate, utils.FormatRate(term.AnnualRate)},
					{LabelInterest, interest.Present(q.TermInterest)},
					{LabelTotal, interest.Present(q.TermTotal)},
					{LabelAutoRenew, yesNo(d.AutoRenew)},
					{LabelProjected, utils.FormatPlain(card.AvailableBalance.Sub(principal))},
				},
				Notice: projectionNotice,
			}
		},
		Submit: func(ctx context.Context, d Draft) (models.FixedDeposit, error) {
			principal, _ := utils.ParseAmount(d.Amount)
			return b.CreateFixedDeposit(ctx, api.CreateFixedDepositRequest{
				CardID:       card.CardID,
				Principal:    principal,
				TermMonths:   d.TermMonths,
				CardPassword: d.Password,
				AutoRenew:    d.AutoRenew,
			})
		},
	}
}

func fixedDepositValidate(fd models.FixedDeposit, op models.Operation, now func() time.Time) func(Draft) FieldErrors {
	return func(d Draft) FieldErrors {
		errs := FieldErrors{}
		if err := lifecycle.RequireFixedDepositOperation(fd, now(), op); err != nil {
			errs[FieldInstrument] = msgNotLegal
		}
		checkPassword(errs, d.Password)
		return errs
	}
}

// EarlyWithdrawFlow settles fd before maturity. The projection uses the demand
// rate supplied by the backend, never the certificate's term rate.
func EarlyWithdrawFlow(b Backend, fd models.FixedDeposit, demand models.DemandRate, now func() time.Time) Flow[models.FixedDepositSettlement] {
	return Flow[models.FixedDepositSettlement]{
		Operation: models.OpEarlyWithdraw,
		Validate:  fixedDepositValidate(fd, models.OpEarlyWithdraw, now),
		Summarize: func(Draft) Summary {
			q := interest.NewQuote(fd.Principal, fd.AnnualRate, fd.TermMonths).
				WithEarlyWithdrawal(demand.AnnualRate, fd.StartTime.Time, now())
			return Summary{
				Title: lifecycle.DescribeOperation(models.OpEarlyWithdraw),
				Lines: []SummaryLine{
					{LabelPrincipal, utils.FormatPlain(fd.Principal)},
					{LabelHeldDays, strconv.Itoa(q.HeldDays)},
					{LabelDemandRate, utils.FormatRate(q.DemandRate)},
					{LabelEarlyInterest, interest.Present(q.EarlyInterest)},
					{LabelEarlyTotal, interest.Present(q.EarlyTotal)},
				},
				Notice: lifecycle.ConfirmationMessage(models.OpEarlyWithdraw),
			}
		},
		Submit: func(ctx context.Context, d Draft) (models.FixedDepositSettlement, error) {
			return b.EarlyWithdraw(ctx, fd.FDID, d.Password)
		},
	}
}

// MatureWithdrawFlow settles a matured fd at its term rate
func MatureWithdrawFlow(b Backend, fd models.FixedDeposit, now func() time.Time) Flow[models.FixedDepositSettlement] {
	return Flow[models.FixedDepositSettlement]{
		Operation: models.OpMatureWithdraw,
		Validate:  fixedDepositValidate(fd, models.OpMatureWithdraw, now),
		Summarize: func(Draft) Summary {
			q := interest.NewQuote(fd.Principal, fd.AnnualRate, fd.TermMonths)
			return Summary{
				Title: lifecycle.DescribeOperation(models.OpMatureWithdraw),
				Lines: []SummaryLine{
					{LabelPrincipal, utils.FormatPlain(fd.Principal)},
					{LabelTerm, termLabel(fd.TermMonths)},
					{LabelRate, utils.FormatRate(fd.AnnualRate)},
					{LabelInterest, interest.Present(q.TermInterest)},
					{LabelTotal, interest.Present(q.TermTotal)},
				},
				Notice: lifecycle.ConfirmationMessage(models.OpMatureWithdraw),
			}
		},
		Submit: func(ctx context.Context, d Draft) (models.FixedDepositSettlement, error) {
			return b.MatureWithdraw(ctx, fd.FDID, d.Password)
		},
	}
}

// AdminCardFlow submits an audited administrator action (freeze, unfreeze,
// report-lost, cancel-lost) on card. The request is only built when the card's
// status allows op.
func AdminCardFlow(b Backend, card models.Card, op models.Operation, limits Limits) Flow[models.OperationAck] {
	return Flow[models.OperationAck]{
		Operation: op,
		Validate: func(d Draft) FieldErrors {
			errs := FieldErrors{}
			if _, err := lifecycle.NewAuditableRequest(card, op, d.ReasonType, d.ReasonDetail); err != nil {
				errs[FieldInstrument] = msgNotLegal
			}
			if !d.ReasonType.IsKnown() {
				errs[FieldReasonType] = msgReasonRequired
			}
			detail := strings.TrimSpace(d.ReasonDetail)
			switch {
			case detail == "":
				errs[FieldReasonDetail] = msgDetailRequired
			case limits.MaxReasonDetail > 0 && utf8.RuneCountInString(detail) > limits.MaxReasonDetail:
				errs[FieldReasonDetail] = msgDetailTooLong
			}
			return errs
		},
		Summarize: func(d Draft) Summary {
			return Summary{
				Title: lifecycle.DescribeOperation(op),
				Lines: []SummaryLine{
					{LabelCard, card.CardID},
					{LabelCardStatus, lifecycle.DescribeCard(card.Status)},
					{LabelOperation, lifecycle.DescribeOperation(op)},
					{LabelReason, string(d.ReasonType)},
					{LabelDetail, strings.TrimSpace(d.ReasonDetail)},
				},
				Notice: lifecycle.ConfirmationMessage(op),
			}
		},
		Submit: func(ctx context.Context, d Draft) (models.OperationAck, error) {
			req, err := lifecycle.NewAuditableRequest(card, op, d.ReasonType, d.ReasonDetail)
			if err != nil {
				return models.OperationAck{}, err
			}
			if op == models.OpFreeze || op == models.OpUnfreeze {
				return b.Freeze(ctx, req)
			}
			return b.LostReport(ctx, req)
		},
	}
}
