package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/willfong/bankfront/internal/lifecycle"
	"github.com/willfong/bankfront/internal/models"
	"github.com/willfong/bankfront/internal/utils"
	"github.com/willfong/bankfront/internal/wizard"
)

const inconsistentNotice = "卡片余额数据不一致，请稍后刷新"

// CardTone maps a card status onto a display tone
func CardTone(status models.CardStatus) Status {
	switch status {
	case models.CardStatusNormal:
		return StatusSuccess
	case models.CardStatusLost:
		return StatusWarning
	case models.CardStatusFrozen:
		return StatusFrozen
	case models.CardStatusCancelled:
		return StatusPending
	default:
		return StatusError
	}
}

// FixedDepositTone maps a certificate's effective status onto a display tone
func FixedDepositTone(status models.FixedDepositStatus) Status {
	switch status {
	case models.FixedDepositInProgress:
		return StatusProgress
	case models.FixedDepositMatured:
		return StatusSuccess
	default:
		return StatusPending
	}
}

// CardTable lists cards with their balances and status.
func (u *UI) CardTable(cards []models.Card) string {
	if len(cards) == 0 {
		return u.Muted("  暂无银行卡")
	}

	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, []string{
			c.CardID,
			yuan(c.Balance),
			yuan(c.AvailableBalance),
			yuan(c.FrozenAmount),
			u.Badge(lifecycle.DescribeCard(c.Status), CardTone(c.Status)),
		})
	}
	return u.Table([]string{"卡号", "余额", "可用余额", "冻结金额", "状态"}, rows)
}

// CardDetail renders one card with the operations offered to kind.
func (u *UI) CardDetail(c models.Card, kind models.PrincipalKind) string {
	items := []KV{
		{Key: "卡号", Value: c.CardID},
		{Key: "余额", Value: yuan(c.Balance)},
		{Key: "可用余额", Value: yuan(c.AvailableBalance)},
		{Key: "冻结金额", Value: yuan(c.FrozenAmount)},
		{Key: "状态", Value: lifecycle.DescribeCard(c.Status)},
	}
	if !c.BindTime.IsZero() {
		items = append(items, KV{Key: "绑定时间", Value: c.BindTime.Format(time.DateTime)})
	}
	items = append(items, KV{Key: "可办理业务", Value: describeOps(lifecycle.CardOperations(c.Status, kind))})

	notice := ""
	if kind != models.KindAdministrator {
		notice = lifecycle.CardCustomerNotice(c.Status)
	}
	if err := c.Validate(); err != nil {
		notice = inconsistentNotice
	}
	return u.SummaryBox("银行卡 "+c.MaskedID(), items, notice)
}

// FixedDepositTable lists certificates with their effective status and term progress.
func (u *UI) FixedDepositTable(fds []models.FixedDeposit, now time.Time) string {
	if len(fds) == 0 {
		return u.Muted("  暂无定期存款")
	}

	rows := make([][]string, 0, len(fds))
	for _, fd := range fds {
		status := fd.EffectiveStatus(now)
		rows = append(rows, []string{
			strconv.FormatInt(fd.FDID, 10),
			fd.CardID,
			yuan(fd.Principal),
			utils.FormatRate(fd.AnnualRate),
			strconv.Itoa(fd.TermMonths) + "个月",
			date(fd.EndTime),
			u.Badge(lifecycle.DescribeFixedDeposit(fd, now), FixedDepositTone(status)),
		})
	}
	return u.Table([]string{"编号", "卡号", "本金", "年利率", "存期", "到期日", "状态"}, rows)
}

// FixedDepositDetail renders one certificate with a bar for the elapsed share of its term.
func (u *UI) FixedDepositDetail(fd models.FixedDeposit, now time.Time) string {
	items := []KV{
		{Key: "编号", Value: strconv.FormatInt(fd.FDID, 10)},
		{Key: "卡号", Value: fd.CardID},
		{Key: "本金", Value: yuan(fd.Principal)},
		{Key: "年利率", Value: utils.FormatRate(fd.AnnualRate)},
		{Key: "存期", Value: strconv.Itoa(fd.TermMonths) + "个月"},
		{Key: "起息日", Value: date(fd.StartTime)},
		{Key: "到期日", Value: date(fd.EndTime)},
		{Key: "状态", Value: lifecycle.DescribeFixedDeposit(fd, now)},
		{Key: "可办理业务", Value: describeOps(lifecycle.FixedDepositOperations(fd, now))},
	}
	box := u.SummaryBox(fmt.Sprintf("定期存款 #%d", fd.FDID), items, "")
	if fd.EffectiveStatus(now) == models.FixedDepositWithdrawn {
		return box
	}
	return box + "\n  " + u.TermBar(fd.Elapsed(now), "已存期")
}

// TermTable lists the fixed-deposit product catalogue
func (u *UI) TermTable(terms []models.FixedDepositTerm) string {
	rows := make([][]string, 0, len(terms))
	for _, t := range terms {
		rows = append(rows, []string{strconv.Itoa(t.TermMonths) + "个月", utils.FormatRate(t.AnnualRate), t.Label})
	}
	return u.Table([]string{"存期", "年利率", "说明"}, rows)
}

// WizardSummary renders the read-only confirmation view of a wizard
func (u *UI) WizardSummary(s wizard.Summary) string {
	items := make([]KV, 0, len(s.Lines))
	for _, l := range s.Lines {
		items = append(items, KV{Key: l.Label, Value: l.Value})
	}
	return u.SummaryBox(s.Title, items, s.Notice)
}

// FieldErrors renders validation messages, one per line, in a stable order.
func (u *UI) FieldErrors(errs wizard.FieldErrors, order []string) string {
	var lines []string
	seen := make(map[string]bool, len(errs))
	for _, f := range order {
		if msg, ok := errs[f]; ok {
			lines = append(lines, u.Error(msg))
			seen[f] = true
		}
	}
	for f, msg := range errs {
		if !seen[f] {
			lines = append(lines, u.Error(msg))
		}
	}
	return strings.Join(lines, "\n")
}

func describeOps(ops lifecycle.OperationSet) string {
	if ops.Len() == 0 {
		return "无"
	}
	names := make([]string, 0, ops.Len())
	for _, op := range ops.Sorted() {
		names = append(names, lifecycle.DescribeOperation(op))
	}
	return strings.Join(names, "、")
}

func yuan(d decimal.Decimal) string {
	return utils.FormatAmount(d, utils.DefaultCurrency.Code)
}

func date(ts models.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Format(time.DateOnly)
}
