package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/willfong/bankfront/internal/models"
	"github.com/willfong/bankfront/internal/wizard"
)

func TestTableAlignsColumns(t *testing.T) {
	u := NewPlain(strings.NewReader(""), &bytes.Buffer{})
	out := u.Table([]string{"a", "bb"}, [][]string{{"long", "x"}, {"s", "yy"}})
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "  a     bb" {
		t.Errorf("Expected header %q, got %q", "  a     bb", lines[0])
	}
	if lines[2] != "  s     yy" {
		t.Errorf("Expected row %q, got %q", "  s     yy", lines[2])
	}
}

func TestPrompt(t *testing.T) {
	t.Run("answer", func(t *testing.T) {
		out := &bytes.Buffer{}
		u := NewPlain(strings.NewReader(" 500 \n"), out)
		got, err := u.Prompt("金额", "")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got != "500" {
			t.Errorf("Expected 500, got %q", got)
		}
		if out.String() != "金额: " {
			t.Errorf("Expected prompt %q, got %q", "金额: ", out.String())
		}
	})

	t.Run("default", func(t *testing.T) {
		u := NewPlain(strings.NewReader("\n"), &bytes.Buffer{})
		got, err := u.Prompt("存期", "6")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got != "6" {
			t.Errorf("Expected default 6, got %q", got)
		}
	})

	t.Run("last line without newline", func(t *testing.T) {
		u := NewPlain(strings.NewReader("abc"), &bytes.Buffer{})
		got, err := u.Prompt("x", "")
		if err != nil || got != "abc" {
			t.Errorf("Expected abc, got %q (%v)", got, err)
		}
	})

	t.Run("end of input", func(t *testing.T) {
		u := NewPlain(strings.NewReader(""), &bytes.Buffer{})
		if _, err := u.Prompt("x", ""); err != ErrNoInput {
			t.Errorf("Expected ErrNoInput, got %v", err)
		}
	})
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"是\n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		u := NewPlain(strings.NewReader(tt.input), &bytes.Buffer{})
		got, err := u.Confirm("确认？")
		if err != nil {
			t.Fatalf("Unexpected error for %q: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, expected %v", tt.input, got, tt.want)
		}
	}
}

func TestPasswordFallsBackToLineInput(t *testing.T) {
	u := NewPlain(strings.NewReader("123456\n"), &bytes.Buffer{})
	got, err := u.Password("交易密码")
	if err != nil || got != "123456" {
		t.Errorf("Expected 123456, got %q (%v)", got, err)
	}
}

func TestCardDetail(t *testing.T) {
	u := NewPlain(strings.NewReader(""), &bytes.Buffer{})
	card := models.Card{
		CardID:           "6222020000001234",
		Balance:          decimal.NewFromInt(1200),
		AvailableBalance: decimal.NewFromInt(1000),
		FrozenAmount:     decimal.NewFromInt(200),
		Status:           models.CardStatusFrozen,
	}

	t.Run("customer sees notice and no actions", func(t *testing.T) {
		out := u.CardDetail(card, models.KindCustomer)
		if !strings.Contains(out, "可办理业务: 无") {
			t.Errorf("Expected no offered operations, got:\n%s", out)
		}
		if !strings.Contains(out, "该卡已冻结") {
			t.Errorf("Expected frozen notice, got:\n%s", out)
		}
		if !strings.Contains(out, "可用余额: ¥1,000.00") {
			t.Errorf("Expected formatted available balance, got:\n%s", out)
		}
	})

	t.Run("inconsistent snapshot is flagged", func(t *testing.T) {
		bad := card
		bad.AvailableBalance = decimal.NewFromInt(1200)
		out := u.CardDetail(bad, models.KindAdministrator)
		if !strings.Contains(out, inconsistentNotice) {
			t.Errorf("Expected inconsistency notice, got:\n%s", out)
		}
	})

	t.Run("administrator sees unfreeze", func(t *testing.T) {
		out := u.CardDetail(card, models.KindAdministrator)
		if !strings.Contains(out, "可办理业务: 解冻") {
			t.Errorf("Expected unfreeze offered, got:\n%s", out)
		}
		if strings.Contains(out, "该卡已冻结") {
			t.Errorf("Expected no customer notice for administrator, got:\n%s", out)
		}
	})
}

func TestFixedDepositDetailShowsDerivedMaturity(t *testing.T) {
	u := NewPlain(strings.NewReader(""), &bytes.Buffer{})
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.Local)
	fd := models.FixedDeposit{
		FDID:       7,
		CardID:     "6222020000001234",
		Principal:  decimal.NewFromInt(1000),
		AnnualRate: decimal.RequireFromString("0.013"),
		TermMonths: 6,
		StartTime:  models.NewTimestamp(start),
		EndTime:    models.NewTimestamp(start.AddDate(0, 6, 0)),
		Status:     models.FixedDepositInProgress,
	}

	out := u.FixedDepositDetail(fd, start.AddDate(0, 7, 0))
	if !strings.Contains(out, "状态: 已到期") {
		t.Errorf("Expected matured status, got:\n%s", out)
	}
	if !strings.Contains(out, "100% 已存期") {
		t.Errorf("Expected full term bar, got:\n%s", out)
	}
	if !strings.Contains(out, "年利率: 1.30%") {
		t.Errorf("Expected rate 1.30%%, got:\n%s", out)
	}
}

func TestWizardSummary(t *testing.T) {
	u := NewPlain(strings.NewReader(""), &bytes.Buffer{})
	out := u.WizardSummary(wizard.Summary{
		Title:  "取款",
		Lines:  []wizard.SummaryLine{{Label: "金额", Value: "500.00"}},
		Notice: "以上金额为预估",
	})
	for _, want := range []string{"=== 取款 ===", "金额: 500.00", "以上金额为预估"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in summary, got:\n%s", want, out)
		}
	}
}

func TestFieldErrorsOrder(t *testing.T) {
	u := NewPlain(strings.NewReader(""), &bytes.Buffer{})
	out := u.FieldErrors(wizard.FieldErrors{
		wizard.FieldPassword: "密码错误",
		wizard.FieldAmount:   "金额错误",
	}, []string{wizard.FieldAmount, wizard.FieldPassword})
	want := "[FAILED] 金额错误\n[FAILED] 密码错误"
	if out != want {
		t.Errorf("Expected %q, got %q", want, out)
	}
}

func TestSpinnerPlainOutput(t *testing.T) {
	out := &bytes.Buffer{}
	u := NewPlain(strings.NewReader(""), out)
	s := u.NewSpinner("提交中")
	s.Start()
	s.Success("完成")
	s.Stop()
	if out.String() != "提交中... 完成\n" {
		t.Errorf("Expected %q, got %q", "提交中... 完成\n", out.String())
	}
}

func TestStatusTones(t *testing.T) {
	cards := []struct {
		status models.CardStatus
		want   Status
	}{
		{models.CardStatusNormal, StatusSuccess},
		{models.CardStatusLost, StatusWarning},
		{models.CardStatusFrozen, StatusFrozen},
		{models.CardStatusCancelled, StatusPending},
	}
	for _, tt := range cards {
		t.Run(tt.status.String(), func(t *testing.T) {
			tone := CardTone(tt.status)
			if tone != tt.want {
				t.Errorf("Expected tone %d, got %d", tt.want, tone)
			}
			if _, ok := badges[tone]; !ok {
				t.Errorf("Expected a badge for tone %d", tone)
			}
		})
	}

	if FixedDepositTone(models.FixedDepositInProgress) != StatusProgress {
		t.Error("Expected an open deposit to render as progress")
	}

	u := NewPlain(strings.NewReader(""), &bytes.Buffer{})
	if got := u.Badge("冻结", StatusFrozen); got != "冻结" {
		t.Errorf("Expected plain badge text, got %q", got)
	}
}
