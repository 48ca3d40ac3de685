package wizard

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/willfong/bankfront/internal/config"
	"github.com/willfong/bankfront/internal/utils"
)

// Limits bounds what local validation accepts
type Limits struct {
	MaxAmount       decimal.Decimal
	MinPrincipal    decimal.Decimal
	MaxReasonDetail int
	MaxRemark       int
}

// DefaultLimits returns the compiled-in limits
func DefaultLimits() Limits {
	return Limits{
		MaxAmount:       decimal.RequireFromString(config.DefaultMaxTransactionAmount),
		MinPrincipal:    decimal.RequireFromString(config.DefaultMinFixedDepositPrincipal),
		MaxReasonDetail: config.MaxReasonDetailLength,
		MaxRemark:       50,
	}
}

// LimitsFromConfig reads the limits from wizard configuration, falling back to
// the defaults for anything unparseable.
func LimitsFromConfig(cfg config.WizardConfig) Limits {
	l := DefaultLimits()
	if d, err := cfg.MaxAmount(); err == nil {
		l.MaxAmount = d
	}
	if d, err := cfg.MinPrincipal(); err == nil {
		l.MinPrincipal = d
	}
	return l
}

// Validation messages
const (
	msgAmountInvalid     = "请输入有效金额"
	msgAmountNotPositive = "金额必须大于0"
	msgAmountPrecision   = "金额最多保留两位小数"
	msgAmountTooLarge    = "单笔金额超出限额"
	msgAmountOverBalance = "金额超出可用余额"
	msgBelowMinPrincipal = "低于起存金额"
	msgPasswordShape     = "交易密码为6位数字"
	msgCardIDShape       = "卡号为16至19位数字"
	msgRemarkTooLong     = "备注过长"
	msgTermUnknown       = "请选择有效存期"
	msgReasonRequired    = "请选择操作原因"
	msgDetailRequired    = "请填写原因说明"
	msgDetailTooLong     = "原因说明过长"
	msgNotLegal          = "当前状态不允许此操作"
)

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func checkPassword(errs FieldErrors, pw string) {
	if len(pw) != 6 || !isDigits(pw) {
		errs[FieldPassword] = msgPasswordShape
	}
}

func checkCardID(errs FieldErrors, id string) {
	id = strings.ReplaceAll(id, " ", "")
	if len(id) < 16 || len(id) > 19 || !isDigits(id) {
		errs[FieldCardID] = msgCardIDShape
	}
}

func checkRemark(errs FieldErrors, remark string, limits Limits) {
	if limits.MaxRemark > 0 && utf8.RuneCountInString(remark) > limits.MaxRemark {
		errs[FieldRemark] = msgRemarkTooLong
	}
}

// checkAmount parses the draft amount and applies the upper bound. When
// available is non-nil the amount must also fit in it.
func checkAmount(errs FieldErrors, raw string, limits Limits, available *decimal.Decimal) decimal.Decimal {
	amount, err := utils.ParseAmount(raw)
	switch {
	case errors.Is(err, utils.ErrAmountNotPos):
		errs[FieldAmount] = msgAmountNotPositive
	case errors.Is(err, utils.ErrAmountPrecision):
		errs[FieldAmount] = msgAmountPrecision
	case err != nil:
		errs[FieldAmount] = msgAmountInvalid
	case limits.MaxAmount.IsPositive() && amount.GreaterThan(limits.MaxAmount):
		errs[FieldAmount] = msgAmountTooLarge
	case available != nil && amount.GreaterThan(*available):
		errs[FieldAmount] = msgAmountOverBalance
	}
	return amount
}
