package lifecycle

import (
	"time"

	"github.com/willfong/bankfront/internal/models"
)

// DescribeCard returns the display label for a card status
func DescribeCard(status models.CardStatus) string {
	switch status {
	case models.CardStatusNormal:
		return "正常"
	case models.CardStatusLost:
		return "挂失"
	case models.CardStatusFrozen:
		return "冻结"
	case models.CardStatusCancelled:
		return "注销"
	default:
		return "未知"
	}
}

// CardCustomerNotice explains to a customer why a card offers no actions.
// It returns an empty string for a normal card.
func CardCustomerNotice(status models.CardStatus) string {
	switch status {
	case models.CardStatusLost:
		return "该卡已挂失，暂停办理业务，请联系银行处理"
	case models.CardStatusFrozen:
		return "该卡已冻结，暂停办理业务，请联系银行处理"
	case models.CardStatusCancelled:
		return "该卡已注销"
	default:
		return ""
	}
}

// DescribeFixedDeposit returns the display label for a certificate at time now
func DescribeFixedDeposit(fd models.FixedDeposit, now time.Time) string {
	switch fd.EffectiveStatus(now) {
	case models.FixedDepositInProgress:
		return "进行中"
	case models.FixedDepositMatured:
		return "已到期"
	case models.FixedDepositWithdrawn:
		return "已支取"
	default:
		return "未知"
	}
}

// DescribeOperation returns the display label for an operation
func DescribeOperation(op models.Operation) string {
	switch op {
	case models.OpDeposit:
		return "存款"
	case models.OpWithdraw:
		return "取款"
	case models.OpCreateFixedDeposit:
		return "开立定期"
	case models.OpUnbind:
		return "解绑"
	case models.OpBindCard:
		return "绑定银行卡"
	case models.OpFreeze:
		return "冻结"
	case models.OpUnfreeze:
		return "解冻"
	case models.OpReportLost:
		return "挂失"
	case models.OpCancelLost:
		return "解除挂失"
	case models.OpEarlyWithdraw:
		return "提前支取"
	case models.OpMatureWithdraw:
		return "到期支取"
	default:
		return string(op)
	}
}

// ConfirmationMessage is the prompt shown before an operation is submitted
func ConfirmationMessage(op models.Operation) string {
	switch op {
	case models.OpFreeze:
		return "冻结后该卡将无法办理任何业务，确认冻结？"
	case models.OpUnfreeze:
		return "确认解冻该卡？"
	case models.OpReportLost:
		return "挂失后该卡将暂停使用，确认挂失？"
	case models.OpCancelLost:
		return "确认解除该卡的挂失状态？"
	case models.OpEarlyWithdraw:
		return "提前支取将按活期利率计息，确认提前支取？"
	case models.OpMatureWithdraw:
		return "确认到期支取本息？"
	case models.OpUnbind:
		return "确认解绑该卡？"
	default:
		return "确认提交" + DescribeOperation(op) + "？"
	}
}
