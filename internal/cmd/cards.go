package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/willfong/bankfront/internal/api"
	"github.com/willfong/bankfront/internal/lifecycle"
	"github.com/willfong/bankfront/internal/models"
	"github.com/willfong/bankfront/internal/ui"
	"github.com/willfong/bankfront/internal/utils"
	"github.com/willfong/bankfront/internal/wizard"
)

var (
	txAmount string
	txRemark string
)

var cardsCmd = &cobra.Command{
	Use:         "cards",
	Short:       "Manage your bank cards",
	Annotations: surface(surfaceCustomer),
}

var cardsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bound cards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cards, err := app.Client.ListCards(cmd.Context())
		if err != nil {
			return err
		}
		app.UI.Println(app.UI.Header("我的银行卡"))
		app.UI.Println(app.UI.CardTable(cards))
		return nil
	},
}

var cardsShowCmd = &cobra.Command{
	Use:   "show <card-id>",
	Short: "Show a card and the operations it offers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		card, err := app.Client.GetCard(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		app.UI.Println(app.UI.CardDetail(card, app.Session.Current().Kind))
		return nil
	},
}

var cardsDepositCmd = &cobra.Command{
	Use:   "deposit <card-id>",
	Short: "Deposit money onto a card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransaction(cmd.Context(), args[0], models.OpDeposit)
	},
}

var cardsWithdrawCmd = &cobra.Command{
	Use:   "withdraw <card-id>",
	Short: "Withdraw money from a card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransaction(cmd.Context(), args[0], models.OpWithdraw)
	},
}

var cardsBindCmd = &cobra.Command{
	Use:   "bind [card-id]",
	Short: "Bind a card to your account",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		initial := wizard.Draft{}
		if len(args) == 1 {
			initial.TargetCardID = args[0]
		}

		w := wizard.New(wizard.BindCardFlow(app.Client), initial, app.Log)
		card, err := runWizard(cmd.Context(), app, w, func(u *ui.UI, d *wizard.Draft) error {
			if err := ask(u, "卡号", &d.TargetCardID); err != nil {
				return err
			}
			return askPassword(u, d)
		})
		if err != nil {
			return err
		}

		showCard(cmd.Context(), card.CardID, card)
		return nil
	},
}

var cardsUnbindCmd = &cobra.Command{
	Use:   "unbind <card-id>",
	Short: "Unbind a card from your account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		card, err := app.Client.GetCard(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		kind := app.Session.Current().Kind
		if err := lifecycle.RequireCardOperation(card, kind, models.OpUnbind); err != nil {
			return &invalidInputError{messages: []string{cardUnavailable(card, kind, models.OpUnbind)}}
		}

		w := wizard.New(wizard.UnbindFlow(app.Client, card, kind), wizard.Draft{}, app.Log)
		if _, err := runWizard(cmd.Context(), app, w, func(u *ui.UI, d *wizard.Draft) error {
			return askPassword(u, d)
		}); err != nil {
			return err
		}

		app.UI.Println(app.UI.Success("已解绑 " + card.MaskedID()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cardsCmd)
	cardsCmd.AddCommand(cardsListCmd, cardsShowCmd, cardsDepositCmd, cardsWithdrawCmd, cardsBindCmd, cardsUnbindCmd)

	for _, c := range []*cobra.Command{cardsDepositCmd, cardsWithdrawCmd} {
		c.Flags().StringVar(&txAmount, "amount", "", "amount in yuan, up to two decimals")
		c.Flags().StringVar(&txRemark, "remark", "", "optional remark")
	}
}

func runTransaction(ctx context.Context, cardID string, op models.Operation) error {
	card, err := app.Client.GetCard(ctx, cardID)
	if err != nil {
		return err
	}
	kind := app.Session.Current().Kind
	if err := lifecycle.RequireCardOperation(card, kind, op); err != nil {
		return &invalidInputError{messages: []string{cardUnavailable(card, kind, op)}}
	}

	flow := wizard.DepositFlow(app.Client, card, kind, app.Limits)
	if op == models.OpWithdraw {
		flow = wizard.WithdrawFlow(app.Client, card, kind, app.Limits)
	}

	u := app.UI
	u.Println(u.KeyValue("当前可用余额", utils.FormatAmount(card.AvailableBalance, utils.DefaultCurrency.Code)))

	w := wizard.New(flow, wizard.Draft{Amount: txAmount, Remark: txRemark}, app.Log)
	res, err := runWizard(ctx, app, w, func(u *ui.UI, d *wizard.Draft) error {
		if err := ask(u, "金额", &d.Amount); err != nil {
			return err
		}
		if err := ask(u, "备注（可选）", &d.Remark); err != nil {
			return err
		}
		return askPassword(u, d)
	})
	if err != nil {
		return err
	}

	u.Println(u.KeyValue("交易流水号", res.TransactionID))
	u.Println(u.KeyValue("交易后余额", utils.FormatAmount(res.BalanceAfter, utils.DefaultCurrency.Code)))
	showCard(ctx, card.CardID, card.WithConfirmedBalance(res.BalanceAfter))
	return nil
}

// showCard re-fetches a card after a mutation. If the re-fetch fails the
// fallback snapshot is shown instead.
func showCard(ctx context.Context, cardID string, fallback models.Card) {
	card, err := app.Client.GetCard(ctx, cardID)
	if err != nil {
		app.Log.Debugw("refetch failed", "card_id", cardID, "error", err)
		if api.ClassifyError(err) == api.ErrorTypeExpired {
			return
		}
		card = fallback
	}
	app.UI.Println(app.UI.CardDetail(card, app.Session.Current().Kind))
}

// cardUnavailable explains why op is not offered for card to a principal of kind
func cardUnavailable(card models.Card, kind models.PrincipalKind, op models.Operation) string {
	if kind == models.KindAdministrator {
		return fmt.Sprintf("管理员账号不可办理%s", lifecycle.DescribeOperation(op))
	}
	if notice := lifecycle.CardCustomerNotice(card.Status); notice != "" {
		return notice
	}
	return fmt.Sprintf("该卡当前状态（%s）不可办理%s", lifecycle.DescribeCard(card.Status), lifecycle.DescribeOperation(op))
}

// ask prompts for a text field, offering its current value as the default
func ask(u *ui.UI, label string, field *string) error {
	v, err := u.Prompt(label, *field)
	if err != nil {
		return err
	}
	*field = v
	return nil
}

func askPassword(u *ui.UI, d *wizard.Draft) error {
	pw, err := u.Password("交易密码")
	if err != nil {
		return err
	}
	d.Password = pw
	return nil
}
