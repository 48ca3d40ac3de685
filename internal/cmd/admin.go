package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/willfong/bankfront/internal/api"
	"github.com/willfong/bankfront/internal/lifecycle"
	"github.com/willfong/bankfront/internal/models"
	"github.com/willfong/bankfront/internal/ui"
	"github.com/willfong/bankfront/internal/wizard"
)

var (
	adminReason string
	adminDetail string
)

var adminCmd = &cobra.Command{
	Use:         "admin",
	Short:       "Administrator card operations",
	Annotations: surface(surfaceAdmin),
}

var adminCardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "List all cards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cards, err := app.Client.AdminListCards(cmd.Context())
		if err != nil {
			return err
		}
		app.UI.Println(app.UI.Header("银行卡管理"))
		app.UI.Println(app.UI.CardTable(cards))
		return nil
	},
}

var adminShowCmd = &cobra.Command{
	Use:   "show <card-id>",
	Short: "Show a card and the administrator operations it offers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		card, err := findAdminCard(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		app.UI.Println(app.UI.CardDetail(card, models.KindAdministrator))
		return nil
	},
}

func adminOperationCmd(use, short string, op models.Operation) *cobra.Command {
	c := &cobra.Command{
		Use:   use + " <card-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdminOperation(cmd.Context(), args[0], op)
		},
	}
	c.Flags().StringVar(&adminReason, "reason", "", "reason type: "+reasonChoices())
	c.Flags().StringVar(&adminDetail, "detail", "", "reason detail recorded in the audit log")
	return c
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(
		adminCardsCmd,
		adminShowCmd,
		adminOperationCmd("freeze", "Freeze a card", models.OpFreeze),
		adminOperationCmd("unfreeze", "Unfreeze a card", models.OpUnfreeze),
		adminOperationCmd("report-lost", "Report a card lost", models.OpReportLost),
		adminOperationCmd("cancel-lost", "Cancel a lost report", models.OpCancelLost),
	)
}

func reasonChoices() string {
	names := make([]string, len(models.KnownReasonTypes))
	for i, r := range models.KnownReasonTypes {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// findAdminCard looks a card up in the administrator's card list
func findAdminCard(ctx context.Context, cardID string) (models.Card, error) {
	cards, err := app.Client.AdminListCards(ctx)
	if err != nil {
		return models.Card{}, err
	}
	for _, c := range cards {
		if c.CardID == cardID {
			return c, nil
		}
	}
	return models.Card{}, &invalidInputError{messages: []string{"未找到银行卡 " + cardID}}
}

func runAdminOperation(ctx context.Context, cardID string, op models.Operation) error {
	card, err := findAdminCard(ctx, cardID)
	if err != nil {
		return err
	}
	if !lifecycle.CardOperations(card.Status, models.KindAdministrator).Has(op) {
		return &invalidInputError{messages: []string{"该卡当前状态（" + lifecycle.DescribeCard(card.Status) +
			"）不可" + lifecycle.DescribeOperation(op)}}
	}

	initial := wizard.Draft{ReasonType: models.ReasonType(adminReason), ReasonDetail: adminDetail}
	w := wizard.New(wizard.AdminCardFlow(app.Client, card, op, app.Limits), initial, app.Log)
	ack, err := runWizard(ctx, app, w, func(u *ui.UI, d *wizard.Draft) error {
		reason := string(d.ReasonType)
		if err := ask(u, "原因（"+reasonChoices()+"）", &reason); err != nil {
			return err
		}
		d.ReasonType = models.ReasonType(reason)
		return ask(u, "说明", &d.ReasonDetail)
	})
	if err != nil {
		return err
	}

	u := app.UI
	if ack.Message != "" {
		u.Println(u.Success(ack.Message))
	}

	// The list is re-fetched so the offered operations follow the server's status
	refreshed, err := findAdminCard(ctx, card.CardID)
	if err != nil {
		app.Log.Debugw("refetch failed", "card_id", card.CardID, "error", err)
		if api.ClassifyError(err) == api.ErrorTypeExpired {
			return nil
		}
		status, ok := ack.CardStatus()
		if !ok {
			u.Println(u.Warning("暂未获取到最新卡片状态，请稍后执行 bankfront admin show " + card.CardID))
			return nil
		}
		refreshed = card
		refreshed.Status = status
	}
	u.Println(u.CardDetail(refreshed, models.KindAdministrator))
	return nil
}
