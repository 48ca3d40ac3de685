package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/willfong/bankfront/internal/interest"
	"github.com/willfong/bankfront/internal/lifecycle"
	"github.com/willfong/bankfront/internal/models"
	"github.com/willfong/bankfront/internal/ui"
	"github.com/willfong/bankfront/internal/utils"
	"github.com/willfong/bankfront/internal/wizard"
)

var (
	fdPrincipal string
	fdTerm      int
	fdAutoRenew bool
)

var fdCmd = &cobra.Command{
	Use:         "fd",
	Short:       "Manage fixed deposits",
	Annotations: surface(surfaceCustomer),
}

var fdListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your fixed deposits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fds, err := app.Client.ListFixedDeposits(cmd.Context())
		if err != nil {
			return err
		}
		app.UI.Println(app.UI.Header("我的定期存款"))
		app.UI.Println(app.UI.FixedDepositTable(fds, app.Now()))
		return nil
	},
}

var fdShowCmd = &cobra.Command{
	Use:   "show <fd-id>",
	Short: "Show a fixed deposit and its term progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fd, err := findFixedDeposit(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		app.UI.Println(app.UI.FixedDepositDetail(fd, app.Now()))
		return nil
	},
}

var fdTermsCmd = &cobra.Command{
	Use:   "terms",
	Short: "List the available terms and rates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		terms, err := app.Client.Terms(cmd.Context())
		if err != nil {
			return err
		}
		app.UI.Println(app.UI.Header("定期存款产品"))
		app.UI.Println(app.UI.TermTable(terms))
		return nil
	},
}

var fdQuoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Project the interest of a fixed deposit before opening it",
	Long: `Project the interest of a fixed deposit at the current rate for a term.
The projection is an estimate; the bank's settlement is authoritative.

Example:
  bankfront fd quote --principal 10000 --term 12`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		principal, err := utils.ParseAmount(fdPrincipal)
		if err != nil {
			return &invalidInputError{messages: []string{"请输入有效的本金金额"}}
		}
		terms, err := app.Client.Terms(cmd.Context())
		if err != nil {
			return err
		}
		term, ok := termFor(terms, fdTerm)
		if !ok {
			return &invalidInputError{messages: []string{fmt.Sprintf("没有 %d 个月的存期", fdTerm)}}
		}

		q := interest.NewQuote(principal, term.AnnualRate, term.TermMonths)
		app.UI.Println(app.UI.SummaryBox("利息测算", []ui.KV{
			{Key: wizard.LabelPrincipal, Value: utils.FormatPlain(q.Principal)},
			{Key: wizard.LabelTerm, Value: strconv.Itoa(q.TermMonths) + "个月"},
			{Key: wizard.LabelRate, Value: utils.FormatRate(q.TermRate)},
			{Key: wizard.LabelInterest, Value: interest.Present(q.TermInterest)},
			{Key: wizard.LabelTotal, Value: interest.Present(q.TermTotal)},
		}, "以上金额为预估，实际以银行处理结果为准"))
		return nil
	},
}

var fdOpenCmd = &cobra.Command{
	Use:   "open <card-id>",
	Short: "Open a fixed deposit funded by a card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		card, err := app.Client.GetCard(ctx, args[0])
		if err != nil {
			return err
		}
		kind := app.Session.Current().Kind
		if err := lifecycle.RequireCardOperation(card, kind, models.OpCreateFixedDeposit); err != nil {
			return &invalidInputError{messages: []string{cardUnavailable(card, kind, models.OpCreateFixedDeposit)}}
		}
		terms, err := app.Client.Terms(ctx)
		if err != nil {
			return err
		}

		u := app.UI
		u.Println(u.TermTable(terms))
		initial := wizard.Draft{Amount: fdPrincipal, TermMonths: fdTerm, AutoRenew: fdAutoRenew}
		w := wizard.New(wizard.CreateFixedDepositFlow(app.Client, card, kind, terms, app.Limits), initial, app.Log)
		fd, err := runWizard(ctx, app, w, func(u *ui.UI, d *wizard.Draft) error {
			if err := ask(u, "本金", &d.Amount); err != nil {
				return err
			}
			term := ""
			if d.TermMonths > 0 {
				term = strconv.Itoa(d.TermMonths)
			}
			if err := ask(u, "存期（月）", &term); err != nil {
				return err
			}
			// An unparsable term is left at zero and reported by validation
			d.TermMonths, _ = strconv.Atoi(term)
			return askPassword(u, d)
		})
		if err != nil {
			return err
		}

		u.Println(u.FixedDepositDetail(fd, app.Now()))
		showCard(ctx, card.CardID, card)
		return nil
	},
}

var fdEarlyCmd = &cobra.Command{
	Use:   "withdraw-early <fd-id>",
	Short: "Withdraw a fixed deposit before maturity at the demand rate",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fd, err := findFixedDeposit(ctx, args[0])
		if err != nil {
			return err
		}
		demand, err := app.Client.DemandRate(ctx)
		if err != nil {
			return err
		}
		w := wizard.New(wizard.EarlyWithdrawFlow(app.Client, fd, demand, app.Now), wizard.Draft{}, app.Log)
		return settle(ctx, w, fd)
	},
}

var fdMatureCmd = &cobra.Command{
	Use:   "withdraw-mature <fd-id>",
	Short: "Withdraw a matured fixed deposit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		fd, err := findFixedDeposit(ctx, args[0])
		if err != nil {
			return err
		}
		w := wizard.New(wizard.MatureWithdrawFlow(app.Client, fd, app.Now), wizard.Draft{}, app.Log)
		return settle(ctx, w, fd)
	},
}

func init() {
	rootCmd.AddCommand(fdCmd)
	fdCmd.AddCommand(fdListCmd, fdShowCmd, fdTermsCmd, fdQuoteCmd, fdOpenCmd, fdEarlyCmd, fdMatureCmd)

	fdQuoteCmd.Flags().StringVar(&fdPrincipal, "principal", "", "principal in yuan")
	fdQuoteCmd.Flags().IntVar(&fdTerm, "term", 0, "term in months")
	_ = fdQuoteCmd.MarkFlagRequired("principal")
	_ = fdQuoteCmd.MarkFlagRequired("term")

	fdOpenCmd.Flags().StringVar(&fdPrincipal, "principal", "", "principal in yuan")
	fdOpenCmd.Flags().IntVar(&fdTerm, "term", 0, "term in months")
	fdOpenCmd.Flags().BoolVar(&fdAutoRenew, "auto-renew", false, "renew automatically at maturity")
}

func termFor(terms []models.FixedDepositTerm, months int) (models.FixedDepositTerm, bool) {
	for _, t := range terms {
		if t.TermMonths == months {
			return t, true
		}
	}
	return models.FixedDepositTerm{}, false
}

// findFixedDeposit looks a certificate up in the customer's list
func findFixedDeposit(ctx context.Context, raw string) (models.FixedDeposit, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return models.FixedDeposit{}, &invalidInputError{messages: []string{"定期存款编号无效：" + raw}}
	}
	fds, err := app.Client.ListFixedDeposits(ctx)
	if err != nil {
		return models.FixedDeposit{}, err
	}
	for _, fd := range fds {
		if fd.FDID == id {
			return fd, nil
		}
	}
	return models.FixedDeposit{}, &invalidInputError{messages: []string{fmt.Sprintf("未找到定期存款 #%d", id)}}
}

// settle runs an early or mature withdrawal and shows the bank's settlement
func settle(ctx context.Context, w *wizard.Wizard[models.FixedDepositSettlement], fd models.FixedDeposit) error {
	if err := lifecycle.RequireFixedDepositOperation(fd, app.Now(), w.Operation()); err != nil {
		return &invalidInputError{messages: []string{fmt.Sprintf("该定期存款当前状态（%s）不可%s",
			lifecycle.DescribeFixedDeposit(fd, app.Now()), lifecycle.DescribeOperation(w.Operation()))}}
	}

	res, err := runWizard(ctx, app, w, func(u *ui.UI, d *wizard.Draft) error {
		return askPassword(u, d)
	})
	if err != nil {
		return err
	}

	u := app.UI
	u.Println(u.SummaryBox("支取结果", []ui.KV{
		{Key: "本金", Value: utils.FormatAmount(res.Principal, utils.DefaultCurrency.Code)},
		{Key: "利息", Value: utils.FormatAmount(res.Interest, utils.DefaultCurrency.Code)},
		{Key: "到账金额", Value: utils.FormatAmount(res.TotalAmount, utils.DefaultCurrency.Code)},
		{Key: "入账卡号", Value: fd.CardID},
	}, ""))
	return nil
}
