package cmd

import (
	"fmt"

	"github.com/diewo77/go-commandes/internal/models"
	"github.com/diewo77/go-commandes/internal/services"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newPaymentsCmd(opts *options) *cobra.Command {
	c := &cobra.Command{
		Use:     "paiements",
		Aliases: []string{"payments"},
		Short:   "Consulter et traiter les paiements",
	}
	c.AddCommand(newPaymentsListCmd(opts), newPaymentProcessCmd(opts))
	return c
}

func newPaymentsListCmd(opts *options) *cobra.Command {
	var (
		statut, mode, query string
		period              dateRange
	)
	c := &cobra.Command{
		Use:   "list",
		Short: "Lister les paiements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, ranged, err := period.bounds()
			if err != nil {
				return err
			}
			api, err := opts.client(cmd)
			if err != nil {
				return err
			}
			var payments []models.Payment
			switch {
			case statut != "":
				st, perr := models.ParsePaymentStatus(statut)
				if perr != nil {
					return perr
				}
				payments, err = api.Payments.ByStatus(cmd.Context(), st)
			case mode != "":
				m, perr := models.ParsePaymentMode(mode)
				if perr != nil {
					return perr
				}
				payments, err = api.Payments.ByMode(cmd.Context(), m)
			case ranged:
				payments, err = api.Payments.ByDateRange(cmd.Context(), start, end)
			default:
				payments, err = api.Payments.List(cmd.Context())
			}
			if err != nil {
				return err
			}
			shown := services.FilterPayments(payments, query)

			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tCOMMANDE\tCLIENT\tMONTANT\tMODE\tSTATUT")
			for _, p := range shown {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n", p.ID, p.OrderID(), p.ClientName(),
					decimal.NewFromFloat(p.MontantPaye).StringFixed(2), p.Mode, p.Statut)
			}
			return tw.Flush()
		},
	}
	c.Flags().StringVar(&statut, "statut", "", "only payments in this status (wins over --mode)")
	c.Flags().StringVar(&mode, "mode", "", "only payments made with this mode")
	c.Flags().StringVarP(&query, "query", "q", "", "substring filter")
	period.bind(c)
	return c
}

func newPaymentProcessCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "traiter <id>",
		Short: "Traiter un paiement en attente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			api, err := opts.client(cmd)
			if err != nil {
				return err
			}
			p, err := api.Payments.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !p.Statut.CanProcess() {
				return fmt.Errorf("paiement %d au statut %s: déjà traité", id, p.Statut)
			}
			done, err := api.Payments.Process(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "paiement %d: %s -> %s\n", id, p.Statut, done.Statut)
			return nil
		},
	}
}
