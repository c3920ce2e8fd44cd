package cmd

import (
	"errors"
	"fmt"

	"github.com/diewo77/go-commandes/internal/models"
	"github.com/diewo77/go-commandes/internal/services"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newOrdersCmd(opts *options) *cobra.Command {
	c := &cobra.Command{
		Use:     "commandes",
		Aliases: []string{"orders"},
		Short:   "Lister les commandes et changer leur statut",
	}
	c.AddCommand(newOrdersListCmd(opts), newOrderStatusCmd(opts), newOrderCancelCmd(opts))
	return c
}

func newOrdersListCmd(opts *options) *cobra.Command {
	var (
		statut, query string
		period        dateRange
	)
	c := &cobra.Command{
		Use:   "list",
		Short: "Lister les commandes",
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
			var orders []models.Order
			switch {
			case statut != "":
				st, perr := models.ParseOrderStatus(statut)
				if perr != nil {
					return perr
				}
				orders, err = api.Orders.ByStatus(cmd.Context(), st)
			case ranged:
				orders, err = api.Orders.ByDateRange(cmd.Context(), start, end)
			default:
				orders, err = api.Orders.List(cmd.Context())
			}
			if err != nil {
				return err
			}
			shown := services.FilterOrders(orders, query)

			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tDATE\tCLIENT\tSTATUT\tTOTAL")
			for _, o := range shown {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", o.ID, o.Date.Display(), o.ClientName(), o.Statut,
					decimal.NewFromFloat(o.MontantTotal).StringFixed(2))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d sur %d\n", len(shown), len(orders))
			return nil
		},
	}
	c.Flags().StringVar(&statut, "statut", "", "only orders in this status (EN_ATTENTE, VALIDEE, ...); wins over --du/--au")
	c.Flags().StringVarP(&query, "query", "q", "", "substring filter on id, client, status")
	period.bind(c)
	return c
}

// newOrderStatusCmd changes a status. Without --force the target must be one
// the web editor would offer.
func newOrderStatusCmd(opts *options) *cobra.Command {
	var force bool
	c := &cobra.Command{
		Use:   "statut <id> <STATUT>",
		Short: "Changer le statut d'une commande",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			target, err := models.ParseOrderStatus(args[1])
			if err != nil {
				return err
			}
			api, err := opts.client(cmd)
			if err != nil {
				return err
			}
			o, err := api.Orders.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !force && !o.Statut.CanTransitionTo(target) {
				return fmt.Errorf("transition %s -> %s refusée (possibles: %s)", o.Statut, target, joinStatuses(o.Statut.NextStatuses()))
			}
			if _, err := api.Orders.UpdateStatus(cmd.Context(), id, target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "commande %d: %s -> %s\n", id, o.Statut, target)
			return nil
		},
	}
	c.Flags().BoolVar(&force, "force", false, "skip the transition check")
	return c
}

func newOrderCancelCmd(opts *options) *cobra.Command {
	var yes bool
	c := &cobra.Command{
		Use:   "annuler <id>",
		Short: "Annuler une commande",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				return errors.New("annulation irréversible: relancer avec --yes")
			}
			api, err := opts.client(cmd)
			if err != nil {
				return err
			}
			o, err := api.Orders.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !o.Statut.CanCancel() {
				return fmt.Errorf("commande %d au statut %s: annulation impossible", id, o.Statut)
			}
			if _, err := api.Orders.Cancel(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "commande %d annulée\n", id)
			return nil
		},
	}
	c.Flags().BoolVar(&yes, "yes", false, "confirm the cancellation")
	return c
}
