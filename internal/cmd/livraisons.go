package cmd

import (
	"fmt"

	"github.com/diewo77/go-commandes/internal/models"
	"github.com/diewo77/go-commandes/internal/services"
	"github.com/spf13/cobra"
)

func newDeliveriesCmd(opts *options) *cobra.Command {
	c := &cobra.Command{
		Use:     "livraisons",
		Aliases: []string{"deliveries"},
		Short:   "Suivre les livraisons",
	}
	c.AddCommand(newDeliveriesListCmd(opts), newDeliveryStatusCmd(opts))
	return c
}

func newDeliveriesListCmd(opts *options) *cobra.Command {
	var (
		statut, query string
		period        dateRange
	)
	c := &cobra.Command{
		Use:   "list",
		Short: "Lister les livraisons",
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
			var deliveries []models.Delivery
			switch {
			case statut != "":
				st, perr := models.ParseDeliveryStatus(statut)
				if perr != nil {
					return perr
				}
				deliveries, err = api.Deliveries.ByStatus(cmd.Context(), st)
			case ranged:
				deliveries, err = api.Deliveries.ByDateRange(cmd.Context(), start, end)
			default:
				deliveries, err = api.Deliveries.List(cmd.Context())
			}
			if err != nil {
				return err
			}
			shown := services.FilterDeliveries(deliveries, query)

			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tCOMMANDE\tTRANSPORTEUR\tDATE\tSTATUT\tADRESSE")
			for _, d := range shown {
				carrier := d.CarrierName()
				if carrier == "" {
					carrier = "-"
				}
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n", d.ID, d.OrderID(), carrier, d.DateLivraison.Display(), d.Statut, d.AdresseLivraison)
			}
			return tw.Flush()
		},
	}
	c.Flags().StringVar(&statut, "statut", "", "only deliveries in this status")
	c.Flags().StringVarP(&query, "query", "q", "", "substring filter")
	period.bind(c)
	return c
}

func newDeliveryStatusCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "statut <id> <STATUT>",
		Short: "Changer le statut d'une livraison",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			target, err := models.ParseDeliveryStatus(args[1])
			if err != nil {
				return err
			}
			api, err := opts.client(cmd)
			if err != nil {
				return err
			}
			d, err := api.Deliveries.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !d.Statut.CanModify() {
				return fmt.Errorf("livraison %d au statut %s: plus modifiable", id, d.Statut)
			}
			if !d.Statut.CanTransitionTo(target) {
				return fmt.Errorf("transition %s -> %s refusée (possibles: %s)", d.Statut, target, joinStatuses(d.Statut.NextStatuses()))
			}
			if _, err := api.Deliveries.UpdateStatus(cmd.Context(), id, target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "livraison %d: %s -> %s\n", id, d.Statut, target)
			return nil
		},
	}
}
