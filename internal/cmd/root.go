// Package cmd implements commandesctl, an operator CLI over the commerce
// backend. Status changes go through the same transition tables as the
// web console.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/diewo77/go-commandes/internal/backend"
	"github.com/diewo77/go-commandes/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type options struct {
	api     string
	timeout time.Duration
	verbose bool
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "commandesctl",
		Short: "Gestion des commandes, livraisons et paiements en ligne de commande",
		Long: `commandesctl talks to the same REST backend as the web console.

The backend URL comes from --api, then API_BASE_URL (environment or
commandes.yaml).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.api, "api", "", "backend base URL (default: API_BASE_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "request timeout (default: API_TIMEOUT)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every backend call on stderr")

	root.AddCommand(newOrdersCmd(opts), newDeliveriesCmd(opts), newPaymentsCmd(opts))
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (o *options) client(cmd *cobra.Command) (*backend.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	baseURL, timeout := cfg.Backend.BaseURL, cfg.Backend.Timeout
	if o.api != "" {
		baseURL = strings.TrimRight(o.api, "/")
	}
	if o.timeout > 0 {
		timeout = o.timeout
	}
	level := zerolog.WarnLevel
	if o.verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).Level(level)
	return backend.New(baseURL, backend.WithTimeout(timeout), backend.WithLogger(log)), nil
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("identifiant invalide: %q", raw)
	}
	return id, nil
}

func joinStatuses[S ~string](list []S) string {
	if len(list) == 0 {
		return "aucune"
	}
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// dateRange holds the --du/--au flags. Both days are inclusive.
type dateRange struct {
	from, to string
}

func (d *dateRange) bind(c *cobra.Command) {
	c.Flags().StringVar(&d.from, "du", "", "first day of the period (YYYY-MM-DD)")
	c.Flags().StringVar(&d.to, "au", "", "last day of the period (YYYY-MM-DD)")
}

// bounds reports ok=false when no period was asked for.
func (d dateRange) bounds() (start, end time.Time, ok bool, err error) {
	if d.from == "" && d.to == "" {
		return start, end, false, nil
	}
	if d.from == "" || d.to == "" {
		return start, end, false, errors.New("--du et --au vont ensemble")
	}
	if start, err = time.ParseInLocation(time.DateOnly, d.from, time.Local); err != nil {
		return start, end, false, fmt.Errorf("date invalide: %q", d.from)
	}
	last, err := time.ParseInLocation(time.DateOnly, d.to, time.Local)
	if err != nil {
		return start, end, false, fmt.Errorf("date invalide: %q", d.to)
	}
	if last.Before(start) {
		return start, end, false, fmt.Errorf("période vide: %s après %s", d.from, d.to)
	}
	return start, last.AddDate(0, 0, 1).Add(-time.Second), true, nil
}
