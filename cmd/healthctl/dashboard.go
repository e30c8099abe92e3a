package main

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/healthdash/internal/crud"
	"github.com/fyrsmithlabs/healthdash/internal/dashboard"
	"github.com/fyrsmithlabs/healthdash/internal/session"
	"github.com/fyrsmithlabs/healthdash/internal/tui"
)

func newDashboardCmd(a *app) *cobra.Command {
	var (
		records bool
		manage  string
	)
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash", "ui"},
		Short:   "Open the live terminal dashboard",
		Long: `Open a full-screen dashboard that refreshes every dashboard.refresh_interval.

Keys: r refresh, p cycle the report period, q quit.
With --manage, opens the list manager for one resource instead:
n new, e edit, d delete, enter view, arrows page.

Examples:
  healthctl dashboard
  healthctl dashboard --manage goals
  healthctl dashboard --records`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := a.reg.Auth().Current()
			if err != nil {
				return err
			}

			if records {
				manage = "records"
			}
			if manage != "" {
				model, err := tui.Manage(ctx, a.reg, manage, sess.User.IsAdmin(),
					crud.WithLimit(a.cfg.Dashboard.PageSize),
					crud.WithLogger(a.logger))
				if err != nil {
					return usagef("%v", err)
				}
				return tui.Run(ctx, model)
			}

			loader := dashboard.NewLoader(a.reg, a.logger)
			model := tui.NewDashboardModel(ctx, loader, sess.User.IsAdmin(), a.cfg.Dashboard.RefreshInterval)
			if w, err := session.Watch(ctx, a.store.Path()); err != nil {
				a.logger.Warn(ctx, "session watcher unavailable", zap.Error(err))
			} else {
				model = model.WithSessionWatcher(w)
			}
			return tui.Run(ctx, model)
		},
	}
	cmd.Flags().StringVar(&manage, "manage", "", "Manage one resource: "+strings.Join(tui.Managed, ", "))
	cmd.Flags().BoolVar(&records, "records", false, "Shorthand for --manage records")
	return cmd
}

