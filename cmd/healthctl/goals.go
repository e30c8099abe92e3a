package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

func newGoalsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "goals",
		Aliases: []string{"goal"},
		Short:   "Set and track health goals",
		Long: `Set health goals with a target value and record progress toward them.
A goal is marked completed when progress reaches 100%.

Examples:
  healthctl goals add --title "Walk more" --type exercise --target 10000 --unit steps
  healthctl goals progress 65f0c2 6500`,
	}

	var lf listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.reg.Goals().List(cmd.Context(), lf.query())
			if err != nil {
				return err
			}
			return a.emit(page, func() error {
				if len(page.Items) == 0 {
					fmt.Fprintln(a.out, "No goals found")
					return nil
				}
				w := a.table("ID\tTITLE\tPROGRESS\tCURRENT\tTARGET\tSTATUS\tEND")
				for _, g := range page.Items {
					fmt.Fprintf(w, "%s\t%s\t%.0f%%\t%g\t%g %s\t%s\t%s\n",
						g.ID, truncate(g.Title, 30), g.Progress, g.CurrentValue, g.TargetValue, g.Unit, g.Status, orDash(g.EndDate))
				}
				w.Flush()
				fmt.Fprintln(a.out, paginationLine(page.Pagination))
				return nil
			})
		},
	}
	lf.register(list)

	cmd.AddCommand(
		list,
		newGoalsAddCmd(a),
		newGoalsUpdateCmd(a),
		&cobra.Command{
			Use:   "progress <id> <value>",
			Short: "Record the current value of a goal",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return usagef("value must be a number, got %q", args[1])
				}
				g, err := a.reg.Goals().Progress(cmd.Context(), args[0], v)
				if err != nil {
					return err
				}
				return a.emit(g, func() error {
					fmt.Fprintf(a.out, "%s: %.0f%% (%g of %g %s)\n", g.Title, g.Progress, g.CurrentValue, g.TargetValue, g.Unit)
					if g.Status == v1.GoalCompleted {
						fmt.Fprintln(a.out, "Goal completed!")
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a goal",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.reg.Goals().Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				return a.done("Goal deleted")
			},
		},
	)
	return cmd
}

type goalFlags struct {
	title, description, typ, unit, end, status string
	target                                     float64
}

func (f *goalFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Goal title")
	cmd.Flags().StringVar(&f.description, "description", "", "Description")
	cmd.Flags().StringVar(&f.typ, "type", "", "Goal type, e.g. weight, exercise, water")
	cmd.Flags().Float64Var(&f.target, "target", 0, "Target value")
	cmd.Flags().StringVar(&f.unit, "unit", "", "Unit of the target, e.g. kg or steps")
	cmd.Flags().StringVar(&f.end, "end", "", "End date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.status, "status", "", "active, completed, paused or cancelled")
}

func (f *goalFlags) apply(cmd *cobra.Command, in *v1.HealthGoalInput) {
	changed := cmd.Flags().Changed
	if changed("title") {
		in.Title = f.title
	}
	if changed("description") {
		in.Description = f.description
	}
	if changed("type") {
		in.Type = f.typ
	}
	if changed("target") {
		in.TargetValue = f.target
	}
	if changed("unit") {
		in.Unit = f.unit
	}
	if changed("end") {
		in.EndDate = f.end
	}
	if changed("status") {
		in.Status = v1.GoalStatus(f.status)
	}
}

func newGoalsAddCmd(a *app) *cobra.Command {
	var f goalFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := v1.NewHealthGoalInput()
			f.apply(cmd, &in)
			if err := in.Validate(); err != nil {
				return err
			}
			g, err := a.reg.Goals().Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.emit(g, func() error {
				fmt.Fprintf(a.out, "Goal created: %s\n", g.ID)
				return nil
			})
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("unit")
	return cmd
}

func newGoalsUpdateCmd(a *app) *cobra.Command {
	var f goalFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := a.reg.Goals().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			in := v1.InputFromGoal(cur)
			f.apply(cmd, &in)
			if err := in.Validate(); err != nil {
				return err
			}
			g, err := a.reg.Goals().Update(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return a.emit(g, func() error {
				fmt.Fprintf(a.out, "Goal updated: %s\n", g.ID)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}
