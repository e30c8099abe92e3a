package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/healthdash/internal/reports"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

func newRemindersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reminders",
		Aliases: []string{"reminder"},
		Short:   "Manage recurring reminders",
		Long: `Manage recurring reminders for medicine, exercise, sleep, water, meals and
checkups. Days are 0-6 (0 is Sunday) or sun..sat.

Examples:
  healthctl reminders add --title Vitamins --type medicine --time 08:00 --days mon,wed,fri
  healthctl reminders list --active
  healthctl reminders toggle 65f0c2 --off`,
	}
	cmd.AddCommand(
		newRemindersListCmd(a),
		newRemindersAddCmd(a),
		newRemindersUpdateCmd(a),
		newRemindersToggleCmd(a),
		newRemindersDeleteCmd(a),
	)
	return cmd
}

func newRemindersListCmd(a *app) *cobra.Command {
	var (
		lf       listFlags
		active   bool
		inactive bool
		typ      string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := v1.ReminderQuery{ListQuery: lf.query(), Type: v1.ReminderType(typ)}
			switch {
			case active && inactive:
				return usagef("--active and --inactive are mutually exclusive")
			case active:
				q.IsActive = v1.Bool(true)
			case inactive:
				q.IsActive = v1.Bool(false)
			}
			page, err := a.reg.Reminders().List(cmd.Context(), q)
			if err != nil {
				return err
			}
			return a.emit(page, func() error {
				if len(page.Items) == 0 {
					fmt.Fprintln(a.out, "No reminders found")
					return nil
				}
				w := a.table("ID\tTITLE\tTYPE\tTIME\tDAYS\tACTIVE")
				for _, r := range page.Items {
					state := "no"
					if r.IsActive {
						state = "yes"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						r.ID, truncate(r.Title, 30), reports.ReminderTypeLabel(r.Type), r.Time, reports.DayNames(r.DaysOfWeek), state)
				}
				w.Flush()
				fmt.Fprintln(a.out, paginationLine(page.Pagination))
				return nil
			})
		},
	}
	lf.register(cmd)
	cmd.Flags().BoolVar(&active, "active", false, "Only active reminders")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "Only inactive reminders")
	cmd.Flags().StringVar(&typ, "type", "", "Only reminders of this type")
	return cmd
}

type reminderFlags struct {
	title, description, typ, clock, days string
	inactive                             bool
}

func (f *reminderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Reminder title")
	cmd.Flags().StringVar(&f.description, "description", "", "Longer description")
	cmd.Flags().StringVar(&f.typ, "type", "", "medicine, exercise, sleep, water, meal, checkup or other")
	cmd.Flags().StringVar(&f.clock, "time", "", "Time of day, HH:MM")
	cmd.Flags().StringVar(&f.days, "days", "", "Comma separated days, e.g. mon,tue or 1,2")
	cmd.Flags().BoolVar(&f.inactive, "inactive", false, "Create the reminder switched off")
}

// apply overwrites the fields of in whose flags were given.
func (f *reminderFlags) apply(cmd *cobra.Command, in *v1.ReminderInput) error {
	changed := cmd.Flags().Changed
	if changed("title") {
		in.Title = f.title
	}
	if changed("description") {
		in.Description = f.description
	}
	if changed("type") {
		in.Type = v1.ReminderType(f.typ)
	}
	if changed("time") {
		in.Time = f.clock
	}
	if changed("days") {
		days, err := parseDays(f.days)
		if err != nil {
			return err
		}
		in.DaysOfWeek = days
	}
	if changed("inactive") {
		in.IsActive = !f.inactive
	}
	in.Normalize()
	return nil
}

func newRemindersAddCmd(a *app) *cobra.Command {
	var f reminderFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a reminder (defaults: 08:00 on weekdays)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := v1.NewReminderInput()
			if err := f.apply(cmd, &in); err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return err
			}
			r, err := a.reg.Reminders().Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.emit(r, func() error {
				fmt.Fprintf(a.out, "Reminder created: %s\n", r.ID)
				return nil
			})
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newRemindersUpdateCmd(a *app) *cobra.Command {
	var f reminderFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := a.reg.Reminders().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			in := v1.InputFromReminder(cur)
			if err := f.apply(cmd, &in); err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return err
			}
			r, err := a.reg.Reminders().Update(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return a.emit(r, func() error {
				fmt.Fprintf(a.out, "Reminder updated: %s\n", r.ID)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newRemindersToggleCmd(a *app) *cobra.Command {
	var on, off bool
	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Switch a reminder on or off",
		Long: `Switch a reminder on or off. Without --on or --off the current state is
flipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if on && off {
				return usagef("--on and --off are mutually exclusive")
			}
			active := on
			if !on && !off {
				cur, err := a.reg.Reminders().Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				active = !cur.IsActive
			}
			r, err := a.reg.Reminders().Toggle(cmd.Context(), args[0], active)
			if err != nil {
				return err
			}
			return a.emit(r, func() error {
				state := "off"
				if r.IsActive {
					state = "on"
				}
				fmt.Fprintf(a.out, "Reminder %q is now %s\n", r.Title, state)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&on, "on", false, "Switch on")
	cmd.Flags().BoolVar(&off, "off", false, "Switch off")
	return cmd
}

func newRemindersDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.reg.Reminders().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.done("Reminder deleted")
		},
	}
}
