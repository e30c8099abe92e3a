package main

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

func today() string { return time.Now().Format(v1.DateLayout) }

// newStatsCmd prints a period summary whose keys are defined by the server.
func newStatsCmd(a *app, load func(cmd *cobra.Command, q v1.PeriodQuery) (v1.Statistics, error)) *cobra.Command {
	var q v1.PeriodQuery
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !v1.ValidPeriod(q.Period) {
				return usagef("period must be week, month or year, got %q", q.Period)
			}
			s, err := load(cmd, q)
			if err != nil {
				return err
			}
			return a.emit(s, func() error {
				printStatistics(a, s)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&q.Period, "period", "week", "week, month or year")
	return cmd
}

func printStatistics(a *app, s v1.Statistics) {
	if len(s) == 0 {
		fmt.Fprintln(a.out, "No data for this period")
		return
	}
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	w := a.table("STAT\tVALUE")
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%v\n", k, s[k])
	}
	w.Flush()
}

func newDeleteCmd(a *app, what string, del func(cmd *cobra.Command, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete " + what,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := del(cmd, args[0]); err != nil {
				return err
			}
			return a.done("Deleted " + what)
		},
	}
}

func newWaterCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "water",
		Short: "Log water intake",
		Long: `Log drinks in millilitres and review daily totals.

Examples:
  healthctl water add 250
  healthctl water daily --date 2024-03-01
  healthctl water stats --period month`,
	}

	var lf listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List logged drinks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.reg.Water().List(cmd.Context(), lf.query())
			if err != nil {
				return err
			}
			return a.emit(page, func() error {
				if len(page.Items) == 0 {
					fmt.Fprintln(a.out, "No water intake logged")
					return nil
				}
				w := a.table("ID\tDATE\tAMOUNT\tNOTE")
				for _, e := range page.Items {
					fmt.Fprintf(w, "%s\t%s\t%d ml\t%s\n", e.ID, orDash(e.Date), e.Amount, truncate(e.Note, 40))
				}
				w.Flush()
				fmt.Fprintln(a.out, paginationLine(page.Pagination))
				return nil
			})
		},
	}
	lf.register(list)

	var in v1.WaterIntakeInput
	add := &cobra.Command{
		Use:   "add <ml>",
		Short: "Log a drink",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ml, err := strconv.Atoi(args[0])
			if err != nil {
				return usagef("amount must be a whole number of millilitres, got %q", args[0])
			}
			in.Amount = ml
			if err := in.Validate(); err != nil {
				return err
			}
			e, err := a.reg.Water().Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.emit(e, func() error {
				fmt.Fprintf(a.out, "Logged %d ml\n", e.Amount)
				return nil
			})
		},
	}
	add.Flags().StringVar(&in.Date, "date", "", "Date, YYYY-MM-DD (default today)")
	add.Flags().StringVar(&in.Note, "note", "", "Note")

	var dq v1.DailyQuery
	daily := &cobra.Command{
		Use:   "daily",
		Short: "Show the total for one day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.reg.Water().Daily(cmd.Context(), dq)
			if err != nil {
				return err
			}
			return a.emit(d, func() error {
				day := d.Date
				if day == "" {
					day = orDash(dq.Date)
					if dq.Date == "" {
						day = "today"
					}
				}
				fmt.Fprintf(a.out, "%s: %d ml\n", day, d.Total)
				return nil
			})
		},
	}
	daily.Flags().StringVar(&dq.Date, "date", "", "Date, YYYY-MM-DD (default today)")

	cmd.AddCommand(
		list,
		add,
		daily,
		newStatsCmd(a, func(cmd *cobra.Command, q v1.PeriodQuery) (v1.Statistics, error) {
			return a.reg.Water().Statistics(cmd.Context(), q)
		}),
		newDeleteCmd(a, "water entry", func(cmd *cobra.Command, id string) error {
			return a.reg.Water().Delete(cmd.Context(), id)
		}),
	)
	return cmd
}

type exerciseFlags struct {
	typ, name, intensity, date, note string
	duration                         int
}

func (f *exerciseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.typ, "type", "", "Exercise type, e.g. running, cycling, gym")
	cmd.Flags().StringVar(&f.name, "name", "", "Exercise name")
	cmd.Flags().IntVar(&f.duration, "duration", 0, "Duration in minutes")
	cmd.Flags().StringVar(&f.intensity, "intensity", "", "low, moderate or high")
	cmd.Flags().Float64("calories", 0, "Calories burned")
	cmd.Flags().Float64("distance", 0, "Distance in km")
	cmd.Flags().StringVar(&f.date, "date", "", "Date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.note, "note", "", "Note")
}

func (f *exerciseFlags) apply(cmd *cobra.Command, in *v1.ExerciseInput) {
	changed := cmd.Flags().Changed
	if changed("type") {
		in.ExerciseType = f.typ
	}
	if changed("name") {
		in.ExerciseName = f.name
	}
	if changed("duration") {
		in.Duration = f.duration
	}
	if changed("intensity") {
		in.Intensity = f.intensity
	}
	if v := optionalFloat(cmd, "calories"); v != nil {
		in.CaloriesBurned = v
	}
	if v := optionalFloat(cmd, "distance"); v != nil {
		in.Distance = v
	}
	if changed("date") {
		in.ExerciseDate = f.date
	}
	if changed("note") {
		in.Note = f.note
	}
}

func newExerciseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exercise",
		Short: "Log workouts",
		Long: `Log workouts and review activity statistics.

Examples:
  healthctl exercise add --name "Morning run" --duration 30 --distance 5
  healthctl exercise stats --period month`,
	}

	var lf listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List workouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.reg.Exercise().List(cmd.Context(), lf.query())
			if err != nil {
				return err
			}
			return a.emit(page, func() error {
				if len(page.Items) == 0 {
					fmt.Fprintln(a.out, "No workouts logged")
					return nil
				}
				w := a.table("ID\tDATE\tTYPE\tNAME\tMINUTES\tINTENSITY\tKCAL\tKM")
				for _, e := range page.Items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
						e.ID, orDash(e.ExerciseDate), e.ExerciseType, truncate(e.ExerciseName, 24), e.Duration,
						e.Intensity, floatOrDash(e.CaloriesBurned, 0), floatOrDash(e.Distance, 1))
				}
				w.Flush()
				fmt.Fprintln(a.out, paginationLine(page.Pagination))
				return nil
			})
		},
	}
	lf.register(list)

	var af exerciseFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Log a workout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := v1.NewExerciseInput(today())
			af.apply(cmd, &in)
			if err := in.Validate(); err != nil {
				return err
			}
			e, err := a.reg.Exercise().Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.emit(e, func() error {
				fmt.Fprintf(a.out, "Workout logged: %s\n", e.ID)
				return nil
			})
		},
	}
	af.register(add)
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("duration")

	var uf exerciseFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := findByID(cmd, args[0], a.reg.Exercise().List, func(e v1.ExerciseLog) string { return e.ID })
			if err != nil {
				return err
			}
			in := v1.InputFromExercise(cur)
			uf.apply(cmd, &in)
			if err := in.Validate(); err != nil {
				return err
			}
			e, err := a.reg.Exercise().Update(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return a.emit(e, func() error {
				fmt.Fprintf(a.out, "Workout updated: %s\n", e.ID)
				return nil
			})
		},
	}
	uf.register(update)

	cmd.AddCommand(
		list,
		add,
		update,
		newStatsCmd(a, func(cmd *cobra.Command, q v1.PeriodQuery) (v1.Statistics, error) {
			return a.reg.Exercise().Statistics(cmd.Context(), q)
		}),
		newDeleteCmd(a, "workout", func(cmd *cobra.Command, id string) error {
			return a.reg.Exercise().Delete(cmd.Context(), id)
		}),
	)
	return cmd
}

type sleepFlags struct {
	date, bedtime, wake, quality, note string
	wakeUps                            int
}

func (f *sleepFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "Night of, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.bedtime, "bedtime", "", "Bedtime, HH:MM")
	cmd.Flags().StringVar(&f.wake, "wake", "", "Wake time, HH:MM")
	cmd.Flags().StringVar(&f.quality, "quality", "", "excellent, good, fair or poor")
	cmd.Flags().IntVar(&f.wakeUps, "wake-ups", 0, "Times woken during the night")
	cmd.Flags().StringVar(&f.note, "note", "", "Note")
}

func (f *sleepFlags) apply(cmd *cobra.Command, in *v1.SleepInput) {
	changed := cmd.Flags().Changed
	if changed("date") {
		in.SleepDate = f.date
	}
	if changed("bedtime") {
		in.Bedtime = f.bedtime
	}
	if changed("wake") {
		in.WakeTime = f.wake
	}
	if changed("quality") {
		in.Quality = f.quality
	}
	if changed("wake-ups") {
		in.WakeUpCount = f.wakeUps
	}
	if changed("note") {
		in.Note = f.note
	}
}

func newSleepCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sleep",
		Short: "Log sleep",
		Long: `Log nights of sleep and review sleep statistics.

Examples:
  healthctl sleep add --bedtime 23:15 --wake 06:45 --quality fair
  healthctl sleep stats --period week`,
	}

	var lf listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List nights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.reg.Sleep().List(cmd.Context(), lf.query())
			if err != nil {
				return err
			}
			return a.emit(page, func() error {
				if len(page.Items) == 0 {
					fmt.Fprintln(a.out, "No sleep logged")
					return nil
				}
				w := a.table("ID\tDATE\tBED\tWAKE\tDURATION\tQUALITY\tWAKE-UPS")
				for _, s := range page.Items {
					dur := "-"
					if s.Duration > 0 {
						dur = fmt.Sprintf("%dh%02dm", s.Duration/60, s.Duration%60)
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
						s.ID, orDash(s.SleepDate), s.Bedtime, s.WakeTime, dur, s.Quality, s.WakeUpCount)
				}
				w.Flush()
				fmt.Fprintln(a.out, paginationLine(page.Pagination))
				return nil
			})
		},
	}
	lf.register(list)

	var af sleepFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Log a night",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := v1.NewSleepInput(today())
			af.apply(cmd, &in)
			if err := in.Validate(); err != nil {
				return err
			}
			s, err := a.reg.Sleep().Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.emit(s, func() error {
				fmt.Fprintf(a.out, "Sleep logged: %s\n", s.ID)
				return nil
			})
		},
	}
	af.register(add)

	var uf sleepFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a night",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := findByID(cmd, args[0], a.reg.Sleep().List, func(s v1.SleepEntry) string { return s.ID })
			if err != nil {
				return err
			}
			in := v1.InputFromSleep(cur)
			uf.apply(cmd, &in)
			if err := in.Validate(); err != nil {
				return err
			}
			s, err := a.reg.Sleep().Update(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return a.emit(s, func() error {
				fmt.Fprintf(a.out, "Sleep updated: %s\n", s.ID)
				return nil
			})
		},
	}
	uf.register(update)

	cmd.AddCommand(
		list,
		add,
		update,
		newStatsCmd(a, func(cmd *cobra.Command, q v1.PeriodQuery) (v1.Statistics, error) {
			return a.reg.Sleep().Statistics(cmd.Context(), q)
		}),
		newDeleteCmd(a, "sleep entry", func(cmd *cobra.Command, id string) error {
			return a.reg.Sleep().Delete(cmd.Context(), id)
		}),
	)
	return cmd
}
