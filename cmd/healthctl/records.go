package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/healthdash/internal/reports"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

func newRecordsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "records",
		Aliases: []string{"record"},
		Short:   "Manage health records",
		Long: `Manage health measurements: weight, height, blood pressure, heart rate,
blood sugar and temperature.

Examples:
  # Log a measurement
  healthctl records add --weight 70.5 --height 175 --systolic 120 --diastolic 80

  # List the second page
  healthctl records list --page 2

  # Records in March
  healthctl records list --from 2024-03-01 --to 2024-03-31`,
	}
	cmd.AddCommand(
		newRecordsListCmd(a),
		newRecordsShowCmd(a),
		newRecordsLatestCmd(a),
		newRecordsAddCmd(a),
		newRecordsUpdateCmd(a),
		newRecordsDeleteCmd(a),
	)
	return cmd
}

func newRecordsListCmd(a *app) *cobra.Command {
	var (
		lf listFlags
		q  v1.RecordQuery
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List health records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q.ListQuery = lf.query()
			page, err := a.reg.Records().List(cmd.Context(), q)
			if err != nil {
				return err
			}
			return a.emit(page, func() error {
				if len(page.Items) == 0 {
					fmt.Fprintln(a.out, "No health records found")
					return nil
				}
				w := a.table("ID\tDATE\tWEIGHT\tHEIGHT\tBMI\tPRESSURE\tHR\tNOTE")
				for _, r := range page.Items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						r.ID,
						r.CreatedAt.Local().Format("2006-01-02 15:04"),
						floatOrDash(r.Weight, 1),
						floatOrDash(r.Height, 0),
						bmiText(r),
						pressureText(r.BloodPressure),
						floatOrDash(r.HeartRate, 0),
						truncate(r.Note, 30))
				}
				w.Flush()
				fmt.Fprintln(a.out, paginationLine(page.Pagination))
				return nil
			})
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&q.StartDate, "from", "", "Only records on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&q.EndDate, "to", "", "Only records on or before this date (YYYY-MM-DD)")
	return cmd
}

func newRecordsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one health record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.reg.Records().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit(r, func() error { return printRecord(a, r) })
		},
	}
}

func newRecordsLatestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Show the most recent health record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.reg.Records().Latest(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(r, func() error { return printRecord(a, r) })
		},
	}
}

// recordFlags registers the measurement flags shared by add and update.
func recordFlags(cmd *cobra.Command, note *string) {
	cmd.Flags().Float64("weight", 0, "Weight in kg")
	cmd.Flags().Float64("height", 0, "Height in cm")
	cmd.Flags().Float64("systolic", 0, "Systolic blood pressure in mmHg")
	cmd.Flags().Float64("diastolic", 0, "Diastolic blood pressure in mmHg")
	cmd.Flags().Float64("heart-rate", 0, "Heart rate in bpm")
	cmd.Flags().Float64("blood-sugar", 0, "Blood sugar in mg/dL")
	cmd.Flags().Float64("temperature", 0, "Body temperature in °C")
	cmd.Flags().StringVar(note, "note", "", "Free text note")
}

// applyRecordFlags overwrites the fields of in whose flags were given.
func applyRecordFlags(cmd *cobra.Command, in *v1.HealthRecordInput, note string) {
	set := func(dst **float64, name string) {
		if v := optionalFloat(cmd, name); v != nil {
			*dst = v
		}
	}
	set(&in.Weight, "weight")
	set(&in.Height, "height")
	set(&in.HeartRate, "heart-rate")
	set(&in.BloodSugar, "blood-sugar")
	set(&in.Temperature, "temperature")

	sys, dia := optionalFloat(cmd, "systolic"), optionalFloat(cmd, "diastolic")
	if sys != nil || dia != nil {
		bp := v1.BloodPressure{}
		if in.BloodPressure != nil {
			bp = *in.BloodPressure
		}
		if sys != nil {
			bp.Systolic = sys
		}
		if dia != nil {
			bp.Diastolic = dia
		}
		in.BloodPressure = &bp
	}
	if cmd.Flags().Changed("note") {
		in.Note = note
	}
}

func newRecordsAddCmd(a *app) *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a health record",
		Long: `Log a health record. At least --weight or --height is required.

Examples:
  healthctl records add --weight 70.5
  healthctl records add --weight 70.5 --height 175 --heart-rate 64 --note "after run"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in v1.HealthRecordInput
			applyRecordFlags(cmd, &in, note)
			if err := in.Validate(); err != nil {
				return err
			}
			r, err := a.reg.Records().Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.emit(r, func() error {
				fmt.Fprintf(a.out, "Health record created: %s\n", r.ID)
				return nil
			})
		},
	}
	recordFlags(cmd, &note)
	return cmd
}

func newRecordsUpdateCmd(a *app) *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a health record",
		Long: `Change fields of a health record. Fields without a flag keep their value.

Examples:
  healthctl records update 65f0c2 --weight 69.8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := a.reg.Records().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			in := v1.InputFromRecord(cur)
			applyRecordFlags(cmd, &in, note)
			if err := in.Validate(); err != nil {
				return err
			}
			r, err := a.reg.Records().Update(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return a.emit(r, func() error {
				fmt.Fprintf(a.out, "Health record updated: %s\n", r.ID)
				return nil
			})
		},
	}
	recordFlags(cmd, &note)
	return cmd
}

func newRecordsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a health record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.reg.Records().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.done("Health record deleted")
		},
	}
}

func printRecord(a *app, r v1.HealthRecord) error {
	fmt.Fprintf(a.out, "ID:          %s\n", r.ID)
	fmt.Fprintf(a.out, "Date:        %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(a.out, "Weight:      %s kg\n", floatOrDash(r.Weight, 1))
	fmt.Fprintf(a.out, "Height:      %s cm\n", floatOrDash(r.Height, 0))
	if bmi := bmiText(r); bmi != "-" {
		line := bmi
		if v, ok := reports.BMI(*r.Weight, *r.Height); ok {
			if c, ok := reports.BMICategory(v); ok {
				line += " (" + c.Label + ")"
			}
		}
		fmt.Fprintf(a.out, "BMI:         %s\n", line)
	}
	bp := pressureText(r.BloodPressure)
	if r.BloodPressure.Complete() {
		if c, ok := reports.BloodPressureCategory(*r.BloodPressure.Systolic, *r.BloodPressure.Diastolic); ok {
			bp += " (" + c.Label + ")"
		}
	}
	fmt.Fprintf(a.out, "Pressure:    %s\n", bp)
	fmt.Fprintf(a.out, "Heart rate:  %s bpm\n", floatOrDash(r.HeartRate, 0))
	fmt.Fprintf(a.out, "Blood sugar: %s mg/dL\n", floatOrDash(r.BloodSugar, 0))
	fmt.Fprintf(a.out, "Temperature: %s °C\n", floatOrDash(r.Temperature, 1))
	if r.Note != "" {
		fmt.Fprintf(a.out, "Note:        %s\n", r.Note)
	}
	return nil
}

func bmiText(r v1.HealthRecord) string {
	if r.Weight == nil || r.Height == nil {
		return "-"
	}
	v, ok := reports.BMI(*r.Weight, *r.Height)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.1f", v)
}

func pressureText(bp *v1.BloodPressure) string {
	if !bp.Complete() {
		return "-"
	}
	return fmt.Sprintf("%.0f/%.0f", *bp.Systolic, *bp.Diastolic)
}

// truncate shortens s to max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
