package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/healthdash/internal/dashboard"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		Aliases: []string{"reports"},
		Short:   "Show health and consultation reports",
		Long: `Show reports. Series the server does not pre-aggregate are computed from
your raw records and chat history.

Examples:
  healthctl report health --period month
  healthctl report chatbot --period year
  healthctl report health --from 2024-01-01 --to 2024-03-31 --json`,
	}

	var q v1.ReportQuery
	reportFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&q.Period, "period", "month", "week, month or year")
		c.Flags().StringVar(&q.StartDate, "from", "", "Window start (YYYY-MM-DD), overrides --period")
		c.Flags().StringVar(&q.EndDate, "to", "", "Window end (YYYY-MM-DD)")
	}
	load := func(cmd *cobra.Command) (dashboard.Reports, error) {
		if q.StartDate == "" && !v1.ValidPeriod(q.Period) {
			return dashboard.Reports{}, usagef("period must be week, month or year, got %q", q.Period)
		}
		r, err := dashboard.NewLoader(a.reg, a.logger).LoadReports(cmd.Context(), q)
		if err != nil {
			return r, err
		}
		if len(r.Failed) > 0 {
			fmt.Fprintf(a.errOut, "warning: could not load %s\n", strings.Join(r.Failed, ", "))
		}
		return r, nil
	}

	health := &cobra.Command{
		Use:   "health",
		Short: "Weight, BMI and blood pressure over time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := load(cmd)
			if err != nil {
				return err
			}
			return a.emit(r.Health, func() error { return printHealthReport(a, r.Health) })
		},
	}
	reportFlags(health)

	chatbot := &cobra.Command{
		Use:   "chatbot",
		Short: "Questions asked, ratings and popular topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := load(cmd)
			if err != nil {
				return err
			}
			return a.emit(r.Chatbot, func() error { return printChatbotReport(a, r.Chatbot) })
		},
	}
	reportFlags(chatbot)

	cmd.AddCommand(
		health,
		chatbot,
		&cobra.Command{
			Use:   "dashboard",
			Short: "Your record and question totals",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := a.reg.Reports().Dashboard(cmd.Context())
				if err != nil {
					return err
				}
				return a.emit(d, func() error {
					fmt.Fprintf(a.out, "Health records:   %d\n", d.HealthSummary.TotalRecords)
					fmt.Fprintf(a.out, "Questions asked:  %d\n", d.ChatSummary.TotalQuestions)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "admin",
			Short: "Platform-wide totals (admin)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := a.reg.Reports().AdminStats(cmd.Context())
				if err != nil {
					return err
				}
				return a.emit(s, func() error {
					fmt.Fprintf(a.out, "Health records:    %d\n", s.TotalHealthRecords)
					fmt.Fprintf(a.out, "Chat questions:    %d\n", s.TotalChatQuestions)
					fmt.Fprintf(a.out, "Active reminders:  %d\n", s.TotalActiveReminders)
					return nil
				})
			},
		},
	)
	return cmd
}

func printHealthReport(a *app, h v1.HealthReport) error {
	fmt.Fprintf(a.out, "Records:         %d\n", h.TotalRecords)
	fmt.Fprintf(a.out, "Average weight:  %s kg\n", floatOrDash(h.AverageWeight, 1))
	fmt.Fprintf(a.out, "Active days:     %d\n", h.ActiveDays)

	if len(h.WeightHistory) > 0 {
		fmt.Fprintln(a.out)
		w := a.table("DATE\tWEIGHT\tBMI\tPRESSURE")
		bmi := make(map[string]float64, len(h.BMIHistory))
		for _, p := range h.BMIHistory {
			bmi[p.Date.Local().Format(v1.DateLayout)] = p.BMI
		}
		bp := make(map[string]v1.BloodPressurePoint, len(h.BloodPressureHistory))
		for _, p := range h.BloodPressureHistory {
			bp[p.Date.Local().Format(v1.DateLayout)] = p
		}
		for _, p := range h.WeightHistory {
			day := p.Date.Local().Format(v1.DateLayout)
			b, pr := "-", "-"
			if v, ok := bmi[day]; ok {
				b = fmt.Sprintf("%.1f", v)
			}
			if v, ok := bp[day]; ok {
				pr = fmt.Sprintf("%.0f/%.0f", v.Systolic, v.Diastolic)
			}
			fmt.Fprintf(w, "%s\t%.1f\t%s\t%s\n", day, p.Weight, b, pr)
		}
		w.Flush()
	}
	return nil
}

func printChatbotReport(a *app, c v1.ChatbotReport) error {
	fmt.Fprintf(a.out, "Questions:       %d\n", c.TotalChats)
	fmt.Fprintf(a.out, "Average rating:  %s\n", floatOrDash(c.AverageRating, 1))
	if len(c.RecentActivity) > 0 {
		fmt.Fprintln(a.out, "\nRecent activity:")
		for _, d := range c.RecentActivity {
			fmt.Fprintf(a.out, "  %s  %d\n", d.Date, d.Count)
		}
	}
	if len(c.PopularTopics) > 0 {
		fmt.Fprintln(a.out, "\nPopular topics:")
		for _, t := range c.PopularTopics {
			fmt.Fprintf(a.out, "  %-12s %d\n", t.Topic, t.Count)
		}
	}
	return nil
}
