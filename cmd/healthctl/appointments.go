package main

import (
	"fmt"

	"github.com/spf13/cobra"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

func newAppointmentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appt"},
		Short:   "Book and manage doctor appointments",
		Long: `Book appointments with available doctors and follow their status.

Appointments start pending. A pending appointment can be cancelled by the
patient, or approved or rejected by an admin. An approved appointment can be
completed by an admin.

Examples:
  healthctl doctors available
  healthctl appointments book --doctor 65f0c2 --date 2024-05-02 --time 09:30 \
    --patient "Ann Lee" --phone 0901234567
  healthctl appointments cancel 65f1a7`,
	}
	cmd.AddCommand(
		newAppointmentsListCmd(a),
		newAppointmentsShowCmd(a),
		newAppointmentsBookCmd(a),
		newAppointmentsCancelCmd(a),
		newAppointmentsAdminCmd(a),
	)
	return cmd
}

func newAppointmentsListCmd(a *app) *cobra.Command {
	var (
		lf     listFlags
		status string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your appointments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := v1.AppointmentQuery{ListQuery: lf.query(), Status: v1.AppointmentStatus(status)}
			page, err := a.reg.Appointments().Mine(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printAppointments(a, page)
		},
	}
	lf.register(cmd)
	cmd.Flags().StringVar(&status, "status", "", "Only appointments in this status")
	return cmd
}

func newAppointmentsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one of your appointments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appt, err := a.reg.Appointments().MineByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit(appt, func() error { return printAppointment(a, appt) })
		},
	}
}

func newAppointmentsBookCmd(a *app) *cobra.Command {
	var in v1.AppointmentInput
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment with a doctor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := in.Validate(); err != nil {
				return err
			}
			appt, err := a.reg.Appointments().Book(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.emit(appt, func() error {
				fmt.Fprintf(a.out, "Appointment booked: %s (%s)\n", appt.ID, appt.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.DoctorID, "doctor", "", "Doctor ID (see 'doctors available')")
	cmd.Flags().StringVar(&in.AppointmentDate, "date", "", "Date, YYYY-MM-DD")
	cmd.Flags().StringVar(&in.AppointmentTime, "time", "", "Time slot, HH:MM")
	cmd.Flags().StringVar(&in.PatientName, "patient", "", "Patient name")
	cmd.Flags().StringVar(&in.PhoneNumber, "phone", "", "Contact phone number")
	cmd.Flags().StringVar(&in.Description, "description", "", "Reason for the visit")
	for _, name := range []string{"doctor", "date", "time", "patient", "phone"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newAppointmentsCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a pending appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appt, err := a.reg.Appointments().MineByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			appt, err = a.reg.Appointments().CancelChecked(cmd.Context(), appt)
			if err != nil {
				return err
			}
			return a.emit(appt, func() error {
				fmt.Fprintf(a.out, "Appointment %s cancelled\n", appt.ID)
				return nil
			})
		},
	}
}

func newAppointmentsAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Review appointments of all patients (admin only)",
	}

	var (
		lf     listFlags
		status string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List all appointments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := v1.AppointmentQuery{ListQuery: lf.query(), Status: v1.AppointmentStatus(status)}
			page, err := a.reg.Appointments().List(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printAppointments(a, page)
		},
	}
	lf.register(list)
	list.Flags().StringVar(&status, "status", "", "Only appointments in this status")

	cmd.AddCommand(
		list,
		newTransitionCmd(a, "approve", v1.StatusApproved, "Approve a pending appointment"),
		newTransitionCmd(a, "reject", v1.StatusRejected, "Reject a pending appointment"),
		newTransitionCmd(a, "complete", v1.StatusCompleted, "Mark an approved appointment as completed"),
	)
	return cmd
}

func newTransitionCmd(a *app, use string, to v1.AppointmentStatus, short string) *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appt, err := a.reg.Appointments().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			appt, err = a.reg.Appointments().Transition(cmd.Context(), appt, to, note)
			if err != nil {
				return err
			}
			return a.emit(appt, func() error {
				fmt.Fprintf(a.out, "Appointment %s is now %s\n", appt.ID, appt.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "Note shown to the patient")
	return cmd
}

func printAppointments(a *app, page v1.Page[v1.Appointment]) error {
	return a.emit(page, func() error {
		if len(page.Items) == 0 {
			fmt.Fprintln(a.out, "No appointments found")
			return nil
		}
		w := a.table("ID\tDATE\tTIME\tDOCTOR\tPATIENT\tSTATUS")
		for _, appt := range page.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				appt.ID, appt.AppointmentDate, appt.AppointmentTime,
				orDash(appt.Doctor.Name()), appt.PatientName, appt.Status)
		}
		w.Flush()
		fmt.Fprintln(a.out, paginationLine(page.Pagination))
		return nil
	})
}

func printAppointment(a *app, appt v1.Appointment) error {
	fmt.Fprintf(a.out, "ID:      %s\n", appt.ID)
	fmt.Fprintf(a.out, "Doctor:  %s\n", orDash(appt.Doctor.Name()))
	if d := appt.Doctor.Doctor; d != nil && d.Specialty != "" {
		fmt.Fprintf(a.out, "         %s\n", d.Specialty)
	}
	fmt.Fprintf(a.out, "When:    %s %s\n", appt.AppointmentDate, appt.AppointmentTime)
	fmt.Fprintf(a.out, "Patient: %s (%s)\n", appt.PatientName, appt.PhoneNumber)
	fmt.Fprintf(a.out, "Status:  %s\n", appt.Status)
	if appt.Description != "" {
		fmt.Fprintf(a.out, "Reason:  %s\n", appt.Description)
	}
	if appt.AdminNote != "" {
		fmt.Fprintf(a.out, "Note:    %s\n", appt.AdminNote)
	}
	return nil
}
