package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

func newDoctorsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "doctors",
		Aliases: []string{"doctor"},
		Short:   "Browse doctors, manage the roster (admin)",
		Long: `Browse doctors accepting appointments. Admins can add, update and
remove doctors.

Examples:
  healthctl doctors available
  healthctl doctors add --name "Dr. Tran" --specialty Cardiology --slots 09:00,09:30,10:00`,
	}
	cmd.AddCommand(
		newDoctorsAvailableCmd(a),
		newDoctorsListCmd(a),
		newDoctorsAddCmd(a),
		newDoctorsUpdateCmd(a),
		newDoctorsDeleteCmd(a),
	)
	return cmd
}

func newDoctorsAvailableCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "available",
		Short: "List doctors accepting appointments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doctors, err := a.reg.Doctors().Available(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(doctors, func() error { return printDoctors(a, doctors) })
		},
	}
}

func newDoctorsListCmd(a *app) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all doctors (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.reg.Doctors().List(cmd.Context(), lf.query())
			if err != nil {
				return err
			}
			return a.emit(page, func() error {
				if err := printDoctors(a, page.Items); err != nil {
					return err
				}
				fmt.Fprintln(a.out, paginationLine(page.Pagination))
				return nil
			})
		},
	}
	lf.register(cmd)
	return cmd
}

type doctorFlags struct {
	name, specialty, qualification, image, slots, status string
}

func (f *doctorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Doctor name")
	cmd.Flags().StringVar(&f.specialty, "specialty", "", "Specialty")
	cmd.Flags().StringVar(&f.qualification, "qualification", "", "Qualification")
	cmd.Flags().StringVar(&f.image, "image", "", "Photo URL")
	cmd.Flags().StringVar(&f.slots, "slots", "", "Comma separated time slots, HH:MM")
	cmd.Flags().StringVar(&f.status, "status", "", "available or busy")
}

func (f *doctorFlags) apply(cmd *cobra.Command, in *v1.DoctorInput) {
	changed := cmd.Flags().Changed
	if changed("name") {
		in.Name = f.name
	}
	if changed("specialty") {
		in.Specialty = f.specialty
	}
	if changed("qualification") {
		in.Qualification = f.qualification
	}
	if changed("image") {
		in.Image = f.image
	}
	if changed("slots") {
		in.AvailableSlots = nil
		for _, s := range strings.Split(f.slots, ",") {
			if s = strings.TrimSpace(s); s != "" {
				in.AvailableSlots = append(in.AvailableSlots, s)
			}
		}
	}
	if changed("status") {
		in.Status = v1.DoctorStatus(f.status)
	}
}

func newDoctorsAddCmd(a *app) *cobra.Command {
	var f doctorFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a doctor (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := v1.DoctorInput{Status: v1.DoctorAvailable}
			f.apply(cmd, &in)
			if err := in.Validate(); err != nil {
				return err
			}
			d, err := a.reg.Doctors().Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.emit(d, func() error {
				fmt.Fprintf(a.out, "Doctor added: %s\n", d.ID)
				return nil
			})
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("specialty")
	return cmd
}

func newDoctorsUpdateCmd(a *app) *cobra.Command {
	var f doctorFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a doctor (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := a.reg.Doctors().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			in := v1.InputFromDoctor(cur)
			f.apply(cmd, &in)
			if err := in.Validate(); err != nil {
				return err
			}
			d, err := a.reg.Doctors().Update(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return a.emit(d, func() error {
				fmt.Fprintf(a.out, "Doctor updated: %s\n", d.ID)
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newDoctorsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a doctor (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.reg.Doctors().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.done("Doctor removed")
		},
	}
}

func printDoctors(a *app, doctors []v1.Doctor) error {
	if len(doctors) == 0 {
		fmt.Fprintln(a.out, "No doctors found")
		return nil
	}
	w := a.table("ID\tNAME\tSPECIALTY\tSTATUS\tSLOTS")
	for _, d := range doctors {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Name, orDash(d.Specialty), d.Status, orDash(strings.Join(d.AvailableSlots, " ")))
	}
	return w.Flush()
}
