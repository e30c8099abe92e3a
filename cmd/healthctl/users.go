package main

import (
	"fmt"

	"github.com/spf13/cobra"

	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user", "account"},
		Short:   "Manage your account, or all accounts as admin",
	}

	var lf listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List users (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.reg.Users().List(cmd.Context(), lf.query())
			if err != nil {
				return err
			}
			return a.emit(page, func() error {
				if len(page.Items) == 0 {
					fmt.Fprintln(a.out, "No users found")
					return nil
				}
				w := a.table("ID\tNAME\tEMAIL\tROLE\tPHONE")
				for _, u := range page.Items {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, orDash(u.Phone))
				}
				w.Flush()
				fmt.Fprintln(a.out, paginationLine(page.Pagination))
				return nil
			})
		},
	}
	lf.register(list)

	var profile v1.ProfileInput
	prof := &cobra.Command{
		Use:   "profile",
		Short: "Update your profile",
		Long: `Update your own profile. Only the given flags are sent.

Examples:
  healthctl users profile --phone "+44 20 7946 0000" --dob 1990-04-12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !anyChanged(cmd, "name", "phone", "dob", "gender", "address") {
				return usagef("nothing to update: pass at least one of --name, --phone, --dob, --gender, --address")
			}
			if err := profile.Validate(); err != nil {
				return err
			}
			u, err := a.reg.Users().UpdateProfile(cmd.Context(), profile)
			if err != nil {
				return err
			}
			return a.emit(u, func() error {
				fmt.Fprintf(a.out, "Profile updated for %s\n", u.Email)
				return nil
			})
		},
	}
	prof.Flags().StringVar(&profile.Name, "name", "", "Display name")
	prof.Flags().StringVar(&profile.Phone, "phone", "", "Phone number")
	prof.Flags().StringVar(&profile.DateOfBirth, "dob", "", "Date of birth, YYYY-MM-DD")
	prof.Flags().StringVar(&profile.Gender, "gender", "", "male, female or other")
	prof.Flags().StringVar(&profile.Address, "address", "", "Address")

	var pw v1.PasswordChange
	password := &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw.Confirm = pw.NewPassword
			if err := pw.Validate(); err != nil {
				return err
			}
			if err := a.reg.Users().ChangePassword(cmd.Context(), pw); err != nil {
				return err
			}
			return a.done("Password changed")
		},
	}
	password.Flags().StringVar(&pw.CurrentPassword, "current", "", "Current password")
	password.Flags().StringVar(&pw.NewPassword, "new", "", "New password, at least 6 characters")
	_ = password.MarkFlagRequired("current")
	_ = password.MarkFlagRequired("new")

	cmd.AddCommand(
		list,
		prof,
		password,
		newDeleteCmd(a, "user", func(cmd *cobra.Command, id string) error {
			return a.reg.Users().Delete(cmd.Context(), id)
		}),
	)
	return cmd
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}
