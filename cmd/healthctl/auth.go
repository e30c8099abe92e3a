package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/healthdash/internal/session"
	v1 "github.com/fyrsmithlabs/healthdash/pkg/api/v1"
)

// readPassword returns flagValue, or the first line of r when it is empty.
func readPassword(flagValue string, r io.Reader) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(a *app) *cobra.Command {
	var in v1.LoginInput
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Sign in with email and password. The session token is stored in
~/.config/healthdash/session.json with 0600 permissions.

Without --password the password is read from the first line of stdin.

Examples:
  healthctl login --email ann@example.com
  echo "$PASSWORD" | healthctl login --email ann@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(in.Password, cmd.InOrStdin())
			if err != nil {
				return err
			}
			in.Password = pw
			if err := in.Validate(); err != nil {
				return err
			}
			res, err := a.reg.Auth().Login(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.emit(res.User, func() error {
				fmt.Fprintf(a.out, "Logged in as %s <%s>\n", res.User.Name, res.User.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "Account password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var in v1.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Long: `Create an account. On success the new session is stored as with login.

Examples:
  healthctl register --name Ann --email ann@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(in.Password, cmd.InOrStdin())
			if err != nil {
				return err
			}
			in.Password = pw
			if err := in.Validate(); err != nil {
				return err
			}
			res, err := a.reg.Auth().Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.emit(res.User, func() error {
				fmt.Fprintf(a.out, "Welcome, %s. You are now logged in.\n", res.User.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "Password, at least 6 characters (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.reg.Auth().Logout(cmd.Context()); err != nil {
				return err
			}
			return a.done("Logged out")
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Long: `Show the user of the stored session. With --refresh the profile is
fetched from the API, which also verifies the token is still valid.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.reg.Auth().Current()
			if errors.Is(err, session.ErrNoSession) {
				return v1.ErrNotAuthenticated
			}
			if err != nil {
				return err
			}
			user := s.User
			if refresh {
				if user, err = a.reg.Auth().Me(cmd.Context()); err != nil {
					return err
				}
				if err := session.UpdateUser(a.store, user); err != nil {
					return err
				}
			}
			return a.emit(user, func() error {
				fmt.Fprintf(a.out, "%s <%s>\n", user.Name, user.Email)
				fmt.Fprintf(a.out, "Role: %s\n", user.Role)
				if user.Phone != "" {
					fmt.Fprintf(a.out, "Phone: %s\n", user.Phone)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch the profile from the API")
	return cmd
}
