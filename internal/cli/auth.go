package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ShubhamP528/RentManagement-frontend/internal/model"
)

func newLoginCmd(rt *runtime) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Sign in as an owner",
		Example: `  rentowner login -u alice -p secret`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := rt.app.Session.SignIn(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			rt.app.Nav.Reset([]model.Route{{Name: model.ScreenProperties}})
			return rt.print(user, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Logged in as %s\n", user.Username)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "owner username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "owner password")
	return cmd
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			rt.app.Nav.Reset([]model.Route{{Name: model.ScreenLogin}})
			_, err := fmt.Fprintln(rt.opts.Out, "Logged out")
			return err
		},
	}
}

// statusReport is what status prints
type statusReport struct {
	Status   model.Status `json:"status"`
	Username string       `json:"username,omitempty"`
	Error    string       `json:"error,omitempty"`
	Screen   model.Screen `json:"screen"`
	Store    string       `json:"store"`
	API      string       `json:"api"`
}

func newStatusCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the restored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := rt.app.Session.Snapshot()
			report := statusReport{
				Status: s.Status,
				Error:  s.Error,
				Store:  rt.app.Tokens.Backend(),
				API:    rt.app.Gateway.BaseURL(),
			}
			if s.User != nil {
				report.Username = s.User.Username
			}
			if stack := rt.app.Stack(); stack != nil {
				report.Screen = stack.Current().Name
			}

			return rt.print(report, func(w io.Writer) error {
				user := report.Username
				if user == "" {
					user = "(signed out)"
				}
				fmt.Fprintf(w, "Session: %s\n", report.Status)
				fmt.Fprintf(w, "User:    %s\n", user)
				if report.Error != "" {
					fmt.Fprintf(w, "Error:   %s\n", report.Error)
				}
				fmt.Fprintf(w, "Screen:  %s\n", report.Screen)
				_, err := fmt.Fprintf(w, "Store:   %s (%s)\n", report.Store, report.API)
				return err
			})
		},
	}
}
