package cli

import (
	"errors"
	"fmt"
	"time"

	"foodapp/internal/api"
	"foodapp/internal/models"
	"foodapp/internal/validation"

	"github.com/spf13/cobra"
)

var errNotLoggedIn = errors.New("not logged in")

func newSignupCmd(opts *rootOptions) *cobra.Command {
	var req models.SignupRequest

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Long: `Create a customer or seller account. The account is not logged in
afterwards; run login next.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateSignup(&req); err != nil {
				return err
			}

			a, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			res, err := a.client.Signup(cmd.Context(), req)
			if err != nil {
				return errors.New(api.ErrorMessage(err))
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			if res.User != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s <%s> %s\n", res.User.Name, res.User.Email, res.User.Role)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "full name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	cmd.Flags().StringVar(&req.ConfirmPassword, "confirm-password", "", "password again")
	cmd.Flags().StringVar(&req.Role, "role", string(models.RoleCustomer), "account role (CUSTOMER or SELLER)")
	return cmd
}

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var req models.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session on this device",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateLogin(req); err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := opts.newApp(ctx)
			if err != nil {
				return err
			}
			res, err := a.client.Login(ctx, req)
			if err != nil {
				return errors.New(api.ErrorMessage(err))
			}
			if err := a.session.Login(ctx, res.User, res.Token); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session on this device",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp(cmd.Context())
			if err != nil {
				return err
			}
			if !a.session.State().IsAuthenticated {
				return errNotLoggedIn
			}
			a.session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := opts.newApp(ctx)
			if err != nil {
				return err
			}
			if !a.session.State().IsAuthenticated {
				return errNotLoggedIn
			}
			if refresh {
				user, err := a.client.Profile(ctx)
				if err != nil {
					return errors.New(api.ErrorMessage(err))
				}
				if err := a.session.UpdateUser(ctx, models.UserPatch{Name: user.Name, Email: user.Email, Role: user.Role}); err != nil {
					return fmt.Errorf("saving profile: %w", err)
				}
			}

			st := a.session.State()
			if st.User == nil {
				return errNotLoggedIn
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\n", st.User.Name, st.User.Email)
			fmt.Fprintf(out, "  id:   %s\n", st.User.ID)
			fmt.Fprintf(out, "  role: %s\n", st.User.Role)
			if exp, ok := a.session.TokenExpiry(); ok {
				state := "valid"
				if time.Now().After(exp) {
					state = "expired"
				}
				fmt.Fprintf(out, "  token %s until %s\n", state, exp.Local().Format(time.RFC1123))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "reload the profile from the server first")
	return cmd
}
