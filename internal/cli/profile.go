package cli

import (
	"errors"
	"fmt"

	"foodapp/internal/api"
	"foodapp/internal/models"
	"foodapp/internal/validation"

	"github.com/spf13/cobra"
)

func newProfileCmd(opts *rootOptions) *cobra.Command {
	var patch models.UserPatch

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Change the logged in user's name or email",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateProfile(patch); err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := opts.newApp(ctx)
			if err != nil {
				return err
			}
			if !a.session.State().IsAuthenticated {
				return errNotLoggedIn
			}

			user, err := a.client.UpdateProfile(ctx, patch)
			if err != nil {
				return errors.New(api.ErrorMessage(err))
			}
			if err := a.session.UpdateUser(ctx, models.UserPatch{Name: user.Name, Email: user.Email}); err != nil {
				return fmt.Errorf("saving profile: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&patch.Name, "name", "", "new name")
	cmd.Flags().StringVar(&patch.Email, "email", "", "new email address")
	return cmd
}
