package cli

import (
	"bufio"
	"fmt"
	"io"
	"text/tabwriter"

	"foodapp/internal/permission"
	"foodapp/internal/platform"

	"github.com/spf13/cobra"
)

var rationales = map[platform.Capability]*platform.Rationale{
	platform.Location: {
		Title:          "Location Permission",
		Message:        "FoodApp uses your location to show dishes and sellers near you.",
		ButtonPositive: "Allow",
		ButtonNegative: "Deny",
	},
	platform.Camera: {
		Title:          "Camera Permission",
		Message:        "FoodApp needs the camera to take photos of your dishes.",
		ButtonPositive: "Allow",
		ButtonNegative: "Deny",
	},
	platform.Notifications: {
		Title:          "Notification Permission",
		Message:        "FoodApp sends order updates as notifications.",
		ButtonPositive: "Allow",
		ButtonNegative: "Deny",
	},
}

func newPermissionsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "Show device permission status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPermissions(cmd, opts, func(a *app, d *platform.Device, ps *permission.Store) error {
				printPermissions(cmd.OutOrStdout(), ps.State())
				return nil
			})
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:       "request <capability>",
			Short:     "Ask for a permission, prompting on stdin",
			Args:      cobra.ExactArgs(1),
			ValidArgs: capabilityNames(),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := platform.ParseCapability(args[0])
				if err != nil {
					return err
				}
				return withPermissions(cmd, opts, func(a *app, d *platform.Device, ps *permission.Store) error {
					granted := ps.RequestPermission(cmd.Context(), c, rationales[c])
					if err := a.saveDevice(cmd.Context(), d); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", c, grantWord(granted))
					ps.Wait()
					printPermissions(cmd.OutOrStdout(), ps.State())
					return nil
				})
			},
		},
		&cobra.Command{
			Use:       "check <capability>",
			Short:     "Re-read one permission from the device",
			Args:      cobra.ExactArgs(1),
			ValidArgs: capabilityNames(),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := platform.ParseCapability(args[0])
				if err != nil {
					return err
				}
				return withPermissions(cmd, opts, func(a *app, d *platform.Device, ps *permission.Store) error {
					granted, err := ps.CheckPermission(cmd.Context(), c)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", c, grantWord(granted))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:       "revoke <capability>",
			Short:     "Revoke a permission as if from system settings",
			Args:      cobra.ExactArgs(1),
			ValidArgs: capabilityNames(),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := platform.ParseCapability(args[0])
				if err != nil {
					return err
				}
				return withPermissions(cmd, opts, func(a *app, d *platform.Device, ps *permission.Store) error {
					name, gated := platform.PermissionFor(d.OS(), d.Version(), c)
					if !gated {
						return fmt.Errorf("%s has no runtime permission on %s %d", c, d.OS(), d.Version())
					}
					d.Set(name, false)
					if err := a.saveDevice(cmd.Context(), d); err != nil {
						return err
					}
					granted, err := ps.CheckPermission(cmd.Context(), c)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", c, grantWord(granted))
					return nil
				})
			},
		},
	)
	return cmd
}

// withPermissions runs fn against an initialized permission store over the
// persisted device and closes the store afterwards.
func withPermissions(cmd *cobra.Command, opts *rootOptions, fn func(*app, *platform.Device, *permission.Store) error) error {
	ctx := cmd.Context()
	a, err := opts.newApp(ctx)
	if err != nil {
		return err
	}
	d := a.device(ctx, bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout())
	ps := a.permissions(ctx, d)
	defer ps.Close()
	return fn(a, d, ps)
}

func printPermissions(out io.Writer, st permission.State) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CAPABILITY\tGRANTED\tINTERACTED")
	for _, c := range platform.Capabilities {
		s := st.Status[c]
		fmt.Fprintf(tw, "%s\t%t\t%t\n", c, s.IsGranted, s.HasInteracted)
	}
	tw.Flush()
	if st.UserLocation != nil {
		fmt.Fprintf(out, "location: %.6f, %.6f\n", st.UserLocation.Latitude, st.UserLocation.Longitude)
	}
}

func capabilityNames() []string {
	names := make([]string, len(platform.Capabilities))
	for i, c := range platform.Capabilities {
		names[i] = string(c)
	}
	return names
}

func grantWord(granted bool) string {
	if granted {
		return "granted"
	}
	return "denied"
}
