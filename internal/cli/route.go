package cli

import (
	"bufio"
	"fmt"

	"foodapp/internal/navigation"
	"foodapp/internal/platform"

	"github.com/spf13/cobra"
)

func newRouteCmd(opts *rootOptions) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Print the screen the app would open on",
		Long: `Print the entry screen chosen from the session and device permissions.

With --interactive, a LocationAccess result walks through the location
screen: allow the permission, or skip it (customers only get past the
screen by skipping; sellers must allow).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			a, err := opts.newApp(ctx)
			if err != nil {
				return err
			}
			in := bufio.NewReader(cmd.InOrStdin())
			d := a.device(ctx, in, out)
			ps := a.permissions(ctx, d)
			defer ps.Close()

			route := navigation.Resolve(a.session.State(), ps.State())
			if interactive && route == navigation.RouteLocationAccess {
				fmt.Fprint(out, "Enable location? [a]llow / [s]kip: ")
				answer, err := readAnswer(in)
				if err != nil {
					return err
				}
				switch answer {
				case "s", "skip":
					ps.SkipInteraction(platform.Location)
				default:
					ps.RequestPermission(ctx, platform.Location, rationales[platform.Location])
					if err := a.saveDevice(ctx, d); err != nil {
						return err
					}
				}
				route = navigation.Resolve(a.session.State(), ps.State())
			}

			fmt.Fprintln(out, route)
			ps.Wait()
			if loc := ps.State().UserLocation; loc != nil {
				fmt.Fprintf(out, "location: %.6f, %.6f\n", loc.Latitude, loc.Longitude)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "answer the location screen on stdin")
	return cmd
}
