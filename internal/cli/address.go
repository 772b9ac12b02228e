package cli

import (
	"errors"
	"fmt"

	"foodapp/internal/geocode"
	"foodapp/internal/models"
	"foodapp/internal/permission"
	"foodapp/internal/platform"

	"github.com/spf13/cobra"
)

func newAddressCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Show the street address of the device location",
		Long: `Resolve the device location through the reverse geocoder. Location
permission must already be granted and DEVICE_LAT / DEVICE_LON set.
Sellers see the village before the city, customers the city first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var loc *models.Location
			pref := geocode.PreferCity
			err := withPermissions(cmd, opts, func(a *app, d *platform.Device, ps *permission.Store) error {
				if u := a.session.State().User; u != nil && u.Role == models.RoleSeller {
					pref = geocode.PreferVillage
				}
				if !ps.State().IsLocationGranted() {
					return errors.New("location permission not granted, run: foodapp permissions request location")
				}
				ps.Wait()
				loc = ps.State().UserLocation
				return nil
			})
			if err != nil {
				return err
			}
			if loc == nil {
				return errors.New("device location unavailable, set DEVICE_LAT and DEVICE_LON")
			}

			gc := geocode.New(opts.cfg.GeocoderURL, opts.cfg.UserAgent)
			addr, err := gc.Reverse(cmd.Context(), *loc)
			if err != nil {
				opts.logger.Error().Err(err).Msg("Reverse geocoding failed")
				return err
			}
			label := addr.Label(pref)
			if label == "" {
				label = fmt.Sprintf("%.6f, %.6f", loc.Latitude, loc.Longitude)
			}
			fmt.Fprintln(cmd.OutOrStdout(), label)
			return nil
		},
	}
}
