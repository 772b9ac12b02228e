// Package cli is the foodapp command line. It runs the development backend
// and drives the client session, permission and API layers from a terminal.
package cli

import (
	"fmt"
	"os"

	"foodapp/internal/config"
	"foodapp/internal/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	baseURL    string
	storageDir string
	logLevel   string

	cfg    config.Config
	logger zerolog.Logger
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "foodapp",
		Short: "Food ordering client and development backend",
		Long: `foodapp is the terminal front end of the food ordering app.

Customers and sellers sign up, log in and out, and manage device
permissions. Sellers add dishes to their menu. The serve command runs a
development backend implementing the endpoints the client consumes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.load()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "API base URL (default from BASE_URL)")
	root.PersistentFlags().StringVar(&opts.storageDir, "storage-dir", "", "device storage directory (default from STORAGE_DIR)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(opts),
		newSignupCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newProfileCmd(opts),
		newRouteCmd(opts),
		newPermissionsCmd(opts),
		newAddItemCmd(opts),
		newMenuCmd(opts),
		newAddressCmd(opts),
	)
	return root
}

func (o *rootOptions) load() {
	o.cfg = config.LoadConfig()
	if o.baseURL != "" {
		o.cfg.BaseURL = o.baseURL
	}
	if o.storageDir != "" {
		o.cfg.StorageDir = o.storageDir
	}
	if o.logLevel != "" {
		o.cfg.LogLevel = o.logLevel
	}
	o.logger = logger.InitLogger(o.cfg.LogLevel)
}
