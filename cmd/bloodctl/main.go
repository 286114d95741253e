// bloodctl is a terminal client for the blood bank API. The signed-in identity and bearer token
// are kept under the user's config directory between invocations.
//
// Settings come from flags, then BLOODCTL_* environment variables:
//
//	BLOODCTL_SERVER      API base URL (default http://localhost:8080)
//	BLOODCTL_CONFIG_DIR  where the session is stored
//	BLOODCTL_PASSWORD    password for login when --password is omitted
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/logging"
)

const defaultServer = "http://localhost:8080"

// cli carries settings shared by every subcommand.
type cli struct {
	v      *viper.Viper
	http   *http.Client
	logger *zap.Logger
}

func (c *cli) server() string    { return c.v.GetString("server") }
func (c *cli) configDir() string { return c.v.GetString("config_dir") }

func (c *cli) session(ctx context.Context) (*localSession, error) {
	return openLocalSession(ctx, c.configDir(), c.logger)
}

// client returns an API client carrying the saved token, if any.
func (c *cli) client(ctx context.Context, sess *localSession) *apiClient {
	return newAPIClient(c.server(), sess.AccessToken(ctx), c.http)
}

func newRootCmd(hc *http.Client) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("bloodctl")
	v.AutomaticEnv()
	v.SetDefault("server", defaultServer)
	v.SetDefault("config_dir", "")

	c := &cli{v: v, http: hc, logger: zap.NewNop()}
	var verbose bool

	root := &cobra.Command{
		Use:           "bloodctl",
		Short:         "Command-line client for the NSS blood bank",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if !verbose {
				return nil
			}
			logger, err := logging.New("debug", "development")
			if err != nil {
				return err
			}
			c.logger = logger
			return nil
		},
	}
	root.PersistentFlags().String("server", defaultServer, "API base URL")
	root.PersistentFlags().String("config-dir", "", "Directory holding the saved session (default: user config dir)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	_ = v.BindPFlag("server", root.PersistentFlags().Lookup("server"))
	_ = v.BindPFlag("config_dir", root.PersistentFlags().Lookup("config-dir"))

	root.AddCommand(
		newLoginCmd(c),
		newLogoutCmd(c),
		newWhoamiCmd(c),
		newDonorsCmd(c),
		newDashboardCmd(c),
	)
	return root
}

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bloodctl:", err)
		os.Exit(1)
	}
}
