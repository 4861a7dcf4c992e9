package cli

import (
	"time"

	"github.com/dmitrijs2005/gophauth/internal/buildinfo"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configFile string
	addr       string
	tokenFile  string
	timeout    time.Duration
}

// NewRootCmd builds the command tree. Every subcommand except version
// connects to the server in PersistentPreRunE.
func (a *App) NewRootCmd() *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "gophauth",
		Short:         "GophAuth command line client",
		Version:       buildinfo.Version(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			cfg, err := config.LoadConfig(f.configFile)
			if err != nil {
				return err
			}
			pf := cmd.Flags()
			if pf.Changed("addr") {
				cfg.ServerEndpointAddr = f.addr
			}
			if pf.Changed("token-file") {
				cfg.TokenFile = f.tokenFile
			}
			if pf.Changed("timeout") {
				cfg.Timeout = f.timeout
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return a.connect(cfg)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}

	cmd.SetOut(a.out)
	cmd.SetErr(a.out)

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configFile, "config", "c", "", "JSON config file path")
	pf.StringVarP(&f.addr, "addr", "a", "", "server gRPC address (host:port)")
	pf.StringVar(&f.tokenFile, "token-file", "", "file holding the access token")
	pf.DurationVar(&f.timeout, "timeout", 0, "per-call timeout")

	cmd.AddCommand(
		a.newRegisterCmd(),
		a.newLoginCmd(),
		a.newLogoutCmd(),
		a.newWhoamiCmd(),
		a.newVerifyCmd(),
		a.newUsersCmd(),
		a.newUserCmd(),
		a.newPingCmd(),
		a.newVersionCmd(),
	)

	return cmd
}
