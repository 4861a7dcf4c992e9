package cli

import (
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/buildinfo"
	"github.com/spf13/cobra"
)

func (a *App) newUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.useSavedToken(); err != nil {
				return err
			}
			users, err := a.client.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			for _, u := range users {
				a.printUser(u)
			}
			return nil
		},
	}
}

func (a *App) newUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "user <id>",
		Short: "Show a single user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.useSavedToken(); err != nil {
				return err
			}
			u, err := a.client.GetUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printUser(u)
			return nil
		},
	}
}

func (a *App) newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is serving",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.client.Ping(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s: %s\n", a.config.ServerEndpointAddr, st)
			return nil
		},
	}
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			buildinfo.PrintBuildData(a.out)
		},
	}
}
