package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/filex"
	"github.com/spf13/cobra"
)

func (a *App) newRegisterCmd() *cobra.Command {
	var (
		email   string
		profile string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and store the issued token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var p map[string]any
			if profile != "" {
				if err := json.Unmarshal([]byte(profile), &p); err != nil {
					return fmt.Errorf("profile must be a JSON object: %w", err)
				}
			}

			email, password, err := a.credentials(email)
			if err != nil {
				return err
			}

			s, err := a.client.Register(cmd.Context(), email, password, p)
			if err != nil {
				return err
			}
			return a.finishSession(s)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when empty)")
	cmd.Flags().StringVar(&profile, "profile", "", `profile as a JSON object, e.g. '{"name":"Alice"}'`)
	return cmd
}

func (a *App) newLoginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the issued token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, password, err := a.credentials(email)
			if err != nil {
				return err
			}

			s, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return a.finishSession(s)
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email (prompted when empty)")
	return cmd
}

func (a *App) finishSession(s *client.Session) error {
	if err := a.saveToken(s.Token); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s), token valid until %s\n",
		s.User.Email, s.User.ID, s.ExpiresAt.Local().Format(time.RFC1123))
	return nil
}

func (a *App) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := filex.RemoveSecret(a.config.TokenFile); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func (a *App) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account the stored token belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.useSavedToken(); err != nil {
				return err
			}
			u, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			a.printUser(u)
			return nil
		},
	}
}

// verify checks an arbitrary token, or the stored one when none is given.
func (a *App) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [token]",
		Short: "Check a token and print its user id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				t, err := filex.ReadSecret(a.config.TokenFile)
				if err != nil || t == "" {
					return errNotLoggedIn
				}
				token = t
			}

			id, err := a.client.Authenticate(cmd.Context(), token)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, id)
			return nil
		},
	}
}
