// Package cli implements the gophauth command line client on top of cobra.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/filex"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// authClient is the subset of client.GRPCClient the commands use.
type authClient interface {
	Register(ctx context.Context, email, password string, profile map[string]any) (*client.Session, error)
	Login(ctx context.Context, email, password string) (*client.Session, error)
	Authenticate(ctx context.Context, token string) (string, error)
	Me(ctx context.Context) (*models.UserView, error)
	GetUser(ctx context.Context, id string) (*models.UserView, error)
	ListUsers(ctx context.Context) ([]*models.UserView, error)
	Ping(ctx context.Context) (string, error)
	SetAccessToken(token string)
	Close() error
}

var errNotLoggedIn = errors.New("not logged in: run 'login' first")

type App struct {
	config *config.Config
	client authClient
	in     *bufio.Reader
	out    io.Writer

	// dial builds the client once configuration is final.
	dial func(cfg *config.Config) (authClient, error)
}

func NewApp(in io.Reader, out io.Writer) *App {
	return &App{
		in:  bufio.NewReader(in),
		out: out,
		dial: func(cfg *config.Config) (authClient, error) {
			c, err := client.New(cfg.ServerEndpointAddr, cfg.Timeout)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	}
}

func (a *App) connect(cfg *config.Config) error {
	c, err := a.dial(cfg)
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.ServerEndpointAddr, err)
	}
	a.config = cfg
	a.client = c
	return nil
}

func (a *App) close() {
	if a.client != nil {
		_ = a.client.Close()
	}
}

func (a *App) saveToken(token string) error {
	if err := filex.WriteSecret(a.config.TokenFile, []byte(token)); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// useSavedToken attaches the stored token to the client.
func (a *App) useSavedToken() error {
	token, err := filex.ReadSecret(a.config.TokenFile)
	if errors.Is(err, os.ErrNotExist) || (err == nil && token == "") {
		return errNotLoggedIn
	}
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	a.client.SetAccessToken(token)
	return nil
}

func (a *App) credentials(email string) (string, string, error) {
	var err error
	if email == "" {
		email, err = GetSimpleText(a.in, "Enter email", a.out)
		if err != nil {
			return "", "", err
		}
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

func (a *App) printUser(u *models.UserView) {
	fmt.Fprintf(a.out, "%s\t%s\t%s\n", u.ID, u.Email, u.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
}
