// Package client is the gRPC client used by the command line tool.
package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
)

type GRPCClient struct {
	conn        *grpc.ClientConn
	client      pb.AuthServiceClient
	health      healthpb.HealthClient
	timeout     time.Duration
	accessToken string
}

// Session is what Register and Login hand back.
type Session struct {
	User      *models.UserView
	Token     string
	ExpiresAt time.Time
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if c.accessToken != "" {
		ctx = withAccessToken(ctx, c.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// New prepares a client for endpoint. The connection is established lazily
// on the first call. Extra dial options are appended after the defaults.
func New(endpoint string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewAuthServiceClient(conn)
	c.health = healthpb.NewHealthClient(conn)
	return c, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// SetAccessToken sets the token attached to subsequent calls.
func (c *GRPCClient) SetAccessToken(token string) {
	c.accessToken = token
}

func (c *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *GRPCClient) Register(ctx context.Context, email, password string, profile map[string]any) (*Session, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Register(ctx, &pb.RegisterRequest{Email: email, Password: password, Profile: profile})
	if err != nil {
		return nil, mapError(err)
	}
	return &Session{User: resp.User, Token: resp.Token, ExpiresAt: resp.ExpiresAt}, nil
}

func (c *GRPCClient) Login(ctx context.Context, email, password string) (*Session, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Login(ctx, &pb.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, mapError(err)
	}
	return &Session{User: resp.User, Token: resp.Token, ExpiresAt: resp.ExpiresAt}, nil
}

// Authenticate asks the server which user token belongs to.
func (c *GRPCClient) Authenticate(ctx context.Context, token string) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Authenticate(ctx, &pb.AuthenticateRequest{Token: token})
	if err != nil {
		return "", mapError(err)
	}
	return resp.UserID, nil
}

func (c *GRPCClient) Me(ctx context.Context) (*models.UserView, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Me(ctx, &pb.MeRequest{})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.User, nil
}

func (c *GRPCClient) GetUser(ctx context.Context, id string) (*models.UserView, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.GetUser(ctx, &pb.GetUserRequest{ID: id})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.User, nil
}

func (c *GRPCClient) ListUsers(ctx context.Context) ([]*models.UserView, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.ListUsers(ctx, &pb.ListUsersRequest{})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Users, nil
}

// Ping reports the server's health status for the auth service.
func (c *GRPCClient) Ping(ctx context.Context) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: pb.ServiceName})
	if err != nil {
		return "", mapError(err)
	}
	return resp.GetStatus().String(), nil
}
