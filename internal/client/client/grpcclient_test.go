package client

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type fakeServer struct {
	pb.UnimplementedAuthServiceServer
}

var alice = &models.UserView{ID: "u-1", Email: "alice@example.com", CreatedAt: time.Unix(1700000000, 0).UTC()}

func (fakeServer) Register(_ context.Context, in *pb.RegisterRequest) (*pb.SessionResponse, error) {
	if in.Email == "taken@example.com" {
		return nil, status.Error(codes.AlreadyExists, common.ErrDuplicateEmail.Error())
	}
	return &pb.SessionResponse{User: alice, Token: "tok-register", ExpiresAt: time.Unix(1700003600, 0).UTC()}, nil
}

func (fakeServer) Login(_ context.Context, in *pb.LoginRequest) (*pb.SessionResponse, error) {
	if in.Password != "correct horse" {
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error())
	}
	return &pb.SessionResponse{User: alice, Token: "tok-login"}, nil
}

func (fakeServer) Authenticate(_ context.Context, in *pb.AuthenticateRequest) (*pb.AuthenticateResponse, error) {
	switch in.Token {
	case "good":
		return &pb.AuthenticateResponse{UserID: alice.ID}, nil
	case "old":
		return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	default:
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}
}

// Me echoes back the token it received as the user's email.
func (fakeServer) Me(ctx context.Context, _ *pb.MeRequest) (*pb.UserResponse, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	v := md.Get(common.AccessTokenHeaderName)
	if len(v) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	return &pb.UserResponse{User: &models.UserView{ID: alice.ID, Email: v[0]}}, nil
}

func (fakeServer) GetUser(_ context.Context, in *pb.GetUserRequest) (*pb.UserResponse, error) {
	if in.ID != alice.ID {
		return nil, status.Error(codes.NotFound, common.ErrorNotFound.Error())
	}
	return &pb.UserResponse{User: alice}, nil
}

func (fakeServer) ListUsers(context.Context, *pb.ListUsersRequest) (*pb.ListUsersResponse, error) {
	return &pb.ListUsersResponse{Users: []*models.UserView{alice}}, nil
}

func newTestClient(t *testing.T) *GRPCClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	pb.RegisterAuthServiceServer(srv, fakeServer{})
	hs := health.NewServer()
	hs.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := New("passthrough:///bufnet", 2*time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGRPCClient_RegisterAndLogin(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	s, err := c.Register(ctx, "alice@example.com", "correct horse", nil)
	require.NoError(t, err)
	assert.Equal(t, "tok-register", s.Token)
	assert.Equal(t, alice.ID, s.User.ID)
	assert.True(t, s.ExpiresAt.Equal(time.Unix(1700003600, 0)))

	_, err = c.Register(ctx, "taken@example.com", "correct horse", nil)
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)

	s, err = c.Login(ctx, "alice@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "tok-login", s.Token)

	_, err = c.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestGRPCClient_Authenticate(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	id, err := c.Authenticate(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, id)

	_, err = c.Authenticate(ctx, "old")
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	_, err = c.Authenticate(ctx, "junk")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGRPCClient_AccessTokenAttached(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Me(ctx)
	assert.ErrorIs(t, err, common.ErrInvalidToken, "no token set yet")

	c.SetAccessToken("the-token")
	u, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "the-token", u.Email)
}

func TestGRPCClient_UserQueries(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	u, err := c.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.Email, u.Email)

	_, err = c.GetUser(ctx, "nobody")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	users, err := c.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestGRPCClient_Ping(t *testing.T) {
	c := newTestClient(t)

	st, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SERVING", st)
}

func TestMapError(t *testing.T) {
	plain := errors.New("plain")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"non status", plain, plain},
		{"validation", status.Error(codes.InvalidArgument, "validation error: email: bad"), common.ErrValidation},
		{"duplicate", status.Error(codes.AlreadyExists, "x"), common.ErrDuplicateEmail},
		{"not found", status.Error(codes.NotFound, "x"), common.ErrorNotFound},
		{"credentials", status.Error(codes.Unauthenticated, "invalid credentials"), common.ErrInvalidCredentials},
		{"expired", status.Error(codes.Unauthenticated, "token expired"), common.ErrTokenExpired},
		{"missing token", status.Error(codes.Unauthenticated, "missing token"), common.ErrInvalidToken},
		{"unavailable", status.Error(codes.Unavailable, "service unavailable"), common.ErrStoreUnavailable},
		{"internal", status.Error(codes.Internal, "internal error"), common.ErrorInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapError(tt.in), tt.want)
		})
	}
}
