package grpc

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/passwords"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv, err := NewGRPCServer("127.0.0.1:0", logging.Nop{}, &fakeAuth{})
	if err != nil {
		t.Fatalf("NewGRPCServer error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv, err := NewGRPCServer("127.0.0.1:99999", logging.Nop{}, &fakeAuth{})
	if err != nil {
		t.Fatalf("NewGRPCServer error (constructor should not fail here): %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}

// startBufconn runs a server backed by a real sqlite store and returns a
// connected client.
func startBufconn(t *testing.T) (pb.AuthServiceClient, *grpc.ClientConn) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	db, rm, err := repomanager.Open(ctx, repomanager.DriverSQLite, filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)

	h, err := passwords.New(passwords.AlgorithmBcrypt, 4)
	require.NoError(t, err)
	us, err := services.NewUserService(db, rm, h, 8, logging.Nop{}, nil)
	require.NoError(t, err)
	tokens, err := auth.NewTokenIssuer([]byte("secret"), time.Hour)
	require.NoError(t, err)
	svc := services.NewAuthService(us, tokens, logging.Nop{}, nil)

	srv, err := NewGRPCServer("bufnet", logging.Nop{}, svc)
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(pb.ContentSubtype)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
		_ = db.Close()
	})

	return pb.NewAuthServiceClient(conn), conn
}

func withToken(token string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), common.AccessTokenHeaderName, token)
}

func TestEndToEnd_Scenario(t *testing.T) {
	client, _ := startBufconn(t)
	ctx := context.Background()

	reg, err := client.Register(ctx, &pb.RegisterRequest{Email: "a@x.com", Password: "secret123", Profile: map[string]any{"name": "A"}})
	require.NoError(t, err)
	require.NotEmpty(t, reg.Token)
	assert.Equal(t, "a@x.com", reg.User.Email)
	assert.Equal(t, "A", reg.User.Profile["name"])

	login, err := client.Login(ctx, &pb.LoginRequest{Email: "a@x.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEqual(t, reg.Token, login.Token)

	who, err := client.Authenticate(ctx, &pb.AuthenticateRequest{Token: login.Token})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, who.UserID)

	_, err = client.Login(ctx, &pb.LoginRequest{Email: "a@x.com", Password: "wrong"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	_, err2 := client.Login(ctx, &pb.LoginRequest{Email: "b@x.com", Password: "wrong"})
	assert.Equal(t, status.Convert(err).Message(), status.Convert(err2).Message())

	_, err = client.Register(ctx, &pb.RegisterRequest{Email: "a@x.com", Password: "other"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = client.Register(ctx, &pb.RegisterRequest{Email: "bad", Password: "x"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestEndToEnd_ProtectedMethods(t *testing.T) {
	client, _ := startBufconn(t)

	reg, err := client.Register(context.Background(), &pb.RegisterRequest{Email: "a@x.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = client.Me(context.Background(), &pb.MeRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = client.Me(withToken("not.a.token"), &pb.MeRequest{})
	assert.Equal(t, "invalid token", status.Convert(err).Message())

	me, err := client.Me(withToken(reg.Token), &pb.MeRequest{})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, me.User.ID)

	got, err := client.GetUser(withToken(reg.Token), &pb.GetUserRequest{ID: reg.User.ID})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.User.Email)

	_, err = client.GetUser(withToken(reg.Token), &pb.GetUserRequest{ID: "missing"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	list, err := client.ListUsers(withToken(reg.Token), &pb.ListUsersRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Users, 1)
}

func TestEndToEnd_Health(t *testing.T) {
	_, conn := startBufconn(t)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(),
		&healthpb.HealthCheckRequest{Service: pb.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
