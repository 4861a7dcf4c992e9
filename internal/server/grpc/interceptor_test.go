package grpc

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type tokenAuth struct {
	fakeAuth
	valid map[string]string
	seen  string
}

func (a *tokenAuth) Authenticate(ctx context.Context, token string) (string, error) {
	a.seen = token
	if token == "expired" {
		return "", common.ErrTokenExpired
	}
	if id, ok := a.valid[token]; ok {
		return id, nil
	}
	return "", common.ErrInvalidToken
}

func newInterceptorServer() (*GRPCServer, *tokenAuth) {
	a := &tokenAuth{valid: map[string]string{"good": "user-123"}}
	return newServer(a), a
}

func TestInterceptor_PublicMethod_AllowsWithoutToken(t *testing.T) {
	s, _ := newInterceptorServer()

	info := &grpc.UnaryServerInfo{FullMethod: pb.AuthService_Login_FullMethodName}
	handlerCalled := false

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		handlerCalled = true
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !handlerCalled || resp != "ok" {
		t.Fatalf("handler not called or bad resp: %v", resp)
	}
}

func TestInterceptor_Protected_MissingToken(t *testing.T) {
	s, _ := newInterceptorServer()

	for _, m := range []string{
		pb.AuthService_Me_FullMethodName,
		pb.AuthService_GetUser_FullMethodName,
		pb.AuthService_ListUsers_FullMethodName,
	} {
		info := &grpc.UnaryServerInfo{FullMethod: m}
		h := func(ctx context.Context, req interface{}) (interface{}, error) {
			t.Fatal("handler should not be called when token missing")
			return nil, nil
		}

		_, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
		if status.Code(err) != codes.Unauthenticated {
			t.Fatalf("%s: expected Unauthenticated, got %v", m, status.Code(err))
		}
		if status.Convert(err).Message() != "missing token" {
			t.Fatalf("expected 'missing token', got %q", status.Convert(err).Message())
		}
	}
}

func TestInterceptor_Protected_ExpiredVsInvalid(t *testing.T) {
	s, _ := newInterceptorServer()
	info := &grpc.UnaryServerInfo{FullMethod: pb.AuthService_Me_FullMethodName}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called")
		return nil, nil
	}

	cases := map[string]string{
		"expired": "token expired",
		"garbage": "invalid token",
	}
	for token, want := range cases {
		ctx := metadata.NewIncomingContext(context.Background(),
			metadata.New(map[string]string{common.AccessTokenHeaderName: token}))
		_, err := s.accessTokenInterceptor(ctx, nil, info, h)
		if status.Code(err) != codes.Unauthenticated || status.Convert(err).Message() != want {
			t.Fatalf("token %q: got %v", token, err)
		}
	}
}

func TestInterceptor_ValidToken_SetsUserID(t *testing.T) {
	s, _ := newInterceptorServer()
	info := &grpc.UnaryServerInfo{FullMethod: pb.AuthService_Me_FullMethodName}

	ctx := metadata.NewIncomingContext(context.Background(),
		metadata.New(map[string]string{common.AccessTokenHeaderName: "good"}))

	var got string
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		got, _ = UserIDFromContext(ctx)
		return "ok", nil
	}

	if _, err := s.accessTokenInterceptor(ctx, nil, info, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "user-123" {
		t.Fatalf("user id not propagated in context: got %q", got)
	}
}

func TestInterceptor_BearerAuthorization(t *testing.T) {
	s, a := newInterceptorServer()
	info := &grpc.UnaryServerInfo{FullMethod: pb.AuthService_ListUsers_FullMethodName}

	ctx := metadata.NewIncomingContext(context.Background(),
		metadata.New(map[string]string{common.AuthorizationHeaderName: "bearer good"}))

	h := func(ctx context.Context, req interface{}) (interface{}, error) { return "ok", nil }
	if _, err := s.accessTokenInterceptor(ctx, nil, info, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.seen != "good" {
		t.Fatalf("bearer prefix not stripped: %q", a.seen)
	}
}

func TestUserIDFromContext_Empty(t *testing.T) {
	if _, ok := UserIDFromContext(context.Background()); ok {
		t.Fatal("expected no user id")
	}
}
