package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func sessionResponse(sess *services.Session) *pb.SessionResponse {
	return &pb.SessionResponse{User: sess.User, Token: sess.Token, ExpiresAt: sess.ExpiresAt}
}

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.SessionResponse, error) {
	sess, err := s.auth.Register(ctx, req.Email, req.Password, req.Profile)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", sess.User.ID)
	return sessionResponse(sess), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.SessionResponse, error) {
	sess, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return sessionResponse(sess), nil
}

func (s *GRPCServer) Authenticate(ctx context.Context, req *pb.AuthenticateRequest) (*pb.AuthenticateResponse, error) {
	userID, err := s.auth.Authenticate(ctx, req.Token)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.AuthenticateResponse{UserID: userID}, nil
}

func (s *GRPCServer) GetUser(ctx context.Context, req *pb.GetUserRequest) (*pb.UserResponse, error) {
	user, err := s.auth.GetUser(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.UserResponse{User: user}, nil
}

func (s *GRPCServer) ListUsers(ctx context.Context, req *pb.ListUsersRequest) (*pb.ListUsersResponse, error) {
	users, err := s.auth.ListUsers(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.ListUsersResponse{Users: users}, nil
}

func (s *GRPCServer) Me(ctx context.Context, req *pb.MeRequest) (*pb.UserResponse, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	return s.GetUser(ctx, &pb.GetUserRequest{ID: userID})
}
