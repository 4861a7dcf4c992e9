package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error to a gRPC status. Messages for credential
// and infrastructure failures are fixed strings so nothing internal leaks.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch common.KindOf(err) {
	case common.KindNone:
		return nil
	case common.KindValidation:
		var ve *common.ValidationError
		if errors.As(err, &ve) {
			return status.Error(codes.InvalidArgument, ve.Error())
		}
		return status.Error(codes.InvalidArgument, common.ErrValidation.Error())
	case common.KindDuplicateEmail:
		return status.Error(codes.AlreadyExists, common.ErrDuplicateEmail.Error())
	case common.KindInvalidCredentials:
		return status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error())
	case common.KindNotFound:
		return status.Error(codes.NotFound, common.ErrorNotFound.Error())
	case common.KindTokenExpired:
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	case common.KindTokenInvalid:
		return status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	case common.KindUnavailable:
		return status.Error(codes.Unavailable, "service unavailable")
	default:
		s.logger.Error(ctx, "unexpected error", "error", err)
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}
