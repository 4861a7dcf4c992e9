package client

import (
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// mapError turns a gRPC status back into the shared sentinel errors so
// callers can use errors.Is.
func mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrValidation, st.Message())
	case codes.AlreadyExists:
		return common.ErrDuplicateEmail
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.Unauthenticated:
		switch st.Message() {
		case common.ErrInvalidCredentials.Error():
			return common.ErrInvalidCredentials
		case common.ErrTokenExpired.Error():
			return common.ErrTokenExpired
		default:
			return common.ErrInvalidToken
		}
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", common.ErrStoreUnavailable, st.Message())
	case codes.Internal:
		return common.ErrorInternal
	default:
		return err
	}
}
