package common

import "errors"

// Kind is the closed set of outcomes an auth operation can fail with.
// Transports switch on it instead of chaining errors.Is checks.
type Kind int

const (
	KindNone Kind = iota
	KindValidation
	KindDuplicateEmail
	KindInvalidCredentials
	KindNotFound
	KindTokenExpired
	KindTokenInvalid
	KindUnavailable
	KindInternal
)

var kindNames = map[Kind]string{
	KindNone:               "none",
	KindValidation:         "validation",
	KindDuplicateEmail:     "duplicate_email",
	KindInvalidCredentials: "invalid_credentials",
	KindNotFound:           "not_found",
	KindTokenExpired:       "token_expired",
	KindTokenInvalid:       "token_invalid",
	KindUnavailable:        "unavailable",
	KindInternal:           "internal",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// KindOf classifies err. A nil error is KindNone; anything not produced by
// this module is KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrDuplicateEmail):
		return KindDuplicateEmail
	case errors.Is(err, ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, ErrorNotFound):
		return KindNotFound
	case errors.Is(err, ErrTokenExpired):
		return KindTokenExpired
	case errors.Is(err, ErrInvalidToken):
		return KindTokenInvalid
	case errors.Is(err, ErrStoreUnavailable):
		return KindUnavailable
	default:
		return KindInternal
	}
}
