// Package common contains shared constants and sentinel errors used across
// GophAuth components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// AuthorizationHeaderName is the standard bearer header, accepted by both the
// gRPC and HTTP transports.
const AuthorizationHeaderName = "authorization"

// BearerPrefix precedes the token inside an Authorization header.
const BearerPrefix = "Bearer "
