package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/gin-gonic/gin"
)

// writeError renders err as {"code","message"}. Credential and
// infrastructure failures get fixed messages.
func (s *Server) writeError(c *gin.Context, err error) {
	switch common.KindOf(err) {
	case common.KindValidation:
		body := gin.H{"code": "VALIDATION_FAILED", "message": common.ErrValidation.Error()}
		var ve *common.ValidationError
		if errors.As(err, &ve) {
			body["fields"] = ve.Fields
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, body)
	case common.KindDuplicateEmail:
		abort(c, http.StatusConflict, "EMAIL_TAKEN", common.ErrDuplicateEmail.Error())
	case common.KindInvalidCredentials:
		abort(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", common.ErrInvalidCredentials.Error())
	case common.KindNotFound:
		abort(c, http.StatusNotFound, "NOT_FOUND", common.ErrorNotFound.Error())
	case common.KindTokenExpired:
		abort(c, http.StatusUnauthorized, "TOKEN_EXPIRED", common.ErrTokenExpired.Error())
	case common.KindTokenInvalid:
		abort(c, http.StatusUnauthorized, "INVALID_TOKEN", common.ErrInvalidToken.Error())
	case common.KindUnavailable:
		abort(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "service unavailable")
	default:
		s.logger.Error(c.Request.Context(), "unexpected error", "error", err)
		abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", common.ErrorInternal.Error())
	}
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"code": code, "message": message})
}
