package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

const contextUserKey = "userID"

type registerRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Profile  map[string]any `json:"profile"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func sessionBody(sess *services.Session) gin.H {
	return gin.H{"user": sess.User, "token": sess.Token, "expires_at": sess.ExpiresAt}
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_INPUT", "expected a JSON body with email and password")
		return
	}

	sess, err := s.auth.Register(c.Request.Context(), req.Email, req.Password, req.Profile)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionBody(sess))
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_INPUT", "expected a JSON body with email and password")
		return
	}

	sess, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionBody(sess))
}

// requireToken resolves "Authorization: Bearer <jwt>" to a user ID.
func (s *Server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if len(header) <= len(common.BearerPrefix) || !strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing token")
			return
		}

		userID, err := s.auth.Authenticate(c.Request.Context(), strings.TrimSpace(header[len(common.BearerPrefix):]))
		if err != nil {
			s.writeError(c, err)
			return
		}

		c.Set(contextUserKey, userID)
		c.Next()
	}
}

func (s *Server) me(c *gin.Context) {
	user, err := s.auth.GetUser(c.Request.Context(), c.GetString(contextUserKey))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *Server) getUser(c *gin.Context) {
	user, err := s.auth.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *Server) listUsers(c *gin.Context) {
	users, err := s.auth.ListUsers(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
