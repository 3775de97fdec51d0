package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thenoetrevino/checklist/internal/models"
	authservice "github.com/thenoetrevino/checklist/internal/services/auth"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r credentialsRequest) credentials() authservice.Credentials {
	return authservice.Credentials{Username: r.Username, Password: r.Password}
}

func (s *Server) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	sess, err := s.app.AuthService.Register(c.Request.Context(), req.credentials())
	if err != nil {
		s.respondError(c, err, "Registration failed")
		return
	}

	s.metrics.IncAuthEvent(authRegister)
	s.setSessionCookie(c, sess.Token)
	c.JSON(http.StatusOK, gin.H{"user": sess.User})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request data")
		return
	}

	sess, err := s.app.AuthService.Login(c.Request.Context(), req.credentials())
	if err != nil {
		if models.KindOf(err) == models.KindAuthentication {
			s.metrics.IncAuthEvent(authLoginFailed)
		}
		s.respondError(c, err, "Login failed")
		return
	}

	s.metrics.IncAuthEvent(authLogin)
	s.setSessionCookie(c, sess.Token)
	c.JSON(http.StatusOK, gin.H{"user": sess.User})
}

func (s *Server) handleLogout(c *gin.Context) {
	if token, err := c.Cookie(s.cookieName); err == nil {
		s.app.AuthService.Logout(c.Request.Context(), token)
		s.metrics.IncAuthEvent(authLogout)
	}
	s.clearSessionCookie(c)
	respondMessage(c, http.StatusOK, "Logged out successfully")
}

func (s *Server) handleMe(c *gin.Context) {
	identity := caller(c)
	c.JSON(http.StatusOK, gin.H{"user": models.PublicUser{ID: identity.UserID, Username: identity.Username}})
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookieName, token, int(s.cookieTTL.Seconds()), "/", "", s.cookieSecure, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookieName, "", -1, "/", "", s.cookieSecure, true)
}
