package devserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/greenpulse/pulse-client/apimodel"
	"github.com/greenpulse/pulse-client/users"
)

func (s *Server) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req apimodel.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abort(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := req.Validate(); err != nil {
			abort(c, http.StatusUnprocessableEntity, err.Error())
			return
		}

		account, err := s.accounts.GetByEmail(req.Email)
		if err != nil || !account.CheckPassword(req.Password) {
			abort(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		resp, err := s.issueSession(c, account.User)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to issue session")
			abort(c, http.StatusInternalServerError, "Could not create session")
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// RegisterHandler creates the account and answers with the user only; the
// client logs in separately.
func (s *Server) RegisterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req apimodel.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abort(c, http.StatusBadRequest, "Username, a valid email and password are required")
			return
		}

		hash, err := users.HashPassword(req.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to hash password")
			abort(c, http.StatusInternalServerError, "Could not create account")
			return
		}

		account := &users.Account{
			User: users.User{
				Name:  req.Username,
				Email: req.Email,
			},
			Username:     req.Username,
			PasswordHash: hash,
			DateJoined:   time.Now(),
		}
		if err := s.accounts.Create(account); err != nil {
			if errors.Is(err, users.ErrEmailTaken) {
				abort(c, http.StatusBadRequest, "Email already registered")
				return
			}
			s.logger.Error().Err(err).Msg("failed to create account")
			abort(c, http.StatusInternalServerError, "Could not create account")
			return
		}

		c.JSON(http.StatusCreated, account.User)
	}
}

// RefreshHandler rotates the refresh token sent in the body, or in the
// refresh cookie when the body has none.
func (s *Server) RefreshHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req apimodel.RefreshRequest
		_ = c.ShouldBindJSON(&req) // An empty body falls back to the cookie
		refreshToken := req.RefreshToken
		if refreshToken == "" {
			refreshToken, _ = c.Cookie(refreshCookieName)
		}
		if refreshToken == "" {
			abort(c, http.StatusUnauthorized, "Refresh token required")
			return
		}

		next, userID, err := s.refresh.Rotate(refreshToken)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}
		account, err := s.accounts.GetByID(users.ID(userID))
		if err != nil {
			s.refresh.Revoke(next)
			abort(c, http.StatusUnauthorized, "Invalid or expired refresh token")
			return
		}

		accessToken, _, err := s.tokens.CreateAccessToken(account.User)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to create access token")
			abort(c, http.StatusInternalServerError, "Could not refresh session")
			return
		}

		s.setRefreshCookie(c, next)
		c.JSON(http.StatusOK, apimodel.AuthResponse{
			Token:        accessToken,
			RefreshToken: next,
			TokenType:    "bearer",
			ExpiresIn:    int(s.config.GetAccessTokenExpiry().Seconds()),
		})
	}
}

// LogoutHandler revokes what the caller presents. It always succeeds.
func (s *Server) LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rawToken, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := s.tokens.Verify(rawToken); err == nil {
				s.tokens.Revoke(rawToken)
				s.refresh.RevokeUser(claims.Subject)
				_ = s.accounts.SetLoggedIn(users.ID(claims.Subject), false)
			}
		}
		if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie != "" {
			s.refresh.Revoke(cookie)
		}
		s.tokens.CleanupRevoked()

		c.SetCookie(refreshCookieName, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, apimodel.MessageResponse{Message: "Logged out"})
	}
}

func (s *Server) ValidateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req apimodel.ValidateRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
			abort(c, http.StatusBadRequest, "Token is required")
			return
		}

		claims, err := s.tokens.Verify(req.Token)
		if err != nil {
			c.JSON(http.StatusOK, apimodel.ValidateResponse{Valid: false})
			return
		}
		account, err := s.accounts.GetByID(users.ID(claims.Subject))
		if err != nil {
			c.JSON(http.StatusOK, apimodel.ValidateResponse{Valid: false})
			return
		}
		username := account.Username
		c.JSON(http.StatusOK, apimodel.ValidateResponse{Valid: true, Username: &username})
	}
}

func (s *Server) ProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, err := s.accounts.GetByID(userIDFromContext(c))
		if err != nil {
			abort(c, http.StatusNotFound, "User not found")
			return
		}
		c.JSON(http.StatusOK, account.User)
	}
}

func (s *Server) issueSession(c *gin.Context, user users.User) (apimodel.AuthResponse, error) {
	accessToken, _, err := s.tokens.CreateAccessToken(user)
	if err != nil {
		return apimodel.AuthResponse{}, err
	}
	refreshToken, err := s.refresh.Create(string(user.ID))
	if err != nil {
		return apimodel.AuthResponse{}, err
	}
	if err := s.accounts.SetLoggedIn(user.ID, true); err != nil {
		return apimodel.AuthResponse{}, err
	}

	s.setRefreshCookie(c, refreshToken)
	return apimodel.AuthResponse{
		User:         &user,
		Token:        accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(s.config.GetAccessTokenExpiry().Seconds()),
	}, nil
}

func (s *Server) setRefreshCookie(c *gin.Context, refreshToken string) {
	maxAge := int(s.config.GetRefreshTokenExpiry().Seconds())
	c.SetCookie(refreshCookieName, refreshToken, maxAge, "/", "", false, true)
}
