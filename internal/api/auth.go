package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/middleware"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/service"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/types"
)

const (
	msgResetRequested = "Si el email está registrado, recibirás un enlace para restablecer la contraseña"
	msgPasswordReset  = "Contraseña actualizada"
)

type AuthHandler struct {
	auth  service.IAuthService
	roles service.IRoleService
}

func NewAuthHandler(auth service.IAuthService, roles service.IRoleService) *AuthHandler {
	return &AuthHandler{
		auth:  auth,
		roles: roles,
	}
}

// RegisterRoutes mounts the account endpoints. limits run before the
// credential endpoints only.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, limits ...gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/signup", append(limits, h.SignUp)...)
		auth.POST("/signin", append(limits, h.SignIn)...)
		auth.POST("/password-reset", append(limits, h.RequestPasswordReset)...)
		auth.POST("/password-reset/confirm", append(limits, h.ConfirmPasswordReset)...)
		auth.POST("/signout", middleware.AuthMiddleware(h.auth), h.SignOut)
		auth.GET("/session", middleware.OptionalAuth(h.auth), h.Session)
	}
}

// RegisterAdminRoutes mounts the console access probe; router must already be gated.
func (h *AuthHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.GET("/access", h.Access)
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req types.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	if _, err := h.auth.SignUp(c.Request.Context(), req.Email, req.Password); err != nil {
		respondError(c, err, "failed to create account")
		return
	}

	h.signIn(c, &req, http.StatusCreated)
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req types.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	h.signIn(c, &req, http.StatusOK)
}

func (h *AuthHandler) signIn(c *gin.Context, req *types.CredentialsRequest, status int) {
	user, token, claims, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err, "failed to sign in")
		return
	}

	account, err := h.account(c.Request.Context(), user)
	if err != nil {
		respondError(c, err, "failed to sign in")
		return
	}

	c.JSON(status, types.AuthResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Account:   account,
	})
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		respondError(c, service.ErrInvalidToken, "failed to sign out")
		return
	}

	if err := h.auth.SignOut(c.Request.Context(), claims); err != nil {
		respondError(c, err, "failed to sign out")
		return
	}
	c.Status(http.StatusNoContent)
}

// Session reports the caller's console access state. Anonymous callers get
// a 200 with the unauthenticated state rather than an error.
func (h *AuthHandler) Session(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		state := types.ResolveAccess(nil)
		c.JSON(http.StatusOK, types.SessionResponse{State: state, Redirect: state.Redirect()})
		return
	}

	isAdmin, err := h.roles.IsAdmin(c.Request.Context(), claims.UserID)
	if err != nil {
		respondError(c, err, "failed to verify access")
		return
	}

	h.respondSession(c, types.NewSession(claims, isAdmin))
}

// Access is reached only through the admin gate.
func (h *AuthHandler) Access(c *gin.Context) {
	session, ok := middleware.SessionFromContext(c)
	if !ok {
		respondError(c, service.ErrInvalidToken, "failed to verify access")
		return
	}
	h.respondSession(c, session)
}

func (h *AuthHandler) respondSession(c *gin.Context, session *types.Session) {
	state := types.ResolveAccess(session)
	c.JSON(http.StatusOK, types.SessionResponse{
		Account: types.AccountResponse{
			ID:      session.AccountID,
			Email:   session.Email,
			IsAdmin: session.IsAdmin,
		},
		State:    state,
		Redirect: state.Redirect(),
	})
}

func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req types.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err, "failed to request password reset")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": msgResetRequested})
}

func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req types.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, err, "failed to reset password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgPasswordReset})
}

func (h *AuthHandler) account(ctx context.Context, user *models.User) (types.AccountResponse, error) {
	isAdmin, err := h.roles.IsAdmin(ctx, user.ID)
	if err != nil {
		return types.AccountResponse{}, err
	}
	return types.AccountResponse{
		ID:      user.ID,
		Email:   user.Email,
		IsAdmin: isAdmin,
	}, nil
}
