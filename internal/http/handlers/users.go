package handlers

import (
	"net/http"

	"busgo/internal/auth"
	"busgo/internal/http/middleware"
	"busgo/internal/mailer"
	"busgo/internal/repositories"
	"busgo/internal/services"

	"github.com/gin-gonic/gin"
)

// UserHandler exposes registration, login and profile endpoints.
type UserHandler struct {
	Users         repositories.UserRepository
	Mail          mailer.Sender
	Tokens        auth.TokenManager
	SecureCookies bool
}

func (h UserHandler) svc(c *gin.Context) services.UserService {
	return services.UserService{
		UserRepo:  h.Users,
		Mailer:    h.Mail,
		RequestID: middleware.GetRequestID(c),
	}
}

type sendOTPRequest struct {
	Email string `json:"email"`
}

// POST /api/v1/users/send-otp
func (h UserHandler) SendOTP(c *gin.Context) {
	var req sendOTPRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.svc(c).SendOTP(req.Email); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, "OTP sent successfully", gin.H{})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	OTP      string `json:"otp"`
	Password string `json:"password"`
}

// POST /api/v1/users/register
func (h UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.svc(c).Register(req.Name, req.Email, req.OTP, req.Password); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, "User created successfully, please login", gin.H{})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/v1/users/login
func (h UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	user, err := h.svc(c).Login(req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	access, err := h.Tokens.MintAccess(user.ID, user.Role)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to create token", nil)
		return
	}
	refresh, err := h.Tokens.MintRefresh(user.ID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to create token", nil)
		return
	}

	h.setAuthCookie(c, "accessToken", access, 24*3600)
	h.setAuthCookie(c, "refreshToken", refresh, 7*24*3600)
	RespondOK(c, http.StatusOK, "Login successful", gin.H{"user": user.ToPublic()})
}

// GET /api/v1/users/logout
func (h UserHandler) Logout(c *gin.Context) {
	h.setAuthCookie(c, "accessToken", "", -1)
	h.setAuthCookie(c, "refreshToken", "", -1)
	RespondOK(c, http.StatusOK, "Logout successful", gin.H{})
}

// GET /api/v1/users/current-user
func (h UserHandler) CurrentUser(c *gin.Context) {
	rc, ok := MustPrincipal(c)
	if !ok {
		return
	}
	user, err := h.svc(c).CurrentUser(rc)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, "Profile fetched successfully", user)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// PUT /api/v1/users/change-password
func (h UserHandler) ChangePassword(c *gin.Context) {
	rc, ok := MustPrincipal(c)
	if !ok {
		return
	}
	var req changePasswordRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.svc(c).ChangePassword(rc, req.OldPassword, req.NewPassword); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, http.StatusOK, "Password changed successfully", gin.H{})
}

func (h UserHandler) setAuthCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.SecureCookies, true)
}
