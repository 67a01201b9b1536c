package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SUJAY300/medi-vault-web-app/domain"
)

// AuthHandlers exposes domain.AuthService over HTTP. Every response body is a SessionResult.
type AuthHandlers struct {
	authSvc domain.AuthService
	logger  *zap.Logger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, logger *zap.Logger) *AuthHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandlers{authSvc: authSvc, logger: logger}
}

// LoginRequest represents an email and password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// OTPSendRequest asks for a code to be sent to a patient phone
type OTPSendRequest struct {
	Phone string `json:"phone" binding:"required,min=10,max=15,phone"`
}

// OTPVerifyRequest submits a code for a patient phone
type OTPVerifyRequest struct {
	Phone string `json:"phone" binding:"required,min=10,max=15,phone"`
	OTP   string `json:"otp" binding:"required,otp"`
}

// SignupRequest carries the role-specific signup fields. Patients need a phone; other roles need email and password.
type SignupRequest struct {
	Role            string `json:"role" binding:"required,oneof=Admin Doctor Nurse Student Patient"`
	FullName        string `json:"fullName" binding:"required,min=2"`
	Email           string `json:"email" binding:"required_unless=Role Patient,omitempty,email"`
	Phone           string `json:"phone" binding:"required_if=Role Patient,omitempty,min=10,max=15,phone"`
	Password        string `json:"password" binding:"required_unless=Role Patient,omitempty,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" binding:"required_unless=Role Patient,eqfield=Password"`
	License         string `json:"license" binding:"required_if=Role Doctor,required_if=Role Nurse"`
}

// Login handles professional login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bind(c, &req) {
		return
	}
	h.respond(c, h.authSvc.Login(c.Request.Context(), req.Email, req.Password))
}

// SendOTP handles OTP issuance
func (h *AuthHandlers) SendOTP(c *gin.Context) {
	var req OTPSendRequest
	if !h.bind(c, &req) {
		return
	}
	h.respond(c, h.authSvc.RequestOTP(c.Request.Context(), req.Phone))
}

// VerifyOTP handles OTP verification
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if !h.bind(c, &req) {
		return
	}
	h.respond(c, h.authSvc.VerifyOTP(c.Request.Context(), req.Phone, req.OTP))
}

// Signup handles account creation for every role
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req SignupRequest
	if !h.bind(c, &req) {
		return
	}
	form := domain.SignupForm{
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		License:         req.License,
	}
	h.respond(c, h.authSvc.Signup(c.Request.Context(), domain.Role(req.Role), form))
}

// Health reports liveness
func (h *AuthHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandlers) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Debug("request rejected", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, domain.Failed(domain.StatusBadRequest, validationMessage(err)))
		return false
	}
	return true
}

func (h *AuthHandlers) respond(c *gin.Context, res domain.SessionResult) {
	c.JSON(res.Status.HTTPCode(), res)
}
