package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	authdomain "github.com/shresthgour/indiamun-backend/internal/auth/domain"
)

type registerRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (s *Server) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.authSvc.Register(c.Request.Context(), authdomain.RegisterRequest{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "otp sent"})
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"otp" binding:"required,len=6"`
}

func (s *Server) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.authSvc.VerifyOTP(c.Request.Context(), authdomain.VerifyOTPRequest{
		Email: req.Email,
		Code:  req.Code,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse(result))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.authSvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse(result))
}

// Logout is a no-op for stateless tokens; the client drops its copy.
func (s *Server) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (s *Server) Me(c *gin.Context) {
	user, err := s.authSvc.CurrentUser(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}

type updateProfileRequest struct {
	FullName string `json:"full_name" binding:"required"`
}

func (s *Server) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	user, err := s.authSvc.UpdateProfile(c.Request.Context(), c.GetString(ctxUserID), req.FullName)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}

// MyLearning lists every product the caller is enrolled in, across
// one-off purchases and subscription grants alike.
func (s *Server) MyLearning(c *gin.Context) {
	user, err := s.authSvc.CurrentUser(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	records, err := s.enrollmentSvc.Enrollments(c.Request.Context(), user.Email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	courses := make([]gin.H, 0, len(records))
	for _, rec := range records {
		courses = append(courses, gin.H{
			"product_id":  rec.ProductID,
			"enrolled_at": rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (s *Server) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.authSvc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "reset link sent"})
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

func (s *Server) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.authSvc.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password reset"})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (s *Server) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.authSvc.ChangePassword(c.Request.Context(), c.GetString(ctxUserID), req.OldPassword, req.NewPassword)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

func authResponse(result *authdomain.AuthResult) gin.H {
	return gin.H{
		"token":      result.Token,
		"expires_at": result.ExpiresAt.UTC().Format(time.RFC3339),
		"user":       userView(result.User),
	}
}

func userView(user *authdomain.User) gin.H {
	return gin.H{
		"id":        user.ID.String(),
		"full_name": user.FullName,
		"email":     user.Email,
		"role":      user.Role,
	}
}
