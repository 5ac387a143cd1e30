package http

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/Eric21111/expense-tracker-sub001/internal/database"
	"github.com/Eric21111/expense-tracker-sub001/internal/models"
)

type AuthResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

func (s *Server) issueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub": user.Email,
		"uid": user.ID,
		"exp": time.Now().Add(30 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func generateCode() string {
	n, _ := rand.Int(rand.Reader, big.NewInt(1000000))
	return fmt.Sprintf("%06d", n.Int64())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// consumeCode returns true when a live code exists for (email, purpose). The
// row is removed either way, so codes are single use and stale rows do not
// pile up.
func consumeCode(email, code, purpose string) bool {
	var vc models.VerificationCode
	err := database.DB.Where("email = ? AND code = ? AND purpose = ?", email, code, purpose).
		Order("created_at desc").First(&vc).Error
	if err != nil {
		return false
	}
	database.DB.Delete(&vc)
	return time.Now().Before(vc.ExpiresAt)
}

func (s *Server) createCode(email, purpose string) (string, error) {
	// A new code invalidates earlier ones for the same purpose.
	database.DB.Where("email = ? AND purpose = ?", email, purpose).Delete(&models.VerificationCode{})
	code := generateCode()
	vc := models.VerificationCode{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.CodeTTLMin) * time.Minute),
	}
	if err := database.DB.Create(&vc).Error; err != nil {
		return "", err
	}
	return code, nil
}

// POST /users/register
func (s *Server) register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}
	email := normalizeEmail(input.Email)

	var existing models.User
	if err := database.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(409, gin.H{"success": false, "message": "email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		fail(c, 500, "registration failed", err)
		return
	}

	// Replace any earlier pending signup for this email.
	database.DB.Where("email = ?", email).Delete(&models.PendingRegistration{})
	pending := models.PendingRegistration{
		Name:         input.Name,
		Email:        email,
		PasswordHash: string(hash),
		ExpiresAt:    time.Now().Add(time.Duration(s.cfg.CodeTTLMin) * time.Minute),
	}
	if err := database.DB.Create(&pending).Error; err != nil {
		fail(c, 500, "registration failed", err)
		return
	}

	code, err := s.createCode(email, "verify")
	if err != nil {
		fail(c, 500, "registration failed", err)
		return
	}
	s.sendCode(email, code, "verify")

	c.JSON(200, gin.H{"success": true, "message": "verification code sent"})
}

// sendCode mails a code without blocking the request. Failures are logged
// only; with no SMTP configured the code lands in the log for local use.
func (s *Server) sendCode(email, code, purpose string) {
	if !s.mailer.Enabled() {
		log.Printf("mail disabled, %s code for %s: %s", purpose, email, code)
		return
	}
	go func() {
		var err error
		if purpose == "reset" {
			err = s.mailer.SendPasswordResetCode(email, code)
		} else {
			err = s.mailer.SendVerificationCode(email, code)
		}
		if err != nil {
			log.Printf("send %s code to %s: %v", purpose, email, err)
		}
	}()
}

// POST /users/verify-email
func (s *Server) verifyEmail(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}
	email := normalizeEmail(input.Email)

	if !consumeCode(email, input.Code, "verify") {
		c.JSON(400, gin.H{"success": false, "message": "invalid or expired code"})
		return
	}

	var pending models.PendingRegistration
	if err := database.DB.Where("email = ?", email).First(&pending).Error; err != nil {
		c.JSON(404, gin.H{"success": false, "message": "no pending registration"})
		return
	}
	if time.Now().After(pending.ExpiresAt) {
		database.DB.Delete(&pending)
		c.JSON(400, gin.H{"success": false, "message": "registration expired, please register again"})
		return
	}

	user := models.User{
		Name:         pending.Name,
		Email:        email,
		PasswordHash: pending.PasswordHash,
		Provider:     "local",
		Verified:     true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		fail(c, 500, "could not create user", err)
		return
	}
	database.DB.Delete(&pending)

	token, err := s.issueToken(&user)
	if err != nil {
		fail(c, 500, "could not create user", err)
		return
	}
	c.JSON(201, AuthResponse{Success: true, Token: token, User: &user})
}

// POST /users/login
func (s *Server) login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", normalizeEmail(input.Email)).First(&user).Error; err != nil {
		c.JSON(401, gin.H{"success": false, "message": "invalid credentials"})
		return
	}
	if user.PasswordHash == "" {
		// Google-only account, no password set.
		c.JSON(401, gin.H{"success": false, "message": "invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(401, gin.H{"success": false, "message": "invalid credentials"})
		return
	}

	token, err := s.issueToken(&user)
	if err != nil {
		fail(c, 500, "login failed", err)
		return
	}
	c.JSON(200, AuthResponse{Success: true, Token: token, User: &user})
}

// POST /users/google
// The Google ID token is verified upstream; this endpoint upserts the
// account by email.
func (s *Server) googleLogin(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
		Name  string `json:"name"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}
	email := normalizeEmail(input.Email)

	var user models.User
	err := database.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		user = models.User{
			Name:     input.Name,
			Email:    email,
			Provider: "google",
			Verified: true,
		}
		if err := database.DB.Create(&user).Error; err != nil {
			fail(c, 500, "login failed", err)
			return
		}
	}

	token, err := s.issueToken(&user)
	if err != nil {
		fail(c, 500, "login failed", err)
		return
	}
	c.JSON(200, AuthResponse{Success: true, Token: token, User: &user})
}

// POST /users/forgot-password
// Always answers 200 so the endpoint does not reveal which emails exist.
func (s *Server) forgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}
	email := normalizeEmail(input.Email)

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err == nil {
		code, err := s.createCode(email, "reset")
		if err != nil {
			fail(c, 500, "could not send reset code", err)
			return
		}
		s.sendCode(email, code, "reset")
	}

	c.JSON(200, gin.H{"success": true, "message": "if the email exists, a reset code was sent"})
}

// POST /users/reset-password
func (s *Server) resetPassword(c *gin.Context) {
	var input struct {
		Email       string `json:"email" binding:"required,email"`
		Code        string `json:"code" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}
	email := normalizeEmail(input.Email)

	if !consumeCode(email, input.Code, "reset") {
		c.JSON(400, gin.H{"success": false, "message": "invalid or expired code"})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(404, gin.H{"success": false, "message": "user not found"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		fail(c, 500, "could not reset password", err)
		return
	}
	user.PasswordHash = string(hash)
	if err := database.DB.Save(&user).Error; err != nil {
		fail(c, 500, "could not reset password", err)
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "password updated"})
}

// POST /users/change-password
func (s *Server) changePassword(c *gin.Context) {
	user := currentUser(c)

	var input struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
		c.JSON(401, gin.H{"success": false, "message": "invalid credentials"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		fail(c, 500, "could not change password", err)
		return
	}
	user.PasswordHash = string(hash)
	if err := database.DB.Save(user).Error; err != nil {
		fail(c, 500, "could not change password", err)
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "password updated"})
}
