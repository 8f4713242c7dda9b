package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/shresthgour/indiamun-backend/internal/auth/domain"
	"github.com/shresthgour/indiamun-backend/internal/auth/otp"
	"github.com/shresthgour/indiamun-backend/internal/auth/password"
	"github.com/shresthgour/indiamun-backend/internal/auth/token"
	"github.com/shresthgour/indiamun-backend/internal/config"
	"github.com/shresthgour/indiamun-backend/internal/providers/email"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	otpTTL         = 5 * time.Minute
	resetTokenTTL  = 15 * time.Minute
	resetTokenSize = 20
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Config config.Config
	GenID  *snowflake.Node
	Repo   authdomain.Repository
	OTP    otp.Store
	Email  email.Provider
	Tokens *token.Issuer
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	cfg    config.Config
	genID  *snowflake.Node
	repo   authdomain.Repository
	otp    otp.Store
	email  email.Provider
	tokens *token.Issuer
}

func NewService(p Params) authdomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("auth.service"),
		cfg:    p.Config,
		genID:  p.GenID,
		repo:   p.Repo,
		otp:    p.OTP,
		email:  p.Email,
		tokens: p.Tokens,
	}
}

func (s *Service) Register(ctx context.Context, req authdomain.RegisterRequest) error {
	emailAddr := normalizeEmail(req.Email)
	if emailAddr == "" || req.Password == "" || strings.TrimSpace(req.FullName) == "" {
		return authdomain.ErrInvalidCredentials
	}

	if _, err := s.repo.FindUserByEmail(ctx, s.db, emailAddr); err == nil {
		return authdomain.ErrUserExists
	} else if !errors.Is(err, authdomain.ErrUserNotFound) {
		return err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return err
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	pending := otp.PendingRegistration{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        emailAddr,
		PasswordHash: hash,
		Code:         code,
	}
	if err := s.otp.Put(ctx, emailAddr, pending, otpTTL); err != nil {
		return err
	}

	body, err := email.Render("otp.html", email.OTPBody{Code: code, ExpiresIn: "5 minutes"})
	if err != nil {
		return err
	}
	if err := s.email.Send(ctx, []string{emailAddr}, "Verify your email", body); err != nil {
		s.log.Error("send otp email", zap.String("email", emailAddr), zap.Error(err))
		return err
	}

	s.log.Info("registration otp sent", zap.String("email", emailAddr))
	return nil
}

func (s *Service) VerifyOTP(ctx context.Context, req authdomain.VerifyOTPRequest) (*authdomain.AuthResult, error) {
	emailAddr := normalizeEmail(req.Email)

	pending, err := s.otp.Get(ctx, emailAddr)
	if errors.Is(err, otp.ErrNotFound) {
		return nil, authdomain.ErrInvalidOTP
	}
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(pending.Code), []byte(req.Code)) != 1 {
		return nil, authdomain.ErrInvalidOTP
	}

	user := &authdomain.User{
		ID:           s.genID.Generate(),
		FullName:     pending.FullName,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		Role:         authdomain.RoleUser,
		Metadata:     datatypes.JSONMap{},
	}
	if err := s.repo.CreateUser(ctx, s.db, user); err != nil {
		return nil, err
	}
	_ = s.otp.Delete(ctx, emailAddr)

	s.log.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("email", user.Email))
	return s.authResult(user)
}

func (s *Service) Login(ctx context.Context, req authdomain.LoginRequest) (*authdomain.AuthResult, error) {
	user, err := s.repo.FindUserByEmail(ctx, s.db, normalizeEmail(req.Email))
	if errors.Is(err, authdomain.ErrUserNotFound) {
		return nil, authdomain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, authdomain.ErrInvalidCredentials
	}

	return s.authResult(user)
}

func (s *Service) CurrentUser(ctx context.Context, userID string) (*authdomain.User, error) {
	return s.repo.FindUserByID(ctx, s.db, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID, fullName string) (*authdomain.User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, authdomain.ErrInvalidCredentials
	}

	user, err := s.repo.FindUserByID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	user.FullName = fullName
	if err := s.repo.UpdateUser(ctx, s.db, user); err != nil {
		return nil, err
	}

	s.log.Info("profile updated", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.repo.FindUserByEmail(ctx, s.db, normalizeEmail(emailAddr))
	if err != nil {
		return err
	}

	raw := make([]byte, resetTokenSize)
	if _, err := rand.Read(raw); err != nil {
		return err
	}
	rawToken := hex.EncodeToString(raw)
	tokenHash := hashToken(rawToken)

	expiry := time.Now().Add(resetTokenTTL)
	user.ForgotPasswordTokenHash = &tokenHash
	user.ForgotPasswordExpiry = &expiry
	if err := s.repo.UpdateUser(ctx, s.db, user); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.cfg.FrontendURL, rawToken)
	body, err := email.Render("password_reset.html", email.PasswordResetBody{ResetURL: resetURL, ExpiresIn: "15 minutes"})
	if err != nil {
		return err
	}
	if err := s.email.Send(ctx, []string{user.Email}, "Password reset", body); err != nil {
		// Invalidate the token if the mail never went out.
		user.ForgotPasswordTokenHash = nil
		user.ForgotPasswordExpiry = nil
		if clearErr := s.repo.UpdateUser(ctx, s.db, user); clearErr != nil {
			s.log.Error("clear reset token", zap.Error(clearErr))
		}
		return err
	}

	s.log.Info("password reset requested", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if newPassword == "" {
		return authdomain.ErrInvalidCredentials
	}

	user, err := s.repo.FindUserByResetTokenHash(ctx, s.db, hashToken(rawToken))
	if err != nil {
		return err
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ForgotPasswordTokenHash = nil
	user.ForgotPasswordExpiry = nil
	if err := s.repo.UpdateUser(ctx, s.db, user); err != nil {
		return err
	}

	s.log.Info("password reset", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return authdomain.ErrInvalidCredentials
	}

	user, err := s.repo.FindUserByID(ctx, s.db, userID)
	if err != nil {
		return err
	}
	if !password.Verify(oldPassword, user.PasswordHash) {
		return authdomain.ErrInvalidCredentials
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.repo.UpdateUser(ctx, s.db, user)
}

func (s *Service) authResult(user *authdomain.User) (*authdomain.AuthResult, error) {
	signed, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &authdomain.AuthResult{User: user, Token: signed, ExpiresAt: expiresAt}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func hashToken(rawToken string) string {
	digest := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(digest[:])
}
