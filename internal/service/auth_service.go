package service

import (
	"errors"
	"fmt"

	"math_arena_backend/internal/config"
	"math_arena_backend/internal/model"
	"math_arena_backend/internal/util"
	"math_arena_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserStore interface {
	Create(user *model.User) error
	FindByID(id string) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByConfirmToken(token string) (*model.User, error)
	Confirm(userID string) error
	TouchLastLogin(userID string) error
}

type ConfirmationMailer interface {
	SendConfirmation(email, confirmURL string) error
}

type AuthService struct {
	Users  UserStore
	Mailer ConfirmationMailer
	Cfg    *config.Config
}

func NewAuthService(users UserStore, mailer ConfirmationMailer, cfg *config.Config) *AuthService {
	return &AuthService{
		Users:  users,
		Mailer: mailer,
		Cfg:    cfg,
	}
}

// Register creates an unconfirmed account and mails the confirmation link.
// The mail goes out out-of-band; a delivery failure is logged, not surfaced,
// since the account already exists and the mail can be re-requested.
func (s *AuthService) Register(username, email, password string) (*model.User, error) {
	_, err := s.Users.FindByEmail(email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		Password:     string(hashedPassword),
		ConfirmToken: uuid.New().String(),
	}
	if err := s.Users.Create(user); err != nil {
		return nil, err
	}

	if s.Mailer != nil {
		confirmURL := fmt.Sprintf("%s/api/confirm?token=%s", s.Cfg.Server.BaseURL, user.ConfirmToken)
		go func() {
			if err := s.Mailer.SendConfirmation(user.Email, confirmURL); err != nil {
				logger.Log.Error("confirmation mail failed",
					zap.String("email", user.Email), zap.Error(err))
			}
		}()
	}

	return user, nil
}

func (s *AuthService) Confirm(token string) error {
	if token == "" {
		return util.ErrInvalidToken
	}
	user, err := s.Users.FindByConfirmToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrInvalidToken
		}
		return err
	}
	return s.Users.Confirm(user.ID)
}

func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.Users.FindByEmail(email)
	if err != nil {
		return "", util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", util.ErrInvalidCredentials
	}

	if !user.Confirmed {
		return "", util.ErrAccountUnconfirmed
	}

	go func() {
		if err := s.Users.TouchLastLogin(user.ID); err != nil {
			logger.Log.Warn("failed to record last login", zap.Error(err))
		}
	}()

	return util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.Users.FindByID(claims.UserID)
	return user
}
