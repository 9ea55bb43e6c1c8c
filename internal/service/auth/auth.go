package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/anooppassi66/lms-development/internal/app_errors"
	"github.com/anooppassi66/lms-development/internal/models"
	"github.com/anooppassi66/lms-development/pkg/logger"
)

type userRepo interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hashed string) error
	SetStatus(ctx context.Context, id uuid.UUID, status string, deactivatedAt *time.Time) error
	ListByRole(ctx context.Context, role, status string, limit, offset int) ([]models.User, int, error)
}

type tokenRepo interface {
	Create(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error)
	ByPrimaryKey(ctx context.Context, userID uuid.UUID, token *jwt.Token) (*models.RefreshToken, error)
	DeleteUserTokens(ctx context.Context, userID uuid.UUID) error
}

type AuthService struct {
	log        logger.Log
	jwtManager *JWTManager
	userRepo   userRepo
	tokenRepo  tokenRepo
}

func NewAuthService(l logger.Log, manager *JWTManager, uRepo userRepo, tRepo tokenRepo) *AuthService {
	return &AuthService{
		log:        l,
		jwtManager: manager,
		userRepo:   uRepo,
		tokenRepo:  tRepo,
	}
}

// Login authenticates by email. A deactivated or deleted account fails with
// ErrAccountDeactivated even when the password is correct.
func (u *AuthService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error) {
	user, err := u.userRepo.UserByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}

	if !checkPasswordHash(password, user.Password) {
		return "", "", app_errors.ErrIncorrectPassword
	}
	if !user.IsActive() {
		return "", "", app_errors.ErrAccountDeactivated
	}

	tokenPair, err := u.jwtManager.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return "", "", err
	}

	if err := u.tokenRepo.DeleteUserTokens(ctx, user.ID); err != nil {
		return "", "", err
	}
	if _, err := u.tokenRepo.Create(ctx, user.ID, tokenPair.RefreshToken); err != nil {
		return "", "", err
	}

	return tokenPair.AccessToken.Raw, tokenPair.RefreshToken.Raw, nil
}

func (u *AuthService) RefreshTokens(ctx context.Context, token string) (*models.TokenPair, error) {
	curToken, err := u.jwtManager.Parse(token)
	if err != nil {
		return nil, err
	}
	if !u.jwtManager.TokenType(curToken, RefreshTokenType) {
		return nil, app_errors.ErrTokenNotFound
	}
	userIDStr, err := curToken.Claims.GetSubject()
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}
	tokenRecord, err := u.tokenRepo.ByPrimaryKey(ctx, userID, curToken)
	if err != nil {
		return nil, err
	}
	user, err := u.userRepo.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, app_errors.ErrAccountDeactivated
	}
	if tokenRecord.ExpiresAt.Before(time.Now()) {
		return nil, app_errors.ErrTokenExpired
	}
	tokenPair, err := u.jwtManager.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	if err := u.tokenRepo.DeleteUserTokens(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := u.tokenRepo.Create(ctx, user.ID, tokenPair.RefreshToken); err != nil {
		return nil, err
	}
	return tokenPair, nil
}

func (u *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return u.tokenRepo.DeleteUserTokens(ctx, userID)
}

func (u *AuthService) AccessClaims(ctx context.Context, token string) (userID uuid.UUID, role string, err error) {
	claims, err := u.jwtManager.AccessClaims(token)
	if err != nil {
		return uuid.Nil, "", err
	}
	return claims.UserID, claims.Role, nil
}

func (u *AuthService) User(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return u.userRepo.UserByID(ctx, id)
}

// RegisterEmployee creates an employee account. Admin-only at the transport
// layer; the service enforces the password policy and the employee role.
// An empty password means "generate one": the temporary password is returned
// so the admin can hand it to the employee.
func (u *AuthService) RegisterEmployee(ctx context.Context, user models.User, password string) (*models.User, string, error) {
	tempPassword := ""
	if password == "" {
		generated, err := generatePassword()
		if err != nil {
			return nil, "", err
		}
		password = generated
		tempPassword = generated
	}
	if len(password) < 6 || len(password) > 72 {
		return nil, "", app_errors.ErrIncorrectPassword
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, "", err
	}
	user.Password = hashed
	user.Role = models.EmployeeRole
	user.Status = models.UserActive

	created, err := u.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, "", err
	}
	u.log.Info("employee registered", "user_id", created.ID, "email", created.Email)
	return created, tempPassword, nil
}

func generatePassword() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// SeedAdmin makes sure the configured admin account exists. Reuses the
// existing row when the email is already taken.
func (u *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}
	_, err = u.userRepo.CreateUser(ctx, models.User{
		FirstName: "Admin",
		Username:  "admin",
		Email:     email,
		Role:      models.AdminRole,
		Password:  hashed,
		Status:    models.UserActive,
	})
	if errors.Is(err, app_errors.ErrUserExists) {
		return nil
	}
	return err
}

func (u *AuthService) UpdateProfile(ctx context.Context, user *models.User) error {
	return u.userRepo.UpdateProfile(ctx, user)
}

func (u *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if len(newPassword) < 6 || len(newPassword) > 72 {
		return app_errors.ErrIncorrectPassword
	}
	user, err := u.userRepo.UserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !checkPasswordHash(oldPassword, user.Password) {
		return app_errors.ErrIncorrectPassword
	}
	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := u.userRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		return err
	}
	// Old refresh tokens stop working once the password changes.
	return u.tokenRepo.DeleteUserTokens(ctx, userID)
}

// SetEmployeeStatus activates or deactivates an employee account. Admin
// accounts cannot be deactivated through this path.
func (u *AuthService) SetEmployeeStatus(ctx context.Context, id uuid.UUID, status string) error {
	user, err := u.userRepo.UserByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role != models.EmployeeRole {
		return app_errors.ErrNotEmployee
	}

	var deactivatedAt *time.Time
	if status != models.UserActive {
		now := time.Now().UTC()
		deactivatedAt = &now
	}
	if err := u.userRepo.SetStatus(ctx, id, status, deactivatedAt); err != nil {
		return err
	}
	if status != models.UserActive {
		// Kill live sessions for the deactivated account.
		if err := u.tokenRepo.DeleteUserTokens(ctx, id); err != nil {
			u.log.ErrorErr("failed to revoke tokens on deactivation", err, "user_id", id)
		}
	}
	return nil
}

func (u *AuthService) ListEmployees(ctx context.Context, status string, limit, offset int) ([]models.User, int, error) {
	return u.userRepo.ListByRole(ctx, models.EmployeeRole, status, limit, offset)
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
