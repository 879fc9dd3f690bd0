package services

import (
	"errors"
	"time"

	"asso-cms/config"
	"asso-cms/models"
	"asso-cms/repositories"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Failed logins take at least this long regardless of whether the account
// exists, so response timing does not enumerate accounts.
const minFailureDelay = 100 * time.Millisecond

const minPasswordLen = 6

type AuthService interface {
	Register(req models.RegisterRequest) (*models.AuthResponse, error)
	Login(req models.LoginRequest) (*models.AuthResponse, error)
	GetUserByID(id uint) (*models.User, error)
	UpdateProfile(id uint, req models.UpdateProfileRequest) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || !ValidEmail(email) {
		return nil, models.ErrorBadRequest{Message: "invalid email address"}
	}
	if len(req.Password) < minPasswordLen {
		return nil, models.ErrorBadRequest{Message: "password must be at least 6 characters"}
	}

	// Check if user already exists
	existingUser, err := s.userRepo.GetByEmail(email)
	if err == nil && existingUser != nil {
		return nil, models.ErrorConflict{Message: "email already registered"}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to hash password"}
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		Password:  string(hashedPassword),
		Role:      models.RoleEditor,
		Active:    true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to create user"}
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  user.Public(),
	}, nil
}

func (s *authService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, models.ErrorBadRequest{Message: "email and password are required"}
	}
	if !ValidEmail(email) {
		return nil, models.ErrorBadRequest{Message: "invalid email address"}
	}

	start := time.Now()

	user, err := s.userRepo.GetActiveByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sleepRemainder(start)
			return nil, models.ErrorUnauthorized{Message: "invalid credentials"}
		}
		return nil, models.ErrorInternalServer{Message: "failed to look up user"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		sleepRemainder(start)
		return nil, models.ErrorUnauthorized{Message: "invalid credentials"}
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  user.Public(),
	}, nil
}

func (s *authService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "user not found"}
	}
	return user.Public(), nil
}

// UpdateProfile applies a self-service edit. Role and active flag are not
// reachable from here.
func (s *authService) UpdateProfile(id uint, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "user not found"}
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.PhotoURL != nil {
		user.PhotoURL = *req.PhotoURL
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLen {
			return nil, models.ErrorBadRequest{Message: "password must be at least 6 characters"}
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.ErrorInternalServer{Message: "failed to hash password"}
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to update user"}
	}

	return user.Public(), nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	if err := config.CheckJWTSecret(); err != nil {
		return "", err
	}

	now := time.Now()

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"exp":     now.Add(config.JWTExpiration).Unix(),
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(config.JWTSecret)
	if err != nil {
		return "", models.ErrorInternalServer{Message: "failed to sign token"}
	}

	return signedToken, nil
}

func sleepRemainder(start time.Time) {
	if elapsed := time.Since(start); elapsed < minFailureDelay {
		time.Sleep(minFailureDelay - elapsed)
	}
}
