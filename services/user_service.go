package services

import (
	"asso-cms/models"
	"asso-cms/repositories"

	"golang.org/x/crypto/bcrypt"
)

// UserService is the admin-facing user management surface. Deletion is a
// soft delete: the active flag is cleared and the row retained.
type UserService interface {
	CreateUser(req models.CreateUserRequest) (*models.User, error)
	GetUser(id uint) (*models.User, error)
	GetUsers(params models.UserListParams) ([]*models.User, int64, error)
	UpdateUser(id uint, req models.UpdateUserRequest) (*models.User, error)
	DeleteUser(id uint) error
}

type userService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.ResetTokenRepository
}

func NewUserService(userRepo repositories.UserRepository, tokenRepo repositories.ResetTokenRepository) UserService {
	return &userService{userRepo: userRepo, tokenRepo: tokenRepo}
}

func (s *userService) CreateUser(req models.CreateUserRequest) (*models.User, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || !ValidEmail(email) {
		return nil, models.ErrorBadRequest{Message: "invalid email address"}
	}
	if len(req.Password) < minPasswordLen {
		return nil, models.ErrorBadRequest{Message: "password must be at least 6 characters"}
	}

	role := req.Role
	if role == "" {
		role = models.RoleEditor
	}
	if !role.Valid() {
		return nil, models.ErrorBadRequest{Message: "invalid role"}
	}

	existingUser, err := s.userRepo.GetByEmail(email)
	if err == nil && existingUser != nil {
		return nil, models.ErrorConflict{Message: "email already registered"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to hash password"}
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		Password:  string(hashed),
		Role:      role,
		Active:    true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, models.ErrorInternalServer{Message: "failed to create user"}
	}

	return user.Public(), nil
}

func (s *userService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, models.ErrorNotFound{Message: "user not found"}
	}
	return user.Public(), nil
}

func (s *userService) GetUsers(params models.UserListParams) ([]*models.User, int64, error) {
	users, total, err := s.userRepo.GetList(params)
	if err != nil {
		return nil, 0, models.ErrorInternalServer{Message: "failed to list users"}
	}

	out := make([]*models.User, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, total, nil
}

func (s *userService) UpdateUser(id uint, req models.UpdateUserRequest) (*models.User, error) {
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
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, models.ErrorBadRequest{Message: "invalid role"}
		}
		user.Role = *req.Role
	}
	if req.Active != nil {
		user.Active = *req.Active
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

func (s *userService) DeleteUser(id uint) error {
	if _, err := s.userRepo.GetByID(id); err != nil {
		return models.ErrorNotFound{Message: "user not found"}
	}

	if err := s.userRepo.Deactivate(id); err != nil {
		return models.ErrorInternalServer{Message: "failed to delete user"}
	}

	// A disabled account cannot use an outstanding reset link anyway, but
	// there is no reason to keep its tokens around.
	return s.tokenRepo.DeleteByUser(id)
}
