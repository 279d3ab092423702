package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/Dayavats/samvaad/internal/audit"
	"github.com/Dayavats/samvaad/internal/auth"
	"github.com/Dayavats/samvaad/internal/domain"
	"github.com/Dayavats/samvaad/internal/repository"
)

type userService struct {
	users  repository.UserRepository
	tokens *auth.Manager
}

// NewUserService wires the identity gate.
func NewUserService(users repository.UserRepository, tokens *auth.Manager) UserService {
	return &userService{users: users, tokens: tokens}
}

// Register creates an account and returns a signed token for it.
func (s *userService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	if !domain.ValidRole(req.Role) || req.Role == domain.RoleAdmin {
		return nil, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(user.ID, user.Name, user.Role)
	if err != nil {
		return nil, err
	}

	audit.Log(ctx, audit.ActionRegister, user.ID, "user registered")
	return &domain.AuthResponse{Token: token, User: user.ToResponse()}, nil
}

// Login verifies credentials and returns a fresh token. Banned
// accounts are rejected even with a correct password.
func (s *userService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		audit.Log(ctx, audit.ActionLoginFailed, "", "login failed: unknown email")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		audit.Log(ctx, audit.ActionLoginFailed, user.ID, "login failed: bad password")
		return nil, ErrInvalidCredentials
	}
	if user.Banned {
		audit.Log(ctx, audit.ActionLoginFailed, user.ID, "login failed: banned")
		return nil, ErrBanned
	}

	token, err := s.tokens.Generate(user.ID, user.Name, user.Role)
	if err != nil {
		return nil, err
	}

	audit.Log(ctx, audit.ActionLogin, user.ID, "user logged in")
	return &domain.AuthResponse{Token: token, User: user.ToResponse()}, nil
}

func (s *userService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile changes the caller's display name and/or password.
// Empty fields are left untouched.
func (s *userService) UpdateProfile(ctx context.Context, userID string, req *domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListPeers returns every other member the caller could start a
// conversation with.
func (s *userService) ListPeers(ctx context.Context, userID string) ([]domain.UserResponse, error) {
	users, err := s.users.ListExcept(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, domain.UserResponse{
			ID:   users[i].ID,
			Name: users[i].Name,
			Role: users[i].Role,
		})
	}
	return out, nil
}

// SetRole changes a member's role. Admin-only; the handler enforces
// the caller's privilege.
func (s *userService) SetRole(ctx context.Context, targetID, role string) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	user, err := s.users.SetRole(ctx, targetID, role)
	if err != nil {
		return nil, err
	}
	audit.LogWithTarget(ctx, audit.ActionRoleChange, "", targetID, "role changed to "+role)
	return user, nil
}

// SetBanned toggles the ban flag. A banned member cannot log in or
// authenticate a channel; existing tokens die at the next gate.
func (s *userService) SetBanned(ctx context.Context, targetID string, banned bool) (*domain.User, error) {
	user, err := s.users.SetBanned(ctx, targetID, banned)
	if err != nil {
		return nil, err
	}
	if banned {
		audit.LogWithTarget(ctx, audit.ActionBan, "", targetID, "user banned")
	} else {
		audit.LogWithTarget(ctx, audit.ActionBan, "", targetID, "user unbanned")
	}
	return user, nil
}
