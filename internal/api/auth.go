package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mentor-backend/internal/auth"
	"mentor-backend/internal/sheets"
	"mentor-backend/pkg/api"
)

// AuthService owns credential issuance: registration against the remote user
// store and login producing a bearer token.
type AuthService struct {
	users  *sheets.Users
	issuer *auth.Issuer
}

func NewAuthService(users *sheets.Users, issuer *auth.Issuer) *AuthService {
	return &AuthService{users: users, issuer: issuer}
}

func (s *AuthService) AddRoutes(r chi.Router) {
	r.Post("/register", RestHandler(s.Register))
	r.Post("/login", RestHandler(s.Login))
}

func (s *AuthService) Register(r *http.Request) (any, error) {
	req, err := ParseRequest[api.RegisterRequest](r)
	if err != nil {
		return nil, err
	}

	email := auth.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "email and password are required")
	}

	ctx := r.Context()

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		slog.Error("user store lookup failed during registration", "error", err)
		return nil, CodedErrorf(http.StatusServiceUnavailable, "user store unavailable")
	}
	if existing != nil {
		return nil, CodedErrorf(http.StatusConflict, "user already exists")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("error hashing password", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "registration failed")
	}

	record := sheets.UserRecord{Name: req.Name, Email: email, PasswordHash: hash}
	if err := s.users.Create(ctx, record); err != nil {
		slog.Error("user store append failed during registration", "error", err)
		return nil, CodedErrorf(http.StatusServiceUnavailable, "user store unavailable")
	}

	slog.Info("registered user", "email", email)
	return api.RegisterResponse{
		Message: "Registration successful",
		User:    api.UserInfo{Name: req.Name, Email: email},
	}, nil
}

func (s *AuthService) Login(r *http.Request) (any, error) {
	req, err := ParseRequest[api.LoginRequest](r)
	if err != nil {
		return nil, err
	}

	email := auth.NormalizeEmail(req.Email)
	ctx := r.Context()

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		slog.Error("user store lookup failed during login", "error", err)
		return nil, CodedErrorf(http.StatusServiceUnavailable, "user store unavailable")
	}

	// identical response for unknown email and wrong password
	if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, CodedErrorf(http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := s.issuer.Issue(email)
	if err != nil {
		slog.Error("error issuing token", "error", err)
		return nil, CodedErrorf(http.StatusInternalServerError, "login failed")
	}

	return api.LoginResponse{
		Message: "Login successful",
		Token:   token,
		User:    api.UserInfo{Name: user.Name, Email: email},
	}, nil
}
