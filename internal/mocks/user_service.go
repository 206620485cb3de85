package mocks

import (
	"context"

	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/service"
)

// MockUserService implements service.UserService for testing
type MockUserService struct {
	SignUpFn    func(ctx context.Context, input service.SignUpInput) (*service.AuthResult, error)
	LoginFn     func(ctx context.Context, email, password string) (*service.AuthResult, error)
	ListUsersFn func(ctx context.Context) ([]*domain.User, error)

	// SignUpInputs records every sign-up attempt
	SignUpInputs []service.SignUpInput
}

// SignUp implements the service.UserService interface
func (m *MockUserService) SignUp(ctx context.Context, input service.SignUpInput) (*service.AuthResult, error) {
	m.SignUpInputs = append(m.SignUpInputs, input)
	if m.SignUpFn != nil {
		return m.SignUpFn(ctx, input)
	}
	return nil, nil
}

// Login implements the service.UserService interface
func (m *MockUserService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, password)
	}
	return nil, nil
}

// ListUsers implements the service.UserService interface
func (m *MockUserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx)
	}
	return []*domain.User{}, nil
}
