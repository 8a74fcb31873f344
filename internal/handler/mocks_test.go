package handler

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"library-catalog/internal/model"
)

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, req model.LoginRequest) (model.TokenPair, model.User, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.TokenPair), args.Get(1).(model.User), args.Error(2)
}

func (m *mockAuthService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockAuthService) Refresh(ctx context.Context, claims *model.AuthClaims) (model.AccessToken, error) {
	args := m.Called(ctx, claims)
	return args.Get(0).(model.AccessToken), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, claims *model.AuthClaims) error {
	return m.Called(ctx, claims).Error(0)
}

func (m *mockAuthService) Me(ctx context.Context, userID string) (model.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(model.User), args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockUserService) Get(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserService) Create(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserService) Update(ctx context.Context, id string, patch model.UserPatch) (model.User, model.User, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(model.User), args.Get(1).(model.User), args.Error(2)
}

func (m *mockUserService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserService) AllRoles(ctx context.Context) ([]model.Role, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Role), args.Error(1)
}

func (m *mockUserService) Roles(ctx context.Context, userID string) ([]model.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Role), args.Error(1)
}

func (m *mockUserService) AssignRole(ctx context.Context, userID string, roleID int) ([]model.Role, bool, error) {
	args := m.Called(ctx, userID, roleID)
	return args.Get(0).([]model.Role), args.Bool(1), args.Error(2)
}

func (m *mockUserService) RemoveRole(ctx context.Context, userID string, roleID int) error {
	return m.Called(ctx, userID, roleID).Error(0)
}

type mockBookService struct{ mock.Mock }

func (m *mockBookService) List(ctx context.Context) ([]model.Book, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Book), args.Error(1)
}

func (m *mockBookService) Get(ctx context.Context, id int) (model.Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Book), args.Error(1)
}

func (m *mockBookService) Create(ctx context.Context, patch model.BookPatch) (model.Book, error) {
	args := m.Called(ctx, patch)
	return args.Get(0).(model.Book), args.Error(1)
}

func (m *mockBookService) Update(ctx context.Context, id int, patch model.BookPatch) (model.Book, model.Book, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(model.Book), args.Get(1).(model.Book), args.Error(2)
}

func (m *mockBookService) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type mockPublisherService struct{ mock.Mock }

func (m *mockPublisherService) List(ctx context.Context) ([]model.Publisher, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Publisher), args.Error(1)
}

func (m *mockPublisherService) Get(ctx context.Context, id int) (model.Publisher, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Publisher), args.Error(1)
}

func (m *mockPublisherService) Create(ctx context.Context, patch model.PublisherPatch) (model.Publisher, error) {
	args := m.Called(ctx, patch)
	return args.Get(0).(model.Publisher), args.Error(1)
}

func (m *mockPublisherService) Update(ctx context.Context, id int, patch model.PublisherPatch) (model.Publisher, model.Publisher, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(model.Publisher), args.Get(1).(model.Publisher), args.Error(2)
}

func (m *mockPublisherService) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type auditRecord struct {
	action   string
	actor    model.AuditActor
	status   string
	resource string
	errText  string
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []auditRecord
}

func (f *fakeAudit) Log(_ context.Context, action string, actor model.AuditActor, status string, resource string, _ any, _ any, errText string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, auditRecord{action: action, actor: actor, status: status, resource: resource, errText: errText})
}
