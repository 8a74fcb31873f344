package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"library-catalog/internal/model"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) FindByLogin(ctx context.Context, login string) (model.User, error) {
	args := m.Called(ctx, login)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) ExistsByUsername(ctx context.Context, username string, excludeID string) (bool, error) {
	args := m.Called(ctx, username, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserStore) Create(ctx context.Context, u model.User, roleNames []string) (model.User, error) {
	args := m.Called(ctx, u, roleNames)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) Update(ctx context.Context, u model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	return m.Called(ctx, userID, passwordHash).Error(0)
}

func (m *mockUserStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserStore) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

type mockRoleStore struct{ mock.Mock }

func (m *mockRoleStore) List(ctx context.Context) ([]model.Role, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Role), args.Error(1)
}

func (m *mockRoleStore) FindByID(ctx context.Context, id int) (model.Role, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Role), args.Error(1)
}

func (m *mockRoleStore) ListForUser(ctx context.Context, userID string) ([]model.Role, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Role), args.Error(1)
}

func (m *mockRoleStore) NamesForUser(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockRoleStore) UserHasRole(ctx context.Context, userID string, roleID int) (bool, error) {
	args := m.Called(ctx, userID, roleID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRoleStore) Assign(ctx context.Context, userID string, roleID int) (bool, error) {
	args := m.Called(ctx, userID, roleID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRoleStore) Unassign(ctx context.Context, userID string, roleID int) error {
	return m.Called(ctx, userID, roleID).Error(0)
}

type mockAuthorStore struct{ mock.Mock }

func (m *mockAuthorStore) List(ctx context.Context) ([]model.Author, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Author), args.Error(1)
}

func (m *mockAuthorStore) FindByID(ctx context.Context, id int) (model.Author, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Author), args.Error(1)
}

func (m *mockAuthorStore) ExistingIDs(ctx context.Context, ids []int) ([]int, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]int), args.Error(1)
}

func (m *mockAuthorStore) Create(ctx context.Context, a model.Author) (model.Author, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(model.Author), args.Error(1)
}

func (m *mockAuthorStore) Update(ctx context.Context, a model.Author) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAuthorStore) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type mockPublisherStore struct{ mock.Mock }

func (m *mockPublisherStore) List(ctx context.Context) ([]model.Publisher, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Publisher), args.Error(1)
}

func (m *mockPublisherStore) FindByID(ctx context.Context, id int) (model.Publisher, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Publisher), args.Error(1)
}

func (m *mockPublisherStore) Exists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockPublisherStore) ExistsByName(ctx context.Context, name string, excludeID int) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockPublisherStore) Create(ctx context.Context, p model.Publisher) (model.Publisher, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Publisher), args.Error(1)
}

func (m *mockPublisherStore) Update(ctx context.Context, p model.Publisher) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPublisherStore) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type mockBookStore struct{ mock.Mock }

func (m *mockBookStore) List(ctx context.Context) ([]model.Book, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Book), args.Error(1)
}

func (m *mockBookStore) FindByID(ctx context.Context, id int) (model.Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Book), args.Error(1)
}

func (m *mockBookStore) ExistsByISBN(ctx context.Context, isbn string, excludeID int) (bool, error) {
	args := m.Called(ctx, isbn, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookStore) Create(ctx context.Context, b model.Book, authorIDs []int) (model.Book, error) {
	args := m.Called(ctx, b, authorIDs)
	return args.Get(0).(model.Book), args.Error(1)
}

func (m *mockBookStore) Update(ctx context.Context, b model.Book, authorIDs []int, replaceAuthors bool) (model.Book, error) {
	args := m.Called(ctx, b, authorIDs, replaceAuthors)
	return args.Get(0).(model.Book), args.Error(1)
}

func (m *mockBookStore) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

type mockBlacklistStore struct{ mock.Mock }

func (m *mockBlacklistStore) Insert(ctx context.Context, jti string) error {
	return m.Called(ctx, jti).Error(0)
}

func (m *mockBlacklistStore) Exists(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

type mockAuditStore struct{ mock.Mock }

func (m *mockAuditStore) Log(ctx context.Context, entry model.AuditEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockAuditStore) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]model.AuditEntry), args.Get(1).(model.Meta), args.Error(2)
}

// fakeHasher stores "hashed:" + plaintext.
type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }

func (fakeHasher) Verify(plaintext string, hash string) bool { return hash == "hashed:"+plaintext }
