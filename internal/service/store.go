package service

import (
	"context"
	"time"

	"library-catalog/internal/model"
)

// Storage contracts implemented by the repository package.

type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByLogin(ctx context.Context, login string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string, excludeID string) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	Create(ctx context.Context, u model.User, roleNames []string) (model.User, error)
	Update(ctx context.Context, u model.User) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.User, error)
}

type RoleStore interface {
	List(ctx context.Context) ([]model.Role, error)
	FindByID(ctx context.Context, id int) (model.Role, error)
	ListForUser(ctx context.Context, userID string) ([]model.Role, error)
	NamesForUser(ctx context.Context, userID string) ([]string, error)
	UserHasRole(ctx context.Context, userID string, roleID int) (bool, error)
	Assign(ctx context.Context, userID string, roleID int) (bool, error)
	Unassign(ctx context.Context, userID string, roleID int) error
}

type AuthorStore interface {
	List(ctx context.Context) ([]model.Author, error)
	FindByID(ctx context.Context, id int) (model.Author, error)
	ExistingIDs(ctx context.Context, ids []int) ([]int, error)
	Create(ctx context.Context, a model.Author) (model.Author, error)
	Update(ctx context.Context, a model.Author) error
	Delete(ctx context.Context, id int) error
}

type PublisherStore interface {
	List(ctx context.Context) ([]model.Publisher, error)
	FindByID(ctx context.Context, id int) (model.Publisher, error)
	Exists(ctx context.Context, id int) (bool, error)
	ExistsByName(ctx context.Context, name string, excludeID int) (bool, error)
	Create(ctx context.Context, p model.Publisher) (model.Publisher, error)
	Update(ctx context.Context, p model.Publisher) error
	Delete(ctx context.Context, id int) error
}

type BookStore interface {
	List(ctx context.Context) ([]model.Book, error)
	FindByID(ctx context.Context, id int) (model.Book, error)
	ExistsByISBN(ctx context.Context, isbn string, excludeID int) (bool, error)
	Create(ctx context.Context, b model.Book, authorIDs []int) (model.Book, error)
	Update(ctx context.Context, b model.Book, authorIDs []int, replaceAuthors bool) (model.Book, error)
	Delete(ctx context.Context, id int) error
}

type BlacklistStore interface {
	Insert(ctx context.Context, jti string) error
	Exists(ctx context.Context, jti string) (bool, error)
}

type AuditStore interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error)
}

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext string, hash string) bool
}

type TokenIssuer interface {
	IssuePair(userID string) (model.TokenPair, error)
	IssueAccessToken(userID string, refreshJTI string, extra map[string]any) (string, string, time.Time, error)
	AccessTTL() time.Duration
}
