package userservice

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sushihentaime/bloglist/internal/common"
)

const (
	DefaultTokenTTL time.Duration = time.Hour
	DefaultIssuer                 = "bloglist"
)

type UserService struct {
	m      UserStore
	mb     common.MessageProducer
	c      *common.Cache
	tokens *TokenManager
	logger *slog.Logger
}

// UserStore persists users and the ordered list of blogs each one owns.
type UserStore interface {
	Insert(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	// GetAll returns every user with Blogs populated.
	GetAll(ctx context.Context) ([]User, error)
	AppendBlog(ctx context.Context, userID, blogID uuid.UUID) error
	RemoveBlog(ctx context.Context, userID, blogID uuid.UUID) error
}

type UserModel struct {
	db *sql.DB
}

type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
	Email    string    `json:"-"`
	Password Password  `json:"-"`
	// BlogIDs is the owner list in the order blogs were created.
	BlogIDs   []uuid.UUID   `json:"-"`
	Blogs     []BlogSummary `json:"blogs"`
	CreatedAt time.Time     `json:"-"`
}

// BlogSummary is the part of a blog shown in a user listing.
type BlogSummary struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	URL    string    `json:"url"`
	Likes  int       `json:"likes"`
}

// Password only ever holds the bcrypt hash.
type Password struct {
	hash []byte
}

type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type CreateUserRequest struct {
	Username string
	Name     string
	Email    string
	Password string
}
