package blogservice

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sushihentaime/bloglist/internal/common"
)

type Blog struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	URL    string    `json:"url"`
	// Likes is not range checked; negative values are stored as given.
	Likes     int       `json:"likes"`
	User      *Owner    `json:"user"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Owner is the public subset of the user that created a blog.
type Owner struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Name     string    `json:"name"`
}

// BlogStore persists blogs. Get and GetAll populate the owner.
type BlogStore interface {
	Insert(ctx context.Context, blog *Blog) error
	Get(ctx context.Context, id uuid.UUID) (*Blog, error)
	GetAll(ctx context.Context) ([]Blog, error)
	Update(ctx context.Context, blog *Blog) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OwnerRegistry keeps the owner's list of blog ids in step with the blogs collection.
type OwnerRegistry interface {
	AddBlog(ctx context.Context, userID, blogID uuid.UUID) error
	RemoveBlog(ctx context.Context, userID, blogID uuid.UUID) error
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m      BlogStore
	owners OwnerRegistry
	c      *common.Cache
}
