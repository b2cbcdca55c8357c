package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrUserForeignKey = errors.New("user_id does not exist")
)

func NewBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

const selectBlogs = `
	SELECT b.id, b.title, b.author, b.url, b.likes, b.created_at, b.updated_at, u.id, u.username, u.name
	FROM blogs b
	LEFT JOIN users u ON b.user_id = u.id`

type scanner interface {
	Scan(dest ...any) error
}

// scanBlog reads one row of selectBlogs. The owner columns are null for blogs without a user.
func scanBlog(row scanner) (*Blog, error) {
	var (
		blog     Blog
		ownerID  uuid.NullUUID
		username sql.NullString
		name     sql.NullString
	)

	err := row.Scan(&blog.ID, &blog.Title, &blog.Author, &blog.URL, &blog.Likes, &blog.CreatedAt, &blog.UpdatedAt, &ownerID, &username, &name)
	if err != nil {
		return nil, err
	}

	if ownerID.Valid {
		blog.User = &Owner{ID: ownerID.UUID, Username: username.String, Name: name.String}
	}

	return &blog, nil
}

func (m *BlogModel) Insert(ctx context.Context, blog *Blog) error {
	query := `
		INSERT INTO blogs (title, author, url, likes, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	var owner uuid.NullUUID
	if blog.User != nil {
		owner = uuid.NullUUID{UUID: blog.User.ID, Valid: true}
	}

	err := m.db.QueryRowContext(ctx, query, blog.Title, blog.Author, blog.URL, blog.Likes, owner).Scan(&blog.ID, &blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "blogs_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) Get(ctx context.Context, id uuid.UUID) (*Blog, error) {
	query := selectBlogs + `
	WHERE b.id = $1`

	blog, err := scanBlog(m.db.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return blog, nil
}

// GetAll returns every blog in insertion order.
func (m *BlogModel) GetAll(ctx context.Context) ([]Blog, error) {
	query := selectBlogs + `
	ORDER BY b.created_at, b.id`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

// Update overwrites the content fields of a blog. The owner is never changed.
func (m *BlogModel) Update(ctx context.Context, blog *Blog) error {
	query := `
		UPDATE blogs
		SET title = $1, author = $2, url = $3, likes = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`

	err := m.db.QueryRowContext(ctx, query, blog.Title, blog.Author, blog.URL, blog.Likes, blog.ID).Scan(&blog.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1`

	res, err := m.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}
