package userservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrNotFound          = errors.New("user not found")
)

func NewUserModel(db *sql.DB) *UserModel {
	return &UserModel{db: db}
}

func (m *UserModel) Insert(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (username, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	args := []any{
		u.Username,
		u.Name,
		u.Email,
		u.Password.hash,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		switch {
		case common.UniqueViolation(err, "users_username_key"):
			return ErrDuplicateUsername
		default:
			return err
		}
	}

	u.BlogIDs = []uuid.UUID{}
	u.Blogs = []BlogSummary{}

	return nil
}

func (m *UserModel) getBy(ctx context.Context, column string, value any) (*User, error) {
	query := fmt.Sprintf(`
		SELECT id, username, name, email, password_hash, blogs, created_at
		FROM users
		WHERE %s = $1`, column)

	var (
		u     User
		blogs pq.StringArray
	)

	err := m.db.QueryRowContext(ctx, query, value).Scan(
		&u.ID,
		&u.Username,
		&u.Name,
		&u.Email,
		&u.Password.hash,
		&blogs,
		&u.CreatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrNotFound
		default:
			return nil, err
		}
	}

	u.BlogIDs, err = parseIDs(blogs)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (m *UserModel) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return m.getBy(ctx, "id", id)
}

func (m *UserModel) GetByUsername(ctx context.Context, username string) (*User, error) {
	return m.getBy(ctx, "username", username)
}

// GetAll returns every user in creation order. Blogs follow the order of the owner list;
// ids left behind by a failed removal are skipped.
func (m *UserModel) GetAll(ctx context.Context) ([]User, error) {
	query := `
		SELECT u.id, u.username, u.name, b.id, b.title, b.author, b.url, b.likes
		FROM users u
		LEFT JOIN LATERAL unnest(u.blogs) WITH ORDINALITY AS ub(blog_id, ord) ON true
		LEFT JOIN blogs b ON b.id = ub.blog_id
		ORDER BY u.created_at, u.id, ub.ord`

	rows, err := m.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var (
			id       uuid.UUID
			username string
			name     string
			blogID   uuid.NullUUID
			title    sql.NullString
			author   sql.NullString
			url      sql.NullString
			likes    sql.NullInt64
		)

		err := rows.Scan(&id, &username, &name, &blogID, &title, &author, &url, &likes)
		if err != nil {
			return nil, err
		}

		if len(users) == 0 || users[len(users)-1].ID != id {
			users = append(users, User{ID: id, Username: username, Name: name, BlogIDs: []uuid.UUID{}, Blogs: []BlogSummary{}})
		}

		if !blogID.Valid {
			continue
		}

		u := &users[len(users)-1]
		u.BlogIDs = append(u.BlogIDs, blogID.UUID)
		u.Blogs = append(u.Blogs, BlogSummary{
			ID:     blogID.UUID,
			Title:  title.String,
			Author: author.String,
			URL:    url.String,
			Likes:  int(likes.Int64),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (m *UserModel) AppendBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	query := `
		UPDATE users
		SET blogs = array_append(blogs, $1)
		WHERE id = $2`

	return m.updateBlogs(ctx, query, userID, blogID)
}

func (m *UserModel) RemoveBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	query := `
		UPDATE users
		SET blogs = array_remove(blogs, $1)
		WHERE id = $2`

	return m.updateBlogs(ctx, query, userID, blogID)
}

func (m *UserModel) updateBlogs(ctx context.Context, query string, userID, blogID uuid.UUID) error {
	res, err := m.db.ExecContext(ctx, query, blogID, userID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func parseIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("invalid blog id %q in owner list: %w", v, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
