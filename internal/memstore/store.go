// Package memstore keeps blogs and users in process memory. It backs the
// handler tests and the server when STORE_DRIVER is "memory".
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type Store struct {
	mu    sync.RWMutex
	blogs []blogservice.Blog
	users []userservice.User
}

func New() *Store {
	return &Store{}
}

// Blogs returns the blogservice.BlogStore view of the store.
func (s *Store) Blogs() *BlogStore {
	return &BlogStore{s: s}
}

// Users returns the userservice.UserStore view of the store.
func (s *Store) Users() *UserStore {
	return &UserStore{s: s}
}

// Reset drops every record.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blogs = nil
	s.users = nil
}

func (s *Store) userIndex(id uuid.UUID) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) blogIndex(id uuid.UUID) int {
	for i := range s.blogs {
		if s.blogs[i].ID == id {
			return i
		}
	}
	return -1
}

func now() time.Time {
	return time.Now().UTC()
}

var (
	_ blogservice.BlogStore = (*BlogStore)(nil)
	_ userservice.UserStore = (*UserStore)(nil)
)

type BlogStore struct {
	s *Store
}

// populate copies b and fills in the owner's username and name.
func (bs *BlogStore) populate(b blogservice.Blog) blogservice.Blog {
	if b.User == nil {
		return b
	}

	owner := blogservice.Owner{ID: b.User.ID}
	if i := bs.s.userIndex(owner.ID); i >= 0 {
		owner.Username = bs.s.users[i].Username
		owner.Name = bs.s.users[i].Name
	}
	b.User = &owner

	return b
}

func (bs *BlogStore) Insert(_ context.Context, blog *blogservice.Blog) error {
	bs.s.mu.Lock()
	defer bs.s.mu.Unlock()

	stored := *blog
	if blog.User != nil {
		if bs.s.userIndex(blog.User.ID) < 0 {
			return blogservice.ErrUserForeignKey
		}
		stored.User = &blogservice.Owner{ID: blog.User.ID}
	}

	stored.ID = uuid.New()
	stored.CreatedAt = now()
	stored.UpdatedAt = stored.CreatedAt
	bs.s.blogs = append(bs.s.blogs, stored)

	blog.ID = stored.ID
	blog.CreatedAt = stored.CreatedAt
	blog.UpdatedAt = stored.UpdatedAt

	return nil
}

func (bs *BlogStore) Get(_ context.Context, id uuid.UUID) (*blogservice.Blog, error) {
	bs.s.mu.RLock()
	defer bs.s.mu.RUnlock()

	i := bs.s.blogIndex(id)
	if i < 0 {
		return nil, blogservice.ErrRecordNotFound
	}

	blog := bs.populate(bs.s.blogs[i])
	return &blog, nil
}

func (bs *BlogStore) GetAll(_ context.Context) ([]blogservice.Blog, error) {
	bs.s.mu.RLock()
	defer bs.s.mu.RUnlock()

	blogs := make([]blogservice.Blog, 0, len(bs.s.blogs))
	for _, b := range bs.s.blogs {
		blogs = append(blogs, bs.populate(b))
	}

	return blogs, nil
}

func (bs *BlogStore) Update(_ context.Context, blog *blogservice.Blog) error {
	bs.s.mu.Lock()
	defer bs.s.mu.Unlock()

	i := bs.s.blogIndex(blog.ID)
	if i < 0 {
		return blogservice.ErrRecordNotFound
	}

	stored := &bs.s.blogs[i]
	stored.Title = blog.Title
	stored.Author = blog.Author
	stored.URL = blog.URL
	stored.Likes = blog.Likes
	stored.UpdatedAt = now()
	blog.UpdatedAt = stored.UpdatedAt

	return nil
}

func (bs *BlogStore) Delete(_ context.Context, id uuid.UUID) error {
	bs.s.mu.Lock()
	defer bs.s.mu.Unlock()

	i := bs.s.blogIndex(id)
	if i < 0 {
		return blogservice.ErrRecordNotFound
	}

	bs.s.blogs = append(bs.s.blogs[:i], bs.s.blogs[i+1:]...)

	return nil
}

type UserStore struct {
	s *Store
}

func copyUser(u userservice.User) userservice.User {
	u.BlogIDs = append([]uuid.UUID{}, u.BlogIDs...)
	u.Blogs = []userservice.BlogSummary{}
	return u
}

func (us *UserStore) Insert(_ context.Context, u *userservice.User) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	for _, existing := range us.s.users {
		if existing.Username == u.Username {
			return userservice.ErrDuplicateUsername
		}
	}

	u.ID = uuid.New()
	u.CreatedAt = now()
	u.BlogIDs = []uuid.UUID{}
	u.Blogs = []userservice.BlogSummary{}
	us.s.users = append(us.s.users, copyUser(*u))

	return nil
}

func (us *UserStore) find(match func(u *userservice.User) bool) (*userservice.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()

	for i := range us.s.users {
		if match(&us.s.users[i]) {
			u := copyUser(us.s.users[i])
			return &u, nil
		}
	}

	return nil, userservice.ErrNotFound
}

func (us *UserStore) GetByID(_ context.Context, id uuid.UUID) (*userservice.User, error) {
	return us.find(func(u *userservice.User) bool { return u.ID == id })
}

func (us *UserStore) GetByUsername(_ context.Context, username string) (*userservice.User, error) {
	return us.find(func(u *userservice.User) bool { return u.Username == username })
}

// GetAll populates each user's blogs from the owner list. Ids of removed blogs are skipped.
func (us *UserStore) GetAll(_ context.Context) ([]userservice.User, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()

	users := make([]userservice.User, 0, len(us.s.users))
	for _, stored := range us.s.users {
		u := copyUser(stored)
		for _, id := range stored.BlogIDs {
			i := us.s.blogIndex(id)
			if i < 0 {
				continue
			}
			b := us.s.blogs[i]
			u.Blogs = append(u.Blogs, userservice.BlogSummary{ID: b.ID, Title: b.Title, Author: b.Author, URL: b.URL, Likes: b.Likes})
		}
		users = append(users, u)
	}

	return users, nil
}

func (us *UserStore) AppendBlog(_ context.Context, userID, blogID uuid.UUID) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	i := us.s.userIndex(userID)
	if i < 0 {
		return userservice.ErrNotFound
	}

	us.s.users[i].BlogIDs = append(us.s.users[i].BlogIDs, blogID)

	return nil
}

func (us *UserStore) RemoveBlog(_ context.Context, userID, blogID uuid.UUID) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()

	i := us.s.userIndex(userID)
	if i < 0 {
		return userservice.ErrNotFound
	}

	ids := make([]uuid.UUID, 0, len(us.s.users[i].BlogIDs))
	for _, id := range us.s.users[i].BlogIDs {
		if id != blogID {
			ids = append(ids, id)
		}
	}
	us.s.users[i].BlogIDs = ids

	return nil
}
