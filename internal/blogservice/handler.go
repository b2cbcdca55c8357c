package blogservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/sushihentaime/bloglist/internal/common"
)

func NewBlogService(store BlogStore, owners OwnerRegistry, cache *common.Cache) *BlogService {
	return &BlogService{m: store, owners: owners, c: cache}
}

type CreateBlogRequest struct {
	Title  string
	Author string
	URL    string
	// Likes defaults to zero when nil.
	Likes *int
	User  *Owner
}

type UpdateBlogRequest struct {
	Title  string
	Author string
	URL    string
	Likes  *int
}

func likesOrZero(likes *int) int {
	if likes == nil {
		return 0
	}
	return *likes
}

// CreateBlog validates and stores a new blog, then appends it to the owner's blog list.
// Nothing is written when validation fails.
func (s *BlogService) CreateBlog(ctx context.Context, req *CreateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateURL(v, req.URL)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := &Blog{
		Title:  sanitizeText(req.Title),
		Author: sanitizeText(req.Author),
		URL:    req.URL,
		Likes:  likesOrZero(req.Likes),
		User:   req.User,
	}

	if err := s.m.Insert(ctx, blog); err != nil {
		return nil, err
	}

	// The blog and the owner's list are two separate writes; a failure here leaves the
	// blog without an entry in the owner's list.
	if blog.User != nil {
		if err := s.owners.AddBlog(ctx, blog.User.ID, blog.ID); err != nil {
			return nil, err
		}
	}

	return blog, nil
}

// GetBlogs returns all blogs with their owners.
func (s *BlogService) GetBlogs(ctx context.Context) ([]Blog, error) {
	return s.m.GetAll(ctx)
}

// GetBlogByID returns a blog by its ID.
func (s *BlogService) GetBlogByID(ctx context.Context, id uuid.UUID) (*Blog, error) {
	key := common.CacheKeyBlog(id)
	if cached, ok := s.c.Get(key); ok {
		blog := *cached.(*Blog)
		return &blog, nil
	}

	blog, err := s.m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cached := *blog
	s.c.Set(key, &cached)

	return blog, nil
}

// UpdateBlog replaces the title, author, url and likes of a blog.
func (s *BlogService) UpdateBlog(ctx context.Context, id uuid.UUID, req *UpdateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateURL(v, req.URL)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog, err := s.GetBlogByID(ctx, id)
	if err != nil {
		return nil, err
	}

	blog.Title = sanitizeText(req.Title)
	blog.Author = sanitizeText(req.Author)
	blog.URL = req.URL
	blog.Likes = likesOrZero(req.Likes)

	err = s.m.Update(ctx, blog)
	s.c.Delete(common.CacheKeyBlog(id))
	if err != nil {
		return nil, err
	}

	return blog, nil
}

// DeleteBlog deletes a blog owned by userID. A blog owned by someone else is reported
// as ErrRecordNotFound.
func (s *BlogService) DeleteBlog(ctx context.Context, id, userID uuid.UUID) error {
	blog, err := s.GetBlogByID(ctx, id)
	if err != nil {
		return err
	}

	if blog.User == nil || blog.User.ID != userID {
		return ErrRecordNotFound
	}

	err = s.m.Delete(ctx, id)
	s.c.Delete(common.CacheKeyBlog(id))
	if err != nil {
		return err
	}

	return s.owners.RemoveBlog(ctx, userID, id)
}

// Stats summarizes every stored blog.
func (s *BlogService) Stats(ctx context.Context) (*Stats, error) {
	blogs, err := s.m.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	return Summarize(blogs), nil
}
