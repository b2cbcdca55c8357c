package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/sushihentaime/bloglist/internal/common"
)

var (
	ErrAuthenticationFailure = errors.New("invalid username or password")
)

// UserCreatedMessage is the payload published on user.created.
type UserCreatedMessage struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// NewUserService wires the store with the token manager. mb may be nil, in which
// case no user.created events are published.
func NewUserService(store UserStore, mb common.MessageProducer, cache *common.Cache, tokens *TokenManager, logger *slog.Logger) *UserService {
	return &UserService{
		m:      store,
		mb:     mb,
		c:      cache,
		tokens: tokens,
		logger: logger,
	}
}

// CreateUser registers a new account and publishes a user.created event when an email is present.
func (s *UserService) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	v := common.NewValidator()
	validateUsername(v, req.Username)
	validatePassword(v, req.Password)
	validateEmail(v, req.Email)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
	}

	err := u.Password.set(req.Password)
	if err != nil {
		return nil, err
	}

	err = s.m.Insert(ctx, &u)
	if err != nil {
		return nil, err
	}

	if s.mb != nil && u.Email != "" {
		s.publishUserCreated(ctx, &u)
	}

	return &u, nil
}

// publishUserCreated never fails the registration; the account already exists.
func (s *UserService) publishUserCreated(ctx context.Context, u *User) {
	data, err := json.Marshal(UserCreatedMessage{Email: u.Email, Username: u.Username, Name: u.Name})
	if err != nil {
		s.logger.Error("could not encode user.created", "user_id", u.ID, "error", err)
		return
	}

	err = s.mb.Publish(ctx, data, common.UserCreatedKey, common.UserExchange)
	if err != nil {
		s.logger.Warn("could not publish user.created", "user_id", u.ID, "error", err)
	}
}

// LoginUser checks the credentials and returns a signed access token.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrAuthenticationFailure
	}

	user, err := s.m.GetByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrAuthenticationFailure
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:    token,
		Username: user.Username,
		Name:     user.Name,
	}, nil
}

// GetUserByToken verifies token and resolves its subject.
func (s *UserService) GetUserByToken(ctx context.Context, token string) (*User, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	return s.GetUserByID(ctx, id)
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	key := common.CacheKeyUser(id)

	if cached, ok := s.c.Get(key); ok {
		u := cached.(User)
		return &u, nil
	}

	u, err := s.m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, *u)

	return u, nil
}

func (s *UserService) GetUsers(ctx context.Context) ([]User, error) {
	return s.m.GetAll(ctx)
}

// AddBlog appends blogID to the owner list of userID.
func (s *UserService) AddBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	err := s.m.AppendBlog(ctx, userID, blogID)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyUser(userID))

	return nil
}

// RemoveBlog pulls blogID from the owner list of userID.
func (s *UserService) RemoveBlog(ctx context.Context, userID, blogID uuid.UUID) error {
	err := s.m.RemoveBlog(ctx, userID, blogID)
	if err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyUser(userID))

	return nil
}
