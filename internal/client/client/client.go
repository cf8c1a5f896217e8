package client

import (
	"context"

	"github.com/dmitrijs2005/newsreader/internal/client/models"
)

// AuthResult is what login and signup hand back on success.
type AuthResult struct {
	Token string
	User  *models.User
}

type SignupRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Firstname string  `json:"firstname"`
	Lastname  string  `json:"lastname"`
	Interests []int64 `json:"interests"`
}

// Client is the news backend contract. Methods marked bearer expect the
// token to be attached to ctx with WithAccessToken.
type Client interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Signup(ctx context.Context, req SignupRequest) (*AuthResult, error)
	ListInterests(ctx context.Context) ([]models.InterestCategory, error)

	// bearer
	MyInterests(ctx context.Context) ([]models.InterestCategory, error)
	ReplaceMyInterests(ctx context.Context, ids []int64) error
	News(ctx context.Context, category string) ([]models.Article, error)
	Bookmarks(ctx context.Context) ([]models.Article, error)
	AddBookmark(ctx context.Context, articleID int64) error
	RemoveBookmark(ctx context.Context, articleID int64) error
}
