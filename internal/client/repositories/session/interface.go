package session

import (
	"context"

	"github.com/dmitrijs2005/newsreader/internal/client/models"
)

// Store is the durable home of the client session. Load on an empty store
// returns the zero Session and no error.
type Store interface {
	Load(ctx context.Context) (models.Session, error)
	Save(ctx context.Context, s models.Session) error
	Clear(ctx context.Context) error
}
