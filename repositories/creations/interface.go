package creations

import (
	"context"

	"github.com/sergiomvj/facemedia/entities"
)

type Repository interface {
	Create(ctx context.Context, creation *entities.Creation) (*entities.Creation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*entities.Creation, error)
	Delete(ctx context.Context, id int64) error
}
