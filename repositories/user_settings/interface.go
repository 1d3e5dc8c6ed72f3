package user_settings

import (
	"context"

	"github.com/sergiomvj/facemedia/entities"
)

type Repository interface {
	Upsert(ctx context.Context, settings *entities.UserSettings) (*entities.UserSettings, error)
	GetByMemberID(ctx context.Context, memberID string) (*entities.UserSettings, error)
}
