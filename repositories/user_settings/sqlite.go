package user_settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sergiomvj/facemedia/entities"
	"github.com/sergiomvj/facemedia/repositories"
)

const upsertSettingsQuery string = `
INSERT OR REPLACE INTO user_settings (member_id, aspect_ratio, negative_prompt, preferred_mode) VALUES (?, ?, ?, ?);
`

const getSettingsByMemberIDQuery string = `
SELECT member_id, aspect_ratio, negative_prompt, preferred_mode FROM user_settings WHERE member_id = ?;
`

type sqliteRepo struct {
	dbConn *sql.DB
}

type Config struct {
	DB *sql.DB
}

func NewRepository(cfg *Config) (Repository, error) {
	if cfg.DB == nil {
		return nil, errors.New("missing DB parameter")
	}

	return &sqliteRepo{dbConn: cfg.DB}, nil
}

func (repo *sqliteRepo) Upsert(ctx context.Context, settings *entities.UserSettings) (*entities.UserSettings, error) {
	_, err := repo.dbConn.ExecContext(ctx, upsertSettingsQuery,
		settings.MemberID, settings.AspectRatio, settings.NegativePrompt, settings.PreferredMode)
	if err != nil {
		return nil, repositories.NewWriteError("settings upsert", err)
	}

	return settings, nil
}

func (repo *sqliteRepo) GetByMemberID(ctx context.Context, memberID string) (*entities.UserSettings, error) {
	var settings entities.UserSettings

	err := repo.dbConn.QueryRowContext(ctx, getSettingsByMemberIDQuery, memberID).Scan(
		&settings.MemberID, &settings.AspectRatio, &settings.NegativePrompt, &settings.PreferredMode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.NewNotFoundError(fmt.Sprintf("settings for member ID %s", memberID))
		}

		return nil, repositories.NewReadError("settings get", err)
	}

	return &settings, nil
}
