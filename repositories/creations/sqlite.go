package creations

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/sergiomvj/facemedia/clock"
	"github.com/sergiomvj/facemedia/entities"
	"github.com/sergiomvj/facemedia/repositories"
)

const insertCreationQuery string = `
INSERT INTO creations (id, owner_id, mode, prompt, negative_prompt, base_image_data, base_image_mime, base_image_name, blend_image_data, blend_image_mime, blend_image_name, aspect_ratio, result_type, result_src, result_text, style_preset, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`

const listByOwnerQuery string = `
SELECT id, owner_id, mode, prompt, negative_prompt, base_image_data, base_image_mime, base_image_name, blend_image_data, blend_image_mime, blend_image_name, aspect_ratio, result_type, result_src, result_text, style_preset, created_at FROM creations WHERE owner_id = ? ORDER BY id DESC;
`

const deleteCreationQuery string = `
DELETE FROM creations WHERE id = ?;
`

type sqliteRepo struct {
	dbConn *sql.DB
	clock  clock.Clock

	// lastID guards against two inserts landing in the same clock
	// millisecond; ids must stay strictly increasing in-process.
	mu     sync.Mutex
	lastID int64
}

type Config struct {
	DB    *sql.DB
	Clock clock.Clock
}

func NewRepository(cfg *Config) (Repository, error) {
	if cfg.DB == nil {
		return nil, errors.New("missing DB parameter")
	}

	repoClock := cfg.Clock
	if repoClock == nil {
		repoClock = clock.NewClock()
	}

	newRepo := &sqliteRepo{
		dbConn: cfg.DB,
		clock:  repoClock,
	}

	return newRepo, nil
}

func (repo *sqliteRepo) nextID() int64 {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	id := repo.clock.Now().UnixMilli()
	if id <= repo.lastID {
		id = repo.lastID + 1
	}

	repo.lastID = id

	return id
}

func (repo *sqliteRepo) Create(ctx context.Context, creation *entities.Creation) (*entities.Creation, error) {
	creation.ID = repo.nextID()
	creation.CreatedAt = repo.clock.Now()

	baseImage := imageColumns(creation.BaseImage)
	blendImage := imageColumns(creation.BlendImage)

	_, err := repo.dbConn.ExecContext(ctx, insertCreationQuery,
		creation.ID, creation.OwnerID, creation.Mode, creation.Prompt,
		creation.NegativePrompt, baseImage.data, baseImage.mime, baseImage.name,
		blendImage.data, blendImage.mime, blendImage.name, creation.AspectRatio,
		creation.Result.Type, creation.Result.Src, creation.Result.Text,
		creation.StylePreset, creation.CreatedAt)
	if err != nil {
		return nil, repositories.NewWriteError("creation insert", err)
	}

	return creation, nil
}

func (repo *sqliteRepo) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Creation, error) {
	rows, err := repo.dbConn.QueryContext(ctx, listByOwnerQuery, ownerID)
	if err != nil {
		return nil, repositories.NewReadError("creation list", err)
	}

	defer rows.Close()

	results := make([]*entities.Creation, 0)

	for rows.Next() {
		var creation entities.Creation
		var baseImage, blendImage imageRow

		err = rows.Scan(&creation.ID, &creation.OwnerID, &creation.Mode,
			&creation.Prompt, &creation.NegativePrompt,
			&baseImage.data, &baseImage.mime, &baseImage.name,
			&blendImage.data, &blendImage.mime, &blendImage.name,
			&creation.AspectRatio, &creation.Result.Type, &creation.Result.Src,
			&creation.Result.Text, &creation.StylePreset, &creation.CreatedAt)
		if err != nil {
			return nil, repositories.NewReadError("creation scan", err)
		}

		creation.BaseImage = baseImage.toImageFile()
		creation.BlendImage = blendImage.toImageFile()

		results = append(results, &creation)
	}

	if err = rows.Err(); err != nil {
		return nil, repositories.NewReadError("creation list", err)
	}

	return results, nil
}

// Delete is idempotent: removing an id that is already gone is not an error.
func (repo *sqliteRepo) Delete(ctx context.Context, id int64) error {
	_, err := repo.dbConn.ExecContext(ctx, deleteCreationQuery, id)
	if err != nil {
		return repositories.NewWriteError("creation delete", err)
	}

	return nil
}

type imageRow struct {
	data string
	mime string
	name string
}

func imageColumns(image *entities.ImageFile) imageRow {
	if image == nil {
		return imageRow{}
	}

	return imageRow{data: image.Data, mime: image.MimeType, name: image.Name}
}

func (r imageRow) toImageFile() *entities.ImageFile {
	if r.data == "" && r.mime == "" && r.name == "" {
		return nil
	}

	return &entities.ImageFile{Data: r.data, MimeType: r.mime, Name: r.name}
}
