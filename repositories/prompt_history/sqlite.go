package prompt_history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/sergiomvj/facemedia/repositories"
)

const upsertHistoryQuery string = `
INSERT OR REPLACE INTO prompt_histories (history_key, entries) VALUES (?, ?);
`

const getHistoryQuery string = `
SELECT entries FROM prompt_histories WHERE history_key = ?;
`

type sqliteRepo struct {
	dbConn *sql.DB

	// Lists are loaded once and served from memory; every mutation rewrites
	// the full serialized list.
	mu     sync.Mutex
	loaded map[string][]string
}

type Config struct {
	DB *sql.DB
}

func NewRepository(cfg *Config) (Repository, error) {
	if cfg.DB == nil {
		return nil, errors.New("missing DB parameter")
	}

	newRepo := &sqliteRepo{
		dbConn: cfg.DB,
		loaded: make(map[string][]string),
	}

	return newRepo, nil
}

func (repo *sqliteRepo) Record(ctx context.Context, key string, text string) ([]string, error) {
	trimmed := strings.TrimSpace(text)

	repo.mu.Lock()
	defer repo.mu.Unlock()

	entries, err := repo.getLocked(ctx, key)
	if err != nil {
		return nil, err
	}

	if trimmed == "" {
		return entries, nil
	}

	updated := record(entries, trimmed)

	serialized, err := json.Marshal(updated)
	if err != nil {
		return nil, repositories.NewWriteError("history serialize", err)
	}

	_, err = repo.dbConn.ExecContext(ctx, upsertHistoryQuery, key, string(serialized))
	if err != nil {
		return nil, repositories.NewWriteError("history upsert", err)
	}

	repo.loaded[key] = updated

	return updated, nil
}

func (repo *sqliteRepo) Get(ctx context.Context, key string) ([]string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	return repo.getLocked(ctx, key)
}

func (repo *sqliteRepo) getLocked(ctx context.Context, key string) ([]string, error) {
	if entries, ok := repo.loaded[key]; ok {
		return entries, nil
	}

	var serialized string

	err := repo.dbConn.QueryRowContext(ctx, getHistoryQuery, key).Scan(&serialized)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			repo.loaded[key] = []string{}

			return []string{}, nil
		}

		return nil, repositories.NewReadError("history get", err)
	}

	var entries []string

	err = json.Unmarshal([]byte(serialized), &entries)
	if err != nil {
		return nil, repositories.NewReadError("history decode", err)
	}

	repo.loaded[key] = entries

	return entries, nil
}

// record applies the recency-list update: drop any exact duplicate, prepend,
// cap at MaxEntries.
func record(entries []string, text string) []string {
	updated := make([]string, 0, len(entries)+1)
	updated = append(updated, text)

	for _, entry := range entries {
		if entry != text {
			updated = append(updated, entry)
		}
	}

	if len(updated) > MaxEntries {
		updated = updated[:MaxEntries]
	}

	return updated
}
