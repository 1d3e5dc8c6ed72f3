package sqlite

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

const dbFile string = "face_media_bot.sqlite"

const getCurrentMigration string = `PRAGMA user_version;`
const setCurrentMigration string = `PRAGMA user_version = ?;`

const createCreationsTableIfNotExistsQuery string = `
CREATE TABLE IF NOT EXISTS creations (
id INTEGER NOT NULL PRIMARY KEY,
owner_id TEXT NOT NULL,
mode TEXT NOT NULL,
prompt TEXT NOT NULL,
negative_prompt TEXT NOT NULL,
base_image_data TEXT NOT NULL,
base_image_mime TEXT NOT NULL,
base_image_name TEXT NOT NULL,
blend_image_data TEXT NOT NULL,
blend_image_mime TEXT NOT NULL,
blend_image_name TEXT NOT NULL,
aspect_ratio TEXT NOT NULL,
result_type TEXT NOT NULL,
result_src TEXT NOT NULL,
result_text TEXT NOT NULL,
created_at DATETIME NOT NULL
);`

const createOwnerIndexIfNotExistsQuery string = `
CREATE INDEX IF NOT EXISTS creation_owner_index
ON creations(owner_id);
`

const createPromptHistoriesTableIfNotExistsQuery string = `
CREATE TABLE IF NOT EXISTS prompt_histories (
history_key TEXT NOT NULL PRIMARY KEY,
entries TEXT NOT NULL
);`

const createUserSettingsTableIfNotExistsQuery string = `
CREATE TABLE IF NOT EXISTS user_settings (
member_id TEXT NOT NULL PRIMARY KEY,
aspect_ratio TEXT NOT NULL,
negative_prompt TEXT NOT NULL,
preferred_mode TEXT NOT NULL
);`

const addCreationStylePresetColumnQuery string = `
ALTER TABLE creations ADD COLUMN style_preset TEXT NOT NULL DEFAULT '';
`

type migration struct {
	migrationName  string
	migrationQuery string
}

var migrations = []migration{
	{migrationName: "create creations table", migrationQuery: createCreationsTableIfNotExistsQuery},
	{migrationName: "add creation owner index", migrationQuery: createOwnerIndexIfNotExistsQuery},
	{migrationName: "create prompt histories table", migrationQuery: createPromptHistoriesTableIfNotExistsQuery},
	{migrationName: "create user settings table", migrationQuery: createUserSettingsTableIfNotExistsQuery},
	{migrationName: "add creation style preset column", migrationQuery: addCreationStylePresetColumnQuery},
}

type Config struct {
	// Filename overrides the database file location. Empty means the default
	// file in the working directory.
	Filename string
}

var (
	openOnce sync.Once
	sharedDB *sql.DB
	openErr  error
)

// Open establishes the process-wide database handle, running any pending
// migrations exactly once. Concurrent callers converge on the same handle;
// the first error is returned to all of them.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	openOnce.Do(func() {
		sharedDB, openErr = New(ctx, cfg)
	})

	return sharedDB, openErr
}

// New opens and migrates a database without the process-wide cache. Tests use
// it directly with a temp file.
func New(ctx context.Context, cfg Config) (*sql.DB, error) {
	filename := cfg.Filename

	if filename == "" {
		defaultFilename, err := DBFilename()
		if err != nil {
			return nil, err
		}

		filename = defaultFilename
	}

	err := touchDBFile(filename)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return nil, err
	}

	err = migrate(ctx, db)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	var currentMigration int

	row := db.QueryRowContext(ctx, getCurrentMigration)

	err := row.Scan(&currentMigration)
	if err != nil {
		return err
	}

	requiredMigration := len(migrations)

	log.Printf("Current DB version: %v, required DB version: %v\n", currentMigration, requiredMigration)

	if currentMigration < requiredMigration {
		for migrationNum := currentMigration + 1; migrationNum <= requiredMigration; migrationNum++ {
			err = execMigration(ctx, db, migrationNum)
			if err != nil {
				log.Printf("Error running migration %v '%v'\n", migrationNum, migrations[migrationNum-1].migrationName)

				return err
			}
		}
	}

	return nil
}

func execMigration(ctx context.Context, db *sql.DB, migrationNum int) error {
	log.Printf("Running migration %v '%v'\n", migrationNum, migrations[migrationNum-1].migrationName)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	//nolint
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, migrations[migrationNum-1].migrationQuery)
	if err != nil {
		return err
	}

	setQuery := strings.Replace(setCurrentMigration, "?", strconv.Itoa(migrationNum), 1)

	_, err = tx.ExecContext(ctx, setQuery)
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return err
	}

	return nil
}

func DBFilename() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	return dir + "/" + dbFile, nil
}

func touchDBFile(filename string) error {
	_, err := os.Stat(filename)
	if os.IsNotExist(err) {
		file, createErr := os.Create(filename)
		if createErr != nil {
			return createErr
		}

		closeErr := file.Close()
		if closeErr != nil {
			return closeErr
		}
	}

	return nil
}
