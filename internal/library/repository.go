package library

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"tomgalvin.uk/monobmp/bmp"
)

//go:embed schema.sql
var schema string

// maxBlobSize bounds decompressed blobs: the largest file a grid within
// bitmap.MaxPixels can encode to is a one pixel wide column, four bytes a row.
const maxBlobSize = 8 << 20

// Repository stores bitmaps as zstd-compressed BMP files in SQLite.
type Repository struct {
	Db      *sql.DB
	logger  *slog.Logger
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Open connects to the SQLite database at dsn and creates the schema if
// it is missing.
func Open(dsn string, logger *slog.Logger) (*Repository, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("Couldn't open database:\n%w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("Couldn't initialise database:\n%w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("Couldn't create compressor:\n%w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxBlobSize))
	if err != nil {
		encoder.Close()
		db.Close()
		return nil, fmt.Errorf("Couldn't create decompressor:\n%w", err)
	}

	return &Repository{
		Db:      db,
		logger:  logger.With("src", "library"),
		encoder: encoder,
		decoder: decoder,
	}, nil
}

func (r *Repository) Close() error {
	r.decoder.Close()
	return errors.Join(r.encoder.Close(), r.Db.Close())
}

// Create stores e, filling in its Id, and its Uuid and CreatedAt when unset.
func (r *Repository) Create(tx *sql.Tx, e *Entry) error {
	if e.Grid == nil {
		return errors.New("Entry has no bitmap")
	}
	if e.Uuid == uuid.Nil {
		e.Uuid = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	e.Width, e.Height = e.Grid.Width(), e.Grid.Height()

	var opts []bmp.Option
	if e.Inverted {
		opts = append(opts, bmp.WithInvertedPalette())
	}
	file, err := bmp.Marshal(e.Grid, opts...)
	if err != nil {
		return fmt.Errorf("Couldn't encode bitmap:\n%w", err)
	}
	blob := r.encoder.EncodeAll(file, nil)

	row := tx.QueryRow(`
		INSERT INTO bitmap(uuid, name, created_at, width, height, inverted, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		e.Uuid.String(), e.Name, e.CreatedAt.Format(time.RFC3339Nano), e.Width, e.Height, e.Inverted, blob)
	if err := row.Scan(&e.Id); err != nil {
		return fmt.Errorf("Failed to insert into bitmap:\n%w", err)
	}

	r.logger.Debug("Stored bitmap", "uuid", e.Uuid, "name", e.Name, "bytes", len(file), "compressed", len(blob))
	return nil
}

// Get returns the entry with the given UUID, or nil if there is none.
func (r *Repository) Get(u uuid.UUID) (*Entry, error) {
	row := r.Db.QueryRow(`
		SELECT id, name, created_at, width, height, inverted, data
		FROM bitmap
		WHERE uuid = ?`, u.String())

	e := Entry{Uuid: u}
	var createdAt string
	var blob []byte
	if err := row.Scan(&e.Id, &e.Name, &createdAt, &e.Width, &e.Height, &e.Inverted, &blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("Failed to read bitmap:\n%w", err)
	}
	if err := parseTime(createdAt, &e.CreatedAt); err != nil {
		return nil, err
	}

	file, err := r.decoder.DecodeAll(blob, nil)
	if err != nil {
		return nil, fmt.Errorf("Couldn't decompress bitmap %s:\n%w", u, err)
	}
	if e.Grid, err = bmp.Unmarshal(file); err != nil {
		return nil, fmt.Errorf("Couldn't decode bitmap %s:\n%w", u, err)
	}

	return &e, nil
}

// List returns every entry, oldest first, without pixel data.
func (r *Repository) List() ([]Entry, error) {
	rows, err := r.Db.Query(`
		SELECT id, uuid, name, created_at, width, height, inverted
		FROM bitmap
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("Query execution failed:\n%w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var uuidString, createdAt string
		if err := rows.Scan(&e.Id, &uuidString, &e.Name, &createdAt, &e.Width, &e.Height, &e.Inverted); err != nil {
			return nil, fmt.Errorf("Row scanning failed:\n%w", err)
		}
		if e.Uuid, err = uuid.Parse(uuidString); err != nil {
			return nil, fmt.Errorf("Bad UUID in row %d:\n%w", e.Id, err)
		}
		if err := parseTime(createdAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Error iterating rows:\n%w", err)
	}

	return entries, nil
}

// Delete removes the entry with the given UUID and reports whether it existed.
func (r *Repository) Delete(tx *sql.Tx, u uuid.UUID) (bool, error) {
	res, err := tx.Exec(`DELETE FROM bitmap WHERE uuid = ?`, u.String())
	if err != nil {
		return false, fmt.Errorf("Failed to delete bitmap:\n%w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Failed to count deleted rows:\n%w", err)
	}
	if n > 0 {
		r.logger.Debug("Deleted bitmap", "uuid", u)
	}
	return n > 0, nil
}

// Run operations in a transaction, committing afterward, or rolling back if the
// passed function returns an error
func (r *Repository) Transact(f func(*sql.Tx) error) error {
	tx, err := r.Db.Begin()
	if err != nil {
		return err
	}

	if err := f(tx); err != nil {
		if err2 := tx.Rollback(); err2 != nil {
			return fmt.Errorf("Failed to roll back transaction: %w\n\nAfter handling: %v", err2, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Failed to commit transaction:\n%w", err)
	}
	return nil
}

func parseTime(s string, t *time.Time) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("Bad timestamp %q:\n%w", s, err)
	}
	*t = parsed
	return nil
}
