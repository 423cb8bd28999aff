// Package sqlite implements the device's durable store as a single embedded
// SQLite file.
//
// Data lives in named partitions, each a two-column table mapping a key to a
// JSON value. The engine knows nothing about entity semantics; typed
// repositories in the subpackages layer meaning on top. Schema changes are
// strictly additive and run automatically on Open, so a database created by
// any earlier version upgrades in place.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	sq "github.com/Masterminds/squirrel"

	"curriculos/internal/config"
	"curriculos/internal/domain"

	_ "modernc.org/sqlite"
)

// Partition names. Every store operation addresses one of these.
const (
	PartPersonal       = "personal"
	PartSettings       = "settings"
	PartVagas          = "vagas"
	PartCurriculos     = "curriculos"
	PartExperiences    = "experiences"
	PartEducation      = "education"
	PartCertifications = "certifications"
	PartLanguages      = "languages"
)

// partition describes how one table is keyed.
type partition struct {
	table string
	// keyPath names the JSON field that holds the record key. Empty for
	// partitions keyed explicitly by the caller and for autoincrement ones.
	keyPath string
	// autoInc partitions use an INTEGER PRIMARY KEY AUTOINCREMENT id column.
	autoInc bool
}

func (p partition) keyColumn() string {
	if p.autoInc {
		return "id"
	}
	return "k"
}

var partitions = map[string]partition{
	PartPersonal:       {table: "personal"},
	PartSettings:       {table: "settings"},
	PartVagas:          {table: "vagas", keyPath: "uuid"},
	PartCurriculos:     {table: "curriculos", keyPath: "vaga_uuid"},
	PartExperiences:    {table: "experiences", autoInc: true},
	PartEducation:      {table: "education", autoInc: true},
	PartCertifications: {table: "certifications", autoInc: true},
	PartLanguages:      {table: "languages", autoInc: true},
}

// Engine is the partitioned key-value store over one SQLite database.
// Every operation runs in its own implicit transaction; there is no
// cross-partition atomicity.
type Engine struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (creating if needed) the database file, applies pragmas and
// pending migrations, and returns the ready engine. Safe to call against a
// database created by any earlier schema version.
func Open(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (*Engine, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		url.PathEscape(cfg.Path), cfg.BusyTimeout.Milliseconds(),
	)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single writer connection sidesteps SQLITE_BUSY between our own ops.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("store opened", "path", cfg.Path)
	return &Engine{db: db, log: log}, nil
}

// Close releases the underlying database handle.
func (e *Engine) Close() error { return e.db.Close() }

// Ping verifies the database is reachable.
func (e *Engine) Ping(ctx context.Context) error { return e.db.PingContext(ctx) }

// Get returns the raw JSON value stored under key, or (nil, nil) when the
// key is absent. Absence is not an error at this layer.
func (e *Engine) Get(ctx context.Context, part string, key any) (json.RawMessage, error) {
	p, err := lookup(part)
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Select("v").
		From(p.table).
		Where(sq.Eq{p.keyColumn(): key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get %s: %w", part, err)
	}

	var raw []byte
	err = e.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, part, key)
	}
	return raw, nil
}

// Put upserts value under its key. For partitions with a declared key path
// the key is read from the value itself and the key argument must be omitted;
// otherwise exactly one explicit key is required.
func (e *Engine) Put(ctx context.Context, part string, value json.RawMessage, key ...any) error {
	p, err := lookup(part)
	if err != nil {
		return err
	}

	k, err := resolveKey(p, value, key)
	if err != nil {
		return fmt.Errorf("put %s: %w", part, err)
	}

	col := p.keyColumn()
	query, args, err := sq.Insert(p.table).
		Columns(col, "v").
		Values(k, string(value)).
		Suffix(fmt.Sprintf("ON CONFLICT(%s) DO UPDATE SET v = excluded.v", col)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build put %s: %w", part, err)
	}

	if _, err := e.db.ExecContext(ctx, query, args...); err != nil {
		return mapError(err, part, k)
	}
	return nil
}

// Add inserts value into an autoincrement partition and returns the
// generated id. The id is also injected into the stored JSON so that reads
// and exports carry it without joining back to the key column.
func (e *Engine) Add(ctx context.Context, part string, value json.RawMessage) (int64, error) {
	p, err := lookup(part)
	if err != nil {
		return 0, err
	}
	if !p.autoInc {
		return 0, fmt.Errorf("add %s: partition has no generated keys", part)
	}

	query, args, err := sq.Insert(p.table).Columns("v").Values(string(value)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build add %s: %w", part, err)
	}

	res, err := e.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapError(err, part, nil)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("add %s: last insert id: %w", part, err)
	}

	withID, err := injectID(value, id)
	if err != nil {
		return 0, fmt.Errorf("add %s: %w", part, err)
	}
	if err := e.Put(ctx, part, withID, id); err != nil {
		return 0, err
	}
	return id, nil
}

// Delete removes the value under key. Deleting an absent key is a no-op.
func (e *Engine) Delete(ctx context.Context, part string, key any) error {
	p, err := lookup(part)
	if err != nil {
		return err
	}

	query, args, err := sq.Delete(p.table).Where(sq.Eq{p.keyColumn(): key}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s: %w", part, err)
	}

	if _, err := e.db.ExecContext(ctx, query, args...); err != nil {
		return mapError(err, part, key)
	}
	return nil
}

// ListAll returns every value in a partition in insertion order. Callers
// needing a domain ordering sort after decoding.
func (e *Engine) ListAll(ctx context.Context, part string) ([]json.RawMessage, error) {
	p, err := lookup(part)
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Select("v").From(p.table).OrderBy("rowid").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list %s: %w", part, err)
	}

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, part, nil)
	}
	defer rows.Close()

	values := []json.RawMessage{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", part, err)
		}
		values = append(values, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", part, err)
	}
	return values, nil
}

func lookup(part string) (partition, error) {
	p, ok := partitions[part]
	if !ok {
		return partition{}, fmt.Errorf("unknown partition %q", part)
	}
	return p, nil
}

// resolveKey picks the record key: explicit argument for externally keyed
// partitions, value field for key-path partitions.
func resolveKey(p partition, value json.RawMessage, key []any) (any, error) {
	if len(key) > 1 {
		return nil, fmt.Errorf("at most one key allowed, got %d", len(key))
	}

	if p.keyPath == "" {
		if len(key) == 0 {
			return nil, fmt.Errorf("explicit key required: %w", domain.ErrValidation)
		}
		return key[0], nil
	}

	if len(key) == 1 {
		return nil, fmt.Errorf("key is derived from field %q, not passed", p.keyPath)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(value, &fields); err != nil {
		return nil, fmt.Errorf("value is not a JSON object: %w", err)
	}
	var k string
	if err := json.Unmarshal(fields[p.keyPath], &k); err != nil || k == "" {
		return nil, fmt.Errorf("value has no usable %q key: %w", p.keyPath, domain.ErrValidation)
	}
	return k, nil
}

// injectID writes the generated id into the JSON object.
func injectID(value json.RawMessage, id int64) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(value, &fields); err != nil {
		return nil, fmt.Errorf("value is not a JSON object: %w", err)
	}
	fields["id"] = json.RawMessage(fmt.Sprintf("%d", id))
	out, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return out, nil
}
