package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/hengshui-vocab/internal/store"
)

const (
	documentsTable = "documents"
	backupsTable   = "document_backups"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// DocumentBackend keeps the vocabulary document as one JSONB row of the
// documents table.
type DocumentBackend struct {
	pool *pgxpool.Pool
	tx   *TxManager
	name string
}

// NewDocumentBackend returns a backend for the row called name.
func NewDocumentBackend(pool *pgxpool.Pool, name string) *DocumentBackend {
	return &DocumentBackend{pool: pool, tx: NewTxManager(pool), name: name}
}

func (b *DocumentBackend) Load(ctx context.Context) ([]byte, error) {
	return b.load(ctx, "load", false)
}

func (b *DocumentBackend) load(ctx context.Context, op string, lock bool) ([]byte, error) {
	query := psql.Select("data").
		From(documentsTable).
		Where(sq.Eq{"name": b.name})
	if lock {
		query = query.Suffix("FOR UPDATE")
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var data []byte
	if err := QuerierFromCtx(ctx, b.pool).QueryRow(ctx, sql, args...).Scan(&data); err != nil {
		return nil, mapError(err, op, b.name)
	}
	return data, nil
}

// Save upserts the document row.
func (b *DocumentBackend) Save(ctx context.Context, data []byte) error {
	sql, args, err := psql.Insert(documentsTable).
		Columns("name", "data", "updated_at").
		Values(b.name, data, sq.Expr("now()")).
		Suffix("ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build save query: %w", err)
	}

	if _, err := QuerierFromCtx(ctx, b.pool).Exec(ctx, sql, args...); err != nil {
		return mapError(err, "save", b.name)
	}
	return nil
}

// Backup copies the current row into document_backups under stamp.
func (b *DocumentBackend) Backup(ctx context.Context, stamp string) (string, error) {
	err := b.tx.RunInTx(ctx, func(ctx context.Context) error {
		data, err := b.load(ctx, "backup", true)
		if err != nil {
			return err
		}

		sql, args, err := psql.Insert(backupsTable).
			Columns("name", "stamp", "data").
			Values(b.name, stamp, data).
			ToSql()
		if err != nil {
			return fmt.Errorf("build backup query: %w", err)
		}
		if _, err := QuerierFromCtx(ctx, b.pool).Exec(ctx, sql, args...); err != nil {
			return mapError(err, "backup", b.name)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.backupLocation(stamp), nil
}

func (b *DocumentBackend) backupLocation(stamp string) string {
	return fmt.Sprintf("postgres:%s/%s@%s", backupsTable, b.name, stamp)
}

// Close releases the connection pool.
func (b *DocumentBackend) Close() error {
	b.pool.Close()
	return nil
}

func (b *DocumentBackend) Location() string {
	return fmt.Sprintf("postgres:%s/%s", documentsTable, b.name)
}

// Size reports the stored JSON size; a missing row has size zero.
func (b *DocumentBackend) Size(ctx context.Context) (int64, error) {
	sql, args, err := psql.Select("octet_length(data::text)").
		From(documentsTable).
		Where(sq.Eq{"name": b.name}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build size query: %w", err)
	}

	var size int64
	err = QuerierFromCtx(ctx, b.pool).QueryRow(ctx, sql, args...).Scan(&size)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, mapError(err, "size", b.name)
	}
	return size, nil
}

// Backups lists stored copies of the document, newest first.
func (b *DocumentBackend) Backups(ctx context.Context) ([]store.BackupInfo, error) {
	sql, args, err := psql.Select("stamp", "octet_length(data::text)", "created_at").
		From(backupsTable).
		Where(sq.Eq{"name": b.name}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build backups query: %w", err)
	}

	rows, err := QuerierFromCtx(ctx, b.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "list backups of", b.name)
	}

	backups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.BackupInfo, error) {
		var (
			bi    store.BackupInfo
			stamp string
		)
		err := row.Scan(&stamp, &bi.Size, &bi.CreatedAt)
		bi.Location = b.backupLocation(stamp)
		return bi, err
	})
	if err != nil {
		return nil, mapError(err, "list backups of", b.name)
	}
	return backups, nil
}
