package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/hengshui-vocab/internal/domain"
	"github.com/heartmarshall/hengshui-vocab/internal/store"
)

// mapError converts pgx errors to store and domain errors.
// Context cancellation passes through unchanged.
func mapError(err error, op, name string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s document %q: %w", op, name, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s document %q: %w", op, name, store.ErrNoDocument)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s document %q: %w", op, name, domain.ErrAlreadyExists)
		case "22P02", "22032": // invalid_text_representation, invalid_json_text
			return fmt.Errorf("%s document %q: %w", op, name, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s document %q: %w", op, name, err)
}
