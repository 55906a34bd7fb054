// Package repository общие для postgres-репозиториев разборы ошибок драйвера.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	// повторный id заказа
	PgErrUniqueViolation = "23505"

	// id заказа не uuid: такой строки быть не может
	PgErrInvalidTextRepresentation = "22P02"
)

func IsPgErrorWithCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

// IsNoRow строки нет или ключ заведомо не может существовать.
func IsNoRow(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || IsPgErrorWithCode(err, PgErrInvalidTextRepresentation)
}
