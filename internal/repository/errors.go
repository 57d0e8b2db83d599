// Package repository contains the MySQL data access code. Every repository
// takes a database.DBTX so it can run on the pool or inside a transaction.
// Missing rows surface as apperror NotFound values, duplicate keys as
// Conflict values.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/shop-backend/internal/apperror"
)

var (
	ErrUserNotFound    = apperror.NotFound("user not found")
	ErrTokenNotFound   = apperror.NotFound("token not found")
	ErrClientNotFound  = apperror.NotFound("client not found")
	ErrProductNotFound = apperror.NotFound("product not found")
	ErrOrderNotFound   = apperror.NotFound("order not found")
)

const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
)

// isDuplicate reports whether err is a unique-key violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// isReferenced reports whether err is a delete blocked by a foreign key.
func isReferenced(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlRowIsReferenced
}

// placeholders returns "?,?,?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func idArgs(ids []uint64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
