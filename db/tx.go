package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jinzhu/gorm"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

// Transaction executa fn dentro de uma transação. Qualquer erro (ou panic)
// desfaz tudo; só faz commit quando fn retorna nil.
// Dentro de fn use sempre tx, nunca a conexão original.
func Transaction(ctx context.Context, database *gorm.DB, fn func(tx *gorm.DB) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := database.Begin()
	if tx.Error != nil {
		return fmt.Errorf("iniciando transação: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			log.WithError(rbErr).Warn("Falha no rollback")
		}
		return err
	}

	if err = ctx.Err(); err != nil {
		tx.Rollback()
		return err
	}

	if err = tx.Commit().Error; err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// IsUniqueViolation indica se err veio de uma constraint unique (postgres ou sqlite).
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// IsNotFound repassa a checagem de registro inexistente do gorm.
func IsNotFound(err error) bool {
	return gorm.IsRecordNotFoundError(err)
}
