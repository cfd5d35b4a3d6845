package db

import (
	"context"
	"errors"
	"testing"

	"checar/models"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestTransactionCommit(t *testing.T) {
	database := openTestDB(t)

	err := Transaction(context.Background(), database, func(tx *gorm.DB) error {
		return tx.Create(&models.Mecanico{Nome: "Ana", Email: "ana@oficina.com", Ativo: true}).Error
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, database.Model(&models.Mecanico{}).Count(&count).Error)
	assert.Equal(t, 1, count)
}

func TestTransactionRollbackOnError(t *testing.T) {
	database := openTestDB(t)
	boom := errors.New("boom")

	err := Transaction(context.Background(), database, func(tx *gorm.DB) error {
		if err := tx.Create(&models.Mecanico{Nome: "Ana", Email: "ana@oficina.com", Ativo: true}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, database.Model(&models.Mecanico{}).Count(&count).Error)
	assert.Equal(t, 0, count)
}

func TestTransactionCanceledContext(t *testing.T) {
	database := openTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := Transaction(ctx, database, func(tx *gorm.DB) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestIsUniqueViolation(t *testing.T) {
	database := openTestDB(t)

	require.NoError(t, database.Create(&models.Mecanico{Nome: "Ana", Email: "ana@oficina.com", Ativo: true}).Error)
	err := database.Create(&models.Mecanico{Nome: "Outra Ana", Email: "ana@oficina.com", Ativo: true}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("qualquer")))
}

func TestNullableUniqueColumnsDoNotConflict(t *testing.T) {
	database := openTestDB(t)

	require.NoError(t, database.Create(&models.Veiculo{ClienteID: 1, Marca: "Fiat", Modelo: "Uno", Ano: 2010, Placa: "AAA1111", Status: models.VeiculoAtivo}).Error)
	require.NoError(t, database.Create(&models.Veiculo{ClienteID: 1, Marca: "Fiat", Modelo: "Palio", Ano: 2012, Placa: "BBB2222", Status: models.VeiculoAtivo}).Error)
}

func TestIsNotFound(t *testing.T) {
	database := openTestDB(t)
	var m models.Mecanico
	err := database.First(&m, 99).Error
	assert.True(t, IsNotFound(err))
}
