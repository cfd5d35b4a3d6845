package db

import (
	"fmt"
	"os"
	"path/filepath"

	"checar/config"
	"checar/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	log "github.com/sirupsen/logrus"
)

// Connect abre conexão com o banco configurado (sqlite3 por padrão).
// Com AutoMigrate ligado, cria/atualiza as tabelas na subida.
func Connect(conf config.Configuration) (*gorm.DB, error) {
	database := conf.Database
	if database == "" {
		database = "sqlite3"
	}

	var (
		db  *gorm.DB
		err error
	)

	if database == "postgres" || database == "postgresql" {
		log.Info("Utilizando conexão com o postgresql...")
		path := "host=" + conf.DbHost + " port=" + conf.DbPort
		path += " user=" + conf.DbUser + " dbname=" + conf.DbName
		path += " password=" + conf.DbPass
		db, err = gorm.Open("postgres", path)
	} else {
		log.Info("Utilizando conexão com o sqlite3...")
		file := conf.DbPath
		if file == "" {
			file = "db/database.db"
		}
		if dir := filepath.Dir(file); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("criando diretório do sqlite: %w", err)
			}
		}
		db, err = gorm.Open("sqlite3", file)
	}

	if err != nil {
		log.WithError(err).Error("Erro ao conectar no banco de dados")
		return nil, err
	}

	// Log SQL apenas em debug
	db.LogMode(log.IsLevelEnabled(log.DebugLevel))

	if conf.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Migrate cria/atualiza as tabelas de todos os modelos.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Cliente{},
		&models.Veiculo{},
		&models.Mecanico{},
		&models.Revisao{},
		&models.Recomendacao{},
		&models.HistoricoVeiculo{},
	).Error
	if err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// OpenInMemory abre um sqlite em memória já migrado. Usado nos testes.
// Uma única conexão: cada conexão nova em ":memory:" seria outro banco.
func OpenInMemory() (*gorm.DB, error) {
	db, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	db.DB().SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
