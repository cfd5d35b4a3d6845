package repository

import (
	"strings"
	"time"

	"checar/models"

	"github.com/jinzhu/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) FindByID(id int64) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("email = ?", strings.ToLower(email)).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) ExistsEmail(email string) (bool, error) {
	var count int
	err := r.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) UpdateFields(id int64, fields map[string]any) error {
	return r.db.Model(&models.User{ID: id}).Updates(fields).Error
}

func (r *UserRepository) SetAtivo(id int64, ativo bool) error {
	return r.UpdateFields(id, map[string]any{"ativo": ativo})
}

func (r *UserRepository) TouchLogin(id int64, now time.Time) error {
	return r.UpdateFields(id, map[string]any{"ultimo_login": now})
}
