package repository

import (
	"time"

	"checar/models"

	"github.com/jinzhu/gorm"
)

type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(database *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: database}
}

func (r *RefreshTokenRepository) WithTx(tx *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: tx}
}

func (r *RefreshTokenRepository) Create(rt *models.RefreshToken) error {
	return r.db.Create(rt).Error
}

func (r *RefreshTokenRepository) FindByHash(hash string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := r.db.Where("token_hash = ?", hash).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// Revoke marca o token como revogado. Retorna false se já estava revogado.
func (r *RefreshTokenRepository) Revoke(id int64, now time.Time) (bool, error) {
	res := r.db.Model(&models.RefreshToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Updates(map[string]any{"revoked_at": now})
	return res.RowsAffected == 1, res.Error
}

func (r *RefreshTokenRepository) RevokeAllForUser(userID int64, now time.Time) error {
	return r.db.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Updates(map[string]any{"revoked_at": now}).Error
}
