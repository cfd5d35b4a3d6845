package repository

import (
	"checar/models"

	"github.com/jinzhu/gorm"
)

type HistoricoRepository struct {
	db *gorm.DB
}

func NewHistoricoRepository(database *gorm.DB) *HistoricoRepository {
	return &HistoricoRepository{db: database}
}

func (r *HistoricoRepository) WithTx(tx *gorm.DB) *HistoricoRepository {
	return &HistoricoRepository{db: tx}
}

func (r *HistoricoRepository) Create(h *models.HistoricoVeiculo) error {
	return r.db.Create(h).Error
}

// PorVeiculo devolve o histórico do veículo, mais recente primeiro.
func (r *HistoricoRepository) PorVeiculo(veiculoID int64) ([]models.HistoricoVeiculo, error) {
	list := []models.HistoricoVeiculo{}
	err := r.db.Where("veiculo_id = ?", veiculoID).Order("data DESC, id DESC").Find(&list).Error
	return list, err
}
