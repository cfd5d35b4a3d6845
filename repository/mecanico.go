package repository

import (
	"checar/models"
	"checar/pagination"

	"github.com/jinzhu/gorm"
)

type MecanicoFiltros struct {
	Ativo  *bool
	Search string
}

var mecanicoSort = map[string]string{
	"nome":      "nome",
	"email":     "email",
	"createdAt": "created_at",
}

type MecanicoRepository struct {
	db *gorm.DB
}

func NewMecanicoRepository(database *gorm.DB) *MecanicoRepository {
	return &MecanicoRepository{db: database}
}

func (r *MecanicoRepository) WithTx(tx *gorm.DB) *MecanicoRepository {
	return &MecanicoRepository{db: tx}
}

func (r *MecanicoRepository) List(params pagination.Params, f MecanicoFiltros) (pagination.Result[models.Mecanico], error) {
	q := r.db.Model(&models.Mecanico{})
	if f.Ativo != nil {
		q = q.Where("ativo = ?", *f.Ativo)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("LOWER(nome) LIKE ? OR LOWER(email) LIKE ? OR LOWER(especialidades) LIKE ?", like, like, like)
	}
	return pagination.Paginate[models.Mecanico](q, params, params.OrderClause(mecanicoSort, "nome"))
}

func (r *MecanicoRepository) FindByID(id int64) (*models.Mecanico, error) {
	var m models.Mecanico
	if err := r.db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MecanicoRepository) ExistsEmail(email string, exceptID int64) (bool, error) {
	var count int
	err := r.db.Model(&models.Mecanico{}).Where("email = ? AND id <> ?", email, exceptID).Count(&count).Error
	return count > 0, err
}

func (r *MecanicoRepository) Create(m *models.Mecanico) error {
	return r.db.Create(m).Error
}

func (r *MecanicoRepository) UpdateFields(id int64, fields map[string]any) error {
	return r.db.Model(&models.Mecanico{ID: id}).Updates(fields).Error
}
