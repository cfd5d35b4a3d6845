package repository

import (
	"checar/models"
	"checar/pagination"

	"github.com/jinzhu/gorm"
)

type RecomendacaoFiltros struct {
	ClienteID  int64
	VeiculoID  int64
	RevisaoID  int64
	Status     models.StatusRecomendacao
	Prioridade models.Prioridade
}

var recomendacaoSort = map[string]string{
	"prioridade":    "prioridade",
	"status":        "status",
	"custoEstimado": "custo_estimado",
	"createdAt":     "created_at",
}

type RecomendacaoRepository struct {
	db *gorm.DB
}

func NewRecomendacaoRepository(database *gorm.DB) *RecomendacaoRepository {
	return &RecomendacaoRepository{db: database}
}

func (r *RecomendacaoRepository) WithTx(tx *gorm.DB) *RecomendacaoRepository {
	return &RecomendacaoRepository{db: tx}
}

func (r *RecomendacaoRepository) List(params pagination.Params, f RecomendacaoFiltros) (pagination.Result[models.Recomendacao], error) {
	q := r.db.Model(&models.Recomendacao{})
	if f.ClienteID > 0 {
		q = q.Where("cliente_id = ?", f.ClienteID)
	}
	if f.VeiculoID > 0 {
		q = q.Where("veiculo_id = ?", f.VeiculoID)
	}
	if f.RevisaoID > 0 {
		q = q.Where("revisao_id = ?", f.RevisaoID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Prioridade != "" {
		q = q.Where("prioridade = ?", f.Prioridade)
	}
	return pagination.Paginate[models.Recomendacao](q, params, params.OrderClause(recomendacaoSort, "created_at"))
}

func (r *RecomendacaoRepository) FindByID(id int64) (*models.Recomendacao, error) {
	var rec models.Recomendacao
	if err := r.db.First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RecomendacaoRepository) Create(rec *models.Recomendacao) error {
	return r.db.Create(rec).Error
}

func (r *RecomendacaoRepository) UpdateFields(id int64, fields map[string]any) error {
	return r.db.Model(&models.Recomendacao{ID: id}).Updates(fields).Error
}
