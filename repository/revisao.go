package repository

import (
	"time"

	"checar/models"
	"checar/pagination"

	"github.com/jinzhu/gorm"
)

type RevisaoFiltros struct {
	ClienteID  int64
	VeiculoID  int64
	MecanicoID int64
	Status     models.StatusRevisao
	Tipo       models.TipoRevisao
	// intervalo sobre data_revisao
	DataInicio *time.Time
	DataFim    *time.Time
}

var revisaoSort = map[string]string{
	"dataRevisao":     "data_revisao",
	"dataAgendamento": "data_agendamento",
	"dataConclusao":   "data_conclusao",
	"status":          "status",
	"tipo":            "tipo",
	"valorTotal":      "valor_total",
	"createdAt":       "created_at",
}

// Contagem é uma linha de agrupamento (status ou tipo → total).
type Contagem struct {
	Chave string
	Total int64
}

type RevisaoRepository struct {
	db *gorm.DB
}

func NewRevisaoRepository(database *gorm.DB) *RevisaoRepository {
	return &RevisaoRepository{db: database}
}

func (r *RevisaoRepository) WithTx(tx *gorm.DB) *RevisaoRepository {
	return &RevisaoRepository{db: tx}
}

func (r *RevisaoRepository) withRelations() *gorm.DB {
	return r.db.Preload("Cliente").Preload("Veiculo").Preload("Mecanico")
}

func (r *RevisaoRepository) List(params pagination.Params, f RevisaoFiltros) (pagination.Result[models.Revisao], error) {
	q := r.withRelations().Model(&models.Revisao{})
	if f.ClienteID > 0 {
		q = q.Where("cliente_id = ?", f.ClienteID)
	}
	if f.VeiculoID > 0 {
		q = q.Where("veiculo_id = ?", f.VeiculoID)
	}
	if f.MecanicoID > 0 {
		q = q.Where("mecanico_id = ?", f.MecanicoID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Tipo != "" {
		q = q.Where("tipo = ?", f.Tipo)
	}
	if f.DataInicio != nil {
		q = q.Where("data_revisao >= ?", *f.DataInicio)
	}
	if f.DataFim != nil {
		q = q.Where("data_revisao < ?", *f.DataFim)
	}
	return pagination.Paginate[models.Revisao](q, params, params.OrderClause(revisaoSort, "data_revisao"))
}

func (r *RevisaoRepository) FindByID(id int64) (*models.Revisao, error) {
	var rev models.Revisao
	if err := r.withRelations().First(&rev, id).Error; err != nil {
		return nil, err
	}
	return &rev, nil
}

// FindForUpdate carrega a revisão travando a linha (FOR UPDATE) no postgres.
// O sqlite já serializa as escritas e não aceita a cláusula.
func (r *RevisaoRepository) FindForUpdate(id int64) (*models.Revisao, error) {
	q := r.db
	if q.Dialect().GetName() == "postgres" {
		q = q.Set("gorm:query_option", "FOR UPDATE")
	}
	var rev models.Revisao
	if err := q.First(&rev, id).Error; err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *RevisaoRepository) Create(rev *models.Revisao) error {
	return r.db.Create(rev).Error
}

func (r *RevisaoRepository) UpdateFields(id int64, fields map[string]any) error {
	return r.db.Model(&models.Revisao{ID: id}).Updates(fields).Error
}

// UpdateFromStatus aplica fields apenas se o status atual ainda for from.
// Retorna false quando outra requisição já mudou o status.
func (r *RevisaoRepository) UpdateFromStatus(id int64, from []models.StatusRevisao, fields map[string]any) (bool, error) {
	res := r.db.Model(&models.Revisao{}).Where("id = ? AND status IN (?)", id, from).Updates(fields)
	return res.RowsAffected == 1, res.Error
}

func (r *RevisaoRepository) Delete(id int64) error {
	return r.db.Delete(&models.Revisao{ID: id}).Error
}

func (r *RevisaoRepository) CountAtivasPorVeiculo(veiculoID int64) (int, error) {
	var count int
	err := r.db.Model(&models.Revisao{}).
		Where("veiculo_id = ? AND status IN (?)", veiculoID, []models.StatusRevisao{models.RevisaoAgendada, models.RevisaoEmAndamento}).
		Count(&count).Error
	return count, err
}

func (r *RevisaoRepository) Count() (int64, error) {
	var total int64
	err := r.db.Model(&models.Revisao{}).Count(&total).Error
	return total, err
}

// CountBy agrupa as revisões pela coluna (status ou tipo).
func (r *RevisaoRepository) CountBy(column string) ([]Contagem, error) {
	rows := []Contagem{}
	err := r.db.Model(&models.Revisao{}).
		Select(column + " AS chave, COUNT(*) AS total").
		Group(column).
		Scan(&rows).Error
	return rows, err
}

// EntreDatas lista revisões agendadas/em andamento com data_revisao em [inicio, fim).
func (r *RevisaoRepository) EntreDatas(inicio, fim time.Time) ([]models.Revisao, error) {
	list := []models.Revisao{}
	err := r.withRelations().
		Where("status IN (?)", []models.StatusRevisao{models.RevisaoAgendada, models.RevisaoEmAndamento}).
		Where("data_revisao >= ? AND data_revisao < ?", inicio, fim).
		Order("data_revisao ASC, id ASC").
		Find(&list).Error
	return list, err
}

// PendentesDeLembrete lista revisões agendadas até `ate` que ainda não tiveram lembrete.
func (r *RevisaoRepository) PendentesDeLembrete(agora, ate time.Time, limit int) ([]models.Revisao, error) {
	list := []models.Revisao{}
	err := r.db.Preload("Cliente").Preload("Veiculo").
		Where("status = ?", models.RevisaoAgendada).
		Where("lembrete_enviado_em IS NULL").
		Where("data_revisao >= ? AND data_revisao <= ?", agora, ate).
		Order("data_revisao ASC, id ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// MarcarLembrete faz o lock otimista do lembrete: só uma instância consegue marcar.
func (r *RevisaoRepository) MarcarLembrete(id int64, em time.Time) (bool, error) {
	res := r.db.Model(&models.Revisao{}).
		Where("id = ? AND lembrete_enviado_em IS NULL", id).
		Update("lembrete_enviado_em", em)
	return res.RowsAffected == 1, res.Error
}

func (r *RevisaoRepository) LimparLembrete(id int64) error {
	return r.db.Model(&models.Revisao{}).Where("id = ?", id).Update("lembrete_enviado_em", gorm.Expr("NULL")).Error
}
