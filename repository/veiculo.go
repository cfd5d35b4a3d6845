package repository

import (
	"checar/models"
	"checar/pagination"

	"github.com/jinzhu/gorm"
)

type VeiculoFiltros struct {
	ClienteID   int64
	Status      models.StatusVeiculo
	Marca       string
	Combustivel string
	Search      string
}

var veiculoSort = map[string]string{
	"placa":     "placa",
	"marca":     "marca",
	"modelo":    "modelo",
	"ano":       "ano",
	"kmAtual":   "km_atual",
	"status":    "status",
	"createdAt": "created_at",
}

type VeiculoRepository struct {
	db *gorm.DB
}

func NewVeiculoRepository(database *gorm.DB) *VeiculoRepository {
	return &VeiculoRepository{db: database}
}

func (r *VeiculoRepository) WithTx(tx *gorm.DB) *VeiculoRepository {
	return &VeiculoRepository{db: tx}
}

func (r *VeiculoRepository) List(params pagination.Params, f VeiculoFiltros) (pagination.Result[models.Veiculo], error) {
	q := r.db.Model(&models.Veiculo{})
	if f.ClienteID > 0 {
		q = q.Where("cliente_id = ?", f.ClienteID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Marca != "" {
		q = q.Where("LOWER(marca) = LOWER(?)", f.Marca)
	}
	if f.Combustivel != "" {
		q = q.Where("LOWER(combustivel) = LOWER(?)", f.Combustivel)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("LOWER(placa) LIKE ? OR LOWER(marca) LIKE ? OR LOWER(modelo) LIKE ?", like, like, like)
	}
	return pagination.Paginate[models.Veiculo](q, params, params.OrderClause(veiculoSort, "created_at"))
}

func (r *VeiculoRepository) FindByID(id int64) (*models.Veiculo, error) {
	var v models.Veiculo
	if err := r.db.First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VeiculoRepository) FindByPlaca(placa string) (*models.Veiculo, error) {
	var v models.Veiculo
	if err := r.db.Where("placa = ?", placa).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VeiculoRepository) FindByClienteID(clienteID int64) ([]models.Veiculo, error) {
	list := []models.Veiculo{}
	err := r.db.Where("cliente_id = ?", clienteID).Order("id ASC").Find(&list).Error
	return list, err
}

// ExistsBy verifica se outro veículo usa o valor na coluna informada.
func (r *VeiculoRepository) ExistsBy(column, value string, exceptID int64) (bool, error) {
	var count int
	err := r.db.Model(&models.Veiculo{}).Where(column+" = ? AND id <> ?", value, exceptID).Count(&count).Error
	return count > 0, err
}

func (r *VeiculoRepository) Create(v *models.Veiculo) error {
	return r.db.Create(v).Error
}

func (r *VeiculoRepository) UpdateFields(id int64, fields map[string]any) error {
	return r.db.Model(&models.Veiculo{ID: id}).Updates(fields).Error
}

// FindForUpdate trava a linha do veículo até o fim da transação (postgres).
func (r *VeiculoRepository) FindForUpdate(id int64) (*models.Veiculo, error) {
	q := r.db
	if q.Dialect().GetName() == "postgres" {
		q = q.Set("gorm:query_option", "FOR UPDATE")
	}
	var v models.Veiculo
	if err := q.First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// UpdateFieldsKm grava fields junto com km_atual = km, só se a quilometragem
// gravada não for maior que km. false = outra escrita já levou o km adiante.
func (r *VeiculoRepository) UpdateFieldsKm(id int64, km int, fields map[string]any) (bool, error) {
	fields["km_atual"] = km
	res := r.db.Model(&models.Veiculo{}).Where("id = ? AND km_atual <= ?", id, km).Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
