package repository

import (
	"time"

	"checar/models"
	"checar/pagination"

	"github.com/jinzhu/gorm"
)

type ClienteFiltros struct {
	Search string
	Status models.StatusCliente
	Cidade string
	Estado string
}

var clienteSort = map[string]string{
	"nome":         "nome",
	"email":        "email",
	"cidade":       "cidade",
	"status":       "status",
	"createdAt":    "created_at",
	"ultimaVisita": "ultima_visita",
}

type ClienteRepository struct {
	db *gorm.DB
}

func NewClienteRepository(database *gorm.DB) *ClienteRepository {
	return &ClienteRepository{db: database}
}

func (r *ClienteRepository) WithTx(tx *gorm.DB) *ClienteRepository {
	return &ClienteRepository{db: tx}
}

func (r *ClienteRepository) List(params pagination.Params, f ClienteFiltros) (pagination.Result[models.Cliente], error) {
	q := r.db.Model(&models.Cliente{})
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("LOWER(nome) LIKE ? OR LOWER(sobrenome) LIKE ? OR LOWER(email) LIKE ? OR cpf LIKE ?", like, like, like, like)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Cidade != "" {
		q = q.Where("LOWER(cidade) = LOWER(?)", f.Cidade)
	}
	if f.Estado != "" {
		q = q.Where("UPPER(estado) = UPPER(?)", f.Estado)
	}
	return pagination.Paginate[models.Cliente](q, params, params.OrderClause(clienteSort, "created_at"))
}

// FindByID carrega o cliente com seus veículos.
func (r *ClienteRepository) FindByID(id int64) (*models.Cliente, error) {
	var c models.Cliente
	if err := r.db.Preload("Veiculos").First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClienteRepository) FindByCPF(cpf string) (*models.Cliente, error) {
	var c models.Cliente
	if err := r.db.Where("cpf = ?", cpf).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClienteRepository) FindByEmail(email string) (*models.Cliente, error) {
	var c models.Cliente
	if err := r.db.Where("email = ?", email).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClienteRepository) FindByUserID(userID int64) (*models.Cliente, error) {
	var c models.Cliente
	if err := r.db.Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ExistsCPF verifica se outro cliente (id diferente de exceptID) usa o cpf.
func (r *ClienteRepository) ExistsCPF(cpf string, exceptID int64) (bool, error) {
	var count int
	err := r.db.Model(&models.Cliente{}).Where("cpf = ? AND id <> ?", cpf, exceptID).Count(&count).Error
	return count > 0, err
}

func (r *ClienteRepository) ExistsEmail(email string, exceptID int64) (bool, error) {
	var count int
	err := r.db.Model(&models.Cliente{}).Where("email = ? AND id <> ?", email, exceptID).Count(&count).Error
	return count > 0, err
}

func (r *ClienteRepository) Create(c *models.Cliente) error {
	return r.db.Create(c).Error
}

func (r *ClienteRepository) UpdateFields(id int64, fields map[string]any) error {
	return r.db.Model(&models.Cliente{ID: id}).Updates(fields).Error
}

func (r *ClienteRepository) TouchUltimaVisita(id int64, at time.Time) error {
	return r.UpdateFields(id, map[string]any{"ultima_visita": at})
}
