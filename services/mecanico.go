package services

import (
	"context"
	"strings"

	"checar/models"
	"checar/pagination"
	"checar/repository"
	"checar/tools"

	"github.com/jinzhu/gorm"
)

type MecanicoInput struct {
	UserID         *int64 `json:"userId"`
	Nome           string `json:"nome" binding:"required,min=2"`
	Email          string `json:"email" binding:"required,email"`
	Telefone       string `json:"telefone"`
	Especialidades string `json:"especialidades"`
}

type MecanicoUpdateInput struct {
	Nome           *string `json:"nome" binding:"omitempty,min=2"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Telefone       *string `json:"telefone"`
	Especialidades *string `json:"especialidades"`
	Ativo          *bool   `json:"ativo"`
}

type MecanicoService struct {
	repos *repository.Repositories
}

func NewMecanicoService(database *gorm.DB) *MecanicoService {
	return &MecanicoService{repos: repository.New(database)}
}

func (s *MecanicoService) List(ctx context.Context, params pagination.Params, f repository.MecanicoFiltros) (pagination.Result[models.Mecanico], error) {
	res, err := s.repos.Mecanicos.List(params, f)
	if err != nil {
		return res, dbError(err, "")
	}
	return res, nil
}

func (s *MecanicoService) GetByID(ctx context.Context, id int64) (*models.Mecanico, error) {
	m, err := s.repos.Mecanicos.FindByID(id)
	if err != nil {
		return nil, dbError(err, "Mecânico não encontrado")
	}
	return m, nil
}

func (s *MecanicoService) Create(ctx context.Context, in MecanicoInput) (*models.Mecanico, error) {
	email := tools.NormalizeEmail(in.Email)
	if strings.TrimSpace(in.Nome) == "" {
		return nil, BadRequest("Nome é obrigatório")
	}
	if !tools.ValidateEmail(email) {
		return nil, BadRequest("E-mail inválido")
	}
	if err := validarTelefones(in.Telefone); err != nil {
		return nil, err
	}
	if exists, err := s.repos.Mecanicos.ExistsEmail(email, 0); err != nil {
		return nil, dbError(err, "")
	} else if exists {
		return nil, Conflict("E-mail já cadastrado")
	}

	m := models.Mecanico{
		UserID:         in.UserID,
		Nome:           strings.TrimSpace(in.Nome),
		Email:          email,
		Telefone:       in.Telefone,
		Especialidades: in.Especialidades,
		Ativo:          true,
	}
	if err := s.repos.Mecanicos.Create(&m); err != nil {
		return nil, dbError(err, "")
	}
	return &m, nil
}

func (s *MecanicoService) Update(ctx context.Context, id int64, in MecanicoUpdateInput) (*models.Mecanico, error) {
	current, err := s.repos.Mecanicos.FindByID(id)
	if err != nil {
		return nil, dbError(err, "Mecânico não encontrado")
	}

	fields := map[string]any{}
	if in.Email != nil {
		email := tools.NormalizeEmail(*in.Email)
		if !tools.ValidateEmail(email) {
			return nil, BadRequest("E-mail inválido")
		}
		if email != current.Email {
			if exists, err := s.repos.Mecanicos.ExistsEmail(email, id); err != nil {
				return nil, dbError(err, "")
			} else if exists {
				return nil, Conflict("E-mail já cadastrado")
			}
		}
		fields["email"] = email
	}
	if err := validarTelefones(deref(in.Telefone)); err != nil {
		return nil, err
	}
	setIf(fields, "nome", in.Nome)
	setIf(fields, "telefone", in.Telefone)
	setIf(fields, "especialidades", in.Especialidades)
	setIf(fields, "ativo", in.Ativo)

	if len(fields) > 0 {
		if err := s.repos.Mecanicos.UpdateFields(id, fields); err != nil {
			return nil, dbError(err, "Mecânico não encontrado")
		}
	}
	return s.GetByID(ctx, id)
}

// Delete desativa o mecânico; revisões antigas continuam apontando para ele.
func (s *MecanicoService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repos.Mecanicos.FindByID(id); err != nil {
		return dbError(err, "Mecânico não encontrado")
	}
	return dbError(s.repos.Mecanicos.UpdateFields(id, map[string]any{"ativo": false}), "Mecânico não encontrado")
}
