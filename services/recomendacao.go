package services

import (
	"context"

	"checar/models"
	"checar/pagination"
	"checar/repository"

	"github.com/jinzhu/gorm"
)

type RecomendacaoService struct {
	repos *repository.Repositories
}

func NewRecomendacaoService(database *gorm.DB) *RecomendacaoService {
	return &RecomendacaoService{repos: repository.New(database)}
}

func (s *RecomendacaoService) List(ctx context.Context, params pagination.Params, f repository.RecomendacaoFiltros) (pagination.Result[models.Recomendacao], error) {
	res, err := s.repos.Recomendacoes.List(params, f)
	if err != nil {
		return res, dbError(err, "")
	}
	return res, nil
}

func (s *RecomendacaoService) GetByID(ctx context.Context, id int64) (*models.Recomendacao, error) {
	rec, err := s.repos.Recomendacoes.FindByID(id)
	if err != nil {
		return nil, dbError(err, "Recomendação não encontrada")
	}
	return rec, nil
}

// UpdateStatus muda o status da recomendação. IMPLEMENTADA é final.
func (s *RecomendacaoService) UpdateStatus(ctx context.Context, id int64, status models.StatusRecomendacao) (*models.Recomendacao, error) {
	if !status.Valid() {
		return nil, BadRequest("Status inválido")
	}
	rec, err := s.repos.Recomendacoes.FindByID(id)
	if err != nil {
		return nil, dbError(err, "Recomendação não encontrada")
	}
	if rec.Status == models.RecomendacaoImplementada && status != models.RecomendacaoImplementada {
		return nil, BadRequest("Recomendação já foi implementada")
	}
	if err := s.repos.Recomendacoes.UpdateFields(id, map[string]any{"status": status}); err != nil {
		return nil, dbError(err, "Recomendação não encontrada")
	}
	rec.Status = status
	return rec, nil
}
