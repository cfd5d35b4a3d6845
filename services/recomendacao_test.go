package services

import (
	"context"
	"testing"

	"checar/models"
	"checar/pagination"
	"checar/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecomendacaoStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	c := f.cliente(t, "11144477735", "a@x.com")
	v := f.veiculo(t, c.ID, "ABC1234", 0)
	rev := f.revisao(t, c.ID, v.ID, f.now)

	naoOk := models.ItemNaoOk
	_, err := f.revisoes.AtualizarItemChecklist(ctx, rev.ID, "pneus_desgaste", models.ItemPatch{Status: &naoOk, DetalheProblema: str("Pneus carecas")})
	require.NoError(t, err)
	_, err = f.revisoes.Finalizar(ctx, rev.ID, FinalizarInput{})
	require.NoError(t, err)

	res, err := f.recs.List(ctx, pagination.Params{Page: 1, Limit: 10}, repository.RecomendacaoFiltros{ClienteID: c.ID})
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	rec := res.Data[0]
	assert.Equal(t, models.RecomendacaoPendente, rec.Status)
	assert.Equal(t, "Pneus carecas", rec.Descricao)
	require.NotNil(t, rec.RevisaoID)
	assert.Equal(t, rev.ID, *rec.RevisaoID)

	_, err = f.recs.UpdateStatus(ctx, rec.ID, "ESQUECIDA")
	assert.ErrorIs(t, err, ErrBadRequest)

	got, err := f.recs.UpdateStatus(ctx, rec.ID, models.RecomendacaoAceita)
	require.NoError(t, err)
	assert.Equal(t, models.RecomendacaoAceita, got.Status)

	_, err = f.recs.UpdateStatus(ctx, rec.ID, models.RecomendacaoImplementada)
	require.NoError(t, err)
	_, err = f.recs.UpdateStatus(ctx, rec.ID, models.RecomendacaoPendente)
	assert.EqualError(t, err, "Recomendação já foi implementada")

	_, err = f.recs.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	outro := f.cliente(t, "52998224725", "b@x.com")
	res, err = f.recs.List(ctx, pagination.Params{Page: 1, Limit: 10}, repository.RecomendacaoFiltros{ClienteID: outro.ID})
	require.NoError(t, err)
	assert.Empty(t, res.Data)
}
