package services

import (
	"context"
	"testing"
	"time"

	"checar/models"
	"checar/pagination"
	"checar/queue"
	"checar/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRevisaoFluxoCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.pub.On("Publish", queue.QueueRevisaoConcluida, mock.AnythingOfType("queue.RevisaoConcluidaEvent")).Return(nil).Once()

	c := f.cliente(t, "111.444.777-35", "a@x.com")
	v := f.veiculo(t, c.ID, "abc-1234", 45000)

	rev := f.revisao(t, c.ID, v.ID, f.now.Add(2*time.Hour))
	assert.Equal(t, models.RevisaoAgendada, rev.Status)
	assert.Len(t, rev.Checklist, 6)
	assert.Equal(t, 0.0, rev.ValorTotal)

	rev, err := f.revisoes.Iniciar(ctx, rev.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RevisaoEmAndamento, rev.Status)
	require.NotNil(t, rev.DataInicio)

	veiculo, err := f.veiculos.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VeiculoEmManutencao, veiculo.Status)

	rev, err = f.revisoes.Finalizar(ctx, rev.ID, FinalizarInput{
		ValorServico: float(300),
		ValorPecas:   float(100),
		KmAtual:      intp(50000),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RevisaoConcluida, rev.Status)
	assert.Equal(t, 400.0, rev.ValorTotal)
	require.NotNil(t, rev.DataConclusao)
	require.NotNil(t, rev.Finalizacao)

	veiculo, err = f.veiculos.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 50000, veiculo.KmAtual)
	assert.Equal(t, models.VeiculoAtivo, veiculo.Status)
	assert.Equal(t, 50000, veiculo.KmUltimaRevisao)

	hist, err := f.veiculos.Historico(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, 400.0, hist[0].ValorTotal)
	assert.Equal(t, 50000, hist[0].Km)

	cliente, err := f.clientes.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.NotNil(t, cliente.UltimaVisita)

	f.pub.AssertExpectations(t)
}

func TestRevisaoValorTotalUsaValorGravado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.cliente(t, "11144477735", "a@x.com")
	v := f.veiculo(t, c.ID, "ABC1234", 0)

	rev, err := f.revisoes.Create(ctx, RevisaoInput{
		ClienteID:    c.ID,
		VeiculoID:    v.ID,
		Tipo:         models.RevisaoCorretiva,
		DataRevisao:  f.now,
		ValorServico: float(150),
		ValorPecas:   float(50),
	})
	require.NoError(t, err)
	assert.Equal(t, 200.0, rev.ValorTotal)

	rev, err = f.revisoes.Update(ctx, rev.ID, RevisaoUpdateInput{ValorPecas: float(80)})
	require.NoError(t, err)
	assert.Equal(t, 150.0, rev.ValorServico)
	assert.Equal(t, 80.0, rev.ValorPecas)
	assert.Equal(t, 230.0, rev.ValorTotal)

	rev, err = f.revisoes.Update(ctx, rev.ID, RevisaoUpdateInput{ValorServico: float(20)})
	require.NoError(t, err)
	assert.Equal(t, 100.0, rev.ValorTotal)

	// patch sem valores não mexe no total
	rev, err = f.revisoes.Update(ctx, rev.ID, RevisaoUpdateInput{Observacoes: str("cliente aguarda")})
	require.NoError(t, err)
	assert.Equal(t, 100.0, rev.ValorTotal)
	assert.Equal(t, "cliente aguarda", rev.Observacoes)
}

func TestRevisaoFinalizarMantemValoresAusentes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	c := f.cliente(t, "11144477735", "a@x.com")
	v := f.veiculo(t, c.ID, "ABC1234", 0)

	rev, err := f.revisoes.Create(ctx, RevisaoInput{ClienteID: c.ID, VeiculoID: v.ID, Tipo: models.RevisaoPeriodica, DataRevisao: f.now, ValorServico: float(120)})
	require.NoError(t, err)

	rev, err = f.revisoes.Finalizar(ctx, rev.ID, FinalizarInput{ValorPecas: float(30)})
	require.NoError(t, err)
	assert.Equal(t, 150.0, rev.ValorTotal)
	assert.Equal(t, models.RevisaoConcluida, rev.Status)
}

func TestRevisaoTransicoesInvalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	c := f.cliente(t, "11144477735", "a@x.com")
	v := f.veiculo(t, c.ID, "ABC1234", 0)

	t.Run("cancelar duas vezes", func(t *testing.T) {
		rev := f.revisao(t, c.ID, v.ID, f.now)
		_, err := f.revisoes.Cancelar(ctx, rev.ID, "cliente desistiu")
		require.NoError(t, err)

		_, err = f.revisoes.Cancelar(ctx, rev.ID, "")
		assert.ErrorIs(t, err, ErrBadRequest)
		assert.EqualError(t, err, "Revisão já está cancelada")

		got, err := f.revisoes.GetByID(ctx, rev.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RevisaoCancelada, got.Status)
		assert.Equal(t, "cliente desistiu", got.MotivoCancelamento)
	})

	t.Run("cancelada não finaliza nem inicia", func(t *testing.T) {
		rev := f.revisao(t, c.ID, v.ID, f.now)
		_, err := f.revisoes.Cancelar(ctx, rev.ID, "")
		require.NoError(t, err)

		_, err = f.revisoes.Finalizar(ctx, rev.ID, FinalizarInput{})
		assert.ErrorIs(t, err, ErrBadRequest)
		_, err = f.revisoes.Iniciar(ctx, rev.ID, nil)
		assert.ErrorIs(t, err, ErrBadRequest)
		_, err = f.revisoes.Reagendar(ctx, rev.ID, f.now.Add(24*time.Hour))
		assert.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("concluida não cancela nem finaliza de novo", func(t *testing.T) {
		rev := f.revisao(t, c.ID, v.ID, f.now)
		_, err := f.revisoes.Finalizar(ctx, rev.ID, FinalizarInput{})
		require.NoError(t, err)

		_, err = f.revisoes.Finalizar(ctx, rev.ID, FinalizarInput{})
		assert.EqualError(t, err, "Revisão já está concluída")
		_, err = f.revisoes.Cancelar(ctx, rev.ID, "")
		assert.EqualError(t, err, "Revisão já está concluída")
		err = f.revisoes.Delete(ctx, rev.ID)
		assert.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("iniciar duas vezes", func(t *testing.T) {
		rev := f.revisao(t, c.ID, v.ID, f.now)
		_, err := f.revisoes.Iniciar(ctx, rev.ID, nil)
		require.NoError(t, err)
		_, err = f.revisoes.Iniciar(ctx, rev.ID, nil)
		assert.ErrorIs(t, err, ErrBadRequest)

		// cancelar libera o veículo
		_, err = f.revisoes.Cancelar(ctx, rev.ID, "")
		require.NoError(t, err)
		veiculo, err := f.veiculos.GetByID(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, models.VeiculoAtivo, veiculo.Status)
	})

	t.Run("inexistente", func(t *testing.T) {
		_, err := f.revisoes.Iniciar(ctx, 9999, nil)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = f.revisoes.Cancelar(ctx, 9999, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRevisaoCreateValidaRelacionamentos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c1 := f.cliente(t, "11144477735", "a@x.com")
	c2 := f.cliente(t, "52998224725", "b@x.com")
	v := f.veiculo(t, c1.ID, "ABC1234", 0)

	_, err := f.revisoes.Create(ctx, RevisaoInput{ClienteID: c2.ID, VeiculoID: v.ID, Tipo: models.RevisaoPreventiva, DataRevisao: f.now})
	assert.ErrorIs(t, err, ErrBadRequest)
	assert.EqualError(t, err, "Veículo não pertence ao cliente informado")

	_, err = f.revisoes.Create(ctx, RevisaoInput{ClienteID: 999, VeiculoID: v.ID, Tipo: models.RevisaoPreventiva, DataRevisao: f.now})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.revisoes.Create(ctx, RevisaoInput{ClienteID: c1.ID, VeiculoID: 999, Tipo: models.RevisaoPreventiva, DataRevisao: f.now})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.revisoes.Create(ctx, RevisaoInput{ClienteID: c1.ID, VeiculoID: v.ID, Tipo: "REVISAO_GERAL", DataRevisao: f.now})
	assert.ErrorIs(t, err, ErrBadRequest)

	mecanicoID := int64(42)
	_, err = f.revisoes.Create(ctx, RevisaoInput{ClienteID: c1.ID, VeiculoID: v.ID, MecanicoID: &mecanicoID, Tipo: models.RevisaoPreventiva, DataRevisao: f.now})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.veiculos.Delete(ctx, v.ID))
	_, err = f.revisoes.Create(ctx, RevisaoInput{ClienteID: c1.ID, VeiculoID: v.ID, Tipo: models.RevisaoPreventiva, DataRevisao: f.now})
	assert.EqualError(t, err, "Veículo não está ativo")
}

func TestRevisaoKmNaoRegride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.cliente(t, "11144477735", "a@x.com")
	v := f.veiculo(t, c.ID, "ABC1234", 60000)
	rev := f.revisao(t, c.ID, v.ID, f.now)

	_, err := f.revisoes.Finalizar(ctx, rev.ID, FinalizarInput{KmAtual: intp(59000)})
	assert.ErrorIs(t, err, ErrBadRequest)

	got, err := f.revisoes.GetByID(ctx, rev.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RevisaoAgendada, got.Status)

	veiculo, err := f.veiculos.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 60000, veiculo.KmAtual)
}

func TestRevisaoChecklist(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	c := f.cliente(t, "11144477735", "a@x.com")
	v := f.veiculo(t, c.ID, "ABC1234", 0)
	rev := f.revisao(t, c.ID, v.ID, f.now)

	naoOk := models.ItemNaoOk
	critica := models.PrioridadeCritica
	item, err := f.revisoes.AtualizarItemChecklist(ctx, rev.ID, "freios_pastilhas", models.ItemPatch{
		Status:          &naoOk,
		Prioridade:      &critica,
		DetalheProblema: str("Pastilhas no limite"),
		CustoEstimado:   float(250),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ItemNaoOk, item.Status)

	ok := models.ItemOk
	_, err = f.revisoes.AtualizarItemChecklist(ctx, rev.ID, "motor_oleo", models.ItemPatch{Status: &ok})
	require.NoError(t, err)

	_, err = f.revisoes.AtualizarItemChecklist(ctx, rev.ID, "nao_existe", models.ItemPatch{Status: &ok})
	assert.ErrorIs(t, err, ErrNotFound)

	invalido := models.StatusItem("quebrado")
	_, err = f.revisoes.AtualizarItemChecklist(ctx, rev.ID, "motor_oleo", models.ItemPatch{Status: &invalido})
	assert.ErrorIs(t, err, ErrBadRequest)

	p, err := f.revisoes.ResponderPergunta(ctx, rev.ID, "motor_barulho", "sim")
	require.NoError(t, err)
	assert.Equal(t, "sim", p.Resposta)

	view, err := f.revisoes.GetChecklist(ctx, rev.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Resumo.Ok)
	assert.Equal(t, 1, view.Resumo.NaoOk)
	assert.Equal(t, 1, view.Resumo.Criticos)
	assert.False(t, view.Resumo.Completo)

	_, err = f.revisoes.Finalizar(ctx, rev.ID, FinalizarInput{
		Finalizacao: &models.DadosFinalizacao{
			Resumo: "Freios comprometidos",
			Recomendacoes: []models.RecomendacaoFinalizacao{
				{Item: "Pastilhas de freio", Prioridade: models.PrioridadeAlta},
				{Item: "Alinhamento", Prioridade: models.PrioridadeBaixa, CustoEstimado: 90},
			},
		},
	})
	require.NoError(t, err)

	recs, err := f.recs.List(ctx, pagination.Params{Page: 1, Limit: 10, SortOrder: pagination.Asc}, repository.RecomendacaoFiltros{RevisaoID: rev.ID})
	require.NoError(t, err)
	require.Len(t, recs.Data, 2)
	assert.Equal(t, models.PrioridadeCritica, recs.Data[0].Prioridade)
	assert.Equal(t, "Imediato", recs.Data[0].PrazoRecomendado)
	assert.Equal(t, "Pastilhas no limite", recs.Data[0].Descricao)
	assert.Equal(t, "Alinhamento", recs.Data[1].Item)
	assert.Equal(t, "Próxima revisão", recs.Data[1].PrazoRecomendado)

	_, err = f.revisoes.AtualizarItemChecklist(ctx, rev.ID, "motor_oleo", models.ItemPatch{Status: &ok})
	assert.ErrorIs(t, err, ErrBadRequest)
	_, err = f.revisoes.ResponderPergunta(ctx, rev.ID, "motor_barulho", "nao")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestRevisaoReagendarLiberaLembrete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.cliente(t, "11144477735", "a@x.com")
	v := f.veiculo(t, c.ID, "ABC1234", 0)
	rev := f.revisao(t, c.ID, v.ID, f.now.Add(24*time.Hour))

	ok, err := repository.New(f.db).Revisoes.MarcarLembrete(rev.ID, f.now)
	require.NoError(t, err)
	require.True(t, ok)

	nova := f.now.Add(72 * time.Hour)
	got, err := f.revisoes.Reagendar(ctx, rev.ID, nova)
	require.NoError(t, err)
	assert.True(t, got.DataRevisao.Equal(nova))
	assert.Nil(t, got.LembreteEnviadoEm)
}

func TestRevisaoStatsCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.cliente(t, "11144477735", "a@x.com")
	v := f.veiculo(t, c.ID, "ABC1234", 0)
	f.revisao(t, c.ID, v.ID, f.now)
	r2 := f.revisao(t, c.ID, v.ID, f.now)

	stats, err := f.revisoes.GetStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 2, stats.PorStatus["AGENDADA"])
	assert.EqualValues(t, 0, stats.PorStatus["CONCLUIDA"])
	assert.EqualValues(t, 2, stats.PorTipo["PREVENTIVA"])
	assert.True(t, f.cache.has(StatsCacheKey))

	_, err = f.revisoes.Cancelar(ctx, r2.ID, "")
	require.NoError(t, err)
	assert.False(t, f.cache.has(StatsCacheKey))

	stats, err = f.revisoes.GetStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.PorStatus["AGENDADA"])
	assert.EqualValues(t, 1, stats.PorStatus["CANCELADA"])
}

func TestRevisoesHoje(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.cliente(t, "11144477735", "a@x.com")
	v := f.veiculo(t, c.ID, "ABC1234", 0)

	hoje := f.revisao(t, c.ID, v.ID, time.Date(2026, 5, 12, 15, 0, 0, 0, time.UTC))
	f.revisao(t, c.ID, v.ID, time.Date(2026, 5, 13, 0, 0, 0, 0, time.UTC))
	f.revisao(t, c.ID, v.ID, time.Date(2026, 5, 11, 23, 59, 0, 0, time.UTC))
	cancelada := f.revisao(t, c.ID, v.ID, time.Date(2026, 5, 12, 9, 0, 0, 0, time.UTC))
	_, err := f.revisoes.Cancelar(ctx, cancelada.ID, "")
	require.NoError(t, err)

	list, err := f.revisoes.GetRevisoesHoje(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, hoje.ID, list[0].ID)
}

func TestRevisaoDeleteLiberaVeiculo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.cliente(t, "11144477735", "a@x.com")
	v := f.veiculo(t, c.ID, "ABC1234", 0)
	rev := f.revisao(t, c.ID, v.ID, f.now)

	_, err := f.revisoes.Iniciar(ctx, rev.ID, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, f.veiculos.Delete(ctx, v.ID), ErrBadRequest)

	require.NoError(t, f.revisoes.Delete(ctx, rev.ID))
	_, err = f.revisoes.GetByID(ctx, rev.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	veiculo, err := f.veiculos.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VeiculoAtivo, veiculo.Status)
}

func TestDerivarValorTotal(t *testing.T) {
	current := &models.Revisao{ValorServico: 10, ValorPecas: 5}

	fields := map[string]any{"diagnostico": "x"}
	derivarValorTotal(current, fields)
	_, ok := fields["valor_total"]
	assert.False(t, ok)

	fields = map[string]any{"valor_servico": 7.5}
	derivarValorTotal(current, fields)
	assert.Equal(t, 12.5, fields["valor_total"])

	fields = map[string]any{"valor_servico": 1.0, "valor_pecas": 2.0}
	derivarValorTotal(current, fields)
	assert.Equal(t, 3.0, fields["valor_total"])
}
