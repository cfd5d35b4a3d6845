package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"checar/cache"
	"checar/db"
	"checar/models"
	"checar/pagination"
	"checar/queue"
	"checar/repository"

	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"
)

// StatsCacheKey guarda o resultado de GetStats; qualquer escrita em revisões invalida.
const StatsCacheKey = "checar:revisoes:stats"

type RevisaoInput struct {
	ClienteID          int64              `json:"clienteId" binding:"required,gt=0"`
	VeiculoID          int64              `json:"veiculoId" binding:"required,gt=0"`
	MecanicoID         *int64             `json:"mecanicoId"`
	Tipo               models.TipoRevisao `json:"tipo" binding:"required,oneof=PREVENTIVA CORRETIVA PERIODICA EMERGENCIAL"`
	DataAgendamento    *time.Time         `json:"dataAgendamento"`
	DataRevisao        time.Time          `json:"dataRevisao" binding:"required"`
	KmAtual            *int               `json:"kmAtual" binding:"omitempty,gte=0"`
	KmProxima          *int               `json:"kmProxima" binding:"omitempty,gte=0"`
	ValorServico       *float64           `json:"valorServico" binding:"omitempty,gte=0"`
	ValorPecas         *float64           `json:"valorPecas" binding:"omitempty,gte=0"`
	Diagnostico        string             `json:"diagnostico"`
	Observacoes        string             `json:"observacoes"`
	GarantiaDias       *int               `json:"garantiaDias" binding:"omitempty,gte=0"`
	GarantiaKm         *int               `json:"garantiaKm" binding:"omitempty,gte=0"`
	ServicosRealizados []string           `json:"servicosRealizados"`
	PecasSubstituidas  []string           `json:"pecasSubstituidas"`
}

// RevisaoUpdateInput é o patch genérico; nil mantém o valor atual.
type RevisaoUpdateInput struct {
	MecanicoID         *int64              `json:"mecanicoId"`
	Tipo               *models.TipoRevisao `json:"tipo"`
	DataRevisao        *time.Time          `json:"dataRevisao"`
	KmAtual            *int                `json:"kmAtual" binding:"omitempty,gte=0"`
	KmProxima          *int                `json:"kmProxima" binding:"omitempty,gte=0"`
	ValorServico       *float64            `json:"valorServico" binding:"omitempty,gte=0"`
	ValorPecas         *float64            `json:"valorPecas" binding:"omitempty,gte=0"`
	Diagnostico        *string             `json:"diagnostico"`
	Observacoes        *string             `json:"observacoes"`
	GarantiaDias       *int                `json:"garantiaDias" binding:"omitempty,gte=0"`
	GarantiaKm         *int                `json:"garantiaKm" binding:"omitempty,gte=0"`
	ServicosRealizados *[]string           `json:"servicosRealizados"`
	PecasSubstituidas  *[]string           `json:"pecasSubstituidas"`
	Checklist          *models.Checklist   `json:"checklist"`
}

type FinalizarInput struct {
	ValorServico       *float64                 `json:"valorServico" binding:"omitempty,gte=0"`
	ValorPecas         *float64                 `json:"valorPecas" binding:"omitempty,gte=0"`
	KmAtual            *int                     `json:"kmAtual" binding:"omitempty,gte=0"`
	KmProxima          *int                     `json:"kmProxima" binding:"omitempty,gte=0"`
	Diagnostico        *string                  `json:"diagnostico"`
	Observacoes        *string                  `json:"observacoes"`
	GarantiaDias       *int                     `json:"garantiaDias" binding:"omitempty,gte=0"`
	GarantiaKm         *int                     `json:"garantiaKm" binding:"omitempty,gte=0"`
	ServicosRealizados []string                 `json:"servicosRealizados"`
	PecasSubstituidas  []string                 `json:"pecasSubstituidas"`
	Finalizacao        *models.DadosFinalizacao `json:"finalizacao"`
}

type RevisaoStats struct {
	Total     int64            `json:"total"`
	PorStatus map[string]int64 `json:"porStatus"`
	PorTipo   map[string]int64 `json:"porTipo"`
}

// ChecklistView é o checklist com o resumo calculado.
type ChecklistView struct {
	RevisaoID int64                  `json:"revisaoId"`
	Status    models.StatusRevisao   `json:"status"`
	Checklist models.Checklist       `json:"checklist"`
	Resumo    models.ResumoChecklist `json:"resumo"`
}

// RevisaoService controla o ciclo de vida da revisão:
// AGENDADA -> EM_ANDAMENTO -> CONCLUIDA, com CANCELADA a partir de qualquer status não final.
type RevisaoService struct {
	db        *gorm.DB
	repos     *repository.Repositories
	cache     cache.Cache
	publisher queue.Publisher
	statsTTL  time.Duration
	now       func() time.Time
}

func NewRevisaoService(database *gorm.DB, c cache.Cache, p queue.Publisher, statsTTL time.Duration) *RevisaoService {
	if c == nil {
		c = cache.Noop{}
	}
	if p == nil {
		p = queue.LogPublisher{}
	}
	if statsTTL <= 0 {
		statsTTL = time.Minute
	}
	return &RevisaoService{
		db:        database,
		repos:     repository.New(database),
		cache:     c,
		publisher: p,
		statsTTL:  statsTTL,
		now:       time.Now,
	}
}

/************************************************
/**** MARK: QUERIES ****/
/************************************************/

func (s *RevisaoService) List(ctx context.Context, params pagination.Params, f repository.RevisaoFiltros) (pagination.Result[models.Revisao], error) {
	res, err := s.repos.Revisoes.List(params, f)
	if err != nil {
		return res, dbError(err, "")
	}
	return res, nil
}

func (s *RevisaoService) GetByID(ctx context.Context, id int64) (*models.Revisao, error) {
	rev, err := s.repos.Revisoes.FindByID(id)
	if err != nil {
		return nil, dbError(err, "Revisão não encontrada")
	}
	return rev, nil
}

// GetStats conta revisões no total, por status e por tipo. Usa o cache quando disponível.
func (s *RevisaoService) GetStats(ctx context.Context) (*RevisaoStats, error) {
	var cached RevisaoStats
	if found, err := s.cache.GetJSON(ctx, StatsCacheKey, &cached); err != nil {
		log.WithError(err).Warn("Falha ao ler estatísticas do cache")
	} else if found {
		return &cached, nil
	}

	total, err := s.repos.Revisoes.Count()
	if err != nil {
		return nil, dbError(err, "")
	}
	porStatus, err := s.repos.Revisoes.CountBy("status")
	if err != nil {
		return nil, dbError(err, "")
	}
	porTipo, err := s.repos.Revisoes.CountBy("tipo")
	if err != nil {
		return nil, dbError(err, "")
	}

	stats := &RevisaoStats{
		Total: total,
		PorStatus: map[string]int64{
			string(models.RevisaoAgendada):    0,
			string(models.RevisaoEmAndamento): 0,
			string(models.RevisaoConcluida):   0,
			string(models.RevisaoCancelada):   0,
		},
		PorTipo: map[string]int64{
			string(models.RevisaoPreventiva):  0,
			string(models.RevisaoCorretiva):   0,
			string(models.RevisaoPeriodica):   0,
			string(models.RevisaoEmergencial): 0,
		},
	}
	for _, c := range porStatus {
		stats.PorStatus[c.Chave] = c.Total
	}
	for _, c := range porTipo {
		stats.PorTipo[c.Chave] = c.Total
	}

	if err := s.cache.SetJSON(ctx, StatsCacheKey, stats, s.statsTTL); err != nil {
		log.WithError(err).Warn("Falha ao gravar estatísticas no cache")
	}
	return stats, nil
}

// GetRevisoesHoje lista agendadas/em andamento com dataRevisao em [hoje 00:00, amanhã 00:00).
func (s *RevisaoService) GetRevisoesHoje(ctx context.Context) ([]models.Revisao, error) {
	now := s.now()
	inicio := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	list, err := s.repos.Revisoes.EntreDatas(inicio, inicio.AddDate(0, 0, 1))
	if err != nil {
		return nil, dbError(err, "")
	}
	return list, nil
}

func (s *RevisaoService) GetChecklist(ctx context.Context, id int64) (*ChecklistView, error) {
	rev, err := s.repos.Revisoes.FindByID(id)
	if err != nil {
		return nil, dbError(err, "Revisão não encontrada")
	}
	return &ChecklistView{RevisaoID: rev.ID, Status: rev.Status, Checklist: rev.Checklist, Resumo: rev.Checklist.Resumo()}, nil
}

/************************************************
/**** MARK: CREATE / UPDATE / DELETE ****/
/************************************************/

func (s *RevisaoService) Create(ctx context.Context, in RevisaoInput) (*models.Revisao, error) {
	if !in.Tipo.Valid() {
		return nil, BadRequest("Tipo de revisão inválido")
	}
	if in.DataRevisao.IsZero() {
		return nil, BadRequest("Data da revisão é obrigatória")
	}

	var rev models.Revisao
	err := db.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)

		if _, err := repos.Clientes.FindByID(in.ClienteID); err != nil {
			return dbError(err, "Cliente não encontrado")
		}
		veiculo, err := repos.Veiculos.FindForUpdate(in.VeiculoID)
		if err != nil {
			return dbError(err, "Veículo não encontrado")
		}
		if veiculo.ClienteID != in.ClienteID {
			return BadRequest("Veículo não pertence ao cliente informado")
		}
		if veiculo.Status == models.VeiculoVendido || veiculo.Status == models.VeiculoInativo {
			return BadRequest("Veículo não está ativo")
		}
		if in.MecanicoID != nil {
			if err := validarMecanico(repos, *in.MecanicoID); err != nil {
				return err
			}
		}

		dataAgendamento := s.now()
		if in.DataAgendamento != nil && !in.DataAgendamento.IsZero() {
			dataAgendamento = *in.DataAgendamento
		}

		rev = models.Revisao{
			ClienteID:          in.ClienteID,
			VeiculoID:          in.VeiculoID,
			MecanicoID:         in.MecanicoID,
			Tipo:               in.Tipo,
			Status:             models.RevisaoAgendada,
			DataAgendamento:    dataAgendamento,
			DataRevisao:        in.DataRevisao,
			KmAtual:            in.KmAtual,
			KmProxima:          in.KmProxima,
			Checklist:          models.NovoChecklist(),
			ServicosRealizados: models.StringList(in.ServicosRealizados),
			PecasSubstituidas:  models.StringList(in.PecasSubstituidas),
			ValorServico:       floatOr(in.ValorServico, 0),
			ValorPecas:         floatOr(in.ValorPecas, 0),
			Diagnostico:        in.Diagnostico,
			Observacoes:        in.Observacoes,
			GarantiaDias:       in.GarantiaDias,
			GarantiaKm:         in.GarantiaKm,
		}
		rev.RecalcularTotal()
		return repos.Revisoes.Create(&rev)
	})
	if err != nil {
		return nil, dbError(err, "")
	}

	s.invalidateStats(ctx)
	log.WithFields(log.Fields{"revisao_id": rev.ID, "veiculo_id": rev.VeiculoID, "status": rev.Status}).Info("Revisão agendada")
	return s.GetByID(ctx, rev.ID)
}

// Update é o patch genérico. Sempre que valorServico ou valorPecas vier no patch,
// valorTotal é recalculado usando o valor gravado para o campo ausente.
func (s *RevisaoService) Update(ctx context.Context, id int64, in RevisaoUpdateInput) (*models.Revisao, error) {
	err := db.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)
		current, err := repos.Revisoes.FindForUpdate(id)
		if err != nil {
			return dbError(err, "Revisão não encontrada")
		}

		fields := map[string]any{}
		if in.Tipo != nil {
			if !in.Tipo.Valid() {
				return BadRequest("Tipo de revisão inválido")
			}
			fields["tipo"] = *in.Tipo
		}
		if in.MecanicoID != nil {
			if err := validarMecanico(repos, *in.MecanicoID); err != nil {
				return err
			}
			fields["mecanico_id"] = *in.MecanicoID
		}
		if in.DataRevisao != nil {
			if current.Status != models.RevisaoAgendada {
				return BadRequest("Use o reagendamento apenas em revisões agendadas")
			}
			fields["data_revisao"] = *in.DataRevisao
			fields["lembrete_enviado_em"] = gorm.Expr("NULL")
		}
		if in.Checklist != nil {
			if current.Status.Encerrada() {
				return BadRequest("Checklist não pode ser alterado em revisão encerrada")
			}
			fields["checklist"] = *in.Checklist
		}
		setIf(fields, "km_atual", in.KmAtual)
		setIf(fields, "km_proxima", in.KmProxima)
		setIf(fields, "valor_servico", in.ValorServico)
		setIf(fields, "valor_pecas", in.ValorPecas)
		setIf(fields, "diagnostico", in.Diagnostico)
		setIf(fields, "observacoes", in.Observacoes)
		setIf(fields, "garantia_dias", in.GarantiaDias)
		setIf(fields, "garantia_km", in.GarantiaKm)
		if in.ServicosRealizados != nil {
			fields["servicos_realizados"] = models.StringList(*in.ServicosRealizados)
		}
		if in.PecasSubstituidas != nil {
			fields["pecas_substituidas"] = models.StringList(*in.PecasSubstituidas)
		}

		return s.update(repos, current, fields)
	})
	if err != nil {
		return nil, dbError(err, "Revisão não encontrada")
	}

	s.invalidateStats(ctx)
	return s.GetByID(ctx, id)
}

// update grava fields aplicando a regra do valor total.
func (s *RevisaoService) update(repos *repository.Repositories, current *models.Revisao, fields map[string]any) error {
	derivarValorTotal(current, fields)
	if len(fields) == 0 {
		return nil
	}
	return repos.Revisoes.UpdateFields(current.ID, fields)
}

// derivarValorTotal: valorTotal = coalesce(novo servico, atual) + coalesce(novas pecas, atual),
// aplicado só quando o patch toca em um dos dois.
func derivarValorTotal(current *models.Revisao, fields map[string]any) {
	servico, hasServico := fields["valor_servico"].(float64)
	pecas, hasPecas := fields["valor_pecas"].(float64)
	if !hasServico && !hasPecas {
		delete(fields, "valor_total")
		return
	}
	if !hasServico {
		servico = current.ValorServico
	}
	if !hasPecas {
		pecas = current.ValorPecas
	}
	fields["valor_total"] = servico + pecas
}

// Delete remove fisicamente a revisão, exceto se já concluída.
func (s *RevisaoService) Delete(ctx context.Context, id int64) error {
	err := db.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)
		rev, err := repos.Revisoes.FindForUpdate(id)
		if err != nil {
			return dbError(err, "Revisão não encontrada")
		}
		if rev.Status == models.RevisaoConcluida {
			return BadRequest("Revisões concluídas não podem ser excluídas; use o cancelamento")
		}
		if rev.Status == models.RevisaoEmAndamento {
			if err := liberarVeiculo(repos, rev.VeiculoID); err != nil {
				return err
			}
		}
		return repos.Revisoes.Delete(id)
	})
	if err != nil {
		return dbError(err, "Revisão não encontrada")
	}

	s.invalidateStats(ctx)
	log.WithFields(log.Fields{"revisao_id": id}).Info("Revisão excluída")
	return nil
}

/************************************************
/**** MARK: TRANSITIONS ****/
/************************************************/

// Iniciar: AGENDADA -> EM_ANDAMENTO. O veículo passa a EM_MANUTENCAO na mesma transação.
func (s *RevisaoService) Iniciar(ctx context.Context, id int64, mecanicoID *int64) (*models.Revisao, error) {
	err := db.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)
		rev, err := repos.Revisoes.FindForUpdate(id)
		if err != nil {
			return dbError(err, "Revisão não encontrada")
		}
		if rev.Status != models.RevisaoAgendada {
			return BadRequest("Apenas revisões agendadas podem ser iniciadas (status atual: %s)", rev.Status)
		}

		fields := map[string]any{
			"status":      models.RevisaoEmAndamento,
			"data_inicio": s.now(),
		}
		if mecanicoID != nil {
			if err := validarMecanico(repos, *mecanicoID); err != nil {
				return err
			}
			fields["mecanico_id"] = *mecanicoID
		}

		ok, err := repos.Revisoes.UpdateFromStatus(id, []models.StatusRevisao{models.RevisaoAgendada}, fields)
		if err != nil {
			return err
		}
		if !ok {
			return BadRequest("Revisão foi alterada por outra operação")
		}
		return repos.Veiculos.UpdateFields(rev.VeiculoID, map[string]any{"status": models.VeiculoEmManutencao})
	})
	if err != nil {
		return nil, dbError(err, "Revisão não encontrada")
	}

	s.invalidateStats(ctx)
	log.WithFields(log.Fields{"revisao_id": id, "status": models.RevisaoEmAndamento}).Info("Revisão iniciada")
	return s.GetByID(ctx, id)
}

// Finalizar conclui a revisão. Numa única transação: status CONCLUIDA, valorTotal recalculado,
// km propagado ao veículo, histórico do veículo, recomendações e o agregado de finalização.
func (s *RevisaoService) Finalizar(ctx context.Context, id int64, in FinalizarInput) (*models.Revisao, error) {
	var (
		event       queue.RevisaoConcluidaEvent
		recomendCnt int
	)

	err := db.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)
		rev, err := repos.Revisoes.FindForUpdate(id)
		if err != nil {
			return dbError(err, "Revisão não encontrada")
		}
		switch rev.Status {
		case models.RevisaoConcluida:
			return BadRequest("Revisão já está concluída")
		case models.RevisaoCancelada:
			return BadRequest("Revisão cancelada não pode ser finalizada")
		}

		veiculo, err := repos.Veiculos.FindForUpdate(rev.VeiculoID)
		if err != nil {
			return dbError(err, "Veículo não encontrado")
		}

		now := s.now()
		fields := map[string]any{
			"status":         models.RevisaoConcluida,
			"data_conclusao": now,
			"valor_servico":  floatOr(in.ValorServico, rev.ValorServico),
			"valor_pecas":    floatOr(in.ValorPecas, rev.ValorPecas),
		}

		km := veiculo.KmAtual
		if rev.KmAtual != nil {
			km = *rev.KmAtual
		}
		veiculoFields := map[string]any{}
		if in.KmAtual != nil {
			if *in.KmAtual < veiculo.KmAtual {
				return BadRequest("Quilometragem não pode ser menor que a atual do veículo (%d km)", veiculo.KmAtual)
			}
			km = *in.KmAtual
			fields["km_atual"] = km
			veiculoFields["km_ultima_revisao"] = km
		}
		if veiculo.Status == models.VeiculoEmManutencao {
			veiculoFields["status"] = models.VeiculoAtivo
		}

		setIf(fields, "km_proxima", in.KmProxima)
		setIf(fields, "diagnostico", in.Diagnostico)
		setIf(fields, "observacoes", in.Observacoes)
		setIf(fields, "garantia_dias", in.GarantiaDias)
		setIf(fields, "garantia_km", in.GarantiaKm)
		if in.ServicosRealizados != nil {
			fields["servicos_realizados"] = models.StringList(in.ServicosRealizados)
		}
		if in.PecasSubstituidas != nil {
			fields["pecas_substituidas"] = models.StringList(in.PecasSubstituidas)
		}

		var dados models.DadosFinalizacao
		if in.Finalizacao != nil {
			dados = *in.Finalizacao
		}
		fin := models.AgregarFinalizacao(rev.Checklist, dados, now)
		fields["finalizacao"] = fin
		if in.KmProxima == nil && fin.ProximaRevisaoKm != nil {
			fields["km_proxima"] = *fin.ProximaRevisaoKm
		}

		derivarValorTotal(rev, fields)
		valorTotal := fields["valor_total"].(float64)

		ok, err := repos.Revisoes.UpdateFromStatus(id, []models.StatusRevisao{models.RevisaoAgendada, models.RevisaoEmAndamento}, fields)
		if err != nil {
			return err
		}
		if !ok {
			return BadRequest("Revisão foi alterada por outra operação")
		}

		if in.KmAtual != nil {
			ok, err := repos.Veiculos.UpdateFieldsKm(veiculo.ID, km, veiculoFields)
			if err != nil {
				return err
			}
			if !ok {
				return BadRequest("Quilometragem do veículo foi alterada por outra operação")
			}
		} else if len(veiculoFields) > 0 {
			if err := repos.Veiculos.UpdateFields(veiculo.ID, veiculoFields); err != nil {
				return err
			}
		}

		descricao := strings.TrimSpace(stringOr(in.Diagnostico, rev.Diagnostico))
		if descricao == "" {
			descricao = strings.TrimSpace(dados.Resumo)
		}
		if descricao == "" {
			descricao = fmt.Sprintf("Revisão %s concluída", strings.ToLower(string(rev.Tipo)))
		}
		if err := repos.Historico.Create(&models.HistoricoVeiculo{
			VeiculoID:  veiculo.ID,
			RevisaoID:  rev.ID,
			Km:         km,
			Data:       now,
			Descricao:  descricao,
			ValorTotal: valorTotal,
		}); err != nil {
			return err
		}

		recs := recomendacoesDaFinalizacao(rev, fin)
		for i := range recs {
			if err := repos.Recomendacoes.Create(&recs[i]); err != nil {
				return err
			}
		}
		recomendCnt = len(recs)

		if err := repos.Clientes.TouchUltimaVisita(rev.ClienteID, now); err != nil {
			return err
		}

		event = queue.RevisaoConcluidaEvent{
			RevisaoID:            rev.ID,
			ClienteID:            rev.ClienteID,
			VeiculoID:            veiculo.ID,
			Placa:                veiculo.Placa,
			ValorTotal:           valorTotal,
			ProblemasEncontrados: fin.ProblemasEncontrados,
			ProblemasCriticos:    fin.ProblemasCriticos,
			ConcluidaEm:          now.UTC().Format(time.RFC3339),
		}
		if in.KmAtual != nil {
			event.KmAtual = in.KmAtual
		}
		return nil
	})
	if err != nil {
		return nil, dbError(err, "Revisão não encontrada")
	}

	event.Recomendacoes = recomendCnt
	s.invalidateStats(ctx)
	s.publish(ctx, queue.QueueRevisaoConcluida, event)
	log.WithFields(log.Fields{"revisao_id": id, "status": models.RevisaoConcluida, "valor_total": event.ValorTotal}).Info("Revisão concluída")
	return s.GetByID(ctx, id)
}

// recomendacoesDaFinalizacao gera uma recomendação por item nao_ok e uma por
// recomendação informada na finalização (sem repetir o mesmo item).
func recomendacoesDaFinalizacao(rev *models.Revisao, fin models.Finalizacao) []models.Recomendacao {
	var out []models.Recomendacao
	vistos := map[string]bool{}
	revisaoID := rev.ID

	for _, item := range rev.Checklist.ItensComProblema() {
		descricao := item.DetalheProblema
		if descricao == "" {
			descricao = item.AcaoRecomendada
		}
		if descricao == "" {
			descricao = item.Observacoes
		}
		prioridade := item.Prioridade
		if !prioridade.Valid() {
			prioridade = models.PrioridadeMedia
		}
		out = append(out, models.Recomendacao{
			ClienteID:        rev.ClienteID,
			VeiculoID:        rev.VeiculoID,
			RevisaoID:        &revisaoID,
			Item:             item.Nome,
			Descricao:        descricao,
			Prioridade:       prioridade,
			CustoEstimado:    item.CustoEstimado,
			PrazoRecomendado: prazoPorPrioridade(prioridade),
			Status:           models.RecomendacaoPendente,
		})
		vistos[strings.ToLower(item.Nome)] = true
	}

	for _, r := range fin.Recomendacoes {
		if strings.TrimSpace(r.Item) == "" || vistos[strings.ToLower(r.Item)] {
			continue
		}
		vistos[strings.ToLower(r.Item)] = true

		rec := models.Recomendacao{
			ClienteID:        rev.ClienteID,
			VeiculoID:        rev.VeiculoID,
			RevisaoID:        &revisaoID,
			Item:             r.Item,
			Descricao:        r.Descricao,
			Prioridade:       r.Prioridade,
			PrazoRecomendado: r.PrazoRecomendado,
			Status:           models.RecomendacaoPendente,
		}
		if r.CustoEstimado > 0 {
			custo := r.CustoEstimado
			rec.CustoEstimado = &custo
		}
		if rec.PrazoRecomendado == "" {
			rec.PrazoRecomendado = prazoPorPrioridade(rec.Prioridade)
		}
		out = append(out, rec)
	}
	return out
}

func prazoPorPrioridade(p models.Prioridade) string {
	switch p {
	case models.PrioridadeCritica:
		return "Imediato"
	case models.PrioridadeAlta:
		return "30 dias"
	case models.PrioridadeMedia:
		return "90 dias"
	}
	return "Próxima revisão"
}

// Cancelar falha em revisões concluídas ou já canceladas. Libera o veículo em manutenção.
func (s *RevisaoService) Cancelar(ctx context.Context, id int64, motivo string) (*models.Revisao, error) {
	err := db.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)
		rev, err := repos.Revisoes.FindForUpdate(id)
		if err != nil {
			return dbError(err, "Revisão não encontrada")
		}
		switch rev.Status {
		case models.RevisaoConcluida:
			return BadRequest("Revisão já está concluída")
		case models.RevisaoCancelada:
			return BadRequest("Revisão já está cancelada")
		}

		fields := map[string]any{"status": models.RevisaoCancelada}
		if motivo = strings.TrimSpace(motivo); motivo != "" {
			fields["motivo_cancelamento"] = motivo
		}
		ok, err := repos.Revisoes.UpdateFromStatus(id, []models.StatusRevisao{models.RevisaoAgendada, models.RevisaoEmAndamento}, fields)
		if err != nil {
			return err
		}
		if !ok {
			return BadRequest("Revisão foi alterada por outra operação")
		}
		if rev.Status == models.RevisaoEmAndamento {
			return liberarVeiculo(repos, rev.VeiculoID)
		}
		return nil
	})
	if err != nil {
		return nil, dbError(err, "Revisão não encontrada")
	}

	s.invalidateStats(ctx)
	log.WithFields(log.Fields{"revisao_id": id, "status": models.RevisaoCancelada}).Info("Revisão cancelada")
	return s.GetByID(ctx, id)
}

// Reagendar muda a dataRevisao de uma revisão AGENDADA e libera um novo lembrete.
func (s *RevisaoService) Reagendar(ctx context.Context, id int64, novaData time.Time) (*models.Revisao, error) {
	if novaData.IsZero() {
		return nil, BadRequest("Nova data é obrigatória")
	}

	err := db.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)
		rev, err := repos.Revisoes.FindForUpdate(id)
		if err != nil {
			return dbError(err, "Revisão não encontrada")
		}
		if rev.Status != models.RevisaoAgendada {
			return BadRequest("Apenas revisões agendadas podem ser reagendadas (status atual: %s)", rev.Status)
		}
		ok, err := repos.Revisoes.UpdateFromStatus(id, []models.StatusRevisao{models.RevisaoAgendada}, map[string]any{
			"data_revisao":        novaData,
			"lembrete_enviado_em": gorm.Expr("NULL"),
		})
		if err != nil {
			return err
		}
		if !ok {
			return BadRequest("Revisão foi alterada por outra operação")
		}
		return nil
	})
	if err != nil {
		return nil, dbError(err, "Revisão não encontrada")
	}

	s.invalidateStats(ctx)
	log.WithFields(log.Fields{"revisao_id": id, "data_revisao": novaData}).Info("Revisão reagendada")
	return s.GetByID(ctx, id)
}

/************************************************
/**** MARK: CHECKLIST ****/
/************************************************/

// AtualizarItemChecklist altera um item; bloqueado em revisões concluídas ou canceladas.
func (s *RevisaoService) AtualizarItemChecklist(ctx context.Context, id int64, itemID string, patch models.ItemPatch) (*models.ItemChecklist, error) {
	var item models.ItemChecklist
	err := s.editChecklist(ctx, id, func(c models.Checklist) error {
		var err error
		item, err = c.AtualizarItem(itemID, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ResponderPergunta grava a resposta de uma pergunta de pré-diagnóstico.
func (s *RevisaoService) ResponderPergunta(ctx context.Context, id int64, perguntaID, resposta string) (*models.PerguntaPreDiagnostico, error) {
	var p models.PerguntaPreDiagnostico
	err := s.editChecklist(ctx, id, func(c models.Checklist) error {
		var err error
		p, err = c.ResponderPergunta(perguntaID, resposta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *RevisaoService) editChecklist(ctx context.Context, id int64, edit func(models.Checklist) error) error {
	err := db.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)
		rev, err := repos.Revisoes.FindForUpdate(id)
		if err != nil {
			return dbError(err, "Revisão não encontrada")
		}
		if rev.Status.Encerrada() {
			return BadRequest("Checklist não pode ser alterado em revisão %s", strings.ToLower(string(rev.Status)))
		}

		checklist := rev.Checklist
		if checklist == nil {
			checklist = models.NovoChecklist()
		}
		if err := edit(checklist); err != nil {
			return checklistError(err)
		}
		return repos.Revisoes.UpdateFields(id, map[string]any{"checklist": checklist})
	})
	return dbError(err, "Revisão não encontrada")
}

func checklistError(err error) error {
	switch {
	case errors.Is(err, models.ErrItemNaoEncontrado):
		return NotFound("Item do checklist não encontrado")
	case errors.Is(err, models.ErrPerguntaNaoEncontrada):
		return NotFound("Pergunta do checklist não encontrada")
	case errors.Is(err, models.ErrStatusItemInvalido),
		errors.Is(err, models.ErrPrioridadeInvalida),
		errors.Is(err, models.ErrRespostaInvalida):
		return BadRequest("%s", err.Error())
	}
	return err
}

/************************************************
/**** MARK: HELPERS ****/
/************************************************/

func validarMecanico(repos *repository.Repositories, id int64) error {
	m, err := repos.Mecanicos.FindByID(id)
	if err != nil {
		return dbError(err, "Mecânico não encontrado")
	}
	if !m.Ativo {
		return BadRequest("Mecânico inativo")
	}
	return nil
}

// liberarVeiculo devolve o veículo a ATIVO se ele estiver em manutenção.
func liberarVeiculo(repos *repository.Repositories, veiculoID int64) error {
	v, err := repos.Veiculos.FindByID(veiculoID)
	if err != nil {
		return dbError(err, "Veículo não encontrado")
	}
	if v.Status != models.VeiculoEmManutencao {
		return nil
	}
	return repos.Veiculos.UpdateFields(veiculoID, map[string]any{"status": models.VeiculoAtivo})
}

func (s *RevisaoService) invalidateStats(ctx context.Context) {
	if err := s.cache.Delete(ctx, StatsCacheKey); err != nil {
		log.WithError(err).Warn("Falha ao invalidar cache de estatísticas")
	}
}

// publish não falha a operação: o evento é best-effort depois do commit.
func (s *RevisaoService) publish(ctx context.Context, queueName string, payload any) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, queueName, payload); err != nil {
		log.WithError(err).WithField("queue", queueName).Warn("Falha ao publicar evento")
	}
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func stringOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}
