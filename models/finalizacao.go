package models

import (
	"database/sql/driver"
	"encoding/json"
	"sort"
	"time"
)

// RecomendacaoFinalizacao é uma recomendação informada pelo mecânico ao finalizar.
type RecomendacaoFinalizacao struct {
	Item             string     `json:"item" binding:"required"`
	Descricao        string     `json:"descricao"`
	Prioridade       Prioridade `json:"prioridade"`
	CustoEstimado    float64    `json:"custoEstimado"`
	PrazoRecomendado string     `json:"prazoRecomendado"`
}

// DadosFinalizacao é o resumo preenchido por quem encerra a revisão.
type DadosFinalizacao struct {
	Resumo             string                    `json:"resumo"`
	Recomendacoes      []RecomendacaoFinalizacao `json:"recomendacoes"`
	CustoEstimadoTotal float64                   `json:"custoEstimadoTotal"`
	TempoEstimado      string                    `json:"tempoEstimado"`
	ProximaRevisaoData *time.Time                `json:"proximaRevisaoData,omitempty"`
	ProximaRevisaoKm   *int                      `json:"proximaRevisaoKm,omitempty"`
}

// Finalizacao é o agregado gravado na revisão concluída.
type Finalizacao struct {
	DadosFinalizacao
	ProblemasEncontrados int       `json:"problemasEncontrados"`
	ProblemasCriticos    int       `json:"problemasCriticos"`
	ItensVerificados     int       `json:"itensVerificados"`
	GeradoEm             time.Time `json:"geradoEm"`
}

func (f Finalizacao) Value() (driver.Value, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (f *Finalizacao) Scan(src interface{}) error {
	return scanJSON(src, f)
}

// AgregarFinalizacao conta os problemas do checklist e junta os dados informados.
// Recomendações são ordenadas por prioridade (crítica primeiro). Não altera o status da revisão.
func AgregarFinalizacao(checklist Checklist, dados DadosFinalizacao, agora time.Time) Finalizacao {
	resumo := checklist.Resumo()

	recs := make([]RecomendacaoFinalizacao, len(dados.Recomendacoes))
	copy(recs, dados.Recomendacoes)
	for i := range recs {
		if !recs[i].Prioridade.Valid() {
			recs[i].Prioridade = PrioridadeMedia
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Prioridade.Peso() > recs[j].Prioridade.Peso()
	})
	dados.Recomendacoes = recs

	if dados.CustoEstimadoTotal == 0 {
		for _, r := range recs {
			dados.CustoEstimadoTotal += r.CustoEstimado
		}
	}

	return Finalizacao{
		DadosFinalizacao:     dados,
		ProblemasEncontrados: resumo.NaoOk,
		ProblemasCriticos:    resumo.Criticos,
		ItensVerificados:     resumo.Total - resumo.Pendentes,
		GeradoEm:             agora,
	}
}
