package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PerguntaPreDiagnostico é uma pergunta feita ao cliente antes da inspeção.
// Obrigatoria é apenas uma indicação para a interface; o checklist não bloqueia por ela.
type PerguntaPreDiagnostico struct {
	ID          string       `json:"id"`
	Pergunta    string       `json:"pergunta"`
	Tipo        TipoPergunta `json:"tipo"`
	Opcoes      []string     `json:"opcoes,omitempty"`
	Obrigatoria bool         `json:"obrigatoria"`
	Resposta    string       `json:"resposta,omitempty"`
}

type ItemChecklist struct {
	ID              string     `json:"id"`
	Nome            string     `json:"nome"`
	Categoria       string     `json:"categoria"`
	Obrigatorio     bool       `json:"obrigatorio"`
	Status          StatusItem `json:"status"`
	Prioridade      Prioridade `json:"prioridade"`
	Observacoes     string     `json:"observacoes,omitempty"`
	DetalheProblema string     `json:"detalheProblema,omitempty"`
	AcaoRecomendada string     `json:"acaoRecomendada,omitempty"`
	CustoEstimado   *float64   `json:"custoEstimado,omitempty"`
}

type CategoriaChecklist struct {
	ID        string                   `json:"id"`
	Nome      string                   `json:"nome"`
	Descricao string                   `json:"descricao"`
	Perguntas []PerguntaPreDiagnostico `json:"perguntas,omitempty"`
	Itens     []ItemChecklist          `json:"itens"`
}

// Checklist é persistido como JSON na coluna revisoes.checklist.
type Checklist []CategoriaChecklist

// ItemPatch carrega os campos alteráveis de um item; nil mantém o valor atual.
type ItemPatch struct {
	Status          *StatusItem `json:"status"`
	Prioridade      *Prioridade `json:"prioridade"`
	Observacoes     *string     `json:"observacoes"`
	DetalheProblema *string     `json:"detalheProblema"`
	AcaoRecomendada *string     `json:"acaoRecomendada"`
	CustoEstimado   *float64    `json:"custoEstimado"`
}

// ResumoChecklist é a contagem de itens por status.
type ResumoChecklist struct {
	Total          int  `json:"total"`
	Ok             int  `json:"ok"`
	NaoOk          int  `json:"naoOk"`
	NaoAplicavel   int  `json:"naoAplicavel"`
	Pendentes      int  `json:"pendentes"`
	Criticos       int  `json:"criticos"`
	Completo       bool `json:"completo"`
	Respondidas    int  `json:"perguntasRespondidas"`
	TotalPerguntas int  `json:"totalPerguntas"`
}

var (
	ErrItemNaoEncontrado     = fmt.Errorf("item do checklist não encontrado")
	ErrPerguntaNaoEncontrada = fmt.Errorf("pergunta do checklist não encontrada")
	ErrStatusItemInvalido    = fmt.Errorf("status do item inválido")
	ErrPrioridadeInvalida    = fmt.Errorf("prioridade inválida")
	ErrRespostaInvalida      = fmt.Errorf("resposta inválida para a pergunta")
)

/************************************************
/**** MARK: JSON COLUMN ****/
/************************************************/

func (c Checklist) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *Checklist) Scan(src interface{}) error {
	return scanJSON(src, c)
}

// StringList é uma lista de textos persistida como JSON (serviços, peças).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

func scanJSON(src interface{}, dest interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("tipo não suportado para coluna JSON: %T", src)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

/************************************************
/**** MARK: OPERATIONS ****/
/************************************************/

// Clone devolve uma cópia profunda, para que alterações não vazem entre revisões.
func (c Checklist) Clone() Checklist {
	if c == nil {
		return nil
	}
	out := make(Checklist, len(c))
	for i, cat := range c {
		out[i] = cat
		out[i].Itens = make([]ItemChecklist, len(cat.Itens))
		copy(out[i].Itens, cat.Itens)
		for j := range out[i].Itens {
			if v := cat.Itens[j].CustoEstimado; v != nil {
				custo := *v
				out[i].Itens[j].CustoEstimado = &custo
			}
		}
		if cat.Perguntas != nil {
			out[i].Perguntas = make([]PerguntaPreDiagnostico, len(cat.Perguntas))
			copy(out[i].Perguntas, cat.Perguntas)
			for j := range out[i].Perguntas {
				if cat.Perguntas[j].Opcoes != nil {
					out[i].Perguntas[j].Opcoes = append([]string(nil), cat.Perguntas[j].Opcoes...)
				}
			}
		}
	}
	return out
}

// Item devolve um ponteiro para o item dentro do checklist.
func (c Checklist) Item(itemID string) (*ItemChecklist, bool) {
	for i := range c {
		for j := range c[i].Itens {
			if c[i].Itens[j].ID == itemID {
				return &c[i].Itens[j], true
			}
		}
	}
	return nil, false
}

// AtualizarItem aplica o patch ao item itemID.
func (c Checklist) AtualizarItem(itemID string, patch ItemPatch) (ItemChecklist, error) {
	item, ok := c.Item(itemID)
	if !ok {
		return ItemChecklist{}, ErrItemNaoEncontrado
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return ItemChecklist{}, ErrStatusItemInvalido
	}
	if patch.Prioridade != nil && !patch.Prioridade.Valid() {
		return ItemChecklist{}, ErrPrioridadeInvalida
	}

	if patch.Status != nil {
		item.Status = *patch.Status
	}
	if patch.Prioridade != nil {
		item.Prioridade = *patch.Prioridade
	}
	if patch.Observacoes != nil {
		item.Observacoes = *patch.Observacoes
	}
	if patch.DetalheProblema != nil {
		item.DetalheProblema = *patch.DetalheProblema
	}
	if patch.AcaoRecomendada != nil {
		item.AcaoRecomendada = *patch.AcaoRecomendada
	}
	if patch.CustoEstimado != nil {
		custo := *patch.CustoEstimado
		item.CustoEstimado = &custo
	}
	return *item, nil
}

// ResponderPergunta grava a resposta de uma pergunta de pré-diagnóstico.
func (c Checklist) ResponderPergunta(perguntaID, resposta string) (PerguntaPreDiagnostico, error) {
	for i := range c {
		for j := range c[i].Perguntas {
			p := &c[i].Perguntas[j]
			if p.ID != perguntaID {
				continue
			}
			resposta = strings.TrimSpace(resposta)
			switch p.Tipo {
			case PerguntaSimNao:
				r := strings.ToLower(resposta)
				if r != "sim" && r != "nao" && r != "não" && r != "" {
					return PerguntaPreDiagnostico{}, ErrRespostaInvalida
				}
				if r == "não" {
					r = "nao"
				}
				resposta = r
			case PerguntaMultiplaEscolha:
				if resposta != "" && !contains(p.Opcoes, resposta) {
					return PerguntaPreDiagnostico{}, ErrRespostaInvalida
				}
			}
			p.Resposta = resposta
			return *p, nil
		}
	}
	return PerguntaPreDiagnostico{}, ErrPerguntaNaoEncontrada
}

// Completo é verdadeiro quando nenhum item está pendente.
// Perguntas não entram na conta, mesmo as obrigatórias.
func (c Checklist) Completo() bool {
	for _, cat := range c {
		for _, item := range cat.Itens {
			if item.Status == ItemPendente || item.Status == "" {
				return false
			}
		}
	}
	return true
}

// ItensComProblema lista os itens nao_ok, na ordem do checklist.
func (c Checklist) ItensComProblema() []ItemChecklist {
	var out []ItemChecklist
	for _, cat := range c {
		for _, item := range cat.Itens {
			if item.Status == ItemNaoOk {
				out = append(out, item)
			}
		}
	}
	return out
}

func (c Checklist) Resumo() ResumoChecklist {
	var r ResumoChecklist
	for _, cat := range c {
		for _, item := range cat.Itens {
			r.Total++
			switch item.Status {
			case ItemOk:
				r.Ok++
			case ItemNaoOk:
				r.NaoOk++
				if item.Prioridade == PrioridadeCritica {
					r.Criticos++
				}
			case ItemNaoAplicavel:
				r.NaoAplicavel++
			default:
				r.Pendentes++
			}
		}
		for _, p := range cat.Perguntas {
			r.TotalPerguntas++
			if p.Resposta != "" {
				r.Respondidas++
			}
		}
	}
	r.Completo = r.Pendentes == 0
	return r
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
