package models

import "time"

// Revisao é o atendimento de manutenção de um veículo.
// ValorTotal é sempre ValorServico + ValorPecas; nunca é gravado de forma independente.
type Revisao struct {
	ID         int64         `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ClienteID  int64         `gorm:"not null;index" json:"clienteId"`
	VeiculoID  int64         `gorm:"not null;index" json:"veiculoId"`
	MecanicoID *int64        `gorm:"index" json:"mecanicoId,omitempty"`
	Tipo       TipoRevisao   `gorm:"not null" json:"tipo"`
	Status     StatusRevisao `gorm:"not null;index" json:"status"`

	DataAgendamento time.Time  `gorm:"not null" json:"dataAgendamento"`
	DataRevisao     time.Time  `gorm:"not null;index" json:"dataRevisao"`
	DataInicio      *time.Time `json:"dataInicio,omitempty"`
	DataConclusao   *time.Time `json:"dataConclusao,omitempty"`

	KmAtual   *int `json:"kmAtual,omitempty"`
	KmProxima *int `json:"kmProxima,omitempty"`

	Checklist          Checklist  `gorm:"type:text" json:"checklist"`
	ServicosRealizados StringList `gorm:"type:text" json:"servicosRealizados"`
	PecasSubstituidas  StringList `gorm:"type:text" json:"pecasSubstituidas"`

	ValorServico float64 `gorm:"not null" json:"valorServico"`
	ValorPecas   float64 `gorm:"not null" json:"valorPecas"`
	ValorTotal   float64 `gorm:"not null" json:"valorTotal"`

	Diagnostico        string       `gorm:"type:text" json:"diagnostico"`
	GarantiaDias       *int         `json:"garantiaDias,omitempty"`
	GarantiaKm         *int         `json:"garantiaKm,omitempty"`
	Observacoes        string       `gorm:"type:text" json:"observacoes"`
	MotivoCancelamento string       `gorm:"type:text" json:"motivoCancelamento,omitempty"`
	Finalizacao        *Finalizacao `gorm:"type:text" json:"finalizacao,omitempty"`
	LembreteEnviadoEm  *time.Time   `json:"lembreteEnviadoEm,omitempty"`

	Cliente  *Cliente  `gorm:"foreignkey:ClienteID;association_autoupdate:false;association_autocreate:false" json:"cliente,omitempty"`
	Veiculo  *Veiculo  `gorm:"foreignkey:VeiculoID;association_autoupdate:false;association_autocreate:false" json:"veiculo,omitempty"`
	Mecanico *Mecanico `gorm:"foreignkey:MecanicoID;association_autoupdate:false;association_autocreate:false" json:"mecanico,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Revisao) TableName() string { return "revisoes" }

// RecalcularTotal reaplica a regra valorTotal = valorServico + valorPecas.
func (r *Revisao) RecalcularTotal() {
	r.ValorTotal = r.ValorServico + r.ValorPecas
}

// Recomendacao é uma sugestão de serviço gerada na finalização de uma revisão.
type Recomendacao struct {
	ID               int64              `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ClienteID        int64              `gorm:"not null;index" json:"clienteId"`
	VeiculoID        int64              `gorm:"not null;index" json:"veiculoId"`
	RevisaoID        *int64             `gorm:"index" json:"revisaoId,omitempty"`
	Item             string             `gorm:"not null" json:"item"`
	Descricao        string             `gorm:"type:text" json:"descricao"`
	Prioridade       Prioridade         `gorm:"not null" json:"prioridade"`
	CustoEstimado    *float64           `json:"custoEstimado,omitempty"`
	PrazoRecomendado string             `json:"prazoRecomendado,omitempty"`
	Status           StatusRecomendacao `gorm:"not null;index" json:"status"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

func (Recomendacao) TableName() string { return "recomendacoes" }
