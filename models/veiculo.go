package models

import "time"

// Veiculo pertence a exatamente um Cliente. placa é única; chassi e renavam
// são únicos quando preenchidos (NULL não conflita).
type Veiculo struct {
	ID              int64         `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ClienteID       int64         `gorm:"not null;index" json:"clienteId"`
	Marca           string        `gorm:"not null" json:"marca"`
	Modelo          string        `gorm:"not null" json:"modelo"`
	Ano             int           `gorm:"not null" json:"ano"`
	AnoModelo       int           `json:"anoModelo"`
	Placa           string        `gorm:"not null;unique_index" json:"placa"`
	Cor             string        `json:"cor"`
	Chassi          *string       `gorm:"unique_index" json:"chassi,omitempty"`
	Renavam         *string       `gorm:"unique_index" json:"renavam,omitempty"`
	Motor           string        `json:"motor"`
	Combustivel     string        `json:"combustivel"`
	Cambio          string        `json:"cambio"`
	KmAtual         int           `gorm:"not null" json:"kmAtual"`
	KmUltimaRevisao int           `gorm:"not null" json:"kmUltimaRevisao"`
	Status          StatusVeiculo `gorm:"not null;index" json:"status"`
	Observacoes     string        `gorm:"type:text" json:"observacoes"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func (Veiculo) TableName() string { return "veiculos" }

// HistoricoVeiculo guarda uma linha por revisão concluída do veículo.
type HistoricoVeiculo struct {
	ID         int64     `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	VeiculoID  int64     `gorm:"not null;index" json:"veiculoId"`
	RevisaoID  int64     `gorm:"not null;index" json:"revisaoId"`
	Km         int       `gorm:"not null" json:"km"`
	Data       time.Time `gorm:"not null" json:"data"`
	Descricao  string    `gorm:"type:text" json:"descricao"`
	ValorTotal float64   `gorm:"not null" json:"valorTotal"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (HistoricoVeiculo) TableName() string { return "historico_veiculos" }
