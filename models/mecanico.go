package models

import "time"

// Mecanico é o profissional que pode ser atribuído a uma revisão.
type Mecanico struct {
	ID             int64     `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID         *int64    `gorm:"index" json:"userId,omitempty"`
	Nome           string    `gorm:"not null" json:"nome"`
	Email          string    `gorm:"not null;unique_index" json:"email"`
	Telefone       string    `json:"telefone"`
	Especialidades string    `json:"especialidades"`
	Ativo          bool      `gorm:"not null" json:"ativo"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Mecanico) TableName() string { return "mecanicos" }
