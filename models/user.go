package models

import "time"

// User representa a conta de acesso (login). O cadastro do cliente da oficina
// fica em Cliente e aponta para cá via UserID.
type User struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Nome        string     `gorm:"not null" json:"nome"`
	Email       string     `gorm:"not null;unique_index" json:"email"`
	SenhaHash   string     `gorm:"column:senha_hash;not null" json:"-"`
	Role        Role       `gorm:"not null" json:"role"`
	Ativo       bool       `gorm:"not null" json:"ativo"`
	UltimoLogin *time.Time `json:"ultimoLogin,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (User) TableName() string { return "usuarios" }
