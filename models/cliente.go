package models

import "time"

// Cliente é o cadastro do cliente da oficina (distinto da conta de login).
// cpf e email são únicos entre todos os clientes.
type Cliente struct {
	ID             int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID         *int64     `gorm:"index" json:"userId,omitempty"`
	Nome           string     `gorm:"not null" json:"nome"`
	Sobrenome      string     `json:"sobrenome"`
	CPF            string     `gorm:"column:cpf;not null;unique_index" json:"cpf"`
	RG             string     `gorm:"column:rg" json:"rg"`
	DataNascimento *time.Time `json:"dataNascimento,omitempty"`
	Profissao      string     `json:"profissao"`

	Email     string `gorm:"not null;unique_index" json:"email"`
	Telefone  string `json:"telefone"`
	Telefone2 string `gorm:"column:telefone2" json:"telefone2"`
	Whatsapp  string `json:"whatsapp"`

	CEP         string `gorm:"column:cep" json:"cep"`
	Logradouro  string `json:"logradouro"`
	Numero      string `json:"numero"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade"`
	Estado      string `json:"estado"`

	Status            StatusCliente `gorm:"not null;index" json:"status"`
	NotificarEmail    bool          `gorm:"not null" json:"notificarEmail"`
	NotificarWhatsapp bool          `gorm:"not null" json:"notificarWhatsapp"`
	NotificarSMS      bool          `gorm:"column:notificar_sms;not null" json:"notificarSms"`
	UltimaVisita      *time.Time    `json:"ultimaVisita,omitempty"`

	Veiculos []Veiculo `gorm:"foreignkey:ClienteID;association_autoupdate:false;association_autocreate:false" json:"veiculos,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Cliente) TableName() string { return "clientes" }

// NomeCompleto junta nome e sobrenome.
func (c Cliente) NomeCompleto() string {
	if c.Sobrenome == "" {
		return c.Nome
	}
	return c.Nome + " " + c.Sobrenome
}

// AceitaNotificacao indica se o cliente aceita receber algum lembrete.
func (c Cliente) AceitaNotificacao() bool {
	return c.NotificarEmail || c.NotificarWhatsapp || c.NotificarSMS
}
