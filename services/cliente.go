package services

import (
	"context"
	"strings"
	"time"

	"checar/db"
	"checar/models"
	"checar/pagination"
	"checar/repository"
	"checar/tools"

	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"
)

type ClienteInput struct {
	Nome              string               `json:"nome" binding:"required,min=2"`
	Sobrenome         string               `json:"sobrenome"`
	CPF               string               `json:"cpf" binding:"required,cpf"`
	RG                string               `json:"rg"`
	DataNascimento    *time.Time           `json:"dataNascimento"`
	Profissao         string               `json:"profissao"`
	Email             string               `json:"email" binding:"required,email"`
	Telefone          string               `json:"telefone"`
	Telefone2         string               `json:"telefone2"`
	Whatsapp          string               `json:"whatsapp"`
	CEP               string               `json:"cep"`
	Logradouro        string               `json:"logradouro"`
	Numero            string               `json:"numero"`
	Complemento       string               `json:"complemento"`
	Bairro            string               `json:"bairro"`
	Cidade            string               `json:"cidade"`
	Estado            string               `json:"estado"`
	Status            models.StatusCliente `json:"status"`
	NotificarEmail    *bool                `json:"notificarEmail"`
	NotificarWhatsapp *bool                `json:"notificarWhatsapp"`
	NotificarSMS      *bool                `json:"notificarSms"`
}

// ClienteUpdateInput: campos nil não são alterados.
type ClienteUpdateInput struct {
	Nome              *string               `json:"nome" binding:"omitempty,min=2"`
	Sobrenome         *string               `json:"sobrenome"`
	CPF               *string               `json:"cpf" binding:"omitempty,cpf"`
	RG                *string               `json:"rg"`
	DataNascimento    *time.Time            `json:"dataNascimento"`
	Profissao         *string               `json:"profissao"`
	Email             *string               `json:"email" binding:"omitempty,email"`
	Telefone          *string               `json:"telefone"`
	Telefone2         *string               `json:"telefone2"`
	Whatsapp          *string               `json:"whatsapp"`
	CEP               *string               `json:"cep"`
	Logradouro        *string               `json:"logradouro"`
	Numero            *string               `json:"numero"`
	Complemento       *string               `json:"complemento"`
	Bairro            *string               `json:"bairro"`
	Cidade            *string               `json:"cidade"`
	Estado            *string               `json:"estado"`
	Status            *models.StatusCliente `json:"status"`
	NotificarEmail    *bool                 `json:"notificarEmail"`
	NotificarWhatsapp *bool                 `json:"notificarWhatsapp"`
	NotificarSMS      *bool                 `json:"notificarSms"`
}

type ClienteService struct {
	db    *gorm.DB
	repos *repository.Repositories
}

func NewClienteService(database *gorm.DB) *ClienteService {
	return &ClienteService{db: database, repos: repository.New(database)}
}

func (s *ClienteService) List(ctx context.Context, params pagination.Params, f repository.ClienteFiltros) (pagination.Result[models.Cliente], error) {
	res, err := s.repos.Clientes.List(params, f)
	if err != nil {
		return res, dbError(err, "")
	}
	return res, nil
}

func (s *ClienteService) GetByID(ctx context.Context, id int64) (*models.Cliente, error) {
	c, err := s.repos.Clientes.FindByID(id)
	if err != nil {
		return nil, dbError(err, "Cliente não encontrado")
	}
	return c, nil
}

func (s *ClienteService) GetByCpf(ctx context.Context, cpf string) (*models.Cliente, error) {
	c, err := s.repos.Clientes.FindByCPF(tools.NormalizeCPF(cpf))
	if err != nil {
		return nil, dbError(err, "Cliente não encontrado")
	}
	return c, nil
}

func (s *ClienteService) GetByEmail(ctx context.Context, email string) (*models.Cliente, error) {
	c, err := s.repos.Clientes.FindByEmail(tools.NormalizeEmail(email))
	if err != nil {
		return nil, dbError(err, "Cliente não encontrado")
	}
	return c, nil
}

func (s *ClienteService) Create(ctx context.Context, in ClienteInput) (*models.Cliente, error) {
	c, err := createCliente(s.repos, in, nil)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"cliente_id": c.ID}).Info("Cliente criado")
	return c, nil
}

// createCliente valida e insere o cliente com os repositórios recebidos
// (que podem estar presos a uma transação).
func createCliente(repos *repository.Repositories, in ClienteInput, userID *int64) (*models.Cliente, error) {
	cpf := tools.NormalizeCPF(in.CPF)
	email := tools.NormalizeEmail(in.Email)

	if strings.TrimSpace(in.Nome) == "" {
		return nil, BadRequest("Nome é obrigatório")
	}
	if !tools.ValidateCPF(cpf) {
		return nil, BadRequest("CPF inválido")
	}
	if !tools.ValidateEmail(email) {
		return nil, BadRequest("E-mail inválido")
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, BadRequest("Status inválido")
	}
	if in.Estado != "" && !tools.ValidateUF(in.Estado) {
		return nil, BadRequest("Estado inválido")
	}
	if err := validarTelefones(in.Telefone, in.Telefone2, in.Whatsapp); err != nil {
		return nil, err
	}

	if exists, err := repos.Clientes.ExistsCPF(cpf, 0); err != nil {
		return nil, dbError(err, "")
	} else if exists {
		return nil, Conflict("CPF já cadastrado")
	}
	if exists, err := repos.Clientes.ExistsEmail(email, 0); err != nil {
		return nil, dbError(err, "")
	} else if exists {
		return nil, Conflict("E-mail já cadastrado")
	}

	c := models.Cliente{
		UserID:            userID,
		Nome:              strings.TrimSpace(in.Nome),
		Sobrenome:         strings.TrimSpace(in.Sobrenome),
		CPF:               cpf,
		RG:                in.RG,
		DataNascimento:    in.DataNascimento,
		Profissao:         in.Profissao,
		Email:             email,
		Telefone:          in.Telefone,
		Telefone2:         in.Telefone2,
		Whatsapp:          in.Whatsapp,
		CEP:               tools.NormalizeCEP(in.CEP),
		Logradouro:        in.Logradouro,
		Numero:            in.Numero,
		Complemento:       in.Complemento,
		Bairro:            in.Bairro,
		Cidade:            in.Cidade,
		Estado:            strings.ToUpper(strings.TrimSpace(in.Estado)),
		Status:            models.ClienteAtivo,
		NotificarEmail:    boolOr(in.NotificarEmail, true),
		NotificarWhatsapp: boolOr(in.NotificarWhatsapp, true),
		NotificarSMS:      boolOr(in.NotificarSMS, false),
	}
	if in.Status != "" {
		c.Status = in.Status
	}

	if err := repos.Clientes.Create(&c); err != nil {
		return nil, dbError(err, "")
	}
	return &c, nil
}

func (s *ClienteService) Update(ctx context.Context, id int64, in ClienteUpdateInput) (*models.Cliente, error) {
	current, err := s.repos.Clientes.FindByID(id)
	if err != nil {
		return nil, dbError(err, "Cliente não encontrado")
	}

	fields := map[string]any{}
	if in.CPF != nil {
		cpf := tools.NormalizeCPF(*in.CPF)
		if !tools.ValidateCPF(cpf) {
			return nil, BadRequest("CPF inválido")
		}
		if cpf != current.CPF {
			if exists, err := s.repos.Clientes.ExistsCPF(cpf, id); err != nil {
				return nil, dbError(err, "")
			} else if exists {
				return nil, Conflict("CPF já cadastrado")
			}
		}
		fields["cpf"] = cpf
	}
	if in.Email != nil {
		email := tools.NormalizeEmail(*in.Email)
		if !tools.ValidateEmail(email) {
			return nil, BadRequest("E-mail inválido")
		}
		if email != current.Email {
			if exists, err := s.repos.Clientes.ExistsEmail(email, id); err != nil {
				return nil, dbError(err, "")
			} else if exists {
				return nil, Conflict("E-mail já cadastrado")
			}
			if current.UserID != nil {
				if err := s.emailLivreParaLogin(email, *current.UserID); err != nil {
					return nil, err
				}
			}
		}
		fields["email"] = email
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, BadRequest("Status inválido")
		}
		fields["status"] = *in.Status
	}
	if in.Nome != nil {
		if strings.TrimSpace(*in.Nome) == "" {
			return nil, BadRequest("Nome é obrigatório")
		}
		fields["nome"] = strings.TrimSpace(*in.Nome)
	}
	if in.Estado != nil {
		if *in.Estado != "" && !tools.ValidateUF(*in.Estado) {
			return nil, BadRequest("Estado inválido")
		}
		fields["estado"] = strings.ToUpper(strings.TrimSpace(*in.Estado))
	}
	if in.CEP != nil {
		fields["cep"] = tools.NormalizeCEP(*in.CEP)
	}
	if in.DataNascimento != nil {
		fields["data_nascimento"] = *in.DataNascimento
	}
	if err := validarTelefones(deref(in.Telefone), deref(in.Telefone2), deref(in.Whatsapp)); err != nil {
		return nil, err
	}
	setIf(fields, "sobrenome", in.Sobrenome)
	setIf(fields, "rg", in.RG)
	setIf(fields, "profissao", in.Profissao)
	setIf(fields, "telefone", in.Telefone)
	setIf(fields, "telefone2", in.Telefone2)
	setIf(fields, "whatsapp", in.Whatsapp)
	setIf(fields, "logradouro", in.Logradouro)
	setIf(fields, "numero", in.Numero)
	setIf(fields, "complemento", in.Complemento)
	setIf(fields, "bairro", in.Bairro)
	setIf(fields, "cidade", in.Cidade)
	setIf(fields, "notificar_email", in.NotificarEmail)
	setIf(fields, "notificar_whatsapp", in.NotificarWhatsapp)
	setIf(fields, "notificar_sms", in.NotificarSMS)

	if len(fields) > 0 {
		// o login usa o mesmo e-mail do cadastro
		err := db.Transaction(ctx, s.db, func(tx *gorm.DB) error {
			repos := s.repos.WithTx(tx)
			if err := repos.Clientes.UpdateFields(id, fields); err != nil {
				return err
			}
			if email, ok := fields["email"]; ok && current.UserID != nil {
				return repos.Users.UpdateFields(*current.UserID, map[string]any{"email": email})
			}
			return nil
		})
		if err != nil {
			return nil, dbError(err, "Cliente não encontrado")
		}
	}
	return s.GetByID(ctx, id)
}

// emailLivreParaLogin falha se o e-mail já for de outra conta de login.
func (s *ClienteService) emailLivreParaLogin(email string, userID int64) error {
	u, err := s.repos.Users.FindByEmail(email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil
		}
		return dbError(err, "")
	}
	if u.ID == userID {
		return nil
	}
	return Conflict("E-mail já cadastrado")
}

// Delete é lógico: cliente fica INATIVO e a conta de login é desativada, na mesma transação.
func (s *ClienteService) Delete(ctx context.Context, id int64) error {
	c, err := s.repos.Clientes.FindByID(id)
	if err != nil {
		return dbError(err, "Cliente não encontrado")
	}

	err = db.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)
		if err := repos.Clientes.UpdateFields(id, map[string]any{"status": models.ClienteInativo}); err != nil {
			return err
		}
		if c.UserID != nil {
			if err := repos.Users.SetAtivo(*c.UserID, false); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dbError(err, "Cliente não encontrado")
	}

	log.WithFields(log.Fields{"cliente_id": id}).Info("Cliente inativado")
	return nil
}

// validarTelefones ignora os vazios.
func validarTelefones(telefones ...string) error {
	for _, t := range telefones {
		if strings.TrimSpace(t) != "" && !tools.ValidateTelefone(t) {
			return BadRequest("Telefone inválido: %s", t)
		}
	}
	return nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func setIf[T any](fields map[string]any, column string, v *T) {
	if v != nil {
		fields[column] = *v
	}
}
