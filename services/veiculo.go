package services

import (
	"context"
	"strings"

	"checar/db"
	"checar/models"
	"checar/pagination"
	"checar/repository"
	"checar/tools"

	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"
)

type VeiculoInput struct {
	ClienteID   int64                `json:"clienteId" binding:"required,gt=0"`
	Marca       string               `json:"marca" binding:"required"`
	Modelo      string               `json:"modelo" binding:"required"`
	Ano         int                  `json:"ano" binding:"required,gte=1900,lte=2100"`
	AnoModelo   int                  `json:"anoModelo" binding:"omitempty,gte=1900,lte=2101"`
	Placa       string               `json:"placa" binding:"required,placa"`
	Cor         string               `json:"cor"`
	Chassi      string               `json:"chassi"`
	Renavam     string               `json:"renavam"`
	Motor       string               `json:"motor"`
	Combustivel string               `json:"combustivel"`
	Cambio      string               `json:"cambio"`
	KmAtual     int                  `json:"kmAtual" binding:"gte=0"`
	Status      models.StatusVeiculo `json:"status"`
	Observacoes string               `json:"observacoes"`
}

type VeiculoUpdateInput struct {
	Marca       *string               `json:"marca"`
	Modelo      *string               `json:"modelo"`
	Ano         *int                  `json:"ano" binding:"omitempty,gte=1900,lte=2100"`
	AnoModelo   *int                  `json:"anoModelo" binding:"omitempty,gte=1900,lte=2101"`
	Placa       *string               `json:"placa" binding:"omitempty,placa"`
	Cor         *string               `json:"cor"`
	Chassi      *string               `json:"chassi"`
	Renavam     *string               `json:"renavam"`
	Motor       *string               `json:"motor"`
	Combustivel *string               `json:"combustivel"`
	Cambio      *string               `json:"cambio"`
	KmAtual     *int                  `json:"kmAtual" binding:"omitempty,gte=0"`
	Status      *models.StatusVeiculo `json:"status"`
	Observacoes *string               `json:"observacoes"`
}

type VeiculoService struct {
	db    *gorm.DB
	repos *repository.Repositories
}

func NewVeiculoService(database *gorm.DB) *VeiculoService {
	return &VeiculoService{db: database, repos: repository.New(database)}
}

func (s *VeiculoService) List(ctx context.Context, params pagination.Params, f repository.VeiculoFiltros) (pagination.Result[models.Veiculo], error) {
	res, err := s.repos.Veiculos.List(params, f)
	if err != nil {
		return res, dbError(err, "")
	}
	return res, nil
}

func (s *VeiculoService) GetByID(ctx context.Context, id int64) (*models.Veiculo, error) {
	v, err := s.repos.Veiculos.FindByID(id)
	if err != nil {
		return nil, dbError(err, "Veículo não encontrado")
	}
	return v, nil
}

func (s *VeiculoService) GetByPlaca(ctx context.Context, placa string) (*models.Veiculo, error) {
	v, err := s.repos.Veiculos.FindByPlaca(tools.NormalizePlaca(placa))
	if err != nil {
		return nil, dbError(err, "Veículo não encontrado")
	}
	return v, nil
}

func (s *VeiculoService) GetByClienteID(ctx context.Context, clienteID int64) ([]models.Veiculo, error) {
	if _, err := s.repos.Clientes.FindByID(clienteID); err != nil {
		return nil, dbError(err, "Cliente não encontrado")
	}
	list, err := s.repos.Veiculos.FindByClienteID(clienteID)
	if err != nil {
		return nil, dbError(err, "")
	}
	return list, nil
}

func (s *VeiculoService) Create(ctx context.Context, in VeiculoInput) (*models.Veiculo, error) {
	if _, err := s.repos.Clientes.FindByID(in.ClienteID); err != nil {
		return nil, dbError(err, "Cliente não encontrado")
	}

	placa := tools.NormalizePlaca(in.Placa)
	if !tools.ValidatePlaca(placa) {
		return nil, BadRequest("Placa inválida")
	}
	if strings.TrimSpace(in.Marca) == "" || strings.TrimSpace(in.Modelo) == "" {
		return nil, BadRequest("Marca e modelo são obrigatórios")
	}
	if in.KmAtual < 0 {
		return nil, BadRequest("Quilometragem inválida")
	}
	if in.Status != "" {
		if err := validarStatusManual(in.Status); err != nil {
			return nil, err
		}
	}

	chassi := optionalUpper(in.Chassi)
	renavam := optionalDigits(in.Renavam)
	if err := s.checkUnique(placa, chassi, renavam, 0); err != nil {
		return nil, err
	}

	v := models.Veiculo{
		ClienteID:   in.ClienteID,
		Marca:       strings.TrimSpace(in.Marca),
		Modelo:      strings.TrimSpace(in.Modelo),
		Ano:         in.Ano,
		AnoModelo:   in.AnoModelo,
		Placa:       placa,
		Cor:         in.Cor,
		Chassi:      chassi,
		Renavam:     renavam,
		Motor:       in.Motor,
		Combustivel: in.Combustivel,
		Cambio:      in.Cambio,
		KmAtual:     in.KmAtual,
		Status:      models.VeiculoAtivo,
		Observacoes: in.Observacoes,
	}
	if v.AnoModelo == 0 {
		v.AnoModelo = v.Ano
	}
	if in.Status != "" {
		v.Status = in.Status
	}

	if err := s.repos.Veiculos.Create(&v); err != nil {
		return nil, dbError(err, "")
	}
	log.WithFields(log.Fields{"veiculo_id": v.ID, "cliente_id": v.ClienteID}).Info("Veículo criado")
	return &v, nil
}

func (s *VeiculoService) checkUnique(placa string, chassi, renavam *string, exceptID int64) error {
	if placa != "" {
		if exists, err := s.repos.Veiculos.ExistsBy("placa", placa, exceptID); err != nil {
			return dbError(err, "")
		} else if exists {
			return Conflict("Placa já cadastrada")
		}
	}
	if chassi != nil {
		if exists, err := s.repos.Veiculos.ExistsBy("chassi", *chassi, exceptID); err != nil {
			return dbError(err, "")
		} else if exists {
			return Conflict("Chassi já cadastrado")
		}
	}
	if renavam != nil {
		if exists, err := s.repos.Veiculos.ExistsBy("renavam", *renavam, exceptID); err != nil {
			return dbError(err, "")
		} else if exists {
			return Conflict("Renavam já cadastrado")
		}
	}
	return nil
}

func (s *VeiculoService) Update(ctx context.Context, id int64, in VeiculoUpdateInput) (*models.Veiculo, error) {
	current, err := s.repos.Veiculos.FindByID(id)
	if err != nil {
		return nil, dbError(err, "Veículo não encontrado")
	}

	fields := map[string]any{}
	var (
		placa           string
		chassi, renavam *string
	)
	if in.Placa != nil {
		placa = tools.NormalizePlaca(*in.Placa)
		if !tools.ValidatePlaca(placa) {
			return nil, BadRequest("Placa inválida")
		}
		if placa == current.Placa {
			placa = ""
		} else {
			fields["placa"] = placa
		}
	}
	if in.Chassi != nil {
		chassi = optionalUpper(*in.Chassi)
		fields["chassi"] = chassi
	}
	if in.Renavam != nil {
		renavam = optionalDigits(*in.Renavam)
		fields["renavam"] = renavam
	}
	if err := s.checkUnique(placa, chassi, renavam, id); err != nil {
		return nil, err
	}

	if in.KmAtual != nil && *in.KmAtual < current.KmAtual {
		return nil, BadRequest("Quilometragem não pode ser menor que a atual (%d km)", current.KmAtual)
	}
	if in.Status != nil && *in.Status != current.Status {
		if err := validarStatusManual(*in.Status); err != nil {
			return nil, err
		}
		if current.Status == models.VeiculoEmManutencao {
			return nil, BadRequest("Veículo em manutenção: o status volta a ATIVO ao encerrar a revisão")
		}
		fields["status"] = *in.Status
	}
	setIf(fields, "marca", in.Marca)
	setIf(fields, "modelo", in.Modelo)
	setIf(fields, "ano", in.Ano)
	setIf(fields, "ano_modelo", in.AnoModelo)
	setIf(fields, "cor", in.Cor)
	setIf(fields, "motor", in.Motor)
	setIf(fields, "combustivel", in.Combustivel)
	setIf(fields, "cambio", in.Cambio)
	setIf(fields, "observacoes", in.Observacoes)

	switch {
	case in.KmAtual != nil:
		ok, err := s.repos.Veiculos.UpdateFieldsKm(id, *in.KmAtual, fields)
		if err != nil {
			return nil, dbError(err, "Veículo não encontrado")
		}
		if !ok {
			return nil, s.kmRegrediu(id)
		}
	case len(fields) > 0:
		if err := s.repos.Veiculos.UpdateFields(id, fields); err != nil {
			return nil, dbError(err, "Veículo não encontrado")
		}
	}
	return s.GetByID(ctx, id)
}

// UpdateKilometragem só aceita valores maiores ou iguais ao atual.
func (s *VeiculoService) UpdateKilometragem(ctx context.Context, id int64, km int) (*models.Veiculo, error) {
	v, err := s.repos.Veiculos.FindByID(id)
	if err != nil {
		return nil, dbError(err, "Veículo não encontrado")
	}
	if km < v.KmAtual {
		return nil, BadRequest("Quilometragem não pode ser menor que a atual (%d km)", v.KmAtual)
	}
	ok, err := s.repos.Veiculos.UpdateFieldsKm(id, km, map[string]any{})
	if err != nil {
		return nil, dbError(err, "Veículo não encontrado")
	}
	if !ok {
		return nil, s.kmRegrediu(id)
	}
	return s.GetByID(ctx, id)
}

// kmRegrediu monta o erro quando a escrita condicional de km não afetou a linha.
func (s *VeiculoService) kmRegrediu(id int64) error {
	v, err := s.repos.Veiculos.FindByID(id)
	if err != nil {
		return dbError(err, "Veículo não encontrado")
	}
	return BadRequest("Quilometragem não pode ser menor que a atual (%d km)", v.KmAtual)
}

// Delete é lógico (status VENDIDO) e bloqueado enquanto houver revisão agendada ou em andamento.
func (s *VeiculoService) Delete(ctx context.Context, id int64) error {
	err := db.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)
		if _, err := repos.Veiculos.FindForUpdate(id); err != nil {
			return dbError(err, "Veículo não encontrado")
		}
		ativas, err := repos.Revisoes.CountAtivasPorVeiculo(id)
		if err != nil {
			return err
		}
		if ativas > 0 {
			return BadRequest("Veículo possui revisões ativas")
		}
		return repos.Veiculos.UpdateFields(id, map[string]any{"status": models.VeiculoVendido})
	})
	if err != nil {
		return dbError(err, "Veículo não encontrado")
	}
	log.WithFields(log.Fields{"veiculo_id": id}).Info("Veículo removido (VENDIDO)")
	return nil
}

// Historico lista as revisões concluídas do veículo (mais recente primeiro).
func (s *VeiculoService) Historico(ctx context.Context, id int64) ([]models.HistoricoVeiculo, error) {
	if _, err := s.repos.Veiculos.FindByID(id); err != nil {
		return nil, dbError(err, "Veículo não encontrado")
	}
	list, err := s.repos.Historico.PorVeiculo(id)
	if err != nil {
		return nil, dbError(err, "")
	}
	return list, nil
}

// validarStatusManual: só ATIVO e INATIVO podem ser definidos diretamente.
// EM_MANUTENCAO segue as revisões e VENDIDO passa pela exclusão.
func validarStatusManual(status models.StatusVeiculo) error {
	switch status {
	case models.VeiculoAtivo, models.VeiculoInativo:
		return nil
	case models.VeiculoVendido:
		return BadRequest("Para marcar o veículo como vendido use a exclusão")
	case models.VeiculoEmManutencao:
		return BadRequest("Status EM_MANUTENCAO é definido pelas revisões")
	}
	return BadRequest("Status inválido")
}

func optionalUpper(v string) *string {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "" {
		return nil
	}
	return &v
}

func optionalDigits(v string) *string {
	v = tools.OnlyDigits(v)
	if v == "" {
		return nil
	}
	return &v
}
