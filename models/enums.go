package models

/************************************************
/**** MARK: USER ROLES ****/
/************************************************/
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleMecanico Role = "MECANICO"
	RoleCliente  Role = "CLIENTE"
)

// IsStaff indica se o papel tem acesso às rotas da oficina.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleMecanico
}

/************************************************
/**** MARK: CLIENTE STATUS ****/
/************************************************/
type StatusCliente string

const (
	ClienteAtivo     StatusCliente = "ATIVO"
	ClienteInativo   StatusCliente = "INATIVO"
	ClienteBloqueado StatusCliente = "BLOQUEADO"
	ClientePendente  StatusCliente = "PENDENTE"
)

func (s StatusCliente) Valid() bool {
	switch s {
	case ClienteAtivo, ClienteInativo, ClienteBloqueado, ClientePendente:
		return true
	}
	return false
}

/************************************************
/**** MARK: VEICULO STATUS ****/
/************************************************/
type StatusVeiculo string

const (
	VeiculoAtivo        StatusVeiculo = "ATIVO"
	VeiculoInativo      StatusVeiculo = "INATIVO"
	VeiculoEmManutencao StatusVeiculo = "EM_MANUTENCAO"
	VeiculoVendido      StatusVeiculo = "VENDIDO"
)

func (s StatusVeiculo) Valid() bool {
	switch s {
	case VeiculoAtivo, VeiculoInativo, VeiculoEmManutencao, VeiculoVendido:
		return true
	}
	return false
}

/************************************************
/**** MARK: REVISAO ****/
/************************************************/
type TipoRevisao string

const (
	RevisaoPreventiva  TipoRevisao = "PREVENTIVA"
	RevisaoCorretiva   TipoRevisao = "CORRETIVA"
	RevisaoPeriodica   TipoRevisao = "PERIODICA"
	RevisaoEmergencial TipoRevisao = "EMERGENCIAL"
)

func (t TipoRevisao) Valid() bool {
	switch t {
	case RevisaoPreventiva, RevisaoCorretiva, RevisaoPeriodica, RevisaoEmergencial:
		return true
	}
	return false
}

type StatusRevisao string

const (
	RevisaoAgendada    StatusRevisao = "AGENDADA"
	RevisaoEmAndamento StatusRevisao = "EM_ANDAMENTO"
	RevisaoConcluida   StatusRevisao = "CONCLUIDA"
	RevisaoCancelada   StatusRevisao = "CANCELADA"
)

func (s StatusRevisao) Valid() bool {
	switch s {
	case RevisaoAgendada, RevisaoEmAndamento, RevisaoConcluida, RevisaoCancelada:
		return true
	}
	return false
}

// Ativa indica que a revisão ainda ocupa o veículo (agendada ou em execução).
func (s StatusRevisao) Ativa() bool {
	return s == RevisaoAgendada || s == RevisaoEmAndamento
}

// Encerrada indica um status terminal.
func (s StatusRevisao) Encerrada() bool {
	return s == RevisaoConcluida || s == RevisaoCancelada
}

/************************************************
/**** MARK: CHECKLIST ****/
/************************************************/
type StatusItem string

const (
	ItemOk           StatusItem = "ok"
	ItemNaoOk        StatusItem = "nao_ok"
	ItemNaoAplicavel StatusItem = "nao_aplicavel"
	ItemPendente     StatusItem = "pendente"
)

func (s StatusItem) Valid() bool {
	switch s {
	case ItemOk, ItemNaoOk, ItemNaoAplicavel, ItemPendente:
		return true
	}
	return false
}

type Prioridade string

const (
	PrioridadeBaixa   Prioridade = "baixa"
	PrioridadeMedia   Prioridade = "media"
	PrioridadeAlta    Prioridade = "alta"
	PrioridadeCritica Prioridade = "critica"
)

func (p Prioridade) Valid() bool {
	switch p {
	case PrioridadeBaixa, PrioridadeMedia, PrioridadeAlta, PrioridadeCritica:
		return true
	}
	return false
}

// Peso ordena prioridades (critica primeiro).
func (p Prioridade) Peso() int {
	switch p {
	case PrioridadeCritica:
		return 4
	case PrioridadeAlta:
		return 3
	case PrioridadeMedia:
		return 2
	case PrioridadeBaixa:
		return 1
	}
	return 0
}

type TipoPergunta string

const (
	PerguntaSimNao          TipoPergunta = "sim_nao"
	PerguntaTexto           TipoPergunta = "texto"
	PerguntaMultiplaEscolha TipoPergunta = "multipla_escolha"
)

/************************************************
/**** MARK: RECOMENDACAO STATUS ****/
/************************************************/
type StatusRecomendacao string

const (
	RecomendacaoPendente     StatusRecomendacao = "PENDENTE"
	RecomendacaoAceita       StatusRecomendacao = "ACEITA"
	RecomendacaoRecusada     StatusRecomendacao = "RECUSADA"
	RecomendacaoImplementada StatusRecomendacao = "IMPLEMENTADA"
)

func (s StatusRecomendacao) Valid() bool {
	switch s {
	case RecomendacaoPendente, RecomendacaoAceita, RecomendacaoRecusada, RecomendacaoImplementada:
		return true
	}
	return false
}
