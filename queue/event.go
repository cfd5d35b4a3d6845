package queue

// Filas usadas pelos eventos de revisão.
const (
	QueueRevisaoConcluida = "revisao.concluida"
	QueueRevisaoLembrete  = "revisao.lembrete"
)

// RevisaoConcluidaEvent é publicado quando uma revisão é finalizada.
type RevisaoConcluidaEvent struct {
	RevisaoID            int64   `json:"revisaoId"`
	ClienteID            int64   `json:"clienteId"`
	VeiculoID            int64   `json:"veiculoId"`
	Placa                string  `json:"placa"`
	ValorTotal           float64 `json:"valorTotal"`
	KmAtual              *int    `json:"kmAtual,omitempty"`
	ProblemasEncontrados int     `json:"problemasEncontrados"`
	ProblemasCriticos    int     `json:"problemasCriticos"`
	Recomendacoes        int     `json:"recomendacoes"`
	ConcluidaEm          string  `json:"concluidaEm"`
}

// RevisaoLembreteEvent pede o envio de um lembrete ao cliente pelos canais aceitos.
type RevisaoLembreteEvent struct {
	RevisaoID   int64    `json:"revisaoId"`
	ClienteID   int64    `json:"clienteId"`
	ClienteNome string   `json:"clienteNome"`
	Placa       string   `json:"placa"`
	Modelo      string   `json:"modelo"`
	DataRevisao string   `json:"dataRevisao"`
	Canais      []string `json:"canais"`
	Email       string   `json:"email,omitempty"`
	WhatsApp    string   `json:"whatsapp,omitempty"`
	Telefone    string   `json:"telefone,omitempty"`
}
