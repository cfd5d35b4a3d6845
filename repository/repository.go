package repository

import (
	"strings"

	"github.com/jinzhu/gorm"
)

// Repositories agrupa os repositórios ligados à mesma conexão.
type Repositories struct {
	DB            *gorm.DB
	Users         *UserRepository
	RefreshTokens *RefreshTokenRepository
	Clientes      *ClienteRepository
	Veiculos      *VeiculoRepository
	Mecanicos     *MecanicoRepository
	Revisoes      *RevisaoRepository
	Recomendacoes *RecomendacaoRepository
	Historico     *HistoricoRepository
}

func New(database *gorm.DB) *Repositories {
	return &Repositories{
		DB:            database,
		Users:         NewUserRepository(database),
		RefreshTokens: NewRefreshTokenRepository(database),
		Clientes:      NewClienteRepository(database),
		Veiculos:      NewVeiculoRepository(database),
		Mecanicos:     NewMecanicoRepository(database),
		Revisoes:      NewRevisaoRepository(database),
		Recomendacoes: NewRecomendacaoRepository(database),
		Historico:     NewHistoricoRepository(database),
	}
}

// WithTx devolve o mesmo conjunto de repositórios preso à transação tx.
func (r *Repositories) WithTx(tx *gorm.DB) *Repositories {
	return New(tx)
}

// likePattern monta um padrão "%termo%" em minúsculas para LOWER(coluna) LIKE ?.
func likePattern(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	term = strings.NewReplacer("%", "", "_", "").Replace(term)
	return "%" + term + "%"
}
