package router

import (
	"net/http"

	"checar/config"
	"checar/controllers"
	"checar/middleware"
	"checar/services"
	"checar/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"
)

// Services reúne as dependências das rotas; montado no main.
type Services struct {
	DB        *gorm.DB
	Auth      *services.AuthService
	Clientes  *services.ClienteService
	Veiculos  *services.VeiculoService
	Mecanicos *services.MecanicoService
	Revisoes  *services.RevisaoService
	Recs      *services.RecomendacaoService
	CEP       controllers.CEPLookup
}

// Initialize registra middlewares e rotas.
// Grupos: público, autenticado (token + conta ativa), oficina (ADMIN/MECANICO) e admin.
func Initialize(r *gin.Engine, cfg config.Configuration, svc Services) {
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.Security.AllowedOrigins))
	r.Use(Logger())

	if err := controllers.RegisterValidators(); err != nil {
		log.WithError(err).Warn("Validadores customizados não registrados")
	}
	if svc.CEP == nil {
		svc.CEP = tools.NewViaCEPClient(cfg.ViaCEPURL)
	}

	auth := controllers.NewAuthController(svc.Auth)
	clientes := controllers.NewClienteController(svc.Clientes)
	veiculos := controllers.NewVeiculoController(svc.Veiculos)
	mecanicos := controllers.NewMecanicoController(svc.Mecanicos)
	revisoes := controllers.NewRevisaoController(svc.Revisoes)
	recs := controllers.NewRecomendacaoController(svc.Recs)
	cep := controllers.NewCEPController(svc.CEP)

	r.GET("/health", health(svc.DB))

	api := r.Group("/api")

	// Public (no auth)
	api.POST("/auth/register", auth.Register)
	api.POST("/auth/login", auth.Login)
	api.POST("/auth/refresh", auth.Refresh)
	api.GET("/cep/:cep", cep.Buscar)

	// Autenticado + conta ativa
	validated := api.Group("")
	validated.Use(controllers.AuthRequired(svc.Auth), Authorizer())

	validated.GET("/auth/me", auth.Me)
	validated.POST("/auth/logout", auth.Logout)
	validated.PUT("/auth/password", auth.ChangePassword)

	// Rotas com checagem de dono (CLIENTE só acessa o que é dele)
	validated.GET("/clientes/:id", clientes.Get)
	validated.PUT("/clientes/:id", clientes.Update)

	validated.GET("/veiculos", veiculos.List)
	validated.GET("/veiculos/:id", veiculos.Get)
	validated.GET("/veiculos/:id/historico", veiculos.Historico)
	validated.GET("/veiculos/cliente/:clienteId", veiculos.GetByCliente)
	validated.POST("/veiculos", veiculos.Create)
	validated.PUT("/veiculos/:id", veiculos.Update)

	validated.GET("/revisoes", revisoes.List)
	validated.GET("/revisoes/:id", revisoes.Get)
	validated.GET("/revisoes/:id/checklist", revisoes.Checklist)
	validated.PATCH("/revisoes/:id/checklist/perguntas/:perguntaId", revisoes.ResponderPergunta)
	validated.POST("/revisoes/:id/cancelar", revisoes.Cancelar)

	validated.GET("/recomendacoes", recs.List)
	validated.GET("/recomendacoes/:id", recs.Get)
	validated.PATCH("/recomendacoes/:id/status", recs.UpdateStatus)

	// Oficina (ADMIN e MECANICO)
	staff := validated.Group("")
	staff.Use(Staffizer())

	staff.GET("/clientes", clientes.List)
	staff.GET("/clientes/cpf/:cpf", clientes.GetByCpf)
	staff.GET("/clientes/email/:email", clientes.GetByEmail)
	staff.POST("/clientes", clientes.Create)

	staff.GET("/veiculos/placa/:placa", veiculos.GetByPlaca)
	staff.PATCH("/veiculos/:id/kilometragem", veiculos.UpdateKilometragem)
	staff.DELETE("/veiculos/:id", veiculos.Delete)

	staff.GET("/mecanicos", mecanicos.List)
	staff.GET("/mecanicos/:id", mecanicos.Get)

	staff.GET("/revisoes/stats", revisoes.Stats)
	staff.GET("/revisoes/hoje", revisoes.Hoje)
	staff.POST("/revisoes", revisoes.Create)
	staff.PUT("/revisoes/:id", revisoes.Update)
	staff.POST("/revisoes/:id/iniciar", revisoes.Iniciar)
	staff.POST("/revisoes/:id/finalizar", revisoes.Finalizar)
	staff.PATCH("/revisoes/:id/reagendar", revisoes.Reagendar)
	staff.PATCH("/revisoes/:id/checklist/itens/:itemId", revisoes.AtualizarItem)

	// Admin routes
	admin := staff.Group("")
	admin.Use(Adminizer())

	admin.DELETE("/clientes/:id", clientes.Delete)
	admin.POST("/mecanicos", mecanicos.Create)
	admin.PUT("/mecanicos/:id", mecanicos.Update)
	admin.DELETE("/mecanicos/:id", mecanicos.Delete)
	admin.DELETE("/revisoes/:id", revisoes.Delete)
	admin.POST("/usuarios", auth.CreateUser)

	log.Info("Rotas inicializadas")
}

// health responde 200 com o banco acessível e 503 caso contrário.
func health(database *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if database != nil {
			if err := database.DB().PingContext(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
