package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"checar/cache"
	"checar/config"
	"checar/db"
	"checar/queue"
	"checar/router"
	"checar/services"
	"checar/tools"
	"checar/workers"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	path := os.Getenv("CHECAR_CONFIG")
	if path == "" {
		path = "config.json"
	}
	conf, err := config.Get(path)
	if err != nil {
		log.WithError(err).Fatal("Erro ao ler configuração")
	}

	logFile := setupLog(conf)
	if logFile != nil {
		defer logFile.Close()
	}

	database, err := db.Connect(conf)
	if err != nil {
		log.WithError(err).Fatal("Erro ao conectar no banco de dados")
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	statsCache := setupCache(conf)
	if rc, ok := statsCache.(*cache.RedisCache); ok {
		defer rc.Close()
	}
	publisher := setupPublisher(conf)
	defer publisher.Close()

	authService := services.NewAuthService(database, services.AuthConfig{
		JwtSecret:      conf.Security.JwtSecret,
		AccessTTL:      time.Duration(conf.Security.AccessTTLMinutes) * time.Minute,
		RefreshCodeLen: conf.Security.RefreshCodeLen,
		RefreshTTL:     time.Duration(conf.Security.RefreshCodeMaxValid) * 24 * time.Hour,
	})
	if err := authService.EnsureAdmin(ctx, conf.Security.AdminEmail, conf.Security.AdminPassword); err != nil {
		log.WithError(err).Error("Falha ao criar a conta ADMIN inicial")
	}

	svc := router.Services{
		DB:        database,
		Auth:      authService,
		Clientes:  services.NewClienteService(database),
		Veiculos:  services.NewVeiculoService(database),
		Mecanicos: services.NewMecanicoService(database),
		Revisoes:  services.NewRevisaoService(database, statsCache, publisher, time.Duration(conf.Redis.StatsTTL)*time.Second),
		Recs:      services.NewRecomendacaoService(database),
		CEP:       tools.NewViaCEPClient(conf.ViaCEPURL),
	}

	if conf.Lembretes.Enabled {
		workers.NewLembreteWorker(
			database,
			publisher,
			time.Duration(conf.Lembretes.IntervalSeconds)*time.Second,
			time.Duration(conf.Lembretes.AntecedenciaH)*time.Hour,
		).Start(ctx)
	}

	if !log.IsLevelEnabled(log.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	router.Initialize(r, conf, svc)

	srv := &http.Server{
		Addr:              ":" + conf.ApiPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", conf.ApiPort).Info("CHECAR API ouvindo")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Erro no servidor HTTP")
		}
	}()

	<-ctx.Done()
	log.Info("Encerrando...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Shutdown do servidor HTTP")
	}
}

// setupLog aplica nível e formato; com log_path, grava também no arquivo.
func setupLog(conf config.Configuration) *os.File {
	level, err := log.ParseLevel(conf.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if conf.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if conf.LogPath == "" {
		log.SetOutput(os.Stdout)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(conf.LogPath), 0o755); err != nil {
		log.WithError(err).Warn("Não foi possível criar o diretório de log")
		return nil
	}
	f, err := os.OpenFile(conf.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.WithError(err).Warn("Não foi possível abrir o arquivo de log")
		return nil
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
	return f
}

// setupCache usa Redis quando configurado; sem Redis as estatísticas vão direto ao banco.
func setupCache(conf config.Configuration) cache.Cache {
	if conf.Redis.Addr == "" {
		return cache.Noop{}
	}
	c, err := cache.NewRedis(conf.Redis.Addr, conf.Redis.Password, conf.Redis.DB)
	if err != nil {
		log.WithError(err).Warn("Redis indisponível, seguindo sem cache")
		return cache.Noop{}
	}
	log.WithField("addr", conf.Redis.Addr).Info("Cache Redis conectado")
	return c
}

// setupPublisher usa RabbitMQ quando configurado; sem broker os eventos só vão para o log.
func setupPublisher(conf config.Configuration) queue.Publisher {
	if conf.RabbitMQ.URL == "" {
		return queue.LogPublisher{}
	}
	p, err := queue.NewRabbitPublisher(conf.RabbitMQ.URL)
	if err != nil {
		log.WithError(err).Warn("RabbitMQ indisponível, eventos só no log")
		return queue.LogPublisher{}
	}
	log.Info("Publisher RabbitMQ conectado")
	return p
}
