package config

import (
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Configuration struct {
	ApiPort   string `json:"api_port"`
	LogPath   string `json:"log_path"`
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"` // "text" ou "json"

	Database string `json:"database"` // "sqlite3" ou "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`
	DbPath   string `json:"db_path"` // arquivo do sqlite3
	// AutoMigrate cria/atualiza as tabelas na subida (útil em dev).
	AutoMigrate bool `json:"automigrate"`

	Security struct {
		JwtSecret           string   `json:"jwt_secret"`
		AccessTTLMinutes    int      `json:"access_ttl_minutes"`
		RefreshCodeLen      int      `json:"refresh_code_len"`
		RefreshCodeMaxValid int      `json:"refresh_code_max_valid_days"`
		AllowedOrigins      []string `json:"allowed_origins"`

		// conta ADMIN criada na subida quando ainda não existe
		AdminEmail    string `json:"admin_email"`
		AdminPassword string `json:"admin_password"`
	} `json:"security"`

	Redis struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
		StatsTTL int    `json:"stats_ttl_seconds"`
	} `json:"redis"`

	RabbitMQ struct {
		URL string `json:"url"`
	} `json:"rabbitmq"`

	ViaCEPURL string `json:"viacep_url"`

	Lembretes struct {
		Enabled         bool `json:"enabled"`
		IntervalSeconds int  `json:"interval_seconds"`
		AntecedenciaH   int  `json:"antecedencia_horas"`
	} `json:"lembretes"`
}

// Get lê o arquivo JSON de configuração (se existir), aplica as variáveis de
// ambiente (.env incluso) por cima e preenche os defaults.
func Get(path string) (Configuration, error) {
	// .env é opcional; em produção as variáveis vêm do ambiente.
	_ = godotenv.Load()

	var c Configuration
	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, err
	}
	if err == nil {
		if err := json.Unmarshal(b, &c); err != nil {
			return c, err
		}
	}

	applyEnv(&c)
	applyDefaults(&c)
	return c, nil
}

func applyEnv(c *Configuration) {
	setString(&c.ApiPort, "PORT")
	setString(&c.LogPath, "LOG_PATH")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
	setString(&c.Database, "DATABASE")
	setString(&c.DbHost, "DB_HOST")
	setString(&c.DbPort, "DB_PORT")
	setString(&c.DbUser, "DB_USER")
	setString(&c.DbName, "DB_NAME")
	setString(&c.DbPass, "DB_PASS")
	setString(&c.DbPath, "DB_PATH")
	setString(&c.Security.JwtSecret, "JWT_SECRET")
	setString(&c.Security.AdminEmail, "ADMIN_EMAIL")
	setString(&c.Security.AdminPassword, "ADMIN_PASSWORD")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.RabbitMQ.URL, "RABBITMQ_URL")
	setString(&c.ViaCEPURL, "VIACEP_URL")

	if v := strings.TrimSpace(os.Getenv("AUTOMIGRATE")); v != "" {
		c.AutoMigrate = v == "1" || strings.EqualFold(v, "true")
	}
	if v := strings.TrimSpace(os.Getenv("LEMBRETES_ENABLED")); v != "" {
		c.Lembretes.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if n, err := strconv.Atoi(os.Getenv("JWT_ACCESS_TTL_MINUTES")); err == nil && n > 0 {
		c.Security.AccessTTLMinutes = n
	}
	if origins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); origins != "" {
		c.Security.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Security.AllowedOrigins = append(c.Security.AllowedOrigins, o)
			}
		}
	}
}

// defaults (pra evitar nil/zero chato)
func applyDefaults(c *Configuration) {
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.DbPath == "" {
		c.DbPath = "db/database.db"
	}
	if c.Security.AccessTTLMinutes <= 0 {
		c.Security.AccessTTLMinutes = 60
	}
	if c.Security.RefreshCodeLen <= 0 {
		c.Security.RefreshCodeLen = 32
	}
	if c.Security.RefreshCodeMaxValid <= 0 {
		c.Security.RefreshCodeMaxValid = 30
	}
	if c.Security.JwtSecret == "" {
		c.Security.JwtSecret = "CHANGE_ME"
	}
	if len(c.Security.AllowedOrigins) == 0 {
		c.Security.AllowedOrigins = []string{"*"}
	}
	if c.Redis.StatsTTL <= 0 {
		c.Redis.StatsTTL = 60
	}
	if c.ViaCEPURL == "" {
		c.ViaCEPURL = "https://viacep.com.br/ws"
	}
	if c.Lembretes.IntervalSeconds <= 0 {
		c.Lembretes.IntervalSeconds = 60
	}
	if c.Lembretes.AntecedenciaH <= 0 {
		c.Lembretes.AntecedenciaH = 24
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
