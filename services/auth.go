package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"checar/db"
	"checar/models"
	"checar/repository"
	"checar/tools"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	JwtSecret      string
	AccessTTL      time.Duration
	RefreshCodeLen int
	RefreshTTL     time.Duration
}

// Claims do access token: sub = id do usuário.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

type TokenPair struct {
	AccessToken        string `json:"accessToken"`
	AccessExpiresAt    int64  `json:"accessExpiresAt"`    // unix seconds
	AccessExpiresAtISO string `json:"accessExpiresAtIso"` // RFC3339
	RefreshToken       string `json:"refreshToken"`
}

type AuthResponse struct {
	TokenPair
	User    models.User     `json:"user"`
	Cliente *models.Cliente `json:"cliente,omitempty"`
}

type RegisterInput struct {
	Nome      string `json:"nome" binding:"required,min=2"`
	Sobrenome string `json:"sobrenome"`
	Email     string `json:"email" binding:"required,email"`
	Senha     string `json:"senha" binding:"required,min=6"`
	CPF       string `json:"cpf" binding:"required,cpf"`
	Telefone  string `json:"telefone"`
	Whatsapp  string `json:"whatsapp"`
}

type UserInput struct {
	Nome  string      `json:"nome" binding:"required,min=2"`
	Email string      `json:"email" binding:"required,email"`
	Senha string      `json:"senha" binding:"required,min=6"`
	Role  models.Role `json:"role" binding:"required,oneof=ADMIN MECANICO CLIENTE"`
}

type AuthService struct {
	db    *gorm.DB
	repos *repository.Repositories
	cfg   AuthConfig
	now   func() time.Time
}

func NewAuthService(database *gorm.DB, cfg AuthConfig) *AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshCodeLen <= 0 {
		cfg.RefreshCodeLen = 32
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}
	return &AuthService{db: database, repos: repository.New(database), cfg: cfg, now: time.Now}
}

func HashSenha(senha string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	return string(b), err
}

func senhaConfere(senha, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(senha)) == nil
}

// Register cria a conta (role CLIENTE) e o cadastro de cliente na mesma transação.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResponse, error) {
	email := tools.NormalizeEmail(in.Email)
	if !tools.ValidateEmail(email) {
		return nil, BadRequest("E-mail inválido")
	}
	if !tools.ValidateSenha(in.Senha) {
		return nil, BadRequest("A senha deve ter no mínimo 6 caracteres")
	}
	if exists, err := s.repos.Users.ExistsEmail(email); err != nil {
		return nil, dbError(err, "")
	} else if exists {
		return nil, Conflict("E-mail já cadastrado")
	}

	hash, err := HashSenha(in.Senha)
	if err != nil {
		return nil, fmt.Errorf("hash senha: %w", err)
	}

	var (
		user    models.User
		cliente *models.Cliente
	)
	err = db.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)
		user = models.User{
			Nome:      strings.TrimSpace(in.Nome),
			Email:     email,
			SenhaHash: hash,
			Role:      models.RoleCliente,
			Ativo:     true,
		}
		if err := repos.Users.Create(&user); err != nil {
			return err
		}
		c, err := createCliente(repos, ClienteInput{
			Nome:      in.Nome,
			Sobrenome: in.Sobrenome,
			CPF:       in.CPF,
			Email:     email,
			Telefone:  in.Telefone,
			Whatsapp:  in.Whatsapp,
		}, &user.ID)
		if err != nil {
			return err
		}
		cliente = c
		return nil
	})
	if err != nil {
		return nil, dbError(err, "")
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"user_id": user.ID, "cliente_id": cliente.ID}).Info("Cadastro realizado")
	return &AuthResponse{TokenPair: *pair, User: user, Cliente: cliente}, nil
}

// CreateUser é usado pelo ADMIN para criar contas da oficina.
func (s *AuthService) CreateUser(ctx context.Context, in UserInput) (*models.User, error) {
	email := tools.NormalizeEmail(in.Email)
	if !tools.ValidateEmail(email) {
		return nil, BadRequest("E-mail inválido")
	}
	if !tools.ValidateSenha(in.Senha) {
		return nil, BadRequest("A senha deve ter no mínimo 6 caracteres")
	}
	switch in.Role {
	case models.RoleAdmin, models.RoleMecanico, models.RoleCliente:
	default:
		return nil, BadRequest("Perfil inválido")
	}
	if exists, err := s.repos.Users.ExistsEmail(email); err != nil {
		return nil, dbError(err, "")
	} else if exists {
		return nil, Conflict("E-mail já cadastrado")
	}

	hash, err := HashSenha(in.Senha)
	if err != nil {
		return nil, fmt.Errorf("hash senha: %w", err)
	}
	user := models.User{Nome: strings.TrimSpace(in.Nome), Email: email, SenhaHash: hash, Role: in.Role, Ativo: true}
	if err := s.repos.Users.Create(&user); err != nil {
		return nil, dbError(err, "")
	}
	return &user, nil
}

// EnsureAdmin cria a conta ADMIN inicial se o e-mail ainda não existir.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, senha string) error {
	if email == "" || senha == "" {
		return nil
	}
	_, err := s.CreateUser(ctx, UserInput{Nome: "Administrador", Email: email, Senha: senha, Role: models.RoleAdmin})
	if errors.Is(err, ErrConflict) {
		return nil
	}
	if err == nil {
		log.WithField("email", email).Info("Conta ADMIN inicial criada")
	}
	return err
}

func (s *AuthService) Login(ctx context.Context, email, senha string) (*AuthResponse, error) {
	if strings.TrimSpace(email) == "" || senha == "" {
		return nil, BadRequest("E-mail e senha são obrigatórios")
	}

	user, err := s.repos.Users.FindByEmail(tools.NormalizeEmail(email))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, Unauthorized("Usuário ou senha inválidos")
		}
		return nil, dbError(err, "")
	}
	if !senhaConfere(senha, user.SenhaHash) {
		return nil, Unauthorized("Usuário ou senha inválidos")
	}
	if !user.Ativo {
		return nil, Unauthorized("Usuário inativo")
	}

	now := s.now()
	if err := s.repos.Users.TouchLogin(user.ID, now); err != nil {
		return nil, dbError(err, "")
	}
	user.UltimoLogin = &now

	pair, err := s.issue(*user)
	if err != nil {
		return nil, err
	}
	resp := &AuthResponse{TokenPair: *pair, User: *user}
	if c, err := s.repos.Clientes.FindByUserID(user.ID); err == nil {
		resp.Cliente = c
	}
	return resp, nil
}

// Refresh troca um refresh token válido por um novo par (access+refresh).
// Rotação: todos os refresh tokens ativos do usuário são revogados antes de emitir o novo.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, BadRequest("refreshToken é obrigatório")
	}

	now := s.now()
	stored, err := s.repos.RefreshTokens.FindByHash(tools.EncryptTextSHA512(refreshToken))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, Unauthorized("Refresh token inválido")
		}
		return nil, dbError(err, "")
	}
	if stored.IsRevoked() || stored.IsExpired(now) {
		return nil, Unauthorized("Refresh token expirado")
	}

	user, err := s.repos.Users.FindByID(stored.UserID)
	if err != nil {
		return nil, Unauthorized("Usuário não encontrado")
	}
	if !user.Ativo {
		return nil, Unauthorized("Usuário inativo")
	}

	if err := s.repos.RefreshTokens.RevokeAllForUser(user.ID, now); err != nil {
		return nil, dbError(err, "")
	}
	return s.issue(*user)
}

// Logout revoga o refresh token informado, ou todos do usuário se vazio.
func (s *AuthService) Logout(ctx context.Context, userID int64, refreshToken string) error {
	now := s.now()
	if refreshToken == "" {
		return dbError(s.repos.RefreshTokens.RevokeAllForUser(userID, now), "")
	}

	stored, err := s.repos.RefreshTokens.FindByHash(tools.EncryptTextSHA512(refreshToken))
	if err != nil {
		if db.IsNotFound(err) {
			return nil
		}
		return dbError(err, "")
	}
	if stored.UserID != userID {
		return Forbidden("Refresh token pertence a outro usuário")
	}
	_, err = s.repos.RefreshTokens.Revoke(stored.ID, now)
	return dbError(err, "")
}

// Me devolve o usuário e, se houver, o cadastro de cliente ligado a ele.
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, *models.Cliente, error) {
	user, err := s.repos.Users.FindByID(userID)
	if err != nil {
		return nil, nil, dbError(err, "Usuário não encontrado")
	}
	c, err := s.repos.Clientes.FindByUserID(userID)
	if err != nil {
		if db.IsNotFound(err) {
			return user, nil, nil
		}
		return nil, nil, dbError(err, "")
	}
	return user, c, nil
}

// ChangePassword troca a senha e derruba todas as sessões (refresh tokens).
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, atual, nova string) error {
	user, err := s.repos.Users.FindByID(userID)
	if err != nil {
		return dbError(err, "Usuário não encontrado")
	}
	if !senhaConfere(atual, user.SenhaHash) {
		return BadRequest("Senha atual incorreta")
	}
	if !tools.ValidateSenha(nova) {
		return BadRequest("A senha deve ter no mínimo 6 caracteres")
	}

	hash, err := HashSenha(nova)
	if err != nil {
		return fmt.Errorf("hash senha: %w", err)
	}

	return db.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)
		if err := repos.Users.UpdateFields(userID, map[string]any{"senha_hash": hash}); err != nil {
			return err
		}
		return repos.RefreshTokens.RevokeAllForUser(userID, s.now())
	})
}

// ParseAccessToken valida assinatura e expiração do access token.
func (s *AuthService) ParseAccessToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, Unauthorized("Token inválido ou expirado")
	}
	return claims, nil
}

// issue gera o access token (JWT HS256) e um refresh token opaco, guardando só o hash dele.
func (s *AuthService) issue(user models.User) (*TokenPair, error) {
	now := s.now()
	accessExp := now.Add(s.cfg.AccessTTL)

	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JwtSecret))
	if err != nil {
		return nil, fmt.Errorf("assinando token: %w", err)
	}

	refresh := tools.RandomString(s.cfg.RefreshCodeLen)
	refreshExp := now.Add(s.cfg.RefreshTTL)
	if err := s.repos.RefreshTokens.Create(&models.RefreshToken{
		UserID:    user.ID,
		TokenHash: tools.EncryptTextSHA512(refresh),
		ExpiresAt: &refreshExp,
	}); err != nil {
		return nil, dbError(err, "")
	}

	return &TokenPair{
		AccessToken:        access,
		AccessExpiresAt:    accessExp.Unix(),
		AccessExpiresAtISO: accessExp.UTC().Format(time.RFC3339),
		RefreshToken:       refresh,
	}, nil
}
