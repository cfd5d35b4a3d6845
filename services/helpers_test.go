package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"checar/db"
	"checar/models"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := db.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, queueName string, payload any) error {
	return m.Called(queueName, payload).Error(0)
}

func (m *mockPublisher) Close() error { return nil }

// memCache é um cache em memória para observar leituras e invalidações.
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	c.deletes++
	return nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

type fixture struct {
	db        *gorm.DB
	clientes  *ClienteService
	veiculos  *VeiculoService
	mecanicos *MecanicoService
	revisoes  *RevisaoService
	recs      *RecomendacaoService
	pub       *mockPublisher
	cache     *memCache
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := openTestDB(t)
	pub := &mockPublisher{}
	c := newMemCache()
	f := &fixture{
		db:        database,
		clientes:  NewClienteService(database),
		veiculos:  NewVeiculoService(database),
		mecanicos: NewMecanicoService(database),
		revisoes:  NewRevisaoService(database, c, pub, time.Minute),
		recs:      NewRecomendacaoService(database),
		pub:       pub,
		cache:     c,
		now:       time.Date(2026, 5, 12, 10, 30, 0, 0, time.UTC),
	}
	f.revisoes.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) cliente(t *testing.T, cpf, email string) *models.Cliente {
	t.Helper()
	c, err := f.clientes.Create(context.Background(), ClienteInput{Nome: "Maria", Sobrenome: "Silva", CPF: cpf, Email: email})
	require.NoError(t, err)
	return c
}

func (f *fixture) veiculo(t *testing.T, clienteID int64, placa string, km int) *models.Veiculo {
	t.Helper()
	v, err := f.veiculos.Create(context.Background(), VeiculoInput{ClienteID: clienteID, Marca: "VW", Modelo: "Gol", Ano: 2020, Placa: placa, KmAtual: km})
	require.NoError(t, err)
	return v
}

func (f *fixture) revisao(t *testing.T, clienteID, veiculoID int64, dataRevisao time.Time) *models.Revisao {
	t.Helper()
	r, err := f.revisoes.Create(context.Background(), RevisaoInput{
		ClienteID:   clienteID,
		VeiculoID:   veiculoID,
		Tipo:        models.RevisaoPreventiva,
		DataRevisao: dataRevisao,
	})
	require.NoError(t, err)
	return r
}

func float(v float64) *float64 { return &v }
func intp(v int) *int { return &v }
func str(v string) *string { return &v }
