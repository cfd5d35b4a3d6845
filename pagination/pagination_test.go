package pagination

import (
	"fmt"
	"net/url"
	"testing"

	"checar/db"
	"checar/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParamsDefaults(t *testing.T) {
	p := ParseParams(url.Values{})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, Desc, p.SortOrder)
	assert.Empty(t, p.SortBy)
}

func TestParseParamsInvalidValues(t *testing.T) {
	p := ParseParams(url.Values{"page": {"-3"}, "limit": {"abc"}, "sortOrder": {"sideways"}})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, Desc, p.SortOrder)

	p = ParseParams(url.Values{"page": {"0"}, "limit": {"0"}})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
}

func TestParseParamsClampsLimit(t *testing.T) {
	p := ParseParams(url.Values{"limit": {"500"}, "page": {"2"}, "sortBy": {"nome"}, "sortOrder": {"ASC"}})
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, "nome", p.SortBy)
	assert.Equal(t, Asc, p.SortOrder)
}

func TestCalculateSkipTake(t *testing.T) {
	skip, take := CalculateSkipTake(5, 10)
	assert.Equal(t, 40, skip)
	assert.Equal(t, 10, take)

	skip, take = CalculateSkipTake(1, 25)
	assert.Equal(t, 0, skip)
	assert.Equal(t, 25, take)
}

func TestCreateResultLastPage(t *testing.T) {
	r := CreateResult(make([]int, 5), 45, 5, 10)
	assert.Len(t, r.Data, 5)
	assert.Equal(t, 5, r.Meta.TotalPages)
	assert.False(t, r.Meta.HasNextPage)
	assert.True(t, r.Meta.HasPreviousPage)
}

func TestCreateResultEmpty(t *testing.T) {
	r := CreateResult[int](nil, 0, 1, 10)
	assert.NotNil(t, r.Data)
	assert.Equal(t, 0, r.Meta.TotalPages)
	assert.False(t, r.Meta.HasNextPage)
	assert.False(t, r.Meta.HasPreviousPage)
}

func TestOrderClause(t *testing.T) {
	allowed := map[string]string{"nome": "nome", "createdAt": "created_at"}

	p := Params{SortBy: "nome", SortOrder: Asc}
	assert.Equal(t, "nome ASC, id ASC", p.OrderClause(allowed, "created_at"))

	p = Params{SortBy: "senha_hash; DROP TABLE", SortOrder: Desc}
	assert.Equal(t, "created_at DESC, id DESC", p.OrderClause(allowed, "created_at"))

	p = Params{SortOrder: Asc}
	assert.Equal(t, "id ASC", p.OrderClause(allowed, "id"))
}

func TestPaginateAgainstDatabase(t *testing.T) {
	database, err := db.OpenInMemory()
	require.NoError(t, err)
	defer database.Close()

	for i := 1; i <= 45; i++ {
		m := models.Mecanico{Nome: fmt.Sprintf("Mecânico %02d", i), Email: fmt.Sprintf("m%02d@oficina.com", i), Ativo: i%2 == 0}
		require.NoError(t, database.Create(&m).Error)
	}

	params := Params{Page: 5, Limit: 10, SortOrder: Asc}
	query := database.Model(&models.Mecanico{})
	r, err := Paginate[models.Mecanico](query, params, params.OrderClause(nil, "id"))
	require.NoError(t, err)

	assert.Len(t, r.Data, 5)
	assert.Equal(t, int64(45), r.Meta.Total)
	assert.Equal(t, 5, r.Meta.TotalPages)
	assert.False(t, r.Meta.HasNextPage)
	assert.True(t, r.Meta.HasPreviousPage)
	assert.Equal(t, "Mecânico 41", r.Data[0].Nome)

	// filtro aplicado pelo chamador vale para contagem e página
	filtered := database.Model(&models.Mecanico{}).Where("ativo = ?", true)
	r, err = Paginate[models.Mecanico](filtered, Params{Page: 1, Limit: 100, SortOrder: Desc}, "id DESC")
	require.NoError(t, err)
	assert.Equal(t, int64(22), r.Meta.Total)
	assert.Len(t, r.Data, 22)
	for _, m := range r.Data {
		assert.True(t, m.Ativo)
	}

	// página além do fim
	r, err = Paginate[models.Mecanico](database.Model(&models.Mecanico{}), Params{Page: 9, Limit: 10}, "id ASC")
	require.NoError(t, err)
	assert.Empty(t, r.Data)
	assert.True(t, r.Meta.HasPreviousPage)
}
