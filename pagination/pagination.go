package pagination

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/jinzhu/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Params são os parâmetros de paginação já normalizados.
type Params struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
}

type Meta struct {
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	Total           int64 `json:"total"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

type Result[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// ParseParams lê page, limit, sortBy e sortOrder da query string.
// Valores ausentes ou inválidos caem nos defaults; limit é limitado a MaxLimit.
func ParseParams(query url.Values) Params {
	p := Params{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    strings.TrimSpace(query.Get("sortBy")),
		SortOrder: Desc,
	}

	if v, err := strconv.Atoi(query.Get("page")); err == nil && v >= 1 {
		p.Page = v
	}
	if v, err := strconv.Atoi(query.Get("limit")); err == nil && v >= 1 {
		p.Limit = v
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if strings.EqualFold(query.Get("sortOrder"), string(Asc)) {
		p.SortOrder = Asc
	}
	return p
}

// CalculateSkipTake converte página/limite em offset/limit.
func CalculateSkipTake(page, limit int) (skip, take int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return (page - 1) * limit, limit
}

func CreateResult[T any](data []T, total int64, page, limit int) Result[T] {
	if data == nil {
		data = []T{}
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return Result[T]{
		Data: data,
		Meta: Meta{
			Page:            page,
			Limit:           limit,
			Total:           total,
			TotalPages:      totalPages,
			HasNextPage:     page < totalPages,
			HasPreviousPage: page > 1,
		},
	}
}

// OrderClause monta o ORDER BY a partir de sortBy, aceitando só colunas de allowed
// (chave = nome na API, valor = coluna). Sempre desempata por id.
func (p Params) OrderClause(allowed map[string]string, fallback string) string {
	column, ok := allowed[p.SortBy]
	if !ok {
		column = fallback
	}
	order := "DESC"
	if p.SortOrder == Asc {
		order = "ASC"
	}
	if column == "id" {
		return "id " + order
	}
	return fmt.Sprintf("%s %s, id %s", column, order, order)
}

// Paginate conta e busca a página a partir da mesma query (filtros já aplicados pelo chamador).
func Paginate[T any](query *gorm.DB, params Params, order string) (Result[T], error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return Result[T]{}, err
	}

	skip, take := CalculateSkipTake(params.Page, params.Limit)
	data := make([]T, 0, take)
	if total > int64(skip) {
		if err := query.Order(order).Offset(skip).Limit(take).Find(&data).Error; err != nil {
			return Result[T]{}, err
		}
	}

	return CreateResult(data, total, params.Page, params.Limit), nil
}
