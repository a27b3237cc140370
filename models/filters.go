package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortRating    SortOrder = "rating"
	SortPopular   SortOrder = "popular"
)

// ParseSortOrder returns the sort order named by s. Unknown values fall back
// to SortNewest.
func ParseSortOrder(s string) SortOrder {
	switch o := SortOrder(s); o {
	case SortPriceAsc, SortPriceDesc, SortRating, SortPopular, SortNewest:
		return o
	default:
		return SortNewest
	}
}

func (o SortOrder) orderBy() clause.OrderBy {
	col := func(name string) clause.Column {
		return clause.Column{Table: "products", Name: name}
	}
	var primary clause.OrderByColumn
	switch o {
	case SortPriceAsc:
		primary = clause.OrderByColumn{Column: col("price")}
	case SortPriceDesc:
		primary = clause.OrderByColumn{Column: col("price"), Desc: true}
	case SortRating:
		primary = clause.OrderByColumn{Column: col("rating"), Desc: true}
	case SortPopular:
		primary = clause.OrderByColumn{Column: col("review_count"), Desc: true}
	default:
		primary = clause.OrderByColumn{Column: col("created_at"), Desc: true}
	}
	// id breaks ties so pages are stable.
	return clause.OrderBy{Columns: []clause.OrderByColumn{primary, {Column: col("id")}}}
}

type ProductFilters struct {
	CategoryID *uuid.UUID
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Fabric     string
	Occasion   string
	Color      string
	IsNew      *bool
	IsFeatured *bool
	IsSale     *bool
	SortBy     SortOrder
	Limit      int
	Offset     int
}

const (
	DefaultProductLimit = 20
	DefaultCuratedLimit = 8
	MaxProductLimit     = 100
)

// Predicate is a single typed condition on the products table.
type Predicate interface {
	Expression() clause.Expression
}

// Eq matches a products column exactly.
type Eq struct {
	Column string
	Value  any
}

func (p Eq) Expression() clause.Expression {
	return clause.Eq{Column: clause.Column{Table: "products", Name: p.Column}, Value: p.Value}
}

// In matches a products column against a set of values.
type In struct {
	Column string
	Values []any
}

func (p In) Expression() clause.Expression {
	return clause.IN{Column: clause.Column{Table: "products", Name: p.Column}, Values: p.Values}
}

// Range bounds a products column inclusively. Nil bounds are open.
type Range struct {
	Column string
	Min    *decimal.Decimal
	Max    *decimal.Decimal
}

func (p Range) Expression() clause.Expression {
	col := clause.Column{Table: "products", Name: p.Column}
	var exprs []clause.Expression
	if p.Min != nil {
		exprs = append(exprs, clause.Gte{Column: col, Value: *p.Min})
	}
	if p.Max != nil {
		exprs = append(exprs, clause.Lte{Column: col, Value: *p.Max})
	}
	return clause.And(exprs...)
}

// Search is a case-insensitive substring match over name OR description.
type Search struct {
	Term string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (p Search) Expression() clause.Expression {
	pattern := "%" + likeEscaper.Replace(p.Term) + "%"
	return clause.Or(
		clause.Expr{SQL: "? ILIKE ?", Vars: []any{clause.Column{Table: "products", Name: "name"}, pattern}},
		clause.Expr{SQL: "? ILIKE ?", Vars: []any{clause.Column{Table: "products", Name: "description"}, pattern}},
	)
}

// FilterBuilder accumulates predicates and compiles them into one WHERE
// clause. The active-only predicate is always present.
type FilterBuilder struct {
	predicates []Predicate
}

func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{predicates: []Predicate{Eq{Column: "is_active", Value: true}}}
}

func (b *FilterBuilder) Where(p Predicate) *FilterBuilder {
	b.predicates = append(b.predicates, p)
	return b
}

func (b *FilterBuilder) Category(id *uuid.UUID) *FilterBuilder {
	if id == nil {
		return b
	}
	return b.Where(Eq{Column: "category_id", Value: *id})
}

func (b *FilterBuilder) Search(term string) *FilterBuilder {
	term = strings.TrimSpace(term)
	if term == "" {
		return b
	}
	return b.Where(Search{Term: term})
}

func (b *FilterBuilder) PriceBetween(min, max *decimal.Decimal) *FilterBuilder {
	if min == nil && max == nil {
		return b
	}
	return b.Where(Range{Column: "price", Min: min, Max: max})
}

// Attribute adds an exact match on a text column when value is non-empty.
func (b *FilterBuilder) Attribute(column, value string) *FilterBuilder {
	if value == "" {
		return b
	}
	return b.Where(Eq{Column: column, Value: value})
}

// Flag adds an exact match on a boolean column when value is set.
func (b *FilterBuilder) Flag(column string, value *bool) *FilterBuilder {
	if value == nil {
		return b
	}
	return b.Where(Eq{Column: column, Value: *value})
}

func (b *FilterBuilder) Build() clause.Where {
	exprs := make([]clause.Expression, len(b.predicates))
	for i, p := range b.predicates {
		exprs[i] = p.Expression()
	}
	return clause.Where{Exprs: exprs}
}

// Where compiles the filters into a WHERE clause. Pagination and sort are
// not part of it.
func (f ProductFilters) Where() clause.Where {
	return NewFilterBuilder().
		Category(f.CategoryID).
		Search(f.Search).
		PriceBetween(f.MinPrice, f.MaxPrice).
		Attribute("fabric", f.Fabric).
		Attribute("occasion", f.Occasion).
		Attribute("color", f.Color).
		Flag("is_new", f.IsNew).
		Flag("is_featured", f.IsFeatured).
		Flag("is_sale", f.IsSale).
		Build()
}

// Page returns limit and offset with defaults applied.
func (f ProductFilters) Page() (limit, offset int) {
	limit = f.Limit
	if limit <= 0 {
		limit = DefaultProductLimit
	}
	if limit > MaxProductLimit {
		limit = MaxProductLimit
	}
	offset = f.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
