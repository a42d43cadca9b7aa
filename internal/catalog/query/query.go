// Package query turns heterogeneous list parameters into a single
// filter/sort/pagination specification. It is pure: a total function from raw
// parameters to a Spec or a validation failure, with no I/O.
package query

import (
	"strconv"
	"strings"

	dErrors "catalog/pkg/domain-errors"
)

// Mode says which of filtering and sorting a request asked for.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeOrder  Mode = "order"
	ModeSearch Mode = "search"
	ModeBoth   Mode = "both"
)

// Direction is the sort direction. Ascending is the default.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// DefaultLimit is the page size used when limit is absent or unparsable.
const DefaultLimit = 10

// Params are the raw, untrusted query parameters of a list request.
type Params struct {
	OrderBy   string
	OrderType string
	Search    string
	Page      string
	Limit     string
}

// Spec is the normalized filter/sort/pagination description executed by the
// storage adapter.
type Spec struct {
	Mode          Mode
	FilterTerm    string
	SortField     string
	SortDirection Direction
	Page          int
	Limit         int
}

// Offset returns the number of rows to skip for the requested page.
func (s Spec) Offset() int {
	return (s.Page - 1) * s.Limit
}

// SortFields is the allow-list of sortable field names. The original passed
// orderBy unchecked into the storage sort clause; here an unrecognized field
// is a bad request instead.
var SortFields = map[string]struct{}{
	"id":            {},
	"sku":           {},
	"productName":   {},
	"productType":   {},
	"productStatus": {},
	"price":         {},
	"registryDate":  {},
	"createdAt":     {},
	"updatedAt":     {},
}

// SearchFields are the fields substring search runs over, OR-combined.
var SearchFields = []string{"productName", "sku", "productType", "productStatus"}

// Parse derives the query mode and normalizes paging. Mode derivation is
// mutually exclusive, evaluated in priority order: order, search, both,
// normal.
func Parse(p Params) (Spec, error) {
	spec := Spec{
		Mode:          ModeNormal,
		SortDirection: Ascending,
		Page:          parsePositive(p.Page, 1),
		Limit:         parsePositive(p.Limit, DefaultLimit),
	}

	switch {
	case p.OrderBy != "" && p.Search == "":
		spec.Mode = ModeOrder
	case p.Search != "" && p.OrderBy == "":
		spec.Mode = ModeSearch
	case p.Search != "" && p.OrderBy != "":
		spec.Mode = ModeBoth
	}

	if spec.Mode == ModeSearch || spec.Mode == ModeBoth {
		spec.FilterTerm = p.Search
	}

	if spec.Mode == ModeOrder || spec.Mode == ModeBoth {
		if _, ok := SortFields[p.OrderBy]; !ok {
			return Spec{}, dErrors.New(dErrors.CodeBadRequest, "unknown sort field: "+p.OrderBy)
		}
		spec.SortField = p.OrderBy

		switch strings.ToUpper(p.OrderType) {
		case "", string(Ascending):
			spec.SortDirection = Ascending
		case string(Descending):
			spec.SortDirection = Descending
		default:
			return Spec{}, dErrors.New(dErrors.CodeBadRequest, "order type must be ASC or DESC")
		}
	}

	return spec, nil
}

// parsePositive tolerates garbage: anything that is not a positive integer
// falls back to the given default.
func parsePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
