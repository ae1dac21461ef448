package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// PageSize is the fixed number of listings per results page.
const PageSize = 12

// FilterAll is the sentinel a form sends for "no preference" on a select
// input. A filter equal to it behaves exactly like an omitted filter.
const FilterAll = "all"

// Filter is the parsed search request. Zero values mean "not constrained".
// The status constraint is applied by the repository: public queries only
// ever see available listings.
type Filter struct {
	Query        string
	Brand        string
	Condition    string
	Transmission string
	FuelType     string
	City         string
	MinPrice     float64
	MaxPrice     float64
	Year         int
	Page         int
}

// Skip is the number of documents to pass over for the requested page.
func (f Filter) Skip() int64 {
	return int64(f.Page-1) * PageSize
}

// TotalPages derives the page count for a result set.
func TotalPages(total int64) int {
	return int((total + PageSize - 1) / PageSize)
}

// ParseFilter builds a Filter from raw query parameters. Pure: no defaults
// come from anywhere but the values themselves. Select filters equal to the
// "all" sentinel are dropped; malformed numbers are ignored rather than
// rejected, matching lenient form handling.
func ParseFilter(values url.Values) Filter {
	f := Filter{
		Query: strings.TrimSpace(values.Get("q")),
		Page:  1,
	}

	f.Brand = selectValue(values.Get("brand"))
	f.Condition = selectValue(values.Get("condition"))
	f.Transmission = selectValue(values.Get("transmission"))
	f.FuelType = selectValue(values.Get("fuelType"))
	f.City = selectValue(values.Get("city"))

	if v, err := strconv.ParseFloat(values.Get("minPrice"), 64); err == nil && v > 0 {
		f.MinPrice = v
	}
	if v, err := strconv.ParseFloat(values.Get("maxPrice"), 64); err == nil && v > 0 {
		f.MaxPrice = v
	}
	if v, err := strconv.Atoi(values.Get("year")); err == nil && v > 0 {
		f.Year = v
	}
	if v, err := strconv.Atoi(values.Get("page")); err == nil && v > 1 {
		f.Page = v
	}

	return f
}

func selectValue(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, FilterAll) {
		return ""
	}
	return v
}
