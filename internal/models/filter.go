package models

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortNone       SortKey = ""
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortRatingDesc SortKey = "rating"
)

// FilterSpec is the current filter/sort selection for a catalog view.
// It is rebuilt from the request on every invocation; price bounds stay as the
// raw strings the user typed, and bounds that do not parse mean "no bound".
type FilterSpec struct {
	Category string
	MinPrice string
	MaxPrice string
	Search   string
	Sort     SortKey
}
