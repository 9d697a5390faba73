package domain

import "net/url"

// FilterAll is the sentinel a client sends to clear a filter dimension. It
// collapses to key absence in the query representation, so "explicitly all"
// and "never chosen" encode the same way.
const FilterAll = "all"

// Query keys for the two filter dimensions and the record selection.
const (
	QueryKeyBranch   = "branch"
	QueryKeyDivision = "division"
	QueryKeyRecord   = "record"
)

// SelectionNone is the record query value that explicitly clears the active
// selection. An absent record key leaves the current selection untouched.
const SelectionNone = "-"

// FilterState holds the two optional filter dimensions. The empty string
// means "no constraint". The query string is the canonical owner of this
// state; FilterState is only ever derived from it or written back to it.
type FilterState struct {
	Branch   string `json:"branch,omitempty"`
	Division string `json:"division,omitempty"`
}

// ParseFilterState derives filter state from a query representation. The
// "all" sentinel and an absent key are equivalent.
func ParseFilterState(values url.Values) FilterState {
	return FilterState{
		Branch:   normalizeDimension(values.Get(QueryKeyBranch)),
		Division: normalizeDimension(values.Get(QueryKeyDivision)),
	}
}

// Values writes the state back to a query representation. Unset dimensions
// are omitted entirely, so a round-trip through set-then-clear equals the
// initial unset state.
func (f FilterState) Values() url.Values {
	values := url.Values{}
	if f.Branch != "" {
		values.Set(QueryKeyBranch, f.Branch)
	}
	if f.Division != "" {
		values.Set(QueryKeyDivision, f.Division)
	}
	return values
}

// Encode returns the canonical query-string form of the state.
func (f FilterState) Encode() string {
	return f.Values().Encode()
}

// WithBranch returns a copy with the branch dimension set. Passing the "all"
// sentinel (or "") clears it.
func (f FilterState) WithBranch(value string) FilterState {
	f.Branch = normalizeDimension(value)
	return f
}

// WithDivision returns a copy with the division dimension set.
func (f FilterState) WithDivision(value string) FilterState {
	f.Division = normalizeDimension(value)
	return f
}

// IsZero reports whether neither dimension constrains the record set.
func (f FilterState) IsZero() bool {
	return f.Branch == "" && f.Division == ""
}

func normalizeDimension(value string) string {
	if value == FilterAll {
		return ""
	}
	return value
}
