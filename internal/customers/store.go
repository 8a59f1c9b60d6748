package customers

import (
	"slices"
	"strings"
)

// Store answers filter queries over a fixed, read-only record set.
// It is safe for concurrent use.
type Store struct {
	records []Customer
}

// NewStore copies records; later changes to the slice do not affect the store.
func NewStore(records []Customer) *Store {
	return &Store{records: slices.Clone(records)}
}

// Len returns the number of loaded records.
func (s *Store) Len() int {
	return len(s.records)
}

// All returns every record in source order.
func (s *Store) All() []Customer {
	return slices.Clone(s.records)
}

// Query applies f to the full record set. Predicates narrow the candidates in
// source order; gender and riskProfile match case-insensitively. Sorting is
// stable and skipped when sort_by is not a record field.
func (s *Store) Query(f Filter) []Customer {
	return Apply(s.records, f)
}

// Apply filters and sorts records without modifying them.
func Apply(records []Customer, f Filter) []Customer {
	search := strings.ToLower(f.Search)
	out := make([]Customer, 0, len(records))
	for _, c := range records {
		if f.Gender != "" && !strings.EqualFold(c.Gender, f.Gender) {
			continue
		}
		if f.RiskProfile != "" && !strings.EqualFold(c.RiskProfile, f.RiskProfile) {
			continue
		}
		if f.AUMMin != nil && c.AUM < *f.AUMMin {
			continue
		}
		if f.AUMMax != nil && c.AUM > *f.AUMMax {
			continue
		}
		if f.AgeMin != nil && c.Age < *f.AgeMin {
			continue
		}
		if f.AgeMax != nil && c.Age > *f.AgeMax {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		out = append(out, c)
	}

	if len(out) == 0 {
		return out
	}
	compare, ok := sortFields[f.SortBy]
	if !ok {
		return out
	}
	if f.Descending() {
		slices.SortStableFunc(out, func(a, b Customer) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}
