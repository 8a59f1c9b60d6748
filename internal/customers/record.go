package customers

import (
	"cmp"
	"time"
)

// Customer is a single roster entry. Records are never mutated after load.
type Customer struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	Gender      string    `json:"gender"`
	RiskProfile string    `json:"riskProfile"`
	AUM         int64     `json:"aum"`
	LastContact time.Time `json:"lastContact"`
	Relevance   int       `json:"relevance"`
}

// Risk profiles used by the fixture.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// sortFields maps a record field name (as it appears in JSON) to a comparator.
var sortFields = map[string]func(a, b Customer) int{
	"id":          func(a, b Customer) int { return cmp.Compare(a.ID, b.ID) },
	"name":        func(a, b Customer) int { return cmp.Compare(a.Name, b.Name) },
	"age":         func(a, b Customer) int { return cmp.Compare(a.Age, b.Age) },
	"gender":      func(a, b Customer) int { return cmp.Compare(a.Gender, b.Gender) },
	"riskProfile": func(a, b Customer) int { return cmp.Compare(a.RiskProfile, b.RiskProfile) },
	"aum":         func(a, b Customer) int { return cmp.Compare(a.AUM, b.AUM) },
	"lastContact": func(a, b Customer) int { return a.LastContact.Compare(b.LastContact) },
	"relevance":   func(a, b Customer) int { return cmp.Compare(a.Relevance, b.Relevance) },
}

// IsSortField reports whether name is a sortable record field.
func IsSortField(name string) bool {
	_, ok := sortFields[name]
	return ok
}
