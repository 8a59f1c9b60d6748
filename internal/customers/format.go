package customers

import (
	"strconv"
	"strings"
	"time"
)

const (
	// NoMatchesText is the reply for an empty result.
	NoMatchesText = "No customers matched your request."
	columnDelim   = " | "
)

var tableHeader = []string{"ID", "Name", "Age", "Gender", "Risk", "AUM", "LastContact"}

// Formatted carries a result as both a text table and the ordered records.
type Formatted struct {
	Text    string
	Records []Customer
}

// Format renders records in order. An empty result yields NoMatchesText and no records.
func Format(records []Customer) Formatted {
	if len(records) == 0 {
		return Formatted{Text: NoMatchesText, Records: []Customer{}}
	}

	var b strings.Builder
	b.WriteString(strings.Join(tableHeader, columnDelim))
	for _, c := range records {
		b.WriteByte('\n')
		b.WriteString(strings.Join([]string{
			c.ID,
			c.Name,
			strconv.Itoa(c.Age),
			c.Gender,
			c.RiskProfile,
			strconv.FormatInt(c.AUM, 10),
			c.LastContact.UTC().Format(time.RFC3339),
		}, columnDelim))
	}
	return Formatted{Text: b.String(), Records: records}
}
