package customers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormat_Empty(t *testing.T) {
	out := Format(nil)
	require.Equal(t, NoMatchesText, out.Text)
	require.NotNil(t, out.Records)
	require.Empty(t, out.Records)
}

func TestFormat_TableRowsInOrder(t *testing.T) {
	s := NewStore(Fixture())
	records := s.Query(Filter{RiskProfile: RiskHigh, SortBy: "aum", SortDir: SortAsc})

	out := Format(records)
	require.Equal(t, records, out.Records)

	lines := strings.Split(out.Text, "\n")
	require.Len(t, lines, len(records)+1)
	require.Equal(t, "ID | Name | Age | Gender | Risk | AUM | LastContact", lines[0])
	require.Equal(t, "17 | Quinn Evans | 28 | other | high | 75000 | 2025-07-09T11:55:00Z", lines[1])
	require.True(t, strings.HasPrefix(lines[len(lines)-1], "11 | Kevin Scott |"))
}
