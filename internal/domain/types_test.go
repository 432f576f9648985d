package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObligationState_String(t *testing.T) {
	tests := []struct {
		state ObligationState
		want  string
	}{
		{StateNew, "New"},
		{StateMatched, "Matched"},
		{StatePartiallySettled, "PartiallySettled"},
		{StateSettled, "Settled"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
}

func TestParseStatusCode_RoundTrip(t *testing.T) {
	for _, code := range []StatusCode{CodeAck, CodeMatched, CodePartialSettled, CodeSettled} {
		parsed, err := ParseStatusCode(code.String())
		require.NoError(t, err)
		assert.Equal(t, code, parsed)
	}
}

func TestParseStatusCode_Unknown(t *testing.T) {
	for _, s := range []string{"", "matched", "CANCELLED", "ACK "} {
		_, err := ParseStatusCode(s)
		assert.Error(t, err, "code %q should not parse", s)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, Date("2024-03-15"), d)

	for _, s := range []string{"", "2024-13-01", "2024-02-30", "15-03-2024", "2024/03/15"} {
		_, err := ParseDate(s)
		assert.Error(t, err, "date %q should not parse", s)
	}
}

func TestMatchKey_String(t *testing.T) {
	key := MatchKey{ISIN: "US0378331005", Account: "ACC123", SettleDate: "2024-03-15"}
	assert.Equal(t, "US0378331005-ACC123-2024-03-15", key.String())
}

func TestMatchKey_Comparable(t *testing.T) {
	a := MatchKey{ISIN: "US0378331005", Account: "ACC123", SettleDate: "2024-03-15"}
	b := MatchKey{ISIN: "US0378331005", Account: "ACC123", SettleDate: "2024-03-15"}
	c := MatchKey{ISIN: "US0378331005", Account: "ACC123", SettleDate: "2024-03-16"}

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	// Keys are used directly as map keys in the matching index.
	m := map[MatchKey]int{a: 1}
	assert.Equal(t, 1, m[b])
}
