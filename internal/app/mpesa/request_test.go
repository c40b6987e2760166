package mpesa

import (
	"encoding/base64"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var timestampPattern = regexp.MustCompile(`^\d{14}$`)

func TestTimestamp_ZeroPadded(t *testing.T) {
	ts := Timestamp(time.Date(2025, time.March, 4, 5, 6, 7, 0, time.Local))

	require.Equal(t, "20250304050607", ts)
}

func TestTimestamp_UsesLocalTime(t *testing.T) {
	instant := time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC)

	require.Equal(t, instant.Local().Format("20060102150405"), Timestamp(instant))
}

func TestBuilderTimestamp_FixedWidthAndNonDecreasing(t *testing.T) {
	b := NewBuilder(Credentials{ShortCode: "174379", PassKey: "key"}, nil)

	prev := b.Timestamp()
	for range 50 {
		ts := b.Timestamp()
		require.Regexp(t, timestampPattern, ts)
		require.GreaterOrEqual(t, ts, prev)
		prev = ts
	}
}

func TestPassword_Deterministic(t *testing.T) {
	first := Password("174379", "bfb279f9aa9bdbcf", "20250101120000")
	second := Password("174379", "bfb279f9aa9bdbcf", "20250101120000")

	require.Equal(t, first, second)

	decoded, err := base64.StdEncoding.DecodeString(first)
	require.NoError(t, err)
	require.Equal(t, "174379bfb279f9aa9bdbcf20250101120000", string(decoded))
}

func TestPassword_ChangesWithInputs(t *testing.T) {
	require.NotEqual(t,
		Password("174379", "key", "20250101120000"),
		Password("174379", "key", "20250101120001"),
	)
}

func TestBuilderSign(t *testing.T) {
	now := time.Date(2025, time.June, 1, 8, 30, 0, 0, time.Local)
	b := NewBuilder(Credentials{ShortCode: "600000", PassKey: "pass"}, func() time.Time { return now })

	ts, password := b.Sign()

	require.Equal(t, "20250601083000", ts)
	require.Equal(t, Password("600000", "pass", ts), password)
	require.Equal(t, "600000", b.ShortCode())
}
