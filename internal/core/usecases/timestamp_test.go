package usecases_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/geofunlab/internal/core/usecases"
)

func TestTimestampFormatter_Format(t *testing.T) {
	tests := []struct {
		name   string
		locale string
		in     string
		want   string
	}{
		{"utc afternoon", "en-US", "2024-05-01T15:04:05Z", "3:04:05 PM"},
		{"offset converted to zone", "en", "2024-05-01T15:04:05+02:00", "1:04:05 PM"},
		{"python isoformat", "en", "2024-05-01T09:04:05.123456+00:00", "9:04:05 AM"},
		{"no offset uses zone", "en", "2024-05-01T00:30:00", "12:30:00 AM"},
		{"spanish", "es-MX", "2024-05-01T15:04:05Z", "3:04:05 p. m."},
		{"japanese", "ja-JP", "2024-05-01T15:04:05Z", "午後3:04:05"},
		{"accept-language list", "fr-CH, de;q=0.9", "2024-05-01T08:00:00Z", "8:00:00 AM"},
		{"unknown locale", "xx", "2024-05-01T12:00:00Z", "12:00:00 PM"},
		{"empty", "en", "", ""},
		{"unparsable", "en", "yesterday at noon", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := usecases.NewTimestampFormatter(tt.locale, "UTC")
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Format(tt.in))
		})
	}
}

func TestNewTimestampFormatter_BadZone(t *testing.T) {
	_, err := usecases.NewTimestampFormatter("en", "Mars/Olympus_Mons")
	assert.Error(t, err)
}
