package documents

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_UnmarshalReceivedAt(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2024-01-10T09:00:00Z"`, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)},
		{"offset", `"2024-01-10T11:00:00+02:00"`, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)},
		{"no zone", `"2024-01-10T09:00:30"`, time.Date(2024, 1, 10, 9, 0, 30, 0, time.UTC)},
		{"minutes only", `"2024-01-10T09:00"`, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)},
		{"blank", `""`, time.Time{}},
		{"null", `null`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Fields
			body := `{"reference":"Budget request","identifier":"M-001","received_at":` + tt.in + `}`
			require.NoError(t, json.Unmarshal([]byte(body), &f))

			assert.True(t, tt.want.Equal(f.ReceivedAt), "got %v", f.ReceivedAt)
			assert.Equal(t, "Budget request", f.Reference)
			require.NotNil(t, f.Identifier)
			assert.Equal(t, "M-001", *f.Identifier)
		})
	}
}

func TestFields_UnmarshalRejectsBadReceivedAt(t *testing.T) {
	for _, in := range []string{`"10/01/2024"`, `"2024-01-10"`, `42`} {
		var f Fields
		assert.Error(t, json.Unmarshal([]byte(`{"received_at":`+in+`}`), &f), in)
	}
}
