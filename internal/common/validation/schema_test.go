// internal/common/validation/schema_test.go
package validation

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealerForm_Validate(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
		valid   bool
	}{
		{
			name: "complete dealer accepted",
			payload: map[string]interface{}{
				"dealerName": "Crestline Motors",
				"dealerId":   "DLR-900",
				"email":      "sales@crestline.example.com",
				"contact":    "555-0199",
			},
			valid: true,
		},
		{
			name: "optional fields accepted",
			payload: map[string]interface{}{
				"dealerName": "Crestline Motors",
				"dealerId":   "DLR-900",
				"email":      "sales@crestline.example.com",
				"contact":    "555-0199",
				"vin":        "1HGCM82633A004352",
				"address":    "12 Harbor Rd",
			},
			valid: true,
		},
		{
			name: "missing required field rejected",
			payload: map[string]interface{}{
				"dealerName": "Crestline Motors",
				"dealerId":   "DLR-900",
				"contact":    "555-0199",
			},
			valid: false,
		},
		{
			name: "malformed email rejected",
			payload: map[string]interface{}{
				"dealerName": "Crestline Motors",
				"dealerId":   "DLR-900",
				"email":      "not-an-email",
				"contact":    "555-0199",
			},
			valid: false,
		},
		{
			name: "unknown field rejected",
			payload: map[string]interface{}{
				"dealerName": "Crestline Motors",
				"dealerId":   "DLR-900",
				"email":      "sales@crestline.example.com",
				"contact":    "555-0199",
				"role":       "admin",
			},
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DealerForm.Validate(tt.payload)
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.NotEmpty(t, result.Details())
			}
		})
	}
}

func TestPayloadFromForm(t *testing.T) {
	form := url.Values{
		"dealerName": {"Crestline Motors"},
		"dealerId":   {"DLR-900"},
		"email":      {"sales@crestline.example.com"},
		"contact":    {"555-0199"},
		"vin":        {""},
		"csrf":       {"ignored"},
	}

	payload := DealerForm.PayloadFromForm(form)

	assert.Equal(t, "Crestline Motors", payload["dealerName"])
	assert.NotContains(t, payload, "vin", "empty optional fields are omitted")
	assert.NotContains(t, payload, "csrf", "unknown form fields are ignored")
	assert.NotContains(t, payload, "address", "absent fields are omitted")
}

func TestPayloadFromForm_NumberCoercion(t *testing.T) {
	form := url.Values{
		"dealerId":    {"DLR-900"},
		"vin":         {"1HGCM82633A004352"},
		"vehicleYear": {"2021"},
		"model":       {"Accord"},
		"mileage":     {"42000"},
		"floorPrice":  {"18250.50"},
	}

	payload := SubmissionForm.PayloadFromForm(form)

	require.Contains(t, payload, "mileage")
	assert.Equal(t, float64(42000), payload["mileage"])
	assert.Equal(t, 18250.50, payload["floorPrice"])
	assert.Equal(t, float64(2021), payload["vehicleYear"])
	assert.Equal(t, "Accord", payload["model"])
}
