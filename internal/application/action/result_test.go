package action

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name string `json:"name"`
}

func TestResult_MarshalJSON(t *testing.T) {
	one := int64(1)
	tests := []struct {
		name string
		res  any
		want string
	}{
		{"record", Ok(&record{Name: "x"}), `{"success":true,"data":{"name":"x"}}`},
		{"no record", Ok[*record](nil), `{"success":true,"data":null}`},
		{"empty list", Ok([]record{}), `{"success":true,"data":[]}`},
		{"update", Result[*record]{Success: true, Data: &record{Name: "y"}, Matched: &one}, `{"success":true,"data":{"name":"y"},"matched":1}`},
		{"failure", Fail[*record]("Failed to fetch profile."), `{"success":false,"message":"Failed to fetch profile."}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.res)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}

func TestResult_ConfigErrorNotSerialized(t *testing.T) {
	res := Fail[*record]("Failed to fetch jobs.")
	res.configErr = errors.New("DATABASE_URL missing")

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "DATABASE_URL")
	assert.Error(t, res.ConfigError())
}
