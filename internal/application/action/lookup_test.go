package action

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Haleralex/jobportal/internal/application/ports"
)

func TestByID(t *testing.T) {
	assert.Equal(t, ports.Filter{ports.Eq("_id", "abc")}, ByID(ports.Document{"_id": "abc", "name": "x"}))
	assert.Nil(t, ByID(ports.Document{"name": "x"}))
	assert.Nil(t, ByID(ports.Document{"_id": ""}))
	assert.Nil(t, ByID(ports.Document{"_id": 12}))
	assert.Nil(t, ByID(nil))
}
