package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddDatasets(t *testing.T) {
	before := GetMetrics()["datasets_loaded"].(uint64)

	AddDatasets(3)
	AddDatasets(0)
	AddDatasets(-2)

	assert.Equal(t, before+3, GetMetrics()["datasets_loaded"].(uint64))
}
