package middleware

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDatasetName(t *testing.T) {
	for _, name := range []string{"sales.json", "Q3 report.json", "a-b_c.json"} {
		assert.NoError(t, ValidateDatasetName(name), name)
	}
	for _, name := range []string{"", "../etc/passwd", `a\b.json`, "x/y.json", strings.Repeat("a", 200)} {
		assert.Error(t, ValidateDatasetName(name), name)
	}
}

func TestValidateQuestion(t *testing.T) {
	assert.NoError(t, ValidateQuestion("total sales per region"))
	assert.Error(t, ValidateQuestion("   "))
	assert.Error(t, ValidateQuestion(strings.Repeat("x", 3000)))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "ab", SanitizeString("a\x00b"))
	assert.Equal(t, "a\nb", SanitizeString(" a\nb "))
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 20, ValidateLimit(-3))
	assert.Equal(t, 7, ValidateLimit(7))
	assert.Equal(t, 100, ValidateLimit(500))
}
