package pgsql

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Line and bill amounts keep full precision until the bill total is rounded, so no numeric
// column may fix a scale that the in-memory store would not apply.
func TestMigrations_NumericColumnsHaveNoFixedScale(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "..", "..", "migrations", "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	scaled := regexp.MustCompile(`(?i)\b(NUMERIC|DECIMAL)\s*\(`)
	for _, f := range files {
		sql, err := os.ReadFile(f)
		require.NoError(t, err)
		assert.Empty(t, scaled.FindAllString(string(sql), -1), f)
	}
}
