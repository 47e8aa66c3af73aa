package migrations_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/reception-registry/migrations"
)

func TestFS_PairsUpAndDown(t *testing.T) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	require.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func TestFS_DocumentTypeConstraintName(t *testing.T) {
	data, err := fs.ReadFile(migrations.FS, "000001_registry.up.sql")
	require.NoError(t, err)

	assert.Contains(t, string(data), "CONSTRAINT documents_type_id_fkey")
	assert.Contains(t, string(data), "CREATE VIEW document_records")
}
