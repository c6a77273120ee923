package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `brand,model,range_km,battery_capacity_kWh
Acme,X,250,
,Y,300,44
Zeta,Z,,50
`

func TestParse(t *testing.T) {
	t.Run("HeaderMapping", func(t *testing.T) {
		rows, err := Parse(strings.NewReader(sampleCSV))
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, "Acme", rows[0]["brand"])
		assert.Equal(t, "250", rows[0]["range_km"])

		// Blank cells are absent, not empty strings.
		_, present := rows[0]["battery_capacity_kWh"]
		assert.False(t, present)
		_, present = rows[1]["brand"]
		assert.False(t, present)
	})

	t.Run("RaggedRows", func(t *testing.T) {
		rows, err := Parse(strings.NewReader("brand,model,range_km\nAcme,X\nZeta,Z,410,extra\n"))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "X", rows[0]["model"])
		assert.Equal(t, "410", rows[1]["range_km"])
	})

	t.Run("EmptyInput", func(t *testing.T) {
		rows, err := Parse(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("HeaderOnly", func(t *testing.T) {
		rows, err := Parse(strings.NewReader("brand,model\n"))
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestLoader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicles.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	rows, err := NewLoader(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestLoader_FileMissing(t *testing.T) {
	_, err := NewLoader("/nope/missing.csv").Load(context.Background())
	assert.Error(t, err)
}

func TestLoader_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	rows, err := NewLoader(srv.URL).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestLoader_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewLoader(srv.URL).Load(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
