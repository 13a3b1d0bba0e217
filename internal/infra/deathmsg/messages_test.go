package deathmsg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFallsBackToDefaults(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "no-existe.yml"))
	require.NoError(t, err)

	assert.NotEmpty(t, m.Suicide)
	assert.NotEmpty(t, m.FirstKill)
	assert.NotEmpty(t, m.Retaliate)
	assert.NotEmpty(t, m.RetaliateOld)
	assert.NotEmpty(t, m.Accident)
}

func TestLoadOperatorFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("suicide:\n  - \"{victim} se fue solo\"\n"), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"{victim} se fue solo"}, m.Suicide)
	// Categorías no definidas quedan vacías; Render cubre con el fallback.
	assert.Empty(t, m.FirstKill)
}

func TestRenderReplacesPlaceholders(t *testing.T) {
	m := &Messages{FirstKill: []string{"{killer} mató a {victim} con {weapon} en {location}"}}

	out := m.Render("FirstKill", Vars{Killer: "Bob", Victim: "Alice", Weapon: "Rifle", Location: "Base"})
	assert.Equal(t, "Bob mató a Alice con Rifle en Base", out)
}

func TestRenderFallback(t *testing.T) {
	m := &Messages{}
	assert.Equal(t, "Alice died.", m.Render("FirstKill", Vars{Victim: "Alice"}))
	assert.Equal(t, "Alice died.", m.Render("algo-desconocido", Vars{Victim: "Alice"}))
}

func TestDefaultsRenderClean(t *testing.T) {
	m, err := Load("")
	require.NoError(t, err)

	for _, cat := range []string{"Suicide", "FirstKill", "Retaliate", "RetaliateOld", "Accident"} {
		for i := 0; i < 20; i++ {
			out := m.Render(cat, Vars{Killer: "Bob", Victim: "Alice", Weapon: "Rifle", Location: "Base"})
			assert.NotContains(t, out, "{", "placeholder sin reemplazar en %s: %s", cat, out)
		}
	}
}
