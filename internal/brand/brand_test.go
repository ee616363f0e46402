package brand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Builtin(t *testing.T) {
	r := NewRegistry()

	b := r.Get("VegasInsider")
	assert.Equal(t, "brand-vegasinsider", b.Class)
	assert.Equal(t, "#F2C23A", b.Accent)
	assert.Equal(t, "#E6492D", b.MapScale[2])
}

func TestGet_UnknownFallsBackToDefault(t *testing.T) {
	r := NewRegistry()

	b := r.Get("No Such Brand")
	assert.Equal(t, DefaultName, b.Name)

	b = r.Get("")
	assert.Equal(t, DefaultName, b.Name)
}

func TestNames(t *testing.T) {
	r := NewRegistry()
	names := r.Names()
	assert.Equal(t, []string{
		"Action Network",
		"Canada Sports Betting",
		"RotoGrinders",
		"VegasInsider",
	}, names)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brands.yaml")
	content := `
FadeAlert:
  class: brand-fadealert
  logo_url: https://cdn.example.com/fa.png
  logo_alt: FadeAlert logo
  accent: "#7C3AED"
  accent_soft: "#EDE9FE"
  map_scale: ["#EDE9FE", "#A78BFA", "#5B21B6"]
VegasInsider:
  name: VegasInsider
  class: brand-vegasinsider
  accent: "#FFD700"
  accent_soft: "#FFF7DC"
  map_scale: ["#93C5FD", "#FFD700", "#E6492D"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r := NewRegistry()
	require.NoError(t, r.LoadOverrides(path))

	// New brand added; missing name field defaults to the map key.
	fa := r.Get("FadeAlert")
	assert.Equal(t, "FadeAlert", fa.Name)
	assert.Equal(t, "#7C3AED", fa.Accent)

	// Existing brand replaced wholesale.
	vi := r.Get("VegasInsider")
	assert.Equal(t, "#FFD700", vi.Accent)
	assert.Empty(t, vi.LogoURL)
}

func TestLoadOverrides_MissingFile(t *testing.T) {
	r := NewRegistry()
	err := r.LoadOverrides(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read overrides")
}

func TestLoadOverrides_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	r := NewRegistry()
	err := r.LoadOverrides(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse overrides")
}
