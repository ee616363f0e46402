// Package brand holds per-brand theming for widget rendering.
package brand

import (
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Brand is the theme applied to a rendered widget: accent palette, logo,
// and the three-stop color scale used by the choropleth.
type Brand struct {
	Name       string    `yaml:"name"`
	Class      string    `yaml:"class"`
	LogoURL    string    `yaml:"logo_url"`
	LogoAlt    string    `yaml:"logo_alt"`
	Accent     string    `yaml:"accent"`
	AccentSoft string    `yaml:"accent_soft"`
	MapScale   [3]string `yaml:"map_scale"`
}

// DefaultName is the brand used when none is requested.
const DefaultName = "Action Network"

var builtin = map[string]Brand{
	"Action Network": {
		Name:       "Action Network",
		Class:      "brand-actionnetwork",
		LogoURL:    "https://i.postimg.cc/x1nG117r/AN-final2-logo.png",
		LogoAlt:    "Action Network logo",
		Accent:     "#16A34A",
		AccentSoft: "#DCFCE7",
		MapScale:   [3]string{"#DCFCE7", "#4ADE80", "#166534"},
	},
	"VegasInsider": {
		Name:       "VegasInsider",
		Class:      "brand-vegasinsider",
		LogoURL:    "https://i.postimg.cc/kGVJyXc1/VI-logo-final.png",
		LogoAlt:    "VegasInsider logo",
		Accent:     "#F2C23A",
		AccentSoft: "#FFF7DC",
		MapScale:   [3]string{"#7CB3FF", "#F2C23A", "#E6492D"},
	},
	"Canada Sports Betting": {
		Name:       "Canada Sports Betting",
		Class:      "brand-canadasb",
		LogoURL:    "https://i.postimg.cc/ZKbrbPCJ/CSB-FN.png",
		LogoAlt:    "Canada Sports Betting logo",
		Accent:     "#DC2626",
		AccentSoft: "#FEE2E2",
		MapScale:   [3]string{"#FEE2E2", "#FB7185", "#B91C1C"},
	},
	"RotoGrinders": {
		Name:       "RotoGrinders",
		Class:      "brand-rotogrinders",
		LogoURL:    "https://i.postimg.cc/PrcJnQtK/RG-logo-Fn.png",
		LogoAlt:    "RotoGrinders logo",
		Accent:     "#0EA5E9",
		AccentSoft: "#E0F2FE",
		MapScale:   [3]string{"#E0F2FE", "#38BDF8", "#1D4ED8"},
	},
}

// Registry resolves brand names to themes, with optional overrides layered
// on top of the built-in set.
type Registry struct {
	brands map[string]Brand
}

// NewRegistry returns a registry holding the built-in brands.
func NewRegistry() *Registry {
	m := make(map[string]Brand, len(builtin))
	for k, v := range builtin {
		m[k] = v
	}
	return &Registry{brands: m}
}

// LoadOverrides merges brand definitions from a YAML file keyed by brand
// name. New names are added; existing names are replaced wholesale.
func (r *Registry) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrap(err, "brand: read overrides")
	}

	var overrides map[string]Brand
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return eris.Wrap(err, "brand: parse overrides")
	}

	for name, b := range overrides {
		if b.Name == "" {
			b.Name = name
		}
		r.brands[name] = b
	}
	return nil
}

// Get resolves a brand by name, falling back to the default brand for
// unknown or empty names.
func (r *Registry) Get(name string) Brand {
	if b, ok := r.brands[name]; ok {
		return b
	}
	return r.brands[DefaultName]
}

// Names lists known brand names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.brands))
	for name := range r.brands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
