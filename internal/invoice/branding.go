package invoice

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed assets/issuer.yaml assets/logo_green.png
var brandingFS embed.FS

const brandingManifest = "assets/issuer.yaml"

// Issuer is the selling party printed in the header.
type Issuer struct {
	Name     string `yaml:"name"`
	Street   string `yaml:"street"`
	CityLine string `yaml:"cityLine"`
	Phone    string `yaml:"phone"`
}

// Lines returns the issuer block in print order.
func (i Issuer) Lines() []string {
	lines := make([]string, 0, 4)
	for _, line := range []string{i.Name, i.Street, i.CityLine} {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if phone := strings.TrimSpace(i.Phone); phone != "" {
		lines = append(lines, "Phone: "+phone)
	}
	return lines
}

// Branding is the compiled-in identity of the invoice issuer.
type Branding struct {
	Issuer Issuer
	Logo   Image
}

type brandingManifestFile struct {
	Issuer Issuer `yaml:"issuer"`
	Logo   struct {
		File string `yaml:"file"`
		Type string `yaml:"type"`
	} `yaml:"logo"`
}

// DefaultBranding decodes the embedded issuer manifest and logo.
func DefaultBranding() (Branding, error) {
	raw, err := brandingFS.ReadFile(brandingManifest)
	if err != nil {
		return Branding{}, fmt.Errorf("invoice: read branding manifest: %w", err)
	}
	var manifest brandingManifestFile
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return Branding{}, fmt.Errorf("invoice: decode branding manifest: %w", err)
	}
	if strings.TrimSpace(manifest.Issuer.Name) == "" {
		return Branding{}, errors.New("invoice: branding manifest missing issuer name")
	}

	logoFile := strings.TrimSpace(manifest.Logo.File)
	if logoFile == "" {
		return Branding{}, errors.New("invoice: branding manifest missing logo file")
	}
	data, err := brandingFS.ReadFile(path.Join("assets", logoFile))
	if err != nil {
		return Branding{}, fmt.Errorf("invoice: read logo %s: %w", logoFile, err)
	}

	imageType := strings.ToUpper(strings.TrimSpace(manifest.Logo.Type))
	if imageType == "" {
		imageType = strings.ToUpper(strings.TrimPrefix(path.Ext(logoFile), "."))
	}

	return Branding{
		Issuer: manifest.Issuer,
		Logo: Image{
			Name: strings.TrimSuffix(logoFile, path.Ext(logoFile)),
			Type: imageType,
			Data: data,
		},
	}, nil
}
