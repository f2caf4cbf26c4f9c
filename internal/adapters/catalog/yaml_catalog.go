package catalog

import (
	"bytes"
	"context"
	"dispatch-planning-service/internal/domain"
	"dispatch-planning-service/internal/platform/obs"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Vehicles []domain.VehicleProfile `yaml:"vehicles"`
}

// YAMLCatalog reads vehicle profiles from a YAML file on every call, so
// edits to the file apply without a restart.
type YAMLCatalog struct {
	Path string
}

func NewYAMLCatalog(path string) *YAMLCatalog {
	return &YAMLCatalog{Path: path}
}

func (c *YAMLCatalog) ListVehicleProfiles(ctx context.Context) (_ []domain.VehicleProfile, err error) {
	defer obs.Time(ctx, "catalog.yaml.ListVehicleProfiles")(&err)

	raw, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("yaml catalog: read %q: %w", c.Path, err)
	}

	vehicles, err := ParseYAML(raw)
	if err != nil {
		return nil, fmt.Errorf("yaml catalog: %q: %w", c.Path, err)
	}
	return vehicles, nil
}

// ParseYAML decodes and validates a catalog document. Unknown keys are
// rejected to catch misspelled dimensions.
func ParseYAML(raw []byte) ([]domain.VehicleProfile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var f catalogFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrEmptyCatalog
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	vehicles, err := domain.NormalizeCatalog(f.Vehicles)
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}
