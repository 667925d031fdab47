package manifest

import (
	"context"
	"fmt"
	"path"

	"github.com/vk/splashload/internal/config"
	"github.com/vk/splashload/internal/ctxlog"
	"github.com/vk/splashload/internal/errors"
)

const opLoad = "manifest.load"

// decodeFunc turns raw manifest bytes into descriptors.
type decodeFunc func(data []byte, filename string) ([]config.Descriptor, error)

// Loader is the extension-dispatching implementation of config.Loader.
type Loader struct {
	decoders map[string]decodeFunc
}

// NewLoader creates a manifest loader with the JSON and HCL decoders.
func NewLoader() *Loader {
	return &Loader{
		decoders: map[string]decodeFunc{
			".json": decodeJSON,
			".hcl":  decodeHCL,
		},
	}
}

// Load reads, decodes and validates the manifest described by src.
func (l *Loader) Load(ctx context.Context, src config.Source) (*config.Manifest, error) {
	logger := ctxlog.FromContext(ctx)

	if src.Namespace == nil {
		return nil, errors.Dependency(opLoad, errors.New("no namespace to read the manifest from"))
	}

	rel := src.Path()
	location := src.Namespace.Location(rel)
	logger.Debug("Manifest loader started.", "namespace", src.Namespace.Name(), "location", location)

	decode, ok := l.decoders[path.Ext(rel)]
	if !ok {
		return nil, errors.Configurationf(opLoad, "unsupported manifest format %q for %s", path.Ext(rel), location)
	}

	data, err := src.Namespace.ReadFile(rel)
	if err != nil {
		return nil, errors.Configuration(opLoad, fmt.Errorf("failed to read manifest %s: %w", location, err))
	}

	descriptors, err := decode(data, location)
	if err != nil {
		return nil, errors.Configuration(opLoad, err)
	}
	if len(descriptors) == 0 {
		return nil, errors.Configurationf(opLoad, "manifest %s lists no components", location)
	}

	for i, d := range descriptors {
		if err := Validate(d); err != nil {
			return nil, errors.Configuration(opLoad, fmt.Errorf("%s: entry %d: %w", location, i, err))
		}
	}

	logger.Debug("Manifest loaded.", "location", location, "components", len(descriptors))
	return &config.Manifest{Origin: location, Descriptors: descriptors}, nil
}
