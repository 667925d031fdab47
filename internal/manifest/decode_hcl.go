package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/splashload/internal/config"
)

// hclManifest is the root of an HCL manifest file.
type hclManifest struct {
	Components []*hclComponent `hcl:"component,block"`
	Remain     hcl.Body        `hcl:",remain"`
}

// hclComponent mirrors one JSON entry; the display name is the block label.
type hclComponent struct {
	Name     string `hcl:"name,label"`
	Class    string `hcl:"class"`
	Path     string `hcl:"path"`
	Init     bool   `hcl:"init"`
	Resource bool   `hcl:"resource"`
}

func decodeHCL(data []byte, filename string) ([]config.Descriptor, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL manifest %s: %w", filename, diags)
	}

	var root hclManifest
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL manifest %s: %w", filename, diags)
	}

	descriptors := make([]config.Descriptor, 0, len(root.Components))
	for _, c := range root.Components {
		descriptors = append(descriptors, config.Descriptor{
			DisplayName:  c.Name,
			Class:        c.Class,
			RelativePath: c.Path,
			Initialize:   c.Init,
			FromResource: c.Resource,
		})
	}
	return descriptors, nil
}
