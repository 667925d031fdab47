// Package component decodes component source files. A source file declares
// the classes it provides; the loader links a class only when the file that
// the manifest points at actually declares it.
//
//	component "MainController" {
//	  description = "Routes the main window"
//	}
package component

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// DefaultExtension is appended to relativePath+class to locate a source.
const DefaultExtension = ".hcl"

// Declaration is one class provided by a source file.
type Declaration struct {
	Class       string   `hcl:"class,label"`
	Description string   `hcl:"description,optional"`
	Remain      hcl.Body `hcl:",remain"`
}

// Source is a decoded component source file.
type Source struct {
	Filename     string
	Declarations []*Declaration
}

type sourceRoot struct {
	Components []*Declaration `hcl:"component,block"`
	Remain     hcl.Body       `hcl:",remain"`
}

// Parse decodes an HCL component source. filename is used in diagnostics.
func Parse(data []byte, filename string) (*Source, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse component source %s: %w", filename, diags)
	}

	var root sourceRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode component source %s: %w", filename, diags)
	}

	return &Source{Filename: filename, Declarations: root.Components}, nil
}

// Declares reports whether the source provides class.
func (s *Source) Declares(class string) bool {
	return s.Lookup(class) != nil
}

// Lookup returns the declaration for class, or nil.
func (s *Source) Lookup(class string) *Declaration {
	if s == nil {
		return nil
	}
	for _, d := range s.Declarations {
		if d.Class == class {
			return d
		}
	}
	return nil
}

// Classes lists declared classes in file order.
func (s *Source) Classes() []string {
	classes := make([]string, 0, len(s.Declarations))
	for _, d := range s.Declarations {
		classes = append(classes, d.Class)
	}
	return classes
}
