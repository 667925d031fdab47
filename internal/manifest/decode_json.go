package manifest

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vk/splashload/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// entryType is the object type every JSON manifest entry must match. Listed
// attributes must carry exactly these types; any other attribute is
// discarded by the conversion.
var entryType = cty.Object(map[string]cty.Type{
	"name":     cty.String,
	"class":    cty.String,
	"path":     cty.String,
	"init":     cty.Bool,
	"resource": cty.Bool,
})

type jsonEntry struct {
	Name     string `cty:"name"`
	Class    string `cty:"class"`
	Path     string `cty:"path"`
	Init     bool   `cty:"init"`
	Resource bool   `cty:"resource"`
}

func decodeJSON(data []byte, filename string) ([]config.Descriptor, error) {
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON manifest %s: %w", filename, err)
	}
	if !ty.IsTupleType() {
		return nil, fmt.Errorf("manifest %s must be a JSON array, got %s", filename, ty.FriendlyName())
	}

	val, err := ctyjson.Unmarshal(data, ty)
	if err != nil {
		return nil, fmt.Errorf("failed to decode JSON manifest %s: %w", filename, err)
	}

	descriptors := make([]config.Descriptor, 0, val.LengthInt())
	for i, el := range val.AsValueSlice() {
		if err := checkEntryType(el.Type()); err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w", filename, i, err)
		}

		conv, err := convert.Convert(el, entryType)
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d: %s", filename, i, describeConversionError(err))
		}

		var entry jsonEntry
		if err := gocty.FromCtyValue(conv, &entry); err != nil {
			return nil, fmt.Errorf("%s: entry %d: %s", filename, i, describeConversionError(err))
		}

		descriptors = append(descriptors, config.Descriptor{
			DisplayName:  entry.Name,
			Class:        entry.Class,
			RelativePath: entry.Path,
			Initialize:   entry.Init,
			FromResource: entry.Resource,
		})
	}
	return descriptors, nil
}

// checkEntryType rejects entries whose listed attributes are missing, null or
// of another JSON type. cty's conversion would otherwise coerce "true" into a
// bool and 5 into a string.
func checkEntryType(ty cty.Type) error {
	if !ty.IsObjectType() {
		return fmt.Errorf("must be a JSON object, got %s", ty.FriendlyName())
	}

	names := make([]string, 0, len(entryType.AttributeTypes()))
	for name := range entryType.AttributeTypes() {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		want := entryType.AttributeType(name)
		if !ty.HasAttribute(name) {
			return fmt.Errorf("attribute %q: %s required", name, want.FriendlyName())
		}
		got := ty.AttributeType(name)
		if got == cty.DynamicPseudoType {
			return fmt.Errorf("attribute %q: must not be null", name)
		}
		if !got.Equals(want) {
			return fmt.Errorf("attribute %q: %s required, got %s", name, want.FriendlyName(), got.FriendlyName())
		}
	}
	return nil
}

// describeConversionError prefixes cty path errors with the attribute they
// refer to, e.g. `attribute "init": bool required`.
func describeConversionError(err error) string {
	var pathErr cty.PathError
	if !errors.As(err, &pathErr) || len(pathErr.Path) == 0 {
		return err.Error()
	}
	if step, ok := pathErr.Path[len(pathErr.Path)-1].(cty.GetAttrStep); ok {
		return fmt.Sprintf("attribute %q: %s", step.Name, pathErr.Error())
	}
	return pathErr.Error()
}
