// Package manifest implements config.Loader for the manifest formats the
// loader understands. The decoder is chosen by file extension:
//
//   - ".json": an array of {name, class, path, init, resource} objects,
//     decoded through go-cty so that missing or mistyped attributes are
//     reported with their attribute path.
//   - ".hcl": a sequence of `component "<name>" { ... }` blocks.
//
// Both decoders preserve file order, which is load order.
package manifest
