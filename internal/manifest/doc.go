// Package manifest validates and renders the manifest document that declares
// the split-out submodules and re-creates the monolith's public surface.
//
// A Spec is pure configuration: submodule declarations, a consolidated
// import block, re-export lines, and a facade type whose methods delegate to
// the split-out modules. Nothing here is derived from parsing the monolith.
//
// # Usage
//
//	spec := manifest.DefaultSpec()
//	if err := spec.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	text := manifest.Render(spec)
//
// Render is deterministic: identical specs produce byte-identical documents.
// Validate catches configuration mistakes — delegation to an undeclared
// submodule, duplicate operations, an incomplete facade — before any text is
// emitted.
package manifest
