// Package domain defines the core entities of the hiresense retrieval core.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: Opaque bytes read from the books directory
//   - Document: Normalised text of one source document
//   - Chunk: A bounded, overlapping span of a document with its source
//   - IndexManifest: Identity of one index build (generation, model, size)
//   - Retrieval: Ranked or sampled chunks plus their derived provenance
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
