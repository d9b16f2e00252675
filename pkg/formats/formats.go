// Package formats provides parsers for the geometry files a scene references.
//
// Every parser produces the same flat, triangle-major vertex stream so the
// GPU side never needs an index buffer.
package formats

// Note: OBJ-style text geometry is implemented in obj.go
// Note: glTF 2.0 meshes are expanded in gltf.go
