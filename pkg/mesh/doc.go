// Package mesh defines the half-edge polygon mesh used by facet.
// A Mesh owns its vertices, half-edges and faces in flat arenas; every
// relation between them (origin, next, twin, face, outgoing) is an index
// into those arenas. Meshes are built additively with AddVertex and
// AddFace and are never shrunk.
package mesh
