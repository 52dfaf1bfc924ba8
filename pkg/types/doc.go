// Package types defines the core data model of the knowledge graph
// integration layer: concepts, relationships, free-form property values,
// and the query result envelope shared by the remote and fallback paths.
package types
