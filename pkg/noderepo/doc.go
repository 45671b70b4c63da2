// Package noderepo provides a typed, hierarchical content repository with
// pluggable storage engines.
//
// A Repository wraps an Engine and exposes the stored hierarchy as
// path-addressed Node and Property views. Nodes and properties are
// lazily-constructed projections: every access queries the engine, so
// external changes to the backing store become visible immediately.
//
// Schemas are described by three descriptor kinds. A ValueType converts a
// raw stored value to and from its in-memory form and validates it. A
// PropertyType describes a single named field on a node (mutability,
// requiredness, auto-creation) and references a ValueType. A NodeType
// describes a node's allowed children and properties and may inherit from
// other node types; inheritance is resolved lazily by name through the
// owning TypeRegistry.
//
// Engine implementations (e.g., filesystem, memory) are provided under
// subpackages and register themselves with the engine factory registry, so
// a repository can be opened with Attach by engine name.
package noderepo
