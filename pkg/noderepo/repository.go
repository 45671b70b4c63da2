package noderepo

import "fmt"

// Repository wraps a storage engine and hands out path-addressed node and
// property views. It carries no state beyond the engine reference, so a
// single repository is safe to share across concurrent readers.
type Repository struct {
	engine Engine
}

// New wraps an already-constructed engine in a repository.
func New(engine Engine) (*Repository, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is required: %w", ErrConfig)
	}
	return &Repository{engine: engine}, nil
}

// Engine returns the wrapped storage engine.
func (r *Repository) Engine() Engine { return r.engine }

// Root returns the root node view.
func (r *Repository) Root() *Node {
	return r.Node("/")
}

// Node returns a view of the node at the given path. The path is normalized;
// no existence check is performed.
func (r *Repository) Node(path string) *Node {
	return newNode(r, path)
}

// NodeTypeNamed looks up a node type in the engine's registry.
func (r *Repository) NodeTypeNamed(name string) (*NodeType, bool) {
	return r.engine.NodeTypeNamed(name)
}

// PropertyTypeNamed looks up a property type in the engine's registry.
func (r *Repository) PropertyTypeNamed(name string) (*PropertyType, bool) {
	return r.engine.PropertyTypeNamed(name)
}

// Namespaces returns the engine's informational namespace map.
func (r *Repository) Namespaces() map[string]string {
	return r.engine.Namespaces()
}
