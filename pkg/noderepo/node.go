package noderepo

import "context"

// Node is a lazily-constructed view of one node in the hierarchy,
// identified by its repository and normalized path. It owns no storage:
// children, properties, and the node's type are derived from the engine on
// every access, so external changes to the backing store are visible
// immediately. Only the computed name is memoized.
type Node struct {
	repo *Repository
	path string
	name string
}

func newNode(repo *Repository, path string) *Node {
	path = NormalizePath(path)
	_, name := SplitPath(path)
	return &Node{
		repo: repo,
		path: path,
		name: name,
	}
}

// Repository returns the owning repository.
func (n *Node) Repository() *Repository { return n.repo }

// Path returns the normalized absolute path.
func (n *Node) Path() string { return n.path }

// Name returns the last path segment, or "/" for the root.
func (n *Node) Name() string { return n.name }

// IsRoot reports whether the node is the repository root.
func (n *Node) IsRoot() bool { return n.path == "/" }

// Parent returns the parent node view. The root is its own parent, so
// Parent is total: every node has one.
func (n *Node) Parent() *Node {
	if n.IsRoot() {
		return n
	}
	parent, _ := SplitPath(n.path)
	return newNode(n.repo, parent)
}

// Type resolves the node's type through the engine.
func (n *Node) Type(ctx context.Context) (*NodeType, error) {
	return n.repo.engine.NodeTypeOf(ctx, n.path)
}

// Exists reports whether the path currently resolves to a node.
func (n *Node) Exists(ctx context.Context) (bool, error) {
	existence, err := n.repo.engine.PathExists(ctx, n.path)
	if err != nil {
		return false, err
	}
	return existence == NodeExists, nil
}

// Node returns a view of a descendant by relative path.
func (n *Node) Node(relative string) *Node {
	return newNode(n.repo, JoinPath(n.path, relative))
}

// Nodes returns fresh views of the node's current children.
func (n *Node) Nodes(ctx context.Context) ([]*Node, error) {
	names, err := n.repo.engine.NodesIn(ctx, n.path)
	if err != nil {
		return nil, err
	}
	children := make([]*Node, 0, len(names))
	for _, name := range names {
		children = append(children, newNode(n.repo, JoinPath(n.path, name)))
	}
	return children, nil
}

// Property returns a view of the named property. No existence check is
// performed; resolution happens on access.
func (n *Node) Property(name string) *Property {
	return &Property{node: n, name: name}
}

// Properties returns views of the properties defined for the node's type.
func (n *Node) Properties(ctx context.Context) ([]*Property, error) {
	names, err := n.repo.engine.PropertiesIn(ctx, n.path)
	if err != nil {
		return nil, err
	}
	properties := make([]*Property, 0, len(names))
	for _, name := range names {
		properties = append(properties, &Property{node: n, name: name})
	}
	return properties, nil
}
