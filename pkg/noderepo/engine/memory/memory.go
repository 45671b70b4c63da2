// Package memory implements an in-memory storage engine. It follows the
// same contract semantics as the filesystem engine over a caller-supplied
// type registry and a tree built with Put, which makes it the natural
// fixture for tests and a lightweight embedded repository.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/fernwick/noderepo/pkg/noderepo"
)

// Namespace prefix and URI exposed by the engine. Informational only.
const (
	NamespacePrefix = "mem"
	NamespaceURI    = "http://fernwick.github.io/noderepo/ns/mem"
)

// Config options for the memory engine.
type Config struct {
	Types    *noderepo.TypeRegistry // Registry describing the stored tree.
	RootType string                 // Node type backing the root node.
}

// Engine is an in-memory implementation of the noderepo.Engine interface.
// The tree is built with Put before use; the engine itself performs no
// synchronization, matching the single-threaded contract.
type Engine struct {
	types *noderepo.TypeRegistry
	nodes map[string]*node
}

type node struct {
	typeName   string
	children   []string
	properties map[string]any
}

func init() {
	noderepo.RegisterEngine("memory", factory)
}

func factory(config map[string]any) (noderepo.Engine, error) {
	cfg := Config{}
	if types, ok := config["types"].(*noderepo.TypeRegistry); ok {
		cfg.Types = types
	}
	if rootType, ok := config["root_type"].(string); ok {
		cfg.RootType = rootType
	}
	return New(cfg)
}

// New creates a memory engine holding only a root node of cfg.RootType.
func New(cfg Config) (*Engine, error) {
	if cfg.Types == nil {
		return nil, fmt.Errorf("type registry is required: %w", noderepo.ErrConfig)
	}
	if cfg.RootType == "" {
		return nil, fmt.Errorf("root type is required: %w", noderepo.ErrConfig)
	}
	if err := checkConcrete(cfg.Types, cfg.RootType); err != nil {
		return nil, err
	}

	return &Engine{
		types: cfg.Types,
		nodes: map[string]*node{
			"/": {typeName: cfg.RootType, properties: make(map[string]any)},
		},
	}, nil
}

func checkConcrete(types *noderepo.TypeRegistry, name string) error {
	nodeType, ok := types.NodeType(name)
	if !ok {
		return fmt.Errorf("node type %q is not registered: %w", name, noderepo.ErrConfig)
	}
	if nodeType.Abstract() {
		return fmt.Errorf("node type %q is abstract and cannot back a node: %w", name, noderepo.ErrConfig)
	}
	return nil
}

// Put adds a node of the given type at path, with optional stored property
// values. The parent must already exist; children keep insertion order.
func (e *Engine) Put(path, typeName string, properties map[string]any) error {
	path = noderepo.NormalizePath(path)
	if path == "/" {
		return fmt.Errorf("root node already exists: %w", noderepo.ErrConfig)
	}
	if err := checkConcrete(e.types, typeName); err != nil {
		return err
	}

	parent, name := noderepo.SplitPath(path)
	parentNode, ok := e.nodes[parent]
	if !ok {
		return &noderepo.PathError{Op: "put", Path: path, Err: fmt.Errorf("parent %s: %w", parent, noderepo.ErrNotFound)}
	}

	stored := make(map[string]any, len(properties))
	for key, value := range properties {
		stored[key] = value
	}

	if _, exists := e.nodes[path]; !exists {
		parentNode.children = append(parentNode.children, name)
	}
	e.nodes[path] = &node{typeName: typeName, properties: stored}
	return nil
}

// NodeTypeNamed looks up a node type in the engine's registry.
func (e *Engine) NodeTypeNamed(name string) (*noderepo.NodeType, bool) {
	return e.types.NodeType(name)
}

// PropertyTypeNamed looks up a property type in the engine's registry.
func (e *Engine) PropertyTypeNamed(name string) (*noderepo.PropertyType, bool) {
	return e.types.PropertyType(name)
}

// Namespaces returns the engine's informational namespace map.
func (e *Engine) Namespaces() map[string]string {
	return map[string]string{NamespacePrefix: NamespaceURI}
}

// PathExists triages a path into node, property, or nothing. A property
// exists when the parent's effective map defines it and a value is
// resolvable: either stored on the node or derivable from an auto-created
// property type's default.
func (e *Engine) PathExists(ctx context.Context, path string) (noderepo.Existence, error) {
	path = noderepo.NormalizePath(path)
	if _, ok := e.nodes[path]; ok {
		return noderepo.NodeExists, nil
	}

	parent, name := noderepo.SplitPath(path)
	parentNode, ok := e.nodes[parent]
	if !ok {
		return noderepo.NotExists, nil
	}
	if _, stored := parentNode.properties[name]; stored {
		return noderepo.PropertyExists, nil
	}

	propertyType, err := e.definedPropertyType(parent, name)
	if err != nil {
		return noderepo.NotExists, nil
	}
	if propertyType.AutoCreated() {
		return noderepo.PropertyExists, nil
	}
	return noderepo.NotExists, nil
}

// NodeTypeOf returns the node type backing the path.
func (e *Engine) NodeTypeOf(ctx context.Context, path string) (*noderepo.NodeType, error) {
	path = noderepo.NormalizePath(path)
	entry, ok := e.nodes[path]
	if !ok {
		return nil, &noderepo.PathError{Op: "node_type_of", Path: path, Err: noderepo.ErrNotFound}
	}
	nodeType, ok := e.types.NodeType(entry.typeName)
	if !ok {
		return nil, &noderepo.PathError{Op: "node_type_of", Path: path, Err: fmt.Errorf("%s: %w", entry.typeName, noderepo.ErrNotFound)}
	}
	return nodeType, nil
}

// definedPropertyType resolves a property name through the parent node
// type's effective property map.
func (e *Engine) definedPropertyType(parent, name string) (*noderepo.PropertyType, error) {
	entry, ok := e.nodes[parent]
	if !ok {
		return nil, &noderepo.PathError{Op: "property_type_of", Path: parent, Err: noderepo.ErrNotFound}
	}
	nodeType, ok := e.types.NodeType(entry.typeName)
	if !ok {
		return nil, &noderepo.PathError{Op: "property_type_of", Path: parent, Err: fmt.Errorf("%s: %w", entry.typeName, noderepo.ErrNotFound)}
	}

	effective, err := nodeType.EffectiveChildProperties()
	if err != nil {
		return nil, err
	}
	typeName, ok := effective[name]
	if !ok {
		return nil, &noderepo.PathError{Op: "property_type_of", Path: noderepo.JoinPath(parent, name), Err: fmt.Errorf("%s undefined for %s: %w", name, nodeType.Name(), noderepo.ErrNotFound)}
	}

	propertyType, ok := e.types.PropertyType(typeName)
	if !ok {
		return nil, &noderepo.PathError{Op: "property_type_of", Path: noderepo.JoinPath(parent, name), Err: fmt.Errorf("%s: %w", typeName, noderepo.ErrNotFound)}
	}
	return propertyType, nil
}

// PropertyTypeOf resolves a property path through the parent node type's
// effective property map.
func (e *Engine) PropertyTypeOf(ctx context.Context, path string) (*noderepo.PropertyType, error) {
	parent, name := noderepo.SplitPath(noderepo.NormalizePath(path))
	return e.definedPropertyType(parent, name)
}

// NodesIn returns the child names in insertion order.
func (e *Engine) NodesIn(ctx context.Context, path string) ([]string, error) {
	path = noderepo.NormalizePath(path)
	entry, ok := e.nodes[path]
	if !ok {
		return nil, &noderepo.PathError{Op: "nodes_in", Path: path, Err: noderepo.ErrNotFound}
	}
	return append([]string(nil), entry.children...), nil
}

// PropertiesIn returns the property names defined for the path's node type.
func (e *Engine) PropertiesIn(ctx context.Context, path string) ([]string, error) {
	nodeType, err := e.NodeTypeOf(ctx, path)
	if err != nil {
		return nil, err
	}
	effective, err := nodeType.EffectiveChildProperties()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(effective))
	for name := range effective {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetScalar returns the stored raw value, falling back to an auto-created
// property type's default.
func (e *Engine) GetScalar(ctx context.Context, path string) (any, error) {
	path = noderepo.NormalizePath(path)
	parent, name := noderepo.SplitPath(path)

	propertyType, err := e.definedPropertyType(parent, name)
	if err != nil {
		return nil, err
	}

	entry := e.nodes[parent]
	if value, ok := entry.properties[name]; ok {
		return value, nil
	}
	if propertyType.AutoCreated() {
		if value, ok := propertyType.Default(); ok {
			return value, nil
		}
	}
	return nil, &noderepo.PathError{Op: "get_scalar", Path: path, Err: noderepo.ErrNotFound}
}

// GetHandle opens a read stream over a handle-backed property whose stored
// value is a byte slice or string.
func (e *Engine) GetHandle(ctx context.Context, path string, mode noderepo.AccessMode) (io.ReadCloser, error) {
	path = noderepo.NormalizePath(path)

	if mode != noderepo.ModeRead {
		return nil, &noderepo.PathError{Op: "get_handle", Path: path, Err: fmt.Errorf("mode %q: %w", mode, noderepo.ErrUnsupportedMode)}
	}

	propertyType, err := e.PropertyTypeOf(ctx, path)
	if err != nil {
		return nil, err
	}
	if propertyType.ValueType().Kind() != noderepo.KindHandle {
		return nil, &noderepo.PathError{Op: "get_handle", Path: path, Err: fmt.Errorf("property is not stream-backed: %w", noderepo.ErrUnsupportedMode)}
	}

	raw, err := e.GetScalar(ctx, path)
	if err != nil {
		return nil, err
	}

	switch data := raw.(type) {
	case []byte:
		return io.NopCloser(bytes.NewReader(data)), nil
	case string:
		return io.NopCloser(bytes.NewReader([]byte(data))), nil
	default:
		return nil, &noderepo.PathError{Op: "get_handle", Path: path, Err: fmt.Errorf("stored value %T is not streamable: %w", raw, noderepo.ErrUnsupportedMode)}
	}
}
