package noderepo

import "fmt"

// TypeRegistry holds the node, property, and value types of one engine. It
// is populated during engine initialization and must not be mutated
// afterwards; a loaded registry is safe to share across concurrent readers
// without synchronization.
type TypeRegistry struct {
	nodeTypes     map[string]*NodeType
	propertyTypes map[string]*PropertyType
	valueTypes    map[string]*ValueType
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		nodeTypes:     make(map[string]*NodeType),
		propertyTypes: make(map[string]*PropertyType),
		valueTypes:    make(map[string]*ValueType),
	}
}

// RegisterNodeType adds a node type and binds it to this registry for
// supertype resolution. Duplicate names are a configuration error.
func (r *TypeRegistry) RegisterNodeType(nt *NodeType) error {
	if nt == nil {
		return fmt.Errorf("node type is required: %w", ErrConfig)
	}
	if _, exists := r.nodeTypes[nt.name]; exists {
		return &TypeError{Type: nt.name, Err: fmt.Errorf("node type already registered: %w", ErrConfig)}
	}
	nt.registry = r
	r.nodeTypes[nt.name] = nt
	return nil
}

// RegisterPropertyType adds a property type. Duplicate names are a
// configuration error.
func (r *TypeRegistry) RegisterPropertyType(pt *PropertyType) error {
	if pt == nil {
		return fmt.Errorf("property type is required: %w", ErrConfig)
	}
	if _, exists := r.propertyTypes[pt.name]; exists {
		return &TypeError{Type: pt.name, Err: fmt.Errorf("property type already registered: %w", ErrConfig)}
	}
	r.propertyTypes[pt.name] = pt
	return nil
}

// RegisterValueType adds a value type. Duplicate names are a configuration
// error.
func (r *TypeRegistry) RegisterValueType(vt *ValueType) error {
	if vt == nil {
		return fmt.Errorf("value type is required: %w", ErrConfig)
	}
	if _, exists := r.valueTypes[vt.name]; exists {
		return &TypeError{Type: vt.name, Err: fmt.Errorf("value type already registered: %w", ErrConfig)}
	}
	r.valueTypes[vt.name] = vt
	return nil
}

// NodeType looks up a node type by name.
func (r *TypeRegistry) NodeType(name string) (*NodeType, bool) {
	nt, ok := r.nodeTypes[name]
	return nt, ok
}

// PropertyType looks up a property type by name.
func (r *TypeRegistry) PropertyType(name string) (*PropertyType, bool) {
	pt, ok := r.propertyTypes[name]
	return pt, ok
}

// ValueType looks up a value type by name.
func (r *TypeRegistry) ValueType(name string) (*ValueType, bool) {
	vt, ok := r.valueTypes[name]
	return vt, ok
}

// NodeTypeNames returns the registered node type names.
func (r *TypeRegistry) NodeTypeNames() []string {
	names := make([]string, 0, len(r.nodeTypes))
	for name := range r.nodeTypes {
		names = append(names, name)
	}
	return names
}

// PropertyTypeNames returns the registered property type names.
func (r *TypeRegistry) PropertyTypeNames() []string {
	names := make([]string, 0, len(r.propertyTypes))
	for name := range r.propertyTypes {
		names = append(names, name)
	}
	return names
}
