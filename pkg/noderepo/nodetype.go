package noderepo

import "fmt"

// NodeType describes a node schema: which children and properties it allows
// or requires, whether it may back a concrete node, and which node types it
// inherits from. Supertypes are held as names and resolved lazily through
// the owning registry, so mutually referring types never own each other.
//
// Instances are created during registry initialization and are immutable
// afterwards.
type NodeType struct {
	name        string
	abstract    bool
	supertypes  []string
	childNodes  map[string][]string
	childProps  map[string]string
	autoCreated bool
	mutable     bool
	required    bool
	ordered     bool

	// registry is set when the type is registered and is the lookup side
	// of the weak supertype references.
	registry *TypeRegistry
}

// NodeTypeOption represents a functional option for constructing a NodeType.
type NodeTypeOption func(*NodeType)

// WithSupertypes sets the ordered supertype names. Order matters: when two
// supertypes declare the same child or property key, the later one wins.
func WithSupertypes(names ...string) NodeTypeOption {
	return func(nt *NodeType) {
		nt.supertypes = append(nt.supertypes, names...)
	}
}

// WithChildNode declares an allowed child name (or the "*" wildcard) and the
// node type names permitted for it.
func WithChildNode(name string, allowedTypes ...string) NodeTypeOption {
	return func(nt *NodeType) {
		if nt.childNodes == nil {
			nt.childNodes = make(map[string][]string)
		}
		nt.childNodes[name] = append([]string(nil), allowedTypes...)
	}
}

// WithChildProperty declares a property name and its property type name.
func WithChildProperty(name, propertyType string) NodeTypeOption {
	return func(nt *NodeType) {
		if nt.childProps == nil {
			nt.childProps = make(map[string]string)
		}
		nt.childProps[name] = propertyType
	}
}

// WithAbstract marks the type as inheritance-only: it may not back a
// concrete node.
func WithAbstract() NodeTypeOption {
	return func(nt *NodeType) {
		nt.abstract = true
	}
}

// WithNodeAutoCreated marks nodes of this type as implicitly instantiated
// with their parent.
func WithNodeAutoCreated() NodeTypeOption {
	return func(nt *NodeType) {
		nt.autoCreated = true
	}
}

// WithMutable allows nodes of this type to change after creation.
func WithMutable() NodeTypeOption {
	return func(nt *NodeType) {
		nt.mutable = true
	}
}

// WithRequired marks nodes of this type as mandatory under their parent.
func WithRequired() NodeTypeOption {
	return func(nt *NodeType) {
		nt.required = true
	}
}

// WithOrdered marks child node order as semantically significant.
func WithOrdered() NodeTypeOption {
	return func(nt *NodeType) {
		nt.ordered = true
	}
}

// NewNodeType creates a node type.
func NewNodeType(name string, options ...NodeTypeOption) (*NodeType, error) {
	if name == "" {
		return nil, fmt.Errorf("node type name is required: %w", ErrConfig)
	}

	nt := &NodeType{
		name: name,
	}
	for _, option := range options {
		option(nt)
	}

	return nt, nil
}

// Name returns the namespaced type name.
func (nt *NodeType) Name() string { return nt.name }

// Abstract reports whether the type is inheritance-only.
func (nt *NodeType) Abstract() bool { return nt.abstract }

// Supertypes returns the ordered supertype names.
func (nt *NodeType) Supertypes() []string {
	return append([]string(nil), nt.supertypes...)
}

// AutoCreated reports whether nodes of this type are implicitly
// instantiated with their parent.
func (nt *NodeType) AutoCreated() bool { return nt.autoCreated }

// Mutable reports whether nodes of this type may change after creation.
func (nt *NodeType) Mutable() bool { return nt.mutable }

// Required reports whether nodes of this type are mandatory under their
// parent.
func (nt *NodeType) Required() bool { return nt.required }

// Ordered reports whether child node order is semantically significant.
func (nt *NodeType) Ordered() bool { return nt.ordered }

// EffectiveChildNodes resolves the inheritance-merged child-node map:
// supertypes are folded in declaration order (a later supertype's entry
// replaces an earlier one's on key collision), then this type's own
// declarations overlay the result and always win. The "*" wildcard key
// merges exactly like a named key.
//
// It is a pure function of the registry's state. A supertype missing from
// the registry, or a cycle in the supertype graph, is a configuration
// error.
func (nt *NodeType) EffectiveChildNodes() (map[string][]string, error) {
	effective := make(map[string][]string)
	err := nt.fold(make(map[string]bool), func(t *NodeType) {
		for name, allowed := range t.childNodes {
			effective[name] = append([]string(nil), allowed...)
		}
	})
	if err != nil {
		return nil, err
	}
	return effective, nil
}

// EffectiveChildProperties resolves the inheritance-merged property map
// with the same merge order as EffectiveChildNodes.
func (nt *NodeType) EffectiveChildProperties() (map[string]string, error) {
	effective := make(map[string]string)
	err := nt.fold(make(map[string]bool), func(t *NodeType) {
		for name, propertyType := range t.childProps {
			effective[name] = propertyType
		}
	})
	if err != nil {
		return nil, err
	}
	return effective, nil
}

// fold applies fn to every type in the supertype graph, supertypes first in
// declaration order and this type last. visiting tracks the active
// resolution path so supertype cycles surface as ErrConfig instead of
// recursing forever.
func (nt *NodeType) fold(visiting map[string]bool, fn func(*NodeType)) error {
	if visiting[nt.name] {
		return &TypeError{Type: nt.name, Err: fmt.Errorf("supertype cycle: %w", ErrConfig)}
	}
	visiting[nt.name] = true
	defer delete(visiting, nt.name)

	for _, name := range nt.supertypes {
		if nt.registry == nil {
			return &TypeError{Type: nt.name, Err: fmt.Errorf("unregistered type cannot resolve supertype %q: %w", name, ErrConfig)}
		}
		super, ok := nt.registry.NodeType(name)
		if !ok {
			return &TypeError{Type: nt.name, Err: fmt.Errorf("unknown supertype %q: %w", name, ErrConfig)}
		}
		if err := super.fold(visiting, fn); err != nil {
			return err
		}
	}

	fn(nt)
	return nil
}
