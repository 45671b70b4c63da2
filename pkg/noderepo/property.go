package noderepo

import (
	"context"
	"fmt"
	"io"
)

// Property is a lazily-constructed view of one named field of a node,
// identified by its parent node and name. Like Node it owns no storage;
// the type and value are resolved through the engine on every access.
type Property struct {
	node *Node
	name string
}

// Node returns the parent node view.
func (p *Property) Node() *Node { return p.node }

// Name returns the property name (always of the form ns:localName).
func (p *Property) Name() string { return p.name }

// Path returns the property's address, <nodePath>/<name>.
func (p *Property) Path() string {
	return JoinPath(p.node.path, p.name)
}

// Type resolves the property's type: the parent node type's effective
// property map names a property type, which is then looked up in the
// engine's registry. A name missing from the map fails with
// ErrUnknownProperty; that is defensive, since names obtained from
// Node.Properties are always present.
func (p *Property) Type(ctx context.Context) (*PropertyType, error) {
	nodeType, err := p.node.Type(ctx)
	if err != nil {
		return nil, err
	}

	effective, err := nodeType.EffectiveChildProperties()
	if err != nil {
		return nil, err
	}

	typeName, ok := effective[p.name]
	if !ok {
		return nil, &PathError{Op: "type", Path: p.Path(), Err: fmt.Errorf("%w: %s not defined for node type %s", ErrUnknownProperty, p.name, nodeType.Name())}
	}

	propertyType, ok := p.node.repo.PropertyTypeNamed(typeName)
	if !ok {
		return nil, &PathError{Op: "type", Path: p.Path(), Err: fmt.Errorf("%w: property type %s not registered", ErrUnknownProperty, typeName)}
	}

	return propertyType, nil
}

// Exists reports whether the property currently resolves.
func (p *Property) Exists(ctx context.Context) (bool, error) {
	existence, err := p.node.repo.engine.PathExists(ctx, p.Path())
	if err != nil {
		return false, err
	}
	return existence == PropertyExists, nil
}

// Value reads the raw stored value through the engine and inflates it with
// the property's value type.
func (p *Property) Value(ctx context.Context) (any, error) {
	propertyType, err := p.Type(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := p.node.repo.engine.GetScalar(ctx, p.Path())
	if err != nil {
		return nil, err
	}

	return propertyType.ValueType().Inflate(raw)
}

// Handle opens a stream over the property. The caller must close it.
func (p *Property) Handle(ctx context.Context, mode AccessMode) (io.ReadCloser, error) {
	return p.node.repo.engine.GetHandle(ctx, p.Path(), mode)
}

// Scalar materializes the property into a validated scalar cell.
func (p *Property) Scalar(ctx context.Context) (*Scalar, error) {
	propertyType, err := p.Type(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := p.node.repo.engine.GetScalar(ctx, p.Path())
	if err != nil {
		return nil, err
	}

	return NewScalar(propertyType, raw), nil
}

// Scalar is a validated value cell tied to a property type: Get inflates
// the held raw value, Set checks the proposed value against the property
// type and stores its deflated form. Setting nil is the representation of
// absence and means removal, which Check permits only for removable
// properties.
type Scalar struct {
	propertyType *PropertyType
	raw          any
}

// NewScalar wraps a raw stored value with a property type's conversion and
// validation hooks.
func NewScalar(propertyType *PropertyType, raw any) *Scalar {
	return &Scalar{propertyType: propertyType, raw: raw}
}

// Type returns the governing property type.
func (s *Scalar) Type() *PropertyType { return s.propertyType }

// Raw returns the held raw value without inflating it.
func (s *Scalar) Raw() any { return s.raw }

// Get inflates the held raw value.
func (s *Scalar) Get() (any, error) {
	return s.propertyType.ValueType().Inflate(s.raw)
}

// Set validates the value and stores its deflated form. The property
// type's check precedence applies: immutability first, then requiredness,
// then the value type's own check.
func (s *Scalar) Set(value any) error {
	if err := s.propertyType.Check(value); err != nil {
		return err
	}
	if value == nil {
		s.raw = nil
		return nil
	}
	raw, err := s.propertyType.ValueType().Deflate(value)
	if err != nil {
		return err
	}
	s.raw = raw
	return nil
}

// Absent reports whether the cell currently holds no value.
func (s *Scalar) Absent() bool { return s.raw == nil }
