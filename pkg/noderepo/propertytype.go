package noderepo

import "fmt"

// PropertyType describes a single named field on a node: whether it can be
// changed or removed, whether it springs into existence with its parent, and
// which ValueType governs its values. Instances are created during engine or
// registry initialization and are immutable afterwards.
type PropertyType struct {
	name         string
	valueType    *ValueType
	autoCreated  bool
	updatable    bool
	removable    bool
	defaultValue any
	hasDefault   bool
}

// PropertyTypeOption represents a functional option for constructing a
// PropertyType.
type PropertyTypeOption func(*PropertyType)

// WithAutoCreated marks the property as implicitly instantiated with its
// parent. Construction fails unless a default value is also supplied.
func WithAutoCreated() PropertyTypeOption {
	return func(pt *PropertyType) {
		pt.autoCreated = true
	}
}

// WithDefault supplies the value used when the property is auto-created.
func WithDefault(value any) PropertyTypeOption {
	return func(pt *PropertyType) {
		pt.defaultValue = value
		pt.hasDefault = true
	}
}

// WithUpdatable allows the stored value to change after creation.
func WithUpdatable() PropertyTypeOption {
	return func(pt *PropertyType) {
		pt.updatable = true
	}
}

// WithRemovable allows the property to be unset from its parent.
func WithRemovable() PropertyTypeOption {
	return func(pt *PropertyType) {
		pt.removable = true
	}
}

// NewPropertyType creates a property type. Properties default to read-only
// and required; opt in to mutation with WithUpdatable and WithRemovable.
func NewPropertyType(name string, valueType *ValueType, options ...PropertyTypeOption) (*PropertyType, error) {
	if name == "" {
		return nil, fmt.Errorf("property type name is required: %w", ErrConfig)
	}
	if valueType == nil {
		return nil, &TypeError{Type: name, Err: fmt.Errorf("value type is required: %w", ErrConfig)}
	}

	pt := &PropertyType{
		name:      name,
		valueType: valueType,
	}
	for _, option := range options {
		option(pt)
	}

	if pt.autoCreated && !pt.hasDefault {
		return nil, &TypeError{Type: name, Err: fmt.Errorf("auto-created property has no derivable default: %w", ErrConfig)}
	}

	return pt, nil
}

// Name returns the namespaced type name.
func (pt *PropertyType) Name() string { return pt.name }

// ValueType returns the value type shared by all properties of this type.
func (pt *PropertyType) ValueType() *ValueType { return pt.valueType }

// AutoCreated reports whether the property is implicitly instantiated with
// its parent.
func (pt *PropertyType) AutoCreated() bool { return pt.autoCreated }

// Updatable reports whether the stored value may change.
func (pt *PropertyType) Updatable() bool { return pt.updatable }

// Removable reports whether the property may be unset.
func (pt *PropertyType) Removable() bool { return pt.removable }

// Default returns the auto-creation default value, if one was supplied.
func (pt *PropertyType) Default() (any, bool) {
	return pt.defaultValue, pt.hasDefault
}

// Check validates a proposed write. The precedence is fixed: a read-only
// property rejects every write with ErrImmutableProperty, even a write of
// the current value; only then is requiredness considered (nil represents
// the absent value, and writing it means removal); finally the value type's
// own check runs.
func (pt *PropertyType) Check(value any) error {
	if !pt.updatable {
		return &TypeError{Type: pt.name, Err: ErrImmutableProperty}
	}
	if value == nil && !pt.removable {
		return &TypeError{Type: pt.name, Err: ErrRequiredProperty}
	}
	return pt.valueType.Check(value)
}
