package noderepo

import "fmt"

// ValueKind tags how an engine should surface a stored value.
type ValueKind int

const (
	// KindScalar values are materialized whole.
	KindScalar ValueKind = iota

	// KindHandle values are exposed as streams.
	KindHandle
)

func (k ValueKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindHandle:
		return "handle"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// CheckFunc validates an in-memory value. A non-nil return rejects it.
type CheckFunc func(value any) error

// ConvertFunc converts between raw stored values and in-memory values.
type ConvertFunc func(value any) (any, error)

// ValueType describes how a raw stored value is converted to and from its
// usable in-memory form and how values are validated. Instances are
// immutable once constructed and shared by reference across all property
// types that use them; Check must not mutate the value or the type.
type ValueType struct {
	name    string
	kind    ValueKind
	check   CheckFunc
	inflate ConvertFunc
	deflate ConvertFunc
}

// ValueTypeOption represents a functional option for constructing a ValueType.
type ValueTypeOption func(*ValueType)

// WithCheck sets the validation hook.
func WithCheck(check CheckFunc) ValueTypeOption {
	return func(vt *ValueType) {
		vt.check = check
	}
}

// WithInflate sets the raw-to-value conversion hook.
func WithInflate(inflate ConvertFunc) ValueTypeOption {
	return func(vt *ValueType) {
		vt.inflate = inflate
	}
}

// WithDeflate sets the value-to-raw conversion hook.
func WithDeflate(deflate ConvertFunc) ValueTypeOption {
	return func(vt *ValueType) {
		vt.deflate = deflate
	}
}

// NewValueType creates a value type. The base behavior is permissive: Check
// never fails and Inflate/Deflate are the identity. Inflate and Deflate must
// remain inverses for every value Check accepts.
func NewValueType(name string, kind ValueKind, options ...ValueTypeOption) (*ValueType, error) {
	if name == "" {
		return nil, fmt.Errorf("value type name is required: %w", ErrConfig)
	}

	vt := &ValueType{
		name: name,
		kind: kind,
	}
	for _, option := range options {
		option(vt)
	}

	return vt, nil
}

// Name returns the namespaced type name.
func (vt *ValueType) Name() string { return vt.name }

// Kind returns the storage-kind tag.
func (vt *ValueType) Kind() ValueKind { return vt.kind }

// Check validates a value, wrapping rejections as validation failures.
func (vt *ValueType) Check(value any) error {
	if vt.check == nil {
		return nil
	}
	if err := vt.check(value); err != nil {
		return &TypeError{Type: vt.name, Err: fmt.Errorf("%w: %v", ErrValidation, err)}
	}
	return nil
}

// Inflate converts a raw stored value to its in-memory form.
func (vt *ValueType) Inflate(raw any) (any, error) {
	if vt.inflate == nil {
		return raw, nil
	}
	return vt.inflate(raw)
}

// Deflate converts an in-memory value to its raw stored form.
func (vt *ValueType) Deflate(value any) (any, error) {
	if vt.deflate == nil {
		return value, nil
	}
	return vt.deflate(value)
}
