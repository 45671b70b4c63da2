package noderepo

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Existence is the three-way result of a path existence check.
type Existence int

const (
	// NotExists means the path resolves to nothing.
	NotExists Existence = iota

	// NodeExists means the path resolves to a node.
	NodeExists

	// PropertyExists means the path resolves to a property of its parent
	// node.
	PropertyExists
)

func (e Existence) String() string {
	switch e {
	case NotExists:
		return "not-exists"
	case NodeExists:
		return "node"
	case PropertyExists:
		return "property"
	default:
		return fmt.Sprintf("existence(%d)", int(e))
	}
}

// AccessMode selects how a handle is opened.
type AccessMode string

// ModeRead is the only mode the reference engines support.
const ModeRead AccessMode = "<"

// Engine is the storage back end contract. All path arguments are absolute,
// slash-separated repository paths; properties are addressed as
// <nodePath>/<ns:localName>.
//
// Every operation is a direct synchronous read against the storage medium.
// Engines perform no locking or snapshotting: a check-then-use gap is
// possible when the backing store is mutated externally, so callers must
// tolerate ErrNotFound between NodesIn and a per-child NodeTypeOf.
type Engine interface {
	// NodeTypeNamed looks up a node type in the engine's registry.
	NodeTypeNamed(name string) (*NodeType, bool)

	// PropertyTypeNamed looks up a property type in the engine's registry.
	PropertyTypeNamed(name string) (*PropertyType, bool)

	// PathExists reports whether the path resolves to a node, to a
	// property, or to nothing.
	PathExists(ctx context.Context, path string) (Existence, error)

	// NodeTypeOf returns the node type backing the path, or ErrNotFound.
	NodeTypeOf(ctx context.Context, path string) (*NodeType, error)

	// PropertyTypeOf returns the property type for a property path, or
	// ErrNotFound when the name is undefined for the parent node's
	// effective property map.
	PropertyTypeOf(ctx context.Context, path string) (*PropertyType, error)

	// NodesIn returns the child node names of a path, empty when the path
	// is not a container.
	NodesIn(ctx context.Context, path string) ([]string, error)

	// PropertiesIn returns the property names defined for the path's node
	// type.
	PropertiesIn(ctx context.Context, path string) ([]string, error)

	// GetScalar returns the raw materialized value of a property path.
	GetScalar(ctx context.Context, path string) (any, error)

	// GetHandle opens a stream over a property path. The caller owns the
	// returned stream and must close it on every exit path; the engine
	// does not track open handles.
	GetHandle(ctx context.Context, path string, mode AccessMode) (io.ReadCloser, error)

	// Namespaces returns the informational prefix-to-URI namespace map.
	Namespaces() map[string]string
}

// EngineFactory constructs an engine from engine-specific configuration.
type EngineFactory func(config map[string]any) (Engine, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]EngineFactory)
)

// RegisterEngine makes an engine factory available to Attach under the
// given name. Engine packages call it from init. Registering a nil factory
// or the same name twice panics, as with database/sql drivers.
func RegisterEngine(name string, factory EngineFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if factory == nil {
		panic("noderepo: RegisterEngine factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("noderepo: RegisterEngine called twice for engine " + name)
	}
	factories[name] = factory
}

// Engines returns the sorted names of the registered engine factories.
func Engines() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Attach resolves an engine factory by name, constructs the engine with the
// given configuration, and wraps it in a repository. Unknown names fail
// with ErrEngineLoad; construction failures from the engine's own factory
// propagate with their cause.
func Attach(name string, config map[string]any) (*Repository, error) {
	factoriesMu.RLock()
	factory, ok := factories[name]
	factoriesMu.RUnlock()
	if !ok {
		return nil, &EngineError{Engine: name, Err: fmt.Errorf("unknown engine: %w", ErrEngineLoad)}
	}

	engine, err := factory(config)
	if err != nil {
		return nil, &EngineError{Engine: name, Err: err}
	}

	return New(engine)
}
