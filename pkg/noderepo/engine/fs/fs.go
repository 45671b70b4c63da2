// Package fs implements the filesystem storage engine, the reference
// realization of the noderepo engine contract. It simulates a typed
// hierarchical repository over raw files and directories: directory entries
// map 1:1 to child nodes, regular files expose a synthetic fs:content
// byte-stream property, and OS stat metadata is surfaced as scalar
// properties on every node.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sys/unix"

	"github.com/fernwick/noderepo/pkg/noderepo"
)

// Config options for the filesystem engine.
type Config struct {
	Root string // Directory exposed as the repository root; defaults to the working directory.
}

// Engine is a filesystem implementation of the noderepo.Engine interface.
// It is read-only: the write path for properties is not implemented.
type Engine struct {
	root  string
	types *noderepo.TypeRegistry
}

func init() {
	noderepo.RegisterEngine("fs", factory)
	noderepo.RegisterEngine("filesystem", factory)
}

func factory(config map[string]any) (noderepo.Engine, error) {
	cfg := Config{}
	if root, ok := config["root"].(string); ok {
		cfg.Root = root
	}
	return New(cfg)
}

// New creates a filesystem engine rooted at cfg.Root.
func New(cfg Config) (*Engine, error) {
	root := cfg.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("cannot determine working directory: %w", err)
		}
		root = wd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve root %q: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("root %q does not exist: %w", abs, noderepo.ErrConfig)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %q is not a directory: %w", abs, noderepo.ErrConfig)
	}

	types, err := buildRegistry()
	if err != nil {
		return nil, err
	}

	return &Engine{
		root:  abs,
		types: types,
	}, nil
}

// Root returns the absolute directory backing the repository root.
func (e *Engine) Root() string { return e.root }

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

// resolve maps a repository path onto the backing filesystem. The path is
// normalized first, so ".." cannot escape the root.
func (e *Engine) resolve(path string) string {
	return filepath.Join(e.root, filepath.FromSlash(noderepo.NormalizePath(path)))
}

func (e *Engine) lstat(path string) (*unix.Stat_t, error) {
	var st unix.Stat_t
	if err := unix.Lstat(e.resolve(path), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// PathExists triages a path into node, property, or nothing. A path that
// does not stat is retried as a property of its parent: the name must
// appear in the parent node type's effective property map. That rule makes
// the synthetic fs:content property exist only under regular files —
// directories resolve to fs:directory, whose effective map has no
// fs:content entry.
func (e *Engine) PathExists(ctx context.Context, path string) (noderepo.Existence, error) {
	path = noderepo.NormalizePath(path)

	_, err := e.lstat(path)
	if err == nil {
		return noderepo.NodeExists, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return noderepo.NotExists, &noderepo.PathError{Op: "path_exists", Path: path, Err: err}
	}

	parent, name := noderepo.SplitPath(path)
	nodeType, err := e.NodeTypeOf(ctx, parent)
	if err != nil {
		if errors.Is(err, noderepo.ErrNotFound) {
			return noderepo.NotExists, nil
		}
		return noderepo.NotExists, err
	}

	effective, err := nodeType.EffectiveChildProperties()
	if err != nil {
		return noderepo.NotExists, err
	}
	if _, ok := effective[name]; ok {
		return noderepo.PropertyExists, nil
	}

	return noderepo.NotExists, nil
}

// NodeTypeOf stats the path and maps it onto the synthesized types:
// directories are fs:directory, everything else is fs:file.
func (e *Engine) NodeTypeOf(ctx context.Context, path string) (*noderepo.NodeType, error) {
	path = noderepo.NormalizePath(path)

	st, err := e.lstat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &noderepo.PathError{Op: "node_type_of", Path: path, Err: noderepo.ErrNotFound}
		}
		return nil, &noderepo.PathError{Op: "node_type_of", Path: path, Err: err}
	}

	name := NodeTypeFile
	if st.Mode&unix.S_IFMT == unix.S_IFDIR {
		name = NodeTypeDirectory
	}

	nodeType, ok := e.types.NodeType(name)
	if !ok {
		return nil, &noderepo.PathError{Op: "node_type_of", Path: path, Err: fmt.Errorf("%s: %w", name, noderepo.ErrNotFound)}
	}
	return nodeType, nil
}

// PropertyTypeOf resolves a property path through the parent node type's
// effective property map.
func (e *Engine) PropertyTypeOf(ctx context.Context, path string) (*noderepo.PropertyType, error) {
	path = noderepo.NormalizePath(path)
	parent, name := noderepo.SplitPath(path)

	nodeType, err := e.NodeTypeOf(ctx, parent)
	if err != nil {
		return nil, err
	}

	effective, err := nodeType.EffectiveChildProperties()
	if err != nil {
		return nil, err
	}

	typeName, ok := effective[name]
	if !ok {
		return nil, &noderepo.PathError{Op: "property_type_of", Path: path, Err: fmt.Errorf("%s undefined for %s: %w", name, nodeType.Name(), noderepo.ErrNotFound)}
	}

	propertyType, ok := e.types.PropertyType(typeName)
	if !ok {
		return nil, &noderepo.PathError{Op: "property_type_of", Path: path, Err: fmt.Errorf("%s: %w", typeName, noderepo.ErrNotFound)}
	}
	return propertyType, nil
}

// NodesIn lists directory entries as child node names. Non-directories have
// no children.
func (e *Engine) NodesIn(ctx context.Context, path string) ([]string, error) {
	path = noderepo.NormalizePath(path)

	st, err := e.lstat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &noderepo.PathError{Op: "nodes_in", Path: path, Err: noderepo.ErrNotFound}
		}
		return nil, &noderepo.PathError{Op: "nodes_in", Path: path, Err: err}
	}
	if st.Mode&unix.S_IFMT != unix.S_IFDIR {
		return nil, nil
	}

	entries, err := os.ReadDir(e.resolve(path))
	if err != nil {
		return nil, &noderepo.PathError{Op: "nodes_in", Path: path, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

// PropertiesIn returns the property names defined for the path's node type:
// the stat properties for every node, plus fs:content for regular files.
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

// GetScalar materializes a property value. fs:content reads the whole file
// as a string; the stat properties come straight from lstat.
func (e *Engine) GetScalar(ctx context.Context, path string) (any, error) {
	path = noderepo.NormalizePath(path)
	parent, name := noderepo.SplitPath(path)

	if _, err := e.PropertyTypeOf(ctx, path); err != nil {
		return nil, err
	}

	if name == ContentProperty {
		data, err := os.ReadFile(e.resolve(parent))
		if err != nil {
			return nil, &noderepo.PathError{Op: "get_scalar", Path: path, Err: err}
		}
		return string(data), nil
	}

	st, err := e.lstat(parent)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &noderepo.PathError{Op: "get_scalar", Path: path, Err: noderepo.ErrNotFound}
		}
		return nil, &noderepo.PathError{Op: "get_scalar", Path: path, Err: err}
	}

	value, ok := statValue(st, name)
	if !ok {
		return nil, &noderepo.PathError{Op: "get_scalar", Path: path, Err: noderepo.ErrNotFound}
	}
	return value, nil
}

// GetHandle opens a read stream over a handle-backed property. Only mode
// "<" is supported, and only fs:content is stream-backed.
func (e *Engine) GetHandle(ctx context.Context, path string, mode noderepo.AccessMode) (io.ReadCloser, error) {
	path = noderepo.NormalizePath(path)
	parent, _ := noderepo.SplitPath(path)

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

	file, err := os.Open(e.resolve(parent))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &noderepo.PathError{Op: "get_handle", Path: path, Err: noderepo.ErrNotFound}
		}
		return nil, &noderepo.PathError{Op: "get_handle", Path: path, Err: err}
	}
	return file, nil
}
