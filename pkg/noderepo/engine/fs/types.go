package fs

import "github.com/fernwick/noderepo/pkg/noderepo"

// Namespace prefix and URI exposed by the engine. Informational only.
const (
	NamespacePrefix = "fs"
	NamespaceURI    = "http://fernwick.github.io/noderepo/ns/fs"
)

// Node type names synthesized by the engine.
const (
	NodeTypeObject    = "fs:object"
	NodeTypeFile      = "fs:file"
	NodeTypeDirectory = "fs:directory"
)

// Property type names synthesized by the engine.
const (
	PropertyTypeMutable = "fs:mutable"
	PropertyTypeStatic  = "fs:static"
	PropertyTypeContent = "fs:content"
)

// Value type names synthesized by the engine.
const (
	ValueTypeScalar = "fs:scalar"
	ValueTypeHandle = "fs:handle"
)

// ContentProperty is the synthetic byte-stream property of regular files.
// It never exists for directories.
const ContentProperty = "fs:content"

// statProperties are the OS metadata properties every filesystem node
// carries. The static class covers attributes that cannot change for a
// given inode; the mutable class covers attributes the OS can change in
// principle, though the engine does not implement the write path.
var statProperties = []struct {
	name   string
	static bool
}{
	{"fs:dev", true},
	{"fs:ino", true},
	{"fs:mode", false},
	{"fs:nlink", true},
	{"fs:uid", false},
	{"fs:gid", false},
	{"fs:size", true},
	{"fs:atime", false},
	{"fs:mtime", false},
	{"fs:ctime", false},
	{"fs:blksize", true},
	{"fs:blocks", true},
}

// buildRegistry synthesizes the engine's fixed type registry: two value
// types (materialized scalar, streamed handle), three property types
// (mutable scalar, static scalar, read-only content handle), and three node
// types (abstract fs:object carrying the stat properties, fs:file adding
// fs:content, fs:directory allowing arbitrary-named fs:object children).
func buildRegistry() (*noderepo.TypeRegistry, error) {
	registry := noderepo.NewTypeRegistry()

	scalar, err := noderepo.NewValueType(ValueTypeScalar, noderepo.KindScalar)
	if err != nil {
		return nil, err
	}
	handle, err := noderepo.NewValueType(ValueTypeHandle, noderepo.KindHandle)
	if err != nil {
		return nil, err
	}
	if err := registry.RegisterValueType(scalar); err != nil {
		return nil, err
	}
	if err := registry.RegisterValueType(handle); err != nil {
		return nil, err
	}

	mutable, err := noderepo.NewPropertyType(PropertyTypeMutable, scalar, noderepo.WithUpdatable())
	if err != nil {
		return nil, err
	}
	static, err := noderepo.NewPropertyType(PropertyTypeStatic, scalar)
	if err != nil {
		return nil, err
	}
	content, err := noderepo.NewPropertyType(PropertyTypeContent, handle)
	if err != nil {
		return nil, err
	}
	for _, pt := range []*noderepo.PropertyType{mutable, static, content} {
		if err := registry.RegisterPropertyType(pt); err != nil {
			return nil, err
		}
	}

	objectOptions := []noderepo.NodeTypeOption{noderepo.WithAbstract()}
	for _, sp := range statProperties {
		propertyType := PropertyTypeMutable
		if sp.static {
			propertyType = PropertyTypeStatic
		}
		objectOptions = append(objectOptions, noderepo.WithChildProperty(sp.name, propertyType))
	}
	object, err := noderepo.NewNodeType(NodeTypeObject, objectOptions...)
	if err != nil {
		return nil, err
	}

	file, err := noderepo.NewNodeType(NodeTypeFile,
		noderepo.WithSupertypes(NodeTypeObject),
		noderepo.WithChildProperty(ContentProperty, PropertyTypeContent),
	)
	if err != nil {
		return nil, err
	}

	directory, err := noderepo.NewNodeType(NodeTypeDirectory,
		noderepo.WithSupertypes(NodeTypeObject),
		noderepo.WithChildNode("*", NodeTypeObject),
	)
	if err != nil {
		return nil, err
	}

	for _, nt := range []*noderepo.NodeType{object, file, directory} {
		if err := registry.RegisterNodeType(nt); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
