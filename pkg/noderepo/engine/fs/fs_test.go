package fs_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwick/noderepo/pkg/noderepo"
	fsengine "github.com/fernwick/noderepo/pkg/noderepo/engine/fs"
)

// newTestEngine builds an engine over a root containing file "foo" (content
// "hi") and directory "baz" containing file "qux".
func newTestEngine(t *testing.T) *fsengine.Engine {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "foo"), []byte("hi"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "baz"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "baz", "qux"), []byte("deep"), 0o644))

	engine, err := fsengine.New(fsengine.Config{Root: root})
	require.NoError(t, err)
	return engine
}

func TestEngineCreation(t *testing.T) {
	t.Run("missing root should fail", func(t *testing.T) {
		engine, err := fsengine.New(fsengine.Config{Root: "/does/not/exist"})
		assert.ErrorIs(t, err, noderepo.ErrConfig)
		assert.Nil(t, engine)
	})

	t.Run("file root should fail", func(t *testing.T) {
		root := t.TempDir()
		file := filepath.Join(root, "plain")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		engine, err := fsengine.New(fsengine.Config{Root: file})
		assert.ErrorIs(t, err, noderepo.ErrConfig)
		assert.Nil(t, engine)
	})

	t.Run("empty root defaults to working directory", func(t *testing.T) {
		engine, err := fsengine.New(fsengine.Config{})
		require.NoError(t, err)

		wd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, wd, engine.Root())
	})
}

func TestPathExists(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name string
		path string
		want noderepo.Existence
	}{
		{"root is a node", "/", noderepo.NodeExists},
		{"file is a node", "/foo", noderepo.NodeExists},
		{"directory is a node", "/baz", noderepo.NodeExists},
		{"nested file is a node", "/baz/qux", noderepo.NodeExists},
		{"file content is a property", "/foo/fs:content", noderepo.PropertyExists},
		{"directory content never exists", "/baz/fs:content", noderepo.NotExists},
		{"stat property of a file", "/foo/fs:size", noderepo.PropertyExists},
		{"stat property of a directory", "/baz/fs:mtime", noderepo.PropertyExists},
		{"missing path", "/missing", noderepo.NotExists},
		{"property of a missing node", "/missing/fs:content", noderepo.NotExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existence, err := engine.PathExists(ctx, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, existence)
		})
	}
}

func TestNodeTypeOf(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	t.Run("directories are fs:directory", func(t *testing.T) {
		nodeType, err := engine.NodeTypeOf(ctx, "/baz")
		require.NoError(t, err)
		assert.Equal(t, fsengine.NodeTypeDirectory, nodeType.Name())
	})

	t.Run("regular files are fs:file", func(t *testing.T) {
		nodeType, err := engine.NodeTypeOf(ctx, "/foo")
		require.NoError(t, err)
		assert.Equal(t, fsengine.NodeTypeFile, nodeType.Name())
	})

	t.Run("the root is a directory", func(t *testing.T) {
		nodeType, err := engine.NodeTypeOf(ctx, "/")
		require.NoError(t, err)
		assert.Equal(t, fsengine.NodeTypeDirectory, nodeType.Name())
	})

	t.Run("dotdot cannot escape the root", func(t *testing.T) {
		nodeType, err := engine.NodeTypeOf(ctx, "/../../..")
		require.NoError(t, err)
		assert.Equal(t, fsengine.NodeTypeDirectory, nodeType.Name())
	})

	t.Run("missing path fails with not found", func(t *testing.T) {
		_, err := engine.NodeTypeOf(ctx, "/missing")
		assert.ErrorIs(t, err, noderepo.ErrNotFound)
	})
}

func TestTypeInheritance(t *testing.T) {
	engine := newTestEngine(t)

	t.Run("file and directory extend fs:object", func(t *testing.T) {
		file, ok := engine.NodeTypeNamed(fsengine.NodeTypeFile)
		require.True(t, ok)
		assert.Equal(t, []string{fsengine.NodeTypeObject}, file.Supertypes())

		directory, ok := engine.NodeTypeNamed(fsengine.NodeTypeDirectory)
		require.True(t, ok)
		assert.Equal(t, []string{fsengine.NodeTypeObject}, directory.Supertypes())
	})

	t.Run("fs:object is abstract", func(t *testing.T) {
		object, ok := engine.NodeTypeNamed(fsengine.NodeTypeObject)
		require.True(t, ok)
		assert.True(t, object.Abstract())
	})

	t.Run("file inherits stat properties and adds content", func(t *testing.T) {
		file, ok := engine.NodeTypeNamed(fsengine.NodeTypeFile)
		require.True(t, ok)

		effective, err := file.EffectiveChildProperties()
		require.NoError(t, err)
		assert.Equal(t, fsengine.PropertyTypeContent, effective[fsengine.ContentProperty])
		assert.Equal(t, fsengine.PropertyTypeStatic, effective["fs:size"])
		assert.Equal(t, fsengine.PropertyTypeMutable, effective["fs:mtime"])
	})

	t.Run("directory allows wildcard children of fs:object", func(t *testing.T) {
		directory, ok := engine.NodeTypeNamed(fsengine.NodeTypeDirectory)
		require.True(t, ok)

		effective, err := directory.EffectiveChildNodes()
		require.NoError(t, err)
		assert.Equal(t, []string{fsengine.NodeTypeObject}, effective["*"])
	})
}

func TestNodesIn(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	t.Run("directory entries map to children", func(t *testing.T) {
		names, err := engine.NodesIn(ctx, "/")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"foo", "baz"}, names)
	})

	t.Run("files have no children", func(t *testing.T) {
		names, err := engine.NodesIn(ctx, "/foo")
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("missing path fails with not found", func(t *testing.T) {
		_, err := engine.NodesIn(ctx, "/missing")
		assert.ErrorIs(t, err, noderepo.ErrNotFound)
	})
}

func TestPropertiesIn(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	t.Run("files carry content plus stat properties", func(t *testing.T) {
		names, err := engine.PropertiesIn(ctx, "/foo")
		require.NoError(t, err)
		assert.Contains(t, names, fsengine.ContentProperty)
		assert.Contains(t, names, "fs:size")
		assert.Contains(t, names, "fs:uid")
		assert.Contains(t, names, "fs:mtime")
		assert.Len(t, names, 13)
	})

	t.Run("directories never carry content", func(t *testing.T) {
		names, err := engine.PropertiesIn(ctx, "/baz")
		require.NoError(t, err)
		assert.NotContains(t, names, fsengine.ContentProperty)
		assert.Len(t, names, 12)
	})
}

func TestGetScalar(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	t.Run("content materializes the file", func(t *testing.T) {
		value, err := engine.GetScalar(ctx, "/foo/fs:content")
		require.NoError(t, err)
		assert.Equal(t, "hi", value)
	})

	t.Run("size matches the file length", func(t *testing.T) {
		value, err := engine.GetScalar(ctx, "/foo/fs:size")
		require.NoError(t, err)
		assert.Equal(t, int64(2), value)
	})

	t.Run("uid matches the process owner", func(t *testing.T) {
		value, err := engine.GetScalar(ctx, "/foo/fs:uid")
		require.NoError(t, err)
		assert.Equal(t, uint32(os.Getuid()), value)
	})

	t.Run("mtime is a recent timestamp", func(t *testing.T) {
		value, err := engine.GetScalar(ctx, "/baz/fs:mtime")
		require.NoError(t, err)
		mtime, ok := value.(time.Time)
		require.True(t, ok)
		assert.WithinDuration(t, time.Now(), mtime, time.Minute)
	})

	t.Run("content of a directory fails with not found", func(t *testing.T) {
		_, err := engine.GetScalar(ctx, "/baz/fs:content")
		assert.ErrorIs(t, err, noderepo.ErrNotFound)
	})

	t.Run("undefined property fails with not found", func(t *testing.T) {
		_, err := engine.GetScalar(ctx, "/foo/fs:ghost")
		assert.ErrorIs(t, err, noderepo.ErrNotFound)
	})
}

func TestGetHandle(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	t.Run("content streams in read mode", func(t *testing.T) {
		handle, err := engine.GetHandle(ctx, "/baz/qux/fs:content", noderepo.ModeRead)
		require.NoError(t, err)
		defer handle.Close()

		data, err := io.ReadAll(handle)
		require.NoError(t, err)
		assert.Equal(t, "deep", string(data))
	})

	t.Run("write mode is unsupported", func(t *testing.T) {
		_, err := engine.GetHandle(ctx, "/foo/fs:content", noderepo.AccessMode(">"))
		assert.ErrorIs(t, err, noderepo.ErrUnsupportedMode)
	})

	t.Run("scalar properties are not stream-backed", func(t *testing.T) {
		_, err := engine.GetHandle(ctx, "/foo/fs:size", noderepo.ModeRead)
		assert.ErrorIs(t, err, noderepo.ErrUnsupportedMode)
	})
}

func TestRepositoryOverFilesystem(t *testing.T) {
	engine := newTestEngine(t)
	ctx := context.Background()

	repo, err := noderepo.New(engine)
	require.NoError(t, err)

	t.Run("root identity", func(t *testing.T) {
		root := repo.Root()
		assert.Equal(t, "/", root.Name())
		assert.Equal(t, "/", root.Parent().Path())
	})

	t.Run("walk and read", func(t *testing.T) {
		node := repo.Node("/baz/qux")

		nodeType, err := node.Type(ctx)
		require.NoError(t, err)
		assert.Equal(t, fsengine.NodeTypeFile, nodeType.Name())

		value, err := node.Property(fsengine.ContentProperty).Value(ctx)
		require.NoError(t, err)
		assert.Equal(t, "deep", value)
	})

	t.Run("external mutation is visible immediately", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(engine.Root(), "late"), []byte("x"), 0o644))

		children, err := repo.Root().Nodes(ctx)
		require.NoError(t, err)

		names := make([]string, 0, len(children))
		for _, child := range children {
			names = append(names, child.Name())
		}
		assert.Contains(t, names, "late")
	})

	t.Run("namespace declaration", func(t *testing.T) {
		assert.Equal(t, fsengine.NamespaceURI, repo.Namespaces()[fsengine.NamespacePrefix])
	})
}
