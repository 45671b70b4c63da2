package noderepo_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fernwick/noderepo/pkg/noderepo"
)

func TestValueTypeCreation(t *testing.T) {
	t.Run("name is required", func(t *testing.T) {
		vt, err := noderepo.NewValueType("", noderepo.KindScalar)
		assert.ErrorIs(t, err, noderepo.ErrConfig)
		assert.Nil(t, vt)
	})

	t.Run("base type is permissive", func(t *testing.T) {
		vt, err := noderepo.NewValueType("t:scalar", noderepo.KindScalar)
		require.NoError(t, err)

		assert.Equal(t, "t:scalar", vt.Name())
		assert.Equal(t, noderepo.KindScalar, vt.Kind())
		assert.NoError(t, vt.Check("anything"))
		assert.NoError(t, vt.Check(nil))
		assert.NoError(t, vt.Check(42))
	})
}

func TestValueTypeRoundTrip(t *testing.T) {
	t.Run("identity conversions", func(t *testing.T) {
		vt, err := noderepo.NewValueType("t:scalar", noderepo.KindScalar)
		require.NoError(t, err)

		inflated, err := vt.Inflate("hello")
		require.NoError(t, err)
		deflated, err := vt.Deflate(inflated)
		require.NoError(t, err)
		assert.Equal(t, "hello", deflated)
	})

	t.Run("custom conversions stay inverses", func(t *testing.T) {
		vt, err := noderepo.NewValueType("t:shout", noderepo.KindScalar,
			noderepo.WithInflate(func(raw any) (any, error) {
				return fmt.Sprintf("[%v]", raw), nil
			}),
			noderepo.WithDeflate(func(value any) (any, error) {
				s := value.(string)
				return s[1 : len(s)-1], nil
			}),
		)
		require.NoError(t, err)

		inflated, err := vt.Inflate("hello")
		require.NoError(t, err)
		assert.Equal(t, "[hello]", inflated)

		deflated, err := vt.Deflate(inflated)
		require.NoError(t, err)
		assert.Equal(t, "hello", deflated)
	})
}

func TestValueTypeCheck(t *testing.T) {
	vt, err := noderepo.NewValueType("t:text", noderepo.KindScalar,
		noderepo.WithCheck(func(value any) error {
			if _, ok := value.(string); !ok {
				return fmt.Errorf("want string, got %T", value)
			}
			return nil
		}),
	)
	require.NoError(t, err)

	assert.NoError(t, vt.Check("fine"))

	err = vt.Check(42)
	assert.ErrorIs(t, err, noderepo.ErrValidation)

	var typeErr *noderepo.TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "t:text", typeErr.Type)
}
