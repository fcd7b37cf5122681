package schema_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/promptc/internal/domain"
	"github.com/davidbz/promptc/internal/schema"
)

func TestDerive(t *testing.T) {
	t.Run("should wrap an integer return in the default tool", func(t *testing.T) {
		def, err := schema.Derive(schema.TypeOf[int](), "", "Return the sum.", "")

		require.NoError(t, err)
		require.Equal(t, "FormatResponse", def.Name)
		require.NotNil(t, def.Description)
		require.Equal(t, "Return the sum.", *def.Description)

		params := def.Parameters
		require.Equal(t, "object", params.Type)
		require.Equal(t, "FormatResponse", params.Title)
		require.Equal(t, []string{"data"}, params.Required)
		require.Len(t, params.Properties, 1)
		require.Equal(t, "integer", params.Properties["data"].Type)
		require.Equal(t, "Data", params.Properties["data"].Title)
	})

	t.Run("should honor custom name and field", func(t *testing.T) {
		def, err := schema.Derive(schema.TypeOf[[]Address](), "Addresses", "", "result")

		require.NoError(t, err)
		require.Equal(t, "Addresses", def.Name)
		require.Nil(t, def.Description)
		require.Equal(t, []string{"result"}, def.Parameters.Required)
		require.Equal(t, "array", def.Parameters.Properties["result"].Type)
		require.Equal(t, "object", def.Parameters.Properties["result"].Items.Type)
	})

	t.Run("should always require exactly the wrapped field", func(t *testing.T) {
		types := []reflect.Type{
			schema.TypeOf[bool](),
			schema.TypeOf[string](),
			schema.TypeOf[Person](),
			schema.TypeOf[map[string][]int](),
			schema.TypeOf[*Address](),
		}

		for _, typ := range types {
			def, err := schema.Derive(typ, "Out", "", "value")
			require.NoError(t, err, typ.String())
			require.Equal(t, []string{"value"}, def.Parameters.Required, typ.String())
			require.Len(t, def.Parameters.Properties, 1, typ.String())
		}
	})

	t.Run("should reject an undeclared return type", func(t *testing.T) {
		_, err := schema.Derive(nil, "", "", "")

		require.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("should reject any", func(t *testing.T) {
		_, err := schema.Derive(schema.TypeOf[any](), "", "", "")

		require.ErrorIs(t, err, domain.ErrUnsupportedType)
	})
}
