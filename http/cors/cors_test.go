package cors

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(nil))
	require.NoError(t, Validate([]string{"*"}))
	require.NoError(t, Validate([]string{"https://testgrid.example.com", "http://localhost:3000"}))
	require.Error(t, Validate([]string{"testgrid.example.com"}))
}
