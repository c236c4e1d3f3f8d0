package container

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestModuleGraphIsComplete(t *testing.T) {
	require.NoError(t, fx.ValidateApp(New(""), fx.NopLogger))
}
