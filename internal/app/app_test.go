package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAutochainApp_Initializers(t *testing.T) {
	app := NewAutochainApp()
	require.NotNil(t, app, "NewAutochainApp should not return nil")
}
