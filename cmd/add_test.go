package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddFlags(t *testing.T) {
	t.Run("ToWithoutFrom", func(t *testing.T) {
		fs := addCmd.Flags()
		t.Cleanup(func() {
			fs.Lookup("to").Changed = false
			addTo = ""
		})

		require.NoError(t, fs.Parse([]string{"--to", "2025-08-07"}))
		err := addCmd.ValidateFlagGroups()
		assert.ErrorContains(t, err, "must all be set")
	})
}
