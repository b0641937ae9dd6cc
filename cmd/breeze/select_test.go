package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	t.Run("all", func(t *testing.T) {
		got, err := parseSelection("all", 3)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, got)
	})

	t.Run("all is case insensitive", func(t *testing.T) {
		got, err := parseSelection("ALL", 2)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, got)
	})

	t.Run("comma list preserves order", func(t *testing.T) {
		got, err := parseSelection("3,1,2", 5)
		require.NoError(t, err)
		assert.Equal(t, []int{3, 1, 2}, got)
	})

	t.Run("duplicates dropped, first kept", func(t *testing.T) {
		got, err := parseSelection("2,2,1,2", 3)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 1}, got)
	})

	t.Run("whitespace tolerated", func(t *testing.T) {
		got, err := parseSelection(" 1 , 3 ", 3)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 3}, got)
	})

	t.Run("cancel", func(t *testing.T) {
		got, err := parseSelection("0", 3)
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = parseSelection("", 3)
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = parseSelection("  ", 3)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := parseSelection("4", 3)
		assert.Error(t, err)

		_, err = parseSelection("1,9", 3)
		assert.Error(t, err)
	})

	t.Run("not a number", func(t *testing.T) {
		_, err := parseSelection("one", 3)
		assert.Error(t, err)

		_, err = parseSelection("1,x", 3)
		assert.Error(t, err)
	})
}
