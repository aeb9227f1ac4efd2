package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "a@b.com", NormalizeEmail("  A@B.Com "))
	require.Equal(t, "", NormalizeEmail("   "))
}

func TestParseInputString(t *testing.T) {
	require.Equal(t, "hello", ParseInputString(" hello \n"))
}

func TestParseInputStringPtr(t *testing.T) {
	require.Nil(t, ParseInputStringPtr(nil))
	s := "  padded "
	out := ParseInputStringPtr(&s)
	require.NotNil(t, out)
	require.Equal(t, "padded", *out)
}
