package services

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateOtpCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateOtpCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 100000)
		require.LessOrEqual(t, n, 999999)
	}
}
