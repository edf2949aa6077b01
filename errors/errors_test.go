package errors

import (
	// Go Internal Packages
	"fmt"
	"testing"

	// External Packages
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	cause := fmt.Errorf("connection refused")

	err := LogUnavailableErr(cause)
	require.True(t, IsKind(err, Unavailable))
	require.ErrorContains(t, err, "append log unavailable")
	require.ErrorContains(t, err, "connection refused")

	require.True(t, IsKind(BatchApplyErr(cause), Internal))
	require.Equal(t, Internal, KindOf(cause)) // bare errors default to Internal
}

func TestValidationErrs(t *testing.T) {
	ve := ValidationErrs()
	require.NoError(t, ve.Err())

	ve.Add("mongo.uri", "cannot be empty")
	ve.Add("stream.group", "cannot be empty")

	err := ve.Err()
	require.Error(t, err)
	require.True(t, IsKind(err, Invalid))
	require.ErrorContains(t, err, "mongo.uri: cannot be empty")
	require.ErrorContains(t, err, "stream.group: cannot be empty")
}
