package aoai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	err := E(KindUpload, "batch.SubmitFile", errors.New("boom"))
	require.Equal(t, KindUpload, KindOf(err))

	wrapped := fmt.Errorf("run: %w", err)
	require.Equal(t, KindUpload, KindOf(wrapped))

	require.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	require.Nil(t, E(KindUpload, "op", nil))
}

func TestExitCodes(t *testing.T) {
	cases := []struct {
		kind Kind
		code int
	}{
		{KindConfig, 1},
		{KindAuth, 1},
		{KindUpload, 2},
		{KindSubmission, 3},
		{KindPollTimeout, 4},
		{KindRetrieval, 5},
		{KindCompletion, 6},
		{KindUnknown, 1},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			err := E(tc.kind, "op", errors.New("boom"))
			require.Equal(t, tc.code, ExitCode(err))
		})
	}
	require.Equal(t, 0, ExitCode(nil))
	require.Equal(t, 1, ExitCode(errors.New("untagged")))
}

func TestErrorFormatting(t *testing.T) {
	err := E(KindAuth, "aoai.NewTokenCredential", errors.New("no credential"))
	require.Contains(t, err.Error(), "auth")
	require.Contains(t, err.Error(), "aoai.NewTokenCredential")
	require.Contains(t, err.Error(), "no credential")

	var tagged *Error
	require.True(t, errors.As(err, &tagged))
	require.EqualError(t, tagged.Unwrap(), "no credential")
}
