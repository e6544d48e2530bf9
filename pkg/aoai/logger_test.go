package aoai

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeromicro/go-zero/core/logx"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, uint32(logx.DebugLevel), parseLevel("debug"))
	require.Equal(t, uint32(logx.InfoLevel), parseLevel("INFO"))
	require.Equal(t, uint32(logx.ErrorLevel), parseLevel(" error "))
	require.Equal(t, uint32(logx.SevereLevel), parseLevel("fatal"))
	require.Equal(t, uint32(logx.InfoLevel), parseLevel("unknown"))
}

func TestMsgWithFields(t *testing.T) {
	require.Equal(t, "plain", msgWithFields("plain", nil))

	out := msgWithFields("file status", Fields{"file_id": "file-1"})
	require.Contains(t, out, "file status | ")
	require.Contains(t, out, "file_id=file-1")
}
