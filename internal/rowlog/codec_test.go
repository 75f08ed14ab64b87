package rowlog_test

import (
	"testing"

	"github.com/flaglog/flaglog/internal/rowlog"
	"github.com/flaglog/flaglog/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRow_Quoting(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  string
	}{
		{"plain strings", []string{"hello", "good"}, "'hello','good'"},
		{"numeric unquoted", []string{"42", "3.14", "-1e3"}, "42,3.14,-1e3"},
		{"empty cell quoted", []string{"", "x"}, "'','x'"},
		{"embedded comma", []string{"a,b"}, "'a,b'"},
		{"embedded quote doubled", []string{"it's"}, "'it''s'"},
		{"embedded newline", []string{"line1\nline2"}, "'line1\nline2'"},
		{"numeric-looking with space stays quoted", []string{" 1"}, "' 1'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rowlog.EncodeRow(tt.cells))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	header := model.Header{"prompt", "flag", "username", "timestamp"}
	rows := []model.Record{
		{"hello", "good", "alice", "2024-01-02 15:04:05.000000"},
		{"it's, tricky\nvery", "", "bob'", "42"},
		{"3.14", "-7", "1e10", "not a number"},
	}

	text := rowlog.EncodeAll(header, rows)
	gotHeader, gotRows, err := rowlog.DecodeAll(text)
	require.NoError(t, err)
	assert.Equal(t, header, gotHeader)
	assert.Equal(t, rows, gotRows)
}

func TestDecodeAll_CRLF(t *testing.T) {
	text := "'prompt','flag'\r\n'hello','good'\r\n"
	header, rows, err := rowlog.DecodeAll(text)
	require.NoError(t, err)
	assert.Equal(t, model.Header{"prompt", "flag"}, header)
	require.Len(t, rows, 1)
	assert.Equal(t, model.Record{"hello", "good"}, rows[0])
}

func TestDecodeAll_NoTrailingNewline(t *testing.T) {
	header, rows, err := rowlog.DecodeAll("'a','b'\n1,2")
	require.NoError(t, err)
	assert.Equal(t, model.Header{"a", "b"}, header)
	assert.Equal(t, []model.Record{{"1", "2"}}, rows)
}

func TestDecodeAll_Empty(t *testing.T) {
	_, _, err := rowlog.DecodeAll("")
	assert.ErrorIs(t, err, rowlog.ErrEmpty)
}

func TestDecodeAll_CardinalityMismatch(t *testing.T) {
	_, _, err := rowlog.DecodeAll("'a','b'\n'only one'\n")
	assert.Error(t, err)
}

func TestDecodeAll_DanglingQuote(t *testing.T) {
	_, _, err := rowlog.DecodeAll("'a','b'\n'unterminated\n")
	assert.Error(t, err)
}

func TestDecodeAll_GarbageAfterClosingQuote(t *testing.T) {
	_, _, err := rowlog.DecodeAll("'a'junk\n")
	assert.Error(t, err)
}

func TestDecodeRows_Headerless(t *testing.T) {
	rows, err := rowlog.DecodeRows("'x'\n'y'\n")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x"}, {"y"}}, rows)
}

func TestDecodeRows_NoPhantomRowFromFinalNewline(t *testing.T) {
	rows, err := rowlog.DecodeRows("'x','y'\n")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
