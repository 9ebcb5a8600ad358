package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		present bool
		col     Column
		want    string
		wantErr bool
	}{
		{name: "text", value: "hello", present: true, col: Column{Key: "k"}, want: "hello"},
		{name: "strip newlines", value: "a\nb\r\nc", present: true, col: Column{Key: "k", Formatter: FormatStripNewlines}, want: "abc"},
		{name: "url untouched", value: "https://novem.no/p/abc", present: true, col: Column{Key: "k", Type: TypeURL, Formatter: FormatStripNewlines}, want: "https://novem.no/p/abc"},
		{name: "rfc2822 gmt", value: "Wed, 02 Oct 2024 10:15:00 GMT", present: true, col: Column{Key: "k", Type: TypeDate}, want: "2024-10-02 10:15"},
		{name: "rfc2822 offset keeps wall clock", value: "Thu, 03 Oct 2024 23:59:59 +0200", present: true, col: Column{Key: "k", Type: TypeDate}, want: "2024-10-03 23:59"},
		{name: "already normalized", value: "2024-10-02 10:15", present: true, col: Column{Key: "k", Type: TypeDate}, want: "2024-10-02 10:15"},
		{name: "bad date", value: "yesterday", present: true, col: Column{Key: "k", Type: TypeDate}, wantErr: true},
		{name: "empty date", value: "", present: true, col: Column{Key: "k", Type: TypeDate}, wantErr: true},
		{name: "missing", present: false, col: Column{Key: "k"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatValue(tt.value, tt.present, tt.col)
			if tt.wantErr {
				require.Error(t, err)
				var fe *FormatError
				assert.True(t, errors.As(err, &fe))
				assert.Equal(t, "k", fe.Key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatValue_MissingFieldSentinel(t *testing.T) {
	_, err := FormatCell(Record{"a": "1"}, Column{Key: "b"})
	assert.True(t, errors.Is(err, ErrMissingField))
}

func TestNormalizeDate(t *testing.T) {
	got, err := NormalizeDate("Wed, 02 Oct 2024 10:15:00 GMT")
	require.NoError(t, err)
	assert.Equal(t, "2024-10-02 10:15", got)

	_, err = NormalizeDate("2024/10/02")
	assert.Error(t, err)
}

func TestNewRecord(t *testing.T) {
	rec := NewRecord(map[string]interface{}{
		"id":      "plot1",
		"count":   float64(3),
		"public":  true,
		"missing": nil,
		"tags":    []interface{}{"a", "b"},
	})

	assert.Equal(t, Record{
		"id":     "plot1",
		"count":  "3",
		"public": "true",
		"tags":   `["a","b"]`,
	}, rec)

	_, ok := rec.Get("missing")
	assert.False(t, ok)
}
