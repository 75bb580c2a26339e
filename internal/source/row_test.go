package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowOf(t *testing.T) {
	r := RowOf("a", "1", "b", "2", "a", "3", "c")

	assert.Equal(t, Row{
		{Name: "a", Cell: Value("3")},
		{Name: "b", Cell: Value("2")},
		{Name: "c", Cell: Null()},
	}, r)

	_, ok := r.Get("missing")
	assert.False(t, ok)
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "null", Null().String())
	assert.Equal(t, "", Value("").String())
	assert.Equal(t, "x", Value("x").String())
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		data string
		want rune
	}{
		{"a,b,c\n1,2,3\n", ','},
		{"a;b;c\n1;2;3\n", ';'},
		{"a\tb\tc\n", '\t'},
		{"a|b\n", '|'},
		{"single\n", ','},
		{"\"x,y,z\";b\n", ';'},
		{"id,tags\n1,a;b;c\n2,d;e;f\n", ','},
		{"a;b\n1;2\n3;4;5\n", ','},
		{"a|b,c\n1|2,3\n", ','},
		{"a|b|c,d\r\n1|2|3,4\r\n", '|'},
		{"a;b\n\n1;2\n", ';'},
		{"a;b\n1;2\n3", ';'},
		{"", ','},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectDelimiter([]byte(tt.data), 0), tt.data)
	}
	assert.True(t, IsValidDelimiter('|'))
	assert.False(t, IsValidDelimiter(':'))
}
