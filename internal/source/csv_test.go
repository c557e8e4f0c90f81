package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVLoader_Read(t *testing.T) {
	in := "\ufeff<TICKER>,<PER>,<DATE>,<TIME>,<VOL>\n" +
		"SPFB.RTS-3.23,5,20230103,100000,10\n" +
		"SPFB.RTS-3.23,5,20230103,100500,20\n"
	tbl, err := CSVLoader{}.Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"<TICKER>", "<PER>", "<DATE>", "<TIME>", "<VOL>"}, tbl.Columns)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "100500", tbl.Rows[1][3])
}

func TestCSVLoader_Errors(t *testing.T) {
	_, err := CSVLoader{}.Read(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = CSVLoader{}.Read(strings.NewReader("a,b\n1,2,3\n"))
	assert.Error(t, err)

	_, err = CSVLoader{}.Load("does/not/exist.csv")
	assert.Error(t, err)
}

func TestCSVLoader_Semicolon(t *testing.T) {
	tbl, err := CSVLoader{Comma: ';'}.Read(strings.NewReader("a;b\n1;2\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2"}}, tbl.Rows)
}

func TestForPath(t *testing.T) {
	assert.Equal(t, "parquet", ForPath("x/ri.PARQUET").GetName())
	assert.Equal(t, "xlsx", ForPath("x/ri.xlsx").GetName())
	assert.Equal(t, "csv", ForPath("x/ri.txt").GetName())
}
