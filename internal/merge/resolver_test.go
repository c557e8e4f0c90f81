package merge

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quik-bars/internal/model"
)

var columns = []string{"ticker", "per", "close", "vol", "datetime"}

// series builds a cleaned series from (ticker, datetime, vol) triples.
func series(t testing.TB, rows ...[3]string) *model.Series {
	t.Helper()
	tbl := &model.Table{Columns: append([]string(nil), columns...)}
	for _, r := range rows {
		tbl.Rows = append(tbl.Rows, []string{r[0], "5", "100.5", r[2], r[1]})
	}
	s, err := model.SeriesFromTable(tbl)
	require.NoError(t, err)
	return s
}

func tickersOn(s *model.Series, date string) []string {
	var out []string
	for _, b := range s.Bars {
		if b.Date().Format(time.DateOnly) == date {
			out = append(out, s.Cell(b, "ticker"))
		}
	}
	return out
}

func TestResolve_LargerVolumeWins(t *testing.T) {
	a := series(t,
		[3]string{"RIH3", "2023-01-03 10:00:00", "60"},
		[3]string{"RIH3", "2023-01-03 10:05:00", "40"},
	)
	b := series(t,
		[3]string{"RIM3", "2023-01-03 10:00:00", "90"},
	)
	res, err := Resolve(a, b, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"RIH3", "RIH3"}, tickersOn(res.Series, "2023-01-03"))
	require.Len(t, res.Days, 1)
	assert.Equal(t, Choice{
		Date: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), Source: SourceA,
		VolumeA: 100, VolumeB: 90, Ticker: "RIH3",
	}, res.Days[0])
}

func TestResolve_TieFavorsA(t *testing.T) {
	a := series(t, [3]string{"RIH3", "2023-01-03 10:00:00", "90"})
	b := series(t, [3]string{"RIM3", "2023-01-03 10:05:00", "90"})
	res, err := Resolve(a, b, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"RIH3"}, tickersOn(res.Series, "2023-01-03"))
}

func TestResolve_SmallerVolumeLoses(t *testing.T) {
	a := series(t, [3]string{"RIH3", "2023-01-03 10:00:00", "10"})
	b := series(t,
		[3]string{"RIM3", "2023-01-03 10:00:00", "5"},
		[3]string{"RIM3", "2023-01-03 10:05:00", "6"},
	)
	res, err := Resolve(a, b, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"RIM3", "RIM3"}, tickersOn(res.Series, "2023-01-03"))
	assert.Equal(t, SourceB, res.Days[0].Source)
}

func TestResolve_DisjointDatesAndOrder(t *testing.T) {
	a := series(t,
		[3]string{"RIH3", "2023-01-04 10:00:00", "1"},
		[3]string{"RIH3", "2023-01-02 10:00:00", "1"},
	)
	b := series(t,
		[3]string{"RIM3", "2023-01-03 10:00:00", "1"},
		[3]string{"RIM3", "2023-01-05 10:00:00", "1"},
	)
	res, err := Resolve(a, b, Options{})
	require.NoError(t, err)

	s := res.Series
	require.Len(t, s.Bars, 4)
	for i := 1; i < len(s.Bars); i++ {
		assert.True(t, s.Bars[i-1].Time.Before(s.Bars[i].Time))
	}
	assert.Equal(t, []string{"RIH3"}, tickersOn(s, "2023-01-02"))
	assert.Equal(t, []string{"RIM3"}, tickersOn(s, "2023-01-03"))
	assert.Equal(t, []string{"RIH3"}, tickersOn(s, "2023-01-04"))
	assert.Equal(t, []string{"RIM3"}, tickersOn(s, "2023-01-05"))
}

func TestResolve_DateRange(t *testing.T) {
	a := series(t,
		[3]string{"RIH3", "2023-01-02 10:00:00", "1"},
		[3]string{"RIH3", "2023-01-03 10:00:00", "1"},
	)
	b := series(t, [3]string{"RIM3", "2023-01-04 10:00:00", "1"})
	res, err := Resolve(a, b, Options{
		StartDate: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, res.Series.Bars, 1)
	assert.Equal(t, "2023-01-03 10:00:00", res.Series.Cell(res.Series.Bars[0], "datetime"))
}

func TestResolve_ReordersColumns(t *testing.T) {
	a := series(t, [3]string{"RIH3", "2023-01-02 10:00:00", "1"})
	b, err := model.SeriesFromTable(&model.Table{
		Columns: []string{"datetime", "vol", "close", "per", "ticker"},
		Rows:    [][]string{{"2023-01-03 10:00:00", "7", "101.5", "5", "RIM3"}},
	})
	require.NoError(t, err)

	res, err := Resolve(a, b, Options{})
	require.NoError(t, err)
	assert.Equal(t, columns, res.Series.Columns)
	assert.Equal(t, []string{"RIM3", "5", "101.5", "7", "2023-01-03 10:00:00"}, res.Series.Bars[1].Cells)
}

func TestCheckSchemas(t *testing.T) {
	a := series(t, [3]string{"RIH3", "2023-01-02 10:00:00", "1"})

	t.Run("different columns", func(t *testing.T) {
		b, err := model.SeriesFromTable(&model.Table{
			Columns: []string{"ticker", "per", "open", "vol", "datetime"},
			Rows:    [][]string{{"RIM3", "5", "100", "1", "2023-01-03 10:00:00"}},
		})
		require.NoError(t, err)
		_, err = Resolve(a, b, Options{})
		assert.ErrorIs(t, err, ErrSchemaMismatch)
		assert.Contains(t, err.Error(), `"close" "open"`)
	})

	t.Run("different kinds", func(t *testing.T) {
		b, err := model.SeriesFromTable(&model.Table{
			Columns: columns,
			Rows:    [][]string{{"RIM3", "5", "n/a", "1", "2023-01-03 10:00:00"}},
		})
		require.NoError(t, err)
		assert.ErrorIs(t, CheckSchemas(a, b), ErrSchemaMismatch)
	})

	t.Run("float volume", func(t *testing.T) {
		b, err := model.SeriesFromTable(&model.Table{
			Columns: columns,
			Rows:    [][]string{{"RIM3", "5", "100.5", "1.5", "2023-01-03 10:00:00"}},
		})
		require.NoError(t, err)
		_, err = Resolve(a, b, Options{})
		assert.ErrorIs(t, err, ErrVolumeNotInteger)
	})

	t.Run("no volume", func(t *testing.T) {
		b, err := model.SeriesFromTable(&model.Table{
			Columns: []string{"ticker", "datetime"},
			Rows:    [][]string{{"RIM3", "2023-01-03 10:00:00"}},
		})
		require.NoError(t, err)
		assert.ErrorIs(t, CheckSchemas(a, b), ErrMissingColumn)
	})
}

func TestSummarize(t *testing.T) {
	s := series(t,
		[3]string{"RIH3", "2023-01-02 10:00:00", "1"},
		[3]string{"RIM3", "2023-01-04 10:00:00", "1"},
	)
	sum := Summarize(s)
	assert.Equal(t, []string{"RIH3", "RIM3"}, sum.Tickers)
	assert.Equal(t, 2, sum.Days)
	assert.Equal(t, "2023-01-04", sum.Till.Format(time.DateOnly))
}

// benchSeries builds days*bars 1-minute bars starting 2023-01-02.
func benchSeries(b *testing.B, ticker string, days, bars int, vol string) *model.Series {
	rows := make([][3]string, 0, days*bars)
	start := time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC)
	for d := 0; d < days; d++ {
		for m := 0; m < bars; m++ {
			ts := start.AddDate(0, 0, d).Add(time.Duration(m) * time.Minute)
			rows = append(rows, [3]string{ticker, ts.Format("2006-01-02 15:04:05"), vol})
		}
	}
	return series(b, rows...)
}

// BenchmarkResolve merges two overlapping quarters of 1-minute bars.
func BenchmarkResolve(b *testing.B) {
	for _, days := range []int{20, 60} {
		a := benchSeries(b, "RIH3", days, 515, "3")
		c := benchSeries(b, "RIM3", days, 515, "4")
		b.Run(fmt.Sprintf("days=%d", days), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := Resolve(a, c, Options{}); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
