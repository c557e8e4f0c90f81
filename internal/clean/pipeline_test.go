package clean

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quik-bars/internal/model"
	"quik-bars/internal/session"
)

var quiet = slog.New(slog.DiscardHandler)

func rawTable(rows ...[]string) *model.Table {
	return &model.Table{
		Columns: []string{"<TICKER>", "<PER>", "<DATE>", "<TIME>", "<OPEN>", "<HIGH>", "<LOW>", "<CLOSE>", "<VOL>"},
		Rows:    rows,
	}
}

func row(date, clock, vol string) []string {
	return []string{"SPFB.RTS-3.23", "5", date, clock, "100.5", "101", "99.5", "100", vol}
}

func TestNormalizeColumns(t *testing.T) {
	tbl := rawTable()
	NormalizeColumns(tbl)
	assert.Equal(t, []string{"ticker", "per", "date", "time", "open", "high", "low", "close", "vol"}, tbl.Columns)
}

func TestUniquePeriod(t *testing.T) {
	tbl := &model.Table{Columns: []string{"per"}, Rows: [][]string{{"5"}, {"5"}}}
	p, err := UniquePeriod(tbl)
	require.NoError(t, err)
	assert.Equal(t, model.Period("5"), p)

	tbl.Rows = append(tbl.Rows, []string{"1"})
	_, err = UniquePeriod(tbl)
	assert.ErrorIs(t, err, ErrNonUniquePeriod)

	_, err = UniquePeriod(&model.Table{Columns: []string{"ticker"}})
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestNormalizeTicker(t *testing.T) {
	tests := map[string]string{
		"SPFB.RTS-3.23":  "RTS-3.23",
		"SPBFUT.RIH3":    "RIH3",
		"RIH3 [SPBFUT] ": "RIH3",
		" spfb.Si-6.23":  "Si-6.23",
		"SBER":           "SBER",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeTicker(in), in)
	}
}

func TestBuildTimestamps(t *testing.T) {
	t.Run("date and time", func(t *testing.T) {
		tbl := rawTable(row("20230103", "95900", "10"), row("20230103", "100000", "20"))
		NormalizeColumns(tbl)
		s, err := BuildTimestamps(tbl)
		require.NoError(t, err)
		require.Len(t, s.Bars, 2)
		assert.Equal(t, "datetime", s.Columns[len(s.Columns)-1])
		assert.Equal(t, time.Date(2023, 1, 3, 9, 59, 0, 0, time.UTC), s.Bars[0].Time)
		assert.Equal(t, "2023-01-03 10:00:00", s.Cell(s.Bars[1], model.ColDatetime))
	})

	t.Run("combined column stays in place", func(t *testing.T) {
		tbl := &model.Table{
			Columns: []string{"ticker", "datetime", "vol"},
			Rows:    [][]string{{"RI", "2023-01-03T10:05:00", "1"}},
		}
		s, err := BuildTimestamps(tbl)
		require.NoError(t, err)
		assert.Equal(t, []string{"ticker", "datetime", "vol"}, s.Columns)
		assert.Equal(t, "2023-01-03 10:05:00", s.Bars[0].Cells[1])
	})

	t.Run("missing columns", func(t *testing.T) {
		_, err := BuildTimestamps(&model.Table{Columns: []string{"ticker", "date"}})
		assert.ErrorIs(t, err, ErrMissingTemporalColumns)
	})

	t.Run("unparseable", func(t *testing.T) {
		tbl := rawTable(row("2023x0103", "100000", "1"))
		NormalizeColumns(tbl)
		_, err := BuildTimestamps(tbl)
		assert.ErrorIs(t, err, ErrParse)
		assert.ErrorIs(t, err, model.ErrParseTime)
	})
}

func TestCoerceVolume(t *testing.T) {
	s := &model.Series{
		Columns: []string{"vol"},
		Bars:    []model.Bar{{Cells: []string{"100.0"}}, {Cells: []string{"7"}}},
	}
	require.NoError(t, CoerceVolume(s))
	assert.Equal(t, int64(100), s.Bars[0].Volume)
	assert.Equal(t, "100", s.Bars[0].Cells[0])

	s.Bars[1].Cells[0] = "7.5"
	assert.ErrorIs(t, CoerceVolume(s), model.ErrVolumeNotInteger)

	s.Bars[1].Cells[0] = "18446744073709551617"
	assert.ErrorIs(t, CoerceVolume(s), model.ErrVolumeNotInteger)
	assert.Equal(t, "18446744073709551617", s.Bars[1].Cells[0])
}

func TestDropDuplicates_KeepsFirst(t *testing.T) {
	tbl := rawTable(row("20230103", "100000", "10"), row("20230103", "100000", "99"))
	NormalizeColumns(tbl)
	s, err := BuildTimestamps(tbl)
	require.NoError(t, err)
	require.NoError(t, CoerceVolume(s))

	assert.Equal(t, 1, DropDuplicates(s))
	require.Len(t, s.Bars, 1)
	assert.Equal(t, int64(10), s.Bars[0].Volume)
}

func TestFilterDates(t *testing.T) {
	tbl := rawTable(
		row("20230102", "100000", "1"),
		row("20230103", "100000", "1"),
		row("20230104", "100000", "1"),
	)
	NormalizeColumns(tbl)
	s, err := BuildTimestamps(tbl)
	require.NoError(t, err)

	start := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, FilterDates(s, start, start))
	require.Len(t, s.Bars, 1)
	assert.Equal(t, start, s.Bars[0].Date())
}

func TestPipeline_Run(t *testing.T) {
	tbl := rawTable(
		row("20230103", "101000", "30"),
		row("20230103", "184000", "5"), // outside the session
		row("20230103", "100000", "10"),
		row("20230103", "100500", "20"),
		row("20230103", "100500", "21"),
	)
	res, err := New(Options{}, quiet).Run(tbl)
	require.NoError(t, err)

	s := res.Series
	assert.Equal(t, []string{"ticker", "per", "open", "high", "low", "close", "vol", "datetime"}, s.Columns)
	assert.Equal(t, model.Period("5"), s.Period)
	assert.Equal(t, []string{"RTS-3.23"}, res.TickersAfter)
	assert.Equal(t, 1, res.DroppedExtended)
	assert.Equal(t, 1, res.Duplicates)

	require.Len(t, s.Bars, 3)
	for i, b := range s.Bars {
		assert.True(t, session.DefaultWindow.Contains(session.ClockOf(b.Time)))
		if i > 0 {
			assert.True(t, s.Bars[i-1].Time.Before(b.Time))
		}
	}
	assert.Equal(t, []int64{10, 20, 30}, []int64{s.Bars[0].Volume, s.Bars[1].Volume, s.Bars[2].Volume})

	k, ok := s.KindOf(model.ColVolume)
	require.True(t, ok)
	assert.Equal(t, model.KindInt, k)
}

func TestPipeline_Options(t *testing.T) {
	tbl := rawTable(
		row("20230103", "184000", "5"),
		row("20230104", "100000", "10"),
	)
	res, err := New(Options{
		KeepDateTime:  true,
		ExtendedHours: true,
		EndDate:       time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
	}, quiet).Run(tbl)
	require.NoError(t, err)

	s := res.Series
	assert.True(t, s.Has("date"))
	assert.True(t, s.Has("time"))
	assert.Equal(t, 1, res.DroppedByDate)
	require.Len(t, s.Bars, 1)
	assert.Equal(t, "2023-01-03 18:40:00", s.Cell(s.Bars[0], model.ColDatetime))
}

func TestPipeline_Idempotent(t *testing.T) {
	tbl := rawTable(
		row("20230103", "100500", "20"),
		row("20230103", "100000", "10"),
	)
	first, err := New(Options{}, quiet).Run(tbl)
	require.NoError(t, err)
	once := first.Series.Table()

	again := &model.Table{Columns: append([]string(nil), once.Columns...)}
	for _, r := range once.Rows {
		again.Rows = append(again.Rows, append([]string(nil), r...))
	}
	second, err := New(Options{}, quiet).Run(again)
	require.NoError(t, err)

	assert.Equal(t, once, second.Series.Table())
}

func TestPipeline_Errors(t *testing.T) {
	mixed := rawTable(row("20230103", "100000", "1"), row("20230103", "100500", "1"))
	mixed.Rows[1][1] = "1"
	_, err := New(Options{}, quiet).Run(mixed)
	assert.ErrorIs(t, err, ErrNonUniquePeriod)

	noTime := &model.Table{Columns: []string{"<TICKER>", "<PER>", "<DATE>"}, Rows: [][]string{{"RI", "5", "20230103"}}}
	_, err = New(Options{}, quiet).Run(noTime)
	assert.ErrorIs(t, err, ErrMissingTemporalColumns)
}
