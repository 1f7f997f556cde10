package calculator

import (
	"errors"
	"etfreplica/internal/domain"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func holdings(reportDate domain.Date, symbols ...string) []domain.HoldingRecord {
	out := []domain.HoldingRecord{}
	for _, s := range symbols {
		out = append(out, domain.HoldingRecord{Symbol: s, ReportDate: reportDate})
	}
	return out
}

func concat(records ...[]domain.HoldingRecord) []domain.HoldingRecord {
	out := []domain.HoldingRecord{}
	for _, r := range records {
		out = append(out, r...)
	}
	return out
}

func TestSegmentPeriods(t *testing.T) {
	asOf := domain.Date("20251018")

	t.Run("single report after start covers the whole range", func(t *testing.T) {
		periods, err := SegmentPeriods(SegmentPeriodsInput{
			Records: holdings("20240630", "600519", "000858"),
			Start:   "20240101",
			End:     "20241231",
			AsOf:    asOf,
		})
		require.NoError(t, err)

		require.Equal(
			t,
			"",
			cmp.Diff(
				[]domain.ReportingPeriod{
					{
						ReportDate:  "20240630",
						ActiveStart: "20240101",
						ActiveEnd:   "20241231",
						Symbols:     []string{"600519.SH", "000858.SZ"},
					},
				},
				periods,
			),
		)
	})

	t.Run("report in force at start plus later report", func(t *testing.T) {
		periods, err := SegmentPeriods(SegmentPeriodsInput{
			Records: concat(
				holdings("20231231", "600036", "601398"),
				holdings("20240630", "600036", "600900"),
			),
			Start: "20240301",
			End:   "20240901",
			AsOf:  asOf,
		})
		require.NoError(t, err)

		require.Equal(
			t,
			"",
			cmp.Diff(
				[]domain.ReportingPeriod{
					{
						ReportDate:  "20231231",
						ActiveStart: "20240301",
						ActiveEnd:   "20240629",
						Symbols:     []string{"600036.SH", "601398.SH"},
					},
					{
						ReportDate:  "20240630",
						ActiveStart: "20240630",
						ActiveEnd:   "20240901",
						Symbols:     []string{"600036.SH", "600900.SH"},
					},
				},
				periods,
			),
		)
	})

	t.Run("only the last report before start is kept", func(t *testing.T) {
		periods, err := SegmentPeriods(SegmentPeriodsInput{
			Records: concat(
				holdings("20221231", "600000"),
				holdings("20230630", "600001"),
				holdings("20231231", "600002"),
				holdings("20240630", "600003"),
				holdings("20241231", "600004"),
			),
			Start: "20240101",
			End:   "20241130",
			AsOf:  asOf,
		})
		require.NoError(t, err)

		require.Len(t, periods, 2)
		require.Equal(t, domain.Date("20231231"), periods[0].ReportDate)
		require.Equal(t, domain.Date("20240101"), periods[0].ActiveStart)
		require.Equal(t, domain.Date("20240629"), periods[0].ActiveEnd)
		require.Equal(t, domain.Date("20240630"), periods[1].ReportDate)
		require.Equal(t, domain.Date("20241130"), periods[1].ActiveEnd)
	})

	t.Run("report dated on start is the anchor", func(t *testing.T) {
		periods, err := SegmentPeriods(SegmentPeriodsInput{
			Records: concat(
				holdings("20231231", "600000"),
				holdings("20240630", "600001"),
			),
			Start: "20240630",
			End:   "20240930",
			AsOf:  asOf,
		})
		require.NoError(t, err)

		require.Len(t, periods, 1)
		require.Equal(t, domain.Date("20240630"), periods[0].ReportDate)
		require.Equal(t, domain.Date("20240630"), periods[0].ActiveStart)
		require.Equal(t, domain.Date("20240930"), periods[0].ActiveEnd)
	})

	t.Run("immature reports are ignored", func(t *testing.T) {
		periods, err := SegmentPeriods(SegmentPeriodsInput{
			Records: concat(
				holdings("20231231", "600000"),
				holdings("20240630", "600001"),
			),
			Start: "20240101",
			End:   "20241231",
			AsOf:  "20241029",
		})
		require.NoError(t, err)

		require.Len(t, periods, 1)
		require.Equal(t, domain.Date("20231231"), periods[0].ReportDate)
		require.Equal(t, domain.Date("20241231"), periods[0].ActiveEnd)
	})

	t.Run("quarterly reports are skipped when a half year report exists", func(t *testing.T) {
		periods, err := SegmentPeriods(SegmentPeriodsInput{
			Records: concat(
				holdings("20240331", "600000"),
				holdings("20240630", "600001"),
				holdings("20240930", "600002"),
			),
			Start: "20240401",
			End:   "20241231",
			AsOf:  asOf,
		})
		require.NoError(t, err)

		require.Len(t, periods, 1)
		require.Equal(t, domain.Date("20240630"), periods[0].ReportDate)
		require.Equal(t, domain.Date("20240401"), periods[0].ActiveStart)
	})

	t.Run("falls back to quarterly reports", func(t *testing.T) {
		periods, err := SegmentPeriods(SegmentPeriodsInput{
			Records: concat(
				holdings("20240331", "600000"),
				holdings("20240930", "600002"),
			),
			Start: "20240401",
			End:   "20241231",
			AsOf:  asOf,
		})
		require.NoError(t, err)

		require.Len(t, periods, 2)
		require.Equal(t, domain.Date("20240331"), periods[0].ReportDate)
		require.Equal(t, domain.Date("20240929"), periods[0].ActiveEnd)
		require.Equal(t, domain.Date("20240930"), periods[1].ActiveStart)
	})

	t.Run("symbols are normalized and deduplicated", func(t *testing.T) {
		periods, err := SegmentPeriods(SegmentPeriodsInput{
			Records: holdings("20240630", "600519", "1", "600519", "000001.sz", "", "N/A", "300750"),
			Start:   "20240701",
			End:     "20240801",
			AsOf:    asOf,
		})
		require.NoError(t, err)

		require.Equal(t, []string{"600519.SH", "000001.SZ", "300750.SZ"}, periods[0].Symbols)
	})

	t.Run("no mature report before end", func(t *testing.T) {
		_, err := SegmentPeriods(SegmentPeriodsInput{
			Records: holdings("20250630", "600000"),
			Start:   "20240101",
			End:     "20241231",
			AsOf:    asOf,
		})
		require.Error(t, err)

		var noPeriodErr *domain.NoReportingPeriodError
		require.True(t, errors.As(err, &noPeriodErr))
	})

	t.Run("no records", func(t *testing.T) {
		_, err := SegmentPeriods(SegmentPeriodsInput{
			Start: "20240101",
			End:   "20241231",
			AsOf:  asOf,
		})

		var noPeriodErr *domain.NoReportingPeriodError
		require.True(t, errors.As(err, &noPeriodErr))
	})

	t.Run("start after end", func(t *testing.T) {
		_, err := SegmentPeriods(SegmentPeriodsInput{
			Records: holdings("20231231", "600000"),
			Start:   "20241231",
			End:     "20240101",
			AsOf:    asOf,
		})

		var dateErr *domain.InvalidDateError
		require.True(t, errors.As(err, &dateErr))
	})

	t.Run("periods are contiguous", func(t *testing.T) {
		periods, err := SegmentPeriods(SegmentPeriodsInput{
			Records: concat(
				holdings("20211231", "600000"),
				holdings("20220630", "600001"),
				holdings("20221231", "600002"),
				holdings("20230630", "600003"),
			),
			Start: "20220101",
			End:   "20231010",
			AsOf:  asOf,
		})
		require.NoError(t, err)
		require.Len(t, periods, 4)

		require.Equal(t, domain.Date("20220101"), periods[0].ActiveStart)
		for i := 1; i < len(periods); i++ {
			require.Equal(t, periods[i].ActiveStart.AddDays(-1), periods[i-1].ActiveEnd)
		}
		require.Equal(t, domain.Date("20231010"), periods[len(periods)-1].ActiveEnd)
	})
}

func TestIsMature(t *testing.T) {
	require.True(t, IsMature("20240630", "20241030"))
	require.True(t, IsMature("20240630", "20250101"))
	require.False(t, IsMature("20240630", "20241029"))
}

func TestLatestReportDate(t *testing.T) {
	records := concat(
		holdings("20231231", "600000"),
		holdings("20240630", "600001"),
		holdings("20240930", "600002"),
	)

	t.Run("prefers latest fixed point", func(t *testing.T) {
		d, ok := LatestReportDate(records, "20241231", "20251018")
		require.True(t, ok)
		require.Equal(t, domain.Date("20240630"), d)
	})

	t.Run("respects end", func(t *testing.T) {
		d, ok := LatestReportDate(records, "20240601", "20251018")
		require.True(t, ok)
		require.Equal(t, domain.Date("20231231"), d)
	})

	t.Run("nothing mature", func(t *testing.T) {
		_, ok := LatestReportDate(records, "20241231", "20240101")
		require.False(t, ok)
	})
}

func TestNormalizeSymbol(t *testing.T) {
	cases := map[string]string{
		"600519":    "600519.SH",
		"688981":    "688981.SH",
		"900901":    "900901.SH",
		"000001":    "000001.SZ",
		"1":         "000001.SZ",
		"2594":      "002594.SZ",
		"300750":    "300750.SZ",
		"200002":    "200002.SZ",
		"430047":    "430047.BJ",
		"832000":    "832000.BJ",
		"920001":    "920001.BJ",
		"510300":    "510300.SZ",
		"600519.SH": "600519.SH",
		"000001.sz": "000001.SZ",
		"1.sz":      "000001.SZ",
		"2594.SZ":   "002594.SZ",
		"510300.sh": "510300.SH",
		" 601398 ":  "601398.SH",
	}
	for raw, want := range cases {
		got, ok := NormalizeSymbol(raw)
		require.True(t, ok, raw)
		require.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "abc", ".SH", "600519.", "-1", "+1", "1234567", "ABC.XX", "600519.XX", "abc.SH", "1234567.SZ"} {
		_, ok := NormalizeSymbol(raw)
		require.False(t, ok, raw)
	}

	t.Run("qualified and bare forms agree", func(t *testing.T) {
		bare, ok := NormalizeSymbol("1")
		require.True(t, ok)
		qualified, ok := NormalizeSymbol("1.sz")
		require.True(t, ok)
		require.Equal(t, bare, qualified)
	})
}
