package templates

import (
	"testing"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLargestGap(t *testing.T) {
	tests := []struct {
		name      string
		tpls      []domain.EventTemplate
		weekStart time.Weekday
		want      int
	}{
		{
			name:      "no templates",
			weekStart: time.Monday,
			want:      domain.MinutesPerWeek,
		},
		{
			name:      "daily sleep",
			tpls:      dailySleep(),
			weekStart: time.Monday,
			want:      18 * 60,
		},
		{
			name: "gap before first block",
			tpls: []domain.EventTemplate{
				{StartDay: time.Wednesday, StartTime: "00:00", Duration: 5 * domain.MinutesPerDay},
			},
			weekStart: time.Monday,
			want:      2 * domain.MinutesPerDay,
		},
		{
			name: "gap after last block",
			tpls: []domain.EventTemplate{
				{StartDay: time.Monday, StartTime: "00:00", Duration: 60},
			},
			weekStart: time.Monday,
			want:      domain.MinutesPerWeek - 60,
		},
		{
			name: "overlapping blocks merge",
			tpls: []domain.EventTemplate{
				{StartDay: time.Monday, StartTime: "00:00", Duration: 3 * domain.MinutesPerDay},
				{StartDay: time.Tuesday, StartTime: "00:00", Duration: 3 * domain.MinutesPerDay},
			},
			weekStart: time.Monday,
			want:      3 * domain.MinutesPerDay,
		},
		{
			name: "block past week end wraps",
			tpls: []domain.EventTemplate{
				{StartDay: time.Sunday, StartTime: "12:00", Duration: 24 * 60},
			},
			weekStart: time.Monday,
			// Sunday 12:00 -> Monday 12:00 wraps to [0, 720); free Monday 12:00 .. Sunday 12:00.
			want: domain.MinutesPerWeek - 24*60,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LargestGap(tc.tpls, tc.weekStart)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLargestGap_OneNinetyMinuteHole(t *testing.T) {
	// Whole week occupied except Wednesday 10:00-11:30.
	tpls := []domain.EventTemplate{
		{StartDay: time.Monday, StartTime: "00:00", Duration: 2*domain.MinutesPerDay + 600},
		{StartDay: time.Wednesday, StartTime: "11:30", Duration: domain.MinutesPerWeek - (2*domain.MinutesPerDay + 690)},
	}
	got, err := LargestGap(tpls, time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 90, got)
}

func TestLargestGap_BadTime(t *testing.T) {
	_, err := LargestGap([]domain.EventTemplate{{StartDay: time.Monday, StartTime: "25:00", Duration: 10}}, time.Monday)
	assert.Error(t, err)
}

func TestLargestDailyGap(t *testing.T) {
	tests := []struct {
		name string
		tpls []domain.EventTemplate
		want int
	}{
		{name: "no templates", want: domain.MinutesPerDay},
		{name: "daily sleep", tpls: dailySleep(), want: 18 * 60},
		{
			// Free 22:00-02:00 every night: 240 across midnight, 120 per day.
			name: "free stretch crosses midnight",
			tpls: dailyBlock("02:00", 20*60),
			want: 120,
		},
		{
			name: "uneven split at midnight",
			tpls: dailyBlock("03:00", 20*60),
			want: 180,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := LargestDailyGap(tc.tpls, time.Monday)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	gap, err := LargestGap(dailyBlock("02:00", 20*60), time.Monday)
	require.NoError(t, err)
	assert.Equal(t, 240, gap)
}

func dailyBlock(start string, duration int) []domain.EventTemplate {
	var out []domain.EventTemplate
	for d := time.Sunday; d <= time.Saturday; d++ {
		out = append(out, domain.EventTemplate{StartDay: d, StartTime: start, Duration: duration})
	}
	return out
}
