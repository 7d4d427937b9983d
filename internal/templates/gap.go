package templates

import (
	"sort"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/timeutil"
)

type block struct{ start, end int }

// LargestGap returns the longest free stretch, in minutes, of one
// representative week starting on weekStart. It is the max of the gap before
// the first block, the gaps between consecutive blocks and the gap after the
// last block. Blocks that run past the end of the week wrap to its start.
// With no templates the whole week is free.
func LargestGap(tpls []domain.EventTemplate, weekStart time.Weekday) (int, error) {
	free, err := freeGaps(tpls, weekStart)
	if err != nil {
		return 0, err
	}
	largest := 0
	for _, g := range free {
		largest = max(largest, g.end-g.start)
	}
	return largest, nil
}

// LargestDailyGap is LargestGap with every free stretch cut at midnight:
// the longest piece a single placement can use, since placements never
// cross a day boundary.
func LargestDailyGap(tpls []domain.EventTemplate, weekStart time.Weekday) (int, error) {
	free, err := freeGaps(tpls, weekStart)
	if err != nil {
		return 0, err
	}
	largest := 0
	for _, g := range free {
		for start := g.start; start < g.end; {
			end := min(g.end, (start/domain.MinutesPerDay+1)*domain.MinutesPerDay)
			largest = max(largest, end-start)
			start = end
		}
	}
	return largest, nil
}

// freeGaps returns the free stretches of the week in order, as minute
// offsets from the week start.
func freeGaps(tpls []domain.EventTemplate, weekStart time.Weekday) ([]block, error) {
	var blocks []block
	for _, t := range tpls {
		clock, err := timeutil.ClockMinutes(t.StartTime)
		if err != nil {
			return nil, err
		}
		dur := min(t.Duration, domain.MinutesPerWeek)
		if dur <= 0 {
			continue
		}
		offset := ((int(t.StartDay)-int(weekStart)+7)%7)*domain.MinutesPerDay + clock
		end := offset + dur
		if end > domain.MinutesPerWeek {
			blocks = append(blocks, block{offset, domain.MinutesPerWeek}, block{0, end - domain.MinutesPerWeek})
			continue
		}
		blocks = append(blocks, block{offset, end})
	}
	if len(blocks) == 0 {
		return []block{{0, domain.MinutesPerWeek}}, nil
	}

	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].start != blocks[j].start {
			return blocks[i].start < blocks[j].start
		}
		return blocks[i].end < blocks[j].end
	})
	merged := []block{blocks[0]}
	for _, b := range blocks[1:] {
		last := &merged[len(merged)-1]
		if b.start <= last.end {
			last.end = max(last.end, b.end)
			continue
		}
		merged = append(merged, b)
	}

	var free []block
	cursor := 0
	for _, b := range merged {
		if b.start > cursor {
			free = append(free, block{cursor, b.start})
		}
		cursor = b.end
	}
	if cursor < domain.MinutesPerWeek {
		free = append(free, block{cursor, domain.MinutesPerWeek})
	}
	return free, nil
}
