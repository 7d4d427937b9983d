package slots

import (
	"sort"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/timeutil"
)

// DefaultMaxDaysToSearch bounds fit searches when the caller gives no horizon.
const DefaultMaxDaysToSearch = 90

type ManagerConfig struct {
	BufferMinutes   int
	MaxDaysToSearch int
	Location        *time.Location
}

type ManagerStats struct {
	SlotsBuilt int
	Searches   int
	Reserved   int
}

// Manager keeps per-day available and occupied slots for one generation run.
// It is not safe for concurrent use; each run builds its own.
type Manager struct {
	cfg       ManagerConfig
	available map[string][]domain.TimeSlot
	occupied  map[string][]domain.TimeSlot
	stats     ManagerStats
}

func NewManager(cfg ManagerConfig) *Manager {
	if cfg.MaxDaysToSearch <= 0 {
		cfg.MaxDaysToSearch = DefaultMaxDaysToSearch
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.BufferMinutes < 0 {
		cfg.BufferMinutes = 0
	}
	return &Manager{
		cfg:       cfg,
		available: make(map[string][]domain.TimeSlot),
		occupied:  make(map[string][]domain.TimeSlot),
	}
}

// BufferMinutes returns the configured buffer.
func (m *Manager) BufferMinutes() int {
	return m.cfg.BufferMinutes
}

// BuildDailySlots (re)builds numDays days starting at the day of start.
// Days outside the range keep their cached slots.
func (m *Manager) BuildDailySlots(start time.Time, numDays int, events []domain.SimpleEvent) {
	first := timeutil.StartOfDay(start.In(m.cfg.Location))
	for d := 0; d < numDays; d++ {
		day := timeutil.AddDays(first, d)
		rng := Interval{Start: day, End: timeutil.AddDays(day, 1)}

		var dayEvents []domain.SimpleEvent
		var occupied []domain.TimeSlot
		for _, e := range events {
			iv, ok := Interval{Start: e.Start, End: e.End}.Clip(rng)
			if !ok {
				continue
			}
			dayEvents = append(dayEvents, e)
			occ := domain.NewTimeSlot(iv.Start, iv.End)
			occ.IsAvailable = false
			occ.OccupyingEventID = e.ID
			occ.OccupyingEventType = e.ExtendedProps.ItemType
			occupied = append(occupied, occ)
		}
		sort.SliceStable(occupied, func(a, b int) bool {
			return occupied[a].Start.Before(occupied[b].Start)
		})

		key := timeutil.DayKey(day)
		m.available[key] = BuildAvailableSlots(rng, dayEvents)
		m.occupied[key] = occupied
		m.stats.SlotsBuilt += len(m.available[key])
	}
}

// RebuildWeek narrowly rebuilds the seven days starting at weekStart.
func (m *Manager) RebuildWeek(weekStart time.Time, events []domain.SimpleEvent) {
	m.BuildDailySlots(weekStart, 7, events)
}

// HasDay reports whether slots were built for the day containing t.
func (m *Manager) HasDay(t time.Time) bool {
	_, ok := m.available[timeutil.DayKey(t.In(m.cfg.Location))]
	return ok
}

// AvailableSlots returns a copy of the free slots of the day containing t.
func (m *Manager) AvailableSlots(t time.Time) []domain.TimeSlot {
	return cloneSlots(m.available[timeutil.DayKey(t.In(m.cfg.Location))])
}

// OccupiedSlots returns a copy of the occupied slots of the day containing t.
func (m *Manager) OccupiedSlots(t time.Time) []domain.TimeSlot {
	return cloneSlots(m.occupied[timeutil.DayKey(t.In(m.cfg.Location))])
}

// FindFirstFit returns the earliest slot that can hold duration minutes plus
// the buffer on both sides.
func (m *Manager) FindFirstFit(duration int, after time.Time) (domain.TimeSlot, bool) {
	until := timeutil.AddDays(timeutil.StartOfDay(after.In(m.cfg.Location)), m.cfg.MaxDaysToSearch)
	found := m.search(duration, after, until, true)
	if len(found) == 0 {
		return domain.TimeSlot{}, false
	}
	return found[0], true
}

// FindAllFittingSlots returns every fitting slot from after, walking at most
// maxDays days. maxDays <= 0 uses the configured horizon.
func (m *Manager) FindAllFittingSlots(duration int, after time.Time, maxDays int) []domain.TimeSlot {
	if maxDays <= 0 {
		maxDays = m.cfg.MaxDaysToSearch
	}
	until := timeutil.AddDays(timeutil.StartOfDay(after.In(m.cfg.Location)), maxDays)
	return m.search(duration, after, until, false)
}

// FindFittingSlotsBetween is FindAllFittingSlots bounded by an instant
// instead of a day count. Slots are clipped to until.
func (m *Manager) FindFittingSlotsBetween(duration int, after, until time.Time) []domain.TimeSlot {
	return m.search(duration, after, until, false)
}

func (m *Manager) search(duration int, after, until time.Time, firstOnly bool) []domain.TimeSlot {
	m.stats.Searches++
	after = timeutil.CeilMinute(after.In(m.cfg.Location))
	until = until.In(m.cfg.Location)
	need := duration + 2*m.cfg.BufferMinutes

	var found []domain.TimeSlot
	for day := timeutil.StartOfDay(after); day.Before(until); day = timeutil.AddDays(day, 1) {
		for _, s := range m.available[timeutil.DayKey(day)] {
			iv, ok := Interval{Start: s.Start, End: s.End}.Clip(Interval{Start: after, End: until})
			if !ok {
				continue
			}
			// Slot edges inherit the seconds of the events around them.
			iv.Start = timeutil.CeilMinute(iv.Start)
			if !iv.End.After(iv.Start) || iv.Minutes() < need {
				continue
			}
			found = append(found, domain.NewTimeSlot(iv.Start, iv.End))
			if firstOnly {
				return found
			}
		}
	}
	return found
}

// ReserveSlot marks [start, end) as occupied. It returns false when no single
// available slot contains the range.
func (m *Manager) ReserveSlot(start, end time.Time, eventID string, eventType domain.EventType) bool {
	if !end.After(start) {
		return false
	}
	key := timeutil.DayKey(start.In(m.cfg.Location))
	day := m.available[key]
	for i, s := range day {
		if !s.IsAvailable || !s.Contains(start, end) {
			continue
		}
		pieces := SplitSlot(s, start, end, eventID, eventType)

		replaced := make([]domain.TimeSlot, 0, len(day)+1)
		replaced = append(replaced, day[:i]...)
		for _, p := range pieces {
			if p.IsAvailable {
				replaced = append(replaced, p)
			} else {
				m.occupied[key] = insertSorted(m.occupied[key], p)
			}
		}
		replaced = append(replaced, day[i+1:]...)
		m.available[key] = replaced
		m.stats.Reserved++
		return true
	}
	return false
}

// Stats returns the run counters.
func (m *Manager) Stats() ManagerStats {
	return m.stats
}

func insertSorted(list []domain.TimeSlot, s domain.TimeSlot) []domain.TimeSlot {
	i := sort.Search(len(list), func(i int) bool { return list[i].Start.After(s.Start) })
	list = append(list, domain.TimeSlot{})
	copy(list[i+1:], list[i:])
	list[i] = s
	return list
}

func cloneSlots(in []domain.TimeSlot) []domain.TimeSlot {
	if in == nil {
		return nil
	}
	out := make([]domain.TimeSlot, len(in))
	copy(out, in)
	return out
}
