// Package generator orchestrates one calendar generation run: validation,
// seeding of fixed and historical events, template expansion, slot building,
// candidate ordering and the week-by-week scheduling loop.
package generator

import (
	"sort"
	"time"

	"github.com/alexanderramin/timeweave/internal/domain"
	"github.com/alexanderramin/timeweave/internal/goaltree"
	"github.com/alexanderramin/timeweave/internal/scheduler"
	"github.com/alexanderramin/timeweave/internal/slots"
	"github.com/alexanderramin/timeweave/internal/templates"
	"github.com/alexanderramin/timeweave/internal/timeutil"
	"github.com/rs/zerolog"
)

type Options struct {
	// Now is the generation instant. Defaults to time.Now.
	Now    func() time.Time
	Logger zerolog.Logger
}

// Generator is stateless between runs; every Generate call builds its own
// slot maps, candidate list and metrics, so one Generator may serve
// concurrent callers.
type Generator struct {
	base   domain.Config
	now    func() time.Time
	logger zerolog.Logger
}

func New(cfg domain.Config, opts Options) *Generator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Generator{base: cfg, now: opts.Now, logger: opts.Logger}
}

// Generate computes the calendar for in. Business failures are reported in
// the result; it never returns an error.
func (g *Generator) Generate(in domain.CalendarGenerationInput) domain.SchedulingResult {
	began := time.Now()

	cfg, err := g.base.Merge(in.Config)
	if err != nil {
		return aborted(domain.FailureInvalidTask, "invalid config: "+err.Error(), began)
	}
	cfg = cfg.Normalized()

	log := zerolog.Nop()
	if cfg.EnableLogging {
		log = g.logger.With().Str("user", in.UserID).Logger()
	}

	v, err := validate(in)
	if err != nil {
		log.Warn().Err(err).Msg("input rejected")
		res := aborted(domain.FailureInvalidTask, err.Error(), began)
		res.Metrics.Warnings = v.warnings
		return res
	}
	for _, w := range v.warnings {
		log.Warn().Msg(w)
	}

	r := newRun(cfg, g.now().In(cfg.Location), in.WeekStart(), log)
	r.metrics.Warnings = v.warnings
	if err := r.prepare(v, in.Templates); err != nil {
		log.Error().Err(err).Msg("template expansion failed")
		res := aborted(domain.FailureTemplateError, err.Error(), began)
		res.Metrics.Warnings = v.warnings
		return res
	}
	r.loop()
	return r.result(began)
}

// run holds the mutable state of one Generate call.
type run struct {
	cfg       domain.Config
	now       time.Time
	weekStart time.Weekday
	anchor    time.Time
	log       zerolog.Logger

	tree      *goaltree.Tree
	tpls      []domain.EventTemplate
	expander  *templates.Expander
	slots     *slots.Manager
	scheduler *scheduler.Scheduler
	ceiling   int

	fixed     []domain.SimpleEvent
	recurring []domain.SimpleEvent
	scheduled []domain.SimpleEvent
	eventIDs  map[string]bool
	placed    map[string]bool
	skipped   map[string]bool
	chainEnd  map[string]time.Time

	pending  []scheduler.Candidate
	failures []domain.SchedulingFailure
	metrics  domain.SchedulingMetrics
}

func newRun(cfg domain.Config, now time.Time, weekStart time.Weekday, log zerolog.Logger) *run {
	return &run{
		cfg:       cfg,
		now:       now,
		weekStart: weekStart,
		anchor:    timeutil.StartOfWeek(now, weekStart),
		log:       log,
		eventIDs:  make(map[string]bool),
		placed:    make(map[string]bool),
		skipped:   make(map[string]bool),
		chainEnd:  make(map[string]time.Time),
	}
}

// prepare runs every phase before the scheduling loop.
func (r *run) prepare(v validated, tpls []domain.EventTemplate) error {
	r.tree = goaltree.New(v.planners)
	r.tpls = tpls

	r.seed(v.planners, v.previous)
	r.log.Info().
		Int("frozen", r.metrics.FrozenEvents).
		Int("fixed", r.metrics.FixedEvents).
		Msg("seeded fixed events")

	if err := r.expand(); err != nil {
		return err
	}
	r.log.Info().
		Int("templates", len(r.recurring)).
		Int("largest_gap", r.metrics.LargestGapMinutes).
		Msg("expanded templates")

	if err := r.buildSlots(); err != nil {
		return err
	}

	strategy, err := scheduler.NewCompositeFromConfig(r.cfg)
	if err != nil {
		return err
	}
	r.scheduler = scheduler.New(r.slots, strategy, scheduler.Options{
		Now:             r.now,
		MaxDaysToSearch: r.cfg.MaxDaysAhead,
		Location:        r.cfg.Location,
	})

	r.sortCandidates(v.planners)
	r.log.Info().Int("candidates", len(r.pending)).Strs("strategies", strategy.Names()).Msg("sorted candidates")
	return nil
}

func (r *run) expand() error {
	r.expander = templates.NewExpander(r.weekStart, r.cfg.Location)
	recurring, err := r.expander.RecurringEvents(r.tpls, r.anchor)
	if err != nil {
		return err
	}
	r.recurring = recurring

	gap, err := templates.LargestGap(r.tpls, r.weekStart)
	if err != nil {
		return err
	}
	r.metrics.LargestGapMinutes = gap
	r.ceiling, err = templates.LargestDailyGap(r.tpls, r.weekStart)
	if err != nil {
		return err
	}
	return nil
}

// buildSlots builds availability for MaxDaysAhead days from today.
func (r *run) buildSlots() error {
	r.slots = slots.NewManager(slots.ManagerConfig{
		BufferMinutes:   r.cfg.BufferTimeMinutes,
		MaxDaysToSearch: r.cfg.MaxDaysAhead,
		Location:        r.cfg.Location,
	})
	// Week 0 is never rebuilt by the loop, so cover it fully even when the
	// horizon is shorter than the rest of the week.
	from := timeutil.StartOfDay(r.now)
	days := r.cfg.MaxDaysAhead
	for timeutil.AddDays(from, days).Before(timeutil.AddDays(r.anchor, 7)) {
		days++
	}
	occupancy, err := r.occupancy(from, timeutil.AddDays(from, days))
	if err != nil {
		return err
	}
	r.slots.BuildDailySlots(from, days, occupancy)
	return nil
}

// occupancy returns every event that blocks time inside [from, to): seeded
// events, scheduled events and the template masks of the window.
func (r *run) occupancy(from, to time.Time) ([]domain.SimpleEvent, error) {
	masks, err := r.expander.WindowEvents(r.tpls, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SimpleEvent, 0, len(r.fixed)+len(r.scheduled)+len(masks))
	out = append(out, r.fixed...)
	out = append(out, r.scheduled...)
	return append(out, masks...), nil
}

func (r *run) sortCandidates(planners []domain.PlannerItem) {
	var items []domain.PlannerItem
	for _, p := range planners {
		switch {
		case p.ItemType == domain.ItemTask && p.ParentID == nil:
			if p.IsCompleted() || r.placed[p.ID] {
				continue
			}
		case p.IsGoalRoot() && p.IsReady:
			if r.tree.IsCompleted(p.ID) || len(r.pendingLeaves(p.ID)) == 0 {
				continue
			}
		default:
			continue
		}
		items = append(items, p)
	}
	r.pending = scheduler.RankCandidates(items, r.now, scheduler.TotalEstimatedMinutes(planners))
	r.metrics.TotalCandidates = len(r.pending)
}

func (r *run) addEvent(list *[]domain.SimpleEvent, e domain.SimpleEvent) bool {
	if r.eventIDs[e.ID] {
		return false
	}
	r.eventIDs[e.ID] = true
	*list = append(*list, e)
	return true
}

func (r *run) fail(item domain.PlannerItem, reason domain.FailureReason, details string) {
	r.addFailure(domain.SchedulingFailure{TaskID: item.ID, TaskTitle: item.Title, Reason: reason, Details: details})
}

func (r *run) addFailure(f domain.SchedulingFailure) {
	r.failures = append(r.failures, f)
	r.log.Debug().Str("item", f.TaskID).Str("reason", string(f.Reason)).Msg(f.Details)
}

func (r *run) result(began time.Time) domain.SchedulingResult {
	events := make([]domain.SimpleEvent, 0, len(r.fixed)+len(r.recurring)+len(r.scheduled))
	events = append(events, r.fixed...)
	events = append(events, r.recurring...)
	events = append(events, r.scheduled...)
	sortEvents(events)

	st := r.scheduler.Stats()
	ss := r.slots.Stats()
	r.metrics.ScheduledTasks = len(r.scheduled)
	r.metrics.FailedTasks = len(r.failures)
	r.metrics.TemplateEvents = len(r.recurring)
	r.metrics.SlotSearches = ss.Searches
	r.metrics.SlotsBuilt = ss.SlotsBuilt
	r.metrics.AverageScheduleTimeMs = float64(st.AverageLatency()) / float64(time.Millisecond)
	r.metrics.TotalDuration = time.Since(began)

	r.log.Info().
		Int("scheduled", r.metrics.ScheduledTasks).
		Int("failed", r.metrics.FailedTasks).
		Int("weeks", r.metrics.WeeksSearched).
		Dur("took", r.metrics.TotalDuration).
		Msg("generation finished")

	return domain.SchedulingResult{
		Success:  len(r.failures) == 0,
		Events:   events,
		Failures: r.failures,
		Metrics:  r.metrics,
	}
}

func sortEvents(events []domain.SimpleEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].ID < events[j].ID
	})
}

// InputFailureID is the TaskID of the single failure an aborted run reports.
const InputFailureID = "input"

// Aborted reports whether res came from a run that stopped before
// scheduling: the input or its templates were rejected and no calendar was
// produced.
func Aborted(res domain.SchedulingResult) bool {
	return len(res.Failures) == 1 && res.Failures[0].TaskID == InputFailureID && len(res.Events) == 0
}

func aborted(reason domain.FailureReason, details string, began time.Time) domain.SchedulingResult {
	return domain.SchedulingResult{
		Success: false,
		Events:  []domain.SimpleEvent{},
		Failures: []domain.SchedulingFailure{{
			TaskID:    InputFailureID,
			TaskTitle: "input validation",
			Reason:    reason,
			Details:   details,
		}},
		Metrics: domain.SchedulingMetrics{
			FailedTasks:   1,
			TotalDuration: time.Since(began),
		},
	}
}
