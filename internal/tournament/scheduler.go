package tournament

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

var (
	ErrScheduleOutsideLobby = errors.New("cannot schedule, tournament already in progress")
	ErrStartNotFuture       = errors.New("start time must be in the future")
	ErrEndNotAfterStart     = errors.New("end time must be after start time")
)

// Schedule is the wall-clock window a tournament is committed to
type Schedule struct {
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	IsScheduled bool      `json:"isScheduled"`
}

// CountdownUpdate is the once-per-second remaining-time notification
type CountdownUpdate struct {
	Phase     Phase     `json:"phase"`
	Remaining int64     `json:"remaining"` // milliseconds
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// ScheduleObserver receives schedule and countdown notifications
type ScheduleObserver interface {
	ScheduleChanged(Schedule)
	CountdownTick(CountdownUpdate)
}

// Scheduler drives a tournament's phase transitions from the wall clock. It
// arms a one-shot start timer, arms the end timer once the start fires, and
// ticks every second to republish remaining time. A reschedule or reset
// cancels all three atomically; the generation counter keeps a stale timer
// that already fired from touching the new schedule.
type Scheduler struct {
	mu     sync.Mutex
	t      *Tournament
	clock  quartz.Clock
	logger *log.Logger

	schedule   Schedule
	gen        int
	startTimer *quartz.Timer
	endTimer   *quartz.Timer
	tickCancel context.CancelFunc

	observers []ScheduleObserver
}

// NewScheduler creates a scheduler bound to a tournament
func NewScheduler(t *Tournament, clock quartz.Clock, logger *log.Logger) *Scheduler {
	return &Scheduler{
		t:      t,
		clock:  clock,
		logger: logger.WithPrefix("scheduler"),
	}
}

// Subscribe registers an observer for schedule and countdown notifications
func (s *Scheduler) Subscribe(obs ScheduleObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, obs)
}

// Schedule returns the current schedule
func (s *Scheduler) Schedule() Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule
}

// ScheduleStart commits the tournament to a start/end window. Only valid
// while the lobby is open; a later call replaces the previous schedule.
func (s *Scheduler) ScheduleStart(start, end time.Time) (Schedule, error) {
	if s.t.Phase() != PhaseLobby {
		return Schedule{}, ErrScheduleOutsideLobby
	}

	now := s.clock.Now()
	if !start.After(now) {
		return Schedule{}, ErrStartNotFuture
	}
	if !end.After(start) {
		return Schedule{}, ErrEndNotAfterStart
	}

	s.mu.Lock()
	s.cancelLocked()
	s.gen++
	gen := s.gen
	s.schedule = Schedule{StartTime: start, EndTime: end, IsScheduled: true}

	s.startTimer = s.clock.AfterFunc(start.Sub(now), func() {
		s.onStart(gen, end)
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.tickCancel = cancel
	s.clock.TickerFunc(ctx, time.Second, func() error {
		s.tick()
		return nil
	}, "countdown")

	schedule := s.schedule
	s.mu.Unlock()

	// The lobby countdown now runs to the scheduled start, play to the end
	s.t.SetDeadlines(start, end)

	s.logger.Info("tournament scheduled", "start", start, "end", end)
	s.notifySchedule(schedule)
	return schedule, nil
}

// Reset cancels all timers unconditionally, clears the schedule and resets
// the tournament to a fresh lobby
func (s *Scheduler) Reset() {
	s.mu.Lock()
	s.cancelLocked()
	s.gen++
	s.schedule = Schedule{}
	s.mu.Unlock()

	s.t.Reset()
	s.notifySchedule(Schedule{})
}

// onStart fires at the scheduled start time
func (s *Scheduler) onStart(gen int, end time.Time) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if err := s.t.StartWithDeadline(end); err != nil {
		s.logger.Warn("scheduled start skipped", "error", err)
		return
	}

	s.mu.Lock()
	if gen == s.gen {
		s.endTimer = s.clock.AfterFunc(end.Sub(s.clock.Now()), func() {
			s.onEnd(gen)
		})
	}
	s.mu.Unlock()
}

// onEnd fires at the scheduled end time
func (s *Scheduler) onEnd(gen int) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	if s.tickCancel != nil {
		s.tickCancel()
		s.tickCancel = nil
	}
	s.mu.Unlock()

	s.t.EndNow()
}

// tick republishes remaining time once a second without mutating phase
func (s *Scheduler) tick() {
	s.mu.Lock()
	schedule := s.schedule
	observers := append([]ScheduleObserver(nil), s.observers...)
	s.mu.Unlock()

	if !schedule.IsScheduled {
		return
	}

	now := s.clock.Now()
	phase := s.t.Phase()

	var remaining time.Duration
	switch phase {
	case PhaseLobby:
		remaining = schedule.StartTime.Sub(now)
	case PhasePlaying:
		remaining = schedule.EndTime.Sub(now)
	default:
		return
	}
	if remaining <= 0 {
		return
	}

	update := CountdownUpdate{
		Phase:     phase,
		Remaining: remaining.Milliseconds(),
		StartTime: schedule.StartTime,
		EndTime:   schedule.EndTime,
	}
	for _, obs := range observers {
		obs.CountdownTick(update)
	}
}

// cancelLocked stops both one-shot timers and the countdown ticker
func (s *Scheduler) cancelLocked() {
	if s.startTimer != nil {
		s.startTimer.Stop()
		s.startTimer = nil
	}
	if s.endTimer != nil {
		s.endTimer.Stop()
		s.endTimer = nil
	}
	if s.tickCancel != nil {
		s.tickCancel()
		s.tickCancel = nil
	}
}

func (s *Scheduler) notifySchedule(schedule Schedule) {
	s.mu.Lock()
	observers := append([]ScheduleObserver(nil), s.observers...)
	s.mu.Unlock()

	for _, obs := range observers {
		obs.ScheduleChanged(schedule)
	}
}
