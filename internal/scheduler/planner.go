package scheduler

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/julianstephens/healthydesk/internal/constants"
	"github.com/julianstephens/healthydesk/internal/models"
)

type PlannerOption func(*Planner)

func WithClock(now func() time.Time) PlannerOption {
	return func(p *Planner) { p.now = now }
}

// WithRand sets the source used to pick reminder messages.
func WithRand(r *rand.Rand) PlannerOption {
	return func(p *Planner) { p.rng = r }
}

// Planner turns a kind's reminder settings into a concrete plan.
type Planner struct {
	now func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

func NewPlanner(opts ...PlannerOption) *Planner {
	p := &Planner{
		now: time.Now,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// DefaultHorizon is how many reminders a plan holds for kind.
func DefaultHorizon(kind models.Kind) int {
	if kind == models.KindWater {
		return constants.DefaultWaterHorizon
	}
	return constants.DefaultWalkingHorizon
}

// DefaultMessages returns the built-in reminder texts for kind.
func DefaultMessages(kind models.Kind) []string {
	if kind == models.KindWater {
		return constants.WaterReminderMessages
	}
	return constants.WalkingReminderMessages
}

func title(kind models.Kind) string {
	if kind == models.KindWater {
		return constants.WaterReminderTitle
	}
	return constants.WalkingReminderTitle
}

func fallbackMessage(kind models.Kind) string {
	if kind == models.KindWater {
		return constants.WaterFallbackMessage
	}
	return constants.WalkingFallbackMessage
}

// BuildPlan schedules horizonCount reminders spaced by interval, starting one
// interval from now. Disabled kinds and non-positive interval or horizon yield
// an empty plan.
func (p *Planner) BuildPlan(kind models.Kind, interval time.Duration, enabled bool, horizonCount int, messages []string) models.ReminderPlan {
	now := p.now()
	plan := models.ReminderPlan{Kind: kind, GeneratedAt: now}
	if !enabled || interval <= 0 || horizonCount <= 0 {
		return plan
	}

	plan.Reminders = make([]models.Reminder, 0, horizonCount)
	for i := 1; i <= horizonCount; i++ {
		plan.Reminders = append(plan.Reminders, models.Reminder{
			ID:      fmt.Sprintf("%s-reminder-%d", kind, i),
			Kind:    kind,
			FireAt:  now.Add(interval * time.Duration(i)),
			Title:   title(kind),
			Message: p.pick(kind, messages),
		})
	}
	return plan
}

func (p *Planner) pick(kind models.Kind, messages []string) string {
	if len(messages) == 0 {
		return fallbackMessage(kind)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return messages[p.rng.Intn(len(messages))]
}
