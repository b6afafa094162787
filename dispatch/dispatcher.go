package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/Musharaf05/HabitFlow/metrics"
	"github.com/Musharaf05/HabitFlow/models"
	"github.com/Musharaf05/HabitFlow/notify"
	"github.com/Musharaf05/HabitFlow/repositories"
	"github.com/rs/zerolog/log"
)

// Dispatcher is the reminder dispatch loop. Every tick it scans for
// reminders that are due today and unsent, claims each one through the
// conditional sent-flag update, and fans a notification out to the owner's
// delivery tokens. It keeps no state between ticks; everything lives in
// the sent flag and the token table.
type Dispatcher struct {
	reminders repositories.ReminderStore
	tokens    repositories.TokenStore
	notifier  notify.Notifier

	interval time.Duration
	// markTokenless: when true, a due reminder whose owner has no tokens
	// is still marked sent (the behavior the web client expects); when
	// false the claim is released so the reminder retries once a token
	// is registered.
	markTokenless bool

	now func() time.Time
	mu  sync.Mutex
}

func New(reminders repositories.ReminderStore, tokens repositories.TokenStore, notifier notify.Notifier, interval time.Duration, markTokenless bool) *Dispatcher {
	return &Dispatcher{
		reminders:     reminders,
		tokens:        tokens,
		notifier:      notifier,
		interval:      interval,
		markTokenless: markTokenless,
		now:           time.Now,
	}
}

// Run executes the loop until ctx is canceled. Errors inside a tick are
// logged and never stop the loop.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", d.interval).Msg("reminder dispatch loop started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("reminder dispatch loop stopped")
			return
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick runs one dispatch pass. A tick that starts while the previous one
// is still running returns immediately; the single-flight guard plus the
// conditional claim make overlapping ticks safe.
func (d *Dispatcher) Tick(ctx context.Context) {
	if !d.mu.TryLock() {
		metrics.DispatchTicksSkipped.Inc()
		log.Debug().Msg("dispatch tick skipped, previous tick still running")
		return
	}
	defer d.mu.Unlock()
	metrics.DispatchTicks.Inc()

	now := d.now()
	today := now.Format("2006-01-02")
	minute := now.Format("15:04")

	candidates, err := d.reminders.DueOn(today)
	if err != nil {
		log.Error().Err(err).Msg("querying due reminders")
		return
	}
	log.Debug().Int("candidates", len(candidates)).Str("day", today).Msg("dispatch tick")

	for _, r := range candidates {
		if r.RemindTime == "" {
			continue
		}
		// Due window: the scheduled minute has passed today. Zero-padded
		// HH:MM strings compare correctly as strings.
		if r.RemindTime > minute {
			continue
		}
		d.dispatch(ctx, r)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, r models.Reminder) {
	won, err := d.reminders.ClaimSent(r.ID)
	if err != nil {
		log.Error().Err(err).Str("reminder", r.ID.String()).Msg("claiming reminder")
		return
	}
	if !won {
		// A concurrent writer flipped the flag first.
		return
	}

	rows, err := d.tokens.ByOwner(r.OwnerID)
	if err != nil {
		// The claim stands: the reminder will not be retried. Same
		// at-most-once trade-off as a transport failure below.
		log.Error().Err(err).Str("reminder", r.ID.String()).Msg("resolving delivery tokens")
		return
	}

	if len(rows) == 0 {
		if d.markTokenless {
			log.Info().Str("reminder", r.ID.String()).Msg("no delivery tokens, reminder marked sent anyway")
			return
		}
		if err := d.reminders.ReleaseSent(r.ID); err != nil {
			log.Error().Err(err).Str("reminder", r.ID.String()).Msg("releasing tokenless reminder")
			return
		}
		log.Info().Str("reminder", r.ID.String()).Msg("no delivery tokens, reminder left unsent for retry")
		return
	}

	tokens := make([]string, len(rows))
	for i, row := range rows {
		tokens[i] = row.Token
	}

	metrics.RemindersDispatched.Inc()
	res, err := d.notifier.Send(ctx, tokens, notify.Message{
		Title: "HabitFlow Reminder",
		Body:  r.Text,
		Data:  map[string]string{"reminder_id": r.ID.String()},
	})
	if err != nil {
		// The batch never left: the reminder stays sent so it is not
		// delivered twice on a flaky transport.
		log.Error().Err(err).Str("reminder", r.ID.String()).Msg("notification send failed")
		return
	}

	metrics.NotificationsSent.Add(float64(res.Success))
	metrics.NotificationsFailed.Add(float64(res.Failure))

	if len(res.InvalidTokens) > 0 {
		if err := d.tokens.DeleteTokens(res.InvalidTokens); err != nil {
			log.Error().Err(err).Msg("pruning invalid tokens")
		} else {
			metrics.TokensPruned.Add(float64(len(res.InvalidTokens)))
			log.Info().Int("count", len(res.InvalidTokens)).Msg("pruned invalid delivery tokens")
		}
	}

	log.Info().
		Str("reminder", r.ID.String()).
		Int("tokens", len(tokens)).
		Int("delivered", res.Success).
		Int("failed", res.Failure).
		Msg("reminder dispatched")
}
