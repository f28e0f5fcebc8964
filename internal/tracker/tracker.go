package tracker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/job-tracker/internal/jobs"
	"github.com/spigell/job-tracker/internal/logger"
)

// Store loads and saves both record sets as one unit.
type Store interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state *State) error
}

// Locker is implemented by stores that can guard a load-save sequence.
type Locker interface {
	Lock(ctx context.Context) error
	Unlock() error
}

type Config struct {
	FollowUpDays  int
	DefaultMethod string
}

// Tracker runs lifecycle operations against a Store.
type Tracker struct {
	store  Store
	config *Config
	logger *zap.Logger
	now    func() time.Time
}

func New(store Store, config *Config, log *zap.Logger) *Tracker {
	if config == nil {
		config = &Config{}
	}
	if config.FollowUpDays <= 0 {
		config.FollowUpDays = DefaultFollowUpDays
	}
	if config.DefaultMethod == "" {
		config.DefaultMethod = DefaultMethod
	}

	return &Tracker{
		store:  store,
		config: config,
		logger: logger.WithFields(log),
		now:    time.Now,
	}
}

// WithClock replaces the time source.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// State loads the current record sets without locking.
func (t *Tracker) State(ctx context.Context) (*State, error) {
	state, err := t.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading record sets: %w", err)
	}
	state.normalize()
	return state, nil
}

// Mutate loads the record sets, applies fn and saves the result.
// When fn fails nothing is saved.
func (t *Tracker) Mutate(ctx context.Context, fn func(*State) error) error {
	if locker, ok := t.store.(Locker); ok {
		if err := locker.Lock(ctx); err != nil {
			return fmt.Errorf("locking record sets: %w", err)
		}
		defer func() {
			if err := locker.Unlock(); err != nil {
				t.logger.Warn("unlocking record sets", zap.Error(err))
			}
		}()
	}

	state, err := t.State(ctx)
	if err != nil {
		return err
	}

	if err := fn(state); err != nil {
		return err
	}

	if err := t.store.Save(ctx, state); err != nil {
		return fmt.Errorf("saving record sets: %w", err)
	}

	return nil
}

// Record converts a pending job into an application.
func (t *Tracker) Record(ctx context.Context, id string, data ApplicationData) (*jobs.Application, error) {
	if data.Method == "" {
		data.Method = t.config.DefaultMethod
	}
	if data.FollowUpDays <= 0 {
		data.FollowUpDays = t.config.FollowUpDays
	}

	var app *jobs.Application
	err := t.Mutate(ctx, func(state *State) error {
		var err error
		app, err = RecordApplication(state, id, data, t.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	t.logger.Info("application recorded", append(logger.JobFields(&app.Record),
		zap.String("status", string(app.Status)),
		zap.Time("follow_up_date", app.FollowUpDate),
	)...)

	return app, nil
}

// Update changes the status of an applied job.
func (t *Tracker) Update(ctx context.Context, id string, update StatusUpdate) (*jobs.Application, error) {
	var (
		app  *jobs.Application
		from jobs.Status
	)
	err := t.Mutate(ctx, func(state *State) error {
		if current := state.Applied.FindByID(id); current != nil {
			from = current.Status
			if !IsKnownStatus(from) {
				t.logger.Warn("application has an unknown status",
					append(logger.JobFields(&current.Record), zap.String("status", string(from)))...)
			}
		}

		var err error
		app, err = UpdateStatus(state, id, update, t.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	fields := append(logger.JobFields(&app.Record),
		zap.String("from", string(from)),
		zap.String("to", string(app.Status)),
	)
	if !CanTransition(from, app.Status) {
		t.logger.Warn("forced status transition outside the table", fields...)
	}
	t.logger.Info("status updated", fields...)

	return app, nil
}

// DueFollowUps lists the submitted applications due for a follow-up today.
func (t *Tracker) DueFollowUps(ctx context.Context) ([]*jobs.Application, error) {
	state, err := t.State(ctx)
	if err != nil {
		return nil, err
	}
	return DueFollowUps(state.Applied, t.now()), nil
}

// AddPending appends records to the pending set. Records whose id is already
// pending are skipped. It returns the number of records added.
func (t *Tracker) AddPending(ctx context.Context, records []*jobs.Record) (int, error) {
	added := 0
	err := t.Mutate(ctx, func(state *State) error {
		for _, r := range records {
			if jobs.Comparable(r.JobID) && state.Pending.FindByID(r.JobID) != nil {
				t.logger.Debug("job already pending, skipping", logger.JobFields(r)...)
				continue
			}
			state.Pending.Jobs = append(state.Pending.Jobs, r)
			added++
		}
		state.Pending.UpdatedAt = t.now().UTC()
		return nil
	})
	if err != nil {
		return 0, err
	}

	t.logger.Info("pending jobs added", zap.Int("added", added), zap.Int("skipped", len(records)-added))
	return added, nil
}
