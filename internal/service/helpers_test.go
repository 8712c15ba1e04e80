package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/notify"
	"github.com/alexanderramin/siteplan/internal/testutil"
)

var fixedNow = time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)

// testEnv wires services over an in-memory database with a recording notifier.
type testEnv struct {
	DB     *sql.DB
	Env    Env
	Events *notify.Buffer
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	events := &notify.Buffer{}
	return testEnv{
		DB:     database,
		Events: events,
		Env: Env{
			UoW:      testutil.NewTestUoW(database),
			Notifier: events,
			Now:      func() time.Time { return fixedNow },
		},
	}
}

// withUoW returns a copy of the env using uow for transactions.
func (e testEnv) withUoW(uow db.UnitOfWork) Env {
	env := e.Env
	env.UoW = uow
	return env
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

func ptrInt(i int) *int { return &i }
