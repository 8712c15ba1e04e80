package service

import (
	"context"
	"time"

	"github.com/alexanderramin/siteplan/internal/calendar"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/export"
	"github.com/alexanderramin/siteplan/internal/filter"
	"github.com/alexanderramin/siteplan/internal/ordering"
	"github.com/alexanderramin/siteplan/internal/store"
	"github.com/alexanderramin/siteplan/internal/timeline"
)

// viewService derives calendar, timeline and export views. Every call
// reloads the store; no derived state is kept between calls.
type viewService struct {
	workspace
	order *ordering.Engine
}

func NewViewService(env Env, observers ...UseCaseObserver) ViewService {
	w := newWorkspace(env, observers)
	return &viewService{workspace: w, order: ordering.NewEngine(w.logger)}
}

func (s *viewService) tasks(ctx context.Context, c filter.Criteria) ([]domain.Task, error) {
	var tasks []domain.Task
	err := s.read(ctx, func(st *store.Store) error {
		tasks = st.Tasks()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return filter.Apply(s.order.Sorted(tasks), c), nil
}

func (s *viewService) Calendar(ctx context.Context, m calendar.Month, c filter.Criteria) (calendar.Buckets, error) {
	tasks, err := s.tasks(ctx, c)
	if err != nil {
		return nil, err
	}
	return calendar.BucketByMonth(tasks, m), nil
}

func (s *viewService) Timeline(ctx context.Context, c filter.Criteria) ([]timeline.Entry, error) {
	tasks, err := s.tasks(ctx, c)
	if err != nil {
		return nil, err
	}
	return timeline.Build(tasks), nil
}

func (s *viewService) Export(ctx context.Context, tf export.Timeframe, anchor time.Time, c filter.Criteria) (report export.Report, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"timeframe": string(tf), "anchor": anchor.Format(domain.DateLayout)}
	defer observe(ctx, s.observer, "export-tasks", startedAt, fields, &err)

	tasks, err := s.tasks(ctx, c)
	if err != nil {
		return export.Report{}, err
	}
	report = export.NewReport(tasks, tf, anchor, s.now())
	fields["task_count"] = len(report.Tasks)
	return report, nil
}
