// Package jobs tiene los trabajos periódicos del servicio.
package jobs

import (
	"context"
	"fmt"
	"time"

	"medication-manager/internal/domain/medicines"
	"medication-manager/internal/domain/reminders"
	"medication-manager/internal/platform/logger"
	"medication-manager/internal/platform/metrics"

	"github.com/go-co-op/gocron"
)

type OverdueSource interface {
	Overdue(ctx context.Context) ([]reminders.Reminder, error)
}

type LowStockSource interface {
	LowStock(ctx context.Context) ([]medicines.Medicine, error)
}

// SweepResult resume un barrido.
type SweepResult struct {
	Overdue  int
	LowStock int
}

// Sweeper barre recordatorios vencidos y stock bajo: loguea y actualiza los
// gauges. Solo lee.
type Sweeper struct {
	rems OverdueSource
	meds LowStockSource
	log  logger.Logger

	timeout   time.Duration
	scheduler *gocron.Scheduler
}

func NewSweeper(rems OverdueSource, meds LowStockSource, log logger.Logger) *Sweeper {
	if log == nil {
		log = logger.Nop()
	}
	return &Sweeper{
		rems:    rems,
		meds:    meds,
		log:     log.With(map[string]any{"job": "sweeper"}),
		timeout: 30 * time.Second,
	}
}

func (s *Sweeper) Sweep(ctx context.Context) (SweepResult, error) {
	overdue, err := s.rems.Overdue(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("overdue reminders: %w", err)
	}
	low, err := s.meds.LowStock(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("low stock medicines: %w", err)
	}

	metrics.OverdueReminders.Set(float64(len(overdue)))
	metrics.LowStockMedicines.Set(float64(len(low)))

	for _, r := range overdue {
		s.log.Warn("overdue reminder", map[string]any{
			"reminder_id":   r.ID,
			"medicine":      r.Medicine.Name,
			"reminder_time": r.ReminderTime.Format(time.RFC3339),
		})
	}
	for _, m := range low {
		s.log.Warn("low stock", map[string]any{
			"medicine_id": m.ID,
			"medicine":    m.Name,
			"stock":       m.Stock,
			"threshold":   m.Threshold,
		})
	}

	res := SweepResult{Overdue: len(overdue), LowStock: len(low)}
	s.log.Debug("sweep done", map[string]any{"overdue": res.Overdue, "low_stock": res.LowStock})
	return res, nil
}

// Start programa Sweep cada interval y arranca en background.
func (s *Sweeper) Start(interval time.Duration, loc *time.Location) error {
	if interval <= 0 {
		return fmt.Errorf("sweep interval must be > 0")
	}
	if loc == nil {
		loc = time.Local
	}

	sch := gocron.NewScheduler(loc)
	_, err := sch.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.Sweep(ctx); err != nil {
			s.log.Error("sweep failed", map[string]any{"err": err.Error()})
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sweeper: %w", err)
	}

	sch.StartAsync()
	s.scheduler = sch
	s.log.Info("sweeper started", map[string]any{"interval": interval.String()})
	return nil
}

func (s *Sweeper) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
		s.scheduler = nil
	}
}
