// Package dashboard arma la vista resumen combinando medicamentos, turnos
// y recordatorios. Solo lectura.
package dashboard

import (
	"context"
	"time"

	"medication-manager/internal/domain/appointments"
	"medication-manager/internal/domain/medicines"
	"medication-manager/internal/domain/reminders"
)

// MaxUpcomingReminders es el tope de recordatorios próximos del dashboard.
const MaxUpcomingReminders = 5

type MedicineSource interface {
	Stats(ctx context.Context) (medicines.Stats, error)
	LowStock(ctx context.Context) ([]medicines.Medicine, error)
}

type AppointmentSource interface {
	Stats(ctx context.Context) (appointments.Stats, error)
	NextUpcoming(ctx context.Context) (appointments.Appointment, bool, error)
}

type ReminderSource interface {
	StatsForToday(ctx context.Context) (reminders.Stats, error)
	UpcomingWithin(ctx context.Context, hours float64) ([]reminders.Reminder, error)
	Future(ctx context.Context) ([]reminders.Reminder, error)
	Overdue(ctx context.Context) ([]reminders.Reminder, error)
}

type Stats struct {
	ActiveMedicines        int
	LowStockMedicines      int
	TodaysTakenReminders   int
	TodaysPendingReminders int
	UpcomingReminders      int // dentro de las próximas 4 horas
	UpcomingAppointments   int
	TodaysDoseCompletion   string
}

type Dashboard struct {
	Stats             Stats
	UpcomingReminders []reminders.Reminder
	NextAppointment   *appointments.Appointment
	LowStockMedicines []medicines.Medicine
	OverdueReminders  []reminders.Reminder
	GeneratedAt       time.Time
}

type Service struct {
	meds  MedicineSource
	appts AppointmentSource
	rems  ReminderSource
	now   func() time.Time
}

func NewService(meds MedicineSource, appts AppointmentSource, rems ReminderSource) *Service {
	return &Service{meds: meds, appts: appts, rems: rems, now: time.Now}
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	ms, err := s.meds.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	as, err := s.appts.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	rs, err := s.rems.StatsForToday(ctx)
	if err != nil {
		return Stats{}, err
	}
	soon, err := s.rems.UpcomingWithin(ctx, reminders.DefaultUpcomingHours)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		ActiveMedicines:        ms.ActiveMedicines,
		LowStockMedicines:      ms.LowStockMedicines,
		TodaysTakenReminders:   rs.TodaysTaken,
		TodaysPendingReminders: rs.TodaysPending,
		UpcomingReminders:      len(soon),
		UpcomingAppointments:   as.UpcomingAppointments,
		TodaysDoseCompletion:   rs.Completion,
	}, nil
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	st, err := s.Stats(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	future, err := s.rems.Future(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	if len(future) > MaxUpcomingReminders {
		future = future[:MaxUpcomingReminders]
	}

	next, ok, err := s.appts.NextUpcoming(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	var nextPtr *appointments.Appointment
	if ok {
		nextPtr = &next
	}

	low, err := s.meds.LowStock(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	overdue, err := s.rems.Overdue(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{
		Stats:             st,
		UpcomingReminders: future,
		NextAppointment:   nextPtr,
		LowStockMedicines: low,
		OverdueReminders:  overdue,
		GeneratedAt:       s.now(),
	}, nil
}
