package reminders

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"medication-manager/internal/domain/medicines"
	"medication-manager/internal/ports/storage"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("reminder not found")
)

// DefaultUpcomingHours es la ventana que usa el dashboard.
const DefaultUpcomingHours = 4

// MedicineLookup resuelve el medicamento a copiar al crear un recordatorio.
type MedicineLookup interface {
	GetByID(ctx context.Context, id int64) (medicines.Medicine, error)
}

type Service struct {
	repo Repository
	meds MedicineLookup

	now func() time.Time
	loc *time.Location // define "hoy" para StatsForToday
}

func NewService(repo Repository, meds MedicineLookup) *Service {
	return &Service{
		repo: repo,
		meds: meds,
		now:  time.Now,
		loc:  time.Local,
	}
}

// WithLocation fija la zona horaria del día calendario.
func (s *Service) WithLocation(loc *time.Location) *Service {
	if loc != nil {
		s.loc = loc
	}
	return s
}

type CreateInput struct {
	Medicine     medicines.Medicine
	ReminderTime time.Time
	Active       bool
}

type Patch struct {
	ReminderTime *time.Time
	Taken        *bool
	Active       *bool
}

// Create guarda el recordatorio con la copia del medicamento tal cual llega.
func (s *Service) Create(ctx context.Context, in CreateInput) (Reminder, error) {
	if in.ReminderTime.IsZero() {
		return Reminder{}, fmt.Errorf("%w: reminder time required", ErrInvalidInput)
	}

	now := s.now()
	return s.repo.Create(ctx, func(id int64) Reminder {
		return Reminder{
			ID:           id,
			Medicine:     in.Medicine,
			ReminderTime: in.ReminderTime,
			Active:       in.Active,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	})
}

// CreateForMedicine busca el medicamento y crea el recordatorio con su copia.
func (s *Service) CreateForMedicine(ctx context.Context, medicineID int64, at time.Time, active bool) (Reminder, error) {
	if s.meds == nil {
		return Reminder{}, errors.New("medicine lookup not configured")
	}
	m, err := s.meds.GetByID(ctx, medicineID)
	if err != nil {
		return Reminder{}, err
	}
	return s.Create(ctx, CreateInput{Medicine: m, ReminderTime: at, Active: active})
}

func (s *Service) List(ctx context.Context) ([]Reminder, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Reminder, error) {
	r, err := s.repo.Get(ctx, id)
	return r, mapErr(err, id)
}

func (s *Service) Update(ctx context.Context, id int64, p Patch) (Reminder, error) {
	r, err := s.repo.Update(ctx, id, func(r *Reminder) error {
		now := s.now()
		if p.ReminderTime != nil {
			if p.ReminderTime.IsZero() {
				return fmt.Errorf("%w: reminder time required", ErrInvalidInput)
			}
			r.ReminderTime = *p.ReminderTime
		}
		if p.Active != nil {
			r.Active = *p.Active
		}
		if p.Taken != nil {
			r.Taken = *p.Taken
			if r.Taken {
				r.TakenAt = &now
			} else {
				r.TakenAt = nil
			}
		}
		r.UpdatedAt = now
		return nil
	})
	return r, mapErr(err, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// MarkTaken es idempotente sobre taken pero siempre re-estampa takenAt.
func (s *Service) MarkTaken(ctx context.Context, id int64) (Reminder, error) {
	taken := true
	return s.Update(ctx, id, Patch{Taken: &taken})
}

// Overdue: no tomados con horario ya pasado (activos o no).
func (s *Service) Overdue(ctx context.Context) ([]Reminder, error) {
	now := s.now()
	return s.repo.Find(ctx, func(r Reminder) bool {
		return !r.Taken && r.ReminderTime.Before(now)
	})
}

// UpcomingWithin: no tomados con now < horario <= now+hours.
func (s *Service) UpcomingWithin(ctx context.Context, hours float64) ([]Reminder, error) {
	if math.IsNaN(hours) || hours < 0 {
		return nil, fmt.Errorf("%w: hours must be >= 0", ErrInvalidInput)
	}
	now := s.now()
	limit := now.Add(windowDuration(hours))
	return s.repo.Find(ctx, func(r Reminder) bool {
		return !r.Taken && r.ReminderTime.After(now) && !r.ReminderTime.After(limit)
	})
}

// maxWindowHours es el mayor número de horas que entra en un time.Duration.
const maxWindowHours = float64(math.MaxInt64) / float64(time.Hour)

// windowDuration satura en la duración máxima; +Inf queda sin tope.
func windowDuration(hours float64) time.Duration {
	if hours >= maxWindowHours {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(hours * float64(time.Hour))
}

// Future devuelve los no tomados a futuro ordenados por horario.
func (s *Service) Future(ctx context.Context) ([]Reminder, error) {
	now := s.now()
	items, err := s.repo.Find(ctx, func(r Reminder) bool {
		return !r.Taken && r.ReminderTime.After(now)
	})
	if err != nil {
		return nil, err
	}
	SortByTime(items)
	return items, nil
}

func (s *Service) Pending(ctx context.Context) ([]Reminder, error) {
	return s.repo.Find(ctx, func(r Reminder) bool { return !r.Taken && r.Active })
}

// ByMedicine filtra por el id de la copia embebida.
func (s *Service) ByMedicine(ctx context.Context, medicineID int64) ([]Reminder, error) {
	return s.repo.Find(ctx, func(r Reminder) bool { return r.Medicine.ID == medicineID })
}

func (s *Service) Views(ctx context.Context) ([]View, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.ViewsOf(items), nil
}

// ViewsOf calcula el estado de cada recordatorio con el mismo now.
func (s *Service) ViewsOf(items []Reminder) []View {
	now := s.now()
	out := make([]View, 0, len(items))
	for _, r := range items {
		out = append(out, View{Reminder: r, Status: r.StatusAt(now)})
	}
	return out
}

func (s *Service) StatsForToday(ctx context.Context) (Stats, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	now := s.now()
	var st Stats
	total := 0
	for _, r := range items {
		if sameDay(r.ReminderTime, now, s.loc) {
			total++
			if r.Taken {
				st.TodaysTaken++
			}
		}
		if !r.Taken && r.ReminderTime.After(now) {
			st.Upcoming++
		}
	}
	st.TodaysPending = total - st.TodaysTaken

	st.Completion = "0/0"
	if total > 0 {
		st.Completion = fmt.Sprintf("%d/%d", st.TodaysTaken, total)
	}
	return st, nil
}

// SortByTime ordena ascendente por horario, estable para empates.
func SortByTime(items []Reminder) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ReminderTime.Before(items[j].ReminderTime)
	})
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

func mapErr(err error, id int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: id=%d", ErrNotFound, id)
	}
	return err
}
