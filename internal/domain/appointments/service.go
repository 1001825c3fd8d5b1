package appointments

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"medication-manager/internal/ports/storage"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("appointment not found")
)

const dateLayout = "2006-01-02"

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	DoctorName string
	Specialty  string
	Date       string // YYYY-MM-DD
	Time       string // HH:MM
	Location   string
	Phone      string
	Reason     string
	Status     Status // opcional, default UPCOMING
}

type Patch struct {
	DoctorName *string
	Specialty  *string
	Date       *string
	Time       *string
	Location   *string
	Phone      *string
	Reason     *string
	Status     *Status
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Appointment, error) {
	if strings.TrimSpace(in.DoctorName) == "" {
		return Appointment{}, ErrInvalidInput
	}
	date, err := normalizeDate(in.Date)
	if err != nil {
		return Appointment{}, err
	}
	st := in.Status
	if st == "" {
		st = StatusUpcoming
	}
	if !st.Valid() {
		return Appointment{}, ErrInvalidInput
	}

	now := s.now()
	return s.repo.Create(ctx, func(id int64) Appointment {
		return Appointment{
			ID:         id,
			DoctorName: strings.TrimSpace(in.DoctorName),
			Specialty:  strings.TrimSpace(in.Specialty),
			Date:       date,
			Time:       strings.TrimSpace(in.Time),
			Location:   strings.TrimSpace(in.Location),
			Phone:      strings.TrimSpace(in.Phone),
			Reason:     strings.TrimSpace(in.Reason),
			Status:     st,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	})
}

func (s *Service) List(ctx context.Context) ([]Appointment, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Appointment, error) {
	a, err := s.repo.Get(ctx, id)
	return a, mapErr(err, id)
}

func (s *Service) Update(ctx context.Context, id int64, p Patch) (Appointment, error) {
	a, err := s.repo.Update(ctx, id, func(a *Appointment) error {
		if p.DoctorName != nil {
			name := strings.TrimSpace(*p.DoctorName)
			if name == "" {
				return ErrInvalidInput
			}
			a.DoctorName = name
		}
		if p.Specialty != nil {
			a.Specialty = strings.TrimSpace(*p.Specialty)
		}
		if p.Date != nil {
			d, err := normalizeDate(*p.Date)
			if err != nil {
				return err
			}
			a.Date = d
		}
		if p.Time != nil {
			a.Time = strings.TrimSpace(*p.Time)
		}
		if p.Location != nil {
			a.Location = strings.TrimSpace(*p.Location)
		}
		if p.Phone != nil {
			a.Phone = strings.TrimSpace(*p.Phone)
		}
		if p.Reason != nil {
			a.Reason = strings.TrimSpace(*p.Reason)
		}
		if p.Status != nil {
			if !p.Status.Valid() {
				return ErrInvalidInput
			}
			a.Status = *p.Status
		}
		a.UpdatedAt = s.now()
		return nil
	})
	return a, mapErr(err, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Upcoming(ctx context.Context) ([]Appointment, error) {
	return s.ByStatus(ctx, StatusUpcoming)
}

// Past devuelve todo lo que no está UPCOMING (completados y cancelados).
func (s *Service) Past(ctx context.Context) ([]Appointment, error) {
	return s.repo.Find(ctx, func(a Appointment) bool { return a.Status != StatusUpcoming })
}

func (s *Service) ByStatus(ctx context.Context, st Status) ([]Appointment, error) {
	return s.repo.Find(ctx, func(a Appointment) bool { return a.Status == st })
}

// NextUpcoming devuelve el UPCOMING con la fecha más temprana.
// Empates: gana el primero en orden de alta (sort estable).
func (s *Service) NextUpcoming(ctx context.Context) (Appointment, bool, error) {
	items, err := s.Upcoming(ctx)
	if err != nil {
		return Appointment{}, false, err
	}
	if len(items) == 0 {
		return Appointment{}, false, nil
	}
	SortByDate(items)
	return items[0], true, nil
}

func (s *Service) SearchByDoctor(ctx context.Context, doctor string) ([]Appointment, error) {
	q := strings.ToLower(strings.TrimSpace(doctor))
	return s.repo.Find(ctx, func(a Appointment) bool {
		return strings.Contains(strings.ToLower(a.DoctorName), q)
	})
}

// Complete y Cancel son atajos sobre Update.
func (s *Service) Complete(ctx context.Context, id int64) (Appointment, error) {
	st := StatusCompleted
	return s.Update(ctx, id, Patch{Status: &st})
}

func (s *Service) Cancel(ctx context.Context, id int64) (Appointment, error) {
	st := StatusCancelled
	return s.Update(ctx, id, Patch{Status: &st})
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	items, err := s.Upcoming(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{UpcomingAppointments: len(items)}, nil
}

// SortByDate ordena in-place por fecha ascendente (comparación de strings
// YYYY-MM-DD), estable para empates.
func SortByDate(items []Appointment) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date < items[j].Date
	})
}

func normalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return t.Format(dateLayout), nil
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
