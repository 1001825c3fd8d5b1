package medicines

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medication-manager/internal/ports/storage"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("medicine not found")
)

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
	Name        string
	Dosage      string
	Frequency   string
	IntakeTimes []string
	Stock       int
	Threshold   int
	Notes       string
	Active      bool
}

// Patch: punteros para merge parcial, nil = no tocar.
type Patch struct {
	Name        *string
	Dosage      *string
	Frequency   *string
	IntakeTimes *[]string
	Stock       *int
	Threshold   *int
	Notes       *string
	Active      *bool
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Medicine, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Medicine{}, ErrInvalidInput
	}
	if in.Stock < 0 || in.Threshold < 0 {
		return Medicine{}, ErrInvalidInput
	}

	now := s.now()
	return s.repo.Create(ctx, func(id int64) Medicine {
		return Medicine{
			ID:          id,
			Name:        strings.TrimSpace(in.Name),
			Dosage:      strings.TrimSpace(in.Dosage),
			Frequency:   strings.TrimSpace(in.Frequency),
			IntakeTimes: cleanTimes(in.IntakeTimes),
			Stock:       in.Stock,
			Threshold:   in.Threshold,
			Notes:       strings.TrimSpace(in.Notes),
			Active:      in.Active,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	})
}

func (s *Service) List(ctx context.Context) ([]Medicine, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Medicine, error) {
	m, err := s.repo.Get(ctx, id)
	return m, mapErr(err, id)
}

func (s *Service) Update(ctx context.Context, id int64, p Patch) (Medicine, error) {
	m, err := s.repo.Update(ctx, id, func(m *Medicine) error {
		if p.Name != nil {
			name := strings.TrimSpace(*p.Name)
			if name == "" {
				return ErrInvalidInput
			}
			m.Name = name
		}
		if p.Dosage != nil {
			m.Dosage = strings.TrimSpace(*p.Dosage)
		}
		if p.Frequency != nil {
			m.Frequency = strings.TrimSpace(*p.Frequency)
		}
		if p.IntakeTimes != nil {
			m.IntakeTimes = cleanTimes(*p.IntakeTimes)
		}
		if p.Stock != nil {
			if *p.Stock < 0 {
				return ErrInvalidInput
			}
			m.Stock = *p.Stock
		}
		if p.Threshold != nil {
			if *p.Threshold < 0 {
				return ErrInvalidInput
			}
			m.Threshold = *p.Threshold
		}
		if p.Notes != nil {
			m.Notes = strings.TrimSpace(*p.Notes)
		}
		if p.Active != nil {
			m.Active = *p.Active
		}
		m.UpdatedAt = s.now()
		return nil
	})
	return m, mapErr(err, id)
}

// Delete es idempotente.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// TakeMedicine descuenta una dosis si queda stock. updatedAt se re-estampa
// siempre, aunque el stock ya esté en cero.
func (s *Service) TakeMedicine(ctx context.Context, id int64) (Medicine, error) {
	m, err := s.repo.Update(ctx, id, func(m *Medicine) error {
		if m.Stock > 0 {
			m.Stock--
		}
		m.UpdatedAt = s.now()
		return nil
	})
	return m, mapErr(err, id)
}

// Restock suma quantity sin validar signo ni tope; el caller decide.
func (s *Service) Restock(ctx context.Context, id int64, quantity int) (Medicine, error) {
	m, err := s.repo.Update(ctx, id, func(m *Medicine) error {
		m.Stock += quantity
		m.UpdatedAt = s.now()
		return nil
	})
	return m, mapErr(err, id)
}

func (s *Service) LowStock(ctx context.Context) ([]Medicine, error) {
	return s.repo.Find(ctx, Medicine.LowStock)
}

// Search busca por substring en el nombre, sin distinguir mayúsculas.
func (s *Service) Search(ctx context.Context, name string) ([]Medicine, error) {
	q := strings.ToLower(strings.TrimSpace(name))
	return s.repo.Find(ctx, func(m Medicine) bool {
		return strings.Contains(strings.ToLower(m.Name), q)
	})
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	var st Stats
	for _, m := range items {
		if m.Active {
			st.ActiveMedicines++
		}
		if m.LowStock() {
			st.LowStockMedicines++
		}
	}
	return st, nil
}

func cleanTimes(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
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
