package medicines

import (
	"context"
	"errors"
	"testing"
	"time"

	"medication-manager/internal/adapters/storage/collection"
	"medication-manager/internal/adapters/storage/memory"
)

// -------------------------
// Helpers
// -------------------------

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T) (*Service, *fakeClock) {
	t.Helper()

	repo := collection.New[int64, Medicine](memory.NewKV(), DataKey, CounterKey, Medicine.Key)
	svc := NewService(repo)

	clock := &fakeClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	svc.now = clock.now
	return svc, clock
}

func mustCreate(t *testing.T, svc *Service, in CreateInput) Medicine {
	t.Helper()
	m, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return m
}

// -------------------------
// Tests
// -------------------------

func TestService_Aspirin_LowStockAndTakeUntilEmpty(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	m := mustCreate(t, svc, CreateInput{Name: "Aspirin", Stock: 5, Threshold: 10, Active: true})

	low, err := svc.LowStock(ctx)
	if err != nil {
		t.Fatalf("LowStock returned error: %v", err)
	}
	if len(low) != 1 || low[0].ID != m.ID {
		t.Fatalf("expected Aspirin in low stock, got %#v", low)
	}

	for i := 0; i < 5; i++ {
		m, err = svc.TakeMedicine(ctx, m.ID)
		if err != nil {
			t.Fatalf("TakeMedicine #%d returned error: %v", i+1, err)
		}
	}
	if m.Stock != 0 {
		t.Fatalf("expected stock 0 after 5 takes, got %d", m.Stock)
	}

	m, err = svc.TakeMedicine(ctx, m.ID)
	if err != nil {
		t.Fatalf("6th TakeMedicine returned error: %v", err)
	}
	if m.Stock != 0 {
		t.Fatalf("expected stock to stay at 0, got %d", m.Stock)
	}
}

func TestService_TakeMedicine_AtZero_StillStampsUpdatedAt(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	m := mustCreate(t, svc, CreateInput{Name: "Metformin", Stock: 0, Threshold: 2})
	created := m.UpdatedAt

	clock.advance(time.Minute)
	got, err := svc.TakeMedicine(ctx, m.ID)
	if err != nil {
		t.Fatalf("TakeMedicine returned error: %v", err)
	}
	if got.Stock != 0 {
		t.Fatalf("expected stock 0, got %d", got.Stock)
	}
	if !got.UpdatedAt.After(created) {
		t.Fatalf("expected updatedAt to move forward, got %v (created %v)", got.UpdatedAt, created)
	}
}

func TestService_TakeMedicine_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.TakeMedicine(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_LowStock_IncludesBoundary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	below := mustCreate(t, svc, CreateInput{Name: "Below", Stock: 1, Threshold: 5})
	equal := mustCreate(t, svc, CreateInput{Name: "Equal", Stock: 5, Threshold: 5})
	_ = mustCreate(t, svc, CreateInput{Name: "Above", Stock: 6, Threshold: 5})

	low, err := svc.LowStock(ctx)
	if err != nil {
		t.Fatalf("LowStock returned error: %v", err)
	}
	if len(low) != 2 || low[0].ID != below.ID || low[1].ID != equal.ID {
		t.Fatalf("expected [Below, Equal], got %#v", low)
	}
}

func TestService_IDs_StrictlyIncreasing_NeverReused(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a := mustCreate(t, svc, CreateInput{Name: "A"})
	b := mustCreate(t, svc, CreateInput{Name: "B"})
	if err := svc.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	c := mustCreate(t, svc, CreateInput{Name: "C"})

	if !(a.ID < b.ID && b.ID < c.ID) {
		t.Fatalf("expected strictly increasing ids, got %d %d %d", a.ID, b.ID, c.ID)
	}

	// Delete idempotente
	if err := svc.Delete(ctx, b.ID); err != nil {
		t.Fatalf("second Delete returned error: %v", err)
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(items) != 2 || items[0].ID != a.ID || items[1].ID != c.ID {
		t.Fatalf("expected [A, C] in insertion order, got %#v", items)
	}
}

func TestService_Update_MergesAndRestamps(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()

	m := mustCreate(t, svc, CreateInput{
		Name:        "Lisinopril",
		Dosage:      "10mg",
		IntakeTimes: []string{"08:00"},
		Stock:       30,
		Threshold:   5,
		Active:      true,
	})

	clock.advance(time.Hour)
	dosage := "20mg"
	got, err := svc.Update(ctx, m.ID, Patch{Dosage: &dosage})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got.Dosage != "20mg" || got.Name != "Lisinopril" || got.Stock != 30 {
		t.Fatalf("unexpected merge result: %#v", got)
	}
	if !got.CreatedAt.Equal(m.CreatedAt) || !got.UpdatedAt.Equal(clock.t) {
		t.Fatalf("expected createdAt kept and updatedAt=now, got %#v", got)
	}

	neg := -1
	if _, err := svc.Update(ctx, m.ID, Patch{Stock: &neg}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative stock, got %v", err)
	}
	if _, err := svc.Update(ctx, 404, Patch{Dosage: &dosage}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Restock_AddsUnconditionally(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	m := mustCreate(t, svc, CreateInput{Name: "Vitamin D", Stock: 2, Threshold: 3})

	got, err := svc.Restock(ctx, m.ID, 30)
	if err != nil {
		t.Fatalf("Restock returned error: %v", err)
	}
	if got.Stock != 32 {
		t.Fatalf("expected stock 32, got %d", got.Stock)
	}

	// sin validación de signo
	got, err = svc.Restock(ctx, m.ID, -2)
	if err != nil {
		t.Fatalf("Restock negative returned error: %v", err)
	}
	if got.Stock != 30 {
		t.Fatalf("expected stock 30, got %d", got.Stock)
	}
}

func TestService_Search_CaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_ = mustCreate(t, svc, CreateInput{Name: "Ibuprofen"})
	_ = mustCreate(t, svc, CreateInput{Name: "Paracetamol"})

	got, err := svc.Search(ctx, "PROF")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Ibuprofen" {
		t.Fatalf("expected Ibuprofen, got %#v", got)
	}
}

func TestService_Stats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_ = mustCreate(t, svc, CreateInput{Name: "A", Stock: 1, Threshold: 2, Active: true})
	_ = mustCreate(t, svc, CreateInput{Name: "B", Stock: 9, Threshold: 2, Active: true})
	_ = mustCreate(t, svc, CreateInput{Name: "C", Stock: 0, Threshold: 0, Active: false})

	st, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if st.ActiveMedicines != 2 || st.LowStockMedicines != 2 {
		t.Fatalf("unexpected stats: %#v", st)
	}
}
