package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"medication-manager/internal/domain/medicines"
	"medication-manager/internal/domain/reminders"
	"medication-manager/internal/platform/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRems struct {
	items []reminders.Reminder
	err   error
	calls chan struct{}
}

func (f *fakeRems) Overdue(context.Context) ([]reminders.Reminder, error) {
	if f.calls != nil {
		select {
		case f.calls <- struct{}{}:
		default:
		}
	}
	return f.items, f.err
}

type fakeMeds struct{ items []medicines.Medicine }

func (f fakeMeds) LowStock(context.Context) ([]medicines.Medicine, error) { return f.items, nil }

func TestSweeper_SweepUpdatesGauges(t *testing.T) {
	rems := &fakeRems{items: []reminders.Reminder{
		{ID: 1, Medicine: medicines.Medicine{Name: "Aspirin"}, ReminderTime: time.Now().Add(-time.Hour)},
		{ID: 2, Medicine: medicines.Medicine{Name: "Ibuprofen"}, ReminderTime: time.Now().Add(-time.Minute)},
	}}
	meds := fakeMeds{items: []medicines.Medicine{{ID: 3, Name: "Metformin", Stock: 1, Threshold: 5}}}

	res, err := NewSweeper(rems, meds, nil).Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SweepResult{Overdue: 2, LowStock: 1}, res)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.OverdueReminders))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LowStockMedicines))
}

func TestSweeper_SweepPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewSweeper(&fakeRems{err: boom}, fakeMeds{}, nil).Sweep(context.Background())
	assert.True(t, errors.Is(err, boom))
}

func TestSweeper_StartRunsPeriodically(t *testing.T) {
	rems := &fakeRems{calls: make(chan struct{}, 1)}
	s := NewSweeper(rems, fakeMeds{}, nil)

	require.NoError(t, s.Start(50*time.Millisecond, time.UTC))
	defer s.Stop()

	select {
	case <-rems.calls:
	case <-time.After(2 * time.Second):
		t.Fatalf("sweeper did not run")
	}
}

func TestSweeper_StartRejectsZeroInterval(t *testing.T) {
	assert.Error(t, NewSweeper(&fakeRems{}, fakeMeds{}, nil).Start(0, nil))
}
