package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"medication-manager/internal/domain/appointments"
	"medication-manager/internal/domain/medicines"
	"medication-manager/internal/domain/reminders"
)

type fakeMeds struct {
	stats medicines.Stats
	low   []medicines.Medicine
	err   error
}

func (f fakeMeds) Stats(context.Context) (medicines.Stats, error) { return f.stats, f.err }
func (f fakeMeds) LowStock(context.Context) ([]medicines.Medicine, error) {
	return f.low, f.err
}

type fakeAppts struct {
	stats appointments.Stats
	next  *appointments.Appointment
}

func (f fakeAppts) Stats(context.Context) (appointments.Stats, error) { return f.stats, nil }
func (f fakeAppts) NextUpcoming(context.Context) (appointments.Appointment, bool, error) {
	if f.next == nil {
		return appointments.Appointment{}, false, nil
	}
	return *f.next, true, nil
}

type fakeRems struct {
	stats   reminders.Stats
	soon    []reminders.Reminder
	future  []reminders.Reminder
	overdue []reminders.Reminder
	hours   float64
}

func (f *fakeRems) StatsForToday(context.Context) (reminders.Stats, error) { return f.stats, nil }
func (f *fakeRems) UpcomingWithin(_ context.Context, hours float64) ([]reminders.Reminder, error) {
	f.hours = hours
	return f.soon, nil
}
func (f *fakeRems) Future(context.Context) ([]reminders.Reminder, error)  { return f.future, nil }
func (f *fakeRems) Overdue(context.Context) ([]reminders.Reminder, error) { return f.overdue, nil }

func remindersAt(base time.Time, n int) []reminders.Reminder {
	out := make([]reminders.Reminder, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, reminders.Reminder{ID: int64(i + 1), ReminderTime: base.Add(time.Duration(i) * time.Hour)})
	}
	return out
}

func TestService_Stats_Combines(t *testing.T) {
	rems := &fakeRems{
		stats: reminders.Stats{TodaysTaken: 1, TodaysPending: 2, Upcoming: 9, Completion: "1/3"},
		soon:  remindersAt(time.Now(), 2),
	}
	svc := NewService(
		fakeMeds{stats: medicines.Stats{ActiveMedicines: 3, LowStockMedicines: 1}},
		fakeAppts{stats: appointments.Stats{UpcomingAppointments: 4}},
		rems,
	)

	st, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}

	want := Stats{
		ActiveMedicines:        3,
		LowStockMedicines:      1,
		TodaysTakenReminders:   1,
		TodaysPendingReminders: 2,
		UpcomingReminders:      2,
		UpcomingAppointments:   4,
		TodaysDoseCompletion:   "1/3",
	}
	if st != want {
		t.Fatalf("expected %#v, got %#v", want, st)
	}
	if rems.hours != reminders.DefaultUpcomingHours {
		t.Fatalf("expected 4 hour window, got %v", rems.hours)
	}
}

func TestService_Dashboard_CapsUpcomingAndHandlesNoAppointment(t *testing.T) {
	rems := &fakeRems{
		stats:   reminders.Stats{Completion: "0/0"},
		future:  remindersAt(time.Now().Add(time.Hour), 8),
		overdue: remindersAt(time.Now().Add(-5*time.Hour), 2),
	}
	low := []medicines.Medicine{{ID: 1, Name: "Aspirin", Stock: 1, Threshold: 2}}
	svc := NewService(fakeMeds{low: low}, fakeAppts{}, rems)

	d, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if len(d.UpcomingReminders) != MaxUpcomingReminders {
		t.Fatalf("expected %d upcoming, got %d", MaxUpcomingReminders, len(d.UpcomingReminders))
	}
	if d.UpcomingReminders[0].ID != 1 {
		t.Fatalf("expected soonest first, got id=%d", d.UpcomingReminders[0].ID)
	}
	if d.NextAppointment != nil {
		t.Fatalf("expected nil next appointment, got %#v", d.NextAppointment)
	}
	if len(d.LowStockMedicines) != 1 || len(d.OverdueReminders) != 2 {
		t.Fatalf("unexpected lists: low=%d overdue=%d", len(d.LowStockMedicines), len(d.OverdueReminders))
	}
}

func TestService_Dashboard_NextAppointment(t *testing.T) {
	next := appointments.Appointment{ID: 7, DoctorName: "Dr. Smith", Date: "2025-01-01", Status: appointments.StatusUpcoming}
	svc := NewService(fakeMeds{}, fakeAppts{next: &next}, &fakeRems{})

	d, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if d.NextAppointment == nil || d.NextAppointment.ID != 7 {
		t.Fatalf("expected appointment 7, got %#v", d.NextAppointment)
	}
}

func TestService_Stats_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(fakeMeds{err: boom}, fakeAppts{}, &fakeRems{})

	if _, err := svc.Stats(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
