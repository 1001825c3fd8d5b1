package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"medication-manager/internal/domain/appointments"
	"medication-manager/internal/domain/dashboard"
	"medication-manager/internal/domain/medicines"
	"medication-manager/internal/domain/reminders"

	"github.com/fatih/color"
)

func init() { color.NoColor = true }

func TestPrintMedicines(t *testing.T) {
	var buf bytes.Buffer
	printMedicines(&buf, []medicines.MedicineResponse{
		{ID: 1, Name: "Aspirin", Dosage: "500mg", Stock: 10, Threshold: 2},
		{ID: 2, Name: "Ibuprofen", Dosage: "200mg", Stock: 1, Threshold: 3, LowStock: true},
	})

	out := buf.String()
	for _, want := range []string{"NOMBRE", "Aspirin", "Ibuprofen", "500mg"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPrintDashboard(t *testing.T) {
	var buf bytes.Buffer
	next := appointments.AppointmentResponse{DoctorName: "Dr. Smith", Date: "2025-01-01", Time: "10:00"}
	printDashboard(&buf, dashboard.DashboardResponse{
		Stats:           dashboard.StatsResponse{ActiveMedicines: 2, TodaysDoseCompletion: "1/2"},
		NextAppointment: &next,
		OverdueReminders: []reminders.ReminderResponse{{
			ID: 4, Medicine: medicines.MedicineResponse{Name: "Aspirin"}, ReminderTime: time.Now(), Status: reminders.StatusMissed,
		}},
	})

	out := buf.String()
	for _, want := range []string{"1/2", "Dr. Smith", "Vencidos", "missed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestArgID(t *testing.T) {
	if _, err := argID(nil, 0); err == nil {
		t.Fatalf("expected missing id error")
	}
	if _, err := argID([]string{"abc"}, 0); err == nil {
		t.Fatalf("expected invalid id error")
	}
	if id, err := argID([]string{"7"}, 0); err != nil || id != 7 {
		t.Fatalf("expected 7, got %d %v", id, err)
	}
}
