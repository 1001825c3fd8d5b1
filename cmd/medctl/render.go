package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"medication-manager/internal/domain/dashboard"
	"medication-manager/internal/domain/medicines"
	"medication-manager/internal/domain/reminders"

	"github.com/fatih/color"
)

var (
	warn  = color.New(color.FgYellow, color.Bold)
	alert = color.New(color.FgRed, color.Bold)
	ok    = color.New(color.FgGreen)
	title = color.New(color.FgCyan, color.Bold)
)

func printDashboard(w io.Writer, d dashboard.DashboardResponse) {
	st := d.Stats
	title.Fprintln(w, "Hoy")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Medicamentos activos\t%d\n", st.ActiveMedicines)
	fmt.Fprintf(tw, "Stock bajo\t%s\n", countColor(st.LowStockMedicines, warn))
	fmt.Fprintf(tw, "Dosis tomadas\t%s\n", st.TodaysDoseCompletion)
	fmt.Fprintf(tw, "Próximas 4h\t%d\n", st.UpcomingReminders)
	fmt.Fprintf(tw, "Turnos pendientes\t%d\n", st.UpcomingAppointments)
	_ = tw.Flush()

	if d.NextAppointment != nil {
		a := d.NextAppointment
		fmt.Fprintf(w, "\nPróximo turno: %s %s con %s (%s)\n", a.Date, a.Time, a.DoctorName, a.Location)
	}

	if len(d.OverdueReminders) > 0 {
		fmt.Fprintln(w)
		alert.Fprintln(w, "Vencidos")
		printReminders(w, d.OverdueReminders)
	}
	if len(d.UpcomingReminders) > 0 {
		fmt.Fprintln(w)
		title.Fprintln(w, "Próximos")
		printReminders(w, d.UpcomingReminders)
	}
}

func printMedicines(w io.Writer, items []medicines.MedicineResponse) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE\tDOSIS\tSTOCK\tUMBRAL")
	for _, m := range items {
		stock := fmt.Sprintf("%d", m.Stock)
		if m.LowStock {
			stock = warn.Sprint(stock)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", m.ID, m.Name, m.Dosage, stock, m.Threshold)
	}
	_ = tw.Flush()
}

func printReminders(w io.Writer, items []reminders.ReminderResponse) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMEDICAMENTO\tHORA\tESTADO")
	for _, r := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.ID, r.Medicine.Name, r.ReminderTime.Local().Format(time.DateTime), statusColor(r.Status))
	}
	_ = tw.Flush()
}

func statusColor(s reminders.Status) string {
	switch s {
	case reminders.StatusMissed:
		return alert.Sprint(s)
	case reminders.StatusTaken:
		return ok.Sprint(s)
	default:
		return string(s)
	}
}

func countColor(n int, c *color.Color) string {
	if n == 0 {
		return "0"
	}
	return c.Sprint(n)
}

func oneMedicine(m medicines.MedicineResponse) []medicines.MedicineResponse {
	return []medicines.MedicineResponse{m}
}

func oneReminder(r reminders.ReminderResponse) []reminders.ReminderResponse {
	return []reminders.ReminderResponse{r}
}
