package reminders

import (
	"time"

	"medication-manager/internal/domain/medicines"
)

const (
	DataKey    = "reminders_dashboard"
	CounterKey = "reminders_counter"
)

// Reminder lleva una copia completa del medicamento al momento de crearse.
// Editar el medicamento después NO cambia los recordatorios existentes.
type Reminder struct {
	ID           int64              `json:"id"`
	Medicine     medicines.Medicine `json:"medicine"`
	ReminderTime time.Time          `json:"reminderTime"`
	Taken        bool               `json:"taken"`
	Active       bool               `json:"active"`
	TakenAt      *time.Time         `json:"takenAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r Reminder) Key() int64 { return r.ID }

// Status es una vista derivada, no se persiste.
// @Enum upcoming, taken, missed, pending
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusTaken    Status = "taken"
	StatusMissed   Status = "missed"
	StatusPending  Status = "pending"
)

// StatusAt calcula el estado visible en el instante now.
// Orden de precedencia: tomado, inactivo, vencido.
func (r Reminder) StatusAt(now time.Time) Status {
	switch {
	case r.Taken:
		return StatusTaken
	case !r.Active:
		return StatusPending
	case r.ReminderTime.Before(now):
		return StatusMissed
	default:
		return StatusUpcoming
	}
}

// View es un recordatorio con su estado derivado.
type View struct {
	Reminder
	Status Status
}

// Stats del día calendario local.
type Stats struct {
	TodaysTaken   int
	TodaysPending int
	// Upcoming cuenta todos los no tomados a futuro, sin ventana.
	Upcoming   int
	Completion string // "taken/total"; "0/0" si hoy no hay recordatorios
}
