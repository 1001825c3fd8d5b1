package appointments

import "time"

const (
	DataKey    = "appointments_data"
	CounterKey = "appointments_counter"
)

// Status del turno. No hay máquina de estados: cualquier status puede
// pasar a cualquier otro.
// @Enum UPCOMING, COMPLETED, CANCELLED
type Status string

const (
	StatusUpcoming  Status = "UPCOMING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusUpcoming, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment es un turno médico.
type Appointment struct {
	ID         int64  `json:"id"`
	DoctorName string `json:"doctorName"`
	Specialty  string `json:"specialty"`

	// Date va como YYYY-MM-DD y se ordena lexicográficamente;
	// Time es HH:MM.
	Date string `json:"date"`
	Time string `json:"time"`

	Location string `json:"location"`
	Phone    string `json:"phone,omitempty"`
	Reason   string `json:"reason,omitempty"`

	Status Status `json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a Appointment) Key() int64 { return a.ID }

type Stats struct {
	UpcomingAppointments int
}
