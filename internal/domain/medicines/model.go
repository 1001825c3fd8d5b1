package medicines

import "time"

// Keys del sustrato donde vive la colección.
const (
	DataKey    = "medicines_data"
	CounterKey = "medicines_counter"
)

// Medicine es un medicamento del usuario con su stock de dosis.
// Los tags JSON son el formato persistido (no el de la API).
type Medicine struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Dosage      string   `json:"dosage"`      // "500mg"
	Frequency   string   `json:"frequency"`   // texto libre: "2 veces al día"
	IntakeTimes []string `json:"intakeTimes"` // "08:00", "20:00"

	Stock     int `json:"stock"`
	Threshold int `json:"threshold"` // nivel de reposición

	Notes  string `json:"notes,omitempty"`
	Active bool   `json:"active"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Key identifica el registro dentro de la colección.
func (m Medicine) Key() int64 { return m.ID }

// LowStock: stock igual o por debajo del umbral (incluye el borde).
func (m Medicine) LowStock() bool { return m.Stock <= m.Threshold }

type Stats struct {
	ActiveMedicines   int
	LowStockMedicines int
}
