package appointments

import "context"

type Repository interface {
	List(ctx context.Context) ([]Appointment, error)
	Get(ctx context.Context, id int64) (Appointment, error)
	Find(ctx context.Context, pred func(Appointment) bool) ([]Appointment, error)
	Create(ctx context.Context, build func(id int64) Appointment) (Appointment, error)
	Update(ctx context.Context, id int64, mutate func(*Appointment) error) (Appointment, error)
	Delete(ctx context.Context, id int64) error
}
