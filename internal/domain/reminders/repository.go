package reminders

import "context"

type Repository interface {
	List(ctx context.Context) ([]Reminder, error)
	Get(ctx context.Context, id int64) (Reminder, error)
	Find(ctx context.Context, pred func(Reminder) bool) ([]Reminder, error)
	Create(ctx context.Context, build func(id int64) Reminder) (Reminder, error)
	Update(ctx context.Context, id int64, mutate func(*Reminder) error) (Reminder, error)
	Delete(ctx context.Context, id int64) error
}
