package reports

import "context"

type Repository interface {
	List(ctx context.Context) ([]Report, error)
	Get(ctx context.Context, id string) (Report, error)
	Find(ctx context.Context, pred func(Report) bool) ([]Report, error)
	Insert(ctx context.Context, rec Report) (Report, error)
	Delete(ctx context.Context, id string) error
}
