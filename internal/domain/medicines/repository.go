package medicines

import "context"

type Repository interface {
	List(ctx context.Context) ([]Medicine, error)
	Get(ctx context.Context, id int64) (Medicine, error)
	Find(ctx context.Context, pred func(Medicine) bool) ([]Medicine, error)
	Create(ctx context.Context, build func(id int64) Medicine) (Medicine, error)
	Update(ctx context.Context, id int64, mutate func(*Medicine) error) (Medicine, error)
	Delete(ctx context.Context, id int64) error
}
