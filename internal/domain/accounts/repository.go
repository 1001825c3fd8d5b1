package accounts

import "context"

// Registry es el almacenamiento de cuentas registradas.
type Registry interface {
	List(ctx context.Context) ([]RegisteredUser, error)
	Get(ctx context.Context, id string) (RegisteredUser, error)
	Find(ctx context.Context, pred func(RegisteredUser) bool) ([]RegisteredUser, error)
	Insert(ctx context.Context, rec RegisteredUser) (RegisteredUser, error)
	Update(ctx context.Context, id string, mutate func(*RegisteredUser) error) (RegisteredUser, error)
}

// Session es el slot único con la cuenta logueada.
type Session interface {
	Load(ctx context.Context) (Account, bool, error)
	Store(ctx context.Context, a Account) error
	Clear(ctx context.Context) error
}
