package accounts

import "time"

const (
	RegistryKey = "registered_users"
	SessionKey  = "current_user"
)

// Account es el usuario público (nunca lleva credenciales).
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// RegisteredUser es la entrada del registro: email + hash bcrypt + usuario.
type RegisteredUser struct {
	Email        string  `json:"email"`
	PasswordHash string  `json:"passwordHash"`
	User         Account `json:"user"`
}

// Key por id de usuario: cambiar el email no cambia la identidad.
func (u RegisteredUser) Key() string { return u.User.ID }
