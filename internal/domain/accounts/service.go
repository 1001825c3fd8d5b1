package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"medication-manager/internal/ports/auth"
	"medication-manager/internal/ports/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrAlreadyExists      = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSession          = errors.New("no active session")
	ErrNotFound           = errors.New("account not found")
)

// MaxPasswordBytes es el límite de bcrypt.
const MaxPasswordBytes = 72

// TokenIssuer firma el token de sesión que devuelve login/register.
type TokenIssuer = auth.Issuer

type Service struct {
	users   Registry
	session Session
	tokens  TokenIssuer // nil: sin tokens (modo dev)

	cost int
	now  func() time.Time
	// serializa chequeo de email + escritura
	mu sync.Mutex

	dummyOnce sync.Once
	dummy     []byte
}

func NewService(users Registry, session Session, tokens TokenIssuer) *Service {
	return &Service{
		users:   users,
		session: session,
		tokens:  tokens,
		cost:    bcrypt.DefaultCost,
		now:     time.Now,
	}
}

// WithCost cambia el costo bcrypt (los tests usan bcrypt.MinCost).
func (s *Service) WithCost(cost int) *Service {
	s.cost = cost
	return s
}

type Patch struct {
	Name  *string
	Email *string
}

// AuthResult es lo que devuelven register/login.
type AuthResult struct {
	Account Account
	Token   string
}

func (s *Service) Register(ctx context.Context, name, email, password string) (AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return AuthResult{}, ErrInvalidInput
	}
	if len(password) > MaxPasswordBytes {
		return AuthResult{}, fmt.Errorf("%w: password longer than %d bytes", ErrInvalidInput, MaxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return AuthResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	taken, err := s.emailTaken(ctx, email, "")
	if err != nil {
		return AuthResult{}, err
	}
	if taken {
		return AuthResult{}, ErrAlreadyExists
	}

	acc := Account{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: s.now().UTC(),
	}
	if _, err := s.users.Insert(ctx, RegisteredUser{
		Email:        email,
		PasswordHash: string(hash),
		User:         acc,
	}); err != nil {
		return AuthResult{}, err
	}

	return s.startSession(ctx, acc)
}

// Login valida el par email/password. Con email desconocido igual corre
// una comparación bcrypt para no filtrar qué emails existen por tiempo.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.TrimSpace(email)

	found, err := s.users.Find(ctx, func(u RegisteredUser) bool { return u.Email == email })
	if err != nil {
		return AuthResult{}, err
	}
	if len(found) == 0 {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash(), []byte(password))
		return AuthResult{}, ErrInvalidCredentials
	}

	u := found[0]
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	return s.startSession(ctx, u.User)
}

// Logout es idempotente.
func (s *Service) Logout(ctx context.Context) error {
	return s.session.Clear(ctx)
}

func (s *Service) CurrentUser(ctx context.Context) (Account, bool, error) {
	return s.session.Load(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (Account, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	return u.User, nil
}

// UpdateProfile actualiza la cuenta de la sesión actual.
func (s *Service) UpdateProfile(ctx context.Context, p Patch) (Account, error) {
	cur, ok, err := s.session.Load(ctx)
	if err != nil {
		return Account{}, err
	}
	if !ok {
		return Account{}, ErrNoSession
	}
	return s.UpdateAccount(ctx, cur.ID, p)
}

// UpdateAccount mergea el patch en el registro y, si esa cuenta es la de
// la sesión, también en la sesión.
func (s *Service) UpdateAccount(ctx context.Context, id string, p Patch) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var newEmail string
	if p.Email != nil {
		newEmail = strings.TrimSpace(*p.Email)
		if newEmail == "" {
			return Account{}, ErrInvalidInput
		}
		taken, err := s.emailTaken(ctx, newEmail, id)
		if err != nil {
			return Account{}, err
		}
		if taken {
			return Account{}, ErrAlreadyExists
		}
	}

	u, err := s.users.Update(ctx, id, func(u *RegisteredUser) error {
		if p.Name != nil {
			u.User.Name = strings.TrimSpace(*p.Name)
		}
		if p.Email != nil {
			u.Email = newEmail
			u.User.Email = newEmail
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}

	cur, ok, err := s.session.Load(ctx)
	if err != nil {
		return Account{}, err
	}
	if ok && cur.ID == id {
		if err := s.session.Store(ctx, u.User); err != nil {
			return Account{}, err
		}
	}
	return u.User, nil
}

func (s *Service) startSession(ctx context.Context, acc Account) (AuthResult, error) {
	if err := s.session.Store(ctx, acc); err != nil {
		return AuthResult{}, err
	}

	res := AuthResult{Account: acc}
	if s.tokens != nil {
		tok, err := s.tokens.Issue(auth.Claims{UserID: acc.ID, Email: acc.Email})
		if err != nil {
			return AuthResult{}, fmt.Errorf("issue token: %w", err)
		}
		res.Token = tok
	}
	return res, nil
}

// emailTaken ignora la cuenta exceptID (para updates sobre uno mismo).
func (s *Service) emailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	found, err := s.users.Find(ctx, func(u RegisteredUser) bool {
		return u.Email == email && u.User.ID != exceptID
	})
	if err != nil {
		return false, err
	}
	return len(found) > 0, nil
}

func (s *Service) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummy, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
	})
	return s.dummy
}
