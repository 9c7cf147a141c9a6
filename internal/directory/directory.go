// Package directory holds the fixed employee credential directory. There is
// no user management: the roster is seeded once at startup and passwords are
// bcrypt-hashed at seed time, so plaintext never lives beyond construction.
package directory

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/fleetflow/navigator/backend/internal/domain"
)

// Seed is one employee record as provided at startup.
type Seed struct {
	ID       string
	Name     string
	Role     domain.Role
	Password string
}

type record struct {
	identity domain.Identity
	hash     []byte
}

// Directory is an immutable in-memory credential directory.
type Directory struct {
	users map[string]record
}

// New builds a directory from seeds, hashing each password with bcrypt.
func New(seeds []Seed) (*Directory, error) {
	users := make(map[string]record, len(seeds))
	for _, s := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("directory.New: hash password for %q: %w", s.ID, err)
		}
		users[s.ID] = record{
			identity: domain.Identity{ID: s.ID, Name: s.Name, Role: s.Role},
			hash:     hash,
		}
	}
	return &Directory{users: users}, nil
}

// Default returns the stock four-employee roster.
func Default() (*Directory, error) {
	return New([]Seed{
		{ID: "driver1", Name: "John Driver", Role: domain.RoleDriver, Password: "driver123"},
		{ID: "driver2", Name: "Alice Driver", Role: domain.RoleDriver, Password: "driver123"},
		{ID: "manager1", Name: "Jane Manager", Role: domain.RoleManager, Password: "manager123"},
		{ID: "manager2", Name: "Bob Manager", Role: domain.RoleManager, Password: "manager123"},
	})
}

// Authenticate checks an employee ID and password against the directory.
// On failure it returns domain.ErrAuthentication with no indication of
// which field was wrong.
func (d *Directory) Authenticate(employeeID, password string) (domain.Identity, error) {
	rec, ok := d.users[employeeID]
	if !ok {
		// Burn a comparison anyway so unknown IDs take the same time as
		// wrong passwords.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return domain.Identity{}, domain.ErrAuthentication
	}
	if err := bcrypt.CompareHashAndPassword(rec.hash, []byte(password)); err != nil {
		return domain.Identity{}, domain.ErrAuthentication
	}
	return rec.identity, nil
}

// dummyHash is a valid bcrypt hash of an unguessable value, used to equalize
// timing for unknown employee IDs.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("fleetflow-timing-pad"), bcrypt.DefaultCost)
	if err != nil {
		panic("directory: generate dummy hash: " + err.Error())
	}
	return h
}()
