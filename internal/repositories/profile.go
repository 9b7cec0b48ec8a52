package repositories

import (
	"fmt"

	"github.com/desertthunder/prima/internal/models"
)

// ProfileRepository persists the operator's saved platform logins and their selected role.
type ProfileRepository struct {
	store *Store
}

// NewProfileRepository creates a new ProfileRepository with the given store
func NewProfileRepository(store *Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

// Credentials returns the saved logins. Entries for unknown platforms are dropped.
func (r *ProfileRepository) Credentials() (models.Credentials, error) {
	creds, err := loadJSON(r.store, KeyCredentials, func() models.Credentials { return models.Credentials{} })
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return models.Credentials{}, nil
	}

	for name := range creds {
		if !name.Valid() {
			delete(creds, name)
		}
	}
	return creds, nil
}

// SaveCredentials replaces the saved logins.
func (r *ProfileRepository) SaveCredentials(creds models.Credentials) error {
	for name := range creds {
		if !name.Valid() {
			return fmt.Errorf("validation failed: unknown platform %q", name)
		}
	}
	if creds == nil {
		creds = models.Credentials{}
	}
	return r.store.PutJSON(KeyCredentials, creds)
}

// Role returns the stored role, defaulting to operator.
func (r *ProfileRepository) Role() (models.Role, error) {
	raw, err := loadText(r.store, KeyUserRole)
	if err != nil {
		return models.RoleOperator, err
	}
	return models.ParseRole(raw), nil
}

// SetRole stores role.
func (r *ProfileRepository) SetRole(role models.Role) error {
	return r.store.PutJSON(KeyUserRole, string(models.ParseRole(string(role))))
}
