package identity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	keyUserID      = "user_id"
	keyDisplayName = "username"
)

// Identity derives and persists the stable participant id and display name.
// The id is session-scoped; the display name is long-lived.
type Identity struct {
	store *Store
}

func New(store *Store) *Identity {
	return &Identity{store: store}
}

// UserID returns the persisted participant id, generating and persisting a
// fresh opaque token on first use. Storage absence is the initial, valid
// state, not an error.
func (i *Identity) UserID() (string, error) {
	id, ok, err := i.store.Get(ScopeSession, keyUserID)
	if err != nil {
		return "", err
	}
	if ok {
		return id, nil
	}
	id = "user_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	if err := i.store.Put(ScopeSession, keyUserID, id); err != nil {
		return "", err
	}
	log.Debug().Str("user_id", id).Msg("generated new session identity")
	return id, nil
}

// DisplayName returns the persisted display name, defaulting to a name
// derived from the trailing characters of the participant id.
func (i *Identity) DisplayName() (string, error) {
	name, ok, err := i.store.Get(ScopeLocal, keyDisplayName)
	if err != nil {
		return "", err
	}
	if ok && name != "" {
		return name, nil
	}
	id, err := i.UserID()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Player_%s", id[len(id)-4:]), nil
}

// SetDisplayName persists a chosen display name.
func (i *Identity) SetDisplayName(name string) error {
	return i.store.Put(ScopeLocal, keyDisplayName, name)
}
