package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity is a domain object with a stable identity.
type Entity interface {
	ID() uuid.UUID
	CreatedAt() time.Time
	Equals(other Entity) bool
}

// BaseEntity carries the identity and creation instant shared by every entity.
type BaseEntity struct {
	id        uuid.UUID
	createdAt time.Time
}

// NewBaseEntity creates an entity with a fresh ID created at the given instant.
func NewBaseEntity(createdAt time.Time) BaseEntity {
	return BaseEntity{
		id:        uuid.New(),
		createdAt: createdAt.UTC(),
	}
}

// RehydrateBaseEntity recreates an entity from persisted state.
func RehydrateBaseEntity(id uuid.UUID, createdAt time.Time) BaseEntity {
	if id == uuid.Nil {
		id = uuid.New()
	}
	return BaseEntity{
		id:        id,
		createdAt: createdAt.UTC(),
	}
}

func (e BaseEntity) ID() uuid.UUID        { return e.id }
func (e BaseEntity) CreatedAt() time.Time { return e.createdAt }

// Equals checks if two entities have the same identity.
func (e BaseEntity) Equals(other Entity) bool {
	if other == nil {
		return false
	}
	return e.id == other.ID()
}
