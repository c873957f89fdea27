package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is implemented by every persistent domain object.
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity carries the identity and bookkeeping columns shared by all
// domain entities. Embed it; construct it through NewBaseEntity or a
// persistence mapper.
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity returns a BaseEntity with a fresh UUID and both
// timestamps set to now.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (e *BaseEntity) GetID() uuid.UUID { return e.ID }

func (e *BaseEntity) GetCreatedAt() time.Time { return e.CreatedAt }

func (e *BaseEntity) GetUpdatedAt() time.Time { return e.UpdatedAt }
