package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meta is the identity and bookkeeping block embedded (inline) in every
// persisted document. ID and Version are the fields import strips so the
// target store assigns fresh identities.
type Meta struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
	Version   int                `bson:"__v" json:"__v"`
}

// Base exposes the embedded Meta; it is how the store reaches identity
// fields on any document type.
func (m *Meta) Base() *Meta { return m }

// Entity is implemented by every document type through the embedded Meta.
type Entity interface {
	Base() *Meta
}

// ResetIdentity clears the fields a store assigns.
func (m *Meta) ResetIdentity() {
	m.ID = primitive.NilObjectID
	m.Version = 0
}

// Touch stamps timestamps for a write at now.
func (m *Meta) Touch(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}
