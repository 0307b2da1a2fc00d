// Package domain contains the core data types for the metro router.
// This package has no dependencies beyond google/uuid and is imported by every
// other internal package (network, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Line is a named metro line. Color is for display only and plays no part
// in routing.
type Line struct {
	ID        uuid.UUID
	Name      string `validate:"required,max=100"`
	Color     string `validate:"required,max=32"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
