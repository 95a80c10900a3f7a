// Package datasets keeps uploaded tables between HTTP requests.
package datasets

import (
	"errors"
	"time"

	"dataclean/pkg/contracts/domain"
)

// Store errors
var (
	ErrNotFound      = errors.New("dataset not found")
	ErrAlreadyExists = errors.New("dataset already exists")
)

// Dataset is an ingested table plus its upload metadata. Table is immutable
// and may be shared between concurrent readers.
type Dataset struct {
	ID        string
	Filename  string
	Format    string
	Delimiter string
	Table     *domain.Table
	Profile   domain.Profile
	CreatedAt time.Time
}

// Store holds datasets by id
type Store interface {
	Create(ds *Dataset) error
	Get(id string) (*Dataset, error)
	Delete(id string) error
	Count() int
	CleanupExpired() int
}
