package banking

import (
	"strings"

	"github.com/billbook/backend/internal/domain/shared"
)

// Bank is an entry in the shared list of bank names offered when recording
// transactions
type Bank struct {
	shared.BaseEntity
	Name string
}

// Partner is a counterparty other transactions can be attributed to
type Partner struct {
	shared.BaseEntity
	Name string
}

// NewBank creates a bank catalog entry
func NewBank(name string) (*Bank, error) {
	name, err := catalogName(name, 100)
	if err != nil {
		return nil, err
	}
	return &Bank{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}

// NewPartner creates a partner catalog entry
func NewPartner(name string) (*Partner, error) {
	name, err := catalogName(name, 255)
	if err != nil {
		return nil, err
	}
	return &Partner{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}

func catalogName(name string, limit int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewValidationError().Add("name", "This field is required.")
	}
	if len(name) > limit {
		return "", shared.NewValidationError().Add("name", "Name is too long.")
	}
	return name, nil
}
