// Package repository implements the entity store on PostgreSQL. Each
// repository translates driver errors into the domain taxonomy: a missing
// row becomes ErrNotFound, any other database failure becomes
// ErrStoreUnavailable with the driver error preserved in the chain.
package repository

import (
	"fmt"

	"github.com/yourorg/roombook/internal/domain"
)

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

func notFoundErr(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, domain.ErrNotFound)
}
