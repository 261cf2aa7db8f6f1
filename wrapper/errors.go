package wrapper

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrNoPermission is the sentinel wrapped by PermissionError.
	ErrNoPermission = errors.New("wrapper: no permission")

	// ErrInvalidTarget is returned when recovery targets the custody
	// address.
	ErrInvalidTarget = errors.New("wrapper: cannot recover from the custody address")
)

// PermissionError reports the first party that failed the eligibility
// policy during a gated operation. Sender is checked before receiver.
type PermissionError struct {
	Addr common.Address
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("wrapper: no permission for %s", e.Addr.Hex())
}

// Unwrap makes errors.Is(err, ErrNoPermission) hold.
func (e *PermissionError) Unwrap() error {
	return ErrNoPermission
}
