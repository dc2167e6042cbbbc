package engine

import "errors"

var (
	ErrInsufficientEntrants = errors.New("at least two entrants are required to spin")
	ErrAlreadySpinning      = errors.New("wheel is already spinning")
	ErrCapacityExceeded     = errors.New("entrant limit reached")
	ErrEmptyEntrant         = errors.New("entrant name is empty")
	ErrIndexOutOfRange      = errors.New("entrant index out of range")
	ErrListLocked           = errors.New("entrant list is locked while spinning")
	ErrNoSpinInFlight       = errors.New("no matching spin in flight")
	ErrUnsupportedCommand   = errors.New("unsupported command")
	ErrInvalidConfig        = errors.New("invalid wheel config")
)
