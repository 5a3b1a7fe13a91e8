package errors

import "github.com/pkg/errors"

var (
	ErrInvalidAmountFormat = errors.New("invalid amount format")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrMissingCredential   = errors.New("missing credential: private key is required")
	ErrDecodeFailure       = errors.New("failed to decode log")
	ErrInvalidNetwork      = errors.New("invalid network")
	ErrInvalidParameter    = errors.New("invalid parameter")
	ErrInvalidTrigger      = errors.New("invalid trigger configuration")
	ErrUnknownOperation    = errors.New("unknown resource operation")
	ErrClientExists        = errors.New("client already exists in registry")
	ErrClientNotFound      = errors.New("client not found")
	ErrNotImplemented      = errors.New("functionality not implemented")
)
