package normalize

import "errors"

var (
	errEmptyClose = errors.New("close must not be empty")
	errBadClose   = errors.New("close is not a decimal number")
)
