package numerology

import dErrors "cosmonumero/pkg/domain-errors"

func invalidInput(msg string) error {
	return dErrors.New(dErrors.CodeInvalidInput, msg)
}

// IsInvalidInput reports whether err is an input rejection from this package.
func IsInvalidInput(err error) bool {
	return dErrors.HasCode(err, dErrors.CodeInvalidInput)
}
