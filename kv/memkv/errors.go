package memkv

import "errors"

// CheckAndSetError is returned when CheckAndSet fails because of a version
// mismatch, which happens when there are multiple writers of a key.
type CheckAndSetError struct {
	Key             string
	ExpectedVersion string
	ActualVersion   string
}

func (e CheckAndSetError) Error() string {
	return "key: \"" + e.Key + "\" expected: \"" + e.ExpectedVersion + "\" actual: \"" + e.ActualVersion + "\""
}

// IsCheckAndSetError reports whether err resulted from a version mismatch.
func IsCheckAndSetError(err error) bool {
	var e CheckAndSetError
	return errors.As(err, &e)
}
