package kv

import "errors"

// NotFound is the error returned when an identifier is absent on Get or
// Delete. It is never swallowed by the wrapping layer except where derived
// containment deliberately converts it to false.
type NotFound struct {
	Key string
}

func (nf NotFound) Error() string {
	return "key not found: " + nf.Key
}

// IsNotFound reports whether err means the key didn't exist, as opposed to
// something going wrong.
func IsNotFound(err error) bool {
	var nf NotFound
	return errors.As(err, &nf)
}

// InvalidKey is the error returned when a key produces an identifier the
// backend is not willing to accept. It carries the interface-facing key, not
// the rejected identifier.
type InvalidKey struct {
	Key string
}

func (ik InvalidKey) Error() string {
	return "invalid key: " + ik.Key
}

func IsInvalidKey(err error) bool {
	var ik InvalidKey
	return errors.As(err, &ik)
}

// WritesNotAllowed is the error returned by a read-only store on Set.
type WritesNotAllowed struct {
	Key string
}

func (e WritesNotAllowed) Error() string {
	return "writes not allowed: " + e.Key
}

func IsWritesNotAllowed(err error) bool {
	var e WritesNotAllowed
	return errors.As(err, &e)
}

// DeletionsNotAllowed is the error returned by a read-only store on Delete.
type DeletionsNotAllowed struct {
	Key string
}

func (e DeletionsNotAllowed) Error() string {
	return "deletions not allowed: " + e.Key
}

func IsDeletionsNotAllowed(err error) bool {
	var e DeletionsNotAllowed
	return errors.As(err, &e)
}

// OverwriteNotAllowed is the error returned by an overwrite-guarded store
// when Set targets a key that already exists. The existing value is left
// untouched.
type OverwriteNotAllowed struct {
	Key string
}

func (e OverwriteNotAllowed) Error() string {
	return "key already exists and cannot be overwritten: " + e.Key
}

func IsOverwriteNotAllowed(err error) bool {
	var e OverwriteNotAllowed
	return errors.As(err, &e)
}
