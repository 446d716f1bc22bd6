package db

// DuplicateKeyError is an error type for duplicate key errors
type DuplicateKeyError struct {
	Key     string
	Message string
}

func (e *DuplicateKeyError) Error() string {
	return e.Message
}

func IsDuplicateKeyError(err error) bool {
	_, ok := err.(*DuplicateKeyError)
	return ok
}

// Not found Error
type NotFoundError struct {
	Key     string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func IsNotFoundError(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// AmbiguousMatchError is returned when a wallet+amount lookup matched more
// than one non-terminal request. Callers must treat it as a no-op signal,
// never pick one of the matches.
type AmbiguousMatchError struct {
	Key     string
	Message string
}

func (e *AmbiguousMatchError) Error() string {
	return e.Message
}

func IsAmbiguousMatchError(err error) bool {
	_, ok := err.(*AmbiguousMatchError)
	return ok
}
