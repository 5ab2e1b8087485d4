package domain

// ValidationError reports malformed or missing caller input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// ConflictError reports that the store rejected a write. Message is what the
// caller sees; Err keeps the store error for logs.
type ConflictError struct {
	Message string
	Err     error
}

func (e *ConflictError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ConflictError) Unwrap() error { return e.Err }
