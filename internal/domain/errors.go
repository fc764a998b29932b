package domain

// errors.go defines domain-specific error types.
type domainErr struct {
	message string
}

// Error returns the error message.
func (e domainErr) Error() string {
	return e.message
}

// NotFoundErr represents an error when a requested entity is not found.
type NotFoundErr struct {
	domainErr
}

// NewNotFoundErr creates a new NotFoundErr with the given message.
func NewNotFoundErr(message string) *NotFoundErr {
	return &NotFoundErr{
		domainErr: domainErr{message: message},
	}
}

// ValidationErr represents an error when validation fails.
type ValidationErr struct {
	domainErr
}

// NewValidationErr creates a new ValidationErr with the given message.
func NewValidationErr(message string) *ValidationErr {
	return &ValidationErr{
		domainErr: domainErr{message: message},
	}
}

// ModelUnavailableErr means the embedding model could not be loaded or failed
// mid-batch. It is fatal for a whole generation run: continuing with partial or
// zero vectors would silently corrupt every downstream similarity search.
type ModelUnavailableErr struct {
	domainErr
}

// NewModelUnavailableErr creates a new ModelUnavailableErr with the given message.
func NewModelUnavailableErr(message string) *ModelUnavailableErr {
	return &ModelUnavailableErr{
		domainErr: domainErr{message: message},
	}
}

// StorageErr represents a per-device read or upsert failure in the embedding
// store. Recoverable: the generator counts it and moves on to the next device.
type StorageErr struct {
	domainErr
}

// NewStorageErr creates a new StorageErr with the given message.
func NewStorageErr(message string) *StorageErr {
	return &StorageErr{
		domainErr: domainErr{message: message},
	}
}
