package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrConfiguration is returned when a searcher cannot be built from its configuration
	ErrConfiguration = errors.New("invalid configuration")

	// ErrUsage is returned when an operation is called in violation of its contract
	ErrUsage = errors.New("invalid usage")

	// ErrSearcherNotConfigured is returned when a query asks for a strategy the searcher does not have
	ErrSearcherNotConfigured = errors.New("searcher not configured")

	// ErrDuplicateMetaKey is returned when a key is added twice to a diagnostics bag
	ErrDuplicateMetaKey = errors.New("duplicate meta key")

	// ErrInvariantViolation is returned when internal index state is inconsistent
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrSnapshotMismatch is returned when a snapshot does not fit the searcher loading it
	ErrSnapshotMismatch = errors.New("snapshot mismatch")

	// ErrCollectionNotFound is returned when a collection is not found
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrCollectionAlreadyExists is returned when trying to create a collection that already exists
	ErrCollectionAlreadyExists = errors.New("collection already exists")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// ConfigurationError describes which part of a configuration is unusable.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error for '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(field, message string) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: message}
}

// UsageError represents a call that violates a documented precondition.
type UsageError struct {
	Operation string
	Message   string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

// NewUsageError creates a new UsageError
func NewUsageError(operation, message string) *UsageError {
	return &UsageError{Operation: operation, Message: message}
}

// SearcherNotConfiguredError is a usage error naming the missing strategy.
type SearcherNotConfiguredError struct {
	SearcherType string
}

func (e *SearcherNotConfiguredError) Error() string {
	return fmt.Sprintf("no searcher configured for type '%s'", e.SearcherType)
}

func (e *SearcherNotConfiguredError) Is(target error) bool {
	return target == ErrSearcherNotConfigured || target == ErrUsage
}

// NewSearcherNotConfiguredError creates a new SearcherNotConfiguredError
func NewSearcherNotConfiguredError(searcherType string) *SearcherNotConfiguredError {
	return &SearcherNotConfiguredError{SearcherType: searcherType}
}

// DuplicateMetaKeyError is a usage error naming the duplicated key.
type DuplicateMetaKeyError struct {
	Key string
}

func (e *DuplicateMetaKeyError) Error() string {
	return fmt.Sprintf("meta key '%s' is already present", e.Key)
}

func (e *DuplicateMetaKeyError) Is(target error) bool {
	return target == ErrDuplicateMetaKey || target == ErrUsage
}

// NewDuplicateMetaKeyError creates a new DuplicateMetaKeyError
func NewDuplicateMetaKeyError(key string) *DuplicateMetaKeyError {
	return &DuplicateMetaKeyError{Key: key}
}

// InvariantViolationError signals state that can only result from a bug.
type InvariantViolationError struct {
	Message string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Message)
}

func (e *InvariantViolationError) Is(target error) bool {
	return target == ErrInvariantViolation
}

// NewInvariantViolationError creates a new InvariantViolationError
func NewInvariantViolationError(format string, args ...interface{}) *InvariantViolationError {
	return &InvariantViolationError{Message: fmt.Sprintf(format, args...)}
}

// CollectionNotFoundError represents a collection not found error with context
type CollectionNotFoundError struct {
	Name string
}

func (e *CollectionNotFoundError) Error() string {
	return fmt.Sprintf("collection named '%s' not found", e.Name)
}

func (e *CollectionNotFoundError) Is(target error) bool {
	return target == ErrCollectionNotFound
}

// NewCollectionNotFoundError creates a new CollectionNotFoundError
func NewCollectionNotFoundError(name string) *CollectionNotFoundError {
	return &CollectionNotFoundError{Name: name}
}

// CollectionAlreadyExistsError represents a collection already exists error with context
type CollectionAlreadyExistsError struct {
	Name string
}

func (e *CollectionAlreadyExistsError) Error() string {
	return fmt.Sprintf("collection named '%s' already exists", e.Name)
}

func (e *CollectionAlreadyExistsError) Is(target error) bool {
	return target == ErrCollectionAlreadyExists
}

// NewCollectionAlreadyExistsError creates a new CollectionAlreadyExistsError
func NewCollectionAlreadyExistsError(name string) *CollectionAlreadyExistsError {
	return &CollectionAlreadyExistsError{Name: name}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
