package repository

import "errors"

// ErrNotFound indicates an entity was not located.
var ErrNotFound = errors.New("repository: not found")

// ErrInvalidArgument indicates the store rejected the supplied values.
var ErrInvalidArgument = errors.New("repository: invalid argument")

// ErrVersionConflict indicates a deployment insert violated the
// (project, version) uniqueness constraint.
var ErrVersionConflict = errors.New("repository: deployment version conflict")
