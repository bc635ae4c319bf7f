package model

import "errors"

var (
	// ErrTermNotFound: the repository has no property or class registered
	// for a vocabulary term. The target schema is a deployment prerequisite,
	// so this is fatal to the current operation and never retried.
	ErrTermNotFound = errors.New("vocabulary term not registered in repository")

	ErrRecordNotFound = errors.New("record not found")

	// ErrWriteRejected: the repository refused a create or update.
	ErrWriteRejected = errors.New("repository rejected the write")
)
