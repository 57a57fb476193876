package domain

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUpload       = errors.New("artifact upload failed")
	ErrSubmission   = errors.New("job submission rejected")
	ErrPersistence  = errors.New("record store failure")
	ErrUpstream     = errors.New("alignment service failure")
	ErrNotFound     = errors.New("project not found")
	ErrNotReady     = errors.New("project not completed")
)
