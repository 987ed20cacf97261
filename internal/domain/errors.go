package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrAlreadyMember = errors.New("already a member of a group")
	ErrNotAMember    = errors.New("not a member of any group")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRateLimited   = errors.New("rate limited")
	ErrLockHeld      = errors.New("lock already held")
)
