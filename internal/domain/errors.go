package domain

import "errors"

var (
	ErrInvalidURL       = errors.New("invalid url")
	ErrSlugAlreadyInUse = errors.New("slug already in use")
	ErrSlugNotFound     = errors.New("slug not found")
)
