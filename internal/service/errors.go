package service

import "errors"

var (
	ErrClientNotFound       = errors.New("client not found")
	ErrLoadFailed           = errors.New("failed to load posts")
	ErrGroupNotFound        = errors.New("post group not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrInvalidChangeRequest = errors.New("invalid change request")
)
