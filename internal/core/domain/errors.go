package domain

import "errors"

// Authentication and session errors.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserDisabled        = errors.New("user account disabled")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidToken        = errors.New("invalid token")
	ErrMissingRefreshToken = errors.New("refresh token not provided")
	ErrForbidden           = errors.New("access forbidden")
	ErrTooManyAttempts     = errors.New("too many login attempts")
)

// Registration and user errors.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailExists      = errors.New("email already registered")
	ErrUsernameExists   = errors.New("username already taken")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrWeakPassword     = errors.New("password must have at least 8 characters, one uppercase letter and one digit")
	ErrInvalidDate      = errors.New("invalid date")
	ErrFutureBirthDate  = errors.New("birth date cannot be in the future")
	ErrInvalidAge       = errors.New("must be at least 13 years old to register")
	ErrInvalidRole      = errors.New("invalid role")
)

// Publication errors.
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post not liked")
)

// Upload errors.
var (
	ErrInvalidFileType = errors.New("file type not allowed")
	ErrFileTooLarge    = errors.New("file exceeds maximum size")
)
