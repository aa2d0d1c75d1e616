package domain

import "errors"

var (
	// ErrUnknownUser indicates an identifier absent from the profile store or graph.
	ErrUnknownUser = errors.New("unknown user")
	// ErrModelNotTrained is returned when inference is requested before training completed.
	ErrModelNotTrained = errors.New("model not trained")
	// ErrInvalidClassifierKind indicates an unrecognized model family.
	ErrInvalidClassifierKind = errors.New("invalid classifier kind")
	// ErrInsufficientData is returned when a training set is empty or holds a single class.
	ErrInsufficientData = errors.New("insufficient training data")
	// ErrSelfFriendship rejects edges from a user to itself.
	ErrSelfFriendship = errors.New("user cannot befriend itself")
	// ErrDuplicateUser rejects a profile whose identifier already exists.
	ErrDuplicateUser = errors.New("user already exists")
)
