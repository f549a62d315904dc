package rating

import "errors"

var (
	ErrMissingField    = errors.New("rater_id, target_type, target_id and score are required")
	ErrInvalidTarget   = errors.New("target_type must be POI or Image")
	ErrInvalidScore    = errors.New("score must be between 0 and 10")
	ErrTargetNotFound  = errors.New("target not found")
	ErrSelfRating      = errors.New("cannot rate your own content")
	ErrDuplicateRating = errors.New("target already rated by this user")
	ErrRatingNotFound  = errors.New("rating not found")
)
