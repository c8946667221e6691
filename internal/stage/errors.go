package stage

import "errors"

var (
	ErrDependencyUnmet = errors.New("required prior stage did not succeed")
	ErrToolFailure     = errors.New("external tool failed")
	ErrPublishPartial  = errors.New("some publish destinations failed")
)
