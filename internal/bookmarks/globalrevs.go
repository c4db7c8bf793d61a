package bookmarks

import "github.com/bookmarkd/bookmarkd/internal/config"

// RequireGlobalrevsDisabled guards the public movement path: an operation
// that would allocate global revision numbers is incompatible with
// client-driven git mapping population, so repositories with globalrev
// assignment enabled reject these operations outright.
func RequireGlobalrevsDisabled(pushrebase config.PushrebaseParams) error {
	if pushrebase.AssignGlobalrevs {
		return NewConfigurationConflict(
			"cannot move public bookmarks while global revision assignment is enabled")
	}
	return nil
}
