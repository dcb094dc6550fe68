package services

import "arogya-records/internal/core/domain"

// RequireAnyRole grants access when the session holds at least one of the
// required roles. An empty required list grants nothing.
func RequireAnyRole(sessionRoles []string, required ...string) error {
	for _, want := range required {
		for _, have := range sessionRoles {
			if have == want {
				return nil
			}
		}
	}
	return domain.ErrForbidden
}
