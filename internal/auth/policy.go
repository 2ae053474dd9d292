package auth

import "strings"

// AdminPolicy decides whether an authenticated email may use the admin
// endpoints.
type AdminPolicy func(email string) bool

// NewAllowlistPolicy admits exactly the listed emails, case-insensitively.
func NewAllowlistPolicy(emails []string) AdminPolicy {
	allowed := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			allowed[e] = struct{}{}
		}
	}
	return func(email string) bool {
		_, ok := allowed[strings.ToLower(strings.TrimSpace(email))]
		return ok
	}
}
