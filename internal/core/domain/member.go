package domain

// Member is a community member as reported by the messaging gateway.
type Member struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Mention     string   `json:"mention"`
	Roles       []string `json:"roles"`
}

// HasRole reports whether the member currently holds the named role.
func (m Member) HasRole(name string) bool {
	for _, r := range m.Roles {
		if r == name {
			return true
		}
	}
	return false
}
