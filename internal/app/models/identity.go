package models

// Identity is the authenticated principal returned by the auth guard.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == "admin"
}

// CanAccess reports whether the identity may read resources owned by ownerID.
func (i *Identity) CanAccess(ownerID string) bool {
	if i == nil {
		return false
	}
	return i.IsAdmin() || i.UserID == ownerID
}
