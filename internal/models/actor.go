package models

// ActorContext is the resolved identity snapshot for one request: the
// authenticated account, its optional profile rows, and the roles it holds.
// It is computed per request and passed explicitly into every operation.
type ActorContext struct {
	AccountID      int64
	UserProfileID  *int64
	CoachProfileID *int64
	Roles          []string
}

func (a ActorContext) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a ActorContext) IsUser() bool  { return a.HasRole(RoleUser) }
func (a ActorContext) IsCoach() bool { return a.HasRole(RoleCoach) }
func (a ActorContext) IsAdmin() bool { return a.HasRole(RoleAdmin) }
