// Package authz holds the authorization predicates used across handlers and
// the domain layer: a role/action table and an ownership check over any
// resource that exposes its owner.
package authz

type Role string
type Action string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

const (
	ActionAsk       Action = "ask"
	ActionAnswer    Action = "answer"
	ActionVote      Action = "vote"
	ActionModerate  Action = "moderate"
	ActionBroadcast Action = "broadcast"
)

// Principal is the authenticated actor attached to a request.
type Principal struct {
	UserID int
	Role   Role
	Banned bool
}

// Owned is any resource with a single owning user.
type Owned interface {
	OwnerID() int
}

func Can(role Role, action Action) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleUser:
		return action == ActionAsk || action == ActionAnswer || action == ActionVote
	default:
		return false
	}
}

// Owns reports whether the principal is the resource's owner. Role is
// deliberately ignored: ownership rules (accepting an answer, editing a
// notification inbox) bind to the owning user regardless of any role hint.
func (p Principal) Owns(r Owned) bool {
	return p.UserID == r.OwnerID()
}

func Normalize(role string) Role {
	switch Role(role) {
	case RoleUser, RoleAdmin:
		return Role(role)
	default:
		return RoleUser
	}
}
