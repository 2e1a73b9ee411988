// Package permission models the permission grants returned by the gateway
// and evaluates them against (type, object, action) filters.
package permission

import "slices"

// ObjectType identifies the kind of object a grant applies to.
type ObjectType string

const (
	TypeSystem          ObjectType = "SYSTEM"
	TypeConnection      ObjectType = "CONNECTION"
	TypeConnectionGroup ObjectType = "CONNECTION_GROUP"
	TypeUser            ObjectType = "USER"
)

// Action is the operation a grant allows.
type Action string

const (
	ActionRead                  Action = "READ"
	ActionUpdate                Action = "UPDATE"
	ActionDelete                Action = "DELETE"
	ActionAdminister            Action = "ADMINISTER"
	ActionCreateConnection      Action = "CREATE_CONNECTION"
	ActionCreateConnectionGroup Action = "CREATE_CONNECTION_GROUP"
	ActionCreateUser            Action = "CREATE_USER"
)

// Grant is a single permission. ObjectID is empty for system grants.
type Grant struct {
	ObjectType ObjectType `json:"objectType" yaml:"type"`
	ObjectID   string     `json:"objectIdentifier,omitempty" yaml:"object,omitempty"`
	Action     Action     `json:"permissionType" yaml:"action"`
}

// Set is the collection of grants held by one user.
type Set struct {
	Grants []Grant `json:"grants"`
}

// Len returns the number of grants in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Grants)
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	if s == nil {
		return nil
	}
	return &Set{Grants: slices.Clone(s.Grants)}
}

// Checker evaluates permission sets.
type Checker struct{}

// Check reports whether set contains a grant matching every non-empty
// filter. An empty objectType or objectID matches any value; action is
// always compared.
func (Checker) Check(set *Set, objectType ObjectType, objectID string, action Action) bool {
	if set == nil {
		return false
	}

	for _, g := range set.Grants {
		if objectType != "" && g.ObjectType != objectType {
			continue
		}
		if objectID != "" && g.ObjectID != objectID {
			continue
		}
		if action != "" && g.Action != action {
			continue
		}
		return true
	}

	return false
}

// IsAdmin reports whether set grants ADMINISTER on the system.
func IsAdmin(c Checker, set *Set) bool {
	return c.Check(set, TypeSystem, "", ActionAdminister)
}
