package entity

import "time"

// Status is the lifecycle state of a user record. Transitions only move
// forward: ACTIVE -> DISABLED -> DELETED, or ACTIVE -> DELETED directly.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusDisabled Status = "DISABLED"
	StatusDeleted  Status = "DELETED"
)

// Role is one of the fixed authorization roles assigned to a user.
type Role string

const (
	RoleOwner      Role = "OWNER"
	RoleOperator   Role = "OPERATOR"
	RoleMaintainer Role = "MAINTAINER"
	RoleDeveloper  Role = "DEVELOPER"
	RoleReporter   Role = "REPORTER"
)

// User is the aggregate root for the registry domain.
// Email is stored lowercase and CodiceFiscale uppercase; both are unique
// across the whole table, deleted records included.
type User struct {
	ID            string
	Username      string
	Email         string
	CodiceFiscale string
	Nome          string
	Cognome       string
	Roles         []Role
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
