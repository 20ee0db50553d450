package model

import "time"

type Role string

const (
	RoleUnset  Role = ""
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller
}

// User is the identity record created on first sign-in. Role is set exactly
// once; AccessToken is only ever present for sellers that linked a calendar.
type User struct {
	ID          string    `json:"id" bson:"_id" validate:"required"`
	Email       string    `json:"email" bson:"email" validate:"required,email"`
	Role        Role      `json:"role,omitempty" bson:"role,omitempty" validate:"omitempty,oneof=buyer seller"`
	AccessToken string    `json:"-" bson:"access_token,omitempty" validate:"omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
