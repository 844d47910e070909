package models

import "time"

// User captures an account and its role-conditional profile.
// Landlord rows carry Address, NIN and PassportPhotoURL; tenant rows carry MaritalStatus.
type User struct {
	ID               int64     `json:"id"`
	Role             Role      `json:"role"`
	Name             string    `json:"name"`
	DateOfBirth      time.Time `json:"-"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address,omitempty"`
	NIN              string    `json:"nin,omitempty"`
	PassportPhotoURL string    `json:"passportPhotoUrl,omitempty"`
	MaritalStatus    string    `json:"maritalStatus,omitempty"`
	PasswordHash     string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Principal is the identity the access gate attaches to a request.
type Principal struct {
	ID    int64  `json:"id"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Principal returns the request identity view of u.
func (u User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role, Name: u.Name, Email: u.Email}
}
