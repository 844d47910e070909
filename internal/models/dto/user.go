package dto

import "github.com/hongminglow/myrent-be/internal/models"

const dateLayout = "2006-01-02"

// Profile is the self view returned by /api/users/me.
type Profile struct {
	ID               int64       `json:"id"`
	Role             models.Role `json:"role"`
	Name             string      `json:"name"`
	DateOfBirth      string      `json:"dateOfBirth,omitempty"`
	Email            string      `json:"email"`
	Phone            string      `json:"phone"`
	Address          string      `json:"address,omitempty"`
	NIN              string      `json:"nin,omitempty"`
	MaritalStatus    string      `json:"maritalStatus,omitempty"`
	PassportPhotoURL string      `json:"passportPhotoUrl,omitempty"`
}

func NewProfile(u models.User) Profile {
	p := Profile{
		ID:               u.ID,
		Role:             u.Role,
		Name:             u.Name,
		Email:            u.Email,
		Phone:            u.Phone,
		Address:          u.Address,
		NIN:              u.NIN,
		MaritalStatus:    u.MaritalStatus,
		PassportPhotoURL: u.PassportPhotoURL,
	}
	if !u.DateOfBirth.IsZero() {
		p.DateOfBirth = u.DateOfBirth.Format(dateLayout)
	}
	return p
}
