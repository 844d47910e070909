package dto

import "github.com/hongminglow/myrent-be/internal/models"

// SignupRequest is the loose wire form; auth.ParseSignup narrows it by role.
type SignupRequest struct {
	Role             string `json:"role"`
	Name             string `json:"name"`
	DateOfBirth      string `json:"dateOfBirth"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	NIN              string `json:"nin"`
	PassportPhotoURL string `json:"passportPhotoUrl"`
	MaritalStatus    string `json:"maritalStatus"`
}

type SignupResponse struct {
	UserID int64 `json:"userId"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string           `json:"token"`
	User  models.Principal `json:"user"`
}
