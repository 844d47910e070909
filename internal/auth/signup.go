package auth

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hongminglow/myrent-be/internal/apperr"
	"github.com/hongminglow/myrent-be/internal/models"
	"github.com/hongminglow/myrent-be/internal/models/dto"
)

const dateLayout = "2006-01-02"

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// Signup is a validated registration. The only implementations are LandlordSignup and
// TenantSignup.
type Signup interface {
	Role() models.Role
	Credentials() Profile
	user(passwordHash string) models.User
}

// Profile holds the fields every account has.
type Profile struct {
	Name        string
	DateOfBirth time.Time
	Email       string
	Phone       string
	Password    string
}

type LandlordSignup struct {
	Profile
	Address          string
	NIN              string
	PassportPhotoURL string
}

type TenantSignup struct {
	Profile
	MaritalStatus string
}

func (LandlordSignup) Role() models.Role { return models.RoleLandlord }
func (TenantSignup) Role() models.Role   { return models.RoleTenant }

func (s LandlordSignup) Credentials() Profile { return s.Profile }
func (s TenantSignup) Credentials() Profile   { return s.Profile }

func (s LandlordSignup) user(passwordHash string) models.User {
	u := s.Profile.user(models.RoleLandlord, passwordHash)
	u.Address = s.Address
	u.NIN = s.NIN
	u.PassportPhotoURL = s.PassportPhotoURL
	return u
}

func (s TenantSignup) user(passwordHash string) models.User {
	u := s.Profile.user(models.RoleTenant, passwordHash)
	u.MaritalStatus = s.MaritalStatus
	return u
}

func (p Profile) user(role models.Role, passwordHash string) models.User {
	return models.User{
		Role:         role,
		Name:         p.Name,
		DateOfBirth:  p.DateOfBirth,
		Email:        p.Email,
		Phone:        p.Phone,
		PasswordHash: passwordHash,
	}
}

// ParseSignup validates req and narrows it to the variant for its role.
func ParseSignup(req dto.SignupRequest) (Signup, error) {
	role := models.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	profile, err := ParseProfile(req.Name, req.DateOfBirth, req.Email, req.Phone, req.Password)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return nil, apperr.Validation("missing required fields")
	}
	if !role.SelfService() {
		return nil, apperr.Validation(`invalid role specified; must be "tenant" or "landlord"`)
	}

	switch role {
	case models.RoleLandlord:
		s := LandlordSignup{
			Profile:          profile,
			Address:          strings.TrimSpace(req.Address),
			NIN:              strings.TrimSpace(req.NIN),
			PassportPhotoURL: strings.TrimSpace(req.PassportPhotoURL),
		}
		if s.Address == "" || s.NIN == "" || s.PassportPhotoURL == "" {
			return nil, apperr.Validation("landlord registration requires address, nin, and passportPhotoUrl")
		}
		return s, nil
	default:
		s := TenantSignup{Profile: profile, MaritalStatus: strings.TrimSpace(req.MaritalStatus)}
		if s.MaritalStatus == "" {
			return nil, apperr.Validation("tenant registration requires maritalStatus")
		}
		return s, nil
	}
}

// ParseProfile validates the fields shared by every role.
func ParseProfile(name, dateOfBirth, email, phone, password string) (Profile, error) {
	p := Profile{
		Name:     strings.TrimSpace(name),
		Email:    NormalizeEmail(email),
		Phone:    strings.TrimSpace(phone),
		Password: password,
	}
	dob := strings.TrimSpace(dateOfBirth)
	if p.Name == "" || dob == "" || p.Email == "" || p.Phone == "" || strings.TrimSpace(password) == "" {
		return Profile{}, apperr.Validation("missing required fields")
	}
	parsed, err := time.Parse(dateLayout, dob)
	if err != nil {
		return Profile{}, apperr.Validation("dateOfBirth must be formatted as YYYY-MM-DD")
	}
	p.DateOfBirth = parsed
	if !strings.Contains(p.Email, "@") {
		return Profile{}, apperr.Validation("email is invalid")
	}
	if len(strings.TrimSpace(password)) < 8 || !utf8.ValidString(password) {
		return Profile{}, apperr.Validation("password must be at least 8 characters")
	}
	if len(password) > maxPasswordBytes {
		return Profile{}, apperr.Validation(fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}
	return p, nil
}

// NormalizeEmail is applied on both signup and login.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
