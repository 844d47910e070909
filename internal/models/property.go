package models

import "time"

// Property is a listing owned by one landlord.
type Property struct {
	ID                        int64
	LandlordID                int64
	Title                     string
	Description               string
	Location                  string
	Price                     float64
	LeaseDurationMonths       int
	IsOccupied                bool
	Verified                  bool
	OwnershipCertificateToken string
	RentExpiryDate            *time.Time
	Images                    []string
	CreatedAt                 time.Time
	UpdatedAt                 time.Time

	// Owner is populated only by single-property fetches.
	Owner *Contact
}

// Contact is the public contact card of a landlord.
type Contact struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// NewProperty is the validated input of a listing creation.
type NewProperty struct {
	LandlordID                int64
	Title                     string
	Description               string
	Location                  string
	Price                     float64
	LeaseDurationMonths       int
	OwnershipCertificateToken string
	RentExpiryDate            *time.Time
	ImageURLs                 []string
}
