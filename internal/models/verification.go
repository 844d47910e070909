package models

import "time"

// VerificationRecord is one append-only entry of the admin verification ledger.
type VerificationRecord struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"propertyId"`
	AdminID    int64     `json:"adminId"`
	Verified   bool      `json:"verified"`
	VerifiedAt time.Time `json:"verifiedAt"`
}
