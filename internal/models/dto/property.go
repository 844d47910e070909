package dto

import "github.com/hongminglow/myrent-be/internal/models"

type Property struct {
	ID                        int64           `json:"id"`
	LandlordID                int64           `json:"landlordId"`
	Title                     string          `json:"title"`
	Description               string          `json:"description"`
	Location                  string          `json:"location"`
	Price                     float64         `json:"price"`
	LeaseDurationMonths       int             `json:"leaseDurationMonths"`
	IsOccupied                bool            `json:"isOccupied"`
	Verified                  bool            `json:"verified"`
	OwnershipCertificateToken string          `json:"ownershipCertificateToken,omitempty"`
	RentExpiryDate            *string         `json:"rentExpiryDate"`
	Images                    []string        `json:"images"`
	Owner                     *models.Contact `json:"owner,omitempty"`
}

// NewProperty shapes p for a viewer. The ownership certificate is only shown to the
// owning landlord and to admins.
func NewProperty(p models.Property, viewer models.Principal) Property {
	out := Property{
		ID:                  p.ID,
		LandlordID:          p.LandlordID,
		Title:               p.Title,
		Description:         p.Description,
		Location:            p.Location,
		Price:               p.Price,
		LeaseDurationMonths: p.LeaseDurationMonths,
		IsOccupied:          p.IsOccupied,
		Verified:            p.Verified,
		Images:              p.Images,
		Owner:               p.Owner,
	}
	if out.Images == nil {
		out.Images = []string{}
	}
	if viewer.Role == models.RoleAdmin || viewer.ID == p.LandlordID {
		out.OwnershipCertificateToken = p.OwnershipCertificateToken
	}
	if p.RentExpiryDate != nil {
		s := p.RentExpiryDate.Format(dateLayout)
		out.RentExpiryDate = &s
	}
	return out
}

func NewProperties(list []models.Property, viewer models.Principal) []Property {
	out := make([]Property, 0, len(list))
	for _, p := range list {
		out = append(out, NewProperty(p, viewer))
	}
	return out
}

type CreatePropertyResponse struct {
	ID int64 `json:"id"`
}

// StatusRequest uses a pointer so that a missing or non-boolean field is rejected.
type StatusRequest struct {
	IsOccupied *bool `json:"isOccupied"`
}

type VerifyRequest struct {
	Verified *bool `json:"verified"`
}
