// Package listing decides which properties a caller may see.
//
// The list view is enforced inside the query through a Predicate; the single-property
// view is enforced after the fetch through CanView, and callers report a hidden property
// as not found.
package listing

import (
	"github.com/hongminglow/myrent-be/internal/apperr"
	"github.com/hongminglow/myrent-be/internal/models"
)

// Visibility returns the predicate selecting the properties viewer may list.
//
//	landlord: own properties in any state
//	tenant:   verified and unoccupied properties
//	admin:    everything
func Visibility(viewer models.Principal) (Predicate, error) {
	var p Predicate
	switch viewer.Role {
	case models.RoleLandlord:
		return p.And("p.landlord_id = ?", viewer.ID), nil
	case models.RoleTenant:
		return Available(), nil
	case models.RoleAdmin:
		return p, nil
	default:
		return Predicate{}, apperr.Authorization("invalid user role")
	}
}

// Available selects properties open to tenants.
func Available() Predicate {
	return Predicate{}.And("p.verified = ?", true).And("p.is_occupied = ?", false)
}

// CanView reports whether viewer may see p. Verified, unoccupied properties are public
// to every authenticated caller; the rest only to the owning landlord, never to admins.
func CanView(viewer models.Principal, p models.Property) bool {
	if p.Verified && !p.IsOccupied {
		return true
	}
	return viewer.Role == models.RoleLandlord && viewer.ID == p.LandlordID
}
