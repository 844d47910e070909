package listing

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/hongminglow/myrent-be/internal/apperr"
	"github.com/hongminglow/myrent-be/internal/models"
)

// SearchFilter narrows the tenant-visible set. Nil or empty fields are not applied.
type SearchFilter struct {
	MinPrice            *float64
	MaxPrice            *float64
	Location            string
	LeaseDurationMonths *int
	Keyword             string
}

// ParseSearch reads minPrice, maxPrice, location, leaseDurationMonths, keyword and the
// legacy apartmentType parameter. apartmentType is an exact lease duration when it is an
// integer and a description keyword otherwise; the explicit parameters win over it.
func ParseSearch(q url.Values) (SearchFilter, error) {
	var f SearchFilter
	var err error
	if f.MinPrice, err = parsePrice(q.Get("minPrice"), "minPrice"); err != nil {
		return SearchFilter{}, err
	}
	if f.MaxPrice, err = parsePrice(q.Get("maxPrice"), "maxPrice"); err != nil {
		return SearchFilter{}, err
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return SearchFilter{}, apperr.Validation("minPrice must not exceed maxPrice")
	}
	f.Location = strings.TrimSpace(q.Get("location"))
	f.Keyword = strings.TrimSpace(q.Get("keyword"))

	if raw := strings.TrimSpace(q.Get("leaseDurationMonths")); raw != "" {
		months, err := strconv.Atoi(raw)
		if err != nil || months <= 0 {
			return SearchFilter{}, apperr.Validation("leaseDurationMonths must be a positive integer")
		}
		f.LeaseDurationMonths = &months
	}

	if legacy := strings.TrimSpace(q.Get("apartmentType")); legacy != "" {
		if months, err := strconv.Atoi(legacy); err == nil {
			if f.LeaseDurationMonths == nil {
				f.LeaseDurationMonths = &months
			}
		} else if f.Keyword == "" {
			f.Keyword = legacy
		}
	}
	return f, nil
}

func parsePrice(raw, name string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil, apperr.Validation(name + " must be a non-negative number")
	}
	return &v, nil
}

// Search returns the predicate for a tenant search. Other roles are rejected.
func Search(viewer models.Principal, f SearchFilter) (Predicate, error) {
	if viewer.Role != models.RoleTenant {
		return Predicate{}, apperr.Authorization("only tenants can search properties")
	}
	p := Available()
	if f.MinPrice != nil {
		p = p.And("p.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		p = p.And("p.price <= ?", *f.MaxPrice)
	}
	if f.Location != "" {
		p = p.And(`LOWER(p.location) LIKE ? ESCAPE '\'`, containsPattern(f.Location))
	}
	if f.LeaseDurationMonths != nil {
		p = p.And("p.lease_duration_months = ?", *f.LeaseDurationMonths)
	}
	if f.Keyword != "" {
		p = p.And(`LOWER(p.description) LIKE ? ESCAPE '\'`, containsPattern(f.Keyword))
	}
	return p, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
