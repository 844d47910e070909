// Package seed fills an empty database with demo accounts, listings and conversations.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hongminglow/myrent-be/internal/auth"
	"github.com/hongminglow/myrent-be/internal/models"
	"github.com/hongminglow/myrent-be/internal/storage"
)

const (
	// Password is shared by every seeded account.
	Password   = "password123"
	AdminEmail = "admin@myrent.com"
)

// ErrAlreadySeeded is returned when the seed admin already exists.
var ErrAlreadySeeded = errors.New("seed: database already contains demo data")

var locations = []string{"Abuja City Centre", "Wuse 2", "Maitama", "Gwarinpa", "Kubwa"}

var leaseDurations = []int{6, 12, 24}

// Summary counts what Run created.
type Summary struct {
	Users         int
	Properties    int
	Messages      int
	Verifications int
}

// Run creates one admin, three landlords, five tenants and their listings. Every second
// listing is verified through the ledger and the last verified one is marked occupied.
func Run(ctx context.Context, store storage.Store) (Summary, error) {
	var sum Summary
	if _, err := store.FindByEmail(ctx, AdminEmail); err == nil {
		return sum, ErrAlreadySeeded
	} else if !errors.Is(err, storage.ErrNotFound) {
		return sum, fmt.Errorf("check seed admin: %w", err)
	}

	hash, err := auth.HashPassword(Password)
	if err != nil {
		return sum, err
	}
	create := func(u models.User) (models.User, error) {
		u.PasswordHash = hash
		created, err := store.CreateUser(ctx, u)
		if err != nil {
			return models.User{}, fmt.Errorf("create %s %s: %w", u.Role, u.Email, err)
		}
		sum.Users++
		return created, nil
	}

	admin, err := create(models.User{
		Role: models.RoleAdmin, Name: "Admin User", Email: AdminEmail,
		DateOfBirth: date(1980, 1, 1), Phone: "+2348000000001",
	})
	if err != nil {
		return sum, err
	}

	var landlords, tenants []models.User
	for i := 1; i <= 3; i++ {
		l, err := create(models.User{
			Role:             models.RoleLandlord,
			Name:             fmt.Sprintf("Landlord %d", i),
			Email:            fmt.Sprintf("landlord%d@myrent.com", i),
			DateOfBirth:      date(1970+i, time.Month(i), 10),
			Phone:            fmt.Sprintf("+23480100000%02d", i),
			Address:          fmt.Sprintf("%d Aminu Kano Crescent, Wuse 2, Abuja", 10+i),
			NIN:              fmt.Sprintf("NIN%08d", i),
			PassportPhotoURL: fmt.Sprintf("https://picsum.photos/seed/myrent-landlord-%d/300/300", i),
		})
		if err != nil {
			return sum, err
		}
		landlords = append(landlords, l)
	}
	statuses := []string{"Single", "Married", "Divorced"}
	for i := 1; i <= 5; i++ {
		tu, err := create(models.User{
			Role:          models.RoleTenant,
			Name:          fmt.Sprintf("Tenant %d", i),
			Email:         fmt.Sprintf("tenant%d@myrent.com", i),
			DateOfBirth:   date(1995+i, time.Month(i), 5),
			Phone:         fmt.Sprintf("+23480200000%02d", i),
			MaritalStatus: statuses[i%len(statuses)],
		})
		if err != nil {
			return sum, err
		}
		tenants = append(tenants, tu)
	}

	var properties []models.Property
	expiry := time.Now().UTC().AddDate(1, 0, 0).Truncate(24 * time.Hour)
	for i, l := range landlords {
		for j := 0; j <= i; j++ {
			n := len(properties)
			p, err := store.CreateProperty(ctx, models.NewProperty{
				LandlordID:                l.ID,
				Title:                     fmt.Sprintf("%s %d-Bedroom Apartment", locations[n%len(locations)], 1+n%3),
				Description:               "Well finished apartment with steady water, prepaid meter and a fenced compound.",
				Location:                  locations[n%len(locations)],
				Price:                     float64(150000 + 50000*n),
				LeaseDurationMonths:       leaseDurations[n%len(leaseDurations)],
				OwnershipCertificateToken: fmt.Sprintf("CofO-FCT-%05d", 100+n),
				RentExpiryDate:            &expiry,
				ImageURLs: []string{
					fmt.Sprintf("https://picsum.photos/seed/myrent-%d-a/800/600", n),
					fmt.Sprintf("https://picsum.photos/seed/myrent-%d-b/800/600", n),
				},
			})
			if err != nil {
				return sum, fmt.Errorf("create property: %w", err)
			}
			properties = append(properties, p)
			sum.Properties++
		}
	}

	var lastVerified int64
	for i, p := range properties {
		if i%2 != 0 {
			continue
		}
		if _, err := store.SetVerification(ctx, p.ID, admin.ID, true); err != nil {
			return sum, fmt.Errorf("verify property %d: %w", p.ID, err)
		}
		sum.Verifications++
		lastVerified = p.ID
	}
	if lastVerified != 0 {
		if err := store.SetOccupancy(ctx, lastVerified, true); err != nil {
			return sum, fmt.Errorf("occupy property %d: %w", lastVerified, err)
		}
	}

	for i, t := range tenants {
		p := properties[(2*i)%len(properties)]
		thread := []models.Message{
			{SenderID: t.ID, RecipientID: p.LandlordID, PropertyID: p.ID, Body: "Good day, is this apartment still available?"},
			{SenderID: p.LandlordID, RecipientID: t.ID, PropertyID: p.ID, Body: "Yes it is. When would you like to inspect it?"},
		}
		for _, m := range thread {
			if _, err := store.CreateMessage(ctx, m); err != nil {
				return sum, fmt.Errorf("create message: %w", err)
			}
			sum.Messages++
		}
	}
	return sum, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
