package sqlite

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/hongminglow/myrent-be/internal/listing"
	"github.com/hongminglow/myrent-be/internal/models"
	"github.com/hongminglow/myrent-be/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), ":memory:")
	require.NoError(t, err, "open test database")
	t.Cleanup(s.Close)
	return s
}

func mustUser(t *testing.T, s *Store, role models.Role, email string) models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), models.User{
		Role:         role,
		Name:         "User " + email,
		DateOfBirth:  time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Email:        email,
		Phone:        "+2348000000000",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return u
}

func mustProperty(t *testing.T, s *Store, landlordID int64, title string, images ...string) models.Property {
	t.Helper()
	p, err := s.CreateProperty(context.Background(), models.NewProperty{
		LandlordID:                landlordID,
		Title:                     title,
		Description:               "Spacious " + title,
		Location:                  "Wuse II, Abuja",
		Price:                     1500,
		LeaseDurationMonths:       12,
		OwnershipCertificateToken: "C-of-O-" + title,
		ImageURLs:                 images,
	})
	require.NoError(t, err)
	return p
}

func TestCreateUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	u := mustUser(t, s, models.RoleTenant, "ada@example.com")
	assert.NotZero(t, u.ID)
	assert.Equal(t, models.RoleTenant, u.Role)

	_, err := s.CreateUser(ctx, models.User{Role: models.RoleTenant, Name: "dup", Email: "ada@example.com", Phone: "1", PasswordHash: "h"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	found, err := s.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = s.FindByID(ctx, 999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteUser(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	landlord := mustUser(t, s, models.RoleLandlord, "owner@example.com")
	p := mustProperty(t, s, landlord.ID, "flat", "https://img/1.jpg")

	require.NoError(t, s.DeleteUser(ctx, landlord.ID))
	_, err := s.FindByID(ctx, landlord.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.GetProperty(ctx, p.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "owned properties cascade")

	assert.ErrorIs(t, s.DeleteUser(ctx, landlord.ID), storage.ErrNotFound)
}

func TestCreatePropertyStoresImages(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	landlord := mustUser(t, s, models.RoleLandlord, "owner@example.com")

	p := mustProperty(t, s, landlord.ID, "duplex", "https://img/a.jpg", "https://img/b.jpg")
	assert.False(t, p.Verified)
	assert.False(t, p.IsOccupied)

	got, err := s.GetProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://img/a.jpg", "https://img/b.jpg"}, got.Images)
	require.NotNil(t, got.Owner)
	assert.Equal(t, landlord.Email, got.Owner.Email)

	_, err = s.CreateProperty(ctx, models.NewProperty{LandlordID: 4242, Title: "x", Description: "x", Location: "x", OwnershipCertificateToken: "x", ImageURLs: []string{"u"}})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListPropertiesVisibility(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	landlordA := mustUser(t, s, models.RoleLandlord, "a@example.com")
	landlordB := mustUser(t, s, models.RoleLandlord, "b@example.com")
	tenant := mustUser(t, s, models.RoleTenant, "t@example.com")
	admin := mustUser(t, s, models.RoleAdmin, "admin@example.com")

	pending := mustProperty(t, s, landlordA.ID, "pending", "https://img/1.jpg")
	open := mustProperty(t, s, landlordA.ID, "open", "https://img/2.jpg")
	occupied := mustProperty(t, s, landlordB.ID, "occupied", "https://img/3.jpg")

	_, err := s.SetVerification(ctx, open.ID, admin.ID, true)
	require.NoError(t, err)
	_, err = s.SetVerification(ctx, occupied.ID, admin.ID, true)
	require.NoError(t, err)
	require.NoError(t, s.SetOccupancy(ctx, occupied.ID, true))

	ids := func(viewer models.User) []int64 {
		where, err := listing.Visibility(viewer.Principal())
		require.NoError(t, err)
		list, err := s.ListProperties(ctx, where)
		require.NoError(t, err)
		out := make([]int64, 0, len(list))
		for _, p := range list {
			if viewer.Role == models.RoleTenant {
				assert.True(t, p.Verified && !p.IsOccupied, "tenant saw hidden property %d", p.ID)
			}
			out = append(out, p.ID)
		}
		return out
	}

	assert.ElementsMatch(t, []int64{open.ID}, ids(tenant))
	assert.ElementsMatch(t, []int64{pending.ID, open.ID}, ids(landlordA))
	assert.ElementsMatch(t, []int64{occupied.ID}, ids(landlordB))
	assert.ElementsMatch(t, []int64{pending.ID, open.ID, occupied.ID}, ids(admin))
}

func TestSearchFilters(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	landlord := mustUser(t, s, models.RoleLandlord, "owner@example.com")
	tenant := mustUser(t, s, models.RoleTenant, "t@example.com")
	admin := mustUser(t, s, models.RoleAdmin, "admin@example.com")

	create := func(title, location, description string, price float64, months int) int64 {
		p, err := s.CreateProperty(ctx, models.NewProperty{
			LandlordID: landlord.ID, Title: title, Description: description, Location: location,
			Price: price, LeaseDurationMonths: months, OwnershipCertificateToken: "tok", ImageURLs: []string{"u"},
		})
		require.NoError(t, err)
		_, err = s.SetVerification(ctx, p.ID, admin.ID, true)
		require.NoError(t, err)
		return p.ID
	}
	cheap := create("cheap", "Gwarinpa", "Self-contain studio", 300, 6)
	mid := create("mid", "Wuse II", "Two bedroom Flat", 900, 12)
	pricey := create("pricey", "Maitama", "Luxury DUPLEX with pool", 5000, 24)

	search := func(query string) []int64 {
		t.Helper()
		values, err := url.ParseQuery(query)
		require.NoError(t, err)
		f, err := listing.ParseSearch(values)
		require.NoError(t, err)
		where, err := listing.Search(tenant.Principal(), f)
		require.NoError(t, err)
		list, err := s.ListProperties(ctx, where)
		require.NoError(t, err)
		var out []int64
		for _, p := range list {
			out = append(out, p.ID)
		}
		return out
	}

	assert.ElementsMatch(t, []int64{cheap, mid}, search("maxPrice=1000"))
	assert.ElementsMatch(t, []int64{mid, pricey}, search("minPrice=900"))
	assert.ElementsMatch(t, []int64{mid}, search("location=wuse"))
	assert.ElementsMatch(t, []int64{pricey}, search("apartmentType=24"))
	assert.ElementsMatch(t, []int64{pricey}, search("apartmentType=duplex"))
	assert.ElementsMatch(t, []int64{mid}, search("keyword=BEDROOM&location=WUSE"))
	assert.Empty(t, search("location=100%25"))

	eko := create("eko", "ÉKO Atlantic, Lagos", "Waterfront studio", 4000, 12)
	assert.ElementsMatch(t, []int64{eko}, search("location=%C3%A9ko"))
}

func TestSetVerificationAppendsLedger(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	landlord := mustUser(t, s, models.RoleLandlord, "owner@example.com")
	admin := mustUser(t, s, models.RoleAdmin, "admin@example.com")
	p := mustProperty(t, s, landlord.ID, "flat", "u")

	rec, err := s.SetVerification(ctx, p.ID, admin.ID, true)
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)
	assert.Equal(t, admin.ID, rec.AdminID)

	_, err = s.SetVerification(ctx, p.ID, admin.ID, false)
	require.NoError(t, err)

	got, err := s.GetProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Verified)

	ledger, err := s.ListVerifications(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	assert.False(t, ledger[0].Verified, "newest first")
	assert.True(t, ledger[1].Verified)

	_, err = s.SetVerification(ctx, 9999, admin.ID, true)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	ledger, err = s.ListVerifications(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestSetVerificationRollsBack(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	landlord := mustUser(t, s, models.RoleLandlord, "owner@example.com")
	p := mustProperty(t, s, landlord.ID, "flat", "u")

	// the ledger insert fails on the admin foreign key after the flag update ran
	_, err := s.SetVerification(ctx, p.ID, 4242, true)
	require.Error(t, err)

	got, err := s.GetProperty(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Verified, "flag update must roll back with the ledger insert")
	ledger, err := s.ListVerifications(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestCreatePropertyRollsBackOnImageFailure(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	landlord := mustUser(t, s, models.RoleLandlord, "owner@example.com")

	require.NoError(t, s.db.Exec(`CREATE TRIGGER reject_images BEFORE INSERT ON property_images
		BEGIN SELECT RAISE(ABORT, 'image rejected'); END`).Error)

	_, err := s.CreateProperty(ctx, models.NewProperty{
		LandlordID: landlord.ID, Title: "flat", Description: "flat", Location: "Wuse II",
		Price: 1500, LeaseDurationMonths: 12, OwnershipCertificateToken: "tok",
		ImageURLs: []string{"https://img/1.jpg"},
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrNotFound)

	list, err := s.ListProperties(ctx, listing.Predicate{})
	require.NoError(t, err)
	assert.Empty(t, list, "property row must roll back with its images")
}

func TestConversationIsSymmetric(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	landlord := mustUser(t, s, models.RoleLandlord, "owner@example.com")
	tenant := mustUser(t, s, models.RoleTenant, "t@example.com")
	other := mustUser(t, s, models.RoleTenant, "o@example.com")
	p := mustProperty(t, s, landlord.ID, "flat", "u")
	q := mustProperty(t, s, landlord.ID, "other flat", "u")

	send := func(from, to, property int64, body string) {
		_, err := s.CreateMessage(ctx, models.Message{SenderID: from, RecipientID: to, PropertyID: property, Body: body})
		require.NoError(t, err)
	}
	send(tenant.ID, landlord.ID, p.ID, "is it available?")
	send(landlord.ID, tenant.ID, p.ID, "yes")
	send(other.ID, landlord.ID, p.ID, "unrelated")
	send(tenant.ID, landlord.ID, q.ID, "different property")

	fromTenant, err := s.Conversation(ctx, p.ID, tenant.ID, landlord.ID)
	require.NoError(t, err)
	fromLandlord, err := s.Conversation(ctx, p.ID, landlord.ID, tenant.ID)
	require.NoError(t, err)

	require.Len(t, fromTenant, 2)
	assert.Equal(t, fromTenant, fromLandlord)
	assert.Equal(t, "is it available?", fromTenant[0].Body)
	assert.Equal(t, "yes", fromTenant[1].Body)
}

func TestCreateMessageRequiresTargets(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	landlord := mustUser(t, s, models.RoleLandlord, "owner@example.com")
	tenant := mustUser(t, s, models.RoleTenant, "t@example.com")
	p := mustProperty(t, s, landlord.ID, "flat", "u")

	_, err := s.CreateMessage(ctx, models.Message{SenderID: tenant.ID, RecipientID: 999, PropertyID: p.ID, Body: "hi"})
	assert.ErrorIs(t, err, storage.ErrRecipientNotFound)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.CreateMessage(ctx, models.Message{SenderID: tenant.ID, RecipientID: landlord.ID, PropertyID: 999, Body: "hi"})
	assert.ErrorIs(t, err, storage.ErrPropertyNotFound)

	msgs, err := s.Conversation(ctx, p.ID, tenant.ID, landlord.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs, "no rows written")
}
