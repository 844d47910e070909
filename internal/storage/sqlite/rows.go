package sqlite

import (
	"time"

	"github.com/hongminglow/myrent-be/internal/models"
)

type userRow struct {
	ID               int64     `gorm:"primaryKey;autoIncrement"`
	Role             string    `gorm:"not null;index"`
	Name             string    `gorm:"not null"`
	DateOfBirth      time.Time `gorm:"not null"`
	Email            string    `gorm:"uniqueIndex;not null"`
	PasswordHash     string    `gorm:"not null"`
	Phone            string    `gorm:"not null"`
	Address          string
	NIN              string `gorm:"column:nin"`
	PassportPhotoURL string `gorm:"column:passport_photo_url"`
	MaritalStatus    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (userRow) TableName() string { return "users" }

type propertyRow struct {
	ID                        int64    `gorm:"primaryKey;autoIncrement"`
	LandlordID                int64    `gorm:"not null;index"`
	Landlord                  *userRow `gorm:"foreignKey:LandlordID;constraint:OnDelete:CASCADE"`
	Title                     string   `gorm:"not null"`
	Description               string   `gorm:"not null"`
	Location                  string   `gorm:"not null"`
	Price                     float64  `gorm:"not null"`
	LeaseDurationMonths       int      `gorm:"not null"`
	IsOccupied                bool     `gorm:"not null;default:false;index:idx_properties_available,priority:2"`
	Verified                  bool     `gorm:"not null;default:false;index:idx_properties_available,priority:1"`
	OwnershipCertificateToken string   `gorm:"not null"`
	RentExpiryDate            *time.Time
	Images                    []propertyImageRow `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

func (propertyRow) TableName() string { return "properties" }

type propertyImageRow struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	PropertyID int64  `gorm:"not null;index"`
	ImageURL   string `gorm:"column:image_url;not null"`
}

func (propertyImageRow) TableName() string { return "property_images" }

type messageRow struct {
	ID          int64        `gorm:"primaryKey;autoIncrement"`
	SenderID    int64        `gorm:"not null"`
	Sender      *userRow     `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE"`
	RecipientID int64        `gorm:"not null"`
	Recipient   *userRow     `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
	PropertyID  int64        `gorm:"not null;index:idx_messages_conversation,priority:1"`
	Property    *propertyRow `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Body        string       `gorm:"column:message;not null"`
	SentAt      time.Time    `gorm:"not null;index:idx_messages_conversation,priority:2"`
}

func (messageRow) TableName() string { return "messages" }

type verificationRow struct {
	ID         int64        `gorm:"primaryKey;autoIncrement"`
	PropertyID int64        `gorm:"not null;index"`
	Property   *propertyRow `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	AdminID    *int64
	Admin      *userRow  `gorm:"foreignKey:AdminID;constraint:OnDelete:SET NULL"`
	Verified   bool      `gorm:"not null"`
	VerifiedAt time.Time `gorm:"not null"`
}

func (verificationRow) TableName() string { return "admin_verifications" }

func newUserRow(u models.User) userRow {
	return userRow{
		Role:             string(u.Role),
		Name:             u.Name,
		DateOfBirth:      u.DateOfBirth,
		Email:            u.Email,
		PasswordHash:     u.PasswordHash,
		Phone:            u.Phone,
		Address:          u.Address,
		NIN:              u.NIN,
		PassportPhotoURL: u.PassportPhotoURL,
		MaritalStatus:    u.MaritalStatus,
	}
}

func (r userRow) model() models.User {
	return models.User{
		ID:               r.ID,
		Role:             models.Role(r.Role),
		Name:             r.Name,
		DateOfBirth:      r.DateOfBirth,
		Email:            r.Email,
		Phone:            r.Phone,
		Address:          r.Address,
		NIN:              r.NIN,
		PassportPhotoURL: r.PassportPhotoURL,
		MaritalStatus:    r.MaritalStatus,
		PasswordHash:     r.PasswordHash,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func (r propertyRow) model() models.Property {
	p := models.Property{
		ID:                        r.ID,
		LandlordID:                r.LandlordID,
		Title:                     r.Title,
		Description:               r.Description,
		Location:                  r.Location,
		Price:                     r.Price,
		LeaseDurationMonths:       r.LeaseDurationMonths,
		IsOccupied:                r.IsOccupied,
		Verified:                  r.Verified,
		OwnershipCertificateToken: r.OwnershipCertificateToken,
		RentExpiryDate:            r.RentExpiryDate,
		Images:                    make([]string, 0, len(r.Images)),
		CreatedAt:                 r.CreatedAt,
		UpdatedAt:                 r.UpdatedAt,
	}
	for _, img := range r.Images {
		p.Images = append(p.Images, img.ImageURL)
	}
	if r.Landlord != nil {
		p.Owner = &models.Contact{ID: r.Landlord.ID, Name: r.Landlord.Name, Email: r.Landlord.Email, Phone: r.Landlord.Phone}
	}
	return p
}

func (r messageRow) model() models.Message {
	return models.Message{
		ID:          r.ID,
		SenderID:    r.SenderID,
		RecipientID: r.RecipientID,
		PropertyID:  r.PropertyID,
		Body:        r.Body,
		SentAt:      r.SentAt,
	}
}

func (r verificationRow) model() models.VerificationRecord {
	rec := models.VerificationRecord{
		ID:         r.ID,
		PropertyID: r.PropertyID,
		Verified:   r.Verified,
		VerifiedAt: r.VerifiedAt,
	}
	if r.AdminID != nil {
		rec.AdminID = *r.AdminID
	}
	return rec
}
