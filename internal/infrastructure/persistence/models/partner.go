package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/garmentcrm/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer domain entity
type CustomerModel struct {
	BaseModel
	Name      string `gorm:"type:varchar(200);not null;index"`
	OwnerName string `gorm:"type:varchar(100)"`
	Email     string `gorm:"type:varchar(200);index"`

	Contacts []ContactModel `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	customer := &partner.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		OwnerName:  m.OwnerName,
		Email:      m.Email,
		Contacts:   make([]partner.Contact, len(m.Contacts)),
	}
	for i := range m.Contacts {
		customer.Contacts[i] = *m.Contacts[i].ToDomain()
	}
	return customer
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.OwnerName = c.OwnerName
	m.Email = c.Email
	m.Contacts = make([]ContactModel, len(c.Contacts))
	for i := range c.Contacts {
		m.Contacts[i].FromDomain(&c.Contacts[i])
	}
}

// ContactModel is the persistence model for a customer contact
type ContactModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(200)"`
	Email       string    `gorm:"type:varchar(200)"`
	PhoneNumber string    `gorm:"type:varchar(50)"`
	Primary     bool      `gorm:"column:is_primary;not null;default:false"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact
func (m *ContactModel) ToDomain() *partner.Contact {
	return &partner.Contact{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		Name:        m.Name,
		Email:       m.Email,
		PhoneNumber: m.PhoneNumber,
		Primary:     m.Primary,
	}
}

// FromDomain populates the persistence model from a domain Contact
func (m *ContactModel) FromDomain(c *partner.Contact) {
	m.ID = c.ID
	m.CustomerID = c.CustomerID
	m.Name = c.Name
	m.Email = c.Email
	m.PhoneNumber = c.PhoneNumber
	m.Primary = c.Primary
}
