package models

import "time"

// Contact is one way to reach a property's owner or heir.
type Contact struct {
	CreatedAt   time.Time   `json:"created_at"`
	Label       *string     `json:"label,omitempty"`
	IsValid     *bool       `json:"is_valid,omitempty"`
	Source      *string     `json:"source,omitempty"`
	ID          string      `json:"id"`
	PropertyID  string      `json:"property_id"`
	ContactType ContactType `json:"contact_type"`
	Value       string      `json:"value"`
}

// Columns maps every contacts column to c, in select order.
func (c *Contact) Columns() []Column {
	return []Column{
		req("id", &c.ID),
		req("property_id", &c.PropertyID),
		req("contact_type", &c.ContactType),
		req("value", &c.Value),
		opt("label", &c.Label),
		opt("is_valid", &c.IsValid),
		opt("source", &c.Source),
		req("created_at", &c.CreatedAt),
	}
}

// ContactInsert is the payload for adding a contact to a property.
type ContactInsert struct {
	Label       *string     `json:"label,omitempty"`
	IsValid     *bool       `json:"is_valid,omitempty"`
	Source      *string     `json:"source,omitempty"`
	PropertyID  string      `json:"property_id" validate:"required"`
	ContactType ContactType `json:"contact_type" validate:"required,contact_type"`
	Value       string      `json:"value" validate:"required"`
}
