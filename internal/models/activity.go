package models

import "time"

// Activity is an append-only entry in a property's history.
type Activity struct {
	ActivityDate time.Time    `json:"activity_date"`
	CreatedAt    time.Time    `json:"created_at"`
	FollowUpDate *time.Time   `json:"follow_up_date,omitempty"`
	Outcome      *string      `json:"outcome,omitempty"`
	Method       *string      `json:"method,omitempty"`
	ContactUsed  *string      `json:"contact_used,omitempty"`
	Notes        *string      `json:"notes,omitempty"`
	ID           string       `json:"id"`
	PropertyID   string       `json:"property_id"`
	ActivityType ActivityType `json:"activity_type"`
	CreatedBy    string       `json:"created_by"`
}

// Columns maps every activity_log column to a, in select order.
func (a *Activity) Columns() []Column {
	return []Column{
		req("id", &a.ID),
		req("property_id", &a.PropertyID),
		req("activity_type", &a.ActivityType),
		req("activity_date", &a.ActivityDate),
		opt("outcome", &a.Outcome),
		opt("follow_up_date", &a.FollowUpDate),
		opt("method", &a.Method),
		opt("contact_used", &a.ContactUsed),
		opt("notes", &a.Notes),
		req("created_by", &a.CreatedBy),
		req("created_at", &a.CreatedAt),
	}
}

// ActivityInsert is the payload for logging an activity.
// ActivityDate defaults to now and CreatedBy to the configured actor.
type ActivityInsert struct {
	ActivityDate *time.Time   `json:"activity_date,omitempty"`
	FollowUpDate *time.Time   `json:"follow_up_date,omitempty"`
	Outcome      *string      `json:"outcome,omitempty"`
	Method       *string      `json:"method,omitempty"`
	ContactUsed  *string      `json:"contact_used,omitempty"`
	Notes        *string      `json:"notes,omitempty"`
	PropertyID   string       `json:"property_id" validate:"required"`
	ActivityType ActivityType `json:"activity_type" validate:"required,activity_type"`
	CreatedBy    string       `json:"created_by,omitempty"`
}
