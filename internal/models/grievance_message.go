package models

// GrievanceMessage is a communication thread entry on a grievance. Internal
// messages are visible to company staff and regulator admins only.
type GrievanceMessage struct {
	Base
	GrievanceID string `gorm:"type:uuid;not null;index" json:"grievance_id"`
	SenderID    string `gorm:"type:uuid;not null" json:"sender_id"`
	Message     string `gorm:"not null" json:"message"`
	IsInternal  bool   `gorm:"default:false" json:"is_internal"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
