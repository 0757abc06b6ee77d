package models

import (
	"time"

	"golang.org/x/exp/slices"
)

type Platform string

const (
	PlatformTwitter   Platform = "Twitter"
	PlatformInstagram Platform = "Instagram"
)

type PostType string

const (
	PostTypeMotivational PostType = "Motivational"
	PostTypeTechnical    PostType = "Technical"
	PostTypeFunny        PostType = "Funny"
	PostTypeAnnouncement PostType = "Announcement"
	PostTypePromotional  PostType = "Promotional"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

var (
	Platforms = []Platform{PlatformTwitter, PlatformInstagram}
	PostTypes = []PostType{PostTypeMotivational, PostTypeTechnical, PostTypeFunny, PostTypeAnnouncement, PostTypePromotional}
	Statuses  = []Status{StatusPending, StatusApproved, StatusRejected}
)

func (p Platform) Valid() bool { return slices.Contains(Platforms, p) }
func (t PostType) Valid() bool { return slices.Contains(PostTypes, t) }
func (s Status) Valid() bool   { return slices.Contains(Statuses, s) }

// Final reports whether no further review action can change the status.
func (s Status) Final() bool { return s == StatusApproved || s == StatusRejected }

// Post represents one row of the posts ledger
type Post struct {
	ID            string    `json:"id" gorm:"primaryKey;column:id" bson:"_id"`
	Platform      Platform  `json:"platform" gorm:"column:platform;not null" bson:"platform"`
	Type          PostType  `json:"type" gorm:"column:type;not null" bson:"type"`
	Text          string    `json:"text" gorm:"column:text;type:text" bson:"text"`
	Image         string    `json:"image,omitempty" gorm:"column:image" bson:"image,omitempty"`
	Status        Status    `json:"status" gorm:"column:status;index;not null" bson:"status"`
	ScheduledTime string    `json:"scheduled_time" gorm:"column:scheduled_time" bson:"scheduled_time"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime:false" bson:"created_at"`
}

func (Post) TableName() string { return "posts" }

// HasImage reports whether an upload is attached.
func (p Post) HasImage() bool { return p.Image != "" }
