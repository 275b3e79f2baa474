package models

import "time"

type Post struct {
	ID             string          `db:"id" json:"id"`
	ClientID       string          `db:"client_id" json:"client_id"`
	ScheduledDate  time.Time       `db:"scheduled_date" json:"scheduled_date"`
	PostType       string          `db:"post_type" json:"post_type"`
	Caption        string          `db:"caption" json:"caption"`
	Status         string          `db:"status" json:"status"`
	Images         []PostImage     `json:"images"`
	ChangeRequests []ChangeRequest `json:"change_requests"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// ActiveChangeRequest returns the most recent change request, or nil.
func (p *Post) ActiveChangeRequest() *ChangeRequest {
	var active *ChangeRequest
	for i := range p.ChangeRequests {
		cr := &p.ChangeRequests[i]
		if active == nil || !cr.CreatedAt.Before(active.CreatedAt) {
			active = cr
		}
	}
	return active
}

type PostImage struct {
	ID         string    `db:"id" json:"id"`
	PostID     string    `db:"post_id" json:"post_id"`
	Position   int       `db:"position" json:"position"`
	ImageURL   string    `db:"image_url" json:"image_url"`
	CropFormat string    `db:"crop_format" json:"crop_format"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type ChangeRequest struct {
	ID          string    `db:"id" json:"id"`
	PostID      string    `db:"post_id" json:"post_id"`
	RequestType string    `db:"request_type" json:"request_type"`
	Message     string    `db:"message" json:"message"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

const (
	PostStatusPending         = "pending"
	PostStatusApproved        = "approved"
	PostStatusChangeRequested = "change_requested"
	PostStatusAgendado        = "agendado"
	PostStatusPublished       = "published"
)

const (
	PostTypeFeed     = "feed"
	PostTypeCarousel = "carousel"
	PostTypeStory    = "story"
	PostTypeReels    = "reels"
)

const (
	CropSquare   = "1:1"
	CropPortrait = "4:5"
	CropVertical = "9:16"
)

const (
	ChangeTypeVisual  = "visual"
	ChangeTypeDate    = "date"
	ChangeTypeCaption = "caption"
	ChangeTypeOther   = "other"
)

func ValidPostType(t string) bool {
	switch t {
	case PostTypeFeed, PostTypeCarousel, PostTypeStory, PostTypeReels:
		return true
	}
	return false
}

func ValidCropFormat(f string) bool {
	switch f {
	case CropSquare, CropPortrait, CropVertical:
		return true
	}
	return false
}

func ValidChangeType(t string) bool {
	switch t {
	case ChangeTypeVisual, ChangeTypeDate, ChangeTypeCaption, ChangeTypeOther:
		return true
	}
	return false
}
