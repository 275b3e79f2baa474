package models

import (
	"strings"
	"time"
)

// GroupMarker prefixes meta_calendar_url on clients that aggregate other
// clients' posts behind a single share link.
const GroupMarker = "GROUP:"

type Client struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	DisplayName     string    `db:"display_name" json:"display_name,omitempty"`
	UniqueLinkID    string    `db:"unique_link_id" json:"unique_link_id"`
	Color           string    `db:"color" json:"color"`
	AvatarURL       string    `db:"avatar_url" json:"avatar_url,omitempty"`
	WeeklyPostQuota *int      `db:"weekly_post_quota" json:"weekly_post_quota,omitempty"`
	IsHidden        bool      `db:"is_hidden" json:"is_hidden"`
	InstagramURL    string    `db:"instagram_url" json:"instagram_url,omitempty"`
	MetaCalendarURL string    `db:"meta_calendar_url" json:"meta_calendar_url,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Label is the name shown to reviewers.
func (c *Client) Label() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Name
}

// GroupMembers reports whether the client is a virtual group and, if so, the
// internal names of the clients it spans.
func (c *Client) GroupMembers() ([]string, bool) {
	if !strings.HasPrefix(c.MetaCalendarURL, GroupMarker) {
		return nil, false
	}

	var names []string
	for _, name := range strings.Split(strings.TrimPrefix(c.MetaCalendarURL, GroupMarker), ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names, true
}

// GroupMarkerValue encodes member names into a meta_calendar_url value.
func GroupMarkerValue(names []string) string {
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			cleaned = append(cleaned, name)
		}
	}
	return GroupMarker + strings.Join(cleaned, ",")
}
