package transfer

// PostCreation is the multipart form behind POST /api/posts/create. ClientIDs
// and CaptionOverrides arrive as JSON strings.
type PostCreation struct {
	ClientIDs        string
	PostType         string
	Caption          string
	CaptionOverrides string
	ScheduledTime    string
	CropFormat       string
}

type CaptionUpdate struct {
	Caption string `json:"caption"`
}

type ClientInput struct {
	Name            string `json:"name"`
	DisplayName     string `json:"display_name"`
	Color           string `json:"color"`
	AvatarURL       string `json:"avatar_url"`
	WeeklyPostQuota *int   `json:"weekly_post_quota"`
	IsHidden        bool   `json:"is_hidden"`
	InstagramURL    string `json:"instagram_url"`
	MetaCalendarURL string `json:"meta_calendar_url"`
}

type GroupMembers struct {
	Names []string `json:"names"`
}
