package models

import "time"

// ProfileView is one dedup bucket for the view counter. Authenticated
// viewers are keyed by ViewerID, anonymous viewers by IP (ViewerID nil).
// ViewCount accumulates across dedup windows; the profile's views_count
// equals the sum of ViewCount over its rows.
type ProfileView struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ProfileID    uint      `gorm:"not null;uniqueIndex:idx_profile_view_key" json:"profile_id"`
	ViewerID     *uint     `gorm:"uniqueIndex:idx_profile_view_key" json:"viewer_id"`
	IPAddress    string    `gorm:"size:45;not null;uniqueIndex:idx_profile_view_key" json:"ip_address"`
	UserAgent    string    `gorm:"size:255" json:"user_agent"`
	ViewCount    int       `gorm:"not null;default:1" json:"view_count"`
	LastViewedAt time.Time `gorm:"not null" json:"last_viewed_at"`
	CreatedAt    time.Time `json:"created_at"`

	Profile Profile `gorm:"foreignKey:ProfileID" json:"-"`
}

func (ProfileView) TableName() string {
	return "profile_views"
}
