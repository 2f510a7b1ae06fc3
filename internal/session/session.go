package session

import (
	"strings"
	"time"
)

// Session is one authenticated session. Records are append-only: revocation
// and expiry flip IsActive, nothing is ever deleted, so each user keeps an
// audit trail of every device that signed in.
type Session struct {
	ID             int64        `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID         string       `json:"user_id" gorm:"column:user_id;index:idx_sessions_user_active,priority:1;not null"`
	SessionToken   string       `json:"-" gorm:"column:session_token;uniqueIndex;not null"`
	IPAddress      string       `json:"ip_address" gorm:"column:ip_address"`
	UserAgent      string       `json:"user_agent" gorm:"column:user_agent"`
	Device         Device       `json:"device" gorm:"embedded;embeddedPrefix:device_"`
	Geolocation    *Geolocation `json:"geolocation,omitempty" gorm:"embedded;embeddedPrefix:geo_"`
	CreatedAt      time.Time    `json:"created_at" gorm:"column:created_at"`
	LastActivityAt time.Time    `json:"last_activity_at" gorm:"column:last_activity_at"`
	ExpiresAt      time.Time    `json:"expires_at" gorm:"column:expires_at"`
	IsActive       bool         `json:"is_active" gorm:"column:is_active;index:idx_sessions_user_active,priority:2"`
}

func (Session) TableName() string {
	return "sessions"
}

// Expired reports whether the session is past its TTL. A record past
// ExpiresAt is treated as inactive even before the sweep flips the flag.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

type Device struct {
	Type    string `json:"type" gorm:"column:type"`
	Browser string `json:"browser" gorm:"column:browser"`
	OS      string `json:"os" gorm:"column:os"`
}

type Geolocation struct {
	Country string `json:"country,omitempty" gorm:"column:country"`
	City    string `json:"city,omitempty" gorm:"column:city"`
	Region  string `json:"region,omitempty" gorm:"column:region"`
}

// ClassifyDevice derives a coarse device profile from the user agent. It is
// display metadata for the account-security UI, not an access decision.
func ClassifyDevice(userAgent string) Device {
	ua := strings.ToLower(userAgent)

	device := Device{Type: "desktop", Browser: "unknown", OS: "unknown"}

	switch {
	case strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet"):
		device.Type = "tablet"
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "iphone") || strings.Contains(ua, "android"):
		device.Type = "mobile"
	}

	switch {
	case strings.Contains(ua, "edg/"):
		device.Browser = "edge"
	case strings.Contains(ua, "opr/") || strings.Contains(ua, "opera"):
		device.Browser = "opera"
	case strings.Contains(ua, "chrome"):
		device.Browser = "chrome"
	case strings.Contains(ua, "safari"):
		device.Browser = "safari"
	case strings.Contains(ua, "firefox"):
		device.Browser = "firefox"
	}

	switch {
	case strings.Contains(ua, "windows"):
		device.OS = "windows"
	case strings.Contains(ua, "mac os") || strings.Contains(ua, "macintosh"):
		device.OS = "macos"
	case strings.Contains(ua, "android"):
		device.OS = "android"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad") || strings.Contains(ua, "ios"):
		device.OS = "ios"
	case strings.Contains(ua, "linux"):
		device.OS = "linux"
	}

	return device
}
