package session

// TrackSessionDTO is posted by the client right after sign-in. IP and user
// agent come from the request itself; only optional geolocation hints are
// accepted from the body.
type TrackSessionDTO struct {
	Geolocation *Geolocation `json:"geolocation,omitempty"`
}

type SessionListResponse struct {
	Sessions []*Session `json:"sessions"`
}

type RevokeCountResponse struct {
	RevokedCount int64 `json:"revoked_count"`
}
