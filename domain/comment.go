package domain

// Comment is a remark a user left on a track. The same record is stored
// twice, once on the authoring user and once on the target track, and every
// write path has to keep both copies in sync.
type Comment struct {
	ID       string `json:"comment_id"`
	Username string `json:"username"`
	TrackID  string `json:"track_id"`
	Text     string `json:"text"`
}
