package model

// Post belongs to exactly one User through UserID.
type Post struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	UserID  int64  `json:"user_id"`
}

// PostPatch is a partial update. A nil field means "leave unchanged".
// A non-nil UserID reassigns the post and must reference a live user.
type PostPatch struct {
	Title   *string
	Content *string
	UserID  *int64
}

func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.UserID == nil
}
