package dto

type CreateAnnouncementRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
}

// UpdateAnnouncementRequest is a partial update; nil fields are untouched.
// Present-but-empty fields are rejected by the service.
type UpdateAnnouncementRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type ListAnnouncementsQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

func (q *ListAnnouncementsQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 10
	}
}
