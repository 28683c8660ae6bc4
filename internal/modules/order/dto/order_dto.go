package dto

type CreateOrderRequest struct {
	RepairType   string   `json:"repair_type" binding:"required,max=50"`
	Building     string   `json:"building" binding:"required,max=50"`
	RoomNumber   string   `json:"room_number" binding:"required,max=20"`
	ContactPhone string   `json:"contact_phone" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	ImageURLs    []string `json:"image_urls"`
}

type CompleteOrderRequest struct {
	CompletionImageURLs []string `json:"completion_image_urls"`
}

type ListOrdersQuery struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// AdminListOrdersQuery filters the all-orders view. Dates are inclusive
// calendar days in the form 2006-01-02.
type AdminListOrdersQuery struct {
	Status    string `form:"status"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
}

// Normalize clamps pagination to sane bounds.
func (q *ListOrdersQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 10
	}
}

func (q *AdminListOrdersQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 10
	}
}
