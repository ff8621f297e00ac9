package fleet

// Meta describes the pagination state of a normalized list response. When the
// backend omits it, the pipeline synthesizes one from the request's own page
// and limit.
type Meta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Page is the stable list contract every adapter returns regardless of the
// envelope shape the backend used.
type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// SynthesizeMeta builds pagination metadata from a raw total and the request's
// page/limit. Pages are 1-indexed; totalPages is ceil(total/limit).
func SynthesizeMeta(total, page, limit int) Meta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return Meta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}
}
