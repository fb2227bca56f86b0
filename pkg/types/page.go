package types

type PageParams struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (p PageParams) Normalize() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 100 {
		p.Limit = 20
	}
	return p
}

func (p PageParams) Offset() uint64 {
	return uint64((p.Page - 1) * p.Limit)
}

type PageMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}
