package utils

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Pagination 列表查询的分页参数
type Pagination struct {
	Page  int `json:"page" form:"page"`
	Limit int `json:"limit" form:"limit"`
}

// PageResult 分页响应结果
type PageResult struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// GetPageOffset 归一化分页参数并计算偏移量，单页上限 100 条
func (p *Pagination) GetPageOffset() (offset, limit int) {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.Limit < 1:
		p.Limit = defaultPageSize
	case p.Limit > maxPageSize:
		p.Limit = maxPageSize
	}
	return (p.Page - 1) * p.Limit, p.Limit
}
