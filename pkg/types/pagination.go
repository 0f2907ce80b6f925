package types

// DefaultPageIndex 未传页码时的默认值
const DefaultPageIndex = 1

// PageRequest 分页请求，PageIndex 从 1 开始
type PageRequest struct {
	PageIndex int `form:"pageIndex,default=1" json:"pageIndex"`
	PageSize  int `form:"pageSize,default=10" json:"pageSize"`
}

// Valid 页码与页大小均需大于 0
func (p PageRequest) Valid() bool {
	return p.PageIndex > 0 && p.PageSize > 0
}

// Offset 计算偏移量
func (p PageRequest) Offset() int {
	if p.PageIndex < 1 {
		return 0
	}
	return (p.PageIndex - 1) * p.PageSize
}
