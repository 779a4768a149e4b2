package dto

// Response 统一返回结构，HTTP 状态码固定为 200，业务状态放在 Code 中
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageReq 分页参数，页码从 1 开始
type PageReq struct {
	Page     int `form:"page" validate:"gte=0"`
	PageSize int `form:"page_size" validate:"gte=0,lte=100"`
}
