package dto

import "time"

// Response is the envelope shared by every successful API response.
type Response struct {
	Success   bool        `json:"success" example:"true"`
	Message   string      `json:"message" example:"Operation completed successfully"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse creates a success envelope. data may be nil.
func NewSuccessResponse(message string, data interface{}) Response {
	return Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// Page is the paginated list payload.
type Page[T any] struct {
	Docs    []T   `json:"docs"`
	Total   int64 `json:"total" example:"42"`
	Page    int   `json:"page" example:"1"`
	Pages   int   `json:"pages" example:"5"`
	Limit   int   `json:"limit" example:"10"`
	HasNext bool  `json:"hasNext" example:"true"`
	HasPrev bool  `json:"hasPrev" example:"false"`
}
