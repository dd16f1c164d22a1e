package apimodels

import "encoding/json"

type Response struct {
	Status  string      `json:"status"`            // fail/success
	Message string      `json:"message,omitempty"` // error text
	Data    interface{} `json:"data,omitempty"`
}

// RawResponse is the client side view of Response, data is decoded later.
type RawResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

func NewError(message string) Response {
	return Response{
		Status:  StatusFail,
		Message: message,
	}
}

func NewResponse(data interface{}) Response {
	return Response{
		Status: StatusSuccess,
		Data:   data,
	}
}
