package handler

import (
	"github.com/labstack/echo/v4"
)

// Envelope is the body of every API response. Code is 1 on success and 0 on
// failure; Status repeats the HTTP status.
type Envelope struct {
	Code    int    `json:"code"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Total   *int   `json:"total,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(c echo.Context, status int, msg string, data any) error {
	return c.JSON(status, Envelope{Code: 1, Status: status, Message: msg, Data: data})
}

func respondList(c echo.Context, status int, msg string, data any, total int) error {
	return c.JSON(status, Envelope{Code: 1, Status: status, Message: msg, Data: data, Total: &total})
}

// Failure builds the envelope for an error response.
func Failure(status int, msg, detail string) Envelope {
	return Envelope{Code: 0, Status: status, Message: msg, Error: detail}
}
