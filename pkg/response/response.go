package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/intranet-portal-client/pkg/errors"
)

// Pagination describes one page of a server-side paged list.
type Pagination struct {
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
}

// Envelope represents the common response contract.
type Envelope struct {
	Success    bool             `json:"success"`
	Data       interface{}      `json:"data"`
	Message    string           `json:"message,omitempty"`
	Error      *appErrors.Error `json:"error,omitempty"`
	Pagination *Pagination      `json:"pagination,omitempty"`
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pagination *Pagination) {
	noStore(c)
	c.JSON(status, Envelope{Success: true, Data: data, Pagination: pagination})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Message sends a payload-less success carrying a human readable message.
func Message(c *gin.Context, message string) {
	noStore(c)
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message})
}

// Rejected reports a domain-level refusal with HTTP 200, the way the portal
// backend signals business rule failures.
func Rejected(c *gin.Context, message string) {
	noStore(c)
	c.JSON(http.StatusOK, Envelope{Success: false, Message: message})
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	status := appErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	noStore(c)
	c.JSON(status, Envelope{Success: false, Message: appErr.Message, Error: appErr})
}

// Raw writes body as-is, bypassing the envelope.
func Raw(c *gin.Context, status int, body []byte) {
	noStore(c)
	c.Data(status, "application/json; charset=utf-8", body)
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
