package response

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response is the standardized API response envelope.
type Response struct {
	Data     interface{} `json:"data"`
	Error    *ErrorBody  `json:"error,omitempty"`
	Metadata Metadata    `json:"metadata"`
}

// ErrorBody represents a structured error response. Retryable tells the
// client that repeating the same request may succeed.
type ErrorBody struct {
	Code      ErrCode           `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Retryable bool              `json:"retryable,omitempty"`
}

// Metadata includes request tracing and timing.
type Metadata struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// ────────────────────────────────────────────────────────────────────────────
// Helper builders
// ────────────────────────────────────────────────────────────────────────────

// Success sends a successful JSON response with the given status code and data.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, envelope(c, data, nil))
}

// Partial sends data together with an error code, for results that were
// only partly produced.
func Partial(c *gin.Context, statusCode int, data interface{}, code ErrCode) {
	c.JSON(statusCode, envelope(c, data, &ErrorBody{Code: code, Message: GetMessage(code)}))
}

// Fail sends an error response with an error code and no field-level details.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	c.JSON(statusCode, envelope(c, nil, &ErrorBody{Code: code, Message: GetMessage(code)}))
}

// FailWithFields sends an error response with field-level validation details.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	c.JSON(statusCode, envelope(c, nil, &ErrorBody{Code: code, Message: GetMessage(code), Fields: fields}))
}

// FailBody sends a prepared error body.
func FailBody(c *gin.Context, statusCode int, body ErrorBody) {
	if body.Message == "" {
		body.Message = GetMessage(body.Code)
	}
	c.JSON(statusCode, envelope(c, nil, &body))
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, envelope(c, nil, &ErrorBody{Code: code, Message: GetMessage(code)}))
}

// ────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ────────────────────────────────────────────────────────────────────────────

func envelope(c *gin.Context, data interface{}, errBody *ErrorBody) Response {
	id := RequestID(c)
	if id == "" {
		id = uuid.New().String() // Fallback if middleware not applied
	}
	return Response{
		Data:  data,
		Error: errBody,
		Metadata: Metadata{
			RequestID: id,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
}
