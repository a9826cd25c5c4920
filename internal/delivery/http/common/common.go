package http_common

import "github.com/gin-gonic/gin"

type ErrorResponse struct {
	Message string `json:"message" example:"internal error"`
}

const sessionIDKey = "session_id"

func SetSessionID(ctx *gin.Context, sessionID string) {
	ctx.Set(sessionIDKey, sessionID)
}

// SessionID returns the browser session resolved by the session middleware.
func SessionID(ctx *gin.Context) string {
	return ctx.GetString(sessionIDKey)
}
