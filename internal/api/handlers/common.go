package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yoockh/cvcraft/internal/utils"
)

type APIError struct {
	Code  utils.Code `json:"code"`
	Error string     `json:"error"`
}

func writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(utils.HTTPStatus(err), APIError{
		Code:  utils.CodeOf(err),
		Error: utils.MessageOf(err),
	})
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}
