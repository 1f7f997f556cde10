package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status   string `json:"status"`
	HasToken bool   `json:"hasToken"`
}

func (h ApiHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:   "ok",
		HasToken: h.HasToken,
	})
}
