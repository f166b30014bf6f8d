package agent

import (
	handlershared "github.com/bixmobil/vest/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getAgentID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "agent_id")
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}
