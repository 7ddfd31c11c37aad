package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const userIdCtxKey string = "userId"

func GetUserId(ctx *gin.Context) uint64 {
	return getCtxValue(userIdCtxKey, ctx).(uint64)
}

func getCtxValue(key string, ctx *gin.Context) any {
	value, exists := ctx.Get(key)
	if !exists {
		ctx.AbortWithStatus(http.StatusInternalServerError)
	}
	return value
}

func SetUserIdCtx(userId uint64, ctx *gin.Context) {
	ctx.Set(userIdCtxKey, userId)
}
