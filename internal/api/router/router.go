package router

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/hertz-contrib/cors"
	"github.com/hertz-contrib/keyauth"

	"resume-fit-go/internal/api/handler"
)

// Register 注册全部路由。除健康检查外的接口都要求携带客户端标识，
// 用于数据归属和删除权的实现。
func Register(r *route.Engine, h *handler.MatchHandler) {
	r.Use(corsMiddleware())

	r.GET("/api/v1/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "OK"})
	})

	api := r.Group("/api/v1", clientAuth())
	{
		api.POST("/parse/resume", h.ParseResume)
		api.POST("/parse/job", h.ParseJob)
		api.POST("/match", h.Match)
		api.GET("/match/:match_id", h.GetMatch)
		api.GET("/doc/:doc_id", h.GetDocument)
		api.DELETE("/user/data", h.DeleteUserData)
		api.POST("/metrics", h.ReportMetrics)
	}
}

// corsMiddleware 放行浏览器前端的跨域请求
func corsMiddleware() app.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Client-Id", handler.ConsentSaveHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	})
}

// clientAuth 从 X-Client-Id 请求头提取客户端标识并写入上下文
func clientAuth() app.HandlerFunc {
	return keyauth.New(
		keyauth.WithKeyLookUp("header:X-Client-Id", ""),
		keyauth.WithContextKey(handler.ClientIDKey),
		keyauth.WithValidator(func(ctx context.Context, c *app.RequestContext, key string) (bool, error) {
			return strings.TrimSpace(key) != "", nil
		}),
		keyauth.WithErrorHandler(func(ctx context.Context, c *app.RequestContext, err error) {
			c.JSON(consts.StatusUnauthorized, utils.H{"error": "missing client id"})
			c.Abort()
		}),
	)
}
