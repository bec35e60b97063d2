package routes

import (
	"github.com/gin-gonic/gin"

	"windpermit/internal/handlers"
	"windpermit/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	verifyHandler *handlers.VerifyHandler,
	authHandler *handlers.AuthHandler,
	permitHandler *handlers.PermitHandler,
	checklistHandler *handlers.ChecklistHandler,
	auditHandler *handlers.AuditHandler,
	jwtSecret []byte,
) *gin.Engine {

	// ---- public
	r.POST("/sendVerificationEmail", verifyHandler.SendVerificationEmail)
	r.POST("/verifyCode", verifyHandler.VerifyCode)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ---- protected
	r.Use(middleware.AuthMiddleware(jwtSecret))

	// PERMITS
	permits := r.Group("/permits")
	{
		permits.POST("/", permitHandler.Submit)
		permits.POST("/draft", permitHandler.RecordDraft)
		permits.GET("/audit", auditHandler.Recent)
		permits.POST("/engineers/verify", verifyHandler.VerifyEngineer)
		permits.GET("/ongoing", permitHandler.Ongoing)
		permits.GET("/pending", permitHandler.Pending)
		permits.GET("/pending/stream", permitHandler.PendingStream)
		permits.GET("/history", permitHandler.History)
		permits.GET("/:number", permitHandler.GetByNumber)
		permits.GET("/:number/pdf", permitHandler.DownloadPDF)
		permits.POST("/:number/status", permitHandler.UpdateStatus)
	}

	// CHECKLIST (регламентное ТО, отдельно от чек-листов наряда)
	checklist := r.Group("/checklist")
	{
		checklist.GET("/sections", checklistHandler.Sections)
		checklist.GET("/:section/latest", checklistHandler.Latest)
		checklist.POST("/:section/upload", checklistHandler.Upload)
	}

	return r
}
