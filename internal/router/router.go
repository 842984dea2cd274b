// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/staffhub/staffhub-backend/internal/config"
	"github.com/staffhub/staffhub-backend/internal/handlers"
	"github.com/staffhub/staffhub-backend/internal/middleware"
	"github.com/staffhub/staffhub-backend/internal/services"
	"github.com/staffhub/staffhub-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)
	workflowService := services.NewWorkflowService(db, notificationService)
	msaService := services.NewMSAService(db, cfg, notificationService)
	subscriptionService := services.NewSubscriptionService(db, cfg)
	contractService := services.NewContractService(db, cfg, msaService, storageService, notificationService, workflowService)
	jobService := services.NewJobService(db, cfg, msaService, notificationService, workflowService, subscriptionService)
	bureauService := services.NewBureauService(db, msaService, notificationService, workflowService)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	contractHandler := handlers.NewContractHandler(contractService)
	msaHandler := handlers.NewMSAHandler(msaService)
	jobHandler := handlers.NewJobHandler(jobService)
	bureauHandler := handlers.NewBureauHandler(bureauService, notificationService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	workflowHandler := handlers.NewWorkflowHandler(workflowService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "2.0.0",
		})
	})

	api := r.Group("/api")

	// Contract lifecycle
	contracts := api.Group("/v2/contracts")
	contracts.Use(middleware.AuthRequired())
	{
		contracts.POST("", middleware.CompanyRequired(), contractHandler.CreateContract)
		contracts.GET("", contractHandler.GetContracts)
		contracts.GET("/:id", contractHandler.GetContract)
		contracts.PUT("/:id", middleware.CompanyRequired(), contractHandler.UpdateContract)
		contracts.GET("/:id/history", contractHandler.GetHistory)
		contracts.POST("/:id/document", middleware.UploadRateLimit(), contractHandler.UploadDocument)

		actions := contracts.Group("")
		actions.Use(middleware.ActionRateLimit())
		{
			actions.POST("/:id/submit", middleware.CompanyRequired(), contractHandler.SubmitForReview)
			actions.POST("/:id/request-approval", middleware.CompanyRequired(), contractHandler.RequestApproval)
			actions.POST("/:id/approve", contractHandler.DecideApproval)
			actions.POST("/:id/send-for-signature", contractHandler.SendForSignature)
			actions.POST("/:id/sign", contractHandler.SignContract)
			actions.POST("/:id/activate", contractHandler.ActivateContract)
			actions.POST("/:id/terminate", contractHandler.TerminateContract)
			actions.POST("/:id/complete", contractHandler.CompleteContract)
			actions.POST("/:id/cancel", contractHandler.CancelContract)
		}
	}

	// Master Service Agreements
	msa := api.Group("/msa")
	msa.Use(middleware.AuthRequired())
	{
		msa.POST("", msaHandler.CreateMSA)
		msa.GET("", msaHandler.GetMSAs)
		msa.GET("/status", msaHandler.CheckMSAStatus)
		msa.GET("/:id", msaHandler.GetMSA)
		msa.POST("/:id/approve", middleware.ActionRateLimit(), msaHandler.ApproveMSA)
		msa.POST("/:id/reject", middleware.ActionRateLimit(), msaHandler.RejectMSA)
		msa.POST("/:id/terminate", middleware.ActionRateLimit(), msaHandler.TerminateMSA)
	}

	// Job postings and distribution
	jobs := api.Group("/v2/jobs")
	jobs.Use(middleware.AuthRequired())
	{
		jobs.POST("", middleware.CompanyRequired(), jobHandler.CreateJob)
		jobs.GET("", jobHandler.GetJobs)
		jobs.GET("/:id", jobHandler.GetJob)
		jobs.PUT("/:id", middleware.CompanyRequired(), jobHandler.UpdateJob)
		jobs.POST("/:id/publish", middleware.CompanyRequired(), jobHandler.PublishJob)
		jobs.POST("/:id/close", middleware.CompanyRequired(), jobHandler.CloseJob)
		jobs.POST("/:id/distribute", middleware.CompanyRequired(), jobHandler.DistributeJob)
		jobs.POST("/candidates/:id/hire", middleware.CompanyRequired(), middleware.ActionRateLimit(), jobHandler.HireCandidate)
	}

	// Bureau portal
	bureau := api.Group("/bureau")
	bureau.Use(middleware.AuthRequired())
	{
		bureau.GET("/distributions", middleware.BureauRequired(), bureauHandler.GetDistributions)
		bureau.GET("/distributions/:id", middleware.BureauRequired(), bureauHandler.GetDistribution)
		bureau.POST("/distributions/:id/accept", middleware.BureauRequired(), middleware.ActionRateLimit(), bureauHandler.AcceptDistribution)
		bureau.POST("/distributions/:id/decline", middleware.BureauRequired(), middleware.ActionRateLimit(), bureauHandler.DeclineDistribution)
		bureau.POST("/distributions/:id/candidates", middleware.BureauRequired(), bureauHandler.ProposeCandidate)
		bureau.PUT("/candidates/:id/status", bureauHandler.UpdateShortlistStatus)
		bureau.POST("/distributions/:id/messages", bureauHandler.SendMessage)
		bureau.GET("/distributions/:id/messages", bureauHandler.GetMessages)
		bureau.GET("/performance", middleware.BureauRequired(), bureauHandler.GetPerformance)
		bureau.GET("/notifications", bureauHandler.GetNotifications)
	}

	// Subscriptions
	subscriptions := api.Group("/v2/subscriptions")
	subscriptions.Use(middleware.AuthRequired())
	{
		subscriptions.GET("/plans", subscriptionHandler.GetPlans)
		subscriptions.GET("/current", subscriptionHandler.GetCurrentSubscription)
		subscriptions.POST("", subscriptionHandler.Subscribe)
		subscriptions.POST("/confirm", subscriptionHandler.ConfirmSubscription)
		subscriptions.POST("/cancel", subscriptionHandler.CancelSubscription)
	}

	// Workflow automation
	workflows := api.Group("/vms/workflows")
	workflows.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		workflows.POST("", workflowHandler.CreateWorkflow)
		workflows.GET("", workflowHandler.GetWorkflows)
		workflows.GET("/:id", workflowHandler.GetWorkflow)
		workflows.PUT("/:id/enable", workflowHandler.EnableWorkflow)
		workflows.PUT("/:id/disable", workflowHandler.DisableWorkflow)
		workflows.DELETE("/:id", workflowHandler.DeleteWorkflow)
	}

	// Admin
	admin := api.Group("/v2/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		admin.GET("/dashboard", adminHandler.GetDashboard)
		admin.GET("/users", adminHandler.GetUsers)
		admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
		admin.GET("/settings", adminHandler.GetSettings)
		admin.PUT("/settings", adminHandler.UpdateSetting)
		admin.GET("/analytics", adminHandler.GetAnalytics)
		admin.GET("/audit-logs", adminHandler.GetAuditLogs)
	}

	return r
}
