package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/asset-tracker/internal/audit"
	"github.com/BruksfildServices01/asset-tracker/internal/auth"
	"github.com/BruksfildServices01/asset-tracker/internal/barcode"
	"github.com/BruksfildServices01/asset-tracker/internal/config"
	"github.com/BruksfildServices01/asset-tracker/internal/handlers"
	infraRepo "github.com/BruksfildServices01/asset-tracker/internal/infra/repository"
	"github.com/BruksfildServices01/asset-tracker/internal/mailer"
	"github.com/BruksfildServices01/asset-tracker/internal/metrics"
	"github.com/BruksfildServices01/asset-tracker/internal/middleware"
	"github.com/BruksfildServices01/asset-tracker/internal/storage"
	ucAssignment "github.com/BruksfildServices01/asset-tracker/internal/usecase/assignment"
	ucTag "github.com/BruksfildServices01/asset-tracker/internal/usecase/tag"
)

// Deps are the process-wide singletons the routes are built from.
type Deps struct {
	DB        *gorm.DB
	Config    *config.Config
	Log       zerolog.Logger
	Issuer    *auth.Issuer
	Blacklist auth.Blacklist
	Storage   storage.Storage
	Mailer    mailer.Mailer
	Audit     *audit.Dispatcher
	Barcodes  *barcode.Generator
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(metrics.Middleware())
	r.Use(middleware.CORSMiddleware(d.Config.App.AllowedOrigins))

	// ======================================================
	// INFRA
	// ======================================================
	assignmentRepo := infraRepo.NewAssignmentGormRepository(d.DB)
	tagRepo := infraRepo.NewTagGormRepository(d.DB)

	// ======================================================
	// USE CASES
	// ======================================================
	createAssignmentUC := ucAssignment.NewCreateAssignment(assignmentRepo, d.Audit)
	updateAssignmentUC := ucAssignment.NewUpdateAssignment(assignmentRepo, d.Audit)
	deleteAssignmentUC := ucAssignment.NewDeleteAssignment(assignmentRepo, d.Audit)

	assignBarcodeUC := ucTag.NewAssignBarcode(tagRepo, d.Barcodes, d.Storage, d.Audit)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config, d.Issuer, d.Blacklist, d.Mailer, d.Audit)
	meHandler := handlers.NewMeHandler(d.DB)

	departmentHandler := handlers.NewDepartmentHandler(d.DB, d.Audit)
	categoryHandler := handlers.NewCategoryHandler(d.DB, d.Audit)
	tagHandler := handlers.NewTagHandler(d.DB, d.Storage, assignBarcodeUC, d.Audit)
	assetHandler := handlers.NewAssetHandler(d.DB, d.Audit)
	assetTagHandler := handlers.NewAssetTagHandler(d.DB, d.Audit)
	profileHandler := handlers.NewProfileHandler(d.DB, d.Audit)

	assignmentHandler := handlers.NewAssignmentHandler(
		d.DB,
		createAssignmentUC,
		updateAssignmentUC,
		deleteAssignmentUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	// ======================================================
	// MEDIA
	// ======================================================
	if local, ok := d.Storage.(*storage.Local); ok {
		r.Static(local.BaseURL(), local.Root())
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH (public)
		// ------------------------------
		api.POST("/auth/register/", authHandler.Register)
		api.POST("/auth/login/", authHandler.Login)
		api.POST("/auth/token/refresh/", authHandler.Refresh)
		api.POST("/auth/password-reset/", authHandler.PasswordReset)
		api.POST("/auth/password-reset/confirm/", authHandler.PasswordResetConfirm)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Issuer, d.DB))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.POST("/auth/logout/", authHandler.Logout)
			secured.POST("/auth/password-change/", authHandler.PasswordChange)

			secured.GET("/audit-logs/", middleware.RequireAdmin(), auditLogsHandler.List)
		}

		// ------------------------------
		// RESOURCES (writes: admin only)
		// ------------------------------
		resources := secured.Group("/")
		resources.Use(middleware.RequireAdminForWrites())
		{
			crud(resources, "/departments", departmentHandler)
			crud(resources, "/categories", categoryHandler)
			crud(resources, "/tags", tagHandler)
			crud(resources, "/assets", assetHandler)
			crud(resources, "/asset-tags", assetTagHandler)
			crud(resources, "/asset-assignments", assignmentHandler)
			crud(resources, "/user_profiles", profileHandler)

			resources.GET("/tags/:id/barcode", tagHandler.Barcode)
			resources.GET("/assets-by-category/", assetHandler.ByCategory)
		}
	}
}

type crudHandler interface {
	List(*gin.Context)
	Get(*gin.Context)
	Create(*gin.Context)
	Update(*gin.Context)
	Delete(*gin.Context)
}

// crud wires list/retrieve/create/update/partial-update/delete under base.
func crud(g *gin.RouterGroup, base string, h crudHandler) {
	g.GET(base+"/", h.List)
	g.POST(base+"/", h.Create)
	g.GET(base+"/:id/", h.Get)
	g.PUT(base+"/:id/", h.Update)
	g.PATCH(base+"/:id/", h.Update)
	g.DELETE(base+"/:id/", h.Delete)
}
