package handlers

import (
	"github.com/contaflow/tax_compliance_app/cmd/docs"
	portssvc "github.com/contaflow/tax_compliance_app/internal/core/ports/services"
	"github.com/contaflow/tax_compliance_app/internal/middleware"
	"github.com/contaflow/tax_compliance_app/pkg/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	loginLimiter gin.HandlerFunc,
	dispatchLimiter gin.HandlerFunc,
) {
	// Health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Public authentication routes
	public := r.Group("/api/v1")
	registerAuthRoutes(public, services, loginLimiter)

	// Authenticated API routes
	setupAPIV1Routes(r, cfg, services, dispatchLimiter)

	// Swagger routes (non-production only)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	dispatchLimiter gin.HandlerFunc,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerUserRoutes(v1, services.User)
	registerCompanyRoutes(v1, services.Company)
	registerComplianceRoutes(v1, services.Compliance)
	registerTaxProfileRoutes(v1, services.TaxProfile)
	registerObligationRoutes(v1, services.Obligation, services.Dispatch, dispatchLimiter)
	registerLedgerRoutes(v1, services.Ledger)
	registerFileRoutes(v1, services.File)
	registerAuditRoutes(v1, services.Audit, services.User)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
