package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stwalsh4118/dirtboard/internal/logger"
	"github.com/stwalsh4118/dirtboard/internal/metrics"
	"github.com/stwalsh4118/dirtboard/internal/middleware"
	"github.com/stwalsh4118/dirtboard/internal/services"
)

// Dependencies is everything the router hands to its handlers.
type Dependencies struct {
	Log         *logger.Logger
	Store       Pinger
	Env         string
	Driver      string
	CORSOrigins []string

	Properties services.PropertyService
	Contacts   services.ContactService
	Activities services.ActivityService
	Comps      services.CompService
	Views      services.SavedViewService
	Buyers     services.BuyerService

	Importer       LeadImporter
	MaxUploadBytes int64

	// Metrics instruments requests. Gatherer, when set, is served on /metrics.
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// NewRouter builds the gin engine with the middleware stack and every route.
func NewRouter(d Dependencies) *gin.Engine {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS -> Metrics
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(d.Log))
	router.Use(middleware.Recovery(d.Log))
	if len(d.CORSOrigins) > 0 {
		router.Use(middleware.CORS(d.CORSOrigins))
	}
	router.Use(middleware.Metrics(d.Metrics))

	health := NewHealthHandler(d.Store, d.Env, d.Driver)
	router.GET("/health", health.Health)
	router.GET("/health/ready", health.Ready)
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(d.Gatherer)))
	}

	properties := NewPropertyHandler(d.Properties)
	contacts := NewContactHandler(d.Contacts)
	activities := NewActivityHandler(d.Activities)
	comps := NewCompHandler(d.Comps)
	views := NewSavedViewHandler(d.Views)
	buyers := NewBuyerHandler(d.Buyers)
	imports := NewImportHandler(d.Importer, d.MaxUploadBytes)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/info", health.Info)

		props := v1.Group("/properties")
		{
			props.GET("", properties.List)
			props.POST("", properties.Create)
			props.GET("/stats", properties.Stats)
			props.GET("/filter-options", properties.FilterOptions)
			props.GET("/needs-validation", properties.NeedsValidation)
			props.GET("/by-parcel/:parcel_id", properties.FindByParcel)
			props.GET("/:id", properties.Get)
			props.PATCH("/:id", properties.Update)
			props.DELETE("/:id", properties.Delete)
			props.POST("/:id/disqualify", properties.Disqualify)
			props.POST("/:id/qualify", properties.Qualify)
			props.GET("/:id/contacts", contacts.List)
			props.POST("/:id/contacts", contacts.Create)
			props.GET("/:id/activities", activities.List)
			props.POST("/:id/activities", activities.Create)
			props.GET("/:id/comps", comps.List)
			props.POST("/:id/comps", comps.Create)
		}

		v1.DELETE("/contacts/:id", contacts.Delete)
		v1.PATCH("/comps/:id", comps.Update)
		v1.DELETE("/comps/:id", comps.Delete)

		savedViews := v1.Group("/views")
		{
			savedViews.GET("", views.List)
			savedViews.POST("", views.Create)
			savedViews.GET("/:id", views.Get)
			savedViews.PATCH("/:id", views.Update)
			savedViews.DELETE("/:id", views.Delete)
			savedViews.GET("/:id/properties", views.Properties)
		}

		buyerRoutes := v1.Group("/buyers")
		{
			buyerRoutes.GET("", buyers.List)
			buyerRoutes.POST("", buyers.Create)
			buyerRoutes.GET("/:id", buyers.Get)
			buyerRoutes.PATCH("/:id", buyers.Update)
			buyerRoutes.DELETE("/:id", buyers.Delete)
		}

		v1.POST("/imports", imports.Import)
	}

	return router
}
