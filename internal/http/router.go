// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"snabbdeal/internal/http/handlers"
	"snabbdeal/internal/http/middleware"
	"snabbdeal/internal/modules/delivery"
	"snabbdeal/internal/modules/intent"
	"snabbdeal/internal/modules/partner"
	"snabbdeal/internal/modules/pickup"
	"snabbdeal/internal/modules/sale"
	"snabbdeal/internal/modules/testimonial"
)

type RouterDeps struct {
	Intents      *intent.Service
	Deliveries   *delivery.Service
	Partners     *partner.Service
	Sales        *sale.Service
	Pickups      *pickup.Service
	Testimonials *testimonial.Service
	Log          *zap.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log), middleware.Logging(deps.Log))

	intentHandler := handlers.NewIntentHandler(deps.Intents)
	intents := r.Group("/intent")
	{
		intents.POST("/buyer", intentHandler.CreateBuyer)
		intents.GET("/buyer/unscheduled", intentHandler.ListUnscheduled)
		intents.GET("/buyer/confirm/:buyIntent", intentHandler.ConfirmBuyerPayment)
		intents.GET("/buyer/:id", intentHandler.GetBuyer)
		intents.POST("/seller", intentHandler.CreateSeller)
		intents.GET("/seller/buyer/:id", intentHandler.GetSellerForBuyer)
		intents.GET("/seller/:id", intentHandler.GetSeller)
	}

	deliveryHandler := handlers.NewDeliveryHandler(deps.Deliveries)
	deliveries := r.Group("/delivery")
	{
		deliveries.GET("", deliveryHandler.List)
		deliveries.POST("", deliveryHandler.Create)
		deliveries.GET("/sales", deliveryHandler.ListSales)
		deliveries.GET("/sales/:deliveryId", deliveryHandler.Get)
		deliveries.GET("/confirm/:deliveryId", deliveryHandler.Confirm)
		deliveries.PATCH("/status/:deliveryId", deliveryHandler.ChangeStatus)
		deliveries.POST("/:saleId", deliveryHandler.CreateSale)
		deliveries.GET("/:deliveryId", deliveryHandler.Get)
	}

	partnerHandler := handlers.NewPartnerHandler(deps.Partners)
	partners := r.Group("/partner")
	{
		partners.POST("", partnerHandler.Register)
		partners.GET("", partnerHandler.List)
		partners.PATCH("/:id", partnerHandler.ToggleAccess)
	}

	saleHandler := handlers.NewSaleHandler(deps.Sales)
	sales := r.Group("/sale")
	{
		sales.POST("", saleHandler.Create)
		sales.GET("", saleHandler.List)
		sales.GET("/:id", saleHandler.Get)
	}

	trackingHandler := handlers.NewTrackingHandler(deps.Pickups)
	tracking := r.Group("/tracking")
	{
		tracking.GET("", trackingHandler.List)
		tracking.GET("/:id", trackingHandler.Get)
		tracking.PATCH("/:id", trackingHandler.SetStatus)
	}

	testimonialHandler := handlers.NewTestimonialHandler(deps.Testimonials)
	testimonials := r.Group("/testimonial")
	{
		testimonials.GET("", testimonialHandler.List)
		testimonials.POST("/:deliveryId", testimonialHandler.Create)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
