package router

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/handler"
	"github.com/RoyceAzure/lab/storefront/internal/api/middleware"
	"github.com/RoyceAzure/lab/storefront/internal/identity"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New 組出完整路由
// ordersData 與 health/metrics 不需要驗證，其餘 payments 路由都要帶 token
func New(paymentHandler *handler.PaymentHandler, identityResolver identity.Resolver) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.PrometheusMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	payments := r.Group("/payments")
	payments.GET("/ordersData/:id", paymentHandler.GetOrdersData)

	authed := payments.Group("")
	authed.Use(middleware.AuthMiddleware(identityResolver))
	{
		authed.GET("", paymentHandler.GetCarts)
		authed.GET("/private", paymentHandler.GetPrivateCarts)
		authed.POST("/create-intent", paymentHandler.CreatePaymentIntent)
		authed.POST("/confirm-payment", paymentHandler.ConfirmPayment)
		authed.PATCH("/sender/:id", paymentHandler.UpdateSenderStatus)
		authed.PATCH("/receiver/:id", paymentHandler.UpdateReceiverStatus)
	}

	return r
}
