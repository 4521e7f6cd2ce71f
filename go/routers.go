package repairshopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every bounded context.
type ApiHandleFunctions struct {
	CustomerAPI     CustomerAPI
	ServiceOrderAPI ServiceOrderAPI
	NotificationAPI NotificationAPI
	DashboardAPI    DashboardAPI
}

// NewRouter returns a new router with recovery and request ids installed.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID())
	router.Use(middleware...)
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes without a bound handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(h ApiHandleFunctions) []Route {
	return []Route{
		{"Healthz", http.MethodGet, "/healthz", Healthz},

		{"CreateCustomer", http.MethodPost, "/v1/customers", h.CustomerAPI.CreateCustomer},
		{"GetAllCustomers", http.MethodGet, "/v1/customers", h.CustomerAPI.GetAllCustomers},
		{"GetCustomerByID", http.MethodGet, "/v1/customers/:id", h.CustomerAPI.GetCustomerByID},
		{"UpdateCustomer", http.MethodPut, "/v1/customers/:id", h.CustomerAPI.UpdateCustomer},

		{"CreateServiceOrder", http.MethodPost, "/v1/service-orders", h.ServiceOrderAPI.CreateServiceOrder},
		{"GetServiceOrders", http.MethodGet, "/v1/service-orders", h.ServiceOrderAPI.GetServiceOrders},
		{"GetQueue", http.MethodGet, "/v1/service-orders/queues/:queue", h.ServiceOrderAPI.GetQueue},
		{"GetServiceOrderByID", http.MethodGet, "/v1/service-orders/:id", h.ServiceOrderAPI.GetServiceOrderByID},
		{"UpdateServiceOrder", http.MethodPut, "/v1/service-orders/:id", h.ServiceOrderAPI.UpdateServiceOrder},
		{"GetServiceOrderForCustomer", http.MethodGet, "/v1/service-orders/:id/lookup/:code", h.ServiceOrderAPI.GetServiceOrderForCustomer},
		{"AddEstimate", http.MethodPut, "/v1/service-orders/:id/estimate", h.ServiceOrderAPI.AddEstimate},
		{"ApproveEstimate", http.MethodPut, "/v1/service-orders/:id/approve", h.ServiceOrderAPI.ApproveEstimate},
		{"RejectEstimate", http.MethodPut, "/v1/service-orders/:id/reject", h.ServiceOrderAPI.RejectEstimate},
		{"AddPurchasedPart", http.MethodPut, "/v1/service-orders/:id/purchased-part", h.ServiceOrderAPI.AddPurchasedPart},
		{"ExecuteRepair", http.MethodPut, "/v1/service-orders/:id/repair", h.ServiceOrderAPI.ExecuteRepair},
		{"AddDelivery", http.MethodPut, "/v1/service-orders/:id/delivery", h.ServiceOrderAPI.AddDelivery},
		{"SetLocation", http.MethodPut, "/v1/service-orders/:id/location", h.ServiceOrderAPI.SetLocation},
		{"RegeneratePDF", http.MethodGet, "/v1/service-orders/:id/pdf", h.ServiceOrderAPI.RegeneratePDF},

		{"CreateNotification", http.MethodPost, "/v1/notifications", h.NotificationAPI.CreateNotification},
		{"GetUnreadNotifications", http.MethodGet, "/v1/notifications/unread", h.NotificationAPI.GetUnread},
		{"MarkNotificationAsRead", http.MethodPut, "/v1/notifications/:id/read", h.NotificationAPI.MarkAsRead},

		{"GetDashboard", http.MethodGet, "/v1/dashboard", h.DashboardAPI.Snapshot},
		{"StreamEvents", http.MethodGet, "/v1/events", h.DashboardAPI.Events},
	}
}
