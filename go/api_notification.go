package repairshopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	notificationhttpmapper "github.com/Apurer/repairshop-api/internal/domains/notifications/adapters/http/mapper"
	notificationports "github.com/Apurer/repairshop-api/internal/domains/notifications/ports"
)

type NotificationAPI struct {
	service notificationports.Service
}

func NewNotificationAPI(service notificationports.Service) NotificationAPI {
	return NotificationAPI{service: service}
}

// Post /v1/notifications
func (api *NotificationAPI) CreateNotification(c *gin.Context) {
	var payload notificationhttpmapper.NotificationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	res := api.service.CreateNotification(c.Request.Context(), payload.Title, payload.Message)
	respondEnvelope(c, res, notificationhttpmapper.FromDomain)
}

// Get /v1/notifications/unread
func (api *NotificationAPI) GetUnread(c *gin.Context) {
	respondEnvelope(c, api.service.GetUnread(c.Request.Context()), notificationhttpmapper.FromDomainList)
}

// Put /v1/notifications/:id/read
func (api *NotificationAPI) MarkAsRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	respondEnvelope(c, api.service.MarkAsRead(c.Request.Context(), id), notificationhttpmapper.FromDomain)
}
