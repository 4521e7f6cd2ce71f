package repairshopserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/adapters/dashboard"
	sohttpmapper "github.com/Apurer/repairshop-api/internal/domains/serviceorders/adapters/http/mapper"
	apierrors "github.com/Apurer/repairshop-api/internal/shared/errors"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

// DashboardReader serves the cached queue board.
type DashboardReader interface {
	Snapshot(ctx context.Context) (dashboard.Board, error)
}

// EventSource hands out live change subscriptions.
type EventSource interface {
	Subscribe(ctx context.Context) <-chan string
}

type DashboardAPI struct {
	board  DashboardReader
	events EventSource
}

func NewDashboardAPI(board DashboardReader, events EventSource) DashboardAPI {
	return DashboardAPI{board: board, events: events}
}

type queueView struct {
	Items      []*sohttpmapper.ServiceOrder `json:"items"`
	TotalCount int                          `json:"totalCount"`
}

type boardView struct {
	Queues      map[string]queueView `json:"queues"`
	RefreshedAt time.Time            `json:"refreshedAt"`
}

func toBoardView(board dashboard.Board) boardView {
	out := boardView{Queues: make(map[string]queueView, len(board.Queues)), RefreshedAt: board.RefreshedAt}
	for _, q := range board.Queues {
		items := make([]*sohttpmapper.ServiceOrder, 0, len(q.Orders))
		for _, o := range q.Orders {
			items = append(items, sohttpmapper.FromDomain(o))
		}
		out.Queues[string(q.Queue)] = queueView{Items: items, TotalCount: q.TotalCount}
	}
	return out
}

// Get /v1/dashboard
func (api *DashboardAPI) Snapshot(c *gin.Context) {
	board, err := api.board.Snapshot(c.Request.Context())
	if errors.Is(err, dashboard.ErrNotReady) {
		c.Header("Retry-After", "1")
		respondProblem(c, apierrors.ErrUnavailable.WithDetail(err.Error()))
		return
	}
	if err != nil {
		res := response.Internal[dashboard.Board](fmt.Sprintf("unexpected error while loading the dashboard: %v", err))
		respondEnvelope(c, res, toBoardView)
		return
	}
	respondEnvelope(c, response.OK(board, "dashboard retrieved successfully"), toBoardView)
}

// Get /v1/events
// Streams every broadcast change message as a server-sent event.
func (api *DashboardAPI) Events(c *gin.Context) {
	events := api.events.Subscribe(c.Request.Context())
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()
	c.Stream(func(w io.Writer) bool {
		msg, ok := <-events
		if !ok {
			return false
		}
		c.SSEvent("change", msg)
		return true
	})
}
