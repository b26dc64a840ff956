package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
	"github.com/mrleocoder/coderbds/internal/service"
)

type TicketHandler struct {
	Tickets *service.TicketService
	Stats   *service.StatsService
}

func (h *TicketHandler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.POST("/tickets", h.Create)
	public.GET("/stats", h.PublicStats)
	admin.GET("/tickets", h.List)
	admin.GET("/tickets/:id", h.Get)
	admin.PUT("/tickets/:id", h.Update)
}

// POST /api/tickets (contact form)
func (h *TicketHandler) Create(c *gin.Context) {
	var in service.TicketInput
	if !bindJSON(c, &in) {
		return
	}
	t, err := h.Tickets.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// GET /api/tickets?status=&priority=&skip=&limit=
func (h *TicketHandler) List(c *gin.Context) {
	p, err := page(c, maxLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	f := repository.TicketFilter{
		Status:   model.TicketStatus(c.Query("status")),
		Priority: model.TicketPriority(c.Query("priority")),
		Page:     p,
	}
	list, err := h.Tickets.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *TicketHandler) Get(c *gin.Context) {
	t, err := h.Tickets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TicketHandler) Update(c *gin.Context) {
	var u service.TicketUpdate
	if !bindJSON(c, &u) {
		return
	}
	t, err := h.Tickets.Update(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// GET /api/stats
func (h *TicketHandler) PublicStats(c *gin.Context) {
	st, err := h.Stats.Public(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
