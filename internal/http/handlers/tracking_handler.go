// README: Pickup tracking handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"snabbdeal/internal/modules/pickup"
	"snabbdeal/internal/types"
)

type TrackingHandler struct {
	pickups *pickup.Service
}

func NewTrackingHandler(svc *pickup.Service) *TrackingHandler {
	return &TrackingHandler{pickups: svc}
}

func (h *TrackingHandler) Get(c *gin.Context) {
	p, err := h.pickups.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, pickupView(p))
}

func (h *TrackingHandler) List(c *gin.Context) {
	pickups, err := h.pickups.List(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]gin.H, 0, len(pickups))
	for i := range pickups {
		out = append(out, pickupView(&pickups[i]))
	}
	writeJSON(c, http.StatusOK, out)
}

type setStatusReq struct {
	Status string `json:"status" binding:"required"`
}

func (h *TrackingHandler) SetStatus(c *gin.Context) {
	var req setStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.pickups.SetStatus(c.Request.Context(), types.ID(c.Param("id")), pickup.Status(req.Status)); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": req.Status})
}

func pickupView(p *pickup.Pickup) gin.H {
	return gin.H{
		"id":          p.ID,
		"buy_intent":  p.BuyIntent,
		"sell_intent": p.SellIntent,
		"partner_id":  p.PartnerID,
		"status":      p.Status,
		"created_at":  p.CreatedAt,
	}
}
