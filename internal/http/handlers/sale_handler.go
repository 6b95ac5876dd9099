// README: Garage sale handlers.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"snabbdeal/internal/modules/sale"
	"snabbdeal/internal/types"
)

type SaleHandler struct {
	sales *sale.Service
}

func NewSaleHandler(svc *sale.Service) *SaleHandler {
	return &SaleHandler{sales: svc}
}

type createSaleReq struct {
	Type          string     `json:"type" binding:"required"`
	Name          string     `json:"name" binding:"required"`
	Phone         string     `json:"phone" binding:"required"`
	Address       addressReq `json:"address" binding:"required"`
	Date          time.Time  `json:"date" binding:"required"`
	PaymentMethod string     `json:"payment_method" binding:"required"`
	PosterImage   string     `json:"poster_image"`
	Items         []struct {
		Name  string `json:"name" binding:"required"`
		Price string `json:"price" binding:"required"`
		Image string `json:"image"`
	} `json:"items" binding:"required,min=1"`
}

func (h *SaleHandler) Create(c *gin.Context) {
	var req createSaleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	items := make([]sale.Item, 0, len(req.Items))
	for _, it := range req.Items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid item price")
			return
		}
		items = append(items, sale.Item{Name: it.Name, Price: price, Image: it.Image})
	}

	id, err := h.sales.Create(c.Request.Context(), sale.CreateCommand{
		Type:          req.Type,
		Name:          req.Name,
		Phone:         req.Phone,
		Address:       req.Address.toAddress(),
		Date:          req.Date,
		PaymentMethod: req.PaymentMethod,
		PosterImage:   req.PosterImage,
		Items:         items,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"sale_id": id})
}

func (h *SaleHandler) Get(c *gin.Context) {
	s, err := h.sales.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, saleView(s))
}

func (h *SaleHandler) List(c *gin.Context) {
	sales, err := h.sales.List(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]gin.H, 0, len(sales))
	for i := range sales {
		out = append(out, saleView(&sales[i]))
	}
	writeJSON(c, http.StatusOK, out)
}

func saleView(s *sale.Sale) gin.H {
	items := make([]gin.H, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, gin.H{
			"id":    it.ID,
			"name":  it.Name,
			"price": it.Price.String(),
			"image": it.Image,
		})
	}
	return gin.H{
		"id":    s.ID,
		"type":  s.Type,
		"name":  s.Name,
		"phone": s.Phone,
		"address": gin.H{
			"location": s.Address.Location,
			"lat":      s.Address.Lat,
			"lng":      s.Address.Lng,
		},
		"date":           s.Date,
		"payment_method": s.PaymentMethod,
		"poster_image":   s.PosterImage,
		"items":          items,
		"created_at":     s.CreatedAt,
	}
}
