// README: Buyer and seller intent handlers.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"snabbdeal/internal/modules/intent"
	"snabbdeal/internal/types"
)

type IntentHandler struct {
	intents *intent.Service
}

func NewIntentHandler(svc *intent.Service) *IntentHandler {
	return &IntentHandler{intents: svc}
}

type addressReq struct {
	Location string  `json:"location" binding:"required"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

func (a addressReq) toAddress() types.Address {
	return types.Address{Location: a.Location, Lat: a.Lat, Lng: a.Lng}
}

type createBuyerReq struct {
	Email   string     `json:"email" binding:"required,email"`
	Name    string     `json:"name" binding:"required"`
	Message string     `json:"message"`
	Phone   string     `json:"phone" binding:"required"`
	Address addressReq `json:"address" binding:"required"`
	Item    struct {
		Tag   string `json:"tag" binding:"required"`
		Link  string `json:"link"`
		Price string `json:"price" binding:"required"`
	} `json:"item" binding:"required"`
	PartnerID string `json:"partner_id"`
}

func (h *IntentHandler) CreateBuyer(c *gin.Context) {
	var req createBuyerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	price, err := decimal.NewFromString(req.Item.Price)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid item price")
		return
	}

	id, err := h.intents.CreateBuyer(c.Request.Context(), intent.CreateBuyerCommand{
		Email:   req.Email,
		Name:    req.Name,
		Message: req.Message,
		Phone:   req.Phone,
		Address: req.Address.toAddress(),
		Item: intent.Item{
			Tag:   req.Item.Tag,
			Link:  req.Item.Link,
			Price: price,
		},
		PartnerID: types.ID(req.PartnerID),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"intent_id": id})
}

func (h *IntentHandler) GetBuyer(c *gin.Context) {
	b, err := h.intents.GetBuyer(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, buyerView(b))
}

func (h *IntentHandler) ListUnscheduled(c *gin.Context) {
	buyers, err := h.intents.ListUnscheduled(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]gin.H, 0, len(buyers))
	for i := range buyers {
		out = append(out, buyerView(&buyers[i]))
	}
	writeJSON(c, http.StatusOK, out)
}

// ConfirmBuyerPayment polls the buyer's checkout session and, once settled,
// schedules the pickup. The optional id query names the mediating partner.
func (h *IntentHandler) ConfirmBuyerPayment(c *gin.Context) {
	buyIntent := types.ID(c.Param("buyIntent"))
	partnerID := types.ID(c.Query("id"))

	trackingID, err := h.intents.ConfirmPayment(c.Request.Context(), buyIntent, partnerID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"tracking_id": trackingID})
}

type createSellerReq struct {
	Email         string     `json:"email" binding:"required,email"`
	Name          string     `json:"name" binding:"required"`
	Phone         string     `json:"phone" binding:"required"`
	Address       addressReq `json:"address" binding:"required"`
	PickupTime    time.Time  `json:"pickup_time" binding:"required"`
	PaymentMethod string     `json:"payment_method" binding:"required"`
	BuyIntent     string     `json:"buy_intent" binding:"required"`
}

func (h *IntentHandler) CreateSeller(c *gin.Context) {
	var req createSellerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.intents.CreateSeller(c.Request.Context(), intent.CreateSellerCommand{
		Email:         req.Email,
		Name:          req.Name,
		Phone:         req.Phone,
		Address:       req.Address.toAddress(),
		PickupTime:    req.PickupTime,
		PaymentMethod: req.PaymentMethod,
		BuyIntent:     types.ID(req.BuyIntent),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"intent_id": id})
}

func (h *IntentHandler) GetSeller(c *gin.Context) {
	s, err := h.intents.GetSeller(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, sellerView(s))
}

func (h *IntentHandler) GetSellerForBuyer(c *gin.Context) {
	s, err := h.intents.GetSellerForBuyer(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, sellerView(s))
}

func buyerView(b *intent.BuyerIntent) gin.H {
	return gin.H{
		"id":      b.ID,
		"email":   b.Email,
		"name":    b.Name,
		"message": b.Message,
		"phone":   b.Phone,
		"address": gin.H{
			"location": b.Address.Location,
			"lat":      b.Address.Lat,
			"lng":      b.Address.Lng,
		},
		"item": gin.H{
			"tag":   b.Item.Tag,
			"link":  b.Item.Link,
			"price": b.Item.Price.String(),
		},
		"acknowledged": b.Acknowledged,
		"paid":         b.Paid,
		"created_at":   b.CreatedAt,
	}
}

func sellerView(s *intent.SellerIntent) gin.H {
	return gin.H{
		"id":    s.ID,
		"email": s.Email,
		"name":  s.Name,
		"phone": s.Phone,
		"address": gin.H{
			"location": s.Address.Location,
			"lat":      s.Address.Lat,
			"lng":      s.Address.Lng,
		},
		"pickup_time":    s.PickupTime,
		"payment_method": s.PaymentMethod,
		"buy_intent":     s.BuyIntent,
		"created_at":     s.CreatedAt,
	}
}
