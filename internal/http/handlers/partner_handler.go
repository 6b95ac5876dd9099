// README: Pickup partner handlers: register, list, approve.
package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"snabbdeal/internal/modules/partner"
	"snabbdeal/internal/types"
)

type PartnerHandler struct {
	partners *partner.Service
}

func NewPartnerHandler(svc *partner.Service) *PartnerHandler {
	return &PartnerHandler{partners: svc}
}

// Register takes a multipart form: partner fields plus front and back
// verification document images.
func (h *PartnerHandler) Register(c *gin.Context) {
	front, frontFile, ok := openFormFile(c, "front")
	if !ok {
		return
	}
	defer frontFile.Close()
	back, backFile, ok := openFormFile(c, "back")
	if !ok {
		return
	}
	defer backFile.Close()

	lat, _ := strconv.ParseFloat(c.PostForm("lat"), 64)
	lng, _ := strconv.ParseFloat(c.PostForm("lng"), 64)

	var platforms []string
	for _, p := range strings.Split(c.PostForm("platforms"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			platforms = append(platforms, p)
		}
	}

	id, err := h.partners.Register(c.Request.Context(), partner.RegisterCommand{
		Email:     c.PostForm("email"),
		Name:      c.PostForm("name"),
		Phone:     c.PostForm("phone"),
		ItemType:  c.PostForm("item_type"),
		Business:  c.PostForm("business"),
		Platforms: platforms,
		Address: types.Address{
			Location: c.PostForm("location"),
			Lat:      lat,
			Lng:      lng,
		},
		PickupFrom:    c.PostForm("from"),
		PickupTo:      c.PostForm("to"),
		PaymentMethod: c.PostForm("payment_method"),
		Front:         front,
		Back:          back,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"partner_id": id})
}

func openFormFile(c *gin.Context, field string) (partner.Document, multipart.File, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		writeError(c, http.StatusBadRequest, "missing "+field+" document")
		return partner.Document{}, nil, false
	}
	f, err := header.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "unreadable "+field+" document")
		return partner.Document{}, nil, false
	}
	doc := partner.Document{
		ContentType: header.Header.Get("Content-Type"),
		Reader:      f,
	}
	return doc, f, true
}

func (h *PartnerHandler) List(c *gin.Context) {
	partners, err := h.partners.List(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]gin.H, 0, len(partners))
	for i := range partners {
		out = append(out, partnerView(&partners[i]))
	}
	writeJSON(c, http.StatusOK, out)
}

type toggleAccessReq struct {
	Verified *bool `json:"verified" binding:"required"`
}

func (h *PartnerHandler) ToggleAccess(c *gin.Context) {
	var req toggleAccessReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.partners.ToggleAccess(c.Request.Context(), types.ID(c.Param("id")), *req.Verified); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"verified": *req.Verified})
}

func partnerView(p *partner.Partner) gin.H {
	docs := make([]string, 0, len(p.Documents))
	for _, d := range p.Documents {
		docs = append(docs, d.URL)
	}
	return gin.H{
		"id":        p.ID,
		"email":     p.Email,
		"name":      p.Name,
		"phone":     p.Phone,
		"item_type": p.ItemType,
		"business":  p.Business,
		"platforms": p.Platforms,
		"address": gin.H{
			"location": p.Address.Location,
			"lat":      p.Address.Lat,
			"lng":      p.Address.Lng,
		},
		"from":           p.PickupFrom,
		"to":             p.PickupTo,
		"documents":      docs,
		"payment_method": p.PaymentMethod,
		"verified":       p.Verified,
		"created_at":     p.CreatedAt,
	}
}
