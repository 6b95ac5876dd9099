// README: Testimonial handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"snabbdeal/internal/modules/testimonial"
	"snabbdeal/internal/types"
)

type TestimonialHandler struct {
	testimonials *testimonial.Service
}

func NewTestimonialHandler(svc *testimonial.Service) *TestimonialHandler {
	return &TestimonialHandler{testimonials: svc}
}

type createTestimonialReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Message  string `json:"testimonial" binding:"required"`
	Feedback string `json:"feedback"`
}

func (h *TestimonialHandler) Create(c *gin.Context) {
	var req createTestimonialReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.testimonials.Create(c.Request.Context(), testimonial.CreateCommand{
		DeliveryID: types.ID(c.Param("deliveryId")),
		Name:       req.Name,
		Email:      req.Email,
		Message:    req.Message,
		Feedback:   req.Feedback,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"testimonial_id": t.ID})
}

func (h *TestimonialHandler) List(c *gin.Context) {
	all, err := h.testimonials.List(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]gin.H, 0, len(all))
	for _, t := range all {
		out = append(out, gin.H{
			"id":          t.ID,
			"delivery_id": t.DeliveryID,
			"name":        t.Name,
			"email":       t.Email,
			"testimonial": t.Message,
			"feedback":    t.Feedback,
			"created_at":  t.CreatedAt,
		})
	}
	writeJSON(c, http.StatusOK, out)
}
