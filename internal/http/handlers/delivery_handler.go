// README: Delivery handlers: create, confirm, status, reads.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"snabbdeal/internal/modules/delivery"
	"snabbdeal/internal/types"
)

type DeliveryHandler struct {
	deliveries *delivery.Service
}

func NewDeliveryHandler(svc *delivery.Service) *DeliveryHandler {
	return &DeliveryHandler{deliveries: svc}
}

type createDeliveryReq struct {
	Buyer struct {
		Name    string     `json:"name" binding:"required"`
		Email   string     `json:"email" binding:"required,email"`
		Phone   string     `json:"phone" binding:"required"`
		Address addressReq `json:"address" binding:"required"`
		Comment string     `json:"comment"`
	} `json:"buyer" binding:"required"`
	Seller struct {
		Date          time.Time  `json:"date" binding:"required"`
		Time          string     `json:"time" binding:"required"`
		Phone         string     `json:"phone" binding:"required"`
		Address       addressReq `json:"address" binding:"required"`
		PaymentMethod string     `json:"payment_method" binding:"required"`
	} `json:"seller" binding:"required"`
	Item struct {
		Note  string `json:"note"`
		Price string `json:"price" binding:"required"`
		Link  string `json:"link"`
	} `json:"item" binding:"required"`
}

func (h *DeliveryHandler) Create(c *gin.Context) {
	var req createDeliveryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	price, err := decimal.NewFromString(req.Item.Price)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid item price")
		return
	}

	id, url, err := h.deliveries.Create(c.Request.Context(), delivery.CreateCommand{
		Buyer: delivery.Buyer{
			Name:    req.Buyer.Name,
			Email:   req.Buyer.Email,
			Phone:   req.Buyer.Phone,
			Address: req.Buyer.Address.toAddress(),
			Comment: req.Buyer.Comment,
		},
		Seller: delivery.Seller{
			Date:          req.Seller.Date,
			Time:          req.Seller.Time,
			Phone:         req.Seller.Phone,
			Address:       req.Seller.Address.toAddress(),
			PaymentMethod: req.Seller.PaymentMethod,
		},
		Item: delivery.Item{
			Note:  req.Item.Note,
			Price: price,
			Link:  req.Item.Link,
		},
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"delivery_id": id, "checkout_url": url})
}

type createSaleDeliveryReq struct {
	Name    string     `json:"name" binding:"required"`
	Phone   string     `json:"phone" binding:"required"`
	Time    string     `json:"time" binding:"required"`
	Address addressReq `json:"address" binding:"required"`
	Items   []struct {
		ItemID   string `json:"item_id" binding:"required"`
		Quantity int64  `json:"quantity"`
	} `json:"items" binding:"required,min=1"`
}

func (h *DeliveryHandler) CreateSale(c *gin.Context) {
	var req createSaleDeliveryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	items := make([]delivery.Selection, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, delivery.Selection{
			ItemID:   types.ID(it.ItemID),
			Quantity: it.Quantity,
		})
	}

	id, url, err := h.deliveries.CreateSale(c.Request.Context(), delivery.CreateSaleCommand{
		SaleID:  types.ID(c.Param("saleId")),
		Name:    req.Name,
		Phone:   req.Phone,
		Time:    req.Time,
		Address: req.Address.toAddress(),
		Items:   items,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"delivery_id": id, "checkout_url": url})
}

func (h *DeliveryHandler) Confirm(c *gin.Context) {
	res, err := h.deliveries.Confirm(c.Request.Context(), types.ID(c.Param("deliveryId")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"settled": res.Settled})
}

// ChangeStatus takes a multipart form: a status field plus, for delivered,
// a proof file.
func (h *DeliveryHandler) ChangeStatus(c *gin.Context) {
	status := delivery.Status(c.PostForm("status"))

	var proof *delivery.Proof
	if file, err := c.FormFile("proof"); err == nil {
		f, err := file.Open()
		if err != nil {
			writeError(c, http.StatusBadRequest, "unreadable proof file")
			return
		}
		defer f.Close()
		proof = &delivery.Proof{
			ContentType: file.Header.Get("Content-Type"),
			Reader:      f,
		}
	}

	if err := h.deliveries.ChangeStatus(c.Request.Context(), types.ID(c.Param("deliveryId")), status, proof); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": status})
}

func (h *DeliveryHandler) Get(c *gin.Context) {
	d, err := h.deliveries.Get(c.Request.Context(), types.ID(c.Param("deliveryId")))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, deliveryView(d))
}

func (h *DeliveryHandler) List(c *gin.Context) {
	h.list(c, delivery.KindMarketplace)
}

func (h *DeliveryHandler) ListSales(c *gin.Context) {
	h.list(c, delivery.KindSale)
}

func (h *DeliveryHandler) list(c *gin.Context, kind delivery.Kind) {
	all, err := h.deliveries.List(c.Request.Context(), kind)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]gin.H, 0, len(all))
	for i := range all {
		out = append(out, deliveryView(&all[i]))
	}
	writeJSON(c, http.StatusOK, out)
}

func deliveryView(d *delivery.Delivery) gin.H {
	v := gin.H{
		"id":         d.ID,
		"kind":       d.Kind,
		"status":     d.Status,
		"paid":       d.Paid,
		"created_at": d.CreatedAt,
	}
	if d.Image != nil {
		v["image_url"] = d.Image.URL
	}
	switch d.Kind {
	case delivery.KindSale:
		items := make([]gin.H, 0, len(d.Items))
		for _, it := range d.Items {
			items = append(items, gin.H{"item_id": it.ItemID, "quantity": it.Quantity})
		}
		v["sale_id"] = d.SaleID
		v["name"] = d.Name
		v["phone"] = d.Phone
		v["time"] = d.Time
		v["address"] = gin.H{
			"location": d.Address.Location,
			"lat":      d.Address.Lat,
			"lng":      d.Address.Lng,
		}
		v["items"] = items
	default:
		v["buyer"] = gin.H{
			"name":    d.Buyer.Name,
			"email":   d.Buyer.Email,
			"phone":   d.Buyer.Phone,
			"comment": d.Buyer.Comment,
			"address": gin.H{
				"location": d.Buyer.Address.Location,
				"lat":      d.Buyer.Address.Lat,
				"lng":      d.Buyer.Address.Lng,
			},
		}
		v["seller"] = gin.H{
			"date":           d.Seller.Date,
			"time":           d.Seller.Time,
			"phone":          d.Seller.Phone,
			"payment_method": d.Seller.PaymentMethod,
			"address": gin.H{
				"location": d.Seller.Address.Location,
				"lat":      d.Seller.Address.Lat,
				"lng":      d.Seller.Address.Lng,
			},
		}
		v["item"] = gin.H{
			"note":  d.Item.Note,
			"price": d.Item.Price.String(),
			"link":  d.Item.Link,
		}
	}
	return v
}
