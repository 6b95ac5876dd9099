// README: Customer reviews left against completed deliveries.
package testimonial

import (
	"time"

	"snabbdeal/internal/types"
)

type Testimonial struct {
	ID         types.ID
	DeliveryID types.ID
	Name       string
	Email      string
	Message    string
	Feedback   string
	CreatedAt  time.Time
}
