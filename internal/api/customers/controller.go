package customers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Conversly/crm-assistant/internal/customers"
	"github.com/Conversly/crm-assistant/internal/utils"
)

type Querier interface {
	Query(f customers.Filter) []customers.Customer
}

type Controller struct {
	store Querier
}

func NewController(store Querier) *Controller {
	return &Controller{store: store}
}

// List answers GET /customers. Malformed parameters are ignored.
func (c *Controller) List(ctx *gin.Context) {
	f := customers.FromQuery(ctx.Request.URL.Query())
	records := c.store.Query(f)
	if records == nil {
		records = []customers.Customer{}
	}

	utils.Zlog.Debug("Customer query",
		zap.Any("filter", f),
		zap.Int("count", len(records)))
	ctx.JSON(http.StatusOK, records)
}
