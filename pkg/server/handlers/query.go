// Package handlers implements the gin handlers of the knowledge
// gateway API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentforge/mettakg"
	"github.com/agentforge/mettakg/pkg/server/dto"
)

// QueryHandler serves free-text knowledge queries.
type QueryHandler struct {
	gateway mettakg.Gateway
}

// NewQueryHandler creates a query handler over the gateway.
func NewQueryHandler(g mettakg.Gateway) *QueryHandler {
	return &QueryHandler{gateway: g}
}

// Query handles POST /query. Blank queries are the only client error;
// remote outages degrade to the fallback path inside the gateway and
// still produce a 200.
func (h *QueryHandler) Query(c *gin.Context) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	resp, err := h.gateway.Query(c.Request.Context(), req.Query, req.Parameters)
	if err != nil {
		if errors.Is(err, mettakg.ErrQueryRequired) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "query_failed", Message: err.Error()})
		return
	}
	if req.Limit > 0 && len(resp.Results) > req.Limit {
		resp.Results = resp.Results[:req.Limit]
	}
	c.JSON(http.StatusOK, resp)
}
