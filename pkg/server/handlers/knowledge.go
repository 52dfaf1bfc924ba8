package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentforge/mettakg"
	"github.com/agentforge/mettakg/pkg/server/dto"
	"github.com/agentforge/mettakg/pkg/types"
)

// KnowledgeHandler serves concept and relationship reads and writes.
type KnowledgeHandler struct {
	gateway mettakg.Gateway
}

// NewKnowledgeHandler creates a knowledge handler over the gateway.
func NewKnowledgeHandler(g mettakg.Gateway) *KnowledgeHandler {
	return &KnowledgeHandler{gateway: g}
}

// AddConcept handles POST /concepts. The write always lands locally;
// RemoteSynced reports whether the remote graph also accepted it.
func (h *KnowledgeHandler) AddConcept(c *gin.Context) {
	var req dto.AddConceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	remoteOK, err := h.gateway.AddConcept(c.Request.Context(), req.Concept())
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_concept", Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.WriteResponse{
		Success:      true,
		RemoteSynced: remoteOK,
		Message:      fmt.Sprintf("concept %q stored", req.Name),
	})
}

// ListConcepts handles GET /concepts with an optional ?domain= filter.
func (h *KnowledgeHandler) ListConcepts(c *gin.Context) {
	domain := types.Domain(c.Query("domain"))
	c.JSON(http.StatusOK, gin.H{"concepts": h.gateway.ListConcepts(domain)})
}

// GetConcept handles GET /concepts/:name.
func (h *KnowledgeHandler) GetConcept(c *gin.Context) {
	name := c.Param("name")
	concept, ok := h.gateway.GetConcept(name)
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: fmt.Sprintf("concept %q not found", name),
		})
		return
	}
	c.JSON(http.StatusOK, concept)
}

// DeleteConcept handles DELETE /concepts/:name. Only the local store is
// affected; the remote graph keeps its copy.
func (h *KnowledgeHandler) DeleteConcept(c *gin.Context) {
	name := c.Param("name")
	if !h.gateway.DeleteConcept(name) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: fmt.Sprintf("concept %q not found", name),
		})
		return
	}
	c.JSON(http.StatusOK, dto.WriteResponse{Success: true, Message: fmt.Sprintf("concept %q deleted", name)})
}

// AddRelationship handles POST /relationships.
func (h *KnowledgeHandler) AddRelationship(c *gin.Context) {
	var req dto.AddRelationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	remoteOK, err := h.gateway.AddRelationship(c.Request.Context(), req.Relationship())
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_relationship", Message: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.WriteResponse{
		Success:      true,
		RemoteSynced: remoteOK,
		Message:      fmt.Sprintf("relationship %s -> %s stored", req.FromConcept, req.ToConcept),
	})
}

// ListRelationships handles GET /relationships with optional ?concept=
// and ?type= filters. The concept filter matches the from endpoint.
func (h *KnowledgeHandler) ListRelationships(c *gin.Context) {
	concept := c.Query("concept")
	relType := c.Query("type")

	var rels []*types.Relationship
	if concept != "" {
		rels = h.gateway.FindRelationships(concept, relType)
	} else {
		rels = h.gateway.ListRelationships()
	}
	c.JSON(http.StatusOK, gin.H{"relationships": rels})
}

// DomainContext handles GET /domains/:domain.
func (h *KnowledgeHandler) DomainContext(c *gin.Context) {
	domain := types.Domain(c.Param("domain"))
	c.JSON(http.StatusOK, h.gateway.Context(domain))
}
