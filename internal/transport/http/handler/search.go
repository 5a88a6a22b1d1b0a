package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"naijalaw-ai/internal/search"
	"naijalaw-ai/internal/transport/http/response"
)

type SearchHandler struct {
	chain *search.Chain
}

func NewSearchHandler(chain *search.Chain) *SearchHandler {
	return &SearchHandler{chain: chain}
}

type SearchRequest struct {
	Query string `json:"query"`
}

// Search runs the external legal web search chain. An empty result set is
// a valid outcome, not an error.
func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing query")
		return
	}

	results := h.chain.Search(c.Request.Context(), req.Query)
	if results == nil {
		results = []search.Result{}
	}
	response.OK(c, gin.H{
		"query":   req.Query,
		"results": results,
	})
}
