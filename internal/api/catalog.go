package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

// CatalogHandler serves the read-only tag and ingredient lists
type CatalogHandler struct {
	catalogService service.ICatalogService
}

func NewCatalogHandler(catalogService service.ICatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/tags", h.ListTags)
	router.GET("/tags/:id", h.GetTag)
	router.GET("/ingredients", h.ListIngredients)
	router.GET("/ingredients/:id", h.GetIngredient)
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalogService.ListTags(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	resp := make([]types.TagResponse, 0, len(tags))
	for _, tag := range tags {
		resp = append(resp, Tag(tag))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, ok := idParam(c, "tag")
	if !ok {
		return
	}
	tag, err := h.catalogService.GetTag(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Tag(*tag))
}

// ListIngredients filters by name prefix when ?name= is given
func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalogService.SearchIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		fail(c, err)
		return
	}
	resp := make([]types.IngredientResponse, 0, len(ingredients))
	for _, ing := range ingredients {
		resp = append(resp, Ingredient(ing))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, ok := idParam(c, "ingredient")
	if !ok {
		return
	}
	ing, err := h.catalogService.GetIngredient(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Ingredient(*ing))
}
