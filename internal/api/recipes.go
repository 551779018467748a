package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/apperror"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

const shoppingListFilename = "shopping_list.txt"

// RecipeHandler serves recipes, favorites, the shopping cart and its export
type RecipeHandler struct {
	recipeService     service.IRecipeService
	membershipService service.IMembershipService
	shoppingList      *service.ShoppingListService
	query             *service.QueryEngine
	authService       service.IAuthService
	presenter         *Presenter
	writeLimiter      *middleware.RateLimiter
}

func NewRecipeHandler(
	recipeService service.IRecipeService,
	membershipService service.IMembershipService,
	shoppingList *service.ShoppingListService,
	query *service.QueryEngine,
	authService service.IAuthService,
	presenter *Presenter,
	writeLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:     recipeService,
		membershipService: membershipService,
		shoppingList:      shoppingList,
		query:             query,
		authService:       authService,
		presenter:         presenter,
		writeLimiter:      writeLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.RequireAuth(h.authService)
	optionalAuth := middleware.OptionalAuth(h.authService)
	limit := h.writeLimiter.RateLimitMiddleware()

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optionalAuth, h.ListRecipes)
		recipes.POST("", requireAuth, limit, h.CreateRecipe)
		recipes.GET("/download_shopping_cart", requireAuth, h.DownloadShoppingCart)
		recipes.GET("/:id", optionalAuth, h.GetRecipe)
		recipes.PATCH("/:id", requireAuth, limit, h.UpdateRecipe)
		recipes.PUT("/:id", methodNotAllowed)
		recipes.DELETE("/:id", requireAuth, limit, h.DeleteRecipe)

		recipes.POST("/:id/favorite", requireAuth, h.addMember(service.KindFavorite))
		recipes.DELETE("/:id/favorite", requireAuth, h.removeMember(service.KindFavorite))
		recipes.POST("/:id/shopping_cart", requireAuth, h.addMember(service.KindCart))
		recipes.DELETE("/:id/shopping_cart", requireAuth, h.removeMember(service.KindCart))
	}
}

func methodNotAllowed(c *gin.Context) {
	c.Header("Allow", "GET, PATCH, DELETE")
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, middleware.ErrorResponse{
		Error:   "method_not_allowed",
		Message: fmt.Sprintf("method %s is not allowed, use PATCH", c.Request.Method),
	})
}

// ListRecipes supports ?author=, repeated ?tags=, ?is_favorited= and
// ?is_in_shopping_cart=. All criteria are ANDed.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := middleware.Viewer(c)
	filter := service.RecipeFilter{ViewerID: viewer, TagSlugs: c.QueryArray("tags")}

	if raw := c.Query("author"); raw != "" {
		authorID, err := uuid.Parse(raw)
		if err != nil {
			fail(c, apperror.ValidationFailed("author", "author must be a user id"))
			return
		}
		filter.AuthorID = &authorID
	}
	var ok bool
	if filter.IsFavorited, ok = boolQuery(c, "is_favorited"); !ok {
		return
	}
	if filter.IsInCart, ok = boolQuery(c, "is_in_shopping_cart"); !ok {
		return
	}

	all, err := h.query.AllRecipeIDs(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	ids, err := h.query.FilterRecipes(ctx, all, filter)
	if err != nil {
		fail(c, err)
		return
	}
	recipes, err := h.recipeService.ListRecipes(ctx, ids.Sorted())
	if err != nil {
		fail(c, err)
		return
	}
	resp, err := h.presenter.Recipes(ctx, viewer, recipes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := idParam(c, "recipe")
	if !ok {
		return
	}
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	h.respondRecipe(c, http.StatusOK, middleware.Viewer(c), recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, recipeInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	h.respondRecipe(c, http.StatusCreated, &userID, recipe)
}

// UpdateRecipe replaces the recipe; only the author may do so
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := h.authorizeAuthor(c, userID)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, recipeInput(req))
	if err != nil {
		fail(c, err)
		return
	}
	h.respondRecipe(c, http.StatusOK, &userID, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	id, ok := h.authorizeAuthor(c, userID)
	if !ok {
		return
	}
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// authorizeAuthor loads the :id recipe and checks that userID wrote it
func (h *RecipeHandler) authorizeAuthor(c *gin.Context, userID uuid.UUID) (uint, bool) {
	id, ok := idParam(c, "recipe")
	if !ok {
		return 0, false
	}
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return 0, false
	}
	if recipe.AuthorID != userID {
		fail(c, apperror.Forbidden("only the author can change this recipe"))
		return 0, false
	}
	return id, true
}

func (h *RecipeHandler) addMember(kind service.MembershipKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		id, ok := idParam(c, "recipe")
		if !ok {
			return
		}
		recipe, err := h.membershipService.Add(c.Request.Context(), kind, userID, id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, RecipeMinified(recipe))
	}
}

func (h *RecipeHandler) removeMember(kind service.MembershipKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		id, ok := idParam(c, "recipe")
		if !ok {
			return
		}
		if err := h.membershipService.Remove(c.Request.Context(), kind, userID, id); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DownloadShoppingCart sends the aggregated cart as a text attachment
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	doc, err := h.shoppingList.Export(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, shoppingListFilename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", doc)
}

func (h *RecipeHandler) respondRecipe(c *gin.Context, status int, viewer *uuid.UUID, recipe *models.Recipe) {
	resp, err := h.presenter.Recipe(c.Request.Context(), viewer, recipe)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(status, resp)
}

func recipeInput(req types.RecipeRequest) service.RecipeInput {
	ingredients := make([]service.IngredientInput, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		ingredients = append(ingredients, service.IngredientInput{ID: ing.ID, Amount: ing.Amount})
	}
	return service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		Tags:        req.Tags,
		Ingredients: ingredients,
	}
}
