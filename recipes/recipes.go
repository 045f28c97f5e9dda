package recipes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cookbook/auth"
	"cookbook/common"
	"cookbook/media"
	"cookbook/models"
	"cookbook/serializers"
)

type RecipesModule struct {
	db         *gorm.DB
	store      *Store
	serializer *serializers.Serializer
}

func NewRecipesModule(db *gorm.DB) *RecipesModule {
	return &RecipesModule{
		db:         db,
		store:      NewStore(db),
		serializer: serializers.NewSerializer(db),
	}
}

func (m *RecipesModule) RegisterRoutes(router *gin.Engine) {
	recipesGroup := router.Group("/api/recipes")
	{
		recipesGroup.GET("", m.list)
		recipesGroup.POST("", auth.RequireAuth(), m.create)
		recipesGroup.GET("/download_shopping_cart", auth.RequireAuth(), m.downloadShoppingCart)
		recipesGroup.GET("/:id", m.retrieve)
		recipesGroup.PATCH("/:id", auth.RequireAuth(), m.update)
		recipesGroup.DELETE("/:id", auth.RequireAuth(), m.delete)
		recipesGroup.POST("/:id/favorite", auth.RequireAuth(), m.addFavorite)
		recipesGroup.DELETE("/:id/favorite", auth.RequireAuth(), m.removeFavorite)
		recipesGroup.POST("/:id/shopping_cart", auth.RequireAuth(), m.addToCart)
		recipesGroup.DELETE("/:id/shopping_cart", auth.RequireAuth(), m.removeFromCart)
	}
}

type ingredientAmountRequest struct {
	ID     int `json:"id" binding:"required"`
	Amount int `json:"amount" binding:"required,min=1"`
}

type recipeWriteRequest struct {
	Ingredients []ingredientAmountRequest `json:"ingredients" binding:"omitempty,dive"`
	Tags        []int                     `json:"tags"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name" binding:"required"`
	Text        string                    `json:"text" binding:"required"`
	CookingTime int                       `json:"cooking_time" binding:"required,min=1"`
}

// validateLines checks the ingredient and tag lists in the order the API
// promises: emptiness before duplicates, ingredients before tags, and
// referenced ids last. Returns a field-keyed error map or nil.
func (m *RecipesModule) validateLines(req recipeWriteRequest) map[string][]string {
	if len(req.Ingredients) == 0 {
		return map[string][]string{"ingredients": {"This field is required."}}
	}

	seenIngredients := map[int]bool{}
	for _, line := range req.Ingredients {
		if seenIngredients[line.ID] {
			return map[string][]string{"ingredients": {"Ingredients must not repeat."}}
		}
		seenIngredients[line.ID] = true
	}

	if len(req.Tags) == 0 {
		return map[string][]string{"tags": {"This field is required."}}
	}

	seenTags := map[int]bool{}
	for _, tagID := range req.Tags {
		if seenTags[tagID] {
			return map[string][]string{"tags": {"Tags must not repeat."}}
		}
		seenTags[tagID] = true
	}

	for ingredientID := range seenIngredients {
		var ingredient models.Ingredient
		if err := m.db.First(&ingredient, ingredientID).Error; err != nil {
			return map[string][]string{"ingredients": {"Invalid ingredient id."}}
		}
	}
	for tagID := range seenTags {
		var tag models.Tag
		if err := m.db.First(&tag, tagID).Error; err != nil {
			return map[string][]string{"tags": {"Invalid tag id."}}
		}
	}

	return nil
}

func lineRows(req recipeWriteRequest) []IngredientAmount {
	lines := make([]IngredientAmount, 0, len(req.Ingredients))
	for _, line := range req.Ingredients {
		lines = append(lines, IngredientAmount{IngredientID: line.ID, Amount: line.Amount})
	}
	return lines
}

func (m *RecipesModule) list(c *gin.Context) {
	actorID, _ := auth.CurrentActor(c)
	page, limit := common.PageParams(c)

	filters := Filters{ActorID: actorID}
	if authorID, err := strconv.Atoi(c.Query("author")); err == nil {
		filters.AuthorID = authorID
	}
	filters.TagSlugs = c.QueryArray("tags")
	filters.Favorited = boolParam(c.Query("is_favorited"))
	filters.InCart = boolParam(c.Query("is_in_shopping_cart"))

	recipes, count, err := m.store.List(filters, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error loading recipes"})
		return
	}

	results, err := m.serializer.Recipes(recipes, actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error loading recipes"})
		return
	}

	c.JSON(http.StatusOK, common.NewPage(c, count, page, limit, results))
}

func (m *RecipesModule) retrieve(c *gin.Context) {
	recipe, ok := m.recipeFromPath(c)
	if !ok {
		return
	}

	actorID, _ := auth.CurrentActor(c)
	response, err := m.serializer.Recipe(*recipe, actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error loading recipe"})
		return
	}

	c.JSON(http.StatusOK, response)
}

func (m *RecipesModule) create(c *gin.Context) {
	actorID, _ := auth.CurrentActor(c)

	var req recipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.FieldErrors(err))
		return
	}

	if fieldErrs := m.validateLines(req); fieldErrs != nil {
		c.JSON(http.StatusBadRequest, fieldErrs)
		return
	}

	if req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"image": []string{"This field is required."}})
		return
	}
	imagePath, err := media.SaveBase64Image(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"image": []string{"Upload a valid image."}})
		return
	}

	recipe := models.Recipe{
		AuthorID:    actorID,
		Name:        req.Name,
		Image:       imagePath,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		CreatedAt:   time.Now(),
	}

	if err := m.store.CreateWithLines(&recipe, lineRows(req), req.Tags); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error creating recipe"})
		return
	}

	response, err := m.serializer.Recipe(recipe, actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error loading recipe"})
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (m *RecipesModule) update(c *gin.Context) {
	recipe, ok := m.recipeFromPath(c)
	if !ok {
		return
	}

	actorID, _ := auth.CurrentActor(c)
	if recipe.AuthorID != actorID {
		c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
		return
	}

	var req recipeWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.FieldErrors(err))
		return
	}

	if fieldErrs := m.validateLines(req); fieldErrs != nil {
		c.JSON(http.StatusBadRequest, fieldErrs)
		return
	}

	// The image is kept unless a new upload is supplied.
	if req.Image != "" {
		imagePath, err := media.SaveBase64Image(req.Image)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"image": []string{"Upload a valid image."}})
			return
		}
		recipe.Image = imagePath
	}

	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime

	if err := m.store.UpdateWithLines(recipe, lineRows(req), req.Tags); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error updating recipe"})
		return
	}

	response, err := m.serializer.Recipe(*recipe, actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error loading recipe"})
		return
	}

	c.JSON(http.StatusOK, response)
}

func (m *RecipesModule) delete(c *gin.Context) {
	recipe, ok := m.recipeFromPath(c)
	if !ok {
		return
	}

	actorID, _ := auth.CurrentActor(c)
	if recipe.AuthorID != actorID {
		c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
		return
	}

	if err := m.store.Delete(recipe.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error deleting recipe"})
		return
	}

	c.Status(http.StatusNoContent)
}

// recipeFromPath loads the recipe named by the :id path param, writing the
// 404 response itself when it does not exist.
func (m *RecipesModule) recipeFromPath(c *gin.Context) (*models.Recipe, bool) {
	recipeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return nil, false
	}

	var recipe models.Recipe
	if err := m.db.First(&recipe, recipeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return nil, false
	}

	return &recipe, true
}

func boolParam(value string) bool {
	return value == "1" || value == "true"
}
