package recipes

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cookbook/auth"
	"cookbook/models"
	"cookbook/serializers"
)

// Favorite and shopping-cart membership are two-state machines over
// (user, recipe): adding an existing pair is a conflict, removing a
// missing one is not found. Repeats are rejected, never silently ignored.

func (m *RecipesModule) addFavorite(c *gin.Context) {
	recipe, ok := m.recipeFromPath(c)
	if !ok {
		return
	}
	actorID, _ := auth.CurrentActor(c)

	var existing models.Favorite
	if err := m.db.Where("user_id = ? AND recipe_id = ?", actorID, recipe.ID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"detail": "Recipe is already in favorites."})
		return
	}

	favorite := models.Favorite{UserID: actorID, RecipeID: recipe.ID}
	if err := m.db.Create(&favorite).Error; err != nil {
		// The unique index arbitrates concurrent adds.
		c.JSON(http.StatusConflict, gin.H{"detail": "Recipe is already in favorites."})
		return
	}

	c.JSON(http.StatusCreated, serializers.RecipeShort(*recipe))
}

func (m *RecipesModule) removeFavorite(c *gin.Context) {
	recipe, ok := m.recipeFromPath(c)
	if !ok {
		return
	}
	actorID, _ := auth.CurrentActor(c)

	result := m.db.Where("user_id = ? AND recipe_id = ?", actorID, recipe.ID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error removing favorite"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe is not in favorites."})
		return
	}

	c.Status(http.StatusNoContent)
}

func (m *RecipesModule) addToCart(c *gin.Context) {
	recipe, ok := m.recipeFromPath(c)
	if !ok {
		return
	}
	actorID, _ := auth.CurrentActor(c)

	var existing models.ShoppingCart
	if err := m.db.Where("user_id = ? AND recipe_id = ?", actorID, recipe.ID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"detail": "Recipe is already in the shopping cart."})
		return
	}

	entry := models.ShoppingCart{UserID: actorID, RecipeID: recipe.ID}
	if err := m.db.Create(&entry).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"detail": "Recipe is already in the shopping cart."})
		return
	}

	c.JSON(http.StatusCreated, serializers.RecipeShort(*recipe))
}

func (m *RecipesModule) removeFromCart(c *gin.Context) {
	recipe, ok := m.recipeFromPath(c)
	if !ok {
		return
	}
	actorID, _ := auth.CurrentActor(c)

	result := m.db.Where("user_id = ? AND recipe_id = ?", actorID, recipe.ID).
		Delete(&models.ShoppingCart{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error removing cart entry"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe is not in the shopping cart."})
		return
	}

	c.Status(http.StatusNoContent)
}

func (m *RecipesModule) downloadShoppingCart(c *gin.Context) {
	actorID, _ := auth.CurrentActor(c)

	var user models.User
	if err := m.db.First(&user, actorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	items, err := m.store.ShoppingList(actorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error building shopping list"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_shopping_list.txt", user.Username))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(RenderShoppingList(items)))
}

// RenderShoppingList formats the aggregated items as the downloadable
// text document: a header, a blank line, then one line per group.
func RenderShoppingList(items []ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Shopping list\n\n")

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s (%s) - %d", item.Name, item.MeasurementUnit, item.Total))
	}
	b.WriteString(strings.Join(lines, "\n"))

	return b.String()
}
