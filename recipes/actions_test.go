package recipes

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"cookbook/models"
)

func TestAddFavorite(t *testing.T) {
	db := setupTestDB()
	module := NewRecipesModule(db)
	author := createTestUser(db, "author")
	fan := createTestUser(db, "fan")
	recipe := createTestRecipe(db, author.ID, "Cake")

	router := setupTestRouter(module, fan.ID)
	w := postJSON(router, "POST", fmt.Sprintf("/api/recipes/%d/favorite", recipe.ID), nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Cake")

	var count int64
	db.Model(&models.Favorite{}).Where("user_id = ? AND recipe_id = ?", fan.ID, recipe.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAddFavorite_AlreadyPresent(t *testing.T) {
	db := setupTestDB()
	module := NewRecipesModule(db)
	author := createTestUser(db, "author")
	fan := createTestUser(db, "fan")
	recipe := createTestRecipe(db, author.ID, "Cake")
	db.Create(&models.Favorite{UserID: fan.ID, RecipeID: recipe.ID})

	router := setupTestRouter(module, fan.ID)
	w := postJSON(router, "POST", fmt.Sprintf("/api/recipes/%d/favorite", recipe.ID), nil)

	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	db.Model(&models.Favorite{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRemoveFavorite_Absent(t *testing.T) {
	db := setupTestDB()
	module := NewRecipesModule(db)
	author := createTestUser(db, "author")
	fan := createTestUser(db, "fan")
	recipe := createTestRecipe(db, author.ID, "Cake")

	router := setupTestRouter(module, fan.ID)
	req, _ := http.NewRequest("DELETE", fmt.Sprintf("/api/recipes/%d/favorite", recipe.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveFavorite(t *testing.T) {
	db := setupTestDB()
	module := NewRecipesModule(db)
	author := createTestUser(db, "author")
	fan := createTestUser(db, "fan")
	recipe := createTestRecipe(db, author.ID, "Cake")
	db.Create(&models.Favorite{UserID: fan.ID, RecipeID: recipe.ID})

	router := setupTestRouter(module, fan.ID)
	req, _ := http.NewRequest("DELETE", fmt.Sprintf("/api/recipes/%d/favorite", recipe.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	db.Model(&models.Favorite{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCartToggle(t *testing.T) {
	db := setupTestDB()
	module := NewRecipesModule(db)
	author := createTestUser(db, "author")
	shopper := createTestUser(db, "shopper")
	recipe := createTestRecipe(db, author.ID, "Pasta")

	router := setupTestRouter(module, shopper.ID)
	path := fmt.Sprintf("/api/recipes/%d/shopping_cart", recipe.ID)

	w := postJSON(router, "POST", path, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(router, "POST", path, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	req, _ := http.NewRequest("DELETE", path, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req, _ = http.NewRequest("DELETE", path, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavorite_UnknownRecipe(t *testing.T) {
	db := setupTestDB()
	module := NewRecipesModule(db)
	fan := createTestUser(db, "fan")

	router := setupTestRouter(module, fan.ID)
	w := postJSON(router, "POST", "/api/recipes/9999/favorite", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestShoppingList_SumsAcrossRecipes(t *testing.T) {
	db := setupTestDB()
	store := NewStore(db)
	author := createTestUser(db, "author")
	shopper := createTestUser(db, "shopper")

	flour := createTestIngredient(db, "Flour", "g")

	bread := createTestRecipe(db, author.ID, "Bread")
	addLine(db, bread.ID, flour.ID, 200)
	cake := createTestRecipe(db, author.ID, "Cake")
	addLine(db, cake.ID, flour.ID, 300)

	db.Create(&models.ShoppingCart{UserID: shopper.ID, RecipeID: bread.ID})
	db.Create(&models.ShoppingCart{UserID: shopper.ID, RecipeID: cake.ID})

	items, err := store.ShoppingList(shopper.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(items))
	assert.Equal(t, "Flour", items[0].Name)
	assert.Equal(t, "g", items[0].MeasurementUnit)
	assert.Equal(t, 500, items[0].Total)
}

func TestShoppingList_OnlyCartRecipes(t *testing.T) {
	db := setupTestDB()
	store := NewStore(db)
	author := createTestUser(db, "author")
	shopper := createTestUser(db, "shopper")

	flour := createTestIngredient(db, "Flour", "g")
	sugar := createTestIngredient(db, "Sugar", "g")

	inCart := createTestRecipe(db, author.ID, "Bread")
	addLine(db, inCart.ID, flour.ID, 200)
	notInCart := createTestRecipe(db, author.ID, "Candy")
	addLine(db, notInCart.ID, sugar.ID, 400)

	db.Create(&models.ShoppingCart{UserID: shopper.ID, RecipeID: inCart.ID})

	items, err := store.ShoppingList(shopper.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(items))
	assert.Equal(t, "Flour", items[0].Name)
}

func TestShoppingList_OrderedByName(t *testing.T) {
	db := setupTestDB()
	store := NewStore(db)
	author := createTestUser(db, "author")
	shopper := createTestUser(db, "shopper")

	sugar := createTestIngredient(db, "Sugar", "g")
	flour := createTestIngredient(db, "Flour", "g")

	recipe := createTestRecipe(db, author.ID, "Cake")
	addLine(db, recipe.ID, sugar.ID, 50)
	addLine(db, recipe.ID, flour.ID, 200)
	db.Create(&models.ShoppingCart{UserID: shopper.ID, RecipeID: recipe.ID})

	items, err := store.ShoppingList(shopper.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Flour", items[0].Name)
	assert.Equal(t, "Sugar", items[1].Name)
}

func TestDownloadShoppingCart(t *testing.T) {
	db := setupTestDB()
	module := NewRecipesModule(db)
	author := createTestUser(db, "author")
	shopper := createTestUser(db, "shopper")

	flour := createTestIngredient(db, "Flour", "g")
	recipe := createTestRecipe(db, author.ID, "Bread")
	addLine(db, recipe.ID, flour.ID, 500)
	db.Create(&models.ShoppingCart{UserID: shopper.ID, RecipeID: recipe.ID})

	router := setupTestRouter(module, shopper.ID)
	w := getPath(router, "/api/recipes/download_shopping_cart")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shopper_shopping_list.txt")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "Shopping list\n\n")
	assert.Contains(t, w.Body.String(), "- Flour (g) - 500")
}

func TestDownloadShoppingCart_RequiresAuth(t *testing.T) {
	db := setupTestDB()
	module := NewRecipesModule(db)
	router := setupTestRouter(module, 0)

	w := getPath(router, "/api/recipes/download_shopping_cart")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRenderShoppingList(t *testing.T) {
	items := []ShoppingListItem{
		{Name: "Flour", MeasurementUnit: "g", Total: 500},
		{Name: "Milk", MeasurementUnit: "ml", Total: 200},
	}

	text := RenderShoppingList(items)
	assert.Equal(t, "Shopping list\n\n- Flour (g) - 500\n- Milk (ml) - 200", text)
}
