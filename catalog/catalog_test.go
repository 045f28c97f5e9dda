package catalog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cookbook/models"
)

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	db.AutoMigrate(&models.Tag{}, &models.Unit{}, &models.Ingredient{})
	return db
}

func setupTestRouter(module *CatalogModule) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	module.RegisterRoutes(router)
	return router
}

func createTestIngredient(db *gorm.DB, name, unitName string) *models.Ingredient {
	var unit models.Unit
	db.Where(models.Unit{Name: unitName}).FirstOrCreate(&unit)

	ingredient := &models.Ingredient{Name: name, UnitID: unit.ID}
	db.Create(ingredient)
	return ingredient
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestListTags(t *testing.T) {
	db := setupTestDB()
	module := NewCatalogModule(db)
	db.Create(&models.Tag{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"})
	db.Create(&models.Tag{Name: "Dinner", Color: "#49B64E", Slug: "dinner"})

	router := setupTestRouter(module)
	w := getPath(router, "/api/tags")

	assert.Equal(t, http.StatusOK, w.Code)

	var tags []struct {
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}
	json.Unmarshal(w.Body.Bytes(), &tags)

	assert.Equal(t, 2, len(tags))
	assert.Equal(t, "Breakfast", tags[0].Name)
	assert.Equal(t, "#E26C2D", tags[0].Color)
	assert.Equal(t, "dinner", tags[1].Slug)
}

func TestGetTag(t *testing.T) {
	db := setupTestDB()
	module := NewCatalogModule(db)
	tag := &models.Tag{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}
	db.Create(tag)

	router := setupTestRouter(module)
	w := getPath(router, fmt.Sprintf("/api/tags/%d", tag.ID))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "breakfast")
}

func TestGetTag_NotFound(t *testing.T) {
	db := setupTestDB()
	module := NewCatalogModule(db)

	router := setupTestRouter(module)
	w := getPath(router, "/api/tags/999")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Not found.")
}

func TestListIngredients(t *testing.T) {
	db := setupTestDB()
	module := NewCatalogModule(db)
	createTestIngredient(db, "Flour", "g")
	createTestIngredient(db, "Milk", "ml")

	router := setupTestRouter(module)
	w := getPath(router, "/api/ingredients")

	assert.Equal(t, http.StatusOK, w.Code)

	var ingredients []struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}
	json.Unmarshal(w.Body.Bytes(), &ingredients)

	assert.Equal(t, 2, len(ingredients))
	assert.Equal(t, "Flour", ingredients[0].Name)
	assert.Equal(t, "g", ingredients[0].MeasurementUnit)
}

func TestListIngredients_PrefixFilter(t *testing.T) {
	db := setupTestDB()
	module := NewCatalogModule(db)
	createTestIngredient(db, "Flour", "g")
	createTestIngredient(db, "Flax seeds", "g")
	createTestIngredient(db, "Oatmeal", "g")

	router := setupTestRouter(module)
	w := getPath(router, "/api/ingredients?name=Fl")

	var ingredients []struct {
		Name string `json:"name"`
	}
	json.Unmarshal(w.Body.Bytes(), &ingredients)

	assert.Equal(t, 2, len(ingredients))
	assert.Equal(t, "Flax seeds", ingredients[0].Name)
	assert.Equal(t, "Flour", ingredients[1].Name)
}

func TestListIngredients_PrefixIsCaseSensitive(t *testing.T) {
	db := setupTestDB()
	module := NewCatalogModule(db)
	createTestIngredient(db, "Flour", "g")

	router := setupTestRouter(module)
	w := getPath(router, "/api/ingredients?name=fl")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestListIngredients_OrderedByName(t *testing.T) {
	db := setupTestDB()
	module := NewCatalogModule(db)
	createTestIngredient(db, "Salt", "g")
	createTestIngredient(db, "Butter", "g")
	createTestIngredient(db, "Milk", "ml")

	router := setupTestRouter(module)
	w := getPath(router, "/api/ingredients")

	var ingredients []struct {
		Name string `json:"name"`
	}
	json.Unmarshal(w.Body.Bytes(), &ingredients)

	assert.Equal(t, "Butter", ingredients[0].Name)
	assert.Equal(t, "Milk", ingredients[1].Name)
	assert.Equal(t, "Salt", ingredients[2].Name)
}

func TestGetIngredient(t *testing.T) {
	db := setupTestDB()
	module := NewCatalogModule(db)
	ingredient := createTestIngredient(db, "Flour", "g")

	router := setupTestRouter(module)
	w := getPath(router, fmt.Sprintf("/api/ingredients/%d", ingredient.ID))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Flour")
	assert.Contains(t, w.Body.String(), "measurement_unit")
}

func TestGetIngredient_NotFound(t *testing.T) {
	db := setupTestDB()
	module := NewCatalogModule(db)

	router := setupTestRouter(module)
	w := getPath(router, "/api/ingredients/999")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
