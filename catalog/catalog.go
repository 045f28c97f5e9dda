package catalog

import (
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cookbook/models"
	"cookbook/serializers"
)

// CatalogModule serves the read-only reference data: tags and ingredients.
// Both lists are unpaginated.
type CatalogModule struct {
	db         *gorm.DB
	serializer *serializers.Serializer
}

func NewCatalogModule(db *gorm.DB) *CatalogModule {
	return &CatalogModule{db: db, serializer: serializers.NewSerializer(db)}
}

func (m *CatalogModule) RegisterRoutes(router *gin.Engine) {
	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/tags", m.listTags)
		apiGroup.GET("/tags/:id", m.getTag)
		apiGroup.GET("/ingredients", m.listIngredients)
		apiGroup.GET("/ingredients/:id", m.getIngredient)
	}
}

func (m *CatalogModule) listTags(c *gin.Context) {
	var tags []models.Tag
	if err := m.db.Order("id").Find(&tags).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error loading tags"})
		return
	}

	responses := make([]serializers.TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, serializers.Tag(tag))
	}

	c.JSON(http.StatusOK, responses)
}

func (m *CatalogModule) getTag(c *gin.Context) {
	tagID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	var tag models.Tag
	if err := m.db.First(&tag, tagID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	c.JSON(http.StatusOK, serializers.Tag(tag))
}

func (m *CatalogModule) listIngredients(c *gin.Context) {
	query := m.db.Table("ingredients").
		Select("ingredients.id, ingredients.name, units.name AS measurement_unit").
		Joins("INNER JOIN units ON units.id = ingredients.unit_id").
		Order("ingredients.name")

	// Case-sensitive prefix match backing the incremental-search UI.
	// substr keeps it case-sensitive where LIKE would not be.
	if prefix := c.Query("name"); prefix != "" {
		query = query.Where("substr(ingredients.name, 1, ?) = ?", utf8.RuneCountInString(prefix), prefix)
	}

	var ingredients []serializers.IngredientResponse
	if err := query.Scan(&ingredients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error loading ingredients"})
		return
	}
	if ingredients == nil {
		ingredients = []serializers.IngredientResponse{}
	}

	c.JSON(http.StatusOK, ingredients)
}

func (m *CatalogModule) getIngredient(c *gin.Context) {
	ingredientID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	var ingredient models.Ingredient
	if err := m.db.First(&ingredient, ingredientID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	response, err := m.serializer.Ingredient(ingredient)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error loading ingredient"})
		return
	}

	c.JSON(http.StatusOK, response)
}
