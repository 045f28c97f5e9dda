package serializers

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"gorm.io/gorm"

	"cookbook/media"
	"cookbook/models"
	"cookbook/relations"
)

// markdown renderer configured with Goldmark and useful extensions
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,     // tables, strikethrough, task lists, autolinks (GFM set)
		extension.Linkify, // linkify raw URLs
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(), // allow raw HTML passthrough in Markdown
	),
)

type UserResponse struct {
	Email        string `json:"email"`
	ID           int    `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

type TagResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type IngredientResponse struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// RecipeIngredientResponse is one ingredient line of a recipe: the
// ingredient id with its resolved names plus the per-recipe amount.
type RecipeIngredientResponse struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               int                        `json:"id"`
	Tags             []TagResponse              `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	TextHTML         string                     `json:"text_html"`
	CookingTime      int                        `json:"cooking_time"`
}

type RecipeShortResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeShortResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// Serializer maps stored entities to their wire representations. All
// nested objects are resolved here, never echoed from write payloads.
type Serializer struct {
	db      *gorm.DB
	checker *relations.Checker
}

func NewSerializer(db *gorm.DB) *Serializer {
	return &Serializer{db: db, checker: relations.NewChecker(db)}
}

func Tag(tag models.Tag) TagResponse {
	return TagResponse{ID: tag.ID, Name: tag.Name, Color: tag.Color, Slug: tag.Slug}
}

func RecipeShort(recipe models.Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       media.URL(recipe.Image),
		CookingTime: recipe.CookingTime,
	}
}

func (s *Serializer) User(user models.User, actorID int) UserResponse {
	return UserResponse{
		Email:        user.Email,
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: s.checker.Follows(actorID, user.ID),
	}
}

func (s *Serializer) Ingredient(ingredient models.Ingredient) (IngredientResponse, error) {
	var unit models.Unit
	if err := s.db.First(&unit, ingredient.UnitID).Error; err != nil {
		return IngredientResponse{}, err
	}
	return IngredientResponse{
		ID:              ingredient.ID,
		Name:            ingredient.Name,
		MeasurementUnit: unit.Name,
	}, nil
}

func (s *Serializer) Recipe(recipe models.Recipe, actorID int) (RecipeResponse, error) {
	var tags []models.Tag
	if err := s.db.Table("tags").
		Joins("INNER JOIN recipe_tags ON tags.id = recipe_tags.tag_id").
		Where("recipe_tags.recipe_id = ?", recipe.ID).
		Find(&tags).Error; err != nil {
		return RecipeResponse{}, err
	}

	tagResponses := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		tagResponses = append(tagResponses, Tag(tag))
	}

	var author models.User
	if err := s.db.First(&author, recipe.AuthorID).Error; err != nil {
		return RecipeResponse{}, err
	}

	lines, err := s.recipeIngredients(recipe.ID)
	if err != nil {
		return RecipeResponse{}, err
	}

	return RecipeResponse{
		ID:               recipe.ID,
		Tags:             tagResponses,
		Author:           s.User(author, actorID),
		Ingredients:      lines,
		IsFavorited:      s.checker.Favorited(actorID, recipe.ID),
		IsInShoppingCart: s.checker.InCart(actorID, recipe.ID),
		Name:             recipe.Name,
		Image:            media.URL(recipe.Image),
		Text:             recipe.Text,
		TextHTML:         renderMarkdown(recipe.Text),
		CookingTime:      recipe.CookingTime,
	}, nil
}

func (s *Serializer) Recipes(recipes []models.Recipe, actorID int) ([]RecipeResponse, error) {
	responses := make([]RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		response, err := s.Recipe(recipe, actorID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}

// Subscription renders an author the actor follows: the user fields plus
// the author's recipes (newest first, optionally capped) and their count.
func (s *Serializer) Subscription(author models.User, actorID, recipesLimit int) (SubscriptionResponse, error) {
	query := s.db.Where("author_id = ?", author.ID).Order("id DESC")
	if recipesLimit > 0 {
		query = query.Limit(recipesLimit)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return SubscriptionResponse{}, err
	}

	shorts := make([]RecipeShortResponse, 0, len(recipes))
	for _, recipe := range recipes {
		shorts = append(shorts, RecipeShort(recipe))
	}

	var count int64
	if err := s.db.Model(&models.Recipe{}).
		Where("author_id = ?", author.ID).
		Count(&count).Error; err != nil {
		return SubscriptionResponse{}, err
	}

	return SubscriptionResponse{
		UserResponse: s.User(author, actorID),
		Recipes:      shorts,
		RecipesCount: count,
	}, nil
}

func (s *Serializer) recipeIngredients(recipeID int) ([]RecipeIngredientResponse, error) {
	var lines []RecipeIngredientResponse
	err := s.db.Table("recipe_ingredients").
		Select("recipe_ingredients.ingredient_id AS id, ingredients.name AS name, units.name AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("INNER JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("INNER JOIN units ON units.id = ingredients.unit_id").
		Where("recipe_ingredients.recipe_id = ?", recipeID).
		Order("recipe_ingredients.id").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []RecipeIngredientResponse{}
	}
	return lines, nil
}

func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return content
	}
	return buf.String()
}
