package recipes

import (
	"gorm.io/gorm"

	"cookbook/models"
)

// Filters collects the composable recipe list predicates. All supplied
// filters are ANDed; tag slugs match ANY of the given slugs.
type Filters struct {
	AuthorID  int
	TagSlugs  []string
	Favorited bool
	InCart    bool
	ActorID   int
}

// IngredientAmount is one validated (ingredient id, amount) pair of a
// write payload.
type IngredientAmount struct {
	IngredientID int
	Amount       int
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) filtered(f Filters) *gorm.DB {
	query := s.db.Model(&models.Recipe{})

	if f.AuthorID > 0 {
		query = query.Where("author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		// Subquery keeps the union semantics without duplicate rows.
		query = query.Where("id IN (?)", s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("INNER JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs))
	}
	// Both actor-scoped filters are ignored for anonymous requests.
	if f.Favorited && f.ActorID > 0 {
		query = query.Where("id IN (?)", s.db.Table("favorites").
			Select("recipe_id").Where("user_id = ?", f.ActorID))
	}
	if f.InCart && f.ActorID > 0 {
		query = query.Where("id IN (?)", s.db.Table("shopping_carts").
			Select("recipe_id").Where("user_id = ?", f.ActorID))
	}

	return query
}

// List returns one page of recipes, newest first, plus the total count
// across all pages.
func (s *Store) List(f Filters, page, limit int) ([]models.Recipe, int64, error) {
	var count int64
	if err := s.filtered(f).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := s.filtered(f).
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

// CreateWithLines persists the recipe and all its line rows as one unit.
// If any line insert fails the whole creation rolls back.
func (s *Store) CreateWithLines(recipe *models.Recipe, ingredients []IngredientAmount, tagIDs []int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		return insertLines(tx, recipe.ID, ingredients, tagIDs)
	})
}

// UpdateWithLines saves the recipe's field changes and fully replaces its
// line rows with the new set. Callers resend the complete lists on every
// update; there is no partial diffing.
func (s *Store) UpdateWithLines(recipe *models.Recipe, ingredients []IngredientAmount, tagIDs []int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(recipe).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		return insertLines(tx, recipe.ID, ingredients, tagIDs)
	})
}

func insertLines(tx *gorm.DB, recipeID int, ingredients []IngredientAmount, tagIDs []int) error {
	for _, line := range ingredients {
		row := models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: line.IngredientID,
			Amount:       line.Amount,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	for _, tagID := range tagIDs {
		row := models.RecipeTag{RecipeID: recipeID, TagID: tagID}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	return nil
}

// Delete removes the recipe and every row hanging off it.
func (s *Store) Delete(recipeID int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, dependent := range []interface{}{
			&models.RecipeIngredient{},
			&models.RecipeTag{},
			&models.Favorite{},
			&models.ShoppingCart{},
		} {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(dependent).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Recipe{}, recipeID).Error
	})
}

// ShoppingListItem is one aggregated line of the shopping-list export.
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Total           int
}

// ShoppingList aggregates the ingredient lines of every recipe in the
// user's cart. Grouping is by (ingredient name, unit name), so distinct
// ingredient rows sharing a name and unit merge into one line.
func (s *Store) ShoppingList(userID int) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.Table("recipe_ingredients").
		Select("ingredients.name AS name, units.name AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("INNER JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Joins("INNER JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("INNER JOIN units ON units.id = ingredients.unit_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, units.name").
		Order("ingredients.name").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
