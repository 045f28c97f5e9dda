package relations

import (
	"gorm.io/gorm"

	"cookbook/models"
)

// Checker answers the per-actor relationship questions the read
// representations need (is_subscribed, is_favorited, is_in_shopping_cart).
// Every check is a single existence probe scoped to the actor.
type Checker struct {
	db *gorm.DB
}

func NewChecker(db *gorm.DB) *Checker {
	return &Checker{db: db}
}

// Follows reports whether userID is subscribed to authorID.
// An anonymous actor (id 0) is never subscribed.
func (ch *Checker) Follows(userID, authorID int) bool {
	if userID == 0 {
		return false
	}
	var count int64
	ch.db.Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count)
	return count > 0
}

// Favorited reports whether userID has favorited recipeID.
func (ch *Checker) Favorited(userID, recipeID int) bool {
	if userID == 0 {
		return false
	}
	var count int64
	ch.db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count)
	return count > 0
}

// InCart reports whether recipeID is in userID's shopping cart.
func (ch *Checker) InCart(userID, recipeID int) bool {
	if userID == 0 {
		return false
	}
	var count int64
	ch.db.Model(&models.ShoppingCart{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count)
	return count > 0
}
