package relations

import (
	"testing"

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

	db.AutoMigrate(&models.Subscription{}, &models.Favorite{}, &models.ShoppingCart{})
	return db
}

func TestFollows(t *testing.T) {
	db := setupTestDB()
	checker := NewChecker(db)
	db.Create(&models.Subscription{AuthorID: 1, UserID: 2})

	assert.True(t, checker.Follows(2, 1))
	assert.False(t, checker.Follows(1, 2))
	assert.False(t, checker.Follows(3, 1))
}

func TestFavorited(t *testing.T) {
	db := setupTestDB()
	checker := NewChecker(db)
	db.Create(&models.Favorite{UserID: 2, RecipeID: 7})

	assert.True(t, checker.Favorited(2, 7))
	assert.False(t, checker.Favorited(2, 8))
	assert.False(t, checker.Favorited(3, 7))
}

func TestInCart(t *testing.T) {
	db := setupTestDB()
	checker := NewChecker(db)
	db.Create(&models.ShoppingCart{UserID: 2, RecipeID: 7})

	assert.True(t, checker.InCart(2, 7))
	assert.False(t, checker.InCart(2, 8))
}

func TestAnonymousActor(t *testing.T) {
	db := setupTestDB()
	checker := NewChecker(db)
	db.Create(&models.Subscription{AuthorID: 1, UserID: 2})
	db.Create(&models.Favorite{UserID: 2, RecipeID: 7})
	db.Create(&models.ShoppingCart{UserID: 2, RecipeID: 7})

	assert.False(t, checker.Follows(0, 1))
	assert.False(t, checker.Favorited(0, 7))
	assert.False(t, checker.InCart(0, 7))
}
