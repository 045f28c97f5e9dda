package models

import "time"

type User struct {
	ID           int    `gorm:"primary_key;autoIncrement" json:"id"`
	Email        string `gorm:"unique;not null" json:"email"` // login identity
	Username     string `gorm:"unique;not null" json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	PasswordHash string `gorm:"not null" json:"-"` // json:"-" prevents password from being exposed in API
}

type Tag struct {
	ID    int    `gorm:"primary_key;autoIncrement" json:"id"`
	Name  string `gorm:"unique;not null" json:"name"`
	Color string `gorm:"size:7;not null" json:"color"` // hex string, e.g. #E26C2D
	Slug  string `gorm:"unique;not null;index" json:"slug"`
}

type Unit struct {
	ID   int    `gorm:"primary_key;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}

type Ingredient struct {
	ID     int    `gorm:"primary_key;autoIncrement" json:"id"`
	Name   string `gorm:"unique;not null;index" json:"name"`
	UnitID int    `gorm:"not null;index" json:"unit_id"`
}

type Recipe struct {
	ID          int       `gorm:"primary_key;autoIncrement" json:"id"`
	AuthorID    int       `gorm:"not null;index" json:"author_id"` // auto-filled from the session
	Name        string    `gorm:"not null" json:"name"`
	Image       string    `gorm:"not null" json:"image"` // path relative to MEDIA_ROOT
	Text        string    `gorm:"type:text" json:"text"` // markdown
	CookingTime int       `gorm:"not null" json:"cooking_time"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

type RecipeTag struct {
	ID       int `gorm:"primary_key;autoIncrement" json:"id"`
	RecipeID int `gorm:"not null;index;uniqueIndex:idx_recipe_tag" json:"recipe_id"`
	TagID    int `gorm:"not null;index;uniqueIndex:idx_recipe_tag" json:"tag_id"`
}

type RecipeIngredient struct {
	ID           int `gorm:"primary_key;autoIncrement" json:"id"`
	RecipeID     int `gorm:"not null;index;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID int `gorm:"not null;index;uniqueIndex:idx_recipe_ingredient" json:"ingredient_id"`
	Amount       int `gorm:"not null" json:"amount"`
}

type Favorite struct {
	ID       int `gorm:"primary_key;autoIncrement" json:"id"`
	UserID   int `gorm:"not null;index;uniqueIndex:idx_favorite" json:"user_id"`
	RecipeID int `gorm:"not null;index;uniqueIndex:idx_favorite" json:"recipe_id"`
}

type ShoppingCart struct {
	ID       int `gorm:"primary_key;autoIncrement" json:"id"`
	UserID   int `gorm:"not null;index;uniqueIndex:idx_shopping_cart" json:"user_id"`
	RecipeID int `gorm:"not null;index;uniqueIndex:idx_shopping_cart" json:"recipe_id"`
}

type Subscription struct {
	ID       int `gorm:"primary_key;autoIncrement" json:"id"`
	AuthorID int `gorm:"not null;index;uniqueIndex:idx_subscription" json:"author_id"`
	UserID   int `gorm:"not null;index;uniqueIndex:idx_subscription" json:"user_id"` // the follower
}
