package users

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cookbook/auth"
	"cookbook/common"
	"cookbook/models"
	"cookbook/serializers"
)

type UsersModule struct {
	db         *gorm.DB
	serializer *serializers.Serializer
}

func NewUsersModule(db *gorm.DB) *UsersModule {
	return &UsersModule{db: db, serializer: serializers.NewSerializer(db)}
}

func (m *UsersModule) RegisterRoutes(router *gin.Engine) {
	usersGroup := router.Group("/api/users")
	{
		usersGroup.POST("", m.register)
		usersGroup.GET("", m.list)
		usersGroup.GET("/me", auth.RequireAuth(), m.me)
		usersGroup.POST("/set_password", auth.RequireAuth(), m.setPassword)
		usersGroup.GET("/subscriptions", auth.RequireAuth(), m.subscriptions)
		usersGroup.GET("/:id", m.retrieve)
		usersGroup.POST("/:id/subscribe", auth.RequireAuth(), m.subscribe)
		usersGroup.DELETE("/:id/subscribe", auth.RequireAuth(), m.unsubscribe)
	}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
}

func (m *UsersModule) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.FieldErrors(err))
		return
	}

	var existing models.User
	if err := m.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"email": []string{"A user with this email already exists."}})
		return
	}
	if err := m.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"username": []string{"A user with this username already exists."}})
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error creating account"})
		return
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: passwordHash,
	}

	if err := m.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error creating account"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

func (m *UsersModule) list(c *gin.Context) {
	actorID, _ := auth.CurrentActor(c)
	page, limit := common.PageParams(c)

	var count int64
	if err := m.db.Model(&models.User{}).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error loading users"})
		return
	}

	var users []models.User
	if err := m.db.Order("id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error loading users"})
		return
	}

	results := make([]serializers.UserResponse, 0, len(users))
	for _, user := range users {
		results = append(results, m.serializer.User(user, actorID))
	}

	c.JSON(http.StatusOK, common.NewPage(c, count, page, limit, results))
}

func (m *UsersModule) retrieve(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	var user models.User
	if err := m.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	actorID, _ := auth.CurrentActor(c)
	c.JSON(http.StatusOK, m.serializer.User(user, actorID))
}

func (m *UsersModule) me(c *gin.Context) {
	actorID, _ := auth.CurrentActor(c)

	var user models.User
	if err := m.db.First(&user, actorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	c.JSON(http.StatusOK, m.serializer.User(user, actorID))
}

type setPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required,min=8"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

func (m *UsersModule) setPassword(c *gin.Context) {
	actorID, _ := auth.CurrentActor(c)

	var req setPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.FieldErrors(err))
		return
	}

	var user models.User
	if err := m.db.First(&user, actorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		c.JSON(http.StatusBadRequest, gin.H{"current_password": []string{"Invalid password."}})
		return
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error updating password"})
		return
	}

	user.PasswordHash = passwordHash
	if err := m.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error updating password"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (m *UsersModule) subscribe(c *gin.Context) {
	actorID, _ := auth.CurrentActor(c)

	authorID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	var author models.User
	if err := m.db.First(&author, authorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	// Self-subscription is rejected before any existence check.
	if authorID == actorID {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Cannot subscribe to yourself."})
		return
	}

	var existing models.Subscription
	if err := m.db.Where("author_id = ? AND user_id = ?", authorID, actorID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"detail": "Already subscribed to this user."})
		return
	}

	subscription := models.Subscription{AuthorID: authorID, UserID: actorID}
	if err := m.db.Create(&subscription).Error; err != nil {
		// The unique index arbitrates concurrent adds.
		c.JSON(http.StatusConflict, gin.H{"detail": "Already subscribed to this user."})
		return
	}

	response, err := m.serializer.Subscription(author, actorID, recipesLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error loading subscription"})
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (m *UsersModule) unsubscribe(c *gin.Context) {
	actorID, _ := auth.CurrentActor(c)

	authorID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	var author models.User
	if err := m.db.First(&author, authorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}

	result := m.db.Where("author_id = ? AND user_id = ?", authorID, actorID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error removing subscription"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not subscribed to this user."})
		return
	}

	c.Status(http.StatusNoContent)
}

func (m *UsersModule) subscriptions(c *gin.Context) {
	actorID, _ := auth.CurrentActor(c)
	page, limit := common.PageParams(c)

	var count int64
	if err := m.db.Table("users").
		Joins("INNER JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", actorID).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error loading subscriptions"})
		return
	}

	var authors []models.User
	if err := m.db.Table("users").
		Joins("INNER JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", actorID).
		Order("users.id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&authors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error loading subscriptions"})
		return
	}

	limitPerAuthor := recipesLimit(c)
	results := make([]serializers.SubscriptionResponse, 0, len(authors))
	for _, author := range authors {
		response, err := m.serializer.Subscription(author, actorID, limitPerAuthor)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Error loading subscriptions"})
			return
		}
		results = append(results, response)
	}

	c.JSON(http.StatusOK, common.NewPage(c, count, page, limit, results))
}

// recipesLimit reads the optional cap on embedded recipe lists.
func recipesLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
