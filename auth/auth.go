package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cookbook/common"
	"cookbook/models"
)

const sessionUserKey = "user_id"

type AuthModule struct {
	db *gorm.DB
}

func NewAuthModule(db *gorm.DB) *AuthModule {
	return &AuthModule{db: db}
}

func (a *AuthModule) RegisterRoutes(router *gin.Engine) {
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/login", a.login)
		authGroup.POST("/logout", a.logout)
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (a *AuthModule) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.FieldErrors(err))
		return
	}

	var user models.User
	if err := a.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unable to log in with provided credentials."})
		return
	}

	if !CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Unable to log in with provided credentials."})
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

func (a *AuthModule) logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	c.Status(http.StatusNoContent)
}

// SessionActor copies the authenticated user id from the session into the
// request context. Runs on every request; anonymous requests pass through.
func SessionActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if id := session.Get(sessionUserKey); id != nil {
			if userID, ok := id.(int); ok {
				c.Set(sessionUserKey, userID)
			}
		}
		c.Next()
	}
}

// CurrentActor returns the requesting user's id and whether the request
// is authenticated. Handlers never touch the session directly.
func CurrentActor(c *gin.Context) (int, bool) {
	id, exists := c.Get(sessionUserKey)
	if !exists {
		return 0, false
	}
	userID, ok := id.(int)
	return userID, ok
}

// RequireAuth aborts unauthenticated requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentActor(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Authentication credentials were not provided.",
			})
			return
		}
		c.Next()
	}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
