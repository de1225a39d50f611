package handler

import (
	"net/http"

	"github.com/byteboard/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// ShowLoginPage renders the admin login form.
func ShowLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"title": "Admin Login",
	})
}

// Login verifies credentials and opens an admin session.
func Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	var user db.User
	if err := db.DB.Where("username = ?", username).First(&user).Error; err != nil {
		c.HTML(http.StatusUnauthorized, "login_error.html", gin.H{"error": "Invalid username or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		c.HTML(http.StatusUnauthorized, "login_error.html", gin.H{"error": "Invalid username or password"})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Set("username", user.Username)
	if err := session.Save(); err != nil {
		c.HTML(http.StatusInternalServerError, "login_error.html", gin.H{"error": "Failed to save session"})
		return
	}

	c.Redirect(http.StatusFound, "/admin/dashboard")
}

// Logout clears the admin session.
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/admin/login")
}

// ShowDashboard renders the admin landing page with content counters.
func ShowDashboard(c *gin.Context) {
	session := sessions.Default(c)
	username := session.Get("username")

	var postCount, publishedCount, draftCount, categoryCount, tagCount int64
	db.DB.Model(&db.Post{}).Count(&postCount)
	db.DB.Model(&db.Post{}).Where("status = ?", db.StatusPublished).Count(&publishedCount)
	db.DB.Model(&db.Post{}).Where("status = ?", db.StatusDraft).Count(&draftCount)
	db.DB.Model(&db.Category{}).Count(&categoryCount)
	db.DB.Model(&db.Tag{}).Count(&tagCount)

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"title":          "Dashboard",
		"username":       username,
		"postCount":      postCount,
		"publishedCount": publishedCount,
		"draftCount":     draftCount,
		"categoryCount":  categoryCount,
		"tagCount":       tagCount,
	})
}

// AuthRequired guards admin routes behind a logged-in session.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")
		if userID == nil {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func sessionUserID(c *gin.Context) uint {
	session := sessions.Default(c)
	switch id := session.Get("user_id").(type) {
	case uint:
		return id
	case int:
		if id > 0 {
			return uint(id)
		}
	case int64:
		if id > 0 {
			return uint(id)
		}
	}
	return 0
}
