package middlewares

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAuth rejects anonymous sessions. Must run after Sessions.
func RequireAuth(ctx *gin.Context) {
	store := GetSession(ctx)
	if !store.IsLoggedIn() {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "please login"})
		return
	}
	user := store.User()
	ctx.Set("id", user.ID)
	ctx.Set("username", user.Username)
	ctx.Next()
}

// RequireAdmin lets through sessions whose user carries the admin role.
func RequireAdmin(ctx *gin.Context) {
	store := GetSession(ctx)
	if !store.IsLoggedIn() {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "please login"})
		return
	}
	user := store.User()
	if !user.IsAdmin() {
		log.Printf("[admin] %s denied for user %d\n", ctx.FullPath(), user.ID)
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}
	ctx.Set("id", user.ID)
	ctx.Set("username", user.Username)
	ctx.Next()
}
