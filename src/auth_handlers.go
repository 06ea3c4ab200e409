package main

import (
	"log"
	"net/http"
	"tourbook/src/common"
	"tourbook/src/middlewares"
	"tourbook/src/types"

	"github.com/gin-gonic/gin"
)

func authHandlers(g *gin.RouterGroup, svc *services) *gin.RouterGroup {
	auth := g.Group("/auth")
	auth.
		POST("/login", func(ctx *gin.Context) {
			var body types.LoginRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			store := middlewares.GetSession(ctx)
			if _, err := store.Login(ctx.Request.Context(), body.Identifier, body.Password); err != nil {
				RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"session": store.Snapshot()})
		}).
		POST("/logout", func(ctx *gin.Context) {
			store := middlewares.GetSession(ctx)
			if err := store.Logout(ctx.Request.Context()); err != nil {
				log.Printf("[auth] %s: logout did not clear slot: %s\n", store.ID(), err.Error())
			}
			svc.boards.Drop(store.ID())
			ctx.JSON(http.StatusOK, gin.H{"session": store.Snapshot()})
		}).
		GET("/me", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"session": middlewares.GetSession(ctx).Snapshot()})
		}).
		POST("/register", func(ctx *gin.Context) {
			var body types.RegisterUserRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			user, err := common.RegisterUser(ctx.Request.Context(), svc.cms, &body)
			if err != nil {
				RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"user": user})
		})

	g.POST("/profile/validate", func(ctx *gin.Context) {
		var body types.ProfileRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := common.ValidateProfile(&body); err != nil {
			RespondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"valid": true})
	})
	return auth
}
