package main

import (
	"net/http"
	"tourbook/src/admin"
	"tourbook/src/cms"
	"tourbook/src/middlewares"
	"tourbook/src/types"

	"github.com/gin-gonic/gin"
)

func adminHandlers(g *gin.RouterGroup, svc *services) *gin.RouterGroup {
	g.
		GET("/dashboard", func(ctx *gin.Context) {
			summary, err := admin.Summary(ctx.Request.Context(), svc.client(ctx))
			if err != nil {
				RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": summary})
		}).
		GET("/ratings", func(ctx *gin.Context) {
			ratings, err := admin.Ratings(ctx.Request.Context(), svc.cache)
			if err != nil {
				RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": ratings, "count": len(ratings)})
		}).
		GET("/packages/:id/bookings", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			store := middlewares.GetSession(ctx)
			board := svc.boards.Get(store.ID(), svc.client(ctx))
			records, err := board.ListBookingsForPackage(ctx.Request.Context(), params.ID)
			if err != nil {
				RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": records, "count": len(records)})
		}).
		PUT("/packages/:id/bookings/:paymentId", func(ctx *gin.Context) {
			var params types.BookingURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdatePaymentStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			store := middlewares.GetSession(ctx)
			board := svc.boards.Get(store.ID(), svc.client(ctx))
			record, err := board.UpdateStatus(ctx.Request.Context(), store, params.PackageID, params.PaymentID, types.PaymentStatus(body.Status))
			if err != nil {
				RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": record})
		})

	tours := g.Group("/tours")
	tours.
		POST("", func(ctx *gin.Context) {
			var body types.TourRequestBody
			if err := ctx.ShouldBind(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var images []cms.TourImage
			if form, err := ctx.MultipartForm(); err == nil {
				for _, fh := range form.File["images"] {
					f, err := fh.Open()
					if err != nil {
						ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
						return
					}
					defer f.Close()
					images = append(images, cms.TourImage{Filename: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Body: f})
				}
			}
			id, err := svc.tours(ctx).Create(ctx.Request.Context(), &body, images)
			if err != nil {
				RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"id": id})
		}).
		PUT("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.TourRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := svc.tours(ctx).Update(ctx.Request.Context(), params.ID, &body); err != nil {
				RespondError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if err := svc.tours(ctx).Delete(ctx.Request.Context(), params.ID); err != nil {
				RespondError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
