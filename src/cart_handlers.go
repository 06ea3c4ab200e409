package main

import (
	"context"
	"net/http"
	"strconv"
	"time"
	"tourbook/src/cart"
	"tourbook/src/lib/mailer"
	"tourbook/src/middlewares"
	"tourbook/src/models"
	"tourbook/src/types"

	"github.com/gin-gonic/gin"
)

// findPackage prefers the loaded catalog and asks the CMS otherwise.
func (s *services) findPackage(ctx context.Context, id uint) (*models.PackageView, error) {
	if packages, ok := s.feed.Snapshot(); ok {
		for i := range packages {
			if packages[i].ID == id {
				pkg := packages[i]
				return &pkg, nil
			}
		}
	}
	return s.cms.GetPackage(ctx, id)
}

func cartResponse(lines []models.CartLine) gin.H {
	return gin.H{"data": lines, "count": len(lines), "total": cart.Total(lines)}
}

func cartHandlers(g *gin.RouterGroup, svc *services) *gin.RouterGroup {
	g.
		GET("/cart", func(ctx *gin.Context) {
			lines, err := middlewares.GetCart(ctx).Lines(ctx.Request.Context())
			if err != nil {
				RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, cartResponse(lines))
		}).
		POST("/cart", func(ctx *gin.Context) {
			var body types.AddToCartRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			pkg, err := svc.findPackage(ctx.Request.Context(), body.PackageID)
			if err != nil {
				RespondError(ctx, err)
				return
			}
			opts := cart.DefaultOptions(models.CartOptions{
				TimeOfTour:      types.TimeTag(body.TimeOfTour),
				Specials:        body.Specials,
				SelectedDate:    body.SelectedDate,
				Travelers:       body.Travelers,
				PickupOption:    types.PickupOption(body.PickupOption),
				PickupLocation:  body.PickupLocation,
				DropoffLocation: body.DropoffLocation,
			}, time.Now())
			lines, err := middlewares.GetCart(ctx).Add(ctx.Request.Context(), *pkg, opts)
			if err != nil {
				RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, cartResponse(lines))
		}).
		DELETE("/cart/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			confirmed, _ := strconv.ParseBool(ctx.Query("confirm"))
			confirm := cart.ConfirmFunc(func(context.Context, models.CartLine) bool {
				return confirmed
			})
			lines, err := middlewares.GetCart(ctx).Remove(ctx.Request.Context(), params.ID, confirm)
			if err != nil {
				RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, cartResponse(lines))
		}).
		POST("/cart/checkout", func(ctx *gin.Context) {
			store := middlewares.GetSession(ctx)
			receipt, err := middlewares.GetCart(ctx).Checkout(ctx.Request.Context(), store, svc.client(ctx), time.Now())
			if err != nil {
				RespondError(ctx, err)
				return
			}
			if user := store.User(); user != nil && user.Email != "" {
				mailer.SendAsync(svc.mailer, mailer.BookingConfirmation(user.Email, receipt.HistoryID, &receipt.Submission, receipt.Lines))
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": receipt})
		})
	return g
}
