package main

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"tourbook/src/cart"
	"tourbook/src/common"
	"tourbook/src/config"
	"tourbook/src/lib"
	"tourbook/src/middlewares"
	"tourbook/src/models"
	"tourbook/src/types"

	"github.com/gin-gonic/gin"
)

const maxSlipSize = 10 << 20

func paymentHandlers(g *gin.RouterGroup, svc *services) *gin.RouterGroup {
	g.
		GET("/history", func(ctx *gin.Context) {
			entries, err := svc.client(ctx).ListHistory(ctx.Request.Context())
			if err != nil {
				RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": entries, "count": len(entries)})
		}).
		PUT("/payments/:historyId", func(ctx *gin.Context) {
			var params struct {
				HistoryID uint `uri:"historyId" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.PaymentDetailsRequestBody
			if err := ctx.ShouldBind(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			var slip *common.Slip
			if fh, err := ctx.FormFile("slip"); err == nil {
				if fh.Size > maxSlipSize {
					ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "slip too large"})
					return
				}
				f, err := fh.Open()
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				data, err := io.ReadAll(f)
				f.Close()
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				slip = &common.Slip{Filename: fh.Filename, ContentType: fh.Header.Get("Content-Type"), Body: data}
			}

			details := models.PaymentDetails{
				Name:     body.Name,
				Lastname: body.Lastname,
				Email:    body.Email,
				Phone:    body.Phone,
				Price:    body.Price,
			}
			result, err := common.SubmitPaymentDetails(ctx.Request.Context(), svc.client(ctx), svc.archive, params.HistoryID, details, slip)
			if err != nil {
				RespondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": result})
		}).
		GET("/payments/qr", func(ctx *gin.Context) {
			var query types.QRRequestQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			id := config.PromptPayID()
			if id == "" {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "PromptPay is not configured"})
				return
			}
			amount := query.Amount
			if amount == 0 {
				lines, err := middlewares.GetCart(ctx).Lines(ctx.Request.Context())
				if err != nil {
					RespondError(ctx, err)
					return
				}
				amount = cart.Total(lines)
			}
			payload := lib.PromptPayPayload(id, amount)
			var img bytes.Buffer
			if err := lib.WriteQRCode(payload, config.TempDir(), &img); err != nil {
				log.Printf("[payments] QR generation failed: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.Header("X-PromptPay-Payload", payload)
			ctx.Header("Content-Disposition", `attachment; filename="promptpay.jpeg"`)
			ctx.Data(http.StatusOK, "image/jpeg", img.Bytes())
		})
	return g
}
