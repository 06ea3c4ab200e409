package main

import (
	"errors"
	"log"
	"net/http"
	"tourbook/src/domain"

	"github.com/gin-gonic/gin"
)

// RespondError answers with the status matching err's domain type.
func RespondError(ctx *gin.Context, err error) {
	var many domain.ValidationErrors
	if errors.As(err, &many) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": many.Error(), "fields": many.Fields()})
		return
	}
	var single domain.ValidationError
	if errors.As(err, &single) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": single.Error(), "fields": gin.H{single.Field: single.Msg}})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case domain.IsCredential(err), domain.IsAuthRequired(err):
		status = http.StatusUnauthorized
	case domain.IsForbidden(err):
		status = http.StatusForbidden
	case domain.IsEmptyCart(err):
		status = http.StatusBadRequest
	case domain.IsNotFound(err):
		status = http.StatusNotFound
	case domain.IsConfirmationRequired(err):
		status = http.StatusConflict
	case domain.IsTransport(err):
		status = http.StatusBadGateway
	default:
		log.Printf("[http] %s %s: %s\n", ctx.Request.Method, ctx.Request.URL.Path, err.Error())
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
