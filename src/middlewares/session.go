package middlewares

import (
	"log"
	"net/http"
	"tourbook/src/cart"
	"tourbook/src/session"

	"github.com/gin-gonic/gin"
)

const (
	SessionHeader = "X-Session-ID"

	sessionKey = "session"
	cartKey    = "cart"
)

// Sessions attaches the session store and cart of the caller. A missing or
// malformed X-Session-ID starts a new session; the id in use is always
// echoed back.
func Sessions(reg *session.Registry, carts *cart.Registry) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(SessionHeader)
		if !session.ValidID(id) {
			id = session.NewID()
		}
		store, err := reg.Get(ctx.Request.Context(), id)
		if err != nil {
			log.Printf("[session] %s: could not restore session: %s\n", id, err.Error())
			ctx.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "session unavailable"})
			return
		}
		ctx.Header(SessionHeader, id)
		ctx.Set(sessionKey, store)
		ctx.Set(cartKey, carts.Get(id))
		ctx.Next()
	}
}

func GetSession(ctx *gin.Context) *session.Store {
	return ctx.MustGet(sessionKey).(*session.Store)
}

func GetCart(ctx *gin.Context) *cart.Cart {
	return ctx.MustGet(cartKey).(*cart.Cart)
}
