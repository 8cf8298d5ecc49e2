package handlers

import (
	"rentalChat/internal/errs"
	"rentalChat/internal/msgs"
	"rentalChat/internal/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) MustAuthenticateMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		identity, err := h.authService.VerifyCredential(ctx.GetHeader("Authorization"))
		if err != nil {
			abortWithError(ctx, h.log, msgs.MsgYouMustLoginFirst, err, nil)
			return
		}
		ctx.Set(utils.IdentityContextKey, identity)
		ctx.Next()
	}
}

// OptionalAuthenticateMiddleware lets anonymous requests through but
// rejects a credential that is present and invalid.
func (h *Handler) OptionalAuthenticateMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if utils.ExtractBearerToken(header) == "" {
			ctx.Next()
			return
		}
		identity, err := h.authService.VerifyCredential(header)
		if err != nil {
			abortWithError(ctx, h.log, msgs.MsgYouMustLoginFirst, errs.ErrInvalidCredential, nil)
			return
		}
		ctx.Set(utils.IdentityContextKey, identity)
		ctx.Next()
	}
}
