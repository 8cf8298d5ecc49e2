package handlers

import (
	"net/http"
	"rentalChat/internal/errs"
	"rentalChat/internal/models"
	"rentalChat/internal/msgs"
	"rentalChat/internal/services"
	"rentalChat/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the account routes and owns the authentication
// middlewares shared by the chat routes.
type Handler struct {
	authService *services.AuthenticationService
	log         *zap.Logger
}

func NewHandler(authService *services.AuthenticationService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		authService: authService,
		log:         log,
	}
}

// Login godoc
// @Summary      Login with email or phone
// @Description  Exchanges credentials for a bearer token
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      models.LoginRequestBody  true  "Credentials"
// @Success      200   {object}  models.Response{data=models.LoginResponse}
// @Failure      400   {object}  models.Response
// @Failure      401   {object}  models.Response
// @Failure      403   {object}  models.Response
// @Router       /api/auth/login [post]
func (h *Handler) Login(ctx *gin.Context) {
	var loginData models.LoginRequestBody
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		h.log.Debug("login body binding failed", zap.Error(err))
		abortWithError(ctx, h.log, msgs.MsgOperationFailed, errs.ErrInvalidRequestBody, nil)
		return
	}

	loginResponse, err := h.authService.Login(ctx.Request.Context(), &loginData)
	if err != nil {
		// The password never reaches the logs.
		abortWithError(ctx, h.log, msgs.MsgOperationFailed, err, gin.H{"identifier": loginData.Identifier})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    loginResponse,
	})
}

// abortWithError replies with the status mapped from err. Server side
// failures are logged with the request context and hidden from the
// client behind a generic error.
func abortWithError(ctx *gin.Context, log *zap.Logger, message string, err error, body interface{}) {
	status := errs.StatusCode(err)
	if status >= http.StatusInternalServerError {
		fields := []zap.Field{
			zap.String("route", ctx.FullPath()),
			zap.String("method", ctx.Request.Method),
			zap.Any("params", ctx.Params),
			zap.Any("body", body),
			zap.Error(err),
		}
		if identity, ok := utils.GetIdentityFromContext(ctx); ok {
			fields = append(fields, zap.Uint("identity", identity.ID))
		}
		log.Error(message, fields...)
	}
	_ = ctx.Error(err)
	ctx.AbortWithStatusJSON(status, models.Response{
		Success: false,
		Message: message,
		Errors:  errs.Public(err),
	})
}
