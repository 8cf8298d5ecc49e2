package handlers

import (
	"net/http"
	"rentalChat/internal/errs"
	"rentalChat/internal/hub"
	"rentalChat/internal/models"
	"rentalChat/internal/msgs"
	"rentalChat/internal/services"
	"rentalChat/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RestHandler struct {
	chatService        *services.ChatService
	presenceService    *services.PresenceService
	fileManagerService *services.FileManagerService
	registry           *hub.Registry
	log                *zap.Logger
}

func NewRestHandler(
	chatService *services.ChatService,
	presenceService *services.PresenceService,
	fileManagerService *services.FileManagerService,
	registry *hub.Registry,
	log *zap.Logger,
) *RestHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &RestHandler{
		chatService:        chatService,
		presenceService:    presenceService,
		fileManagerService: fileManagerService,
		registry:           registry,
		log:                log,
	}
}

// Send godoc
// @Summary      Send a message
// @Description  Stores a message and pushes it to the receiver when connected. A bearer token is optional; when present it must belong to sender_id.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      models.SendMessageRequest  true  "Message"
// @Success      200   {object}  models.Response{data=services.SendResult}
// @Failure      400   {object}  models.Response
// @Failure      403   {object}  models.Response
// @Failure      500   {object}  models.Response
// @Failure      503   {object}  models.Response
// @Router       /api/chat/send [post]
func (rh *RestHandler) Send(ctx *gin.Context) {
	var request models.SendMessageRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		abortWithError(ctx, rh.log, msgs.MsgFailedToSend, errs.ErrInvalidRequestBody, nil)
		return
	}
	if err := senderMatchesIdentity(ctx, request.SenderID); err != nil {
		abortWithError(ctx, rh.log, msgs.MsgFailedToSend, err, request)
		return
	}

	result, err := rh.chatService.Send(ctx.Request.Context(), &request)
	if err != nil {
		abortWithError(ctx, rh.log, msgs.MsgFailedToSend, err, request)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgMessageSent,
		Data:    result,
	})
}

// Reply godoc
// @Summary      Reply to a message
// @Description  Sends a message threaded under messageId. The parent does not have to exist.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        messageId  path      int                         true  "Parent message ID"
// @Param        body       body      models.SendMessageRequest  true  "Message"
// @Success      200        {object}  models.Response{data=services.SendResult}
// @Failure      400        {object}  models.Response
// @Failure      403        {object}  models.Response
// @Failure      500        {object}  models.Response
// @Router       /api/chat/reply/{messageId} [post]
func (rh *RestHandler) Reply(ctx *gin.Context) {
	parentID, err := utils.ParseID(ctx.Param("messageId"))
	if err != nil {
		abortWithError(ctx, rh.log, msgs.MsgFailedToReply, err, nil)
		return
	}

	var request models.SendMessageRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		abortWithError(ctx, rh.log, msgs.MsgFailedToReply, errs.ErrInvalidRequestBody, nil)
		return
	}
	if err := senderMatchesIdentity(ctx, request.SenderID); err != nil {
		abortWithError(ctx, rh.log, msgs.MsgFailedToReply, err, request)
		return
	}

	result, err := rh.chatService.Reply(ctx.Request.Context(), parentID, &request)
	if err != nil {
		abortWithError(ctx, rh.log, msgs.MsgFailedToReply, err, request)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgReplySent,
		Data:    result,
	})
}

// FetchConversation godoc
// @Summary      Messages of a rental conversation
// @Description  Available to the owning landlord and to anyone who took part in the conversation
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        rental_id  path      int  true  "Rental ID"
// @Success      200        {object}  models.Response{data=[]models.Message}
// @Failure      401        {object}  models.Response
// @Failure      403        {object}  models.Response
// @Failure      404        {object}  models.Response
// @Router       /api/chat/messages/{rental_id} [get]
func (rh *RestHandler) FetchConversation(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}
	rentalID, err := utils.ParseID(ctx.Param("rental_id"))
	if err != nil {
		abortWithError(ctx, rh.log, msgs.MsgFailedToFetch, err, nil)
		return
	}

	messages, err := rh.chatService.FetchConversation(ctx.Request.Context(), identity, rentalID)
	if err != nil {
		abortWithError(ctx, rh.log, msgs.MsgFailedToFetch, err, nil)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    messages,
	})
}

// FetchInbox godoc
// @Summary      Inbox of a user
// @Description  Newest message of every conversation the user takes part in
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User ID"
// @Success      200     {object}  models.Response{data=[]models.InboxEntry}
// @Failure      401     {object}  models.Response
// @Failure      403     {object}  models.Response
// @Router       /api/chat/messages/recent/{userId} [get]
func (rh *RestHandler) FetchInbox(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}
	userID, err := utils.ParseID(ctx.Param("userId"))
	if err != nil {
		abortWithError(ctx, rh.log, msgs.MsgFailedToFetchInbox, err, nil)
		return
	}

	entries, err := rh.chatService.FetchInbox(ctx.Request.Context(), identity, userID)
	if err != nil {
		abortWithError(ctx, rh.log, msgs.MsgFailedToFetchInbox, err, nil)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    entries,
	})
}

// FetchDirectThread godoc
// @Summary      Direct messages between two users
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        adminId  path      int  true  "First participant"
// @Param        userId   path      int  true  "Second participant"
// @Success      200      {object}  models.Response{data=[]models.Message}
// @Failure      401      {object}  models.Response
// @Failure      403      {object}  models.Response
// @Router       /api/chat/messages/admin/{adminId}/{userId} [get]
func (rh *RestHandler) FetchDirectThread(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}
	adminID, err := utils.ParseID(ctx.Param("adminId"))
	if err != nil {
		abortWithError(ctx, rh.log, msgs.MsgFailedToFetch, err, nil)
		return
	}
	userID, err := utils.ParseID(ctx.Param("userId"))
	if err != nil {
		abortWithError(ctx, rh.log, msgs.MsgFailedToFetch, err, nil)
		return
	}

	messages, err := rh.chatService.FetchDirectThread(ctx.Request.Context(), identity, adminID, userID)
	if err != nil {
		abortWithError(ctx, rh.log, msgs.MsgFailedToFetch, err, nil)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    messages,
	})
}

// FetchThread godoc
// @Summary      Reply thread of a message
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        messageId  path      int  true  "Any message in the thread"
// @Success      200        {object}  models.Response{data=models.ThreadResponse}
// @Failure      403        {object}  models.Response
// @Failure      404        {object}  models.Response
// @Router       /api/chat/threads/{messageId} [get]
func (rh *RestHandler) FetchThread(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}
	messageID, err := utils.ParseID(ctx.Param("messageId"))
	if err != nil {
		abortWithError(ctx, rh.log, msgs.MsgFailedToFetch, err, nil)
		return
	}

	thread, err := rh.chatService.FetchThread(ctx.Request.Context(), identity, messageID)
	if err != nil {
		abortWithError(ctx, rh.log, msgs.MsgFailedToFetch, err, nil)
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    thread,
	})
}

// Presence godoc
// @Summary      Online status of a user
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      int  true  "User ID"
// @Success      200     {object}  models.Response{data=models.PresenceResponse}
// @Router       /api/chat/presence/{userId} [get]
func (rh *RestHandler) Presence(ctx *gin.Context) {
	userID, err := utils.ParseID(ctx.Param("userId"))
	if err != nil {
		abortWithError(ctx, rh.log, msgs.MsgOperationFailed, err, nil)
		return
	}

	presence, err := rh.presenceService.GetPresence(ctx.Request.Context(), userID)
	if err != nil {
		rh.log.Warn("presence lookup failed", zap.Uint("user_id", userID), zap.Error(err))
		presence = &models.PresenceResponse{UserID: userID}
	}
	// A live socket on this instance is authoritative.
	if rh.registry != nil && rh.registry.Online(userID) {
		presence.IsOnline = true
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    presence,
	})
}

// UploadAttachment godoc
// @Summary      Upload a chat attachment
// @Description  Stores the file in object storage and returns its public URL
// @Tags         chat
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Attachment"
// @Success      200   {object}  models.Response{data=models.AttachmentResponse}
// @Failure      400   {object}  models.Response
// @Failure      404   {object}  models.Response
// @Failure      413   {object}  models.Response
// @Router       /api/chat/attachments [post]
func (rh *RestHandler) UploadAttachment(ctx *gin.Context) {
	identity, ok := rh.identity(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		abortWithError(ctx, rh.log, msgs.MsgOperationFailed, errs.ErrNoFileUploaded, nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		abortWithError(ctx, rh.log, msgs.MsgOperationFailed, errs.ErrUnableToOpenUploadedFile, nil)
		return
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	url, err := rh.fileManagerService.UploadAttachment(ctx.Request.Context(), identity.ID, file.Filename, src, file.Size, contentType)
	if err != nil {
		abortWithError(ctx, rh.log, msgs.MsgOperationFailed, err, gin.H{"file_name": file.Filename, "size": file.Size})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data: models.AttachmentResponse{
			URL:         url,
			Size:        file.Size,
			ContentType: contentType,
		},
	})
}

// Health godoc
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200  {object}  models.HealthResponse
// @Router       /healthz [get]
func (rh *RestHandler) Health(ctx *gin.Context) {
	connections := 0
	if rh.registry != nil {
		connections = rh.registry.Count()
	}
	ctx.JSON(http.StatusOK, models.HealthResponse{
		Status:      "ok",
		Connections: connections,
	})
}

func (rh *RestHandler) identity(ctx *gin.Context) (models.Identity, bool) {
	identity, ok := utils.GetIdentityFromContext(ctx)
	if !ok {
		abortWithError(ctx, rh.log, msgs.MsgYouMustLoginFirst, errs.ErrUnauthorized, nil)
	}
	return identity, ok
}

// senderMatchesIdentity rejects a send whose sender differs from the
// authenticated caller. Anonymous sends are accepted.
func senderMatchesIdentity(ctx *gin.Context, senderID uint) error {
	identity, ok := utils.GetIdentityFromContext(ctx)
	if ok && identity.ID != senderID {
		return errs.ErrSenderMismatch
	}
	return nil
}
