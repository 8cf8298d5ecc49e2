package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"rentalChat/configs"
	"rentalChat/internal/enums"
	"rentalChat/internal/errs"
	"rentalChat/internal/hub"
	"rentalChat/internal/models"
	socketModels "rentalChat/internal/models/socket"
	"rentalChat/internal/services"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const presenceTimeout = 2 * time.Second

// SocketChatHandler runs the streaming side of the chat. A connection
// starts in the handshaking state, becomes connected once its credential
// verifies and is registered for live delivery until it disconnects.
type SocketChatHandler struct {
	upgrader         websocket.Upgrader
	authService      *services.AuthenticationService
	chatService      *services.ChatService
	presenceService  *services.PresenceService
	registry         *hub.Registry
	handshakeTimeout time.Duration
	writeTimeout     time.Duration
	readLimit        int64
	log              *zap.Logger
}

func NewSocketChatHandler(
	authService *services.AuthenticationService,
	chatService *services.ChatService,
	presenceService *services.PresenceService,
	registry *hub.Registry,
	config *configs.Config,
	log *zap.Logger,
) *SocketChatHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SocketChatHandler{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		authService:      authService,
		chatService:      chatService,
		presenceService:  presenceService,
		registry:         registry,
		handshakeTimeout: config.Viper.GetDuration("socket.handshake_timeout"),
		writeTimeout:     config.Viper.GetDuration("socket.write_timeout"),
		readLimit:        config.Viper.GetInt64("socket.read_limit"),
		log:              log,
	}
}

// HandleSocketChatRoute godoc
// @Summary      Chat stream
// @Description  Upgrades to a websocket. Authenticate with an Authorization header, a token query parameter or an AUTH frame sent first.
// @Tags         chat
// @Param        token  query  string  false  "Bearer token"
// @Router       /ws [get]
func (sch *SocketChatHandler) HandleSocketChatRoute(ctx *gin.Context) {
	credential := ctx.GetHeader("Authorization")
	if credential == "" {
		credential = ctx.Query("token")
	}

	ws, err := sch.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		sch.log.Warn("socket upgrade failed", zap.Error(err))
		return
	}
	if sch.readLimit > 0 {
		ws.SetReadLimit(sch.readLimit)
	}
	conn := hub.NewConn(ws, sch.writeTimeout)

	identity, err := sch.handshake(ws, credential)
	if err != nil {
		sch.log.Info("socket handshake rejected", zap.String("remote", ws.RemoteAddr().String()), zap.Error(err))
		_ = conn.WriteJSON(socketModels.SocketEvent{
			Type:  enums.SOCKET_EVENT_ERROR,
			Error: err.Error(),
		})
		_ = conn.CloseWithReason(websocket.ClosePolicyViolation, err.Error())
		return
	}

	sch.serve(ctx.Request.Context(), ws, conn, identity)
}

// handshake verifies the credential given at upgrade time or, failing
// that, expects an AUTH frame before the handshake timeout.
func (sch *SocketChatHandler) handshake(ws *websocket.Conn, credential string) (models.Identity, error) {
	if credential != "" {
		return sch.authService.VerifyCredential(credential)
	}

	if sch.handshakeTimeout > 0 {
		_ = ws.SetReadDeadline(time.Now().Add(sch.handshakeTimeout))
	}
	var event socketModels.SocketEvent
	if err := ws.ReadJSON(&event); err != nil {
		return models.Identity{}, errs.ErrUnauthorized
	}
	if event.Type != enums.SOCKET_EVENT_AUTH {
		return models.Identity{}, errs.ErrUnauthorized
	}
	identity, err := sch.authService.VerifyCredential(event.Token)
	if err != nil {
		return models.Identity{}, err
	}
	_ = ws.SetReadDeadline(time.Time{})
	return identity, nil
}

func (sch *SocketChatHandler) serve(ctx context.Context, ws *websocket.Conn, conn *hub.Conn, identity models.Identity) {
	sch.registry.Register(identity.ID, conn)
	sch.setPresence(identity.ID, true)
	log := sch.log.With(zap.Uint("identity", identity.ID))
	log.Debug("socket connected", zap.String("state", enums.SOCKET_STATE_CONNECTED))

	defer func() {
		sch.registry.Unregister(conn)
		// A replaced connection must not mark the newer one offline.
		if !sch.registry.Online(identity.ID) {
			sch.setPresence(identity.ID, false)
		}
		_ = conn.Close()
		log.Debug("socket closed", zap.String("state", enums.SOCKET_STATE_DISCONNECTED))
	}()

	if err := conn.WriteJSON(socketModels.SocketEvent{Type: enums.SOCKET_EVENT_READY}); err != nil {
		log.Warn("socket ready frame failed", zap.Error(err))
		return
	}

	for {
		_, frame, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("socket read failed", zap.Error(err))
			}
			return
		}
		sch.handleFrame(ctx, log, identity, frame)
	}
}

// handleFrame never tears the connection down. Rejected or failed sends
// are logged and the client is expected to resend.
func (sch *SocketChatHandler) handleFrame(ctx context.Context, log *zap.Logger, identity models.Identity, frame []byte) {
	var event socketModels.SocketEvent
	if err := json.Unmarshal(frame, &event); err != nil {
		log.Warn("malformed socket frame", zap.Int("size", len(frame)), zap.Error(err))
		return
	}

	switch event.Type {
	case enums.SOCKET_EVENT_SEND_MESSAGE:
		delivered, err := sch.chatService.RelayStreamMessage(ctx, identity, &event, frame)
		if err != nil {
			log.Warn("socket send rejected",
				zap.Uint("receiver_id", event.ReceiverID),
				zap.Int("status", errs.StatusCode(err)),
				zap.Error(err),
			)
			return
		}
		log.Debug("socket send stored", zap.Uint("receiver_id", event.ReceiverID), zap.Bool("delivered", delivered))
	default:
		log.Debug("ignoring socket frame", zap.String("type", event.Type))
	}
}

func (sch *SocketChatHandler) setPresence(userID uint, online bool) {
	if sch.presenceService == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()
	if err := sch.presenceService.SetOnlineStatus(ctx, userID, online); err != nil {
		sch.log.Warn("presence update failed", zap.Uint("user_id", userID), zap.Bool("online", online), zap.Error(err))
	}
}
