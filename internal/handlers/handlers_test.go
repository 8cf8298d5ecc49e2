package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"rentalChat/configs"
	"rentalChat/internal/hub"
	"rentalChat/internal/models"
	"rentalChat/internal/repositories"
	"rentalChat/internal/services"
	"rentalChat/internal/testutil"
	"rentalChat/internal/utils"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const testSecret = "handler-test-secret"

type testEnv struct {
	db       *gorm.DB
	registry *hub.Registry
	router   *gin.Engine
}

// newTestEnv seeds tenant 42, landlord 5 owning rental 100, landlord 7,
// admin 1 and user 9.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	testutil.SeedUser(t, db, 42, "Tenant", models.RoleClient)
	testutil.SeedUser(t, db, 5, "Owner", models.RoleLandlord)
	testutil.SeedUser(t, db, 7, "Landlord", models.RoleLandlord)
	testutil.SeedUser(t, db, 1, "Admin", models.RoleAdmin)
	testutil.SeedUser(t, db, 9, "Stranger", models.RoleClient)
	testutil.SeedRental(t, db, 100, 5)

	config := configs.Default()
	config.Viper.Set("jwt.secret", testSecret)
	config.Viper.Set("socket.handshake_timeout", 300*time.Millisecond)

	chatRepo := repositories.NewChatRepository(db, time.Second)
	userRepo := repositories.NewUserRepository(db, time.Second)
	rentalRepo := repositories.NewRentalRepository(db, time.Second, nil, 0, nil)

	registry := hub.NewRegistry(nil)
	authService := services.NewAuthenticationService(userRepo, config)
	policy := services.NewAccessPolicy(userRepo, rentalRepo, chatRepo)
	chatService := services.NewChatService(chatRepo, policy, registry, nil)
	presenceService := services.NewPresenceService(nil, 0)
	fileManagerService := services.NewFileManagerService(nil, 0)

	handler := NewHandler(authService, nil)
	restHandler := NewRestHandler(chatService, presenceService, fileManagerService, registry, nil)
	socketHandler := NewSocketChatHandler(authService, chatService, presenceService, registry, config, nil)

	router := gin.New()
	router.GET("/healthz", restHandler.Health)
	router.GET("/ws", socketHandler.HandleSocketChatRoute)
	router.POST("/api/auth/login", handler.Login)
	chat := router.Group("/api/chat")
	optional := chat.Group("", handler.OptionalAuthenticateMiddleware())
	optional.POST("/send", restHandler.Send)
	optional.POST("/reply/:messageId", restHandler.Reply)
	secured := chat.Group("", handler.MustAuthenticateMiddleware())
	secured.GET("/messages/recent/:userId", restHandler.FetchInbox)
	secured.GET("/messages/admin/:adminId/:userId", restHandler.FetchDirectThread)
	secured.GET("/messages/:rental_id", restHandler.FetchConversation)
	secured.GET("/threads/:messageId", restHandler.FetchThread)
	secured.GET("/presence/:userId", restHandler.Presence)
	secured.POST("/attachments", restHandler.UploadAttachment)

	return &testEnv{db: db, registry: registry, router: router}
}

func tokenFor(t *testing.T, id uint, role string) string {
	t.Helper()
	token, err := utils.CreateJwtToken(id, "", role, []byte(testSecret), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

type decodedResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  []string        `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, decodedResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	var decoded decodedResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	return rec, decoded
}

func sendBody(sender, receiver uint, message string, rentalID *uint) map[string]interface{} {
	body := map[string]interface{}{
		"sender_id":   sender,
		"receiver_id": receiver,
		"message":     message,
	}
	if rentalID != nil {
		body["rental_id"] = *rentalID
	}
	return body
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
