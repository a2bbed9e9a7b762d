package learningController_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"emirimo/certificate"
	"emirimo/config"
	"emirimo/database"
	"emirimo/middleware"
	"emirimo/models"
	"emirimo/models/learning"
	"emirimo/routers/learningRoutes"
	"emirimo/socket"
	"emirimo/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// recordingBroadcaster captures events instead of fanning them out
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []socket.Event
}

func (r *recordingBroadcaster) Broadcast(e socket.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingBroadcaster) snapshot() []socket.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]socket.Event(nil), r.events...)
}

func setupApp(t *testing.T) (*fiber.App, *recordingBroadcaster) {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:          "test-jwt-key",
		CertificatesDir: t.TempDir(),
		CertificateSalt: "test-salt",
		PublicBaseURL:   "http://localhost:3000",
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&learning.LearningResource{},
		&learning.CompletionRecord{},
	))
	database.Database = database.DbInstance{Db: db}

	gen := certificate.NewGenerator()
	store := certificate.NewArtifactStore()
	recorder := certificate.NewRecorder(db, gen, store, nil, config.AppConfig.CertificateSalt)
	downloader := certificate.NewDownloader(db, gen, store)

	b := &recordingBroadcaster{}
	app := fiber.New()
	learningRoutes.SetupLearningRoutes(app, recorder, downloader, utils.NewYouTubeClientWith("", ""), b)
	return app, b
}

func createUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, Password: "hashed"}
	require.NoError(t, database.Database.Db.Create(user).Error)
	return user
}

func createResource(t *testing.T, title string) *learning.LearningResource {
	t.Helper()
	skills, _ := json.Marshal([]string{"Excel"})
	resource := &learning.LearningResource{
		ExternalID: "vid-" + title,
		Title:      title,
		Category:   "technical",
		Skills:     skills,
		Duration:   45,
	}
	require.NoError(t, database.Database.Db.Create(resource).Error)
	return resource
}

func authedRequest(t *testing.T, user *models.User, method, target string) *http.Request {
	t.Helper()
	token, err := middleware.GenerateJWT(user.ID, user.Name, "SEEKER", user.Email)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func TestCompleteResourceEndpoint(t *testing.T) {
	app, b := setupApp(t)
	user := createUser(t, "Aline", "aline@example.com")
	resource := createResource(t, "Intro to Excel")

	req := authedRequest(t, user, "POST", "/learning/"+strconv.Itoa(int(resource.ID))+"/complete")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.True(t, env.Status)

	var data struct {
		Completed      bool     `json:"completed"`
		CertificateID  string   `json:"certificate_id"`
		CertificateURL string   `json:"certificate_url"`
		SkillsEarned   []string `json:"skills_earned"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.Completed)
	assert.Len(t, data.CertificateID, 32)
	assert.Equal(t, []string{"Excel"}, data.SkillsEarned)

	events := b.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, socket.EventCompletion, events[0].Type)
	assert.Equal(t, data.CertificateID, events[0].Payload["certificate_id"])
}

func TestCompleteResourceEndpointIsIdempotent(t *testing.T) {
	app, b := setupApp(t)
	user := createUser(t, "Aline", "aline@example.com")
	resource := createResource(t, "Intro to Excel")
	target := "/learning/" + strconv.Itoa(int(resource.ID)) + "/complete"

	resp, err := app.Test(authedRequest(t, user, "POST", target), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(authedRequest(t, user, "POST", target), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var count int64
	database.Database.Db.Model(&learning.CompletionRecord{}).Count(&count)
	assert.EqualValues(t, 1, count)
	assert.Len(t, b.snapshot(), 1, "a replayed completion must not broadcast again")
}

func TestCompleteResourceRequiresAuth(t *testing.T) {
	app, _ := setupApp(t)
	resource := createResource(t, "Intro to Excel")

	req := httptest.NewRequest("POST", "/learning/"+strconv.Itoa(int(resource.ID))+"/complete", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestDownloadCertificateEndpoint(t *testing.T) {
	app, _ := setupApp(t)
	user := createUser(t, "Aline", "aline@example.com")
	resource := createResource(t, "Intro to Excel")

	resp, err := app.Test(authedRequest(t, user, "POST", "/learning/"+strconv.Itoa(int(resource.ID))+"/complete"), -1)
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)
	var data struct {
		CertificateID string `json:"certificate_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	resp, err = app.Test(authedRequest(t, user, "GET", "/learning/certificates/"+data.CertificateID+"/download"), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), data.CertificateID)

	pdf, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestDownloadCertificateRejectsOtherUser(t *testing.T) {
	app, _ := setupApp(t)
	owner := createUser(t, "Aline", "aline@example.com")
	intruder := createUser(t, "Eve", "eve@example.com")
	resource := createResource(t, "Intro to Excel")

	resp, err := app.Test(authedRequest(t, owner, "POST", "/learning/"+strconv.Itoa(int(resource.ID))+"/complete"), -1)
	require.NoError(t, err)
	env := decodeEnvelope(t, resp)
	var data struct {
		CertificateID string `json:"certificate_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	resp, err = app.Test(authedRequest(t, intruder, "GET", "/learning/certificates/"+data.CertificateID+"/download"), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestDownloadCertificateRejectsMalformedID(t *testing.T) {
	app, _ := setupApp(t)
	user := createUser(t, "Aline", "aline@example.com")

	resp, err := app.Test(authedRequest(t, user, "GET", "/learning/certificates/not-hex/download"), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestGetCompletedResourcesEndpoint(t *testing.T) {
	app, _ := setupApp(t)
	user := createUser(t, "Aline", "aline@example.com")
	resource := createResource(t, "Intro to Excel")

	resp, err := app.Test(authedRequest(t, user, "POST", "/learning/"+strconv.Itoa(int(resource.ID))+"/complete"), -1)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = app.Test(authedRequest(t, user, "GET", "/learning/completed"), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	var data struct {
		CompletedCourses []learning.CompletionRecord `json:"completedCourses"`
		Total            int                         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 1, data.Total)
	require.Len(t, data.CompletedCourses, 1)
	assert.Equal(t, "Intro to Excel", data.CompletedCourses[0].ResourceTitle)
	assert.Equal(t, 100, data.CompletedCourses[0].Progress)
}
