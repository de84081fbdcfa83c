package routes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/bracket-builder/brackets"
	"github.com/Dosada05/bracket-builder/db"
	"github.com/Dosada05/bracket-builder/handlers"
	"github.com/Dosada05/bracket-builder/internal/s3test"
	"github.com/Dosada05/bracket-builder/middleware"
	"github.com/Dosada05/bracket-builder/models"
	"github.com/Dosada05/bracket-builder/repositories"
	"github.com/Dosada05/bracket-builder/services"
	"github.com/Dosada05/bracket-builder/storage"
)

const (
	testSecret = "routes-test-secret"
	rosterCSV  = `Nome,Categoria de Idade,Faixa,Categoria de Peso,Gênero,Equipe,Professor
Ze Carlos,Adulto,Azul,Leve,Masculino,Alliance,Fabio
Joao,Adulto,Azul,Leve,Masculino,Checkmat,
Pedro,Adulto,Azul,Leve,Masculino,Alliance,Fabio
Ana,Adulto,Azul,Leve,Feminino,Atos,Rita
`
	bracketQuery = "gender=masculino&belt=azul&age=adulto&weight=leve"
)

type testApp struct {
	server *httptest.Server
	hub    *brackets.Hub
	s3     *s3test.Server
	token  string
}

func newTestApp(t *testing.T, withStorage bool) *testApp {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	conn, err := db.Connect(db.DriverSQLite, ":memory:", time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(context.Background(), conn, db.DriverSQLite))

	ctx, cancel := context.WithCancel(context.Background())
	hub := brackets.NewHub(logger)
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		hub.Run(ctx)
	}()

	app := &testApp{hub: hub}

	var uploader storage.FileUploader
	if withStorage {
		app.s3 = s3test.NewServer("brackets")
		t.Cleanup(app.s3.Close)
		client, err := storage.NewS3Client(context.Background(), storage.ClientConfig{
			Endpoint:        app.s3.URL,
			Region:          "us-east-1",
			AccessKeyID:     "test",
			SecretAccessKey: "test",
			UsePathStyle:    true,
		})
		require.NoError(t, err)
		uploader, err = storage.NewS3Uploader(client, storage.S3UploaderConfig{
			BucketName:    "brackets",
			PublicBaseURL: "https://cdn.example.com",
		})
		require.NoError(t, err)
	}

	eventRepo := repositories.NewEventRepository(conn)
	competitorRepo := repositories.NewCompetitorRepository(conn)
	importService := services.NewImportService(eventRepo, competitorRepo, nil, logger)
	categoryService := services.NewCategoryService(competitorRepo)
	bracketService := services.NewBracketService(categoryService, brackets.NewSingleEliminationGenerator(), hub, models.SeedingInsertion, logger)
	publishService := services.NewPublishService(eventRepo, bracketService, uploader, logger)
	dashboardService := services.NewDashboardService(categoryService)

	router := chi.NewRouter()
	SetupRoutes(router, Handlers{
		Event:     handlers.NewEventHandler(importService, categoryService),
		Bracket:   handlers.NewBracketHandler(bracketService, importService, publishService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		WebSocket: handlers.NewWebSocketHandler(hub, importService, []string{"*"}, logger),
	}, Options{JWTSecret: testSecret, AllowedOrigins: []string{"*"}})

	app.server = httptest.NewServer(router)
	t.Cleanup(func() {
		app.server.Close()
		cancel()
		<-stopped
	})

	app.token, err = middleware.IssueToken(testSecret, "mesa-1", middleware.RoleOrganizer, time.Hour)
	require.NoError(t, err)
	return app
}

func (a *testApp) do(t *testing.T, method, path, contentType, body string, auth bool) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := a.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func (a *testApp) importRoster(t *testing.T) int {
	t.Helper()
	resp, body := a.do(t, http.MethodPost, "/events?title=Copa+Teste", "text/csv", rosterCSV, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	var out struct {
		Event models.Event `json:"event"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "/events/"+strconv.Itoa(out.Event.ID), resp.Header.Get("Location"))
	return out.Event.ID
}

func decode(t *testing.T, body string, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(body), dst), body)
}

func TestHealthAndDocs(t *testing.T) {
	app := newTestApp(t, false)

	resp, body := app.do(t, http.MethodGet, "/healthz", "", "", false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)

	resp, body = app.do(t, http.MethodGet, "/swagger/doc.json", "", "", false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var doc map[string]any
	decode(t, body, &doc)
	assert.Equal(t, "2.0", doc["swagger"])
}

func TestImportRequiresOrganizer(t *testing.T) {
	app := newTestApp(t, false)

	resp, _ := app.do(t, http.MethodPost, "/events", "text/csv", rosterCSV, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = app.do(t, http.MethodPut, "/events/1/competitors", "text/csv", rosterCSV, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEventEndpoints(t *testing.T) {
	app := newTestApp(t, false)
	id := app.importRoster(t)
	base := "/events/" + strconv.Itoa(id)

	resp, body := app.do(t, http.MethodGet, base, "", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got struct {
		Event models.Event `json:"event"`
	}
	decode(t, body, &got)
	assert.Equal(t, "Copa Teste", got.Event.Title)
	assert.Equal(t, 4, got.Event.CompetitorCount)

	resp, body = app.do(t, http.MethodGet, "/events", "", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Copa Teste")

	resp, body = app.do(t, http.MethodGet, base+"/competitors", "", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var roster struct {
		Competitors []models.Competitor `json:"competitors"`
	}
	decode(t, body, &roster)
	require.Len(t, roster.Competitors, 4)
	assert.Equal(t, "ZE CARLOS", roster.Competitors[0].Name)

	resp, body = app.do(t, http.MethodGet, base+"/competitors?format=csv", "", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "roster-")
	assert.Contains(t, body, "JOAO,ADULTO,AZUL,LEVE,MASCULINO,CHECKMAT,N/A")

	resp, body = app.do(t, http.MethodGet, base+"/options?gender=Masculino", "", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var options struct {
		Options models.CategoryOptions `json:"options"`
	}
	decode(t, body, &options)
	assert.Equal(t, []string{"FEMININO", "MASCULINO"}, options.Options.Genders)
	assert.Equal(t, []string{"AZUL"}, options.Options.Belts)

	resp, body = app.do(t, http.MethodGet, base+"/categories", "", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var categories struct {
		Categories []models.Category `json:"categories"`
	}
	decode(t, body, &categories)
	require.Len(t, categories.Categories, 2)
	assert.Equal(t, 3, categories.Categories[1].CompetitorCount)

	resp, body = app.do(t, http.MethodGet, base+"/dashboard", "", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dashboard struct {
		Dashboard models.DashboardStats `json:"dashboard"`
	}
	decode(t, body, &dashboard)
	assert.Equal(t, 4, dashboard.Dashboard.CompetitorsTotal)
	assert.Equal(t, 3, dashboard.Dashboard.Male)
}

func TestReplaceCompetitors(t *testing.T) {
	app := newTestApp(t, false)
	id := app.importRoster(t)
	path := "/events/" + strconv.Itoa(id) + "/competitors"

	resp, _ := app.do(t, http.MethodPut, path, "application/json", `{}`, true)
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)

	resp, body := app.do(t, http.MethodPut, path, "text/csv", "Name,Age,Belt,Weight,Gender\nLia,Adulto,Branca,Pluma,Feminino\n", true)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"competitor_count": 1`)

	resp, _ = app.do(t, http.MethodPut, path, "text/csv", "Name\nLia\n", true)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = app.do(t, http.MethodPut, "/events/999/competitors", "text/csv", rosterCSV, true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBracketFormats(t *testing.T) {
	app := newTestApp(t, false)
	id := app.importRoster(t)
	path := "/events/" + strconv.Itoa(id) + "/bracket?" + bracketQuery

	resp, body := app.do(t, http.MethodGet, path, "", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	var got struct {
		Bracket brackets.Bracket `json:"bracket"`
	}
	decode(t, body, &got)
	assert.Equal(t, "ADULTO / MASCULINO / LEVE / AZUL", got.Bracket.Category)
	assert.Equal(t, 4, got.Bracket.Size)
	assert.Equal(t, 1, got.Bracket.Byes)
	require.Len(t, got.Bracket.Rounds, 2)

	resp, body = app.do(t, http.MethodGet, path+"&format=html&lang=pt-BR", "", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, body, "Copa Teste")
	assert.Contains(t, body, "SEMIFINAIS")
	assert.Contains(t, body, "BYE")

	resp, body = app.do(t, http.MethodGet, path+"&format=csv", "", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="adulto-masculino-leve-azul.csv"`, resp.Header.Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(body, "round,round_name,match,number"))

	resp, body = app.do(t, http.MethodGet, path+"&format=text", "", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "3 competitors, bracket of 4, 1 byes")

	resp, body = app.do(t, http.MethodGet, "/events/"+strconv.Itoa(id)+"/brackets?policy=team-spread", "", "", false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all struct {
		Brackets []brackets.Bracket `json:"brackets"`
	}
	decode(t, body, &all)
	require.Len(t, all.Brackets, 2)
	assert.Equal(t, models.SeedingTeamSpread, all.Brackets[1].Policy)
}

func TestBracketErrors(t *testing.T) {
	app := newTestApp(t, false)
	id := app.importRoster(t)
	base := "/events/" + strconv.Itoa(id) + "/bracket?"

	cases := []struct {
		name string
		path string
		want int
	}{
		{"incomplete selection", base + "gender=masculino", http.StatusBadRequest},
		{"unknown policy", base + bracketQuery + "&policy=random", http.StatusBadRequest},
		{"unknown format", base + bracketQuery + "&format=pdf", http.StatusBadRequest},
		{"empty category", base + "gender=feminino&belt=preta&age=adulto&weight=leve", http.StatusUnprocessableEntity},
		{"unknown event", "/events/999/bracket?" + bracketQuery, http.StatusNotFound},
		{"bad event id", "/events/abc/bracket?" + bracketQuery, http.StatusBadRequest},
		{"unknown event dashboard", "/events/999/dashboard", http.StatusNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			resp, body := app.do(t, http.MethodGet, c.path, "", "", false)
			assert.Equal(t, c.want, resp.StatusCode, body)
			var env map[string]any
			decode(t, body, &env)
			assert.NotEmpty(t, env["error"])
		})
	}
}

func TestAdHocBracket(t *testing.T) {
	app := newTestApp(t, false)

	resp, body := app.do(t, http.MethodPost, "/brackets", "application/json",
		`{"category":"Avulso","policy":"team-spread","competitors":[{"name":"A","team":"X"},{"name":"B","team":"X"},{"name":"C","team":"Y"},{"name":"D","team":"Y"},{"name":"E"}]}`, false)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	var got struct {
		Bracket brackets.Bracket `json:"bracket"`
	}
	decode(t, body, &got)
	assert.Equal(t, 8, got.Bracket.Size)
	assert.Equal(t, 3, got.Bracket.Byes)

	resp, _ = app.do(t, http.MethodPost, "/brackets", "application/json", `{"competitors":[]}`, false)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = app.do(t, http.MethodPost, "/brackets", "application/json", `{"competitors":[{"name":"A"}],"extra":1}`, false)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPublish(t *testing.T) {
	app := newTestApp(t, true)
	id := app.importRoster(t)
	path := "/events/" + strconv.Itoa(id) + "/bracket/publish"
	input := `{"gender":"Masculino","belt":"Azul","age_division":"Adulto","weight_division":"Leve","format":"csv"}`

	resp, _ := app.do(t, http.MethodPost, path, "application/json", input, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := app.do(t, http.MethodPost, path, "application/json", input, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	var got struct {
		Published services.PublishResult `json:"published"`
	}
	decode(t, body, &got)
	key := "events/" + strconv.Itoa(id) + "/adulto-masculino-leve-azul.csv"
	assert.Equal(t, key, got.Published.Key)
	assert.Equal(t, "https://cdn.example.com/"+key, got.Published.URL)

	stored, ok := app.s3.Object(key)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(string(stored.Body), "round,round_name"))

	resp, _ = app.do(t, http.MethodPost, path, "application/json", `{"format":"json"}`, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPublishWithoutStorage(t *testing.T) {
	app := newTestApp(t, false)
	id := app.importRoster(t)

	resp, body := app.do(t, http.MethodPost, "/events/"+strconv.Itoa(id)+"/bracket/publish", "application/json",
		`{"gender":"MASCULINO","belt":"AZUL","age_division":"ADULTO","weight_division":"LEVE"}`, true)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, body)
}

func TestDisplayWebSocket(t *testing.T) {
	app := newTestApp(t, false)
	id := app.importRoster(t)
	wsURL := "ws" + strings.TrimPrefix(app.server.URL, "http") + "/ws/events/" + strconv.Itoa(id)

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(app.server.URL, "http")+"/ws/events/999", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	room := brackets.EventRoom(id)
	require.Eventually(t, func() bool { return app.hub.RoomSize(room) == 1 }, 2*time.Second, 10*time.Millisecond)

	resp2, body := app.do(t, http.MethodGet, "/events/"+strconv.Itoa(id)+"/bracket?"+bracketQuery, "", "", false)
	require.Equal(t, http.StatusOK, resp2.StatusCode, body)

	displayPath := "/events/" + strconv.Itoa(id) + "/bracket/display"
	displayBody := `{"gender":"masculino","belt":"azul","age_division":"adulto","weight_division":"leve"}`
	resp2, body = app.do(t, http.MethodPost, displayPath, "application/json", displayBody, false)
	require.Equal(t, http.StatusUnauthorized, resp2.StatusCode, body)

	resp2, body = app.do(t, http.MethodPost, displayPath, "application/json", displayBody, true)
	require.Equal(t, http.StatusOK, resp2.StatusCode, body)
	assert.Contains(t, body, `"clients": 1`)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg struct {
		Type    string `json:"type"`
		RoomID  string `json:"room_id"`
		Payload struct {
			EventID int              `json:"event_id"`
			Bracket brackets.Bracket `json:"bracket"`
		} `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, brackets.MessageBracketGenerated, msg.Type)
	assert.Equal(t, room, msg.RoomID)
	assert.Equal(t, id, msg.Payload.EventID)
	assert.Equal(t, "ADULTO / MASCULINO / LEVE / AZUL", msg.Payload.Bracket.Category)
}
