package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denizhukuk/lawsite/internal/config"
	"github.com/denizhukuk/lawsite/internal/content"
	"github.com/denizhukuk/lawsite/internal/database"
)

func newTestServer(t *testing.T, policy content.DeletePolicy) http.Handler {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, filepath.Join(t.TempDir(), "web.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.InitializeDefaults(ctx))

	srv := NewServer(content.New(db, policy), db, config.NewLoader(db), Options{Port: 8000})
	return srv.Router()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "127.0.0.1:40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRootAndHealth(t *testing.T) {
	h := newTestServer(t, content.Restrict)

	rec := do(t, h, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	root := decode[map[string]string](t, rec)
	assert.Equal(t, database.DefaultSettings["site.welcome_message"], root["message"])
	assert.Equal(t, database.DefaultSettings["site.name"], root["name"])

	rec = do(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestPracticeAreaLifecycle(t *testing.T) {
	h := newTestServer(t, content.Restrict)

	rec := do(t, h, http.MethodPost, "/practice-areas", map[string]any{"name": "Aile Hukuku", "description": "Boşanma"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[database.PracticeArea](t, rec)
	assert.NotZero(t, created.ID)

	rec = do(t, h, http.MethodPost, "/practice-areas", map[string]any{"name": "Aile Hukuku"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "already exists")

	path := fmt.Sprintf("/practice-areas/%d", created.ID)
	rec = do(t, h, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Aile Hukuku", decode[database.PracticeArea](t, rec).Name)

	rec = do(t, h, http.MethodPut, path, `{"description": null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, decode[database.PracticeArea](t, rec).Description)

	rec = do(t, h, http.MethodGet, "/practice-areas", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]database.PracticeArea](t, rec), 1)

	rec = do(t, h, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(t, h, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSingleJSONValueWithTrailingWhitespace(t *testing.T) {
	h := newTestServer(t, content.Restrict)

	rec := do(t, h, http.MethodPost, "/practice-areas", "{\"name\": \"Vergi Hukuku\"}\n\n")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/practice-areas", nil)
	assert.Len(t, decode[[]database.PracticeArea](t, rec), 1, "rejected bodies must not create records")
}

func TestLawyerSearchNonASCII(t *testing.T) {
	h := newTestServer(t, content.Restrict)

	rec := do(t, h, http.MethodPost, "/lawyers", map[string]any{"name": "Av. Şule Öztürk"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/lawyers?search=%C5%9EULE", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[[]database.LawyerProfile](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, "Av. Şule Öztürk", found[0].Name)
}

func TestEmptyListsAreArrays(t *testing.T) {
	h := newTestServer(t, content.Restrict)

	for _, path := range []string{"/practice-areas", "/lawyers", "/case-outcomes", "/testimonials", "/contact-messages"} {
		rec := do(t, h, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `[]`, rec.Body.String(), path)
	}
}

func TestStatusMapping(t *testing.T) {
	h := newTestServer(t, content.Restrict)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
	}{
		{name: "malformed id", method: http.MethodGet, path: "/lawyers/abc", status: http.StatusBadRequest},
		{name: "zero id", method: http.MethodGet, path: "/lawyers/0", status: http.StatusBadRequest},
		{name: "malformed json", method: http.MethodPost, path: "/lawyers", body: `{"name":`, status: http.StatusBadRequest},
		{name: "empty body", method: http.MethodPost, path: "/testimonials", body: "", status: http.StatusBadRequest},
		{name: "second json value", method: http.MethodPost, path: "/practice-areas", body: `{"name": "Vergi"} {"name": "İcra"}`, status: http.StatusBadRequest},
		{name: "trailing garbage", method: http.MethodPost, path: "/practice-areas", body: `{"name": "Vergi"} x`, status: http.StatusBadRequest},
		{name: "trailing data on update", method: http.MethodPut, path: "/practice-areas/1", body: `{"name": "Vergi"}[]`, status: http.StatusBadRequest},
		{name: "oversized body", method: http.MethodPost, path: "/contact-messages", body: `{"body": "` + strings.Repeat("a", 1<<20) + `"}`, status: http.StatusRequestEntityTooLarge},
		{name: "wrong type", method: http.MethodPost, path: "/testimonials", body: `{"client_name": 5}`, status: http.StatusBadRequest},
		{name: "bad filter", method: http.MethodGet, path: "/lawyers?practiceAreaId=x", status: http.StatusBadRequest},
		{name: "validation", method: http.MethodPost, path: "/contact-messages", body: map[string]any{"sender_name": "A", "sender_email": "nope", "body": "x"}, status: http.StatusUnprocessableEntity},
		{name: "invalid reference", method: http.MethodPost, path: "/lawyers", body: map[string]any{"name": "Av. A", "practice_area_id": 42}, status: http.StatusUnprocessableEntity},
		{name: "missing record", method: http.MethodPut, path: "/case-outcomes/9", body: map[string]any{"title": "x"}, status: http.StatusNotFound},
		{name: "unknown route", method: http.MethodGet, path: "/blog", status: http.StatusNotFound},
		{name: "method not allowed", method: http.MethodPatch, path: "/lawyers", status: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestLawyerFilterAndDeletePolicy(t *testing.T) {
	h := newTestServer(t, content.Restrict)

	rec := do(t, h, http.MethodPost, "/practice-areas", map[string]any{"name": "Ceza Hukuku"})
	require.Equal(t, http.StatusCreated, rec.Code)
	pa := decode[database.PracticeArea](t, rec)

	rec = do(t, h, http.MethodPost, "/lawyers", map[string]any{
		"name":             "Av. Mehmet Kaya",
		"bio":              "Ağır ceza davaları",
		"languages":        "tr",
		"practice_area_id": pa.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	lawyer := decode[database.LawyerProfile](t, rec)
	assert.Equal(t, database.Languages{"tr"}, lawyer.Languages)
	require.NotNil(t, lawyer.PracticeAreaName)
	assert.Equal(t, "Ceza Hukuku", *lawyer.PracticeAreaName)

	rec = do(t, h, http.MethodPost, "/lawyers", map[string]any{"name": "Av. Zeynep Demir"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, fmt.Sprintf("/lawyers?practiceAreaId=%d", pa.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]database.LawyerProfile](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/lawyers?search=zeynep", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[[]database.LawyerProfile](t, rec)
	require.Len(t, found, 1)
	assert.Equal(t, "Av. Zeynep Demir", found[0].Name)

	rec = do(t, h, http.MethodPost, "/case-outcomes", map[string]any{"title": "Beraat", "lawyer_id": lawyer.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	outcome := decode[database.CaseOutcome](t, rec)
	require.NotNil(t, outcome.LawyerName)
	assert.Equal(t, "Av. Mehmet Kaya", *outcome.LawyerName)

	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/practice-areas/%d", pa.ID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/lawyers/%d", lawyer.ID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCascadeDeleteOverHTTP(t *testing.T) {
	h := newTestServer(t, content.Cascade)

	rec := do(t, h, http.MethodPost, "/lawyers", map[string]any{"name": "Av. Ayşe Yılmaz"})
	require.Equal(t, http.StatusCreated, rec.Code)
	lawyer := decode[database.LawyerProfile](t, rec)

	rec = do(t, h, http.MethodPost, "/testimonials", map[string]any{"client_name": "Ali", "message": "Teşekkürler", "rating": 5, "lawyer_id": lawyer.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodDelete, fmt.Sprintf("/lawyers/%d", lawyer.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/testimonials", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestContactMessageLifecycle(t *testing.T) {
	h := newTestServer(t, content.Restrict)

	rec := do(t, h, http.MethodPost, "/contact-messages", map[string]any{
		"sender_name":  "Veli",
		"sender_email": "veli@example.com",
		"body":         "Randevu rica ediyorum",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	msg := decode[database.ContactMessage](t, rec)
	assert.False(t, msg.CreatedAt.IsZero())

	path := fmt.Sprintf("/contact-messages/%d", msg.ID)
	rec = do(t, h, http.MethodPut, path, map[string]any{"preferred_contact_method": "email"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[database.ContactMessage](t, rec)
	require.NotNil(t, updated.PreferredContactMethod)
	assert.Equal(t, "email", *updated.PreferredContactMethod)

	rec = do(t, h, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, content.Restrict)

	req := httptest.NewRequest(http.MethodOptions, "/lawyers", nil)
	req.Header.Set("Origin", "https://denizhukuk.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.RemoteAddr = "127.0.0.1:40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerAddr(t *testing.T) {
	assert.Equal(t, ":8000", (&Server{opts: Options{Port: 8000}}).Addr())
	assert.Equal(t, "127.0.0.1:9000", (&Server{opts: Options{Port: 9000, Bind: "127.0.0.1"}}).Addr())
}
