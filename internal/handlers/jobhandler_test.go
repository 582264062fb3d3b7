package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobledger/JobLedger-server/internal/handlers"
	"github.com/jobledger/JobLedger-server/internal/models"
	"github.com/jobledger/JobLedger-server/internal/services"
)

type fakeUserStore struct {
	users map[string]*models.UserRecord
	puts  map[string]string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users: make(map[string]*models.UserRecord),
		puts:  make(map[string]string),
	}
}

func (f *fakeUserStore) GetUser(_ context.Context, email string) (*models.UserRecord, error) {
	return f.users[email], nil
}

func (f *fakeUserStore) PutUser(_ context.Context, email, sheetLink string) error {
	f.puts[email] = sheetLink
	f.users[email] = &models.UserRecord{UserEmail: email, SheetLink: sheetLink}
	return nil
}

type fakeExtractor struct {
	job      *models.JobRecord
	lastText string
}

func (f *fakeExtractor) ExtractJob(_ context.Context, query string) (*models.JobRecord, error) {
	f.lastText = query
	return f.job, nil
}

type appendCall struct {
	spreadsheetID string
	job           models.JobRecord
}

type fakeSheetManager struct {
	nextID      int
	provisioned []string
	appends     []appendCall
	rulesFor    []string
}

func (f *fakeSheetManager) ProvisionSheet(_ context.Context, email string) (*services.ProvisionedSheet, error) {
	f.nextID++
	id := fmt.Sprintf("sheet%d", f.nextID)
	f.provisioned = append(f.provisioned, email)
	return &services.ProvisionedSheet{
		SpreadsheetID:  id,
		SpreadsheetURL: fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", id),
	}, nil
}

func (f *fakeSheetManager) AppendJob(_ context.Context, spreadsheetID string, job models.JobRecord) error {
	f.appends = append(f.appends, appendCall{spreadsheetID, job})
	return nil
}

func (f *fakeSheetManager) ApplyStatusRules(_ context.Context, spreadsheetID string) {
	f.rulesFor = append(f.rulesFor, spreadsheetID)
}

func setupRouter(users *fakeUserStore, extractor *fakeExtractor, sheetMgr *fakeSheetManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewJobHandler(extractor, users, sheetMgr)
	r := gin.New()
	r.POST("/api/query", h.HandleQuery)
	r.POST("/api/sheets", h.HandleSheets)
	r.POST("/api/link", h.HandleLink)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleQuery_MissingQuery(t *testing.T) {
	r := setupRouter(newFakeUserStore(), &fakeExtractor{}, &fakeSheetManager{})
	w := postJSON(r, "/api/query", `{"user_email":"a@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleQuery_UnknownUserGetsNoSheet(t *testing.T) {
	users := newFakeUserStore()
	sheetMgr := &fakeSheetManager{}
	extractor := &fakeExtractor{job: &models.JobRecord{
		JobTitle:    "Software Engineer",
		CompanyName: "Acme",
		Status:      "New",
	}}
	r := setupRouter(users, extractor, sheetMgr)

	w := postJSON(r, "/api/query", `{"query":"...Software Engineer at Acme...","user_email":"a@x.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp["result"], "Unknown users get an empty result")
	assert.Contains(t, resp["message"], "not available", "The gated branch is surfaced, not a bare null")

	assert.Empty(t, sheetMgr.provisioned, "No spreadsheet is created for unknown users")
	assert.Empty(t, users.puts, "No user document is written")
}

func TestHandleQuery_KnownUserNoSheetProvisionsButDoesNotWrite(t *testing.T) {
	users := newFakeUserStore()
	users.users["a@x.com"] = &models.UserRecord{UserEmail: "a@x.com"}
	sheetMgr := &fakeSheetManager{}
	extractor := &fakeExtractor{job: &models.JobRecord{JobTitle: "SWE", CompanyName: "Acme", Status: "New"}}
	r := setupRouter(users, extractor, sheetMgr)

	w := postJSON(r, "/api/query", `{"query":"some posting","user_email":"a@x.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"a@x.com"}, sheetMgr.provisioned)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/sheet1/edit", users.puts["a@x.com"])
	assert.Empty(t, sheetMgr.appends, "The extracted job is not written on this path")

	var job models.JobRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.Equal(t, "SWE", job.JobTitle)
}

func TestHandleQuery_NothingExtracted(t *testing.T) {
	users := newFakeUserStore()
	users.users["a@x.com"] = &models.UserRecord{
		UserEmail: "a@x.com",
		SheetLink: "https://docs.google.com/spreadsheets/d/abc/edit",
	}
	r := setupRouter(users, &fakeExtractor{job: nil}, &fakeSheetManager{})

	w := postJSON(r, "/api/query", `{"query":"nothing useful here","user_email":"a@x.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String(), "Failed extraction degrades to a null body")
}

func TestHandleSheets_NewUserEndToEnd(t *testing.T) {
	users := newFakeUserStore()
	sheetMgr := &fakeSheetManager{}
	r := setupRouter(users, &fakeExtractor{}, sheetMgr)

	w := postJSON(r, "/api/sheets",
		`{"user_email":"b@x.com","updatedJobDetails":{"title":"SWE","company":"Acme","status":"new","description":["task1"]}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "New sheet created and data appended successfully!", resp["message"])
	assert.Regexp(t, regexp.MustCompile(`^https://docs\.google\.com/spreadsheets/d/[^/]+/edit$`), resp["sheet_url"])

	require.Len(t, users.puts, 1, "Exactly one new user document")
	assert.Equal(t, resp["sheet_url"], users.puts["b@x.com"])

	require.Len(t, sheetMgr.appends, 1)
	assert.Equal(t, "sheet1", sheetMgr.appends[0].spreadsheetID)
	assert.Equal(t, "SWE", sheetMgr.appends[0].job.JobTitle)
	assert.Equal(t, "Acme", sheetMgr.appends[0].job.CompanyName)
	assert.Equal(t, "new", sheetMgr.appends[0].job.Status)
	assert.Equal(t, []string{"task1"}, sheetMgr.appends[0].job.JobDescription)

	assert.Equal(t, []string{"sheet1"}, sheetMgr.rulesFor, "Validation and formatting applied to the new sheet")
}

func TestHandleSheets_ExistingUser(t *testing.T) {
	users := newFakeUserStore()
	users.users["c@x.com"] = &models.UserRecord{
		UserEmail: "c@x.com",
		SheetLink: "https://docs.google.com/spreadsheets/d/existing42/edit",
	}
	sheetMgr := &fakeSheetManager{}
	r := setupRouter(users, &fakeExtractor{}, sheetMgr)

	w := postJSON(r, "/api/sheets",
		`{"user_email":"c@x.com","updatedJobDetails":{"title":"SWE","company":"Acme"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Existing sheet found and data appended successfully!", resp["message"])
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/existing42/edit", resp["sheet_url"])

	assert.Empty(t, sheetMgr.provisioned)
	require.Len(t, sheetMgr.appends, 1)
	assert.Equal(t, "existing42", sheetMgr.appends[0].spreadsheetID,
		"ID comes from the stored link's fixed-position segment")
	assert.Empty(t, sheetMgr.rulesFor, "Rules are not reapplied for existing sheets")
}

func TestHandleSheets_MissingBody(t *testing.T) {
	r := setupRouter(newFakeUserStore(), &fakeExtractor{}, &fakeSheetManager{})
	w := postJSON(r, "/api/sheets", `{"user_email":"b@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleLink_UnknownUser(t *testing.T) {
	users := newFakeUserStore()
	sheetMgr := &fakeSheetManager{}
	r := setupRouter(users, &fakeExtractor{}, sheetMgr)

	w := postJSON(r, "/api/link", `{"userEmail":"nobody@x.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["message"], "not available")
	assert.Empty(t, sheetMgr.provisioned)
}

func TestHandleLink_KnownUserWithoutLinkProvisions(t *testing.T) {
	users := newFakeUserStore()
	users.users["d@x.com"] = &models.UserRecord{UserEmail: "d@x.com"}
	sheetMgr := &fakeSheetManager{}
	r := setupRouter(users, &fakeExtractor{}, sheetMgr)

	w := postJSON(r, "/api/link", `{"userEmail":"d@x.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Existing sheet found!", resp["message"])
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/sheet1/edit", resp["sheet_url"])
	assert.Equal(t, resp["sheet_url"], users.puts["d@x.com"])
}

func TestHandleLink_KnownUserWithLink(t *testing.T) {
	users := newFakeUserStore()
	users.users["e@x.com"] = &models.UserRecord{
		UserEmail: "e@x.com",
		SheetLink: "https://docs.google.com/spreadsheets/d/keepme/edit",
	}
	sheetMgr := &fakeSheetManager{}
	r := setupRouter(users, &fakeExtractor{}, sheetMgr)

	w := postJSON(r, "/api/link", `{"userEmail":"e@x.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/keepme/edit", resp["sheet_url"])
	assert.Empty(t, sheetMgr.provisioned)
}

func TestHandleLink_MissingEmail(t *testing.T) {
	r := setupRouter(newFakeUserStore(), &fakeExtractor{}, &fakeSheetManager{})
	w := postJSON(r, "/api/link", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
