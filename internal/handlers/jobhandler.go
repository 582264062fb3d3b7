package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobledger/JobLedger-server/internal/dtos"
	"github.com/jobledger/JobLedger-server/internal/models"
	"github.com/jobledger/JobLedger-server/internal/services"
)

// UserStore is the slice of the user service the handlers need.
type UserStore interface {
	GetUser(ctx context.Context, userEmail string) (*models.UserRecord, error)
	PutUser(ctx context.Context, userEmail, sheetLink string) error
}

// JobExtractor hides the extraction heuristic so it can be swapped for a
// stricter structured-output mode without touching the handlers.
type JobExtractor interface {
	ExtractJob(ctx context.Context, query string) (*models.JobRecord, error)
}

// SheetManager covers provisioning and row writes against the spreadsheet API.
type SheetManager interface {
	ProvisionSheet(ctx context.Context, userEmail string) (*services.ProvisionedSheet, error)
	AppendJob(ctx context.Context, spreadsheetID string, job models.JobRecord) error
	ApplyStatusRules(ctx context.Context, spreadsheetID string)
}

// Sheet provisioning for users without a stored record is gated behind the
// paid tier; those requests get this message instead of a bare null.
const tierGateMessage = "Sheet provisioning is not available for this account tier."

type JobHandler struct {
	Extractor JobExtractor
	Users     UserStore
	Sheets    SheetManager
}

// NewJobHandler creates the handler with dependencies
func NewJobHandler(extractor JobExtractor, users UserStore, sheets SheetManager) *JobHandler {
	return &JobHandler{
		Extractor: extractor,
		Users:     users,
		Sheets:    sheets,
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleQuery is the POST /api/query endpoint. It extracts a job record from
// free text and returns it without writing it anywhere; the caller follows
// up with /api/sheets to record it. A user with a record but no sheet gets
// one provisioned as a side effect, though the extracted job still is not
// written on this path.
func (h *JobHandler) HandleQuery(c *gin.Context) {
	var req dtos.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No query provided"})
		return
	}
	ctx := c.Request.Context()

	job, err := h.Extractor.ExtractJob(ctx, req.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Users.GetUser(ctx, req.UserEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if user == nil {
		c.JSON(http.StatusOK, gin.H{"message": tierGateMessage, "result": nil})
		return
	}

	if user.SheetLink == "" {
		sheetInfo, err := h.Sheets.ProvisionSheet(ctx, req.UserEmail)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := h.Users.PutUser(ctx, req.UserEmail, sheetInfo.SpreadsheetURL); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	// job may be nil when the model reply held no usable JSON; the caller
	// sees a null body, indistinguishable from nothing to extract.
	c.JSON(http.StatusOK, job)
}

// HandleSheets is the POST /api/sheets endpoint: append a row, provisioning
// a sheet first for users without one. Two concurrent first-time requests
// for the same user can each provision a sheet, last PutUser wins; accepted
// for single-user-per-email traffic.
func (h *JobHandler) HandleSheets(c *gin.Context) {
	var req dtos.SheetAppendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}
	ctx := c.Request.Context()
	jobData := req.UpdatedJobDetails.ToJobRecord()

	user, err := h.Users.GetUser(ctx, req.UserEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if user == nil || user.UserEmail == "anonymous" {
		sheetInfo, err := h.Sheets.ProvisionSheet(ctx, req.UserEmail)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := h.Users.PutUser(ctx, req.UserEmail, sheetInfo.SpreadsheetURL); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := h.Sheets.AppendJob(ctx, sheetInfo.SpreadsheetID, jobData); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		h.Sheets.ApplyStatusRules(ctx, sheetInfo.SpreadsheetID)
		c.JSON(http.StatusOK, gin.H{
			"message":   "New sheet created and data appended successfully!",
			"sheet_url": sheetInfo.SpreadsheetURL,
		})
		return
	}

	spreadsheetID, err := services.SpreadsheetIDFromLink(user.SheetLink)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.Sheets.AppendJob(ctx, spreadsheetID, jobData); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Existing sheet found and data appended successfully!",
		"sheet_url": user.SheetLink,
	})
}

// HandleLink is the POST /api/link endpoint: return the user's sheet link,
// provisioning one for known users that have none.
func (h *JobHandler) HandleLink(c *gin.Context) {
	var req dtos.LinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}
	ctx := c.Request.Context()

	user, err := h.Users.GetUser(ctx, req.UserEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if user == nil || user.UserEmail == "anonymous" {
		c.JSON(http.StatusOK, gin.H{"message": tierGateMessage})
		return
	}

	sheetURL := user.SheetLink
	if sheetURL == "" {
		sheetInfo, err := h.Sheets.ProvisionSheet(ctx, req.UserEmail)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if err := h.Users.PutUser(ctx, req.UserEmail, sheetInfo.SpreadsheetURL); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		sheetURL = sheetInfo.SpreadsheetURL
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Existing sheet found!",
		"sheet_url": sheetURL,
	})
}
