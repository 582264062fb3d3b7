package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"

	"github.com/jobledger/JobLedger-server/internal/models"
)

// All job rows live in the first worksheet under a fixed six-column layout.
const sheetRange = "Sheet1!A:F"

// Status column bounds for validation and formatting: column E (index 4),
// data rows under the header.
const (
	statusColumnStart = 4
	statusColumnEnd   = 5
	statusRowStart    = 1
	statusRowEnd      = 1000
)

// ProvisionedSheet identifies a freshly created spreadsheet.
type ProvisionedSheet struct {
	SpreadsheetID  string `json:"spreadsheetId"`
	SpreadsheetURL string `json:"spreadsheetUrl"`
}

type SheetService struct {
	Sheets *sheets.Service
	Drive  *drive.Service
}

func NewSheetService(sheetsSvc *sheets.Service, driveSvc *drive.Service) *SheetService {
	return &SheetService{
		Sheets: sheetsSvc,
		Drive:  driveSvc,
	}
}

// SpreadsheetIDFromLink pulls the spreadsheet id out of a stored share link.
// The id sits at a fixed slash-delimited position in
// https://docs.google.com/spreadsheets/d/<id>/edit.
func SpreadsheetIDFromLink(link string) (string, error) {
	parts := strings.Split(link, "/")
	if len(parts) < 6 || parts[5] == "" {
		return "", fmt.Errorf("no spreadsheet id in link: %q", link)
	}
	return parts[5], nil
}

// CreateAndShareSheet creates a blank spreadsheet and opens it to anyone with
// the link as an editor. Either step failing aborts the whole operation.
func (s *SheetService) CreateAndShareSheet(ctx context.Context, sheetTitle string) (string, error) {
	spreadsheet, err := s.Sheets.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: sheetTitle,
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("creating spreadsheet: %w", err)
	}
	spreadsheetID := spreadsheet.SpreadsheetId
	log.Printf("Spreadsheet created with ID: %s", spreadsheetID)

	permission := &drive.Permission{
		Type:               "anyone",
		Role:               "writer",
		AllowFileDiscovery: false,
		ForceSendFields:    []string{"AllowFileDiscovery"},
	}
	_, err = s.Drive.Permissions.Create(spreadsheetID, permission).
		SupportsAllDrives(true).
		SendNotificationEmail(false).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("sharing spreadsheet: %w", err)
	}

	shareLink := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", spreadsheetID)
	log.Printf("Spreadsheet link: %s", shareLink)
	return shareLink, nil
}

// ProvisionSheet creates and shares a sheet for a new user and writes the
// header row. A header failure is logged but does not void the returned ids:
// callers must tolerate a provisioned-but-headerless sheet.
func (s *SheetService) ProvisionSheet(ctx context.Context, userEmail string) (*ProvisionedSheet, error) {
	sheetTitle := fmt.Sprintf("User_%s_Sheet", userEmail)
	shareLink, err := s.CreateAndShareSheet(ctx, sheetTitle)
	if err != nil {
		log.Println("Failed to create and share the sheet:", err)
		return nil, err
	}

	spreadsheetID, err := SpreadsheetIDFromLink(shareLink)
	if err != nil {
		return nil, err
	}

	header := []interface{}{
		"Job Title", "Company", "Date Applied", "Job Description", "Status", "Additional Notes",
	}
	if err := s.appendRow(ctx, spreadsheetID, header); err != nil {
		log.Println("Error appending header row:", err)
	}

	return &ProvisionedSheet{
		SpreadsheetID:  spreadsheetID,
		SpreadsheetURL: shareLink,
	}, nil
}

// AppendJob appends one row of job data to an existing spreadsheet.
func (s *SheetService) AppendJob(ctx context.Context, spreadsheetID string, job models.JobRecord) error {
	return s.appendRow(ctx, spreadsheetID, rowValues(job))
}

// rowValues lays a record out in the fixed column order, filling per-column
// defaults for missing fields. Company intentionally has no default.
func rowValues(job models.JobRecord) []interface{} {
	status := job.Status
	if status == "" {
		status = models.StatusPending
	}
	return []interface{}{
		job.JobTitle,
		job.CompanyName,
		job.DateApplied,
		strings.Join(job.JobDescription, "\n"),
		status,
		job.Notes,
	}
}

func (s *SheetService) appendRow(ctx context.Context, spreadsheetID string, row []interface{}) error {
	body := &sheets.ValueRange{
		Values: [][]interface{}{row},
	}
	_, err := s.Sheets.Spreadsheets.Values.Append(spreadsheetID, sheetRange, body).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	return err
}

// ApplyStatusRules restricts the status column to the dropdown values and
// color-codes them. Any failure is logged and swallowed; callers never see
// it. Repeat calls insert the conditional-format rules again rather than
// replacing them, so duplicates accumulate.
func (s *SheetService) ApplyStatusRules(ctx context.Context, spreadsheetID string) {
	s.addStatusDataValidation(ctx, spreadsheetID)
	s.addStatusConditionalFormatting(ctx, spreadsheetID)
}

func statusRange() *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          0,
		StartRowIndex:    statusRowStart,
		EndRowIndex:      statusRowEnd,
		StartColumnIndex: statusColumnStart,
		EndColumnIndex:   statusColumnEnd,
	}
}

func (s *SheetService) addStatusDataValidation(ctx context.Context, spreadsheetID string) {
	requests := []*sheets.Request{
		{
			SetDataValidation: &sheets.SetDataValidationRequest{
				Range: statusRange(),
				Rule: &sheets.DataValidationRule{
					Condition: &sheets.BooleanCondition{
						Type: "ONE_OF_LIST",
						Values: []*sheets.ConditionValue{
							{UserEnteredValue: models.StatusPending},
							{UserEnteredValue: models.StatusApproved},
							{UserEnteredValue: models.StatusRejected},
						},
					},
				},
			},
		},
	}

	_, err := s.Sheets.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		log.Println("Error applying data validation:", err)
		return
	}
	log.Println("Data validation applied successfully")
}

func (s *SheetService) addStatusConditionalFormatting(ctx context.Context, spreadsheetID string) {
	colors := []struct {
		status string
		color  *sheets.Color
	}{
		{models.StatusPending, &sheets.Color{Red: 0.85, Green: 0.85, Blue: 0}},
		{models.StatusApproved, &sheets.Color{Red: 0, Green: 0.85, Blue: 0}},
		{models.StatusRejected, &sheets.Color{Red: 0.85, Green: 0, Blue: 0}},
	}

	var requests []*sheets.Request
	for _, c := range colors {
		requests = append(requests, &sheets.Request{
			AddConditionalFormatRule: &sheets.AddConditionalFormatRuleRequest{
				Rule: &sheets.ConditionalFormatRule{
					Ranges: []*sheets.GridRange{statusRange()},
					BooleanRule: &sheets.BooleanRule{
						Condition: &sheets.BooleanCondition{
							Type:   "TEXT_EQ",
							Values: []*sheets.ConditionValue{{UserEnteredValue: c.status}},
						},
						Format: &sheets.CellFormat{
							BackgroundColor: c.color,
						},
					},
				},
			},
		})
	}

	_, err := s.Sheets.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		log.Println("Error applying conditional formatting:", err)
		return
	}
	log.Println("Formatting applied successfully")
}
