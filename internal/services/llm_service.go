package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"regexp"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/huggingface"

	"github.com/jobledger/JobLedger-server/internal/models"
)

const extractionModel = "mistralai/Mistral-7B-Instruct-v0.3"

// Generation budget and connection timeout for the hosted model.
const (
	extractionMaxTokens = 700
	extractionTimeout   = 60 * time.Second
)

const extractionPrompt = `Process the following text and extract only the job details. Return the details in the JSON format below, strictly without any additional text, explanation, or the original query:
{
    "job_title": "title of the job",
    "company_name": "company name",
    "job_description": [
        "description of the job in point form"
    ]
}

Text to process:
%s
`

// Models often echo the instruction's example object before the real answer,
// so every object-shaped substring is collected and the last one wins.
var jobJSONPattern = regexp.MustCompile(`(?s)\{\s*"job_title":.*?\}`)

type LLMService struct {
	Client llms.Model
}

// NewLLMService initializes the hosted-model client once; the handle is
// reused for every request.
func NewLLMService() *LLMService {
	apiKey := os.Getenv("HF_API_KEY")
	if apiKey == "" {
		log.Fatal("CRITICAL ERROR: HF_API_KEY is empty. Did you load the .env file?")
	}

	llm, err := huggingface.New(
		huggingface.WithToken(apiKey),
		huggingface.WithModel(extractionModel),
	)
	if err != nil {
		log.Fatal("Failed to create HuggingFace client:", err)
	}

	return &LLMService{
		Client: llm,
	}
}

// ExtractJob sends the free-text posting to the model and parses its reply.
// A reply with no usable JSON comes back as (nil, nil): nothing to extract
// is not an error, the caller degrades to an empty result.
func (s *LLMService) ExtractJob(ctx context.Context, query string) (*models.JobRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, extractionTimeout)
	defer cancel()

	prompt := fmt.Sprintf(extractionPrompt, query)
	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, prompt,
		llms.WithMaxTokens(extractionMaxTokens),
	)
	if err != nil {
		return nil, err
	}
	return ParseJobJSON(resp), nil
}

// ParseJobJSON scans raw model output for object-shaped substrings and
// decodes the last match. No retries, no schema validation of field types.
func ParseJobJSON(response string) *models.JobRecord {
	matches := jobJSONPattern.FindAllString(response, -1)
	if len(matches) == 0 {
		log.Println("No JSON found in the model response")
		return nil
	}

	var job models.JobRecord
	if err := json.Unmarshal([]byte(matches[len(matches)-1]), &job); err != nil {
		log.Println("Failed to parse JSON from model response:", err)
		return nil
	}

	// Freshly extracted rows always start out as New with empty notes,
	// whatever the model put in those keys.
	job.Status = models.StatusNew
	job.Notes = ""
	return &job
}
