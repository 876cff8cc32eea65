// Package nlparser turns free text like "lent Omar 250 for rent" into transaction fields.
package nlparser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/google/generative-ai-go/genai"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-1.5-flash"

const promptTemplate = `You are a financial parser for personal transactions and debts.
The input may be written in any language, often Arabic. Extract the amount as a number
and a short description in the input's language. The transaction type is %q.

Rules for debts:
- "borrowed" means the writer received money and owes it (e.g. "I borrowed", "استلفت", "اقترضت").
- "lent" means the writer gave money and is owed it (e.g. "I lent", "أقرضت", "سلفت").
- Omit debtType for incomes and expenses.

Return ONLY a JSON object:
{"amount": number, "description": "text", "debtType": "borrowed" | "lent"}

Input: %s`

// contentGenerator is the part of *genai.GenerativeModel the parser needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiParser implements services.TransactionParser on top of the Gemini API.
type GeminiParser struct {
	client *genai.Client
	model  contentGenerator
}

var _ portssvc.TransactionParser = (*GeminiParser)(nil)

// NewGeminiParser creates a Gemini client for modelName. Close releases it.
func NewGeminiParser(ctx context.Context, apiKey, modelName string) (*GeminiParser, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.1)
	return &GeminiParser{client: client, model: model}, nil
}

// Close releases the underlying client.
func (p *GeminiParser) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

func (p *GeminiParser) ParseTransaction(ctx context.Context, input string, txnType domain.TransactionType) (*domain.ParsedTransaction, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(promptTemplate, txnType, input)))
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseResponse(text, txnType)
	if err != nil {
		slog.WarnContext(ctx, "Unusable parser response", slog.String("error", err.Error()))
		return nil, err
	}
	return parsed, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no response from Gemini API")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("no text in Gemini API response")
	}
	return sb.String(), nil
}

type rawParsed struct {
	Amount      json.RawMessage `json:"amount"`
	Description string          `json:"description"`
	DebtType    string          `json:"debtType"`
}

// ParseResponse extracts the JSON object from a model reply, tolerating code fences and
// surrounding prose. Fields that are absent or unusable are left nil.
func ParseResponse(text string, txnType domain.TransactionType) (*domain.ParsedTransaction, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in parser response")
	}

	var raw rawParsed
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON in parser response: %w", err)
	}

	parsed := &domain.ParsedTransaction{Description: strings.TrimSpace(raw.Description)}

	if amountText := strings.Trim(strings.TrimSpace(string(raw.Amount)), `"`); amountText != "" && amountText != "null" {
		amount, err := decimal.NewFromString(amountText)
		if err == nil && amount.IsPositive() {
			amount = amount.Round(domain.MoneyScale)
			parsed.Amount = &amount
		}
	}

	if txnType == domain.Debt {
		debtType := domain.DebtType(strings.ToLower(strings.TrimSpace(raw.DebtType)))
		if debtType.IsValid() {
			parsed.DebtType = &debtType
		}
	}
	return parsed, nil
}
