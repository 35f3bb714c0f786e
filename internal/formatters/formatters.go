package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumelens/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})
	registry.RegisterFormatter("text", "QuestionsResult", &QuestionsTextFormatter{})
	registry.RegisterFormatter("markdown", "QuestionsResult", &QuestionsMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case *types.AnalysisResult:
		return "AnalysisResult"
	case *types.QuestionsResult:
		return "QuestionsResult"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter handles text formatting for analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(*types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected *AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== RESUME ANALYSIS ===\n\n")
	output.WriteString(fmt.Sprintf("Overall Score: %d/100\n", result.OverallScore))
	if result.IsPerfect {
		output.WriteString("This resume is in excellent shape.\n")
	}
	output.WriteString("\nSummary:\n")
	output.WriteString(result.Summary)
	output.WriteString("\n\n")

	if len(result.Strengths) > 0 {
		output.WriteString("=== STRENGTHS ===\n")
		for _, strength := range result.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("=== SUGGESTIONS ===\n")
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
		output.WriteString("\n")
	}

	if len(result.UnnecessaryItems) > 0 {
		output.WriteString("=== CONSIDER REMOVING ===\n")
		for _, item := range result.UnnecessaryItems {
			output.WriteString(fmt.Sprintf("- %s\n", item))
		}
		output.WriteString("\n")
	}

	if len(result.FormattingFeedback) > 0 {
		output.WriteString("=== FORMATTING ===\n")
		for _, feedback := range result.FormattingFeedback {
			output.WriteString(fmt.Sprintf("- %s\n", feedback))
		}
		output.WriteString("\n")
	}

	output.WriteString("=== KEYWORD ANALYSIS ===\n")
	output.WriteString(fmt.Sprintf("Score: %d/100\n", result.KeywordAnalysis.Score))
	if len(result.KeywordAnalysis.PresentKeywords) > 0 {
		output.WriteString(fmt.Sprintf("Present: %s\n", strings.Join(result.KeywordAnalysis.PresentKeywords, ", ")))
	}
	if len(result.KeywordAnalysis.MissingKeywords) > 0 {
		output.WriteString(fmt.Sprintf("Missing: %s\n", strings.Join(result.KeywordAnalysis.MissingKeywords, ", ")))
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

// AnalysisMarkdownFormatter handles markdown formatting for analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(*types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected *AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Resume Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Overall Score:** %d/100\n\n", result.OverallScore))
	if result.IsPerfect {
		output.WriteString("This resume is in excellent shape.\n\n")
	}
	output.WriteString("## Summary\n\n")
	output.WriteString(result.Summary)
	output.WriteString("\n\n")

	if len(result.Strengths) > 0 {
		output.WriteString("## Strengths\n\n")
		for _, strength := range result.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("## Suggestions\n\n")
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
		output.WriteString("\n")
	}

	if len(result.UnnecessaryItems) > 0 {
		output.WriteString("## Consider Removing\n\n")
		for _, item := range result.UnnecessaryItems {
			output.WriteString(fmt.Sprintf("- %s\n", item))
		}
		output.WriteString("\n")
	}

	if len(result.FormattingFeedback) > 0 {
		output.WriteString("## Formatting\n\n")
		for _, feedback := range result.FormattingFeedback {
			output.WriteString(fmt.Sprintf("- %s\n", feedback))
		}
		output.WriteString("\n")
	}

	output.WriteString("## Keyword Analysis\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d/100\n\n", result.KeywordAnalysis.Score))
	if len(result.KeywordAnalysis.PresentKeywords) > 0 {
		output.WriteString(fmt.Sprintf("**Present:** %s\n\n", strings.Join(result.KeywordAnalysis.PresentKeywords, ", ")))
	}
	if len(result.KeywordAnalysis.MissingKeywords) > 0 {
		output.WriteString(fmt.Sprintf("**Missing:** %s\n", strings.Join(result.KeywordAnalysis.MissingKeywords, ", ")))
	}

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

// QuestionsTextFormatter handles text formatting for interview questions
type QuestionsTextFormatter struct{}

func (qtf *QuestionsTextFormatter) Format(data any) (string, error) {
	result, ok := data.(*types.QuestionsResult)
	if !ok {
		return "", fmt.Errorf("expected *QuestionsResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== INTERVIEW QUESTIONS ===\n\n")
	if len(result.Questions) == 0 {
		output.WriteString("No questions were generated.\n")
		return output.String(), nil
	}

	for i, q := range result.Questions {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, q.Question))
		output.WriteString(fmt.Sprintf("   Category: %s, Difficulty: %s\n\n", q.Category, q.Difficulty))
	}

	return output.String(), nil
}

func (qtf *QuestionsTextFormatter) SupportedType() string {
	return "QuestionsResult"
}

// QuestionsMarkdownFormatter handles markdown formatting for interview questions
type QuestionsMarkdownFormatter struct{}

func (qmf *QuestionsMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(*types.QuestionsResult)
	if !ok {
		return "", fmt.Errorf("expected *QuestionsResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Interview Questions\n\n")
	if len(result.Questions) == 0 {
		output.WriteString("No questions were generated.\n")
		return output.String(), nil
	}

	for i, q := range result.Questions {
		output.WriteString(fmt.Sprintf("%d. %s\n", i+1, q.Question))
		output.WriteString(fmt.Sprintf("   *%s, %s*\n\n", q.Category, q.Difficulty))
	}

	return output.String(), nil
}

func (qmf *QuestionsMarkdownFormatter) SupportedType() string {
	return "QuestionsResult"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
