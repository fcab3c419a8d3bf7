// Package anthropic invokes the managed Claude models on AWS Bedrock to
// turn feature descriptions into code.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	anthropicAPI "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/hellausefulsoftware/ticketbridge/internal/config"
	"github.com/hellausefulsoftware/ticketbridge/internal/logging"
)

// CodeModel is the Bedrock model id used for code generation.
const CodeModel = "us.anthropic.claude-3-5-sonnet-20240620-v1:0"

// Sampling parameters are pinned for deterministic output.
const (
	maxOutputTokens = 1000
	topK            = 250
	topP            = 0.999
	temperature     = 0.0
)

// stopSequence ends generation at the turn boundary.
const stopSequence = "\n\nHuman:"

// codePrompt is the fixed instruction template the caller's description
// is forwarded into. Its wording is inherited verbatim from the
// upstream prompt, self-contradiction included.
const codePrompt = "\n\nHuman: Write clean, well-commented Javascript code **only**. " +
	"Do **not** include any explanations, descriptions, greetings, or text outside the code. " +
	"Return only the Python code, nothing else. " +
	"Here is the description:\n${description}\n\nAssistant:"

// CodeGenerator builds model requests and extracts generated text.
type CodeGenerator struct {
	client *anthropicAPI.Client
}

// NewCodeGenerator creates a generator talking to Bedrock in the
// configured region, with static credentials when both halves are set.
func NewCodeGenerator(ctx context.Context, cfg *config.Config) (*CodeGenerator, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWS.Region),
	}
	if cfg.AWS.AccessKeyID != "" && cfg.AWS.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logging.Info("Creating Bedrock code generator", "region", cfg.AWS.Region, "model", CodeModel)

	return &CodeGenerator{
		client: anthropicAPI.NewClient(bedrock.WithConfig(awsCfg)),
	}, nil
}

// GenerateCode invokes the model once with the fixed prompt template and
// returns the generated text, which may be empty. Invocation failures are
// surfaced to the caller; nothing is retried.
func (g *CodeGenerator) GenerateCode(ctx context.Context, description string) (string, error) {
	prompt := buildPrompt(description)

	logging.Debug("Sending code generation request", "model", CodeModel, "prompt_length", len(prompt))

	message, err := g.client.Messages.New(ctx, anthropicAPI.MessageNewParams{
		Model:         anthropicAPI.F(CodeModel),
		MaxTokens:     anthropicAPI.F(int64(maxOutputTokens)),
		Temperature:   anthropicAPI.F(temperature),
		TopK:          anthropicAPI.F(int64(topK)),
		TopP:          anthropicAPI.F(topP),
		StopSequences: anthropicAPI.F([]string{stopSequence}),
		Messages: anthropicAPI.F([]anthropicAPI.MessageParam{
			anthropicAPI.NewUserMessage(
				anthropicAPI.NewTextBlock(prompt),
			),
		}),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke model: %w", err)
	}

	code := extractText(message)

	logging.Info("Received generated code", "length", len(code), "content_items", len(message.Content))

	return code, nil
}

// buildPrompt forwards the description into the fixed template.
func buildPrompt(description string) string {
	return strings.Replace(codePrompt, "${description}", description, 1)
}

// extractText concatenates every text content block of the response and
// trims surrounding whitespace.
func extractText(message *anthropicAPI.Message) string {
	var text string
	for _, content := range message.Content {
		if content.Type == "text" {
			text += content.Text
		}
	}
	return strings.TrimSpace(text)
}
