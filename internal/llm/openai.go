package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const chatCompletionsPath = "chat/completions"

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint
// (api.openai.com, Groq, local gateways). The endpoint and key come with
// every request so a single client serves all registered backends.
type OpenAIClient struct {
	httpClient *http.Client
}

// NewOpenAIClient builds a client; a nil httpClient uses http.DefaultClient.
// Deadlines are expected on the request context.
func NewOpenAIClient(httpClient *http.Client) *OpenAIClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OpenAIClient{httpClient: httpClient}
}

func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c == nil || c.httpClient == nil {
		return "", fmt.Errorf("nil openai client")
	}
	if req.APIKey == "" {
		return "", fmt.Errorf("api key required")
	}
	cli := openai.NewClient(
		option.WithBaseURL(BaseURL(req.Endpoint)),
		option.WithAPIKey(req.APIKey),
		option.WithHTTPClient(c.httpClient),
		// Callers own retry policy.
		option.WithMaxRetries(0),
		option.WithJSONSet("stream", false),
	)
	resp, err := cli.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    buildMessages(req.System, req.User),
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &StatusError{StatusCode: apiErr.StatusCode, Err: err}
		}
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// BaseURL turns a full chat completions endpoint into the SDK base URL.
func BaseURL(endpoint string) string {
	base := strings.TrimSuffix(endpoint, chatCompletionsPath)
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base
}

func buildMessages(system, user string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(system),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(user),
				},
			},
		},
	}
}
