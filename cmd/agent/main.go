// The agent translates natural-language requests into calls against the
// inventory RPC surface. It is a pure client: every effect goes through
// the same API the CLI uses, never the storage directly.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/SIXMAR729/product-cli-project/internal/client"
	"github.com/SIXMAR729/product-cli-project/internal/handler"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const (
	defaultModel  = "gpt-4o-mini"
	defaultServer = "http://localhost:50051"

	// maxTurns bounds the tool-calling loop so a confused model cannot
	// spin forever against the API.
	maxTurns = 10

	systemPrompt = `You are an assistant managing a product and order inventory.
Use the provided tools to carry out the user's request, then summarize the
result in one or two sentences. Report tool errors back to the user instead
of retrying endlessly.`
)

var errAPIKeyNotSet = errors.New("OPENAI_API_KEY environment variable is not set")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	godotenv.Load()
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: agent <request in natural language>")
	}
	prompt := strings.Join(args, " ")

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return errAPIKeyNotSet
	}

	model := os.Getenv("AGENT_MODEL")
	if model == "" {
		model = defaultModel
	}

	server := os.Getenv("INVENTORY_SERVER")
	if server == "" {
		server = defaultServer
	}

	agent := &agent{
		llm: openai.NewClient(option.WithAPIKey(apiKey)),
		api: client.New(server),
	}

	answer, err := agent.Run(ctx, model, prompt)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}

type agent struct {
	llm openai.Client
	api *client.Client
}

func (a *agent) Run(ctx context.Context, model, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Tools: toolDefinitions(),
	}

	for range maxTurns {
		completion, err := a.llm.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", fmt.Errorf("completion failed: %w", err)
		}
		if len(completion.Choices) == 0 {
			return "", errors.New("no completion choices returned")
		}

		message := completion.Choices[0].Message
		if len(message.ToolCalls) == 0 {
			return message.Content, nil
		}

		params.Messages = append(params.Messages, message.ToParam())
		for _, call := range message.ToolCalls {
			result := a.execute(ctx, call.Function.Name, call.Function.Arguments)
			params.Messages = append(params.Messages, openai.ToolMessage(result, call.ID))
		}
	}

	return "", errors.New("tool-calling loop exceeded the turn limit")
}

// execute dispatches one tool call. Failures are returned as text so the
// model can relay them to the user.
func (a *agent) execute(ctx context.Context, name, arguments string) string {
	result, err := a.dispatch(ctx, name, arguments)
	if err != nil {
		return "error: " + err.Error()
	}

	data, err := json.Marshal(result)
	if err != nil {
		return "error: " + err.Error()
	}
	return string(data)
}

func (a *agent) dispatch(ctx context.Context, name, arguments string) (any, error) {
	switch name {
	case "add_product":
		var req handler.AddProductRequest
		if err := json.Unmarshal([]byte(arguments), &req); err != nil {
			return nil, err
		}
		return a.api.AddProduct(ctx, req)

	case "edit_product":
		var req struct {
			ProductID string `json:"product_id"`
			handler.EditProductRequest
		}
		if err := json.Unmarshal([]byte(arguments), &req); err != nil {
			return nil, err
		}
		return a.api.EditProduct(ctx, req.ProductID, req.EditProductRequest)

	case "delete_product":
		var req struct {
			ProductID string `json:"product_id"`
		}
		if err := json.Unmarshal([]byte(arguments), &req); err != nil {
			return nil, err
		}
		if err := a.api.DeleteProduct(ctx, req.ProductID); err != nil {
			return nil, err
		}
		return map[string]string{"status": "deleted", "product_id": req.ProductID}, nil

	case "get_product":
		var req struct {
			ProductID string `json:"product_id"`
		}
		if err := json.Unmarshal([]byte(arguments), &req); err != nil {
			return nil, err
		}
		return a.api.GetProduct(ctx, req.ProductID)

	case "list_products":
		return a.api.ListProducts(ctx)

	case "count_products":
		count, err := a.api.CountProducts(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]int64{"count": count}, nil

	case "create_order":
		var req handler.CreateOrderRequest
		if err := json.Unmarshal([]byte(arguments), &req); err != nil {
			return nil, err
		}
		return a.api.CreateOrder(ctx, req)

	case "get_order":
		var req struct {
			OrderID string `json:"order_id"`
		}
		if err := json.Unmarshal([]byte(arguments), &req); err != nil {
			return nil, err
		}
		return a.api.GetOrder(ctx, req.OrderID)

	case "count_orders":
		count, err := a.api.CountOrders(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]int64{"count": count}, nil
	}

	return nil, fmt.Errorf("unknown tool %q", name)
}

func toolDefinitions() []openai.ChatCompletionToolUnionParam {
	return []openai.ChatCompletionToolUnionParam{
		functionTool("add_product", "Create a new product", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":        map[string]any{"type": "string", "description": "Product name"},
				"price":       map[string]any{"type": "number", "description": "Non-negative price"},
				"description": map[string]any{"type": "string"},
			},
			"required": []string{"name", "price"},
		}),
		functionTool("edit_product", "Edit a product. Only supplied fields change.", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"product_id":  map[string]any{"type": "string"},
				"name":        map[string]any{"type": "string"},
				"price":       map[string]any{"type": "number"},
				"description": map[string]any{"type": "string"},
			},
			"required": []string{"product_id"},
		}),
		functionTool("delete_product", "Delete a product by id", idParams("product_id")),
		functionTool("get_product", "Fetch a product by id", idParams("product_id")),
		functionTool("list_products", "List all products", emptyParams()),
		functionTool("count_products", "Count all products", emptyParams()),
		functionTool("create_order", "Create an order for a customer", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"customer_id": map[string]any{"type": "string"},
				"line_items": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"product_id": map[string]any{"type": "string"},
							"quantity":   map[string]any{"type": "integer", "minimum": 1},
						},
						"required": []string{"product_id", "quantity"},
					},
				},
			},
			"required": []string{"customer_id", "line_items"},
		}),
		functionTool("get_order", "Fetch an order by id", idParams("order_id")),
		functionTool("count_orders", "Count all orders", emptyParams()),
	}
}

func functionTool(name, description string, parameters map[string]any) openai.ChatCompletionToolUnionParam {
	return openai.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
		Name:        name,
		Description: openai.String(description),
		Parameters:  shared.FunctionParameters(parameters),
	})
}

func idParams(field string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			field: map[string]any{"type": "string"},
		},
		"required": []string{field},
	}
}

func emptyParams() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
