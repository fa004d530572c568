package chatguru

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sai/internal/service/dispatch"
)

// Приветственный текст первого контакта. Канал требует непустое
// сообщение при регистрации чата.
const greetingText = "Alerta de corrida Giross próxima de você!"

const defaultName = "Novo Entregador"

// Client — клиент WABA-канала ChatGuru. Все операции — form-POST
// на один URL, действие выбирается полем action.
type Client struct {
	httpClient *http.Client
	baseURL    string
	key        string
	accountID  string
	phoneID    string
}

type Config struct {
	BaseURL   string
	Key       string
	AccountID string
	PhoneID   string
}

func New(httpClient *http.Client, cfg Config) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		key:        cfg.Key,
		accountID:  cfg.AccountID,
		phoneID:    cfg.PhoneID,
	}
}

// apiResponse — общий конверт ответов канала. Поля, не относящиеся
// к конкретному action, приходят пустыми.
type apiResponse struct {
	Code          int    `json:"code"`
	Result        string `json:"result"`
	Description   string `json:"description"`
	ChatAddID     string `json:"chat_add_id"`
	ChatAddStatus string `json:"chat_add_status"`
}

func (c *Client) RegisterChat(ctx context.Context, phone, displayName string) (string, error) {
	if displayName == "" {
		displayName = defaultName
	}

	params := c.baseParams("chat_add")
	params.Set("chat_number", phone)
	params.Set("name", displayName)
	params.Set("text", greetingText)

	response, err := c.send(ctx, "chat_add", params)
	if err != nil {
		return "", err
	}
	if response.ChatAddID == "" {
		return "", ErrEmptyChatAddID
	}
	return response.ChatAddID, nil
}

func (c *Client) RegistrationStatus(ctx context.Context, contactID string) (*dispatch.RegistrationStatus, error) {
	params := c.baseParams("chat_add_status")
	params.Set("chat_add_id", contactID)

	response, err := c.send(ctx, "chat_add_status", params)
	if err != nil {
		return nil, err
	}
	return &dispatch.RegistrationStatus{
		Status:      response.ChatAddStatus,
		Description: response.Description,
	}, nil
}

func (c *Client) UpdateCustomFields(ctx context.Context, phone string, fields map[string]string) error {
	params := c.baseParams("chat_update_custom_fields")
	params.Set("chat_number", phone)
	for key, value := range fields {
		params.Set("field__"+key, value)
	}

	_, err := c.send(ctx, "chat_update_custom_fields", params)
	return err
}

// ExecuteDialog запускает диалог с шаблоном офера.
// Позиционные параметры шаблона передаются как param_1..param_n.
func (c *Client) ExecuteDialog(ctx context.Context, phone, dialogID string, templateParams []string) (*dispatch.DialogResult, error) {
	params := c.baseParams("dialog_execute")
	params.Set("chat_number", phone)
	params.Set("dialog_id", dialogID)
	for i, value := range templateParams {
		params.Set(fmt.Sprintf("param_%d", i+1), value)
	}

	response, err := c.send(ctx, "dialog_execute", params)
	if err != nil {
		return nil, err
	}
	return &dispatch.DialogResult{
		Success: strings.EqualFold(response.Result, "success"),
		Raw:     response.Description,
	}, nil
}

func (c *Client) SendText(ctx context.Context, phone, text string) error {
	params := c.baseParams("chat_send_message")
	params.Set("chat_number", phone)
	params.Set("text", text)

	_, err := c.send(ctx, "chat_send_message", params)
	return err
}

func (c *Client) baseParams(action string) url.Values {
	params := url.Values{}
	params.Set("key", c.key)
	params.Set("account_id", c.accountID)
	params.Set("phone_id", c.phoneID)
	params.Set("action", action)
	return params
}

func (c *Client) send(ctx context.Context, action string, params url.Values) (*apiResponse, error) {
	started := time.Now()
	response, err := c.doRequest(ctx, action, params)
	observeRequest(action, started, err)
	return response, err
}

func (c *Client) doRequest(ctx context.Context, action string, params url.Values) (*apiResponse, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", action, err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResponse, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("chatguru %s: %w", action, err)
	}
	defer httpResponse.Body.Close()

	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", action, err)
	}

	if httpResponse.StatusCode < http.StatusOK || httpResponse.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{
			Action:     action,
			StatusCode: httpResponse.StatusCode,
			Body:       string(body),
		}
	}

	var response apiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", action, err)
	}
	return &response, nil
}
