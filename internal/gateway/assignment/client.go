package assignment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"sai/pkg/retrier"
)

// Client — клиент внутреннего API панели назначения заказов.
// Эндпоинт живет за нестандартным TLS, поэтому http.Client сюда
// приходит с отключенной проверкой сертификата (см. pkg/httpclient).
type Client struct {
	httpClient *http.Client
	retrier    retrier.Retrier
	baseURL    string
	email      string
	password   string
}

type Config struct {
	BaseURL  string
	Email    string
	Password string
}

func New(httpClient *http.Client, loginRetrier retrier.Retrier, cfg Config) *Client {
	return &Client{
		httpClient: httpClient,
		retrier:    loginRetrier,
		baseURL:    cfg.BaseURL,
		email:      cfg.Email,
		password:   cfg.Password,
	}
}

type loginRequest struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Browser    string  `json:"browser"`
	BrowserVer string  `json:"browserVersion"`
	OS         string  `json:"os"`
	OSVersion  string  `json:"osVersion"`
	Device     *string `json:"device"`
	ScreenSize string  `json:"screenSize"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

type assignRequest struct {
	ProviderID int64 `json:"provider_id"`
	RequestID  int64 `json:"request_id"`
}

type assignResponse struct {
	Success bool `json:"success"`
}

// Login получает Bearer-токен. Сетевые сбои ретраятся,
// отказ в аутентификации — нет.
func (c *Client) Login(ctx context.Context) (string, error) {
	payload := loginRequest{
		Email:      c.email,
		Password:   c.password,
		Browser:    "Chrome",
		BrowserVer: "138.0.0.0",
		OS:         "Linux",
		OSVersion:  "6.1",
		ScreenSize: "1920x1080",
	}

	var token string
	err := c.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		var response loginResponse
		if err := c.post(ctx, "/login", "", payload, &response); err != nil {
			return err
		}
		if response.AccessToken == "" {
			return ErrNoAccessToken
		}
		token = response.AccessToken
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

func (c *Client) Assign(ctx context.Context, token string, orderID, providerID int64) error {
	payload := assignRequest{
		ProviderID: providerID,
		RequestID:  orderID,
	}

	var response assignResponse
	if err := c.post(ctx, "/sai/assign", token, payload, &response); err != nil {
		return err
	}
	if !response.Success {
		return ErrAssignRejected
	}
	return nil
}

// ShouldRetryLogin — политика ретраев логина: повторяем сетевые ошибки
// и 5xx, ошибки аутентификации и прочие 4xx терминальны.
func ShouldRetryLogin(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}
	return !errors.Is(err, ErrNoAccessToken)
}

func (c *Client) post(ctx context.Context, endpoint, token string, payload, response interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", endpoint, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	httpResponse, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("assignment %s: %w", endpoint, err)
	}
	defer httpResponse.Body.Close()

	responseBody, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", endpoint, err)
	}

	if httpResponse.StatusCode < http.StatusOK || httpResponse.StatusCode >= http.StatusMultipleChoices {
		return &APIError{
			Endpoint:   endpoint,
			StatusCode: httpResponse.StatusCode,
			Body:       string(responseBody),
		}
	}

	if err := json.Unmarshal(responseBody, response); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
