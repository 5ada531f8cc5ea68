// Package upstream es el cliente HTTP del backend del chat (fork de Open WebUI):
// estado del flujo, perfiles de hijos y settings del usuario.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"kidsflow/internal/domain"
)

var (
	ErrMissingToken = errors.New("upstream: missing bearer token")
	ErrNotFound     = errors.New("upstream: not found")
)

// APIError representa una respuesta de error del backend. Detail se extrae
// del campo "detail" del cuerpo JSON cuando existe.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("upstream status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("upstream status %d", e.Status)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// Client habla con el backend en nombre del usuario (bearer token).
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient construye el cliente. baseURL apunta a la raíz de la API (…/api/v1).
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// GetWorkflowState maneja GET /workflow/state.
func (c *Client) GetWorkflowState(ctx context.Context, token string) (domain.WorkflowState, error) {
	var state domain.WorkflowState
	err := c.do(ctx, token, http.MethodGet, "/workflow/state", nil, &state)
	return state, err
}

// ListChildProfiles maneja GET /child-profiles. Para un usuario child el
// backend devuelve a lo sumo su propio perfil.
func (c *Client) ListChildProfiles(ctx context.Context, token string) ([]domain.ChildProfile, error) {
	var profiles []domain.ChildProfile
	if err := c.do(ctx, token, http.MethodGet, "/child-profiles", nil, &profiles); err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []domain.ChildProfile{}
	}
	return profiles, nil
}

// CreateChildProfile maneja POST /child-profiles.
func (c *Client) CreateChildProfile(ctx context.Context, token string, form domain.ChildProfileForm) (domain.ChildProfile, error) {
	var profile domain.ChildProfile
	err := c.do(ctx, token, http.MethodPost, "/child-profiles", form, &profile)
	return profile, err
}

// UpdateChildProfile maneja PUT /child-profiles/{id}.
func (c *Client) UpdateChildProfile(ctx context.Context, token, id string, form domain.ChildProfileForm) (domain.ChildProfile, error) {
	var profile domain.ChildProfile
	err := c.do(ctx, token, http.MethodPut, "/child-profiles/"+url.PathEscape(id), form, &profile)
	return profile, err
}

// DeleteChildProfile maneja DELETE /child-profiles/{id}.
func (c *Client) DeleteChildProfile(ctx context.Context, token, id string) error {
	return c.do(ctx, token, http.MethodDelete, "/child-profiles/"+url.PathEscape(id), nil, nil)
}

// GetUserSettings maneja GET /users/user/settings.
func (c *Client) GetUserSettings(ctx context.Context, token string) (domain.UserSettings, error) {
	var settings domain.UserSettings
	err := c.do(ctx, token, http.MethodGet, "/users/user/settings", nil, &settings)
	return settings, err
}

// UpdateUserSettings maneja PUT /users/user/settings.
func (c *Client) UpdateUserSettings(ctx context.Context, token string, settings domain.UserSettings) (domain.UserSettings, error) {
	var out domain.UserSettings
	err := c.do(ctx, token, http.MethodPut, "/users/user/settings", settings, &out)
	return out, err
}

// SelectedChildID lee ui.selectedChildId desde los settings del backend.
func (c *Client) SelectedChildID(ctx context.Context, token string) (string, bool, error) {
	settings, err := c.GetUserSettings(ctx, token)
	if err != nil {
		return "", false, err
	}
	id, ok := settings.SelectedChildID()
	return id, ok, nil
}

// SetSelectedChildID escribe el puntero al hijo seleccionado; id vacío lo borra.
// Es el único camino de escritura de la selección.
func (c *Client) SetSelectedChildID(ctx context.Context, token, id string) error {
	current, err := c.GetUserSettings(ctx, token)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if _, err := c.UpdateUserSettings(ctx, token, current.WithSelectedChildID(id)); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// Health consulta GET /health en la raíz del servidor. Lo usa el monitor de
// conectividad; no requiere token.
func (c *Client) Health(ctx context.Context) error {
	root := strings.TrimSuffix(c.baseURL, "/api/v1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, root+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode}
	}
	return nil
}

func (c *Client) do(ctx context.Context, token, method, path string, in, out any) error {
	if strings.TrimSpace(token) == "" {
		return ErrMissingToken
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Detail: extractDetail(respBody)}
		c.logger.Debug("upstream error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", apiErr.Detail),
		)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func extractDetail(body []byte) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if s, ok := payload.Detail.(string); ok {
		return s
	}
	return ""
}
