// Package apiclient consume los endpoints /translate y /summary del servidor.
// Lo usa el CLI como gateway remoto detras del Orchestrator.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"visit-translator/internal/service"
)

// ConnectionErrorText es lo que ve el usuario cuando el servidor no responde.
const ConnectionErrorText = "Connection Error"

var ErrEmptySummary = errors.New("empty summary in response")

// Client habla con la API HTTP de traduccion y resumen.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// New construye un cliente; httpClient nil usa uno con timeout de 60s.
func New(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
		logger:  logger,
	}
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	DetectedLang   string `json:"detectedLang"`
	Error          string `json:"error"`
}

// Translate nunca falla: errores de red o del servidor vuelven como texto.
func (c *Client) Translate(ctx context.Context, text, targetLang string) service.TranslationResult {
	var out translateResponse
	status, err := c.post(ctx, "/translate", map[string]string{"text": text, "targetLang": targetLang}, &out)
	if err != nil {
		c.logger.Warn("translate request failed", zap.Error(err))
		if status == 0 {
			return service.TranslationResult{TranslatedText: ConnectionErrorText, DetectedLang: service.UnknownLanguage}
		}
		return service.FailedTranslation("invalid translation response")
	}
	if out.Error != "" {
		return service.FailedTranslation(out.Error)
	}
	if status >= 400 || out.TranslatedText == "" {
		return service.FailedTranslation(fmt.Sprintf("status %d", status))
	}
	detected := out.DetectedLang
	if detected == "" {
		detected = service.UnknownLanguage
	}
	return service.TranslationResult{TranslatedText: out.TranslatedText, DetectedLang: detected}
}

// TrySummarize devuelve error ante cualquier respuesta no exitosa o vacia.
func (c *Client) TrySummarize(ctx context.Context, transcript string) (string, error) {
	var out struct {
		Summary string `json:"summary"`
		Error   string `json:"error"`
	}
	status, err := c.post(ctx, "/summary", map[string]string{"text": transcript}, &out)
	if err != nil {
		return "", errors.Join(service.ErrSummaryFailed, err)
	}
	if status >= 400 {
		return "", errors.Join(service.ErrSummaryFailed, fmt.Errorf("summary http error: status=%d error=%q", status, out.Error))
	}
	if strings.TrimSpace(out.Summary) == "" {
		return "", errors.Join(service.ErrSummaryFailed, ErrEmptySummary)
	}
	return out.Summary, nil
}

// post devuelve status 0 si la peticion no llego a tener respuesta.
func (c *Client) post(ctx context.Context, path string, body any, out any) (int, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		c.logger.Debug("undecodable api response", zap.Int("status", resp.StatusCode), zap.ByteString("body", respBody))
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}
