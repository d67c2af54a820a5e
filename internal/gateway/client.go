package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	findChatsTimeout    = 20 * time.Second
	findMessagesTimeout = 25 * time.Second
)

// StatusError is returned when the gateway answers with a non-2xx status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway returned status %d", e.Code)
}

// Client talks to an Evolution-style messaging gateway. Both operations are
// plain synchronous POSTs authenticated with a static API key header.
type Client struct {
	baseURL  string
	instance string
	apiKey   string
	http     *http.Client
}

func NewClient(baseURL, instance, apiKey string) *Client {
	return &Client{
		baseURL:  baseURL,
		instance: instance,
		apiKey:   apiKey,
		http:     &http.Client{},
	}
}

// RawChat mirrors one record of the findChats response.
type RawChat struct {
	RemoteJID     string `json:"remoteJid"`
	ID            string `json:"id"`
	PushName      string `json:"pushName"`
	ProfilePicURL string `json:"profilePicUrl"`
	UpdatedAt     any    `json:"updatedAt"`
}

// RawMessage mirrors one record of the findMessages response. The payload
// is a union over known message kinds; unknown kinds simply leave every
// field zero.
type RawMessage struct {
	Key              MessageKey `json:"key"`
	PushName         string     `json:"pushName"`
	MessageTimestamp any        `json:"messageTimestamp"`
	Message          Payload    `json:"message"`
}

type MessageKey struct {
	RemoteJID string `json:"remoteJid"`
	FromMe    bool   `json:"fromMe"`
}

type Payload struct {
	Conversation        string          `json:"conversation"`
	ExtendedTextMessage *ExtendedText   `json:"extendedTextMessage"`
	ImageMessage        json.RawMessage `json:"imageMessage"`
	DocumentMessage     json.RawMessage `json:"documentMessage"`
	VideoMessage        json.RawMessage `json:"videoMessage"`
}

type ExtendedText struct {
	Text string `json:"text"`
}

// FindChats lists all conversations known to the gateway instance. The
// gateway answers either with a bare array or with {"chats": [...]}; any
// other shape is a contract violation and fails loudly.
func (c *Client) FindChats(ctx context.Context) ([]RawChat, error) {
	body, err := c.post(ctx, "/chat/findChats/"+c.instance, nil, findChatsTimeout)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var chats []RawChat
		if err := json.Unmarshal(trimmed, &chats); err != nil {
			return nil, fmt.Errorf("failed to decode findChats response: %w", err)
		}
		return chats, nil
	}

	var wrapper struct {
		Chats *[]RawChat `json:"chats"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to decode findChats response: %w", err)
	}
	if wrapper.Chats == nil {
		return nil, fmt.Errorf("unexpected findChats response shape")
	}
	return *wrapper.Chats, nil
}

// FindMessages lists the messages of one conversation. A response without
// the messages.records path counts as an empty conversation, not an error.
func (c *Client) FindMessages(ctx context.Context, remoteJID string) ([]RawMessage, error) {
	payload := map[string]any{
		"where": map[string]any{
			"key": map[string]any{
				"remoteJid": remoteJID,
			},
		},
	}

	body, err := c.post(ctx, "/chat/findMessages/"+c.instance, payload, findMessagesTimeout)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Messages struct {
			Records []RawMessage `json:"records"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to decode findMessages response: %w", err)
	}
	return wrapper.Messages.Records, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	return body, nil
}
