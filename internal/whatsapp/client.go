package whatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client sends messages through the Cloud API. Every operation issues
// exactly one POST and never retries; callers decide whether a failed
// send matters.
type Client struct {
	baseURL       string
	apiVersion    string
	phoneNumberID string
	accessToken   string
	http          *http.Client
}

func NewClient(baseURL, apiVersion, phoneNumberID, accessToken string) *Client {
	return &Client{
		baseURL:       baseURL,
		apiVersion:    apiVersion,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		http:          &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) SendText(to, body string) error {
	msg := SendMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             &SendText{Body: body},
	}
	return c.post(msg)
}

// SendInteractiveButtons sends a reply-button menu. The platform accepts
// at most 3 buttons with titles up to 20 characters.
func (c *Client) SendInteractiveButtons(to, body string, buttons []Button) error {
	if len(buttons) == 0 || len(buttons) > 3 {
		return fmt.Errorf("interactive message needs 1 to 3 buttons, got %d", len(buttons))
	}
	msg := SendMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "interactive",
		Interactive: &Interactive{
			Type:   "button",
			Body:   InteractiveBody{Text: body},
			Action: InteractiveAction{Buttons: buttons},
		},
	}
	return c.post(msg)
}

func (c *Client) SendMedia(to, kind, url, caption string) error {
	msg := SendMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             kind,
	}

	switch kind {
	case "image":
		msg.Image = &MediaLink{Link: url, Caption: caption}
	case "audio":
		// audio messages carry no caption
		msg.Audio = &MediaLink{Link: url}
	case "video":
		msg.Video = &MediaLink{Link: url, Caption: caption}
	case "document":
		msg.Document = &MediaLink{Link: url, Caption: caption}
	default:
		return fmt.Errorf("unsupported media type %q", kind)
	}

	return c.post(msg)
}

func (c *Client) SendLocation(to string, latitude, longitude float64, name, address string) error {
	msg := SendMessageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "location",
		Location: &Location{
			Latitude:  latitude,
			Longitude: longitude,
			Name:      name,
			Address:   address,
		},
	}
	return c.post(msg)
}

func (c *Client) SendContact(to string, contact OutboundContact) error {
	msg := SendMessageRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "contacts",
		Contacts:         []OutboundContact{contact},
	}
	return c.post(msg)
}

// MarkRead flags an incoming message as read so the sender sees the
// read receipt.
func (c *Client) MarkRead(messageID string) error {
	return c.post(MarkReadRequest{
		MessagingProduct: "whatsapp",
		Status:           "read",
		MessageID:        messageID,
	})
}

func (c *Client) post(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.apiVersion, c.phoneNumberID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		var apiErr errorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			apiErr.Error.StatusCode = resp.StatusCode
			return &apiErr.Error
		}
		return fmt.Errorf("whatsapp API status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}
