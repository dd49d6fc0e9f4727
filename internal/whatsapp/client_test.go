package whatsapp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	path   string
	auth   string
	body   map[string]any
	status int
	reply  string
}

func newTestClient(t *testing.T, got *capturedRequest) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &got.body)
		if got.status != 0 {
			w.WriteHeader(got.status)
		}
		if got.reply != "" {
			w.Write([]byte(got.reply))
		}
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "v22.0", "12345", "test-token")
}

func TestSendTextEnvelope(t *testing.T) {
	got := &capturedRequest{}
	c := newTestClient(t, got)

	require.NoError(t, c.SendText("555", "hola"))

	assert.Equal(t, "/v22.0/12345/messages", got.path)
	assert.Equal(t, "Bearer test-token", got.auth)
	assert.Equal(t, "whatsapp", got.body["messaging_product"])
	assert.Equal(t, "text", got.body["type"])
	assert.Equal(t, "555", got.body["to"])
	text := got.body["text"].(map[string]any)
	assert.Equal(t, "hola", text["body"])
}

func TestSendInteractiveButtonsEnvelope(t *testing.T) {
	got := &capturedRequest{}
	c := newTestClient(t, got)

	buttons := []Button{
		{Type: "reply", Reply: ButtonReply{ID: "option_1", Title: "Iniciar sesión"}},
		{Type: "reply", Reply: ButtonReply{ID: "option_2", Title: "No tengo cuenta"}},
	}
	require.NoError(t, c.SendInteractiveButtons("555", "¿Ya tienes cuenta?", buttons))

	assert.Equal(t, "interactive", got.body["type"])
	interactive := got.body["interactive"].(map[string]any)
	assert.Equal(t, "button", interactive["type"])
	action := interactive["action"].(map[string]any)
	assert.Len(t, action["buttons"], 2)
}

func TestSendInteractiveButtonsRejectsBadCounts(t *testing.T) {
	got := &capturedRequest{}
	c := newTestClient(t, got)

	assert.Error(t, c.SendInteractiveButtons("555", "menu", nil))

	four := make([]Button, 4)
	assert.Error(t, c.SendInteractiveButtons("555", "menu", four))

	// nothing was sent
	assert.Empty(t, got.path)
}

func TestSendMediaEnvelope(t *testing.T) {
	got := &capturedRequest{}
	c := newTestClient(t, got)

	require.NoError(t, c.SendMedia("555", "image", "https://example.com/a.png", "mira esto"))
	assert.Equal(t, "image", got.body["type"])
	img := got.body["image"].(map[string]any)
	assert.Equal(t, "https://example.com/a.png", img["link"])
	assert.Equal(t, "mira esto", img["caption"])

	// audio never carries a caption
	require.NoError(t, c.SendMedia("555", "audio", "https://example.com/a.ogg", "ignorada"))
	audio := got.body["audio"].(map[string]any)
	assert.Equal(t, "https://example.com/a.ogg", audio["link"])
	assert.NotContains(t, audio, "caption")

	assert.Error(t, c.SendMedia("555", "sticker", "https://example.com/s.webp", ""))
}

func TestSendLocationEnvelope(t *testing.T) {
	got := &capturedRequest{}
	c := newTestClient(t, got)

	require.NoError(t, c.SendLocation("555", -12.0464, -77.0428, "AVOCADO", "Av. Principal 123"))

	assert.Equal(t, "location", got.body["type"])
	loc := got.body["location"].(map[string]any)
	assert.Equal(t, -12.0464, loc["latitude"])
	assert.Equal(t, "AVOCADO", loc["name"])
}

func TestSendContactEnvelope(t *testing.T) {
	got := &capturedRequest{}
	c := newTestClient(t, got)

	contact := OutboundContact{
		Name:   ContactName{FormattedName: "Equipo AVOCADO", FirstName: "Equipo"},
		Phones: []ContactPhone{{Phone: "+51999999999", Type: "WORK"}},
	}
	require.NoError(t, c.SendContact("555", contact))

	assert.Equal(t, "contacts", got.body["type"])
	contacts := got.body["contacts"].([]any)
	require.Len(t, contacts, 1)
}

func TestMarkReadEnvelope(t *testing.T) {
	got := &capturedRequest{}
	c := newTestClient(t, got)

	require.NoError(t, c.MarkRead("wamid.abc"))

	assert.Equal(t, "read", got.body["status"])
	assert.Equal(t, "wamid.abc", got.body["message_id"])
}

func TestAPIErrorIsParsed(t *testing.T) {
	got := &capturedRequest{
		status: http.StatusUnauthorized,
		reply:  `{"error": {"message": "Invalid OAuth access token", "type": "OAuthException", "code": 190, "fbtrace_id": "AbCd"}}`,
	}
	c := newTestClient(t, got)

	err := c.SendText("555", "hola")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, 190, apiErr.Code)
	assert.Equal(t, "OAuthException", apiErr.Type)
	assert.Contains(t, apiErr.Error(), "Invalid OAuth access token")
}

func TestNonJSONErrorBodyStillFails(t *testing.T) {
	got := &capturedRequest{status: http.StatusBadGateway, reply: "upstream unavailable"}
	c := newTestClient(t, got)

	err := c.SendText("555", "hola")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
