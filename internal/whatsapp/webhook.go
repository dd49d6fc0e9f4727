package whatsapp

import (
	"encoding/json"
	"log"
	"net/http"
)

// MessageHandler is called once per extracted user message.
type MessageHandler func(msg IncomingMessage)

type WebhookHandler struct {
	verifyToken string
	onMessage   MessageHandler
}

func NewWebhookHandler(verifyToken string, onMessage MessageHandler) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: verifyToken,
		onMessage:   onMessage,
	}
}

// HandleVerify handles the GET webhook verification from Meta. The
// challenge must be echoed back verbatim.
// Reference: https://developers.facebook.com/docs/whatsapp/cloud-api/get-started#webhook-verification
func (h *WebhookHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}

	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleIncoming processes incoming webhook POST notifications.
//
// Meta enforces a short response SLA and retry-storms on timeouts, so the
// 200 is written before any processing starts and processing runs in its
// own goroutine. Events with no extractable user message (status updates,
// unsupported types, truncated envelopes) are logged and dropped — still 200.
// Reference: https://developers.facebook.com/docs/whatsapp/cloud-api/webhooks/components
func (h *WebhookHandler) HandleIncoming(w http.ResponseWriter, r *http.Request) {
	var payload WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Printf("webhook: failed to decode payload: %v", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	w.WriteHeader(http.StatusOK)

	msgs := ExtractMessages(payload)
	if len(msgs) == 0 {
		log.Printf("webhook: received non-user event, nothing to do")
		return
	}

	for _, msg := range msgs {
		go h.onMessage(msg)
	}
}

// ExtractMessages reduces the nested event envelope to the user messages
// it carries. Any level may be absent; messages without a sender or
// extractable text are skipped.
func ExtractMessages(payload WebhookPayload) []IncomingMessage {
	var out []IncomingMessage
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			var contact Contact
			if len(change.Value.Contacts) > 0 {
				contact = change.Value.Contacts[0]
			}
			for _, msg := range change.Value.Messages {
				in, ok := extractOne(msg, contact)
				if !ok {
					log.Printf("webhook: message %s from %s has unsupported type %q", msg.ID, msg.From, msg.Type)
					continue
				}
				out = append(out, in)
			}
		}
	}
	return out
}

func extractOne(msg Message, contact Contact) (IncomingMessage, bool) {
	in := IncomingMessage{
		From:        msg.From,
		ID:          msg.ID,
		ProfileName: contact.Profile.Name,
		ContactWaID: contact.WaID,
	}

	switch msg.Type {
	case "text":
		if msg.Text == nil {
			return IncomingMessage{}, false
		}
		in.Kind = KindText
		in.Text = msg.Text.Body
	case "button":
		// quick-reply press: the payload is the button's machine token
		if msg.Button == nil {
			return IncomingMessage{}, false
		}
		in.Kind = KindButton
		in.Text = msg.Button.Payload
	case "interactive":
		if msg.Interactive == nil || msg.Interactive.ButtonReply == nil {
			return IncomingMessage{}, false
		}
		in.Kind = KindInteractive
		in.Text = msg.Interactive.ButtonReply.ID
	default:
		return IncomingMessage{}, false
	}

	if in.From == "" || in.Text == "" {
		return IncomingMessage{}, false
	}
	return in, true
}
