package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avocadocenter/avobot/internal/ai"
	"github.com/avocadocenter/avobot/internal/session"
	"github.com/avocadocenter/avobot/internal/store"
	"github.com/avocadocenter/avobot/internal/whatsapp"
)

// Messenger is the outbound surface the router needs. Satisfied by
// *whatsapp.Client.
type Messenger interface {
	SendText(to, body string) error
	SendInteractiveButtons(to, body string, buttons []whatsapp.Button) error
	MarkRead(messageID string) error
}

// Responder answers free-text questions. Satisfied by *ai.Responder.
type Responder interface {
	Answer(ctx context.Context, text string) (ai.Reply, error)
}

// Handler is the per-sender conversation state machine. Routing precedence
// is declared once in the ordered route table: menu options beat greetings,
// greetings beat active flows, active flows beat the AI-assist flag, and
// everything else falls through to the AI responder.
type Handler struct {
	wa       Messenger
	store    store.Store
	ai       Responder
	sessions *session.Manager
	routes   []route
}

type route struct {
	match func(*call) bool
	run   func(*call)
}

// call is one inbound message plus the sender's loaded state. text keeps
// the user's wording for flow fields; norm is the lowercased, trimmed form
// used for matching.
type call struct {
	ctx    context.Context
	sender string
	text   string
	norm   string
	name   string
	waID   string
	state  store.State
}

func NewHandler(wa Messenger, s store.Store, responder Responder, sessions *session.Manager) *Handler {
	h := &Handler{wa: wa, store: s, ai: responder, sessions: sessions}
	h.routes = []route{
		{match: func(c *call) bool { return strings.HasPrefix(c.norm, optionPrefix) }, run: h.handleMenuOption},
		{match: func(c *call) bool { return isGreeting(c.norm) }, run: h.handleGreeting},
		{match: func(c *call) bool { return c.state.Flow != nil }, run: h.handleLoginFlow},
		{match: func(c *call) bool { return c.state.AIAssist }, run: h.handleAIQuery},
		{match: func(c *call) bool { return true }, run: h.handleAIQuery},
	}
	return h
}

// HandleMessage routes one inbound message. Concurrent deliveries for the
// same sender are serialized through the session manager so state
// mutations cannot race.
func (h *Handler) HandleMessage(msg whatsapp.IncomingMessage) {
	h.sessions.WithLock(msg.From, func() {
		h.process(msg)
	})
}

func (h *Handler) process(msg whatsapp.IncomingMessage) {
	if msg.ID != "" {
		if err := h.wa.MarkRead(msg.ID); err != nil {
			log.Printf("bot: failed to mark %s as read: %v", msg.ID, err)
		}
	}

	st, err := h.store.GetState(msg.From)
	if err != nil {
		log.Printf("bot: store error for %s: %v", msg.From, err)
		return
	}

	c := &call{
		ctx:    context.Background(),
		sender: msg.From,
		text:   strings.TrimSpace(msg.Text),
		norm:   strings.ToLower(strings.TrimSpace(msg.Text)),
		name:   msg.ProfileName,
		waID:   msg.ContactWaID,
	}
	if st != nil {
		c.state = *st
	}

	for _, r := range h.routes {
		if r.match(c) {
			r.run(c)
			return
		}
	}
}

// --- menu options ---

func (h *Handler) handleMenuOption(c *call) {
	switch c.norm {
	case "option_0", "option_4_back":
		// escape hatch from any submenu or flow
		c.state = store.State{}
		h.saveState(c)
		h.sendMainMenu(c.sender)

	case "option_1":
		c.state = store.State{Flow: &store.LoginFlow{Kind: store.FlowLogin, Step: store.StepWaitingForCredential}}
		h.saveState(c)
		h.sendText(c.sender, loginCredentialPrompt)

	case "option_2":
		c.state = store.State{Flow: &store.LoginFlow{Kind: store.FlowRegister, Step: store.StepWaitingForName}}
		h.saveState(c)
		h.sendText(c.sender, registerNamePrompt)

	case "option_3":
		h.sendInfoMenu(c.sender)

	case "option_a_c":
		h.sendLink(c.sender, servicesURL, servicesCaption)

	case "option_b":
		h.sendLink(c.sender, pricingURL, pricingCaption)

	case "option_5":
		c.state = store.State{AIAssist: true}
		h.saveState(c)
		h.sendText(c.sender, nextQuestionPrompt)

	case "option_6":
		c.state.AIAssist = false
		h.saveState(c)
		h.sendText(c.sender, emergencyAck)

	default:
		h.sendText(c.sender, unknownOptionMsg)
		h.sendMainMenu(c.sender)
	}
}

// --- greeting ---

func (h *Handler) handleGreeting(c *call) {
	h.sendText(c.sender, fmt.Sprintf(welcomeFmt, h.firstName(c)))
	h.sendMainMenu(c.sender)
}

// firstName resolves a short display name: profile name, then the contact
// wa_id, then a generic label; only the first word is used.
func (h *Handler) firstName(c *call) string {
	name := c.name
	if name == "" {
		name = c.waID
	}
	if name == "" {
		name = defaultSenderName
	}
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return defaultSenderName
}

// --- login / registration sequencer ---

func (h *Handler) handleLoginFlow(c *call) {
	flow := c.state.Flow
	var response string

	switch {
	case flow.Kind == store.FlowLogin && flow.Step == store.StepWaitingForCredential:
		// no credential validation: any input completes the login
		c.state.Flow = nil
		response = loginSuccessMsg

	case flow.Kind == store.FlowRegister && flow.Step == store.StepWaitingForName:
		flow.Name = c.text
		flow.Step = store.StepWaitingForEmail
		response = registerEmailPrompt

	case flow.Kind == store.FlowRegister && flow.Step == store.StepWaitingForEmail:
		flow.Email = c.text
		flow.Step = store.StepWaitingForID
		response = registerIDPrompt

	case flow.Kind == store.FlowRegister && flow.Step == store.StepWaitingForID:
		flow.ID = c.text
		name := flow.Name
		c.state.Flow = nil
		response = fmt.Sprintf(registerDoneFmt, name)

	default:
		// unknown kind/step combination, likely stale persisted state
		log.Printf("bot: dropping unknown flow state %s/%s for %s", flow.Kind, flow.Step, c.sender)
		c.state.Flow = nil
		h.saveState(c)
		h.sendMainMenu(c.sender)
		return
	}

	h.saveState(c)
	h.sendText(c.sender, response)

	if c.state.Flow == nil {
		h.sendFollowUpMenu(c.sender)
	}
}

// --- AI assist ---

func (h *Handler) handleAIQuery(c *call) {
	reply, err := h.ai.Answer(c.ctx, c.text)
	if err != nil {
		log.Printf("bot: ai answer for %s: %v", c.sender, err)
		h.sendText(c.sender, aiUnavailableMsg)
		return
	}

	h.logInteraction(c.sender, c.text, reply)
	h.sendText(c.sender, reply.Text)
	h.sendFollowUpMenu(c.sender)
}

func (h *Handler) logInteraction(sender, prompt string, reply ai.Reply) {
	err := h.store.LogInteraction(store.InteractionRecord{
		ID:        uuid.NewString(),
		Sender:    sender,
		Model:     reply.Model,
		Prompt:    prompt,
		Response:  reply.Text,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("bot: failed to log ai interaction for %s: %v", sender, err)
	}
}

// --- state and send helpers ---

func (h *Handler) saveState(c *call) {
	var err error
	if c.state.Empty() {
		err = h.store.DeleteState(c.sender)
	} else {
		err = h.store.PutState(c.sender, c.state)
	}
	if err != nil {
		log.Printf("bot: failed to save state for %s: %v", c.sender, err)
	}
}

// sendText and sendButtons absorb transport errors: a failed outbound send
// is logged and the conversation moves on.
func (h *Handler) sendText(to, body string) {
	if err := h.wa.SendText(to, body); err != nil {
		log.Printf("bot: failed to send text to %s: %v", to, err)
	}
}

func (h *Handler) sendButtons(to, body string, buttons []whatsapp.Button) {
	if err := h.wa.SendInteractiveButtons(to, body, buttons); err != nil {
		log.Printf("bot: failed to send buttons to %s: %v", to, err)
	}
}
