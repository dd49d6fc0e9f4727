package bot

import "github.com/avocadocenter/avobot/internal/whatsapp"

const optionPrefix = "option_"

const (
	welcomeFmt        = "Hola %s\n¡Bienvenido a AVOCADO, tu solución legal de bolsillo!\n \nPara atender tu consulta y proteger tu información, debes iniciar sesión.\n \nPara continuar, por favor selecciona una opción:"
	defaultSenderName = "Nuevo usuario"

	loginCredentialPrompt = "Por favor, ingresa tu *Nº de identificación* o *Dirección E-mail* para iniciar sesión."
	loginSuccessMsg       = "¡Bienvenido de nuevo! Hemos verificado tus datos. ¿En qué te puedo ayudar hoy?"
	registerNamePrompt    = "¡Excelente! Empecemos tu registro. Por favor, ¿Cuál es tu nombre completo?"
	registerEmailPrompt   = "Gracias, ahora, ¿Cuál es tu *correo electrónico*?"
	registerIDPrompt      = "Por último, ingresa tu *Nº de identificación* para completar el registro."
	registerDoneFmt       = "¡Gracias por registrarte, %s! Hemos creado tu cuenta. ¿En qué te puedo ayudar hoy?"

	nextQuestionPrompt = "¿Cuál es tu próxima pregunta?"
	emergencyAck       = "Hemos notificado al equipo de emergencia. En breve un profesional te contactará."
	unknownOptionMsg   = "Opción no reconocida. Volviendo al menú principal."
	aiUnavailableMsg   = "Lo sentimos, nuestro asistente no está disponible en este momento. Por favor, intenta de nuevo más tarde."

	servicesURL     = "https://avocado.center/services/"
	servicesCaption = "Aquí puedes ver información general y sobre nuestro impacto LegalTech:"
	pricingURL      = "https://ambitious-bongo-b6d.notion.site/Catalogo-de-servicios-de-AVOCADO-center-1d5299b51c848177893afb21fb25e58a"
	pricingCaption  = "Consulta el detalle de Planes y Tarifas aquí:"
)

// greetings is the closed set of phrases that trigger the welcome flow.
// Matching is exact on the lowercased, trimmed message.
var greetings = map[string]struct{}{
	"hola":                   {},
	"hello":                  {},
	"hi":                     {},
	"buenas tardes":          {},
	"buenos días":            {},
	"buenas noches":          {},
	"qué onda":               {},
	"qué tal":                {},
	"qué haces":              {},
	"¿cómo va?":              {},
	"¿qué me cuentas?":       {},
	"hey":                    {},
	"saludos":                {},
	"hola, ¿todo bien?":      {},
	"holi":                   {},
	"¿cómo andas?":           {},
	"¿qué hay de nuevo?":     {},
	"¡qué gusto saludarte!":  {},
	"te escribo para":        {},
}

func isGreeting(norm string) bool {
	_, ok := greetings[norm]
	return ok
}

func replyButton(id, title string) whatsapp.Button {
	return whatsapp.Button{Type: "reply", Reply: whatsapp.ButtonReply{ID: id, Title: title}}
}

func (h *Handler) sendMainMenu(to string) {
	h.sendButtons(to, "¿Ya tienes cuenta AVOCADO?", []whatsapp.Button{
		replyButton("option_1", "Iniciar sesión"),
		replyButton("option_2", "No tengo cuenta"),
		replyButton("option_3", "Quiero información"),
	})
}

func (h *Handler) sendInfoMenu(to string) {
	h.sendButtons(to, "¿Qué deseas saber sobre nuestros servicios LegalTech?", []whatsapp.Button{
		replyButton("option_a_c", "A. Info General"),
		replyButton("option_b", "B. Planes y Tarifas"),
		replyButton("option_0", "⬅️ Menú Principal"),
	})
}

// sendFollowUpMenu is offered after every AI answer and whenever a
// login/registration flow completes.
func (h *Handler) sendFollowUpMenu(to string) {
	h.sendButtons(to, "¿La respuesta fue de tu ayuda?", []whatsapp.Button{
		replyButton("option_4_back", "Si, Gracias (Finalizar)"),
		replyButton("option_5", "Hacer otra consulta"),
		replyButton("option_0", "⬅️ Menú Principal"),
	})
}

// sendLink puts the bare URL on its own line so the platform renders a
// link preview, then offers the follow-up menu.
func (h *Handler) sendLink(to, url, caption string) {
	h.sendText(to, caption+"\n\n"+url)
	h.sendFollowUpMenu(to)
}
