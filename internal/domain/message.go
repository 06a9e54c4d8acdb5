package domain

import (
	"errors"
	"strings"
)

// Role identifica a quien habla, no a quien lee.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Codigos de idioma usados en la consulta.
const (
	LangEnglish = "en"
	LangSpanish = "es"
)

// AudioPlaceholder reemplaza el texto original cuando el mensaje fue grabado.
const AudioPlaceholder = "[Audio Message]"

var ErrInvalidRole = errors.New("invalid role")

// ParseRole normaliza y valida un rol recibido como texto.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleDoctor:
		return RoleDoctor, nil
	case RolePatient:
		return RolePatient, nil
	default:
		return "", ErrInvalidRole
	}
}

// Languages devuelve (origen, destino) fijos por rol: el doctor habla ingles
// y se traduce al espanol; el paciente al reves.
func (r Role) Languages() (source, target string) {
	if r == RoleDoctor {
		return LangEnglish, LangSpanish
	}
	return LangSpanish, LangEnglish
}

// Message es un turno de la conversacion con su traduccion.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	Role           Role   `json:"role"`
	OriginalText   string `json:"originalText"`
	TranslatedText string `json:"translatedText"`
	OriginalLang   string `json:"originalLang"`
	TargetLang     string `json:"targetLang"`
	AudioData      string `json:"audioData,omitempty"`
	CreatedAt      int64  `json:"createdAt"`
}

// NewMessage son los campos que aporta quien agrega un mensaje; el store
// genera id, conversationId y createdAt.
type NewMessage struct {
	Role           Role
	OriginalText   string
	TranslatedText string
	OriginalLang   string
	TargetLang     string
	AudioData      string
}
