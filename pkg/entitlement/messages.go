package entitlement

import (
	"fmt"

	"golang.org/x/text/language"
)

// messageKey selects one of the mutually exclusive rationale cases.
type messageKey string

const (
	msgNoEntitlement messageKey = "no_entitlement"
	msgUnlimited     messageKey = "unlimited"
	msgUnderLimit    messageKey = "under_limit"
	msgAtLimit       messageKey = "at_limit"
	msgBulkDenied    messageKey = "bulk_denied"
)

// Rationale messages are end-user facing: short, non-technical, no
// internal detail. Verb placeholders are positional (remaining, or
// requested/remaining for bulk denial).
var messageCatalog = map[language.Tag]map[messageKey]string{
	language.English: {
		msgNoEntitlement: "This feature is not included in your plan.",
		msgUnlimited:     "Your plan has no limit for this resource.",
		msgUnderLimit:    "You can add %d more.",
		msgAtLimit:       "You have reached your plan limit. Upgrade to add more.",
		msgBulkDenied:    "You requested %d but only %d remain on your plan.",
	},
	language.Spanish: {
		msgNoEntitlement: "Esta función no está incluida en tu plan.",
		msgUnlimited:     "Tu plan no tiene límite para este recurso.",
		msgUnderLimit:    "Puedes añadir %d más.",
		msgAtLimit:       "Has alcanzado el límite de tu plan. Mejora tu plan para añadir más.",
		msgBulkDenied:    "Solicitaste %d pero solo quedan %d en tu plan.",
	},
	language.Turkish: {
		msgNoEntitlement: "Bu özellik planınıza dahil değil.",
		msgUnlimited:     "Planınızda bu kaynak için bir sınır yok.",
		msgUnderLimit:    "%d tane daha ekleyebilirsiniz.",
		msgAtLimit:       "Plan limitinize ulaştınız. Daha fazla eklemek için planınızı yükseltin.",
		msgBulkDenied:    "%d talep ettiniz ancak planınızda yalnızca %d kaldı.",
	},
}

// supportedTags order matters: the first tag is the fallback.
var supportedTags = []language.Tag{
	language.English,
	language.Spanish,
	language.Turkish,
}

var messageMatcher = language.NewMatcher(supportedTags)

// localize renders the rationale for key in the closest supported
// language, falling back to English for unmatched tags.
func localize(lang language.Tag, key messageKey, args ...any) string {
	_, idx, _ := messageMatcher.Match(lang)

	msg, ok := messageCatalog[supportedTags[idx]][key]
	if !ok {
		msg = messageCatalog[language.English][key]
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
