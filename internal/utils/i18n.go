package utils

// Minimal server-side i18n for fixed keys.
// Assessment labels stay in English; only envelope strings are translated.

// SupportedLocales are the locales T has strings for.
var SupportedLocales = []string{"en", "es"}

var translations = map[string]map[string]string{
	"en": {
		"health.ok":               "ok",
		"error.invalid":           "The request could not be processed.",
		"error.unauthorized":      "Please sign in.",
		"error.payment_required":  "This feature requires a premium subscription.",
		"error.forbidden":         "You do not have access to this nation.",
		"error.not_found":         "Not found.",
		"error.conflict":          "Already exists.",
		"error.too_many_requests": "Too many requests, slow down.",
		"error.internal":          "Something went wrong.",
	},
	"es": {
		"health.ok":               "bien",
		"error.invalid":           "No se pudo procesar la solicitud.",
		"error.unauthorized":      "Inicia sesión.",
		"error.payment_required":  "Esta función requiere una suscripción premium.",
		"error.forbidden":         "No tienes acceso a esta nación.",
		"error.not_found":         "No encontrado.",
		"error.conflict":          "Ya existe.",
		"error.too_many_requests": "Demasiadas solicitudes.",
		"error.internal":          "Algo salió mal.",
	},
}

// T returns the translated string for key in locale; falls back to English.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := translations["en"]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}
