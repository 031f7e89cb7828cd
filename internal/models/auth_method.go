package models

import (
	"fmt"
	"strings"
)

// AuthMethod is the authentication scheme the generated integration targets.
type AuthMethod string

const (
	AuthOAuth2      AuthMethod = "OAuth2"
	AuthAPIKey      AuthMethod = "APIKey"
	AuthBearerToken AuthMethod = "BearerToken"
	AuthAutoDetect  AuthMethod = "AutoDetect"
)

// DefaultAuthMethod is preselected on a new session.
const DefaultAuthMethod = AuthOAuth2

var authLabels = map[AuthMethod]string{
	AuthOAuth2:      "OAuth 2.0",
	AuthAPIKey:      "API Key",
	AuthBearerToken: "Bearer Token",
	AuthAutoDetect:  "Auto-detect",
}

// AuthMethods lists the supported methods in display order.
func AuthMethods() []AuthMethod {
	return []AuthMethod{AuthOAuth2, AuthAPIKey, AuthBearerToken, AuthAutoDetect}
}

// Label is the human readable name used in prompts and reports.
func (a AuthMethod) Label() string {
	if l, ok := authLabels[a]; ok {
		return l
	}
	return string(a)
}

func (a AuthMethod) Valid() bool {
	_, ok := authLabels[a]
	return ok
}

// ParseAuthMethod accepts either the identifier ("OAuth2") or the label
// ("OAuth 2.0"), case-insensitively.
func ParseAuthMethod(raw string) (AuthMethod, error) {
	v := strings.TrimSpace(raw)
	for _, m := range AuthMethods() {
		if strings.EqualFold(v, string(m)) || strings.EqualFold(v, m.Label()) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported auth method %q", raw)
}

// Language is the target language for generated code.
type Language string

const (
	LanguagePython Language = "Python"
	LanguageNode   Language = "Node.js"
	LanguageGo     Language = "Go"
)

// DefaultLanguage is the only language with a complete generation path.
const DefaultLanguage = LanguagePython

// Implemented reports whether any generation path produces this language.
func (l Language) Implemented() bool {
	return l == LanguagePython
}

// Languages lists the selectable target languages.
func Languages() []Language {
	return []Language{LanguagePython, LanguageNode, LanguageGo}
}

// ParseLanguage matches raw case-insensitively against Languages.
func ParseLanguage(raw string) (Language, error) {
	raw = strings.TrimSpace(raw)
	for _, l := range Languages() {
		if strings.EqualFold(raw, string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported language %q", raw)
}
