package types

import "strings"

// TranscriptionRequest carries a recording as a self-describing data URI.
type TranscriptionRequest struct {
	AudioDataURI string `json:"audioDataUri" validate:"required,datauri" prompt_desc:"A recording as a data URI that must include a MIME type and use Base64 encoding. Expected format: 'data:<mimetype>;base64,<encoded_data>'."`
}

func (r *TranscriptionRequest) Normalize() {
	r.AudioDataURI = strings.TrimSpace(r.AudioDataURI)
}

type TranscriptionResponse struct {
	Transcription string `json:"transcription" prompt_desc:"The transcribed text from the audio."`
}

type TranslationRequest struct {
	Text           string `json:"text" validate:"required" prompt_desc:"The text to translate."`
	TargetLanguage string `json:"targetLanguage" validate:"required" prompt_desc:"The language to translate the text into (e.g., \"Spanish\", \"Japanese\")."`
}

func (r *TranslationRequest) Normalize() {
	r.Text = strings.TrimSpace(r.Text)
	r.TargetLanguage = strings.TrimSpace(r.TargetLanguage)
}

// TranslatedText is the structured output of the translation step.
type TranslatedText struct {
	TranslatedText string `json:"translatedText" prompt_desc:"The translated text."`
}

type TranslationResponse struct {
	TranslatedText string `json:"translatedText"`
	AudioDataURI   string `json:"audioDataUri"`
}

// Language is a translator target offered to the caller.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// DefaultTargetLanguage is preselected by the translator view.
const DefaultTargetLanguage = "Spanish"

// Languages returns the supported translator targets.
func Languages() []Language {
	return []Language{
		{Code: "en-US", Name: "English"},
		{Code: "es-ES", Name: "Spanish"},
		{Code: "fr-FR", Name: "French"},
		{Code: "de-DE", Name: "German"},
		{Code: "it-IT", Name: "Italian"},
		{Code: "ja-JP", Name: "Japanese"},
		{Code: "ko-KR", Name: "Korean"},
		{Code: "pt-BR", Name: "Portuguese"},
		{Code: "ru-RU", Name: "Russian"},
		{Code: "zh-CN", Name: "Chinese (Mandarin)"},
		{Code: "hi-IN", Name: "Hindi"},
	}
}

// LookupLanguage finds a supported language by name, case-insensitively.
func LookupLanguage(name string) (Language, bool) {
	name = strings.TrimSpace(name)
	for _, l := range Languages() {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Language{}, false
}
