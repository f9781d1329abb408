package models

// UploadResponse is returned by POST /upload.
type UploadResponse struct {
	Success       bool   `json:"success"`
	Filename      string `json:"filename"`
	ExtractedText string `json:"extracted_text"`
	TextLength    int    `json:"text_length"`
}

// SimplifyRequest is the body of POST /simplify.
type SimplifyRequest struct {
	Text string `json:"text" validate:"required"`
}

// SimplifyResponse is returned by POST /simplify.
type SimplifyResponse struct {
	OriginalText   string `json:"original_text"`
	SimplifiedText string `json:"simplified_text"`
	Success        bool   `json:"success"`
}

// QARequest is the body of POST /ask.
type QARequest struct {
	Question string `json:"question" validate:"required"`
	Context  string `json:"context"`
}

// QAResponse is returned by POST /ask.
type QAResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Success  bool   `json:"success"`
}

// TranslationRequest is the body of POST /translate.
type TranslationRequest struct {
	Text           string `json:"text" validate:"required"`
	TargetLanguage string `json:"target_language" validate:"required"`
}

// TranslationResponse is returned by POST /translate.
type TranslationResponse struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	TargetLanguage string `json:"target_language"`
	Success        bool   `json:"success"`
}

// SpeechRequest is the body of POST /text-to-speech.
type SpeechRequest struct {
	Text string `json:"text" validate:"required"`
}

// SpeechResponse is returned by POST /text-to-speech. AudioData is base64.
type SpeechResponse struct {
	Success     bool   `json:"success"`
	AudioData   string `json:"audio_data"`
	ContentType string `json:"content_type"`
	TextLength  int    `json:"text_length"`
}

// Language describes one supported translation target.
type Language struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
}

// LanguagesResponse is returned by GET /languages.
type LanguagesResponse struct {
	Languages []Language `json:"languages"`
}

// VoiceOption is one voice the speech provider offers.
type VoiceOption struct {
	ID   string `json:"voice_id"`
	Name string `json:"name"`
}

// VoicesResponse is returned by GET /voices.
type VoicesResponse struct {
	Voices []VoiceOption `json:"voices"`
}

// HealthResponse is returned by GET /health. Services maps a component to
// "ready" or "not_configured".
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}
