package relay

// ControlMessage is a JSON text message from client to server.
type ControlMessage struct {
	Type     string `json:"type"`
	Language string `json:"language,omitempty"`
}

// ResultMessage carries one dubbed translation result to the client.
// AudioData is base64-encoded MP3.
type ResultMessage struct {
	TranslatedText string `json:"translatedText"`
	AudioData      string `json:"audioData"`
}

// SubtitleMessage carries a text-only result when synthesis is
// disabled.
type SubtitleMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Control message types the server accepts.
const (
	ControlSetLanguage = "setLanguage"
)
