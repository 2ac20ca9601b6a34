// Package domain contains the core domain types for the Wolfram Alpha skill.
package domain

// ResponseVersion is the envelope version the voice platform expects.
const ResponseVersion = "1.0"

// QuerySlot is the slot carrying the user's spoken question.
const QuerySlot = "response"

// RequestType is the closed set of request types the skill dispatches on.
type RequestType int

const (
	RequestTypeUnknown RequestType = iota
	RequestTypeLaunch
	RequestTypeIntent
	RequestTypeSessionEnded
)

var requestTypeNames = map[string]RequestType{
	"LaunchRequest":       RequestTypeLaunch,
	"IntentRequest":       RequestTypeIntent,
	"SessionEndedRequest": RequestTypeSessionEnded,
}

// ParseRequestType maps a wire request type to its enum value.
// Anything not recognised is RequestTypeUnknown.
func ParseRequestType(s string) RequestType {
	return requestTypeNames[s]
}

func (t RequestType) String() string {
	switch t {
	case RequestTypeLaunch:
		return "LaunchRequest"
	case RequestTypeIntent:
		return "IntentRequest"
	case RequestTypeSessionEnded:
		return "SessionEndedRequest"
	default:
		return "Unknown"
	}
}

// IntentName is the closed set of intents the skill understands.
type IntentName int

const (
	IntentUnknown IntentName = iota
	IntentQuery
)

// ParseIntentName maps a wire intent name to its enum value.
func ParseIntentName(s string) IntentName {
	if s == "wa_query" {
		return IntentQuery
	}
	return IntentUnknown
}

// Event is the inbound voice platform event.
type Event struct {
	Version string  `json:"version"`
	Session Session `json:"session"`
	Request Request `json:"request"`
}

// Session describes the conversation the request belongs to.
type Session struct {
	New         bool           `json:"new"`
	SessionID   string         `json:"sessionId"`
	Application Application    `json:"application"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	User        User           `json:"user"`
}

// Application identifies the skill the platform believes it is calling.
type Application struct {
	ApplicationID string `json:"applicationId"`
}

// User is the platform account that issued the request.
type User struct {
	UserID string `json:"userId"`
}

// Request is the typed body of an event.
type Request struct {
	Type      string  `json:"type"`
	RequestID string  `json:"requestId"`
	Timestamp string  `json:"timestamp,omitempty"`
	Locale    string  `json:"locale,omitempty"`
	Reason    string  `json:"reason,omitempty"`
	Intent    *Intent `json:"intent,omitempty"`
}

// Intent is the user's recognised intention plus its captured slots.
type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

// Slot is a named parameter captured from the utterance.
type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// SlotValue returns the value of the named slot, or "" if it is absent.
func (i *Intent) SlotValue(name string) string {
	if i == nil {
		return ""
	}
	return i.Slots[name].Value
}

// Response is the envelope returned to the voice platform.
type Response struct {
	Version           string         `json:"version"`
	SessionAttributes map[string]any `json:"sessionAttributes"`
	Response          SpeechletBody  `json:"response"`
}

// SpeechletBody combines spoken text, a visual card and reprompt text.
type SpeechletBody struct {
	OutputSpeech     OutputSpeech `json:"outputSpeech"`
	Card             Card         `json:"card"`
	Reprompt         Reprompt     `json:"reprompt"`
	ShouldEndSession bool         `json:"shouldEndSession"`
}

// OutputSpeech is plain text to be spoken.
type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Card is the simple visual card shown in the companion app.
type Card struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Reprompt is spoken when the user does not answer.
type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

// NewResponse builds a speechlet envelope. Session attributes are always an
// empty, non-nil map so they serialize as {}.
func NewResponse(title, speech, reprompt string, shouldEndSession bool) *Response {
	return &Response{
		Version:           ResponseVersion,
		SessionAttributes: map[string]any{},
		Response: SpeechletBody{
			OutputSpeech: OutputSpeech{Type: "PlainText", Text: speech},
			Card:         Card{Type: "Simple", Title: title, Content: speech},
			Reprompt: Reprompt{
				OutputSpeech: OutputSpeech{Type: "PlainText", Text: reprompt},
			},
			ShouldEndSession: shouldEndSession,
		},
	}
}
