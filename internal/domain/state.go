package domain

// Phase is a state of the generate action
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseValidatingInputs Phase = "validating_inputs"
	PhaseUploading        Phase = "uploading"
	PhaseGenerating       Phase = "generating"
	PhaseDisplaying       Phase = "displaying"
)

// NoticeLevel classifies a user-facing notice
type NoticeLevel string

const (
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a message shown to the user after a generate action is blocked or fails
type Notice struct {
	Level   NoticeLevel `json:"level" yaml:"level"`
	Message string      `json:"message" yaml:"message"`
}

const (
	// MsgMissingInputs is shown when the action is blocked by validation
	MsgMissingInputs = "Please provide all inputs"

	// MsgGenerationFailed is shown for every network or server failure
	MsgGenerationFailed = "Failed to generate the image. Please check the logs for details."
)

// SessionState holds the inputs and the displayed result of one session
type SessionState struct {
	Image       *ImageSelection `json:"image,omitempty" yaml:"image,omitempty"`
	Prompt      string          `json:"prompt" yaml:"prompt"`
	Preset      Preset          `json:"preset" yaml:"preset"`
	Result      *ResultHandle   `json:"result,omitempty" yaml:"result,omitempty"`
	Phase       Phase           `json:"phase" yaml:"phase"`
	Notice      *Notice         `json:"notice,omitempty" yaml:"notice,omitempty"`
	LatestToken uint64          `json:"latest_token" yaml:"latest_token"`
}

// NewSessionState returns the state of a freshly opened session
func NewSessionState() SessionState {
	return SessionState{
		Preset: DefaultPreset,
		Phase:  PhaseIdle,
	}
}

// Request returns the generation request built from the current inputs
func (s SessionState) Request() GenerateRequest {
	return GenerateRequest{
		Prompt: s.Prompt,
		Preset: s.Preset,
		Image:  s.Image,
	}
}

// Validate checks that prompt, preset and image are all present
func (r GenerateRequest) Validate() error {
	var missing []string
	if r.Prompt == "" {
		missing = append(missing, "prompt")
	}
	if r.Preset == "" {
		missing = append(missing, "preset")
	}
	if r.Image == nil {
		missing = append(missing, "image")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
