package push

// IOSOverrides replaces individual fields of the native iOS notification
// arguments. Empty strings and nil pointers leave the derived value untouched.
type IOSOverrides struct {
	Title              string         `json:"title,omitempty"`
	Subtitle           string         `json:"subtitle,omitempty"`
	Body               string         `json:"body,omitempty"`
	Badge              *int           `json:"badge,omitempty"`
	Sound              string         `json:"sound,omitempty"`
	CategoryIdentifier string         `json:"categoryIdentifier,omitempty"`
	ThreadIdentifier   string         `json:"threadIdentifier,omitempty"`
	UserInfo           map[string]any `json:"userInfo,omitempty"`
}

// AndroidAction is an action button attached to an Android notification.
type AndroidAction struct {
	ID                    string `json:"id"`
	Title                 string `json:"title,omitempty"`
	HTML                  string `json:"html,omitempty"`
	Icon                  string `json:"icon,omitempty"`
	SemanticAction        *int   `json:"semanticAction,omitempty"`
	AllowGeneratedReplies *bool  `json:"allowGeneratedReplies,omitempty"`
	ShowsUserInterface    *bool  `json:"showsUserInterface,omitempty"`
	Background            *bool  `json:"background,omitempty"`
}

// AndroidLights configures the notification LED.
type AndroidLights struct {
	Color int `json:"color"`
	On    int `json:"on"`
	Off   int `json:"off"`
}

// AndroidOverrides replaces individual fields of the native Android
// notification arguments.
type AndroidOverrides struct {
	ChannelID    string          `json:"channelID,omitempty"`
	Title        string          `json:"title,omitempty"`
	Body         string          `json:"body,omitempty"`
	Vibrate      []int           `json:"vibrate,omitempty"`
	Priority     *int            `json:"priority,omitempty"`
	Category     string          `json:"category,omitempty"`
	Number       *int            `json:"number,omitempty"`
	Colorized    *bool           `json:"colorized,omitempty"`
	Visibility   *int            `json:"visibility,omitempty"`
	Ticker       string          `json:"ticker,omitempty"`
	Subtext      string          `json:"subtext,omitempty"`
	Ongoing      *bool           `json:"ongoing,omitempty"`
	Lights       *AndroidLights  `json:"lights,omitempty"`
	Sound        string          `json:"sound,omitempty"`
	GroupKey     string          `json:"groupKey,omitempty"`
	SmallIcon    string          `json:"smallIcon,omitempty"`
	AutoCancel   *bool           `json:"autoCancel,omitempty"`
	FullScreen   *bool           `json:"fullScreen,omitempty"`
	TurnScreenOn *bool           `json:"turnScreenOn,omitempty"`
	Actions      []AndroidAction `json:"actions,omitempty"`
	Data         map[string]any  `json:"data,omitempty"`
}
