package askweb

// SettingsVersion is the current version of the Settings record.
const SettingsVersion = 1

// Theme is the page color scheme.
type Theme string

// Theme constants.
const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// SearchPreferences controls what kind of content a user wants in answers.
type SearchPreferences struct {
	UseWeb          bool `json:"useWeb"`
	IncludeNews     bool `json:"includeNews"`
	IncludeAcademic bool `json:"includeAcademic"`
}

// DisplayPreferences controls how results are laid out.
type DisplayPreferences struct {
	ShowSourcesInline bool `json:"showSourcesInline"`
	CompactResults    bool `json:"compactResults"`
}

// Settings holds a user's preferences. It is stored and echoed back as-is.
type Settings struct {
	Version            int                `json:"version"`
	Theme              Theme              `json:"theme"`
	SearchPreferences  SearchPreferences  `json:"searchPreferences"`
	DisplayPreferences DisplayPreferences `json:"displayPreferences"`
}

// DefaultSettings returns the baseline used when a user has saved nothing.
func DefaultSettings() Settings {
	return Settings{
		Version: SettingsVersion,
		Theme:   ThemeLight,
		SearchPreferences: SearchPreferences{
			UseWeb:      true,
			IncludeNews: true,
		},
	}
}

// Validate returns an error if the settings contain invalid fields.
func (s *Settings) Validate() error {
	if s.Version < 0 || s.Version > SettingsVersion {
		return Errorf(EINVALID, "unsupported settings version %d", s.Version)
	}
	switch s.Theme {
	case ThemeLight, ThemeDark, ThemeSystem:
	default:
		return Errorf(EINVALID, "unknown theme %q", s.Theme)
	}
	return nil
}
