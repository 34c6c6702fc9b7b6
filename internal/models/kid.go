package models

import "time"

// UI themes a kid can pick
const (
	ThemeBoy     = "boy"
	ThemeGirl    = "girl"
	ThemeNeutral = "neutral"
)

// Kid represents a child profile owned by a parent
type Kid struct {
	ID          string    `json:"id"`
	ParentID    string    `json:"parent_id"`
	Name        string    `json:"name"`
	Age         int       `json:"age"`
	Avatar      string    `json:"avatar"`
	Grade       *string   `json:"grade"`
	UITheme     string    `json:"ui_theme"`
	PIN         string    `json:"pin,omitempty"`
	XP          int       `json:"xp"`
	Level       int       `json:"level"`
	CreditScore int       `json:"credit_score"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WithoutPIN returns a copy safe to hand to the kid themselves
func (k Kid) WithoutPIN() Kid {
	k.PIN = ""
	return k
}

// ValidTheme reports whether theme is one of the supported UI themes
func ValidTheme(theme string) bool {
	switch theme {
	case ThemeBoy, ThemeGirl, ThemeNeutral:
		return true
	}
	return false
}
