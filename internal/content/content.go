// Package content holds the read-only catalogue of lessons and avatars served by the API.
package content

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed data/*.json
var dataFS embed.FS

// Question is a multiple-choice quiz item
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  int      `json:"correct"`
}

// Story is a short financial-literacy lesson with a quiz
type Story struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	Questions   []Question `json:"questions"`
	RewardXP    int        `json:"reward_xp"`
	Category    string     `json:"category"`
}

// Grade counts the answers that match the correct option.
// Missing answers count as wrong; extra answers are ignored.
func (s *Story) Grade(answers []int) int {
	score := 0
	for i, q := range s.Questions {
		if i < len(answers) && answers[i] == q.Correct {
			score++
		}
	}
	return score
}

// Avatar is a selectable kid profile picture
type Avatar struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Catalog is the immutable set of stories and avatars
type Catalog struct {
	stories   []Story
	storyByID map[string]*Story
	avatars   []Avatar
	avatarIDs map[string]bool
}

// Load parses the embedded catalogue
func Load() (*Catalog, error) {
	var stories []Story
	if err := readJSON("data/stories.json", &stories); err != nil {
		return nil, err
	}
	var avatars []Avatar
	if err := readJSON("data/avatars.json", &avatars); err != nil {
		return nil, err
	}
	return New(stories, avatars)
}

// MustLoad is Load that panics, for use in main and tests
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a catalogue from explicit data
func New(stories []Story, avatars []Avatar) (*Catalog, error) {
	c := &Catalog{
		stories:   stories,
		storyByID: make(map[string]*Story, len(stories)),
		avatars:   avatars,
		avatarIDs: make(map[string]bool, len(avatars)),
	}
	for i := range c.stories {
		s := &c.stories[i]
		if _, dup := c.storyByID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate story id %q", s.ID)
		}
		for j, q := range s.Questions {
			if q.Correct < 0 || q.Correct >= len(q.Options) {
				return nil, fmt.Errorf("story %s question %d: correct option out of range", s.ID, j)
			}
		}
		c.storyByID[s.ID] = s
	}
	for _, a := range c.avatars {
		c.avatarIDs[a.ID] = true
	}
	return c, nil
}

func readJSON(name string, v interface{}) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// Stories returns every story in display order
func (c *Catalog) Stories() []Story {
	return c.stories
}

// Story returns the story with the given id, or nil
func (c *Catalog) Story(id string) *Story {
	return c.storyByID[id]
}

// StoryCount is the number of stories available
func (c *Catalog) StoryCount() int {
	return len(c.stories)
}

// Avatars returns every selectable avatar
func (c *Catalog) Avatars() []Avatar {
	return c.avatars
}

// HasAvatar reports whether id names a known avatar
func (c *Catalog) HasAvatar(id string) bool {
	return c.avatarIDs[id]
}
