package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, c.StoryCount())
	assert.Len(t, c.Avatars(), 8)
	assert.True(t, c.HasAvatar("panda"))
	assert.False(t, c.HasAvatar("dragon"))

	story := c.Story("story-1")
	require.NotNil(t, story)
	assert.Equal(t, "What is Money?", story.Title)
	assert.Equal(t, 25, story.RewardXP)
	assert.Len(t, story.Questions, 3)

	assert.Nil(t, c.Story("story-99"))
}

func TestStoryGrade(t *testing.T) {
	story := MustLoad().Story("story-1")
	require.NotNil(t, story)

	tests := []struct {
		name    string
		answers []int
		want    int
	}{
		{"all correct", []int{0, 1, 1}, 3},
		{"one wrong", []int{0, 1, 2}, 2},
		{"none", nil, 0},
		{"short answer list", []int{0}, 1},
		{"extra answers ignored", []int{0, 1, 1, 3, 3}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, story.Grade(tt.answers))
		})
	}
}

func TestNewRejectsBadData(t *testing.T) {
	_, err := New([]Story{{ID: "a"}, {ID: "a"}}, nil)
	assert.Error(t, err)

	_, err = New([]Story{{ID: "b", Questions: []Question{{Options: []string{"x"}, Correct: 2}}}}, nil)
	assert.Error(t, err)
}
