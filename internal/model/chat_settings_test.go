package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingsPatch_ApplyKeepsOmittedFields(t *testing.T) {
	current := DefaultChatSettings()
	current.SelectedModel = "llama3"

	font := "Roboto"
	next := SettingsPatch{SelectedFont: &font}.Apply(current)

	assert.Equal(t, ModeOllama, next.SelectedMode)
	assert.Equal(t, "llama3", next.SelectedModel)
	assert.Equal(t, "Roboto", next.SelectedFont)
	assert.Equal(t, "Inter", current.SelectedFont, "current must not be modified")
}

func TestSettingsPatch_ApplyCanClearModel(t *testing.T) {
	current := DefaultChatSettings()
	current.SelectedModel = "llama3"

	empty := ""
	next := SettingsPatch{SelectedModel: &empty}.Apply(current)
	assert.Equal(t, "", next.SelectedModel)
}

func TestSettingsPatch_EmptyPatchIsIdentity(t *testing.T) {
	current := DefaultChatSettings()
	current.IsConnected = true
	assert.True(t, SettingsPatch{}.IsEmpty())
	assert.Equal(t, current, SettingsPatch{}.Apply(current))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("lmstudio")
	assert.NoError(t, err)
	assert.Equal(t, ModeLMStudio, m)

	_, err = ParseMode("invalid")
	assert.Error(t, err)
}
