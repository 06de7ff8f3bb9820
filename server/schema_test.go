package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadValidator(t *testing.T) {
	v, err := NewPayloadValidator()
	require.NoError(t, err)

	valid := map[string]string{
		CmdChatMessage:         `"hello"`,
		CmdSetUsername:         `"alice"`,
		CmdPlayerMove:          `{"x": 10, "y": 20.5}`,
		CmdPurchaseSkin:        `{"skinName": "polarBear", "price": 10}`,
		CmdSelectSkin:          `{"skinName": "polarBear"}`,
		CmdPurchaseTheme:       `{"themeId": "aurora"}`,
		CmdSelectTheme:         `{"themeId": "aurora"}`,
		CmdUpdateMapDimensions: `{"width": 2000, "height": 1500}`,
	}
	for cmd, data := range valid {
		assert.NoError(t, v.Validate(cmd, json.RawMessage(data)), cmd)
	}
	assert.NoError(t, v.Validate(CmdPlayerMove, json.RawMessage(`{"x": 1, "y": 2, "direction": "left"}`)))

	invalid := map[string]string{
		CmdChatMessage:         `42`,
		CmdSetUsername:         `{"name": "alice"}`,
		CmdPlayerMove:          `{"x": "10", "y": 20}`,
		CmdPurchaseSkin:        `{"price": 10}`,
		CmdSelectSkin:          `{"skinName": ""}`,
		CmdPurchaseTheme:       `{"themeId": "aurora", "price": "free"}`,
		CmdSelectTheme:         `{}`,
		CmdUpdateMapDimensions: `{"width": 2000}`,
	}
	for cmd, data := range invalid {
		assert.ErrorIs(t, v.Validate(cmd, json.RawMessage(data)), ErrInvalidPayload, cmd)
	}
	assert.ErrorIs(t, v.Validate(CmdPlayerMove, json.RawMessage(`{"x": 1, "y": 2, "direction": "north"}`)), ErrInvalidPayload)
	assert.ErrorIs(t, v.Validate(CmdChatMessage, nil), ErrInvalidPayload)
	assert.ErrorIs(t, v.Validate("teleport", json.RawMessage(`{}`)), ErrUnknownEvent)
}

func TestPayloadValidator_CoversEveryCommand(t *testing.T) {
	v, err := NewPayloadValidator()
	require.NoError(t, err)
	for cmd := range handlers {
		assert.Contains(t, v.schemas, cmd)
	}
}
