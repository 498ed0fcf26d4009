package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wandergenie/internal/types"
)

func TestFakeClient_ItineraryFollowsDuration(t *testing.T) {
	f := NewFakeClient()
	raw, err := f.GenerateJSON(context.Background(), Call{
		Phase:  "itinerary",
		Prompt: "[INPUT]\n{\n  \"destination\": \"Japan\",\n  \"duration\": 4\n}",
	})
	require.NoError(t, err)

	var resp types.ItineraryResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	assert.Len(t, resp.Itinerary, 4)
	assert.Equal(t, "Day 4", resp.Itinerary[3].Day)
	assert.Contains(t, resp.Itinerary[0].Morning, "Japan")
}

func TestFakeClient_Script(t *testing.T) {
	boom := errors.New("quota")
	f := NewFakeClient().
		Script("chat", FakeReply{Raw: json.RawMessage(`{"response":"scripted"}`)}).
		Script(PhaseSpeech, FakeReply{Err: boom})

	raw, err := f.GenerateJSON(WithPhase(context.Background(), "chat"), Call{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"response":"scripted"}`, string(raw))

	_, err = f.GenerateSpeech(context.Background(), "x")
	require.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"chat", PhaseSpeech}, f.Calls())
}

func TestFakeClient_SpeechIsPCM(t *testing.T) {
	m, err := NewFakeClient().GenerateSpeech(context.Background(), "hola")
	require.NoError(t, err)
	assert.Equal(t, 4800, len(m.Data))
	assert.Contains(t, m.MIMEType, "rate=24000")
}

func TestFakeClient_Translation(t *testing.T) {
	raw, err := NewFakeClient().GenerateJSON(context.Background(), Call{
		Phase:  "translation",
		Prompt: `{"text": "Good & cheap", "targetLanguage": "French"}`,
	})
	require.NoError(t, err)
	var out types.TranslatedText
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "[French] Good & cheap", out.TranslatedText)
}
