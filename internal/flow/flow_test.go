package flow

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wandergenie/internal/audio"
	"wandergenie/internal/llm"
	"wandergenie/internal/schema"
	"wandergenie/internal/types"
)

// capture records the calls reaching the wrapped oracle.
type capture struct {
	llm.Oracle
	calls []llm.Call
}

func (c *capture) GenerateJSON(ctx context.Context, call llm.Call) (json.RawMessage, error) {
	c.calls = append(c.calls, call)
	return c.Oracle.GenerateJSON(ctx, call)
}

type runs struct{ outcomes map[string][]string }

func (r *runs) ObserveFlowRun(flow, outcome string, _ time.Duration) {
	if r.outcomes == nil {
		r.outcomes = map[string][]string{}
	}
	r.outcomes[flow] = append(r.outcomes[flow], outcome)
}

func newRunner(t *testing.T, o llm.Oracle) (*Runner, *logtest.Hook, *runs) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	obs := &runs{}
	return New(o, WithLogger(logger), WithObserver(obs)), hook, obs
}

func japan() types.ItineraryRequest {
	return types.ItineraryRequest{
		Destination: "Japan",
		Preferences: "temples, food",
		Duration:    3,
		Budget:      types.BudgetBalanced,
	}
}

func TestItinerary_JapanThreeDays(t *testing.T) {
	r, _, obs := newRunner(t, llm.NewFakeClient())

	resp, err := r.Itinerary(context.Background(), japan())
	require.NoError(t, err)
	require.Len(t, resp.Itinerary, 3)
	for _, d := range resp.Itinerary {
		for name, v := range map[string]string{
			"day": d.Day, "date": d.Date, "morning": d.Morning, "afternoon": d.Afternoon,
			"evening": d.Evening, "accommodation": d.Accommodation, "notes": d.Notes,
		} {
			assert.NotEmpty(t, v, name)
		}
	}
	assert.Equal(t, []string{"ok"}, obs.outcomes["itinerary"])
}

func TestItinerary_InvalidInputSkipsOracle(t *testing.T) {
	fake := llm.NewFakeClient()
	r, _, obs := newRunner(t, fake)

	req := japan()
	req.Duration = 31
	req.Preferences = "short"
	_, err := r.Itinerary(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidInput)

	verr, ok := schema.AsValidation(err)
	require.True(t, ok)
	_, ok = verr.Field("duration")
	assert.True(t, ok)
	_, ok = verr.Field("preferences")
	assert.True(t, ok)

	assert.Empty(t, fake.Calls())
	assert.Equal(t, []string{"invalid_input"}, obs.outcomes["itinerary"])
}

func TestItinerary_MalformedOutputFails(t *testing.T) {
	fake := llm.NewFakeClient().Script("itinerary", llm.FakeReply{
		Raw: json.RawMessage(`{"itinerary":[{"day":"Day 1","date":"2025-10-01"}]}`),
	})
	r, _, _ := newRunner(t, fake)

	resp, err := r.Itinerary(context.Background(), japan())
	require.ErrorIs(t, err, ErrInvalidOutput)
	assert.Empty(t, resp.Itinerary, "no partial data on failure")
}

func TestItinerary_BlankFieldFails(t *testing.T) {
	blank := `{"itinerary":[{"day":"Day 1","date":"2025-10-01","morning":"   ","afternoon":"a","evening":"e","accommodation":"h","notes":"n"}]}`
	fake := llm.NewFakeClient().Script("itinerary", llm.FakeReply{Raw: json.RawMessage(blank)})
	r, _, obs := newRunner(t, fake)

	resp, err := r.Itinerary(context.Background(), japan())
	require.ErrorIs(t, err, ErrInvalidOutput)
	assert.Empty(t, resp.Itinerary)
	assert.Equal(t, []string{"invalid_output"}, obs.outcomes["itinerary"])
}

func TestChat_BlankReplyFails(t *testing.T) {
	fake := llm.NewFakeClient().Script("chat", llm.FakeReply{Raw: json.RawMessage(`{"response":" \n "}`)})
	r, _, _ := newRunner(t, fake)

	_, err := r.Chat(context.Background(), types.ChatRequest{Message: "Is Lisbon walkable?"})
	require.ErrorIs(t, err, ErrInvalidOutput)
}

func TestItinerary_DayCountMismatchWarns(t *testing.T) {
	two := `{"itinerary":[` + day(1) + `,` + day(2) + `]}`
	fake := llm.NewFakeClient().Script("itinerary", llm.FakeReply{Raw: json.RawMessage(two)})
	r, hook, _ := newRunner(t, fake)

	resp, err := r.Itinerary(context.Background(), japan())
	require.NoError(t, err)
	assert.Len(t, resp.Itinerary, 2)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "itinerary day count differs from requested duration" {
			warned = true
			assert.Equal(t, 3, e.Data["requested"])
			assert.Equal(t, 2, e.Data["returned"])
		}
	}
	assert.True(t, warned)
}

func day(n int) string {
	b, _ := json.Marshal(types.ItineraryDay{
		Day: "Day " + string(rune('0'+n)), Date: "2025-10-0" + string(rune('0'+n)),
		Morning: "m", Afternoon: "a", Evening: "e", Accommodation: "h", Notes: "n",
	})
	return string(b)
}

func TestItinerary_OracleErrorKeepsCause(t *testing.T) {
	fake := llm.NewFakeClient().Script("itinerary", llm.FakeReply{Err: llm.ErrCircuitOpen})
	r, _, obs := newRunner(t, fake)

	_, err := r.Itinerary(context.Background(), japan())
	require.ErrorIs(t, err, ErrOracle)
	require.ErrorIs(t, err, llm.ErrCircuitOpen)
	assert.Equal(t, []string{"oracle"}, obs.outcomes["itinerary"])
}

func TestHighlights(t *testing.T) {
	r, _, _ := newRunner(t, llm.NewFakeClient())
	resp, err := r.Highlights(context.Background(), types.HighlightsRequest{Destination: " Peru "})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(resp.TouristSpots), 5)
	assert.GreaterOrEqual(t, len(resp.RegionalHighlights), 3)
	assert.Contains(t, resp.TouristSpots[0].Name, "Peru")
}

func TestHighlights_RejectsBadMapLink(t *testing.T) {
	bad := `{"touristSpots":[{"name":"x","description":"d","googleMaps360Url":"https://maps.example.com/x","safetyScore":50,"safetyJustification":"j"}],"regionalHighlights":[]}`
	fake := llm.NewFakeClient().Script("highlights", llm.FakeReply{Raw: json.RawMessage(bad)})
	r, _, _ := newRunner(t, fake)

	_, err := r.Highlights(context.Background(), types.HighlightsRequest{Destination: "Peru"})
	require.ErrorIs(t, err, ErrInvalidOutput)
}

func TestChat_SendsOnlyCurrentMessage(t *testing.T) {
	c := &capture{Oracle: llm.NewFakeClient()}
	r, _, _ := newRunner(t, c)

	resp, err := r.Chat(context.Background(), types.ChatRequest{Message: "Best time to visit Kyoto?"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Response)
	require.Len(t, c.calls, 1)
	assert.Equal(t, "chat", c.calls[0].Phase)
	assert.Contains(t, c.calls[0].Prompt, "Best time to visit Kyoto?")
	require.NotNil(t, c.calls[0].Schema)

	_, err = r.Chat(context.Background(), types.ChatRequest{Message: "  "})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Len(t, c.calls, 1)
}

func TestTranscribe(t *testing.T) {
	c := &capture{Oracle: llm.NewFakeClient()}
	r, _, _ := newRunner(t, c)

	uri := audio.DataURI("audio/webm", []byte{1, 2, 3})
	resp, err := r.Transcribe(context.Background(), types.TranscriptionRequest{AudioDataURI: uri})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Transcription)

	require.Len(t, c.calls, 1)
	require.Len(t, c.calls[0].Media, 1)
	assert.Equal(t, "audio/webm", c.calls[0].Media[0].MIMEType)
	assert.Equal(t, []byte{1, 2, 3}, c.calls[0].Media[0].Data)
	assert.NotContains(t, c.calls[0].Prompt, "base64")
}

func TestTranscribe_Failures(t *testing.T) {
	uri := audio.DataURI("audio/webm", []byte{1})

	empty := llm.NewFakeClient().Script("transcription", llm.FakeReply{Raw: json.RawMessage(`{"transcription":"  "}`)})
	r, _, _ := newRunner(t, empty)
	_, err := r.Transcribe(context.Background(), types.TranscriptionRequest{AudioDataURI: uri})
	require.ErrorIs(t, err, ErrTranscriptionFailed)

	none := llm.NewFakeClient().Script("transcription", llm.FakeReply{Err: llm.ErrEmptyResult})
	r, _, _ = newRunner(t, none)
	_, err = r.Transcribe(context.Background(), types.TranscriptionRequest{AudioDataURI: uri})
	require.ErrorIs(t, err, ErrTranscriptionFailed)

	fake := llm.NewFakeClient()
	r, _, _ = newRunner(t, fake)
	_, err = r.Transcribe(context.Background(), types.TranscriptionRequest{AudioDataURI: "https://example.com/a.webm"})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, fake.Calls())
}

func TestTranslateAndSpeak(t *testing.T) {
	fake := llm.NewFakeClient()
	r, _, obs := newRunner(t, fake)

	resp, err := r.TranslateAndSpeak(context.Background(), types.TranslationRequest{Text: "Good morning", TargetLanguage: "Spanish"})
	require.NoError(t, err)
	assert.Equal(t, "[Spanish] Good morning", resp.TranslatedText)

	mime, wav, err := audio.ParseDataURI(resp.AudioDataURI)
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", mime)
	h, err := audio.ParseWAVHeader(wav)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), h.Channels)
	assert.Equal(t, uint32(24000), h.SampleRate)
	assert.Equal(t, uint16(16), h.BitsPerSample)
	assert.Equal(t, uint32(4800), h.DataSize)

	assert.Equal(t, []string{"translation", llm.PhaseSpeech}, fake.Calls())
	assert.Equal(t, []string{"ok"}, obs.outcomes["translate_and_speak"])
}

func TestTranslateAndSpeak_EmptyTranslationSkipsSpeech(t *testing.T) {
	fake := llm.NewFakeClient().Script("translation", llm.FakeReply{Raw: json.RawMessage(`{"translatedText":""}`)})
	r, _, obs := newRunner(t, fake)

	_, err := r.TranslateAndSpeak(context.Background(), types.TranslationRequest{Text: "Hello", TargetLanguage: "French"})
	require.ErrorIs(t, err, ErrTranslationFailed)
	assert.Equal(t, []string{"translation"}, fake.Calls())
	assert.Equal(t, []string{"translation_failed"}, obs.outcomes["translate_and_speak"])
}

func TestTranslateAndSpeak_NoAudio(t *testing.T) {
	for name, reply := range map[string]llm.FakeReply{
		"empty result": {Err: llm.ErrEmptyResult},
		"no bytes":     {Media: llm.Media{MIMEType: "audio/pcm"}},
	} {
		t.Run(name, func(t *testing.T) {
			fake := llm.NewFakeClient().Script(llm.PhaseSpeech, reply)
			r, _, _ := newRunner(t, fake)
			resp, err := r.TranslateAndSpeak(context.Background(), types.TranslationRequest{Text: "Hello", TargetLanguage: "French"})
			require.ErrorIs(t, err, ErrSpeechFailed)
			assert.Empty(t, resp.AudioDataURI)
		})
	}
}

func TestTranslateAndSpeak_SpeechProviderError(t *testing.T) {
	boom := errors.New("quota exceeded")
	fake := llm.NewFakeClient().Script(llm.PhaseSpeech, llm.FakeReply{Err: boom})
	r, _, _ := newRunner(t, fake)
	_, err := r.TranslateAndSpeak(context.Background(), types.TranslationRequest{Text: "Hello", TargetLanguage: "French"})
	require.ErrorIs(t, err, ErrOracle)
	require.ErrorIs(t, err, boom)
}

func TestPlayable(t *testing.T) {
	pcm := []byte{1, 0, 2, 0}

	uri, err := playable(llm.Media{Data: pcm})
	require.NoError(t, err)
	assert.Equal(t, audio.WAVDataURI(pcm), uri)

	asURI, err := playable(llm.Media{Data: []byte(audio.DataURI("audio/L16", pcm))})
	require.NoError(t, err)
	assert.Equal(t, uri, asURI)

	wav := audio.EncodeWAV(pcm, audio.DefaultFormat)
	passed, err := playable(llm.Media{Data: wav})
	require.NoError(t, err)
	assert.Equal(t, uri, passed, "existing WAV is not wrapped twice")
}

func TestRun_Outcome(t *testing.T) {
	ok := Run(context.Background(), func(context.Context) (int, error) { return 7, nil })
	assert.Equal(t, Succeeded, ok.State)
	assert.Equal(t, 7, ok.Value)
	assert.Empty(t, ok.Reason())

	failed := Run(context.Background(), func(context.Context) (int, error) { return 7, ErrSpeechFailed })
	assert.Equal(t, Failed, failed.State)
	assert.Zero(t, failed.Value)
	assert.Equal(t, ErrSpeechFailed.Error(), failed.Reason())

	var pending Outcome[int]
	assert.True(t, pending.Pending())
}
