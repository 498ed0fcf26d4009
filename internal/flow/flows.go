package flow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"wandergenie/internal/audio"
	"wandergenie/internal/llm"
	"wandergenie/internal/prompts"
	"wandergenie/internal/schema"
	"wandergenie/internal/types"
)

// Itinerary plans a day-by-day trip. A day count different from the
// requested duration is logged and returned as produced.
func (r *Runner) Itinerary(ctx context.Context, req types.ItineraryRequest) (resp types.ItineraryResponse, err error) {
	defer func(start time.Time) { err = r.finish(prompts.PhaseItinerary, start, err) }(time.Now())

	resp, err = runStructured[types.ItineraryRequest, types.ItineraryResponse](ctx, r, structured[types.ItineraryRequest]{
		phase:  prompts.PhaseItinerary,
		render: prompts.Itinerary,
		schema: types.ItineraryResponse{},
	}, req)
	if err != nil {
		return types.ItineraryResponse{}, err
	}
	if req.Duration > 0 && len(resp.Itinerary) != req.Duration {
		r.log.WithFields(logrus.Fields{
			"flow":      prompts.PhaseItinerary,
			"requested": req.Duration,
			"returned":  len(resp.Itinerary),
		}).Warn("itinerary day count differs from requested duration")
	}
	return resp, nil
}

// Highlights researches tourist spots and regional culture.
func (r *Runner) Highlights(ctx context.Context, req types.HighlightsRequest) (resp types.HighlightsResponse, err error) {
	defer func(start time.Time) { err = r.finish(prompts.PhaseHighlights, start, err) }(time.Now())

	return runStructured[types.HighlightsRequest, types.HighlightsResponse](ctx, r, structured[types.HighlightsRequest]{
		phase:  prompts.PhaseHighlights,
		render: prompts.Highlights,
		schema: types.HighlightsResponse{},
	}, req)
}

// Chat answers one message. Earlier turns are not sent.
func (r *Runner) Chat(ctx context.Context, req types.ChatRequest) (resp types.ChatResponse, err error) {
	defer func(start time.Time) { err = r.finish(prompts.PhaseChat, start, err) }(time.Now())

	return runStructured[types.ChatRequest, types.ChatResponse](ctx, r, structured[types.ChatRequest]{
		phase:  prompts.PhaseChat,
		render: prompts.Chat,
		schema: types.ChatResponse{},
	}, req)
}

// Transcribe turns a recorded data URI into text.
func (r *Runner) Transcribe(ctx context.Context, req types.TranscriptionRequest) (resp types.TranscriptionResponse, err error) {
	defer func(start time.Time) { err = r.finish(prompts.PhaseTranscription, start, err) }(time.Now())

	if err := schema.Validate(&req); err != nil {
		return resp, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	mime, data, perr := audio.ParseDataURI(req.AudioDataURI)
	if perr != nil {
		return resp, fmt.Errorf("%w: %w", ErrInvalidInput, perr)
	}
	resp, err = runStructured[types.TranscriptionRequest, types.TranscriptionResponse](ctx, r, structured[types.TranscriptionRequest]{
		phase:  prompts.PhaseTranscription,
		render: func(types.TranscriptionRequest) (string, error) { return prompts.Transcription() },
		schema: types.TranscriptionResponse{},
		media:  []llm.Media{{MIMEType: mime, Data: data}},
	}, req)
	switch {
	case errors.Is(err, llm.ErrEmptyResult):
		return types.TranscriptionResponse{}, fmt.Errorf("%w: %w", ErrTranscriptionFailed, err)
	case err != nil:
		return types.TranscriptionResponse{}, err
	}
	resp.Transcription = strings.TrimSpace(resp.Transcription)
	if resp.Transcription == "" {
		return types.TranscriptionResponse{}, ErrTranscriptionFailed
	}
	return resp, nil
}

// TranslateAndSpeak translates text, synthesises the translation and
// returns it as a WAV data URI. Speech is attempted only after a non-empty
// translation.
func (r *Runner) TranslateAndSpeak(ctx context.Context, req types.TranslationRequest) (resp types.TranslationResponse, err error) {
	defer func(start time.Time) { err = r.finish("translate_and_speak", start, err) }(time.Now())

	translated, err := runStructured[types.TranslationRequest, types.TranslatedText](ctx, r, structured[types.TranslationRequest]{
		phase:  prompts.PhaseTranslation,
		render: prompts.Translation,
		schema: types.TranslatedText{},
	}, req)
	switch {
	case errors.Is(err, llm.ErrEmptyResult):
		return resp, fmt.Errorf("%w: %w", ErrTranslationFailed, err)
	case err != nil:
		return resp, err
	}
	text := strings.TrimSpace(translated.TranslatedText)
	if text == "" {
		return resp, ErrTranslationFailed
	}

	media, err := r.oracle.GenerateSpeech(llm.WithPhase(ctx, prompts.PhaseSpeech), prompts.Speech(text))
	switch {
	case errors.Is(err, llm.ErrEmptyResult):
		return resp, fmt.Errorf("%w: %w", ErrSpeechFailed, err)
	case err != nil:
		return resp, oracleErr(prompts.PhaseSpeech, err)
	case len(media.Data) == 0:
		return resp, ErrSpeechFailed
	}

	uri, err := playable(media)
	if err != nil {
		return resp, fmt.Errorf("%w: %w", ErrSpeechFailed, err)
	}
	return types.TranslationResponse{TranslatedText: text, AudioDataURI: uri}, nil
}

// playable converts synthesiser output into a WAV data URI. The speech
// model returns raw 24 kHz mono 16-bit PCM, which is wrapped in a WAV
// header. A data URI or a complete WAV file is only a fallback for other
// synthesisers: the former is unwrapped first, the latter passes through.
func playable(m llm.Media) (string, error) {
	data := m.Data
	if bytes.HasPrefix(data, []byte("data:")) {
		_, decoded, err := audio.ParseDataURI(string(data))
		if err != nil {
			return "", err
		}
		data = decoded
	}
	if len(data) == 0 {
		return "", errors.New("flow: empty audio payload")
	}
	if _, err := audio.ParseWAVHeader(data); err == nil {
		return audio.DataURI("audio/wav", data), nil
	}
	return audio.WAVDataURI(data), nil
}
