package llm

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"sync"
	"time"
)

// FakeReply overrides the canned answer for one phase.
type FakeReply struct {
	Raw   json.RawMessage
	Media Media
	Err   error
}

// FakeClient returns deterministic payloads per phase for offline mode and
// tests. Scripted replies take precedence over the canned ones.
type FakeClient struct {
	mu      sync.Mutex
	replies map[string]FakeReply
	calls   []string
	now     func() time.Time
}

// PhaseSpeech is the phase recorded for GenerateSpeech calls.
const PhaseSpeech = "speech"

func NewFakeClient() *FakeClient {
	return &FakeClient{
		replies: map[string]FakeReply{},
		now:     time.Now,
	}
}

func (f *FakeClient) Name() string { return "FakeLLM" }

// Script sets the reply for phase and returns f for chaining.
func (f *FakeClient) Script(phase string, r FakeReply) *FakeClient {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[phase] = r
	return f
}

// Calls lists the phases invoked so far, in order.
func (f *FakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeClient) record(phase string) (FakeReply, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, phase)
	r, ok := f.replies[phase]
	return r, ok
}

func (f *FakeClient) GenerateJSON(ctx context.Context, call Call) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	phase := phaseOf(ctx, call)
	if r, ok := f.record(phase); ok {
		return r.Raw, r.Err
	}
	var obj any
	switch phase {
	case "itinerary":
		obj = fakeItinerary(call.Prompt, f.now())
	case "highlights":
		obj = fakeHighlights(call.Prompt)
	case "chat":
		obj = map[string]any{"response": "Happy to help! Pack light, carry a reusable bottle, and try the local breakfast spot near your stay. (offline mode)"}
	case "transcription":
		obj = map[string]any{"transcription": "Where is the nearest train station?"}
	case "translation":
		obj = map[string]any{"translatedText": fakeTranslation(call.Prompt)}
	default:
		obj = map[string]any{}
	}
	b, _ := json.Marshal(obj)
	return json.RawMessage(b), nil
}

// GenerateSpeech returns a short 440Hz tone as raw 24kHz 16-bit mono PCM.
func (f *FakeClient) GenerateSpeech(ctx context.Context, text string) (Media, error) {
	if err := ctx.Err(); err != nil {
		return Media{}, err
	}
	if r, ok := f.record(PhaseSpeech); ok {
		return r.Media, r.Err
	}
	return Media{MIMEType: "audio/L16;codec=pcm;rate=24000", Data: tone(440, 24000, 100*time.Millisecond)}, nil
}

func tone(freq float64, rate int, d time.Duration) []byte {
	n := int(float64(rate) * d.Seconds())
	out := make([]byte, n*2)
	for i := 0; i < n; i++ {
		v := int16(8000 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

var (
	reDuration    = regexp.MustCompile(`"duration":\s*(\d+)`)
	reDestination = regexp.MustCompile(`"destination":\s*"([^"]*)"`)
	reTargetLang  = regexp.MustCompile(`"targetLanguage":\s*"([^"]*)"`)
	reText        = regexp.MustCompile(`"text":\s*"((?:[^"\\]|\\.)*)"`)
)

func match(re *regexp.Regexp, s, def string) string {
	if m := re.FindStringSubmatch(s); len(m) == 2 && m[1] != "" {
		return m[1]
	}
	return def
}

func fakeItinerary(prompt string, start time.Time) map[string]any {
	days, _ := strconv.Atoi(match(reDuration, prompt, "3"))
	if days < 1 {
		days = 1
	}
	dest := match(reDestination, prompt, "your destination")
	out := make([]map[string]any, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, map[string]any{
			"day":           fmt.Sprintf("Day %d", i+1),
			"date":          start.AddDate(0, 0, i).Format("2006-01-02"),
			"morning":       fmt.Sprintf("☕ 9:00–12:00: Slow breakfast, then explore the old quarter of %s.", dest),
			"afternoon":     "🏛️ 12:00–16:00: Visit the **main museum** and grab street food nearby.",
			"evening":       "🌆 17:00–20:00: Sunset walk and dinner at a well-reviewed local spot 🍜.",
			"accommodation": "**Central Boutique Stay**, walkable and well-lit neighbourhood",
			"notes":         "Buy a transit day pass. Best photo spot: the river viewpoint at golden hour.",
		})
	}
	return map[string]any{"itinerary": out}
}

func fakeHighlights(prompt string) map[string]any {
	dest := match(reDestination, prompt, "Destination")
	spots := []struct {
		name  string
		score float64
	}{
		{"Old Town Square", 90}, {"National Museum", 82}, {"Riverside Market", 68},
		{"Hilltop Fortress", 74}, {"Harbour District", 48},
	}
	ts := make([]map[string]any, 0, len(spots))
	for i, s := range spots {
		ts = append(ts, map[string]any{
			"name":                fmt.Sprintf("%s, %s", s.name, dest),
			"description":         "A favourite stop for first-time visitors.",
			"googleMaps360Url":    fmt.Sprintf("https://www.google.com/maps/@%.4f,%.4f,3a,75y,90h,90t", 41.89+float64(i)/100, 12.49+float64(i)/100),
			"safetyScore":         s.score,
			"safetyJustification": "Busy with tourists during the day; stay alert in crowds.",
		})
	}
	regions := make([]map[string]any, 0, 3)
	for _, r := range []string{"North", "Central", "South"} {
		regions = append(regions, map[string]any{
			"regionName":      r + " " + dest,
			"famousFoods":     []string{"Regional stew", "Flatbread"},
			"famousApparel":   []string{"Woven shawl"},
			"otherHighlights": []string{"Folk music festival"},
		})
	}
	return map[string]any{"touristSpots": ts, "regionalHighlights": regions}
}

func fakeTranslation(prompt string) string {
	lang := match(reTargetLang, prompt, "Spanish")
	text := match(reText, prompt, "")
	if s, err := strconv.Unquote(`"` + text + `"`); err == nil {
		text = s
	}
	return fmt.Sprintf("[%s] %s", lang, text)
}
