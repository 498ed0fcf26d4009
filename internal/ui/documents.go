package ui

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"wandergenie/internal/flow"
	"wandergenie/internal/schema"
	"wandergenie/internal/types"
)

// DocumentsView lists files the user picked locally. Only metadata is kept
// and nothing outlives the session.
type DocumentsView struct {
	mu   sync.Mutex
	docs []types.UploadedDocument
	now  func() time.Time
}

func NewDocumentsView() *DocumentsView {
	return &DocumentsView{docs: []types.UploadedDocument{}, now: time.Now}
}

// Add registers every input or none of them.
func (v *DocumentsView) Add(inputs ...types.DocumentInput) ([]types.UploadedDocument, error) {
	added := make([]types.UploadedDocument, 0, len(inputs))
	for i := range inputs {
		in := inputs[i]
		if err := schema.Validate(&in); err != nil {
			return nil, fmt.Errorf("%w: document %d: %w", flow.ErrInvalidInput, i, err)
		}
		added = append(added, types.UploadedDocument{
			ID:   uuid.NewString(),
			Name: in.Name,
			Type: in.Type,
			Size: in.Size,
			URL:  in.URL,
		})
	}
	v.mu.Lock()
	at := v.now().UTC()
	for i := range added {
		added[i].UploadedAt = at
	}
	v.docs = append(v.docs, added...)
	v.mu.Unlock()
	return added, nil
}

func (v *DocumentsView) List() []types.UploadedDocument {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]types.UploadedDocument{}, v.docs...)
}

// Remove deletes exactly the document with id.
func (v *DocumentsView) Remove(id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, d := range v.docs {
		if d.ID == id {
			v.docs = append(v.docs[:i:i], v.docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// HumanSize formats n bytes with up to two decimals, e.g. "1.5 KB".
func HumanSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	v, i := float64(n), 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + sizeUnits[i]
}
