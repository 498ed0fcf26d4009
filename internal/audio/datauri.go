package audio

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrBadDataURI = errors.New("audio: malformed base64 data URI")

// DataURI renders data:<mime>;base64,<payload>.
func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI splits a base64 data URI into its MIME type and bytes.
// MIME parameters other than base64 stay in the returned type.
func ParseDataURI(s string) (mime string, data []byte, err error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return "", nil, ErrBadDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrBadDataURI
	}
	mime, ok = strings.CutSuffix(meta, ";base64")
	if !ok || mime == "" {
		return "", nil, ErrBadDataURI
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Join(ErrBadDataURI, err)
	}
	return mime, data, nil
}
