// Package imagedata converts between raw image bytes and data URIs.
package imagedata

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"regexp"
	"strings"

	"github.com/UnendingLoop/NanoEdit/internal/model"
	"github.com/disintegration/imaging"
)

var prefixRe = regexp.MustCompile(`^data:([\w.+-]+/[\w.+-]+);base64,`)

// Encode builds a data URI. Empty mime becomes image/png.
func Encode(mimeType string, data []byte) model.ImagePayload {
	if mimeType == "" {
		mimeType = model.PNG
	}
	return model.ImagePayload("data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

// Decompose splits a payload into its base64 part and mime type. Without a
// recognizable prefix the whole string is treated as payload of an image/png.
func Decompose(p model.ImagePayload) (payload, mimeType string) {
	s := string(p)
	m := prefixRe.FindStringSubmatchIndex(s)
	if m == nil {
		return s, model.PNG
	}
	return s[m[1]:], s[m[2]:m[3]]
}

// Decode returns raw bytes and mime type of the payload.
func Decode(p model.ImagePayload) ([]byte, string, error) {
	payload, mimeType := Decompose(p)
	data, err := DecodeBase64(payload)
	if err != nil {
		return nil, "", err
	}
	return data, mimeType, nil
}

// DecodeBase64 accepts both padded and unpadded standard encoding.
func DecodeBase64(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return data, nil
	}
	data, rawErr := base64.RawStdEncoding.DecodeString(payload)
	if rawErr != nil {
		return nil, fmt.Errorf("invalid base64 image payload: %w", err)
	}
	return data, nil
}

// FromUpload encodes an uploaded file the way a browser file reader would,
// resolving the mime type from the declared content type, then the file name,
// then the content itself.
func FromUpload(data []byte, contentType, filename string) model.ImagePayload {
	return Encode(ResolveMIME(data, contentType, filename), data)
}

func ResolveMIME(data []byte, contentType, filename string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt != model.OctetStream {
		return mt
	}

	// заголовка нет - пробуем по расширению
	if f, err := imaging.FormatFromFilename(filename); err == nil {
		if ct, ok := model.GetCType[f]; ok {
			return ct
		}
	}
	if strings.HasSuffix(strings.ToLower(filename), ".webp") {
		return model.WEBP
	}

	if len(data) == 0 {
		return model.OctetStream
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}
