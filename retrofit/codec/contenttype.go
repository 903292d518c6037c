package codec

import "strings"

// EncodingFromContentType derives the wire Encoding from a Content-Type
// header value using the segmentation rule shared by the request builder
// and the response handler: the media-type prefix, delimited by ';', is
// matched case-insensitively.
//
// ok is false when the content-type names neither JSON nor XML, meaning
// the body should be treated as opaque bytes/text rather than decoded.
func EncodingFromContentType(contentType string) (enc Encoding, ok bool) {
	media := contentType
	if idx := strings.IndexByte(media, ';'); idx >= 0 {
		media = media[:idx]
	}
	media = strings.TrimSpace(strings.ToLower(media))

	switch {
	case strings.HasPrefix(media, "application/json"):
		return JSON, true
	case strings.HasPrefix(media, "application/xml"), strings.HasPrefix(media, "text/xml"):
		return XML, true
	default:
		return JSON, false
	}
}
