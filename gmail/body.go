package gmail

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	gmailapi "google.golang.org/api/gmail/v1"
)

var tagPattern = regexp.MustCompile(`(?s)<.*?>`)

// entityReplacer decodes the handful of entities that show up in practice.
// &amp; is listed last so it cannot re-expand an already substituted
// &lt;/&gt;.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
)

// headerValue returns the value of the first header whose name matches
// (case-insensitively), or an empty string when no header matches.
func headerValue(headers []*gmailapi.MessagePartHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// StripHTML removes tags from an HTML fragment and decodes a small fixed
// set of entities, returning trimmed plain text. Not a real HTML parser;
// the output only needs to be readable enough to summarize.
func StripHTML(html string) string {
	text := tagPattern.ReplaceAllString(html, "")
	text = entityReplacer.Replace(text)
	return strings.TrimSpace(text)
}

// extractBody picks the best textual representation out of a message
// payload. A text/plain part always wins; an HTML-only message is stripped
// down to plain text; a single-part message is decoded as-is. A payload
// with no inline data yields an empty string, not an error. Undecodable
// part data is an error so the caller can skip the whole message.
func extractBody(payload *gmailapi.MessagePart) (string, error) {
	if payload == nil {
		return "", nil
	}

	var body string
	if len(payload.Parts) > 0 {
		for _, part := range payload.Parts {
			switch {
			case part.MimeType == "text/plain" && partData(part) != "":
				data, err := decodeBase64URL(partData(part))
				if err != nil {
					return "", fmt.Errorf("decoding text/plain part: %w", err)
				}
				return strings.TrimSpace(string(data)), nil
			case part.MimeType == "text/html" && body == "" && partData(part) != "":
				data, err := decodeBase64URL(partData(part))
				if err != nil {
					return "", fmt.Errorf("decoding text/html part: %w", err)
				}
				body = StripHTML(string(data))
			}
		}
	} else if payload.Body != nil && payload.Body.Data != "" {
		data, err := decodeBase64URL(payload.Body.Data)
		if err != nil {
			return "", fmt.Errorf("decoding message body: %w", err)
		}
		body = string(data)
	}

	return strings.TrimSpace(body), nil
}

func partData(part *gmailapi.MessagePart) string {
	if part.Body == nil {
		return ""
	}
	return part.Body.Data
}

// decodeBase64URL handles both padded and unpadded input; the Gmail API
// emits unpadded base64url but cached fixtures and other tooling often pad.
func decodeBase64URL(s string) ([]byte, error) {
	if data, err := base64.URLEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawURLEncoding.DecodeString(s)
}
