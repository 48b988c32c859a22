package t3

import (
	"encoding/json"
	"strings"
)

// The chat endpoint answers with a line-oriented event stream rather than a
// single JSON document. Each content-bearing line has the shape
//
//	data: {"type":"...", ...}
//
// terminated by a literal "data: [DONE]" marker. The decoder here waits for
// the complete body and classifies every data line into a closed set of
// segment variants; it does not attempt incremental decoding.

// SegmentKind classifies a decoded wire segment.
type SegmentKind int

const (
	// SegmentText carries a chunk of assistant text.
	SegmentText SegmentKind = iota
	// SegmentImage carries a generated image reference.
	SegmentImage
	// SegmentControl is a recognized metadata or lifecycle marker with no
	// user-visible content.
	SegmentControl
	// SegmentUnknown is a well-formed segment whose tag is not recognized.
	// Unknown segments are tolerated and skipped for forward compatibility.
	SegmentUnknown
	// SegmentDone is the stream terminator.
	SegmentDone
)

// Segment is one decoded unit of the response stream.
type Segment struct {
	Kind SegmentKind
	Type string // raw type tag, empty for the [DONE] marker
	Text string // populated for SegmentText
	URL  string // populated for SegmentImage
}

const doneMarker = "[DONE]"

// dataPrefix introduces every content-bearing line of the stream.
const dataPrefix = "data: "

// segmentPayload is the decoded JSON of one data line. Delta is polymorphic
// (either a bare string or an object), so it stays raw until classification.
type segmentPayload struct {
	Type    string          `json:"type"`
	Delta   json.RawMessage `json:"delta"`
	Text    string          `json:"text"`
	Content json.RawMessage `json:"content"`
	URL     string          `json:"url"`
	Output  json.RawMessage `json:"output"`
}

// Lifecycle and telemetry tags the service is known to emit. They carry no
// user-visible content and are skipped.
var controlTypes = map[string]bool{
	"start":                true,
	"start-step":           true,
	"finish":               true,
	"finish-step":          true,
	"reasoning-start":      true,
	"reasoning-end":        true,
	"tool-input-start":     true,
	"tool-input-delta":     true,
	"tool-input-available": true,
}

// DecodeSegments splits a complete response body into classified segments.
// Lines without the data prefix are stream framing and are ignored. A data
// line whose payload is not valid JSON (for example a truncated trailing
// segment) yields a ParseError.
func DecodeSegments(body string) ([]Segment, error) {
	var segments []Segment
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, dataPrefix) {
			continue
		}
		data := strings.TrimPrefix(trimmed, dataPrefix)
		if data == doneMarker {
			segments = append(segments, Segment{Kind: SegmentDone})
			break
		}

		var payload segmentPayload
		if err := json.Unmarshal([]byte(data), &payload); err != nil {
			return nil, &ParseError{Op: "decode response", Reason: "malformed segment", Err: err}
		}
		segments = append(segments, classifySegment(payload))
	}
	return segments, nil
}

// classifySegment maps a decoded payload onto the segment variant set.
func classifySegment(p segmentPayload) Segment {
	switch p.Type {
	case "image-gen":
		return Segment{Kind: SegmentImage, Type: p.Type, URL: imageGenURL(p)}
	case "tool-output-available", "tool-output-partially-available":
		if url := toolOutputURL(p.Output); url != "" {
			return Segment{Kind: SegmentImage, Type: p.Type, URL: url}
		}
		return Segment{Kind: SegmentControl, Type: p.Type}
	}

	if text, ok := segmentText(p); ok {
		return Segment{Kind: SegmentText, Type: p.Type, Text: text}
	}
	if controlTypes[p.Type] {
		return Segment{Kind: SegmentControl, Type: p.Type}
	}
	return Segment{Kind: SegmentUnknown, Type: p.Type}
}

// segmentText extracts the text carried by a content segment. The service
// has shipped several shapes over time: a bare string delta, a delta object
// with a text field, a top-level text field, and a content array of text
// parts.
func segmentText(p segmentPayload) (string, bool) {
	if len(p.Delta) > 0 {
		var deltaStr string
		if err := json.Unmarshal(p.Delta, &deltaStr); err == nil {
			return deltaStr, true
		}
		var deltaObj struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(p.Delta, &deltaObj); err == nil && deltaObj.Text != "" {
			return deltaObj.Text, true
		}
	}
	if p.Text != "" {
		return p.Text, true
	}
	if len(p.Content) > 0 {
		var items []struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(p.Content, &items); err == nil && len(items) > 0 {
			var sb strings.Builder
			for _, item := range items {
				sb.WriteString(item.Text)
			}
			return sb.String(), true
		}
	}
	return "", false
}

// imageGenURL extracts the image location from an image-gen segment. The URL
// may arrive in the url field, the content field, or inside a delta object.
func imageGenURL(p segmentPayload) string {
	if p.URL != "" {
		return p.URL
	}
	if len(p.Content) > 0 {
		var contentStr string
		if err := json.Unmarshal(p.Content, &contentStr); err == nil && contentStr != "" {
			return contentStr
		}
	}
	if len(p.Delta) > 0 {
		var deltaObj struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(p.Delta, &deltaObj); err == nil {
			return deltaObj.URL
		}
	}
	return ""
}

// toolOutputURL extracts an image URL from a tool output payload, which may
// be an object with a url, an object wrapping an output array, or a bare
// array of entries.
func toolOutputURL(output json.RawMessage) string {
	if len(output) == 0 {
		return ""
	}

	var obj struct {
		URL    string `json:"url"`
		Output []struct {
			URL string `json:"url"`
		} `json:"output"`
	}
	if err := json.Unmarshal(output, &obj); err == nil {
		if obj.URL != "" {
			return obj.URL
		}
		for _, entry := range obj.Output {
			if entry.URL != "" {
				return entry.URL
			}
		}
	}

	var entries []struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(output, &entries); err == nil {
		for _, entry := range entries {
			if entry.URL != "" {
				return entry.URL
			}
		}
	}
	return ""
}

// ParseResponse decodes a complete response body into a single Content
// value. Text segments are concatenated in stream order; an image segment
// takes precedence over any text. Inline data URIs are split into their
// base64 payload. An empty body (or a body holding only control segments)
// parses to empty text content, not an error.
func ParseResponse(body string) (Content, error) {
	segments, err := DecodeSegments(body)
	if err != nil {
		return Content{}, err
	}

	var text strings.Builder
	var imageURL, inlineBase64 string
	for _, seg := range segments {
		switch seg.Kind {
		case SegmentText:
			text.WriteString(seg.Text)
		case SegmentImage:
			if seg.URL == "" {
				continue
			}
			imageURL = seg.URL
			inlineBase64 = ""
			// Inline images arrive as data URIs; keep only the payload.
			if strings.HasPrefix(seg.URL, "data:image") {
				if idx := strings.Index(seg.URL, "base64,"); idx >= 0 {
					inlineBase64 = seg.URL[idx+len("base64,"):]
				}
			}
		case SegmentDone:
			return assembleContent(text.String(), imageURL, inlineBase64), nil
		}
	}
	return assembleContent(text.String(), imageURL, inlineBase64), nil
}

func assembleContent(text, imageURL, inlineBase64 string) Content {
	if imageURL != "" {
		return Content{Kind: ContentImage, URL: imageURL, Base64: inlineBase64}
	}
	return Content{Kind: ContentText, Text: strings.TrimSpace(text)}
}
