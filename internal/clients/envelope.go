package clients

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractResponseText pulls the model's text out of a responses-API
// envelope. The upstream has shipped several envelope generations, so the
// recognized shapes are tried in a fixed order:
//
//  1. "output" array -> first item with type "message" -> "content" array ->
//     first segment with type "output_text" -> its "text"
//     (a plain-string "content" is accepted too)
//  2. "output" object with a "content" field
//  3. "output" as a bare string
//  4. OpenAI-style "choices" array -> choices[0].message.content
//
// When nothing matches, the whole envelope is returned as text so that a
// shape change degrades into a downstream parse miss instead of a crash.
// Per the upstream contract an "output" key, even an unreadable one,
// shadows any "choices" key.
func ExtractResponseText(envelope []byte) string {
	var text string
	if output := gjson.GetBytes(envelope, "output"); output.Exists() {
		switch {
		case output.IsArray():
			text = textFromOutputItems(output)
		case output.IsObject():
			text = output.Get("content").String()
		case output.Type == gjson.String:
			text = output.String()
		}
	} else if choices := gjson.GetBytes(envelope, "choices"); choices.IsArray() {
		if arr := choices.Array(); len(arr) > 0 {
			text = arr[0].Get("message.content").String()
		}
	}

	if text == "" {
		return string(envelope)
	}
	return text
}

func textFromOutputItems(output gjson.Result) string {
	var text string
	output.ForEach(func(_ gjson.Result, item gjson.Result) bool {
		if item.Get("type").String() != "message" {
			return true
		}
		content := item.Get("content")
		switch {
		case content.IsArray():
			content.ForEach(func(_ gjson.Result, segment gjson.Result) bool {
				if segment.Get("type").String() == "output_text" {
					text = segment.Get("text").String()
					return false
				}
				return true
			})
		case content.Type == gjson.String:
			text = content.String()
		}
		// only the first message item counts
		return false
	})
	return text
}

// StripCodeFence removes the markdown code fence the model sometimes wraps
// its JSON in, with or without a language tag.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
