// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown renders post bodies to preview HTML using goldmark.
// On top of GFM, in-text #hashtags are linked so the preview matches what
// the social network will show.
package markdown

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks
		extension.Typographer, // smart quotes and dashes
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(), // post bodies rely on single newlines
	),
)

var hashtagHTML = regexp.MustCompile(`(^|[\s>])#([\p{L}0-9_]+)`)

// ToHTML converts a post body into preview HTML. Hashtags become links to
// the tag's search page.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return linkHashtags(buf.String()), nil
}

// linkHashtags runs on the rendered HTML rather than the source so hashtags
// inside code spans stay untouched by the markdown pass first.
func linkHashtags(html string) string {
	return hashtagHTML.ReplaceAllString(html,
		`$1<a class="hashtag" href="/tags/$2">#$2</a>`)
}
