// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package leadsnake

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseDocument parses an HTML body permissively. The HTML5 parser accepts
// any byte sequence, so an error here only comes from the reader.
func parseDocument(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// extractAllText extracts the visible text of the document body, removing
// script, style and noscript elements. Block elements and table cells are
// separated by a space so that neighbouring words never run together.
// Normalizes whitespace (collapses multiple spaces/newlines).
func extractAllText(doc *goquery.Document) string {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		body = doc.Selection
	}
	return extractTextWithSpacing(body)
}

// extractTextWithSpacing concatenates the text nodes under selection. Inline
// runs stay contiguous; block elements add spacing around their text.
func extractTextWithSpacing(selection *goquery.Selection) string {
	var b strings.Builder

	var extractRecursive func(*goquery.Selection)
	extractRecursive = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, child *goquery.Selection) {
			nodeName := goquery.NodeName(child)
			switch {
			case nodeName == "#text":
				b.WriteString(child.Text())
			case hiddenElements[nodeName]:
			case isBlockElement(nodeName):
				b.WriteByte(' ')
				extractRecursive(child)
				b.WriteByte(' ')
			default:
				extractRecursive(child)
			}
		})
	}
	extractRecursive(selection)

	return normalizeWhitespace(b.String())
}

var hiddenElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
	"head": true, "title": true,
}

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "caption": true, "details": true, "dialog": true, "dd": true,
	"div": true, "dl": true, "dt": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hgroup": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "option": true, "p": true, "pre": true, "section": true,
	"summary": true, "table": true, "tbody": true, "td": true, "tfoot": true,
	"th": true, "thead": true, "tr": true, "ul": true,
}

// isBlockElement checks if an HTML element is a block-level element or a
// table cell.
func isBlockElement(nodeName string) bool {
	return blockElements[nodeName]
}

// extractTitle returns the trimmed text of the first <title> element, or
// nil when there is none or it is blank.
func extractTitle(doc *goquery.Document) *string {
	title := normalizeWhitespace(doc.Find("title").First().Text())
	if title == "" {
		return nil
	}
	return &title
}

// anchorText returns the visible label of a link: its text, or failing
// that the alt of an image inside it, or its title/aria-label attribute.
func anchorText(s *goquery.Selection) string {
	if text := normalizeWhitespace(s.Text()); text != "" {
		return text
	}
	if alt, ok := s.Find("img[alt]").First().Attr("alt"); ok {
		if alt = normalizeWhitespace(alt); alt != "" {
			return alt
		}
	}
	for _, attr := range []string{"aria-label", "title"} {
		if v, ok := s.Attr(attr); ok {
			if v = normalizeWhitespace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// normalizeWhitespace collapses multiple consecutive whitespace characters
// (spaces, tabs, newlines) into a single space.
func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
