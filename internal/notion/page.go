package notion

import (
	"strings"
	"unicode/utf8"

	"github.com/nguyentantai21042004/voice-notes/internal/config"
	"github.com/nguyentantai21042004/voice-notes/internal/domain"
)

// Notion request limits.
const (
	maxTextLength    = 2000
	maxRichTextItems = 100
)

const tagMarker = "#"

type Page struct {
	Parent     Parent              `json:"parent"`
	Properties map[string]Property `json:"properties"`
	Children   []Block             `json:"children"`
}

type Parent struct {
	DatabaseID string `json:"database_id"`
}

type Property struct {
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
}

type RichText struct {
	Text TextContent `json:"text"`
}

type TextContent struct {
	Content string `json:"content"`
}

type SelectOption struct {
	Name string `json:"name"`
}

type Block struct {
	Object           string         `json:"object"`
	Type             string         `json:"type"`
	Heading2         *RichTextBlock `json:"heading_2,omitempty"`
	BulletedListItem *RichTextBlock `json:"bulleted_list_item,omitempty"`
	Paragraph        *RichTextBlock `json:"paragraph,omitempty"`
}

type RichTextBlock struct {
	RichText []RichText `json:"rich_text"`
}

// BuildPage maps an analysis result and its transcript onto a database page.
func BuildPage(cfg config.NotionConfig, result domain.AnalysisResult, transcript string) Page {
	props := map[string]Property{
		cfg.Properties.Title:   {Title: richText(result.TitleOr(domain.DefaultTitle))},
		cfg.Properties.Summary: {RichText: richText(result.Summary.String())},
	}
	if tags := StripTags(result.Hashtags); len(tags) > 0 {
		options := make([]SelectOption, 0, len(tags))
		for _, tag := range tags {
			options = append(options, SelectOption{Name: tag})
		}
		props[cfg.Properties.Tags] = Property{MultiSelect: options}
	}

	children := []Block{heading(cfg.Headings.KeyPoints)}
	for _, point := range result.KeyPoints {
		if strings.TrimSpace(point) == "" {
			continue
		}
		children = append(children, Block{
			Object:           "block",
			Type:             "bulleted_list_item",
			BulletedListItem: &RichTextBlock{RichText: richText(point)},
		})
	}

	children = append(children, heading(cfg.Headings.Transcript))
	for _, group := range groups(chunk(transcript, maxTextLength), maxRichTextItems) {
		children = append(children, Block{
			Object:    "block",
			Type:      "paragraph",
			Paragraph: &RichTextBlock{RichText: toRichText(group)},
		})
	}

	return Page{
		Parent:     Parent{DatabaseID: cfg.DatabaseID},
		Properties: props,
		Children:   children,
	}
}

// StripTags removes exactly one leading "#" from each tag, keeping order.
// Tags that end up empty are dropped; Notion rejects empty option names.
func StripTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		tag = strings.TrimPrefix(tag, tagMarker)
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func heading(text string) Block {
	return Block{
		Object:   "block",
		Type:     "heading_2",
		Heading2: &RichTextBlock{RichText: richText(text)},
	}
}

// richText splits s into Notion-sized text items, capped at the per-array
// limit.
func richText(s string) []RichText {
	parts := chunk(s, maxTextLength)
	if len(parts) > maxRichTextItems {
		parts = parts[:maxRichTextItems]
	}
	return toRichText(parts)
}

func toRichText(parts []string) []RichText {
	out := make([]RichText, 0, len(parts))
	for _, p := range parts {
		out = append(out, RichText{Text: TextContent{Content: p}})
	}
	return out
}

// chunk splits s into pieces of at most size runes. It always returns at
// least one element.
func chunk(s string, size int) []string {
	if utf8.RuneCountInString(s) <= size {
		return []string{s}
	}

	var out []string
	runes := []rune(s)
	for len(runes) > 0 {
		n := size
		if n > len(runes) {
			n = len(runes)
		}
		out = append(out, string(runes[:n]))
		runes = runes[n:]
	}
	return out
}

func groups(parts []string, size int) [][]string {
	var out [][]string
	for len(parts) > 0 {
		n := size
		if n > len(parts) {
			n = len(parts)
		}
		out = append(out, parts[:n])
		parts = parts[n:]
	}
	return out
}
