package exporter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/nguyentantai21042004/voice-notes/internal/config"
	"github.com/nguyentantai21042004/voice-notes/internal/domain"
	"github.com/nguyentantai21042004/voice-notes/internal/logger"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 13
	titleSize = 16
	headSize  = 14
	maxSlug   = 60
)

var reBold = regexp.MustCompile(`\*\*(.+?)\*\*`)

// Docx writes one .docx note per analyzed recording.
type Docx struct {
	dir      string
	headings config.NotionHeadingsConfig
	logger   logger.Logger
	now      func() time.Time

	// mu covers picking a free file name and writing it.
	mu sync.Mutex
}

// NewDocx creates a sink writing notes into dir. Section headings follow
// the Notion page layout.
func NewDocx(dir string, headings config.NotionHeadingsConfig, log logger.Logger) *Docx {
	return &Docx{dir: dir, headings: headings, logger: log, now: time.Now}
}

func (d *Docx) Name() string { return "docx" }

func (d *Docx) Persist(ctx context.Context, result domain.AnalysisResult, transcript string) error {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return persistError("create notes dir", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	path := uniquePath(d.dir, now.Format("20060102-150405")+"-"+slug(result.TitleOr(domain.DefaultTitle)), ".docx")

	if err := writeNote(path, now, result, transcript, d.headings); err != nil {
		return persistError("write docx note", err)
	}

	d.logger.Info(ctx, "Note written: %s", path)
	return nil
}

func writeNote(path string, at time.Time, result domain.AnalysisResult, transcript string, headings config.NotionHeadingsConfig) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), result.TitleOr(domain.DefaultTitle), true, titleSize)
	addStyledRun(doc.AddParagraph(""), at.Format("2006-01-02 15:04"), false, fontSize)

	if !result.Summary.IsZero() {
		addStyledRun(doc.AddParagraph(""), "Summary", true, headSize)
		if len(result.Summary.Points) > 0 {
			for _, p := range result.Summary.Points {
				addRichText(doc.AddParagraph(""), "• "+p)
			}
		} else {
			addRichText(doc.AddParagraph(""), result.Summary.Text)
		}
	}

	if len(result.KeyPoints) > 0 {
		addStyledRun(doc.AddParagraph(""), headings.KeyPoints, true, headSize)
		for _, p := range result.KeyPoints {
			if strings.TrimSpace(p) == "" {
				continue
			}
			addRichText(doc.AddParagraph(""), "• "+p)
		}
	}

	if len(result.Hashtags) > 0 {
		addRichText(doc.AddParagraph(""), strings.Join(result.Hashtags, " "))
	}

	addStyledRun(doc.AddParagraph(""), headings.Transcript, true, headSize)
	for _, line := range strings.Split(transcript, "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		doc.AddParagraph("").AddText(line).Font(fontName).Size(fontSize).Color("000000")
	}

	return doc.SaveTo(path)
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanMarkdownInline(text)).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

// addRichText renders **bold** spans as bold runs.
func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}

// slug turns a title into a file-name-safe stem, keeping letters of any
// script.
func slug(title string) string {
	var b strings.Builder
	dash := false
	n := 0
	for _, r := range strings.ToLower(title) {
		if n >= maxSlug {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			n++
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
			n++
		}
	}
	s := strings.Trim(b.String(), "-")
	if s == "" {
		return "note"
	}
	return s
}

func uniquePath(dir, stem, ext string) string {
	path := filepath.Join(dir, stem+ext)
	for i := 2; ; i++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
		path = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
	}
}

func persistError(msg string, err error) error {
	return domain.NewStageError(domain.ErrStagePersistence, domain.KindPersistError, msg, err)
}
