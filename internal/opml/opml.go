// ABOUTME: OPML 2.0 reading and writing for subscription import/export
// ABOUTME: Flattens nested outlines into feeds, folders from outline nesting

package opml

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"
)

// Document is an OPML file.
type Document struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    Head     `xml:"head"`
	Body    Body     `xml:"body"`
}

// Head carries document metadata.
type Head struct {
	Title       string `xml:"title,omitempty"`
	DateCreated string `xml:"dateCreated,omitempty"`
}

// Body holds the outline tree.
type Body struct {
	Outlines []Outline `xml:"outline"`
}

// Outline is either a feed (XMLURL set) or a folder containing feeds.
type Outline struct {
	Text     string    `xml:"text,attr"`
	Title    string    `xml:"title,attr,omitempty"`
	Type     string    `xml:"type,attr,omitempty"`
	XMLURL   string    `xml:"xmlUrl,attr,omitempty"`
	HTMLURL  string    `xml:"htmlUrl,attr,omitempty"`
	Outlines []Outline `xml:"outline,omitempty"`
}

// Feed is one subscription found in a document, with the folder path of the
// outlines enclosing it.
type Feed struct {
	Title  string
	URL    string
	Folder []string
}

// Parse decodes OPML bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse opml: %w", err)
	}
	return &doc, nil
}

// ParseFile decodes an OPML file from disk.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read opml file: %w", err)
	}
	return Parse(data)
}

// AllFeeds walks the outline tree and returns every feed, depth first.
func (d *Document) AllFeeds() []Feed {
	var feeds []Feed
	for _, outline := range d.Body.Outlines {
		feeds = append(feeds, collectFeeds(outline, nil)...)
	}
	return feeds
}

func collectFeeds(outline Outline, folder []string) []Feed {
	if outline.XMLURL != "" {
		title := outline.Title
		if title == "" {
			title = outline.Text
		}
		return []Feed{{Title: title, URL: outline.XMLURL, Folder: folder}}
	}

	label := outline.Text
	if label == "" {
		label = outline.Title
	}
	child := folder
	if label != "" {
		child = append(append([]string{}, folder...), label)
	}

	var feeds []Feed
	for _, nested := range outline.Outlines {
		feeds = append(feeds, collectFeeds(nested, child)...)
	}
	return feeds
}

// NewDocument creates an empty exportable document.
func NewDocument(title string) *Document {
	return &Document{
		Version: "2.0",
		Head: Head{
			Title:       title,
			DateCreated: time.Now().Format(time.RFC1123Z),
		},
	}
}

// AddFeed appends a feed outline, nesting it under a folder outline when a
// folder is given. Repeated folder names share one outline.
func (d *Document) AddFeed(title, url, folder string) {
	feed := Outline{
		Text:   title,
		Title:  title,
		Type:   "rss",
		XMLURL: url,
	}
	if folder == "" {
		d.Body.Outlines = append(d.Body.Outlines, feed)
		return
	}
	for i := range d.Body.Outlines {
		if d.Body.Outlines[i].XMLURL == "" && d.Body.Outlines[i].Text == folder {
			d.Body.Outlines[i].Outlines = append(d.Body.Outlines[i].Outlines, feed)
			return
		}
	}
	d.Body.Outlines = append(d.Body.Outlines, Outline{
		Text:     folder,
		Title:    folder,
		Outlines: []Outline{feed},
	})
}

// Write renders the document as indented XML with a header.
func (d *Document) Write() ([]byte, error) {
	out, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode opml: %w", err)
	}
	var b strings.Builder
	b.WriteString(xml.Header)
	b.Write(out)
	b.WriteString("\n")
	return []byte(b.String()), nil
}

// WriteFile renders the document to a file.
func (d *Document) WriteFile(path string) error {
	data, err := d.Write()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
