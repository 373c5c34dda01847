package dirindex

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/dustin/go-humanize"
	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"
)

//go:embed templates/*.html
var templateFS embed.FS

// TimeFormat is the layout used for modification times in listings.
const TimeFormat = "2006-01-02 15:04:05"

var columnLabels = map[SortKey]string{
	SortName:  "Name",
	SortMtime: "Last modified",
	SortSize:  "Size",
}

// Page is everything the renderer needs for one listing.
type Page struct {
	// Path is the decoded logical path shown in the header, e.g. "/assets/images/".
	Path string
	// Link is the percent-encoded base path entry links are appended to.
	// It always ends with "/".
	Link string
	// Parent is the link to the parent directory, empty at the mount root.
	Parent string
	// Host is shown in the footer.
	Host    string
	Sort    SortKey
	Entries []DirEntry
}

type sortLink struct {
	Label  string
	Query  string
	Active bool
	Desc   bool
}

type headerData struct {
	Path   string
	Parent string
	Links  []sortLink
}

type entryData struct {
	Name    string
	Href    string
	Kind    string
	ModTime string
	Size    string
	Bytes   int64
}

type footerData struct {
	Host  string
	Count int
}

// Renderer turns a Page into an HTML document using the embedded header,
// entry and footer templates. All names and paths are escaped by
// html/template; links are percent-encoded before they reach it.
type Renderer struct {
	tmpl     *template.Template
	minifier *minify.M
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithMinify strips insignificant whitespace from rendered pages.
func WithMinify() RendererOption {
	return func(r *Renderer) {
		m := minify.New()
		m.Add("text/html", &minhtml.Minifier{
			KeepDocumentTags: true,
			KeepEndTags:      true,
			KeepQuotes:       true,
		})
		r.minifier = m
	}
}

// NewRenderer parses the embedded templates.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := &Renderer{tmpl: tmpl}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Render writes the complete listing for p to w. Entries are rendered in
// the order given; callers sort them first.
func (r *Renderer) Render(w io.Writer, p Page) error {
	var buf bytes.Buffer

	if err := r.tmpl.ExecuteTemplate(&buf, "header.html", headerData{
		Path:   p.Path,
		Parent: p.Parent,
		Links:  sortLinks(p.Sort),
	}); err != nil {
		return fmt.Errorf("render header: %w", err)
	}

	for _, e := range p.Entries {
		if err := r.tmpl.ExecuteTemplate(&buf, "entry.html", newEntryData(p.Link, e)); err != nil {
			return fmt.Errorf("render entry %q: %w", e.Name, err)
		}
	}

	if err := r.tmpl.ExecuteTemplate(&buf, "footer.html", footerData{
		Host:  p.Host,
		Count: len(p.Entries),
	}); err != nil {
		return fmt.Errorf("render footer: %w", err)
	}

	if r.minifier != nil {
		if err := r.minifier.Minify("text/html", w, &buf); err != nil {
			return fmt.Errorf("minify listing: %w", err)
		}
		return nil
	}

	_, err := buf.WriteTo(w)
	return err
}

func sortLinks(current SortKey) []sortLink {
	current = ParseSortKey(string(current))
	links := make([]sortLink, 0, len(SortColumns))

	for _, column := range SortColumns {
		active := current.Column() == column
		links = append(links, sortLink{
			Label:  columnLabels[column],
			Query:  "?sort=" + url.QueryEscape(string(current.Toggle(column))),
			Active: active,
			Desc:   active && current.Desc(),
		})
	}

	return links
}

func newEntryData(base string, e DirEntry) entryData {
	d := entryData{
		Name:    e.Name,
		Href:    base + url.PathEscape(e.Name),
		Kind:    e.Kind.String(),
		ModTime: e.ModTime.Format(TimeFormat),
	}

	switch e.Kind {
	case KindDirectory:
		d.Name += "/"
		d.Href += "/"
	case KindRegular:
		d.Size = humanize.Bytes(uint64(e.Size))
		d.Bytes = e.Size
	case KindSymlink, KindOther:
	}

	return d
}
