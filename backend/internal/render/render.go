// Package render produces the stored HTML of posts: the nameblock and the
// message body.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"time"

	"github.com/itchan-dev/modcore/shared/domain"
	"github.com/itchan-dev/modcore/shared/text"
	"github.com/microcosm-cc/bluemonday"
)

const nameblockTemplate = `<span class="post-name">` +
	`{{if .Email}}<a href="mailto:{{.Email}}">{{.Name}}</a>{{else}}{{.Name}}{{end}}</span>` +
	`{{if .Tripcode}} <span class="post-trip">!{{.Tripcode}}</span>{{end}}` +
	`{{if .Role}} <span class="post-role post-role-{{.RoleClass}}">## {{.Role}}</span>{{end}}` +
	` <time datetime="{{.ISO}}">{{.Human}}</time>`

const timeFormat = "2006-01-02 15:04:05"

type Renderer struct {
	nameblock  *template.Template
	strict     *bluemonday.Policy
	location   *time.Location
	maxWordLen int
}

type Option func(*Renderer)

// WithLocation sets the zone timestamps are shown in, UTC by default.
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) { r.location = loc }
}

// WithMaxWordLength breaks words longer than n characters, 0 disables it.
func WithMaxWordLength(n int) Option {
	return func(r *Renderer) { r.maxWordLen = n }
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		nameblock: template.Must(template.New("nameblock").Parse(nameblockTemplate)),
		strict:    bluemonday.StrictPolicy(),
		location:  time.UTC,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type nameblockData struct {
	Name      template.HTML
	Email     string
	Tripcode  string
	Role      string
	RoleClass string
	ISO       string
	Human     string
}

// Nameblock renders the post header. name and email arrive entity encoded, so
// they are passed through without a second round of escaping; any markup left
// in them is removed.
func (r *Renderer) Nameblock(name, tripcode, email string, role int, timestamp int64) (string, error) {
	ts := time.Unix(timestamp, 0).In(r.location)
	roleName := domain.RoleName(role)
	data := nameblockData{
		Name:      template.HTML(r.strict.Sanitize(name)),
		Email:     text.DecodeSpecialChars(email),
		Tripcode:  tripcode,
		Role:      roleName,
		RoleClass: strings.ToLower(roleName),
		ISO:       ts.Format(time.RFC3339),
		Human:     ts.Format(timeFormat),
	}

	var buf bytes.Buffer
	if err := r.nameblock.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render nameblock: %w", err)
	}
	return buf.String(), nil
}

var (
	quoteLink  = regexp.MustCompile(`&gt;&gt;(\d+)`)
	quoteStart = regexp.MustCompile(`^&gt;&gt;\d`)
)

func isGreentext(line string) bool {
	return strings.HasPrefix(line, "&gt;") && !quoteStart.MatchString(line)
}

// Message renders a raw message body and cuts it after truncate line breaks,
// truncate <= 0 keeps everything. The cut form is what gets stored, Truncated
// tells the page to link the full post.
func (r *Renderer) Message(boardID domain.BoardID, message string, truncate int) (domain.RenderedMessage, error) {
	message = strings.ReplaceAll(message, "\r\n", "\n")
	message = strings.TrimRight(message, "\n")
	if r.maxWordLen > 0 {
		message = text.BreakLongWords(message, r.maxWordLen)
	}

	lines := strings.Split(text.CleanField(message), "\n")
	for i, line := range lines {
		line = quoteLink.ReplaceAllString(line, fmt.Sprintf(`<a class="post-reference" href="/%s/post/$1">&gt;&gt;$1</a>`, template.URLQueryEscaper(boardID)))
		if isGreentext(lines[i]) {
			line = `<span class="post-quote">` + line + `</span>`
		}
		lines[i] = line
	}

	rendered, truncated := text.TruncateLinebreak(strings.Join(lines, "<br>"), truncate, true)
	return domain.RenderedMessage{Rendered: rendered, Truncated: truncated}, nil
}
