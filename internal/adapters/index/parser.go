// Package index parses repository index documents.
package index

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"go.trai.ch/obr/internal/core/domain"
	"go.trai.ch/obr/internal/core/ports"
	"go.trai.ch/zerr"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Parser is a streaming index parser. It holds no per-document state and is safe for
// concurrent use.
type Parser struct {
	logger ports.Logger
}

var _ ports.IndexParser = (*Parser)(nil)

// NewParser creates a Parser reporting skipped resources to logger.
func NewParser(logger ports.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse reads the index document r located at baseURL. Accepted resources carry baseURL.
// Referrals are forwarded with their declared depth; the listener supplies the current depth.
func (p *Parser) Parse(ctx context.Context, r io.Reader, baseURL string, l ports.IndexListener) error {
	src, err := decompress(r)
	if err != nil {
		return p.parseError(err, baseURL)
	}

	doc := &document{
		parser:   p,
		baseURL:  baseURL,
		listener: l,
	}

	dec := xml.NewDecoder(src)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return p.parseError(err, baseURL)
		}

		var action domain.ParseAction
		switch t := tok.(type) {
		case xml.StartElement:
			doc.start(ctx, t)
		case xml.EndElement:
			action = doc.end(t)
		}
		if action == domain.ParseStop {
			return nil
		}
	}
}

func (p *Parser) parseError(err error, baseURL string) error {
	err = zerr.Wrap(err, domain.ErrIndexParseFailed.Error())
	return zerr.With(err, "url", baseURL)
}

// decompress transparently unwraps gzip encoded documents.
func decompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if len(head) == len(gzipMagic) && head[0] == gzipMagic[0] && head[1] == gzipMagic[1] {
		return gzip.NewReader(br)
	}
	return br, nil
}

// document is the transient state of a single Parse call.
type document struct {
	parser   *Parser
	baseURL  string
	listener ports.IndexListener

	resource   *domain.ResourceBuilder
	capability *domain.CapabilityBuilder
	require    *domain.Require
}

func (d *document) start(ctx context.Context, el xml.StartElement) {
	switch el.Name.Local {
	case "resource":
		d.resource = &domain.ResourceBuilder{
			ID:               attr(el, "id"),
			PresentationName: attr(el, "presentationname", "presentation-name"),
			SymbolicName:     attr(el, "symbolicname", "symbolic-name"),
			BaseURL:          d.baseURL,
			URL:              attr(el, "uri", "url"),
			Version:          attr(el, "version"),
		}
	case "capability":
		if d.resource != nil {
			d.capability = domain.NewCapabilityBuilder(attr(el, "name"))
		}
	case "p":
		d.property(attr(el, "n"), attr(el, "t"), attr(el, "v"))
	case "property":
		d.property(attr(el, "name"), attr(el, "type"), attr(el, "value"))
	case "require":
		if d.resource != nil {
			d.require = &domain.Require{
				Name:     attr(el, "name"),
				Filter:   attr(el, "filter"),
				Optional: strings.EqualFold(attr(el, "optional"), "true"),
			}
		}
	case "referral":
		d.listener.Referral(ctx, domain.Referral{
			URL:      attr(el, "url"),
			MaxDepth: depth(attr(el, "depth")),
		})
	}
}

func (d *document) end(el xml.EndElement) domain.ParseAction {
	switch el.Name.Local {
	case "capability":
		if d.capability != nil && d.resource != nil {
			d.resource.AddCapability(d.capability.Build())
		}
		d.capability = nil
	case "require":
		if d.require != nil && d.resource != nil {
			d.resource.AddRequire(*d.require)
		}
		d.require = nil
	case "resource":
		b := d.resource
		d.resource, d.capability, d.require = nil, nil, nil
		if b == nil {
			return domain.ParseContinue
		}
		res, err := b.Build()
		if err != nil {
			d.parser.logger.Error(zerr.With(err, "index", d.baseURL))
			return domain.ParseContinue
		}
		return d.listener.Accept(res)
	}
	return domain.ParseContinue
}

func (d *document) property(name, typ, value string) {
	if d.capability == nil {
		return
	}
	d.capability.AddProperty(domain.Property{Name: name, Type: typ, Value: value})
}

// attr returns the first present attribute among names, matched case-insensitively.
func attr(el xml.StartElement, names ...string) string {
	for _, name := range names {
		for _, a := range el.Attr {
			if strings.EqualFold(a.Name.Local, name) {
				return a.Value
			}
		}
	}
	return ""
}

func depth(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
