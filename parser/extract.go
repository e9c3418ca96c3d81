package parser

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// Item container signatures on the catalogue page.
const (
	ItemSelector = "article.product_pod"
	ItemXPath    = `//article[contains(concat(' ', normalize-space(@class), ' '), ' product_pod ')]`
)

// Block is one detected item container, in document order.
type Block struct {
	Index     int
	Selection *goquery.Selection
}

// Extractor finds item containers in raw markup.
// Finding none is not an error.
type Extractor interface {
	Extract(markup []byte) ([]Block, error)
	Name() string
}

// NewExtractor returns the extractor for an engine name ("css" or "xpath").
func NewExtractor(engine string) (Extractor, error) {
	switch engine {
	case "", "css":
		return CSSExtractor{}, nil
	case "xpath":
		return XPathExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown extraction engine %q", engine)
	}
}

// CSSExtractor matches containers with goquery.
type CSSExtractor struct{}

func (CSSExtractor) Name() string { return "css" }

// Extract implements Extractor.
func (CSSExtractor) Extract(markup []byte) ([]Block, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	var blocks []Block
	doc.Find(ItemSelector).Each(func(i int, sel *goquery.Selection) {
		blocks = append(blocks, Block{Index: i, Selection: sel})
	})
	return blocks, nil
}

// XPathExtractor matches containers with htmlquery and wraps each node for field lookup.
type XPathExtractor struct{}

func (XPathExtractor) Name() string { return "xpath" }

// Extract implements Extractor.
func (XPathExtractor) Extract(markup []byte) ([]Block, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	var nodes []*html.Node
	nodes, err = htmlquery.QueryAll(doc, ItemXPath)
	if err != nil {
		return nil, fmt.Errorf("query containers: %w", err)
	}

	blocks := make([]Block, 0, len(nodes))
	for i, node := range nodes {
		blocks = append(blocks, Block{
			Index:     i,
			Selection: goquery.NewDocumentFromNode(node).Selection,
		})
	}
	return blocks, nil
}
