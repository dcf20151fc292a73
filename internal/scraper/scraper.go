// Package scraper fetches a recipe page and reduces it to text suitable
// for the structured extraction model. It deliberately avoids deep
// parsing heuristics: JSON-LD recipe blocks are passed through verbatim
// when present, otherwise the page's visible text is used.
package scraper

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const maxContentLength = 30000

// Scraper fetches recipe pages.
type Scraper struct {
	client *http.Client
}

// NewScraper creates a Scraper with a sane request timeout.
func NewScraper() *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchRecipeText retrieves the URL and returns text for the extractor.
func (s *Scraper) FetchRecipeText(url string) (string, error) {
	resp, err := s.client.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	// Prefer embedded JSON-LD; recipe sites usually carry a Recipe block
	// and it is far denser than the rendered page.
	var jsonLD string
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		text := sel.Text()
		if strings.Contains(text, `"Recipe"`) {
			jsonLD = text
		}
	})
	if jsonLD != "" {
		return truncate(jsonLD), nil
	}

	// Remove noise to save model tokens.
	doc.Find("script, style, nav, footer, header, iframe, aside, .ads, #ads").Each(func(_ int, sel *goquery.Selection) {
		sel.Remove()
	})

	text := strings.TrimSpace(doc.Find("body").Text())
	if text == "" {
		return "", fmt.Errorf("page at %s contained no readable text", url)
	}
	return truncate(text), nil
}

func truncate(s string) string {
	if len(s) > maxContentLength {
		return s[:maxContentLength]
	}
	return s
}
