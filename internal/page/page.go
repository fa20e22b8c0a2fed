// Package page injects generated HTML into a static page.
package page

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/chamsin/digest/internal/storage"
)

const UpdatedAttr = "data-updated"

// ErrMarkerNotFound is returned when the selector matches nothing in the page.
var ErrMarkerNotFound = errors.New("marker element not found")

// Inject replaces the inner HTML of the first element matching selector with
// fragment, stamps it with the update time and rewrites the page in place.
func Inject(path, selector, fragment string, now time.Time) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read page: %w", err)
	}

	out, err := Render(data, selector, fragment, now)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat page: %w", err)
	}
	return storage.WriteFileAtomic(path, out, info.Mode().Perm())
}

// Render is Inject without the file I/O.
func Render(page []byte, selector, fragment string, now time.Time) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	marker := doc.Find(selector).First()
	if marker.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMarkerNotFound, selector)
	}
	marker.SetHtml(fragment)
	marker.SetAttr(UpdatedAttr, now.UTC().Format(time.RFC3339))

	html, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}
	return []byte(html), nil
}
