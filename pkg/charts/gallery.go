// Package charts builds the chart galleries for the stats site:
// interactive HTML charts plus static PNG thumbnails for the gallery
// grid.
package charts

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
)

const thumbnailWidth = 420

// GalleryItem is one chart: a title, a caption for the gallery card,
// and renderers for the interactive HTML version and the PNG
// thumbnail.
type GalleryItem struct {
	Title   string
	Slug    string
	Caption string

	RenderHTML      func(w io.Writer) error
	RenderThumbnail func(w io.Writer) error
}

func NewGalleryItem(title, caption string, html, thumbnail func(w io.Writer) error) GalleryItem {
	return GalleryItem{
		Title:           title,
		Slug:            slug.Make(title),
		Caption:         caption,
		RenderHTML:      html,
		RenderThumbnail: thumbnail,
	}
}

// HTMLFile is the item's file name under the gallery's html dir.
func (i *GalleryItem) HTMLFile() string {
	return i.Slug + ".html"
}

// ThumbnailFile is the item's file name under the gallery's png dir.
func (i *GalleryItem) ThumbnailFile() string {
	return i.Slug + ".png"
}

// Gallery is a named group of charts shown on one category page.
type Gallery struct {
	Name  string
	Slug  string
	Items []GalleryItem
}

func NewGallery(name string, items ...GalleryItem) *Gallery {
	return &Gallery{Name: name, Slug: slug.Make(name), Items: items}
}

// HTMLPath returns the static-relative path of an item's HTML chart.
func (g *Gallery) HTMLPath(item *GalleryItem) string {
	return filepath.Join("charts", "html", g.Slug, item.HTMLFile())
}

// ThumbnailPath returns the static-relative path of an item's
// thumbnail.
func (g *Gallery) ThumbnailPath(item *GalleryItem) string {
	return filepath.Join("charts", "png", g.Slug, item.ThumbnailFile())
}

// WriteStatic renders every item into the static dir: the interactive
// HTML chart and a resized PNG thumbnail.
func (g *Gallery) WriteStatic(staticDir string) error {
	for idx := range g.Items {
		item := &g.Items[idx]

		htmlPath := filepath.Join(staticDir, g.HTMLPath(item))
		if err := os.MkdirAll(filepath.Dir(htmlPath), 0o755); err != nil {
			return errors.Wrapf(err, "creating chart dir for %s", item.Slug)
		}
		f, err := os.Create(htmlPath)
		if err != nil {
			return errors.Wrapf(err, "creating %s", htmlPath)
		}
		err = item.RenderHTML(f)
		_ = f.Close()
		if err != nil {
			return errors.Wrapf(err, "rendering chart %s", item.Slug)
		}

		if err := g.writeThumbnail(staticDir, item); err != nil {
			return err
		}
	}
	return nil
}

func (g *Gallery) writeThumbnail(staticDir string, item *GalleryItem) error {
	var buf bytes.Buffer
	if err := item.RenderThumbnail(&buf); err != nil {
		return errors.Wrapf(err, "rendering thumbnail %s", item.Slug)
	}

	img, err := imaging.Decode(&buf)
	if err != nil {
		return errors.Wrapf(err, "decoding thumbnail %s", item.Slug)
	}

	resized := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)

	path := filepath.Join(staticDir, g.ThumbnailPath(item))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating thumbnail dir for %s", item.Slug)
	}
	return errors.Wrapf(imaging.Save(resized, path), "saving thumbnail %s", item.Slug)
}
