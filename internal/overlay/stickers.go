package overlay

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gogpu/gg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Collection is a named group of sticker ids.
type Collection struct {
	Name string
	IDs  []string
}

// Source delivers sticker images by id.
type Source interface {
	Collections(ctx context.Context) ([]Collection, error)
	Fetch(ctx context.Context, id string) (image.Image, error)
}

var stickerExts = map[string]bool{
	".png": true, ".webp": true, ".bmp": true, ".tif": true, ".tiff": true,
	".gif": true, ".jpg": true, ".jpeg": true,
}

// DirSource serves stickers from a directory tree. Each subdirectory of Root
// is a collection; sticker ids are slash-separated paths relative to Root.
type DirSource struct {
	Root string
}

// Collections lists the subdirectories of Root and their images.
func (d DirSource) Collections(ctx context.Context) ([]Collection, error) {
	entries, err := os.ReadDir(d.Root)
	if err != nil {
		return nil, fmt.Errorf("read sticker dir: %w", err)
	}
	var out []Collection
	for _, ent := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !ent.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(d.Root, ent.Name()))
		if err != nil {
			return nil, fmt.Errorf("read sticker collection %s: %w", ent.Name(), err)
		}
		c := Collection{Name: ent.Name()}
		for _, f := range files {
			if f.IsDir() || !stickerExts[strings.ToLower(filepath.Ext(f.Name()))] {
				continue
			}
			c.IDs = append(c.IDs, path.Join(ent.Name(), f.Name()))
		}
		if len(c.IDs) > 0 {
			out = append(out, c)
		}
	}
	return out, nil
}

// Fetch decodes the sticker file named by id.
func (d DirSource) Fetch(ctx context.Context, id string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := path.Clean("/" + id)[1:]
	if clean == "" || clean != id {
		return nil, fmt.Errorf("invalid sticker id %q", id)
	}
	f, err := os.Open(filepath.Join(d.Root, filepath.FromSlash(clean)))
	if err != nil {
		return nil, fmt.Errorf("open sticker: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode sticker %s: %w", id, err)
	}
	return img, nil
}

// MemorySource serves stickers held in memory.
type MemorySource struct {
	mu     sync.RWMutex
	images map[string]image.Image
	groups map[string][]string
}

// NewMemorySource returns an empty source.
func NewMemorySource() *MemorySource {
	return &MemorySource{images: map[string]image.Image{}, groups: map[string][]string{}}
}

// Add stores img under id in collection.
func (s *MemorySource) Add(collection, id string, img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.images[id]; !ok {
		s.groups[collection] = append(s.groups[collection], id)
	}
	s.images[id] = img
}

func (s *MemorySource) Collections(ctx context.Context) ([]Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.groups))
	for n := range s.groups {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]Collection, 0, len(names))
	for _, n := range names {
		out = append(out, Collection{Name: n, IDs: append([]string(nil), s.groups[n]...)})
	}
	return out, nil
}

func (s *MemorySource) Fetch(ctx context.Context, id string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[id]
	if !ok {
		return nil, fmt.Errorf("sticker %q: %w", id, ErrNotFound)
	}
	return img, nil
}

// PlaceholderSize is the side of the image used for stickers that failed to
// load.
const PlaceholderSize = 96

// Placeholder draws the stand-in for a missing sticker.
func Placeholder() image.Image {
	pm := gg.NewPixmap(PlaceholderSize, PlaceholderSize)
	dc := gg.NewContext(PlaceholderSize, PlaceholderSize, gg.WithPixmap(pm))
	defer dc.Close()
	dc.SetRGBA(0.5, 0.5, 0.5, 0.6)
	dc.DrawRoundedRectangle(2, 2, PlaceholderSize-4, PlaceholderSize-4, 12)
	_ = dc.Fill()
	dc.SetRGBA(1, 1, 1, 0.9)
	dc.SetLineWidth(6)
	dc.SetLineCap(gg.LineCapRound)
	dc.MoveTo(28, 28)
	dc.LineTo(PlaceholderSize-28, PlaceholderSize-28)
	dc.MoveTo(PlaceholderSize-28, 28)
	dc.LineTo(28, PlaceholderSize-28)
	_ = dc.Stroke()
	// pixmap bytes are straight alpha
	return &image.NRGBA{Pix: pm.Data(), Stride: PlaceholderSize * 4, Rect: image.Rect(0, 0, PlaceholderSize, PlaceholderSize)}
}

// Loader caches fetched stickers and substitutes a placeholder when a fetch
// fails.
type Loader struct {
	src Source

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewLoader wraps src.
func NewLoader(src Source) *Loader {
	return &Loader{src: src, cache: map[string]image.Image{}}
}

// Source returns the wrapped source.
func (l *Loader) Source() Source { return l.src }

// Load returns the sticker image for id. On failure it logs, returns the
// placeholder with placeholder set, and returns the error so the host can
// surface it.
func (l *Loader) Load(ctx context.Context, id string) (img image.Image, placeholder bool, err error) {
	l.mu.Lock()
	if img, ok := l.cache[id]; ok {
		l.mu.Unlock()
		return img, false, nil
	}
	l.mu.Unlock()

	if l.src == nil {
		err = fmt.Errorf("sticker %q: no source", id)
	} else {
		img, err = l.src.Fetch(ctx, id)
	}
	if err != nil {
		log.Printf("sticker %s unavailable, using placeholder: %v", id, err)
		return Placeholder(), true, err
	}
	l.mu.Lock()
	l.cache[id] = img
	l.mu.Unlock()
	return img, false, nil
}

// Prefetch loads ids concurrently to warm the cache, as the sticker tray
// does for collections scrolled into view. Failures are logged by Load.
func (l *Loader) Prefetch(ctx context.Context, ids []string) {
	const workers = 4
	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				_, _, _ = l.Load(ctx, id)
			}
		}()
	}
	for _, id := range ids {
		select {
		case jobs <- id:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()
}

// Cached reports whether id has been loaded successfully.
func (l *Loader) Cached(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.cache[id]
	return ok
}
