package imageopt

import (
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/conneroisu/sparkle/internal/asset"
	"github.com/conneroisu/sparkle/internal/logging"
)

// Quality is the encoder quality recorded for generated variants.
const Quality = 80

// PlaceholderWidth is the width of the blurred placeholder variant.
const PlaceholderWidth = 20

// VariantSet names the files derived from one source image.
type VariantSet struct {
	WebP        string          `json:"webp" yaml:"webp"`
	Optimized   string          `json:"optimized" yaml:"optimized"`
	Placeholder string          `json:"placeholder" yaml:"placeholder"`
	Responsive  map[Size]string `json:"responsive" yaml:"responsive"`
}

// Entry is the manifest record for one source image.
type Entry struct {
	Original string     `json:"original" yaml:"original"`
	Width    int        `json:"width" yaml:"width"`
	Height   int        `json:"height" yaml:"height"`
	Variants VariantSet `json:"variants" yaml:"variants"`
}

// Manifest lists every planned image, sorted by original path.
type Manifest struct {
	Quality int     `json:"quality" yaml:"quality"`
	Images  []Entry `json:"images" yaml:"images"`
	Skipped []Skip  `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Skip records an image that could not be planned.
type Skip struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

var (
	sourceExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}
	// Files that are themselves variants of another image.
	variantSuffix = regexp.MustCompile(`-(optimized|placeholder|thumb|sm|md|lg|xl)$`)
)

// Plan computes the variant names for the image at file, reading width and
// height from its header. Variant names are siblings of the source.
func Plan(file string) (Entry, error) {
	width, height, _, err := asset.DecodeFile(file)
	if err != nil {
		return Entry{}, err
	}
	return plan(file, width, height), nil
}

func plan(file string, width, height int) Entry {
	ext := path.Ext(filepath.ToSlash(file))
	responsive := make(map[Size]string, len(Sizes))
	for size := range Sizes {
		responsive[size] = variantName(file, "-"+string(size), ext)
	}

	return Entry{
		Original: file,
		Width:    width,
		Height:   height,
		Variants: VariantSet{
			WebP:        variantName(file, "", ".webp"),
			Optimized:   variantName(file, "-optimized", ext),
			Placeholder: variantName(file, "-placeholder", ext),
			Responsive:  responsive,
		},
	}
}

// IsSource reports whether name is an original image rather than a variant.
func IsSource(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if !sourceExt[ext] {
		return false
	}
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return !variantSuffix.MatchString(base)
}

// BuildManifest walks dir and plans every source image. Images whose header
// cannot be read are recorded as skipped rather than failing the walk.
func BuildManifest(ctx context.Context, dir string, logger logging.Logger) (*Manifest, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.WithComponent("imageopt")

	m := &Manifest{Quality: Quality}
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !IsSource(d.Name()) {
			return nil
		}

		entry, err := Plan(p)
		if err != nil {
			logger.Warn(ctx, err, "Skipping image", "path", p)
			m.Skipped = append(m.Skipped, Skip{Path: p, Reason: err.Error()})
			return nil
		}
		m.Images = append(m.Images, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(m.Images, func(i, j int) bool { return m.Images[i].Original < m.Images[j].Original })
	logger.Info(ctx, "Planned image variants", "images", len(m.Images), "skipped", len(m.Skipped))
	return m, nil
}
