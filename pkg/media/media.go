package media

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/gabriel-vasile/mimetype"

	apperr "github.com/matzehuels/cardforge/pkg/errors"
)

// MaxFileSize is the largest accepted upload, in bytes.
const MaxFileSize = 5 << 20

// Content types accepted by the service.
const (
	TypePNG  = "image/png"
	TypeJPEG = "image/jpeg"
	TypeSVG  = "image/svg+xml"
)

// Role is what an image is used for on the card.
type Role int

const (
	RoleLogo Role = iota
	RoleBackground
)

func (r Role) String() string {
	if r == RoleBackground {
		return "background"
	}
	return "logo"
}

// Allowed returns the content types accepted for r.
func (r Role) Allowed() []string {
	if r == RoleBackground {
		return []string{TypePNG, TypeJPEG}
	}
	return []string{TypePNG, TypeJPEG, TypeSVG}
}

// Image is a validated upload with its natural size.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
	Width       int
	Height      int
}

// Aspect returns height/width.
func (im *Image) Aspect() float64 {
	if im.Width == 0 {
		return 0
	}
	return float64(im.Height) / float64(im.Width)
}

// IsRaster reports whether the image can be decoded to pixels.
func (im *Image) IsRaster() bool { return im.ContentType != TypeSVG }

// Load reads path and validates it for role.
func Load(path string, role Role) (*Image, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, apperr.New(apperr.ErrCodeFileNotFound, "%s file %s does not exist", role, path)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "cannot read %s file %s", role, path)
	}
	if info.IsDir() {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "%s is a directory", path)
	}
	if info.Size() > MaxFileSize {
		return nil, tooLarge(role, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "cannot read %s file %s", role, path)
	}
	return FromBytes(filepath.Base(path), data, role)
}

// FromBytes validates data for role and probes its dimensions.
func FromBytes(name string, data []byte, role Role) (*Image, error) {
	if len(data) == 0 {
		return nil, apperr.New(apperr.ErrCodeMissingFile, "%s file %s is empty", role, name)
	}
	if len(data) > MaxFileSize {
		return nil, tooLarge(role, int64(len(data)))
	}

	ct := Detect(data)
	if !slices.Contains(role.Allowed(), ct) {
		return nil, apperr.New(apperr.ErrCodeUnsupportedType,
			"unsupported %s type %s (allowed: %s)", role, ct, allowedList(role))
	}

	w, h, err := Probe(data, ct)
	if err != nil {
		return nil, err
	}
	return &Image{Name: name, ContentType: ct, Data: data, Width: w, Height: h}, nil
}

// Detect sniffs the content type of data. Accepted image types are
// reported in their canonical form; anything else is returned as detected.
func Detect(data []byte) string {
	m := mimetype.Detect(data)
	for _, t := range []string{TypePNG, TypeJPEG, TypeSVG} {
		if m.Is(t) {
			return t
		}
	}
	return m.String()
}

func tooLarge(role Role, size int64) error {
	return apperr.New(apperr.ErrCodeFileTooLarge,
		"%s file is too large (%.1f MB, max %d MB)", role, float64(size)/(1<<20), MaxFileSize>>20)
}

func allowedList(role Role) string {
	if role == RoleBackground {
		return "PNG, JPEG"
	}
	return "PNG, JPEG, SVG"
}
