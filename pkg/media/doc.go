// Package media validates the image files a card is built from and reads
// their intrinsic dimensions.
//
// A logo may be PNG, JPEG or SVG; a background may be PNG or JPEG. Both are
// capped at [MaxFileSize]. The type is decided by sniffing the content, so a
// renamed file is still rejected:
//
//	logo, err := media.Load("brand.svg", media.RoleLogo)
//	if err != nil {
//	    return err // UNSUPPORTED_TYPE, FILE_TOO_LARGE or FILE_NOT_FOUND
//	}
//	widget.LoadLogo(float64(logo.Width), float64(logo.Height))
//
// [ComposePreview] renders a local approximation of the service's overlay
// so a placement can be checked without a network round trip.
package media
