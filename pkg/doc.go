// Package pkg provides the libraries behind cardforge, a terminal designer
// for business cards composed by a remote card service.
//
// # Overview
//
// A card is a logo overlaid on a background. The background is either
// generated by the service from a text prompt or uploaded. The pkg
// directory is organized into three areas:
//
//  1. Domain logic: [placement] (where the logo sits) and [form] (the
//     wizard's inputs and step validation)
//  2. Files and previews: [media] (type sniffing, dimension probing and
//     local preview composition)
//  3. Infrastructure: [cardapi] (service client), [config], [httputil]
//     (prompt cache), [progress], [observability], [buildinfo] and
//     [errors]
//
// # Architecture
//
// The typical data flow through cardforge:
//
//	logo + background files
//	         ↓
//	    [media] package (validate, probe natural size)
//	         ↓
//	    [form] package (collect inputs, validate each step)
//	         ↓
//	    [placement] package (drag and scale the logo, clamp to the card)
//	         ↓
//	    [cardapi] package (POST /generate-card)
//	         ↓
//	    PNG/JPEG card
//
// # Quick Start
//
// Place a logo and request a card:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/cardforge/pkg/cardapi"
//	    "github.com/matzehuels/cardforge/pkg/form"
//	    "github.com/matzehuels/cardforge/pkg/media"
//	    "github.com/matzehuels/cardforge/pkg/placement"
//	)
//
//	w := placement.New(placement.FixedContainer{Width: 1032, Height: 648}, nil)
//	f := form.New(w)
//
//	logo, _ := media.Load("logo.png", media.RoleLogo)
//	f.SetLogo(logo)
//	f.SetPrompt("calm ocean at dusk")
//	w.SnapTo(placement.AnchorBottomRight)
//
//	req, _ := f.BeginSubmit()
//	client, _ := cardapi.NewClient("http://localhost:5000")
//	card, err := client.GenerateCard(context.Background(), req)
//	f.FinishSubmit(card, err)
//
// # Placement
//
// [placement] keeps the logo center as fractions of the container and the
// logo size as a multiplier of a base footprint (a quarter of the container
// width, at the logo's aspect ratio). Every mutation clamps the box into the
// container, so the three numbers sent to the service always describe a
// logo that fits on the card.
//
// [placement]: https://pkg.go.dev/github.com/matzehuels/cardforge/pkg/placement
// [form]: https://pkg.go.dev/github.com/matzehuels/cardforge/pkg/form
// [media]: https://pkg.go.dev/github.com/matzehuels/cardforge/pkg/media
// [cardapi]: https://pkg.go.dev/github.com/matzehuels/cardforge/pkg/cardapi
// [config]: https://pkg.go.dev/github.com/matzehuels/cardforge/pkg/config
// [httputil]: https://pkg.go.dev/github.com/matzehuels/cardforge/pkg/httputil
// [progress]: https://pkg.go.dev/github.com/matzehuels/cardforge/pkg/progress
// [observability]: https://pkg.go.dev/github.com/matzehuels/cardforge/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/cardforge/pkg/buildinfo
// [errors]: https://pkg.go.dev/github.com/matzehuels/cardforge/pkg/errors
package pkg
