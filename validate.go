package deckly

import (
	"slices"
	"strings"

	"github.com/deckly/deckly-go/apierror"
)

// Slide count bounds accepted by the API.
const (
	MinSlideCount = 1
	MaxSlideCount = 50
)

// Templates lists the visual templates the API accepts.
var Templates = []string{ //nolint:gochecknoglobals
	"default",
	"minimal",
	"gradient",
	"corporate",
	"academic",
}

// Tones lists the writing styles the API accepts.
var Tones = []string{ //nolint:gochecknoglobals
	"default",
	"casual",
	"professional",
	"educational",
	"sales_pitch",
}

// checkGenerateOptions rejects malformed generation options before any
// network call. Failures carry KindValidation and are never retried.
func checkGenerateOptions(opts GenerateOptions) error {
	if strings.TrimSpace(opts.Topic) == "" {
		return apierror.New(apierror.KindValidation, "topic must not be empty")
	}

	if opts.SlideCount != 0 && (opts.SlideCount < MinSlideCount || opts.SlideCount > MaxSlideCount) {
		return apierror.Newf(apierror.KindValidation,
			"slide count %d out of range [%d, %d]", opts.SlideCount, MinSlideCount, MaxSlideCount)
	}

	if opts.Template != "" && !slices.Contains(Templates, opts.Template) {
		return apierror.Newf(apierror.KindValidation, "unknown template %q", opts.Template)
	}

	if opts.Tone != "" && !slices.Contains(Tones, opts.Tone) {
		return apierror.Newf(apierror.KindValidation, "unknown tone %q", opts.Tone)
	}

	for _, id := range opts.FileIDs {
		if strings.TrimSpace(id) == "" {
			return apierror.New(apierror.KindValidation, "file ids must not be empty")
		}
	}

	return nil
}
