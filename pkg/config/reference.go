package config

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"
)

// ValidateTag checks that tag can be passed to docker build -t: a named
// reference with an optional version and no digest.
func ValidateTag(tag string) error {
	if strings.TrimSpace(tag) == "" {
		return fmt.Errorf("tag cannot be empty")
	}

	named, err := reference.ParseNormalizedNamed(tag)
	if err != nil {
		return fmt.Errorf("tag %q: %w", tag, err)
	}
	if _, ok := named.(reference.Digested); ok {
		return fmt.Errorf("tag %q cannot pin a digest", tag)
	}

	return nil
}

// ValidateImage checks a base image reference for FROM. Digests are allowed;
// an empty image keeps the Dockerfile's own FROM.
func ValidateImage(image string) error {
	if image == "" {
		return nil
	}

	if _, err := reference.ParseNormalizedNamed(image); err != nil {
		return fmt.Errorf("image %q: %w", image, err)
	}
	return nil
}
